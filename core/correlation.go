package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const unknownRefSentinel = "unknown"

// KeyBuilder derives the correlation key for a pending approval. A
// caller-supplied transaction id wins verbatim; otherwise a key is
// synthesized from the workflow context, the current time, and a random
// suffix so concurrent synthesized calls cannot collide.
type KeyBuilder struct {
	Now       func() time.Time
	NewSuffix func() string
}

func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{
		Now: func() time.Time {
			return time.Now().UTC()
		},
		NewSuffix: defaultKeySuffix,
	}
}

func (b *KeyBuilder) Resolve(payload IngestPayload) CorrelationKey {
	key := CorrelationKey{
		Primary: strings.TrimSpace(payload.TransactionID),
	}
	if key.Primary == "" {
		key.Primary = b.Synthesize(payload.WorkflowID, payload.NodeID, payload.ItemIndex)
		key.Synthesized = true
	}
	if legacy, ok := LegacyKey(payload.WorkflowID, payload.NodeID, payload.ItemIndex); ok {
		key.Legacy = legacy
	}
	return key
}

// Synthesize keeps the historical tx_<workflow>_<node>_<item>_<millis>
// prefix shape that downstream consumers grep for, and appends a random
// suffix to rule out collisions between concurrent callbacks.
func (b *KeyBuilder) Synthesize(workflowRef string, nodeRef string, itemIndex string) string {
	workflow := strings.TrimSpace(workflowRef)
	if workflow == "" {
		workflow = unknownRefSentinel
	}
	node := strings.TrimSpace(nodeRef)
	if node == "" {
		node = unknownRefSentinel
	}
	item := strings.TrimSpace(itemIndex)
	if item == "" {
		item = "0"
	}
	return fmt.Sprintf("tx_%s_%s_%s_%d_%s", workflow, node, item, b.now().UnixMilli(), b.suffix())
}

// LegacyKey joins the workflow/node/item triplet retained for callers
// predating correlation ids. It exists only when all three are present.
func LegacyKey(workflowRef string, nodeRef string, itemIndex string) (string, bool) {
	workflow := strings.TrimSpace(workflowRef)
	node := strings.TrimSpace(nodeRef)
	item := strings.TrimSpace(itemIndex)
	if workflow == "" || node == "" || item == "" {
		return "", false
	}
	return strings.Join([]string{workflow, node, item}, "-"), true
}

func (b *KeyBuilder) now() time.Time {
	if b != nil && b.Now != nil {
		return b.Now().UTC()
	}
	return time.Now().UTC()
}

func (b *KeyBuilder) suffix() string {
	if b != nil && b.NewSuffix != nil {
		if suffix := strings.TrimSpace(b.NewSuffix()); suffix != "" {
			return suffix
		}
	}
	return defaultKeySuffix()
}

func defaultKeySuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
