package core

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

const DefaultNetwork = "mainnet"

// OutcomeRecord is the stored result of one external approval request.
// JSON names follow the wallet callback wire format consumed by the
// original automation pollers, so they must not change.
type OutcomeRecord struct {
	CorrelationID string    `json:"transactionId"`
	WorkflowRef   *string   `json:"workflowId"`
	NodeRef       *string   `json:"nodeId"`
	ItemIndex     *int      `json:"itemIndex"`
	CreatedAt     time.Time `json:"timestamp"`
	Succeeded     bool      `json:"success"`
	TxHashes      []string  `json:"transactionHashes"`
	ErrorCode     *string   `json:"errorCode"`
	Signature     *string   `json:"signature"`
	Status        Status    `json:"status"`
	Recipient     *string   `json:"recipient"`
	Amount        *string   `json:"amount"`
	Network       string    `json:"network"`
}

func (r OutcomeRecord) Validate() error {
	if strings.TrimSpace(r.CorrelationID) == "" {
		return fmt.Errorf("core: correlation id is required")
	}
	if r.Succeeded != (r.ErrorCode == nil) {
		return fmt.Errorf("core: succeeded must mirror the absence of an error code")
	}
	if r.Succeeded && r.Status != StatusCompleted {
		return fmt.Errorf("core: succeeded outcome must carry status %q", StatusCompleted)
	}
	if !r.Succeeded && r.Status != StatusRejected {
		return fmt.Errorf("core: failed outcome must carry status %q", StatusRejected)
	}
	return nil
}

// Clone returns a deep copy so stored records never share slices or
// pointers with caller-held values.
func (r OutcomeRecord) Clone() OutcomeRecord {
	cloned := r
	if r.TxHashes != nil {
		cloned.TxHashes = make([]string, len(r.TxHashes))
		copy(cloned.TxHashes, r.TxHashes)
	}
	cloned.WorkflowRef = cloneStringPointer(r.WorkflowRef)
	cloned.NodeRef = cloneStringPointer(r.NodeRef)
	cloned.ItemIndex = cloneIntPointer(r.ItemIndex)
	cloned.ErrorCode = cloneStringPointer(r.ErrorCode)
	cloned.Signature = cloneStringPointer(r.Signature)
	cloned.Recipient = cloneStringPointer(r.Recipient)
	cloned.Amount = cloneStringPointer(r.Amount)
	return cloned
}

// IngestPayload is the transport-agnostic shape of one signing
// callback. All fields arrive as raw strings; normalization happens in
// the relay service, not at the transport edge.
type IngestPayload struct {
	TransactionID     string
	TransactionHashes string
	ErrorCode         string
	WorkflowID        string
	NodeID            string
	ItemIndex         string
	Signature         string
	Recipient         string
	Amount            string
	Network           string
}

// CorrelationKey identifies a pending approval. Legacy is empty when
// the workflow/node/item triplet is incomplete.
type CorrelationKey struct {
	Primary     string
	Legacy      string
	Synthesized bool
}

type StoredState struct {
	Key    string
	Record OutcomeRecord
}

type HealthStatus struct {
	Status       string
	Timestamp    time.Time
	Uptime       time.Duration
	StoredStates int
}

func cloneStringPointer(input *string) *string {
	if input == nil {
		return nil
	}
	value := *input
	return &value
}

func cloneIntPointer(input *int) *int {
	if input == nil {
		return nil
	}
	value := *input
	return &value
}
