package sqlstore

import (
	"time"

	"github.com/goliatone/go-approvals/core"
	"github.com/uptrace/bun"
)

type outcomeRecord struct {
	bun.BaseModel `bun:"table:approval_outcomes,alias:ao"`

	ID            string    `bun:"id,pk"`
	StoreKey      string    `bun:"store_key,notnull,unique"`
	CorrelationID string    `bun:"correlation_id,notnull"`
	WorkflowRef   *string   `bun:"workflow_ref"`
	NodeRef       *string   `bun:"node_ref"`
	ItemIndex     *int      `bun:"item_index"`
	RecordedAt    time.Time `bun:"recorded_at,notnull"`
	Succeeded     bool      `bun:"succeeded,notnull"`
	TxHashes      []string  `bun:"tx_hashes,type:jsonb,notnull"`
	ErrorCode     *string   `bun:"error_code"`
	Signature     *string   `bun:"signature"`
	Status        string    `bun:"status,notnull"`
	Recipient     *string   `bun:"recipient"`
	Amount        *string   `bun:"amount"`
	Network       string    `bun:"network,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// outcomeAliasRecord is a back-reference, never a second copy: readers
// resolve the alias key to the row behind store_key.
type outcomeAliasRecord struct {
	bun.BaseModel `bun:"table:approval_outcome_aliases,alias:aoa"`

	AliasKey  string    `bun:"alias_key,pk"`
	StoreKey  string    `bun:"store_key,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r *outcomeRecord) toDomain() core.OutcomeRecord {
	if r == nil {
		return core.OutcomeRecord{}
	}
	record := core.OutcomeRecord{
		CorrelationID: r.CorrelationID,
		WorkflowRef:   r.WorkflowRef,
		NodeRef:       r.NodeRef,
		ItemIndex:     r.ItemIndex,
		CreatedAt:     r.RecordedAt.UTC(),
		Succeeded:     r.Succeeded,
		TxHashes:      append([]string{}, r.TxHashes...),
		ErrorCode:     r.ErrorCode,
		Signature:     r.Signature,
		Status:        core.Status(r.Status),
		Recipient:     r.Recipient,
		Amount:        r.Amount,
		Network:       r.Network,
	}
	return record.Clone()
}

func (r *outcomeRecord) applyDomain(storeKey string, record core.OutcomeRecord) {
	if r == nil {
		return
	}
	cloned := record.Clone()
	r.StoreKey = storeKey
	r.CorrelationID = cloned.CorrelationID
	r.WorkflowRef = cloned.WorkflowRef
	r.NodeRef = cloned.NodeRef
	r.ItemIndex = cloned.ItemIndex
	r.RecordedAt = cloned.CreatedAt.UTC()
	r.Succeeded = cloned.Succeeded
	r.TxHashes = cloned.TxHashes
	if r.TxHashes == nil {
		r.TxHashes = []string{}
	}
	r.ErrorCode = cloned.ErrorCode
	r.Signature = cloned.Signature
	r.Status = string(cloned.Status)
	r.Recipient = cloned.Recipient
	r.Amount = cloned.Amount
	r.Network = cloned.Network
}
