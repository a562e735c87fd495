package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-approvals/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ResultStore persists approval outcomes in two tables: one row per
// logical record keyed by store_key, plus an alias table whose rows
// point back at the record. Both tables are always written inside one
// transaction so neither key becomes visible before the other.
type ResultStore struct {
	db   *bun.DB
	repo repository.Repository[*outcomeRecord]
}

func NewResultStore(db *bun.DB) (*ResultStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*outcomeRecord](db, outcomeHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid outcome repository wiring: %w", err)
		}
	}
	return &ResultStore{db: db, repo: repo}, nil
}

func (s *ResultStore) Put(ctx context.Context, key string, record core.OutcomeRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: result store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("sqlstore: store key is required")
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := upsertOutcomeTx(ctx, tx, key, record); err != nil {
			return err
		}
		// The key is a primary now; any stale alias row under the same
		// name would shadow future reads.
		_, err := tx.NewDelete().
			Model((*outcomeAliasRecord)(nil)).
			Where("alias_key = ?", key).
			Exec(ctx)
		return err
	})
}

func (s *ResultStore) PutAliased(ctx context.Context, primary string, alias string, record core.OutcomeRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: result store is not configured")
	}
	primary = strings.TrimSpace(primary)
	alias = strings.TrimSpace(alias)
	if primary == "" {
		return fmt.Errorf("sqlstore: primary store key is required")
	}
	if alias == "" || alias == primary {
		return s.Put(ctx, primary, record)
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := upsertOutcomeTx(ctx, tx, primary, record); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*outcomeRecord)(nil)).
			Where("store_key = ?", alias).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*outcomeAliasRecord)(nil)).
			Where("alias_key = ?", alias).
			Exec(ctx); err != nil {
			return err
		}
		aliasRow := &outcomeAliasRecord{
			AliasKey:  alias,
			StoreKey:  primary,
			CreatedAt: time.Now().UTC(),
		}
		_, err := tx.NewInsert().Model(aliasRow).Exec(ctx)
		return err
	})
}

func (s *ResultStore) Get(ctx context.Context, key string) (core.OutcomeRecord, bool, error) {
	if s == nil || s.db == nil {
		return core.OutcomeRecord{}, false, fmt.Errorf("sqlstore: result store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return core.OutcomeRecord{}, false, nil
	}

	record, found, err := s.findByStoreKey(ctx, key)
	if err != nil || found {
		return record, found, err
	}

	aliasRow := &outcomeAliasRecord{}
	err = s.db.NewSelect().
		Model(aliasRow).
		Where("?TableAlias.alias_key = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.OutcomeRecord{}, false, nil
		}
		return core.OutcomeRecord{}, false, err
	}
	return s.findByStoreKey(ctx, aliasRow.StoreKey)
}

func (s *ResultStore) ListAll(ctx context.Context) ([]core.StoredState, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: result store is not configured")
	}

	var rows []*outcomeRecord
	if err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("?TableAlias.store_key ASC").
		Scan(ctx); err != nil {
		return nil, err
	}

	byKey := make(map[string]core.OutcomeRecord, len(rows))
	states := make([]core.StoredState, 0, len(rows))
	for _, row := range rows {
		record := row.toDomain()
		byKey[row.StoreKey] = record
		states = append(states, core.StoredState{Key: row.StoreKey, Record: record})
	}

	var aliases []*outcomeAliasRecord
	if err := s.db.NewSelect().
		Model(&aliases).
		OrderExpr("?TableAlias.alias_key ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	for _, alias := range aliases {
		record, ok := byKey[alias.StoreKey]
		if !ok {
			continue
		}
		states = append(states, core.StoredState{Key: alias.AliasKey, Record: record.Clone()})
	}
	return states, nil
}

func (s *ResultStore) Len(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: result store is not configured")
	}
	outcomes, err := s.db.NewSelect().Model((*outcomeRecord)(nil)).Count(ctx)
	if err != nil {
		return 0, err
	}
	aliases, err := s.db.NewSelect().Model((*outcomeAliasRecord)(nil)).Count(ctx)
	if err != nil {
		return 0, err
	}
	return outcomes + aliases, nil
}

func (s *ResultStore) Clear(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: result store is not configured")
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*outcomeAliasRecord)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*outcomeRecord)(nil)).
			Where("1 = 1").
			Exec(ctx)
		return err
	})
}

func (s *ResultStore) findByStoreKey(ctx context.Context, key string) (core.OutcomeRecord, bool, error) {
	row := &outcomeRecord{}
	err := s.db.NewSelect().
		Model(row).
		Where("?TableAlias.store_key = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.OutcomeRecord{}, false, nil
		}
		return core.OutcomeRecord{}, false, err
	}
	return row.toDomain(), true, nil
}

func upsertOutcomeTx(ctx context.Context, tx bun.Tx, key string, record core.OutcomeRecord) error {
	now := time.Now().UTC()
	row := &outcomeRecord{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	row.applyDomain(key, record)

	_, err := tx.NewInsert().
		Model(row).
		On("CONFLICT (store_key) DO UPDATE").
		Set("correlation_id = EXCLUDED.correlation_id").
		Set("workflow_ref = EXCLUDED.workflow_ref").
		Set("node_ref = EXCLUDED.node_ref").
		Set("item_index = EXCLUDED.item_index").
		Set("recorded_at = EXCLUDED.recorded_at").
		Set("succeeded = EXCLUDED.succeeded").
		Set("tx_hashes = EXCLUDED.tx_hashes").
		Set("error_code = EXCLUDED.error_code").
		Set("signature = EXCLUDED.signature").
		Set("status = EXCLUDED.status").
		Set("recipient = EXCLUDED.recipient").
		Set("amount = EXCLUDED.amount").
		Set("network = EXCLUDED.network").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
