package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-approvals/core"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

func NewResultStoreFromPersistence(client *persistence.Client) (*ResultStore, error) {
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	return NewResultStore(db)
}

func NewResultStoreFromDB(db *bun.DB) (*ResultStore, error) {
	return NewResultStore(db)
}

// NewCachedResultStoreFromPersistence wires the SQL store behind the
// read-through cache in one call for cmd wiring. A nil cache service
// yields the uncached store.
func NewCachedResultStoreFromPersistence(
	client *persistence.Client,
	cacheService repositorycache.CacheService,
) (core.ResultStore, error) {
	base, err := NewResultStoreFromPersistence(client)
	if err != nil {
		return nil, err
	}
	if cacheService == nil {
		return base, nil
	}
	return NewCachedResultStore(base, cacheService)
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
