package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/goliatone/go-approvals/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const outcomeCacheKeyPrefix = "go-approvals::outcome::v1"

type cachedOutcome struct {
	Record core.OutcomeRecord
	Found  bool
}

// CachedResultStore is a read-through cache over any ResultStore.
// Writes invalidate the touched keys; Clear bumps a generation counter
// baked into every cache key, which orphans all previous entries at
// once since the backing cache has no bulk delete.
type CachedResultStore struct {
	base       core.ResultStore
	cache      repositorycache.CacheService
	generation atomic.Int64
}

func NewCachedResultStore(base core.ResultStore, cacheService repositorycache.CacheService) (*CachedResultStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base result store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: result cache service is required")
	}
	return &CachedResultStore{base: base, cache: cacheService}, nil
}

// OutcomeCacheKey returns the deterministic cache key contract for
// outcome reads: go-approvals::outcome::v1::g<generation>::<key>
// with the store key URL-path escaped.
func (s *CachedResultStore) OutcomeCacheKey(key string) string {
	return strings.Join([]string{
		outcomeCacheKeyPrefix,
		"g" + strconv.FormatInt(s.generation.Load(), 10),
		url.PathEscape(strings.TrimSpace(key)),
	}, "::")
}

func (s *CachedResultStore) Put(ctx context.Context, key string, record core.OutcomeRecord) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached result store is not configured")
	}
	if err := s.base.Put(ctx, key, record); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.OutcomeCacheKey(key))
}

func (s *CachedResultStore) PutAliased(ctx context.Context, primary string, alias string, record core.OutcomeRecord) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached result store is not configured")
	}
	if err := s.base.PutAliased(ctx, primary, alias, record); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, s.OutcomeCacheKey(primary)); err != nil {
		return err
	}
	if alias != "" && alias != primary {
		return s.cache.Delete(ctx, s.OutcomeCacheKey(alias))
	}
	return nil
}

func (s *CachedResultStore) Get(ctx context.Context, key string) (core.OutcomeRecord, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.OutcomeRecord{}, false, fmt.Errorf("sqlstore: cached result store is not configured")
	}

	cached, err := repositorycache.GetOrFetch(ctx, s.cache, s.OutcomeCacheKey(key), func(ctx context.Context) (cachedOutcome, error) {
		record, found, fetchErr := s.base.Get(ctx, key)
		if fetchErr != nil {
			return cachedOutcome{}, fetchErr
		}
		return cachedOutcome{Record: record.Clone(), Found: found}, nil
	})
	if err != nil {
		return core.OutcomeRecord{}, false, err
	}
	return cached.Record.Clone(), cached.Found, nil
}

func (s *CachedResultStore) ListAll(ctx context.Context) ([]core.StoredState, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached result store is not configured")
	}
	return s.base.ListAll(ctx)
}

func (s *CachedResultStore) Len(ctx context.Context) (int, error) {
	if s == nil || s.base == nil {
		return 0, fmt.Errorf("sqlstore: cached result store is not configured")
	}
	return s.base.Len(ctx)
}

func (s *CachedResultStore) Clear(ctx context.Context) error {
	if s == nil || s.base == nil {
		return fmt.Errorf("sqlstore: cached result store is not configured")
	}
	if err := s.base.Clear(ctx); err != nil {
		return err
	}
	s.generation.Add(1)
	return nil
}
