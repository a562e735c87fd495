package core

import (
	"context"
	"strings"
	"sync"
)

// InMemoryResultStore keeps outcome records for the lifetime of the
// process. Records live under their primary key; legacy keys are pure
// aliases resolved at read time, so both lookup paths always observe
// the same logical record.
type InMemoryResultStore struct {
	mu      sync.RWMutex
	records map[string]OutcomeRecord
	aliases map[string]string
}

func NewInMemoryResultStore() *InMemoryResultStore {
	return &InMemoryResultStore{
		records: map[string]OutcomeRecord{},
		aliases: map[string]string{},
	}
}

func (s *InMemoryResultStore) Put(_ context.Context, key string, record OutcomeRecord) error {
	if s == nil {
		return coreInternal("core: result store is nil", nil)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return coreBadInput("core: store key is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record.Clone()
	// A direct write supersedes any alias previously parked on the key.
	delete(s.aliases, key)
	return nil
}

func (s *InMemoryResultStore) PutAliased(
	_ context.Context,
	primary string,
	alias string,
	record OutcomeRecord,
) error {
	if s == nil {
		return coreInternal("core: result store is nil", nil)
	}
	primary = strings.TrimSpace(primary)
	if primary == "" {
		return coreBadInput("core: primary store key is required", nil)
	}
	alias = strings.TrimSpace(alias)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[primary] = record.Clone()
	delete(s.aliases, primary)
	if alias != "" && alias != primary {
		s.aliases[alias] = primary
		delete(s.records, alias)
	}
	return nil
}

func (s *InMemoryResultStore) Get(_ context.Context, key string) (OutcomeRecord, bool, error) {
	if s == nil {
		return OutcomeRecord{}, false, coreInternal("core: result store is nil", nil)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return OutcomeRecord{}, false, coreBadInput("core: store key is required", nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[key]; ok {
		return record.Clone(), true, nil
	}
	if target, ok := s.aliases[key]; ok {
		if record, found := s.records[target]; found {
			return record.Clone(), true, nil
		}
	}
	return OutcomeRecord{}, false, nil
}

func (s *InMemoryResultStore) ListAll(_ context.Context) ([]StoredState, error) {
	if s == nil {
		return nil, coreInternal("core: result store is nil", nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	states := make([]StoredState, 0, len(s.records)+len(s.aliases))
	for key, record := range s.records {
		states = append(states, StoredState{Key: key, Record: record.Clone()})
	}
	for alias, target := range s.aliases {
		record, ok := s.records[target]
		if !ok {
			continue
		}
		states = append(states, StoredState{Key: alias, Record: record.Clone()})
	}
	return states, nil
}

func (s *InMemoryResultStore) Len(_ context.Context) (int, error) {
	if s == nil {
		return 0, coreInternal("core: result store is nil", nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records) + len(s.aliases), nil
}

func (s *InMemoryResultStore) Clear(_ context.Context) error {
	if s == nil {
		return coreInternal("core: result store is nil", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = map[string]OutcomeRecord{}
	s.aliases = map[string]string{}
	return nil
}

var _ ResultStore = (*InMemoryResultStore)(nil)
