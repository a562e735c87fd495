package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func testRecord(correlationID string) OutcomeRecord {
	return OutcomeRecord{
		CorrelationID: correlationID,
		CreatedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Succeeded:     true,
		TxHashes:      []string{"0xabc"},
		Status:        StatusCompleted,
		Network:       DefaultNetwork,
	}
}

func TestInMemoryResultStore_PutAliasedVisibleUnderBothKeys(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryResultStore()

	record := testRecord("tx1")
	if err := store.PutAliased(ctx, "tx1", "wf1-n1-0", record); err != nil {
		t.Fatalf("put aliased: %v", err)
	}

	primary, found, err := store.Get(ctx, "tx1")
	if err != nil || !found {
		t.Fatalf("expected primary lookup hit, found=%v err=%v", found, err)
	}
	legacy, found, err := store.Get(ctx, "wf1-n1-0")
	if err != nil || !found {
		t.Fatalf("expected legacy lookup hit, found=%v err=%v", found, err)
	}
	if primary.CorrelationID != legacy.CorrelationID || primary.Status != legacy.Status {
		t.Fatalf("expected identical content from both lookup paths")
	}

	size, err := store.Len(ctx)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if size != 2 {
		t.Fatalf("expected both keys counted, got %d", size)
	}
}

func TestInMemoryResultStore_AliasTracksLatestPrimaryWrite(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryResultStore()

	first := testRecord("tx1")
	if err := store.PutAliased(ctx, "tx1", "wf1-n1-0", first); err != nil {
		t.Fatalf("put aliased: %v", err)
	}

	second := testRecord("tx1")
	errorCode := "user_rejected"
	second.Succeeded = false
	second.ErrorCode = &errorCode
	second.Status = StatusRejected
	second.TxHashes = []string{}
	if err := store.PutAliased(ctx, "tx1", "wf1-n1-0", second); err != nil {
		t.Fatalf("overwrite aliased: %v", err)
	}

	for _, key := range []string{"tx1", "wf1-n1-0"} {
		record, found, err := store.Get(ctx, key)
		if err != nil || !found {
			t.Fatalf("lookup %q: found=%v err=%v", key, found, err)
		}
		if record.Status != StatusRejected {
			t.Fatalf("expected overwrite visible under %q, got status %q", key, record.Status)
		}
		if len(record.TxHashes) != 0 {
			t.Fatalf("expected replacement, not merge, under %q", key)
		}
	}
}

func TestInMemoryResultStore_LastWriteWinsReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryResultStore()

	first := testRecord("tx1")
	first.TxHashes = []string{"0xabc", "0xdef"}
	if err := store.Put(ctx, "tx1", first); err != nil {
		t.Fatalf("first put: %v", err)
	}

	second := testRecord("tx1")
	second.TxHashes = []string{"0x999"}
	if err := store.Put(ctx, "tx1", second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	record, found, err := store.Get(ctx, "tx1")
	if err != nil || !found {
		t.Fatalf("lookup: found=%v err=%v", found, err)
	}
	if len(record.TxHashes) != 1 || record.TxHashes[0] != "0x999" {
		t.Fatalf("expected wholesale replacement, got %v", record.TxHashes)
	}
}

func TestInMemoryResultStore_GetMissReturnsNotFoundSignal(t *testing.T) {
	store := NewInMemoryResultStore()
	_, found, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("expected not-found signal for unknown key")
	}
}

func TestInMemoryResultStore_ClearRemovesRecordsAndAliases(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryResultStore()

	if err := store.PutAliased(ctx, "tx1", "wf1-n1-0", testRecord("tx1")); err != nil {
		t.Fatalf("put aliased: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	states, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(states) != 0 {
		t.Fatalf("expected empty store after clear, got %d entries", len(states))
	}
	size, err := store.Len(ctx)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if size != 0 {
		t.Fatalf("expected size 0 after clear, got %d", size)
	}
}

func TestInMemoryResultStore_StoredRecordsDoNotShareSlices(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryResultStore()

	record := testRecord("tx1")
	record.TxHashes = []string{"0xabc"}
	if err := store.Put(ctx, "tx1", record); err != nil {
		t.Fatalf("put: %v", err)
	}
	record.TxHashes[0] = "0xmutated"

	stored, _, err := store.Get(ctx, "tx1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.TxHashes[0] != "0xabc" {
		t.Fatalf("expected stored record isolated from caller mutation, got %q", stored.TxHashes[0])
	}
}

func TestInMemoryResultStore_ConcurrentPutGet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryResultStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		key := fmt.Sprintf("tx-%d", i%8)
		go func(key string) {
			defer wg.Done()
			_ = store.Put(ctx, key, testRecord(key))
		}(key)
		go func(key string) {
			defer wg.Done()
			_, _, _ = store.Get(ctx, key)
		}(key)
	}
	wg.Wait()

	size, err := store.Len(ctx)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if size != 8 {
		t.Fatalf("expected 8 distinct keys, got %d", size)
	}
}
