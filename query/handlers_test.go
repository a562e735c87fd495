package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-approvals/core"
)

type stubResultReader struct {
	resultFn         func(ctx context.Context, correlationID string) (core.OutcomeRecord, error)
	resultByLegacyFn func(ctx context.Context, workflowID, nodeID, itemIndex string) (core.OutcomeRecord, error)
}

func (s stubResultReader) Result(ctx context.Context, correlationID string) (core.OutcomeRecord, error) {
	if s.resultFn == nil {
		return core.OutcomeRecord{}, errors.New("unexpected Result call")
	}
	return s.resultFn(ctx, correlationID)
}

func (s stubResultReader) ResultByLegacy(ctx context.Context, workflowID, nodeID, itemIndex string) (core.OutcomeRecord, error) {
	if s.resultByLegacyFn == nil {
		return core.OutcomeRecord{}, errors.New("unexpected ResultByLegacy call")
	}
	return s.resultByLegacyFn(ctx, workflowID, nodeID, itemIndex)
}

type stubStateReader struct {
	listStatesFn func(ctx context.Context) ([]core.StoredState, error)
	healthFn     func(ctx context.Context) (core.HealthStatus, error)
}

func (s stubStateReader) ListStates(ctx context.Context) ([]core.StoredState, error) {
	if s.listStatesFn == nil {
		return nil, errors.New("unexpected ListStates call")
	}
	return s.listStatesFn(ctx)
}

func (s stubStateReader) Health(ctx context.Context) (core.HealthStatus, error) {
	if s.healthFn == nil {
		return core.HealthStatus{}, errors.New("unexpected Health call")
	}
	return s.healthFn(ctx)
}

func TestGetResultQuery_DelegatesToReader(t *testing.T) {
	expected := core.OutcomeRecord{CorrelationID: "tx1", Succeeded: true, Status: core.StatusCompleted}
	reader := stubResultReader{
		resultFn: func(_ context.Context, correlationID string) (core.OutcomeRecord, error) {
			if correlationID != "tx1" {
				t.Fatalf("expected correlation id tx1, got %q", correlationID)
			}
			return expected, nil
		},
	}

	out, err := NewGetResultQuery(reader).Query(context.Background(), GetResultMessage{CorrelationID: "tx1"})
	if err != nil {
		t.Fatalf("query result: %v", err)
	}
	if out.CorrelationID != expected.CorrelationID {
		t.Fatalf("unexpected record: %#v", out)
	}
}

func TestGetLegacyResultQuery_DelegatesToReader(t *testing.T) {
	reader := stubResultReader{
		resultByLegacyFn: func(_ context.Context, workflowID, nodeID, itemIndex string) (core.OutcomeRecord, error) {
			if workflowID != "wf1" || nodeID != "n1" || itemIndex != "0" {
				t.Fatalf("unexpected legacy triplet: %q %q %q", workflowID, nodeID, itemIndex)
			}
			return core.OutcomeRecord{CorrelationID: "wf1-n1-0"}, nil
		},
	}

	out, err := NewGetLegacyResultQuery(reader).Query(context.Background(), GetLegacyResultMessage{
		WorkflowID: "wf1",
		NodeID:     "n1",
		ItemIndex:  "0",
	})
	if err != nil {
		t.Fatalf("query legacy result: %v", err)
	}
	if out.CorrelationID != "wf1-n1-0" {
		t.Fatalf("unexpected record: %#v", out)
	}
}

func TestListStatesQuery_DelegatesToReader(t *testing.T) {
	reader := stubStateReader{
		listStatesFn: func(context.Context) ([]core.StoredState, error) {
			return []core.StoredState{{Key: "tx1"}, {Key: "wf1-n1-0"}}, nil
		},
	}

	out, err := NewListStatesQuery(reader).Query(context.Background(), ListStatesMessage{})
	if err != nil {
		t.Fatalf("query states: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected two states, got %d", len(out))
	}
}

func TestGetHealthQuery_DelegatesToReader(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	reader := stubStateReader{
		healthFn: func(context.Context) (core.HealthStatus, error) {
			return core.HealthStatus{Status: "healthy", Timestamp: now, StoredStates: 3}, nil
		},
	}

	out, err := NewGetHealthQuery(reader).Query(context.Background(), GetHealthMessage{})
	if err != nil {
		t.Fatalf("query health: %v", err)
	}
	if out.Status != "healthy" || out.StoredStates != 3 {
		t.Fatalf("unexpected health: %#v", out)
	}
}

func TestQueries_RequireReader(t *testing.T) {
	if _, err := NewGetResultQuery(nil).Query(context.Background(), GetResultMessage{CorrelationID: "tx1"}); err == nil {
		t.Fatal("expected dependency error for nil result reader")
	}
	if _, err := NewListStatesQuery(nil).Query(context.Background(), ListStatesMessage{}); err == nil {
		t.Fatal("expected dependency error for nil state reader")
	}
}

func TestMessages_Validate(t *testing.T) {
	if err := (GetResultMessage{}).Validate(); err == nil {
		t.Fatal("expected validation error for empty correlation id")
	}
	if err := (GetResultMessage{CorrelationID: "tx1"}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if err := (GetLegacyResultMessage{WorkflowID: "wf1", NodeID: "n1"}).Validate(); err == nil {
		t.Fatal("expected validation error for missing item index")
	}
}
