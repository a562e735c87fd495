package query

import (
	"context"

	"github.com/goliatone/go-approvals/core"
)

type ResultReader interface {
	Result(ctx context.Context, correlationID string) (core.OutcomeRecord, error)
	ResultByLegacy(ctx context.Context, workflowID, nodeID, itemIndex string) (core.OutcomeRecord, error)
}

type StateReader interface {
	ListStates(ctx context.Context) ([]core.StoredState, error)
	Health(ctx context.Context) (core.HealthStatus, error)
}

type GetResultQuery struct {
	reader ResultReader
}

func NewGetResultQuery(reader ResultReader) *GetResultQuery {
	return &GetResultQuery{reader: reader}
}

func (q *GetResultQuery) Query(ctx context.Context, msg GetResultMessage) (core.OutcomeRecord, error) {
	if q == nil || q.reader == nil {
		return core.OutcomeRecord{}, queryDependencyError("query: result reader is required")
	}
	return q.reader.Result(ctx, msg.CorrelationID)
}

type GetLegacyResultQuery struct {
	reader ResultReader
}

func NewGetLegacyResultQuery(reader ResultReader) *GetLegacyResultQuery {
	return &GetLegacyResultQuery{reader: reader}
}

func (q *GetLegacyResultQuery) Query(
	ctx context.Context,
	msg GetLegacyResultMessage,
) (core.OutcomeRecord, error) {
	if q == nil || q.reader == nil {
		return core.OutcomeRecord{}, queryDependencyError("query: result reader is required")
	}
	return q.reader.ResultByLegacy(ctx, msg.WorkflowID, msg.NodeID, msg.ItemIndex)
}

type ListStatesQuery struct {
	reader StateReader
}

func NewListStatesQuery(reader StateReader) *ListStatesQuery {
	return &ListStatesQuery{reader: reader}
}

func (q *ListStatesQuery) Query(ctx context.Context, msg ListStatesMessage) ([]core.StoredState, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: state reader is required")
	}
	return q.reader.ListStates(ctx)
}

type GetHealthQuery struct {
	reader StateReader
}

func NewGetHealthQuery(reader StateReader) *GetHealthQuery {
	return &GetHealthQuery{reader: reader}
}

func (q *GetHealthQuery) Query(ctx context.Context, msg GetHealthMessage) (core.HealthStatus, error) {
	if q == nil || q.reader == nil {
		return core.HealthStatus{}, queryDependencyError("query: state reader is required")
	}
	return q.reader.Health(ctx)
}
