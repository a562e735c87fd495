package query

import (
	"github.com/goliatone/go-approvals/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[GetResultMessage, core.OutcomeRecord]       = (*GetResultQuery)(nil)
	_ gocmd.Querier[GetLegacyResultMessage, core.OutcomeRecord] = (*GetLegacyResultQuery)(nil)
	_ gocmd.Querier[ListStatesMessage, []core.StoredState]      = (*ListStatesQuery)(nil)
	_ gocmd.Querier[GetHealthMessage, core.HealthStatus]        = (*GetHealthQuery)(nil)
)
