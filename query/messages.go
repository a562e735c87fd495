package query

import (
	"fmt"
	"strings"
)

const (
	TypeGetResult       = "approvals.query.result.get"
	TypeGetLegacyResult = "approvals.query.result.get_legacy"
	TypeListStates      = "approvals.query.states.list"
	TypeGetHealth       = "approvals.query.health.get"
)

type GetResultMessage struct {
	CorrelationID string
}

func (GetResultMessage) Type() string { return TypeGetResult }

func (m GetResultMessage) Validate() error {
	if strings.TrimSpace(m.CorrelationID) == "" {
		return fmt.Errorf("query: correlation id is required")
	}
	return nil
}

type GetLegacyResultMessage struct {
	WorkflowID string
	NodeID     string
	ItemIndex  string
}

func (GetLegacyResultMessage) Type() string { return TypeGetLegacyResult }

func (m GetLegacyResultMessage) Validate() error {
	if strings.TrimSpace(m.WorkflowID) == "" {
		return fmt.Errorf("query: workflow id is required")
	}
	if strings.TrimSpace(m.NodeID) == "" {
		return fmt.Errorf("query: node id is required")
	}
	if strings.TrimSpace(m.ItemIndex) == "" {
		return fmt.Errorf("query: item index is required")
	}
	return nil
}

type ListStatesMessage struct{}

func (ListStatesMessage) Type() string { return TypeListStates }

func (ListStatesMessage) Validate() error { return nil }

type GetHealthMessage struct{}

func (GetHealthMessage) Type() string { return TypeGetHealth }

func (GetHealthMessage) Validate() error { return nil }
