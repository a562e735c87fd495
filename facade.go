package approvals

import (
	"fmt"

	approvalscommand "github.com/goliatone/go-approvals/command"
	approvalsquery "github.com/goliatone/go-approvals/query"
)

// CommandQueryService is what the facade needs from a relay service:
// the mutating ingest surface plus both read paths.
type CommandQueryService interface {
	approvalscommand.MutatingService
	approvalsquery.ResultReader
	approvalsquery.StateReader
}

type Commands struct {
	IngestCallback *approvalscommand.IngestCallbackCommand
	PurgeStates    *approvalscommand.PurgeStatesCommand
}

type Queries struct {
	GetResult       *approvalsquery.GetResultQuery
	GetLegacyResult *approvalsquery.GetLegacyResultQuery
	ListStates      *approvalsquery.ListStatesQuery
	GetHealth       *approvalsquery.GetHealthQuery
}

// Facade bundles the command and query handlers around one relay
// service so hosts can mount them on a dispatcher without wiring each
// handler by hand.
type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("approvals: command/query service is required")
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		IngestCallback: approvalscommand.NewIngestCallbackCommand(service),
		PurgeStates:    approvalscommand.NewPurgeStatesCommand(service),
	}
	facade.queries = Queries{
		GetResult:       approvalsquery.NewGetResultQuery(service),
		GetLegacyResult: approvalsquery.NewGetLegacyResultQuery(service),
		ListStates:      approvalsquery.NewListStatesQuery(service),
		GetHealth:       approvalsquery.NewGetHealthQuery(service),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}
