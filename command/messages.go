package command

import (
	"github.com/goliatone/go-approvals/core"
)

const (
	TypeIngestCallback = "approvals.command.callback.ingest"
	TypePurgeStates    = "approvals.command.states.purge"
)

// IngestCallbackMessage carries one raw signing callback. Validation is
// intentionally absent: the relay accepts every payload shape and
// resolves identity downstream.
type IngestCallbackMessage struct {
	Payload core.IngestPayload
}

func (IngestCallbackMessage) Type() string { return TypeIngestCallback }

func (IngestCallbackMessage) Validate() error { return nil }

type PurgeStatesMessage struct{}

func (PurgeStatesMessage) Type() string { return TypePurgeStates }

func (PurgeStatesMessage) Validate() error { return nil }
