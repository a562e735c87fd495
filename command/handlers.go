package command

import (
	"context"

	"github.com/goliatone/go-approvals/core"
	gocmd "github.com/goliatone/go-command"
)

type MutatingService interface {
	CompleteCallback(ctx context.Context, payload core.IngestPayload) (core.OutcomeRecord, error)
	PurgeStates(ctx context.Context) error
}

type IngestCallbackCommand struct {
	service MutatingService
}

func NewIngestCallbackCommand(service MutatingService) *IngestCallbackCommand {
	return &IngestCallbackCommand{service: service}
}

func (c *IngestCallbackCommand) Execute(ctx context.Context, msg IngestCallbackMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: callback service is required")
	}
	out, err := c.service.CompleteCallback(ctx, msg.Payload)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type PurgeStatesCommand struct {
	service MutatingService
}

func NewPurgeStatesCommand(service MutatingService) *PurgeStatesCommand {
	return &PurgeStatesCommand{service: service}
}

func (c *PurgeStatesCommand) Execute(ctx context.Context, msg PurgeStatesMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: purge service is required")
	}
	return c.service.PurgeStates(ctx)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
