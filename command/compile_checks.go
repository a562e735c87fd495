package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[IngestCallbackMessage] = (*IngestCallbackCommand)(nil)
	_ gocmd.Commander[PurgeStatesMessage]    = (*PurgeStatesCommand)(nil)
)
