package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// ResultStore is the only shared mutable resource in the relay. It
// must be safe under arbitrarily many concurrent Put/Get calls without
// external locking. A write is last-write-wins per key.
type ResultStore interface {
	// Put overwrites whatever is stored under key.
	Put(ctx context.Context, key string, record OutcomeRecord) error
	// PutAliased stores one logical record reachable from both keys.
	// Neither key becomes visible to readers before the other; the
	// alias is a back-reference, never a second copy.
	PutAliased(ctx context.Context, primary string, alias string, record OutcomeRecord) error
	Get(ctx context.Context, key string) (OutcomeRecord, bool, error)
	ListAll(ctx context.Context) ([]StoredState, error)
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// OutcomeForwarder relays a stored outcome downstream without ever
// blocking or failing the ingest path that triggered it.
type OutcomeForwarder interface {
	DeliverDetached(record OutcomeRecord)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
