package approvals

import "github.com/goliatone/go-approvals/core"

type Config = core.Config

type WebhookConfig = core.WebhookConfig

type IngestConfig = core.IngestConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type ResultStore = core.ResultStore
type OutcomeForwarder = core.OutcomeForwarder
type MetricsRecorder = core.MetricsRecorder
type KeyBuilder = core.KeyBuilder

type OutcomeRecord = core.OutcomeRecord
type IngestPayload = core.IngestPayload
type CorrelationKey = core.CorrelationKey
type StoredState = core.StoredState
type HealthStatus = core.HealthStatus
type Status = core.Status

const (
	StatusCompleted = core.StatusCompleted
	StatusRejected  = core.StatusRejected
	DefaultNetwork  = core.DefaultNetwork
)

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorFactory    = core.WithErrorFactory
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithResultStore     = core.WithResultStore
	WithForwarder       = core.WithForwarder
	WithKeyBuilder      = core.WithKeyBuilder
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}

func NewInMemoryResultStore() *core.InMemoryResultStore {
	return core.NewInMemoryResultStore()
}

func NewKeyBuilder() *core.KeyBuilder {
	return core.NewKeyBuilder()
}
