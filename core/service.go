package core

import (
	"context"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service coordinates the correlation and delivery protocol: callback
// ingestion, dual-key storage, detached downstream forwarding, and the
// polling read path.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	store           ResultStore
	forwarder       OutcomeForwarder
	keys            *KeyBuilder
	startedAt       time.Time
	now             func() time.Time
}

type ServiceDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorFactory    ErrorFactory
	ErrorMapper     ErrorMapper
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	ResultStore     ResultStore
	Forwarder       OutcomeForwarder
	KeyBuilder      *KeyBuilder
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("approvals", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("approvals"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.resultStore == nil {
		builder.resultStore = NewInMemoryResultStore()
	}
	if builder.keyBuilder == nil {
		builder.keyBuilder = NewKeyBuilder()
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	now := func() time.Time {
		return time.Now().UTC()
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorFactory:    builder.errorFactory,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		store:           builder.resultStore,
		forwarder:       builder.forwarder,
		keys:            builder.keyBuilder,
		startedAt:       now(),
		now:             now,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

// CompleteCallback ingests one signing outcome: normalize, resolve the
// correlation key, store under primary and (when derivable) legacy
// keys, then hand the record to the forwarder detached from this call.
func (s *Service) CompleteCallback(ctx context.Context, payload IngestPayload) (OutcomeRecord, error) {
	if s == nil || s.store == nil {
		return OutcomeRecord{}, coreInternal("core: relay service is not configured", nil)
	}
	startedAt := s.now()

	if s.config.Ingest.RequireTransactionID && strings.TrimSpace(payload.TransactionID) == "" {
		err := coreBadInput("Missing required parameter: transactionId", nil)
		s.observeOperation(ctx, startedAt, "callback_ingest", err, nil)
		return OutcomeRecord{}, err
	}

	key := s.keys.Resolve(payload)
	record := s.buildRecord(key.Primary, payload)

	var storeErr error
	if key.Legacy != "" {
		storeErr = s.store.PutAliased(ctx, key.Primary, key.Legacy, record)
	} else {
		storeErr = s.store.Put(ctx, key.Primary, record)
	}
	fields := map[string]any{
		"correlation_id": key.Primary,
		"synthesized":    key.Synthesized,
		"status":         string(record.Status),
	}
	if key.Legacy != "" {
		fields["legacy_key"] = key.Legacy
	}
	if storeErr != nil {
		err := coreWrapError(
			storeErr,
			goerrors.CategoryInternal,
			"core: store callback outcome",
			relayHTTPStatus(goerrors.CategoryInternal),
			RelayErrorStoreUnavailable,
			map[string]any{"correlation_id": key.Primary},
		)
		s.observeOperation(ctx, startedAt, "callback_ingest", err, fields)
		return OutcomeRecord{}, err
	}

	// Delivery is best effort and never awaited; the caller's success
	// rests on durable storage alone.
	if s.forwarder != nil {
		s.forwarder.DeliverDetached(record)
	}

	s.observeOperation(ctx, startedAt, "callback_ingest", nil, fields)
	return record, nil
}

// Result returns the stored outcome for a correlation id.
func (s *Service) Result(ctx context.Context, correlationID string) (OutcomeRecord, error) {
	if s == nil || s.store == nil {
		return OutcomeRecord{}, coreInternal("core: relay service is not configured", nil)
	}
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		return OutcomeRecord{}, coreBadInput("core: correlation id is required", nil)
	}
	return s.lookup(ctx, correlationID)
}

// ResultByLegacy resolves by the workflow/node/item triplet retained
// for callers predating correlation ids.
func (s *Service) ResultByLegacy(
	ctx context.Context,
	workflowID string,
	nodeID string,
	itemIndex string,
) (OutcomeRecord, error) {
	if s == nil || s.store == nil {
		return OutcomeRecord{}, coreInternal("core: relay service is not configured", nil)
	}
	key, ok := LegacyKey(workflowID, nodeID, itemIndex)
	if !ok {
		return OutcomeRecord{}, coreBadInput("core: workflow id, node id and item index are required", map[string]any{
			"workflow_id": strings.TrimSpace(workflowID),
			"node_id":     strings.TrimSpace(nodeID),
		})
	}
	return s.lookup(ctx, key)
}

func (s *Service) ListStates(ctx context.Context) ([]StoredState, error) {
	if s == nil || s.store == nil {
		return nil, coreInternal("core: relay service is not configured", nil)
	}
	states, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, coreWrapError(
			err,
			goerrors.CategoryInternal,
			"core: list stored states",
			relayHTTPStatus(goerrors.CategoryInternal),
			RelayErrorStoreUnavailable,
			nil,
		)
	}
	return states, nil
}

// PurgeStates removes every stored entry. Irreversible.
func (s *Service) PurgeStates(ctx context.Context) error {
	if s == nil || s.store == nil {
		return coreInternal("core: relay service is not configured", nil)
	}
	startedAt := s.now()
	if err := s.store.Clear(ctx); err != nil {
		wrapped := coreWrapError(
			err,
			goerrors.CategoryInternal,
			"core: purge stored states",
			relayHTTPStatus(goerrors.CategoryInternal),
			RelayErrorStoreUnavailable,
			nil,
		)
		s.observeOperation(ctx, startedAt, "states_purge", wrapped, nil)
		return wrapped
	}
	s.observeOperation(ctx, startedAt, "states_purge", nil, nil)
	return nil
}

func (s *Service) Health(ctx context.Context) (HealthStatus, error) {
	if s == nil || s.store == nil {
		return HealthStatus{}, coreInternal("core: relay service is not configured", nil)
	}
	size, err := s.store.Len(ctx)
	if err != nil {
		return HealthStatus{}, coreWrapError(
			err,
			goerrors.CategoryInternal,
			"core: read store size",
			relayHTTPStatus(goerrors.CategoryInternal),
			RelayErrorStoreUnavailable,
			nil,
		)
	}
	now := s.now()
	return HealthStatus{
		Status:       "healthy",
		Timestamp:    now,
		Uptime:       now.Sub(s.startedAt),
		StoredStates: size,
	}, nil
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:          s.logger,
		LoggerProvider:  s.loggerProvider,
		MetricsRecorder: s.metricsRecorder,
		ErrorFactory:    s.errorFactory,
		ErrorMapper:     s.errorMapper,
		ConfigProvider:  s.configProvider,
		OptionsResolver: s.optionsResolver,
		ResultStore:     s.store,
		Forwarder:       s.forwarder,
		KeyBuilder:      s.keys,
	}
}

func (s *Service) lookup(ctx context.Context, key string) (OutcomeRecord, error) {
	record, found, err := s.store.Get(ctx, key)
	if err != nil {
		return OutcomeRecord{}, coreWrapError(
			err,
			goerrors.CategoryInternal,
			"core: read callback result",
			relayHTTPStatus(goerrors.CategoryInternal),
			RelayErrorStoreUnavailable,
			map[string]any{"key": key},
		)
	}
	if !found {
		return OutcomeRecord{}, coreNotFound("Callback result not found", map[string]any{"key": key})
	}
	return record, nil
}

func (s *Service) buildRecord(correlationID string, payload IngestPayload) OutcomeRecord {
	errorCode := strings.TrimSpace(payload.ErrorCode)
	succeeded := errorCode == ""
	status := StatusCompleted
	if !succeeded {
		status = StatusRejected
	}

	network := strings.TrimSpace(payload.Network)
	if network == "" {
		network = strings.TrimSpace(s.config.Ingest.DefaultNetwork)
	}
	if network == "" {
		network = DefaultNetwork
	}

	record := OutcomeRecord{
		CorrelationID: correlationID,
		WorkflowRef:   optionalString(payload.WorkflowID),
		NodeRef:       optionalString(payload.NodeID),
		ItemIndex:     parseItemIndex(payload.ItemIndex),
		CreatedAt:     s.now(),
		Succeeded:     succeeded,
		TxHashes:      splitTransactionHashes(payload.TransactionHashes),
		Signature:     optionalString(payload.Signature),
		Status:        status,
		Recipient:     optionalString(payload.Recipient),
		Amount:        optionalString(payload.Amount),
		Network:       network,
	}
	if !succeeded {
		record.ErrorCode = &errorCode
	}
	return record
}

func splitTransactionHashes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	hashes := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			hashes = append(hashes, trimmed)
		}
	}
	return hashes
}

// parseItemIndex tolerates malformed input: a value that does not parse
// is stored as absent rather than failing the call.
func parseItemIndex(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func optionalString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
