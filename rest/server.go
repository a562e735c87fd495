package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-approvals/core"
	glog "github.com/goliatone/go-logger/glog"
)

// Service is the surface the HTTP layer needs from the relay. The rest
// package never touches the store or the forwarder directly.
type Service interface {
	CompleteCallback(ctx context.Context, payload core.IngestPayload) (core.OutcomeRecord, error)
	Result(ctx context.Context, correlationID string) (core.OutcomeRecord, error)
	ResultByLegacy(ctx context.Context, workflowID, nodeID, itemIndex string) (core.OutcomeRecord, error)
	ListStates(ctx context.Context) ([]core.StoredState, error)
	PurgeStates(ctx context.Context) error
	Health(ctx context.Context) (core.HealthStatus, error)
}

type Server struct {
	service Service
	logger  core.Logger
	router  chi.Router
}

type Option func(*Server)

func WithLogger(logger core.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewServer(service Service, options ...Option) *Server {
	s := &Server{
		service: service,
		logger:  glog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	// Wallets redirect with GET and automations POST, so the callback
	// route accepts every method.
	r.Handle("/callback", http.HandlerFunc(s.handleCallback))
	r.Get("/callback-result/{correlationID}", s.handleResult)
	r.Get("/callback-result/{workflowID}/{nodeID}/{itemIndex}", s.handleLegacyResult)
	r.Get("/health", s.handleHealth)
	r.Get("/states", s.handleListStates)
	r.Delete("/states", s.handlePurgeStates)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleNotFound)
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s == nil || s.router == nil {
		http.Error(w, "server not configured", http.StatusInternalServerError)
		return
	}
	s.router.ServeHTTP(w, r)
}

// ListenAndServe blocks until the listener fails or ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
