package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-approvals/core"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

const DefaultTimeout = 10 * time.Second

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Forwarder relays a stored outcome to the configured downstream
// collector. Exactly one attempt per record, bounded by Timeout; a
// failure is journaled and logged, never retried and never surfaced to
// the ingest path that produced the record.
type Forwarder struct {
	URL     string
	Timeout time.Duration
	Client  HTTPDoer
	Journal *FailureJournal
	Logger  core.Logger
	Now     func() time.Time
}

func NewForwarder(url string) *Forwarder {
	return &Forwarder{
		URL:     strings.TrimSpace(url),
		Timeout: DefaultTimeout,
		Client:  &http.Client{Timeout: DefaultTimeout},
		Journal: NewFailureJournal(DefaultJournalLimit),
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// DeliverDetached runs the delivery on its own goroutine with its own
// deadline. The caller never observes the outcome.
func (f *Forwarder) DeliverDetached(record core.OutcomeRecord) {
	if f == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout())
		defer cancel()
		if err := f.Deliver(ctx, record); err != nil {
			f.recordFailure(record, err)
		}
	}()
}

// Deliver performs one webhook POST. A missing URL or an absent
// workflow/node reference means no meaningful route exists, so the
// delivery is skipped without error.
func (f *Forwarder) Deliver(ctx context.Context, record core.OutcomeRecord) error {
	if f == nil {
		return forwardInternal("forward: forwarder is nil", nil)
	}
	url := strings.TrimSpace(f.URL)
	if url == "" {
		return nil
	}
	if record.WorkflowRef == nil || record.NodeRef == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	body, err := json.Marshal(record)
	if err != nil {
		return forwardWrapError(err, "forward: encode outcome record", map[string]any{
			"correlation_id": record.CorrelationID,
		})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return forwardWrapError(err, "forward: create webhook request", map[string]any{
			"correlation_id": record.CorrelationID,
			"url":            url,
		})
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := f.client().Do(req)
	if err != nil {
		return forwardWrapError(err, "forward: execute webhook delivery", map[string]any{
			"correlation_id": record.CorrelationID,
			"url":            url,
		})
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return forwardError(
			fmt.Sprintf("forward: webhook delivery returned status %d", res.StatusCode),
			map[string]any{
				"correlation_id": record.CorrelationID,
				"url":            url,
				"status_code":    res.StatusCode,
			},
		)
	}
	return nil
}

func (f *Forwarder) recordFailure(record core.OutcomeRecord, cause error) {
	statusCode := 0
	var richErr *goerrors.Error
	if goerrors.As(cause, &richErr) && richErr.Metadata != nil {
		if value, ok := richErr.Metadata["status_code"].(int); ok {
			statusCode = value
		}
	}
	failure := DeliveryFailure{
		CorrelationID: record.CorrelationID,
		URL:           strings.TrimSpace(f.URL),
		Reason:        cause.Error(),
		StatusCode:    statusCode,
		OccurredAt:    f.now(),
	}
	if f.Journal != nil {
		f.Journal.Record(failure)
	}
	logger := glog.Ensure(f.Logger)
	logger.Error("webhook delivery failed",
		"correlation_id", record.CorrelationID,
		"url", failure.URL,
		"error", cause.Error(),
	)
}

func (f *Forwarder) client() HTTPDoer {
	if f != nil && f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (f *Forwarder) timeout() time.Duration {
	if f != nil && f.Timeout > 0 {
		return f.Timeout
	}
	return DefaultTimeout
}

func (f *Forwarder) now() time.Time {
	if f != nil && f.Now != nil {
		return f.Now().UTC()
	}
	return time.Now().UTC()
}

var _ core.OutcomeForwarder = (*Forwarder)(nil)
