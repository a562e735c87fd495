package forward

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultJournalLimit = 128

// DeliveryFailure captures one failed webhook attempt for later
// inspection.
type DeliveryFailure struct {
	ID            uuid.UUID `json:"id"`
	CorrelationID string    `json:"correlationId"`
	URL           string    `json:"url"`
	Reason        string    `json:"reason"`
	StatusCode    int       `json:"statusCode,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// FailureJournal keeps the most recent delivery failures in a bounded
// ring. Oldest entries are evicted once the limit is reached.
type FailureJournal struct {
	mu      sync.Mutex
	limit   int
	entries []DeliveryFailure
}

func NewFailureJournal(limit int) *FailureJournal {
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	return &FailureJournal{limit: limit}
}

func (j *FailureJournal) Record(failure DeliveryFailure) {
	if j == nil {
		return
	}
	if failure.ID == uuid.Nil {
		failure.ID = uuid.New()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, failure)
	if len(j.entries) > j.limit {
		j.entries = j.entries[len(j.entries)-j.limit:]
	}
}

// Recent returns up to n failures, newest first. n <= 0 returns all
// retained entries.
func (j *FailureJournal) Recent(n int) []DeliveryFailure {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if n <= 0 || n > len(j.entries) {
		n = len(j.entries)
	}
	out := make([]DeliveryFailure, 0, n)
	for i := len(j.entries) - 1; i >= len(j.entries)-n; i-- {
		out = append(out, j.entries[i])
	}
	return out
}

func (j *FailureJournal) Len() int {
	if j == nil {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
