package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Element metric statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ElementMetrics accumulates per-element counters for one run. The clock
// starts when the element yields its first record; an element that yields
// nothing completes with zero duration.
type ElementMetrics struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Items     int64         `json:"items"`
	StartedAt time.Time     `json:"started_at,omitzero"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

func (m *ElementMetrics) observe() {
	if m.StartedAt.IsZero() {
		m.StartedAt = time.Now()
	}
	m.Items++
}

func (m *ElementMetrics) complete() {
	if m.Status != StatusPending {
		return
	}
	m.Status = StatusCompleted
	if !m.StartedAt.IsZero() {
		m.Duration = time.Since(m.StartedAt)
	}
}

func (m *ElementMetrics) fail(err error) {
	if m.Status != StatusPending {
		return
	}
	m.Status = StatusFailed
	m.Error = err.Error()
	if !m.StartedAt.IsZero() {
		m.Duration = time.Since(m.StartedAt)
	}
}

// Stats aggregates one pipeline run: a unique run identifier, wall-clock
// duration, the record count at the final output, and per-element metrics
// in pipeline order.
type Stats struct {
	RunID     uuid.UUID         `json:"run_id"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
	Items     int64             `json:"items"`
	Elements  []*ElementMetrics `json:"elements"`

	finalized bool
}

func newStats(ids []string) *Stats {
	s := &Stats{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
		Elements:  make([]*ElementMetrics, len(ids)),
	}
	for i, id := range ids {
		s.Elements[i] = &ElementMetrics{ID: id, Status: StatusPending}
	}
	return s
}

// finalize closes out the run. Elements still pending never yielded a
// record; they complete with zero duration. Idempotent.
func (s *Stats) finalize() {
	if s.finalized {
		return
	}
	s.finalized = true
	s.Duration = time.Since(s.StartedAt)
	for _, em := range s.Elements {
		em.complete()
	}
}

// Finalized reports whether the run's stats have been closed out.
func (s *Stats) Finalized() bool { return s.finalized }
