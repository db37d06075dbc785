// Package metrics provides request counters for a serving session.
package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// ServeMetrics tracks request outcomes for the lifetime of one server.
// All counters are safe for concurrent use.
type ServeMetrics struct {
	StartTime time.Time

	requests     atomic.Int64
	served       atomic.Int64 // 2xx and 3xx
	notFound     atomic.Int64
	forbidden    atomic.Int64
	otherErrors  atomic.Int64
	bytesWritten atomic.Int64
}

// NewServeMetrics creates a new metrics instance.
func NewServeMetrics() *ServeMetrics {
	return &ServeMetrics{
		StartTime: time.Now(),
	}
}

// Record counts one finished request.
func (m *ServeMetrics) Record(status int, bytes int64) {
	m.requests.Add(1)
	m.bytesWritten.Add(bytes)

	switch {
	case status < http.StatusBadRequest:
		m.served.Add(1)
	case status == http.StatusNotFound:
		m.notFound.Add(1)
	case status == http.StatusForbidden:
		m.forbidden.Add(1)
	default:
		m.otherErrors.Add(1)
	}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests     int64
	Served       int64
	NotFound     int64
	Forbidden    int64
	OtherErrors  int64
	BytesWritten int64
	Uptime       time.Duration
}

// Snapshot returns the current counter values.
func (m *ServeMetrics) Snapshot() Snapshot {
	return Snapshot{
		Requests:     m.requests.Load(),
		Served:       m.served.Load(),
		NotFound:     m.notFound.Load(),
		Forbidden:    m.forbidden.Load(),
		OtherErrors:  m.otherErrors.Load(),
		BytesWritten: m.bytesWritten.Load(),
		Uptime:       time.Since(m.StartTime),
	}
}

// ErrorRate returns the percentage of requests answered with a 4xx/5xx status.
func (s Snapshot) ErrorRate() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.NotFound+s.Forbidden+s.OtherErrors) / float64(s.Requests) * 100
}

// String returns a single-line summary of the session.
func (m *ServeMetrics) String() string {
	s := m.Snapshot()
	return fmt.Sprintf("📊 Served %d requests in %v (%d ok, %d not found, %d forbidden, %d errors, %.2f MB)",
		s.Requests,
		s.Uptime.Round(time.Second),
		s.Served,
		s.NotFound,
		s.Forbidden,
		s.OtherErrors,
		float64(s.BytesWritten)/(1024*1024),
	)
}
