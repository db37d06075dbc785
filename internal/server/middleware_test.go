package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Kush-Singh-26/devserve/internal/metrics"
)

func TestAccessLog(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	m := metrics.NewServeMetrics()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("hello"))
	})
	h := withAccessLog(next, logger, m)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))

	id := rec.Header().Get("X-Request-Id")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("X-Request-Id = %q is not a UUID: %v", id, err)
	}

	line := logs.String()
	for _, want := range []string{"request_id=" + id, "method=GET", "path=/hello", "status=200", "bytes=5"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}

	logs.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	if !strings.Contains(logs.String(), "status=404") {
		t.Errorf("log line missing status=404: %s", logs.String())
	}

	s := m.Snapshot()
	if s.Requests != 2 || s.Served != 1 || s.NotFound != 1 {
		t.Errorf("Snapshot() = %+v", s)
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK) // ignored by the recorder, as net/http does
	_, _ = w.Write([]byte("abc"))
	w.Flush()

	if w.status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.status, http.StatusTeapot)
	}
	if w.bytes != 3 {
		t.Errorf("bytes = %d, want 3", w.bytes)
	}
	if !rec.Flushed {
		t.Error("Flush should reach the underlying writer")
	}
	if w.Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
}
