package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestReadinessHandler_AllHealthy(t *testing.T) {
	e := newTestEcho()
	h := NewReadinessHandler(zerolog.Nop(), DependencyCheck{
		Name: "mongodb",
		Ping: func(context.Context) error { return nil },
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadinessHandler_FailureDetailsAreOnlyLogged(t *testing.T) {
	const detail = "dial tcp 10.0.0.5:6379: connection refused"

	var logs bytes.Buffer
	e := newTestEcho()
	h := NewReadinessHandler(zerolog.New(&logs),
		DependencyCheck{Name: "mongodb", Ping: func(context.Context) error { return nil }},
		DependencyCheck{Name: "redis", Ping: func(context.Context) error { return errors.New(detail) }},
	)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("response leaks dependency error: %s", rec.Body.String())
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["redis"].Status != "unhealthy" || resp.Dependencies["mongodb"].Status != "ok" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if !strings.Contains(logs.String(), detail) || !strings.Contains(logs.String(), `"dependency":"redis"`) {
		t.Fatalf("expected the failure to be logged, got %s", logs.String())
	}
}
