package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct {
	err error
}

func (c stubChecker) HealthCheck(ctx context.Context) error {
	return c.err
}

func TestHealth(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy status, got %q", resp.Status)
	}
}

func TestHealthRejectsNonGet(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodPost, "/health", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", w.Code)
	}
}

func TestReadyWithoutCheckers(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{})

	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Checks["database"] != "ok" || resp.Checks["redis"] != "ok" {
		t.Errorf("expected ok checks, got %v", resp.Checks)
	}
}

func TestReadyWithFailingDependency(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{
		DBChecker:    stubChecker{},
		RedisChecker: stubChecker{err: errors.New("connection refused")},
	})

	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("expected unhealthy status, got %q", resp.Status)
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("expected database ok, got %q", resp.Checks["database"])
	}
	if resp.Checks["redis"] != "error" {
		t.Errorf("expected redis error, got %q", resp.Checks["redis"])
	}
}
