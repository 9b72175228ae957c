package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/recommendations/jobs", "/recommendations/jobs"},
		{"/suggestions/people", "/suggestions/people"},
		{"/feed", "/feed"},
		{"/jobs", "/jobs"},
		{"/jobs/abc-123", "/jobs/{id}"},
		{"/jobs/abc-123/view", "/jobs/{id}/view"},
		{"/posts/xyz", "/posts/{id}"},
		{"/posts/xyz/like", "/posts/{id}/like"},
		{"/posts/xyz/comment", "/posts/{id}/comment"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/unknown/route", "/unknown/route"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestHTTPMetricsRecordsRequests(t *testing.T) {
	metrics := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handler := HTTPMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/jobs/abc-123", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/jobs/{id}", "200"))
	if count != 1 {
		t.Errorf("expected 1 recorded request, got %v", count)
	}
}

func TestHTTPMetricsSkipsHealthEndpoints(t *testing.T) {
	metrics := NewMetrics()

	handler := HTTPMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))

	if count := testutil.CollectAndCount(metrics.httpRequestsTotal); count != 0 {
		t.Errorf("expected no metrics for health endpoints, got %d series", count)
	}
}

func TestMetricsRegisterTwiceFails(t *testing.T) {
	metrics := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := metrics.Register(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}
