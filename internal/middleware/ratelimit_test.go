package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitConfigValidate(t *testing.T) {
	valid := RateLimitConfig{RequestsPerWindow: 10, WindowDuration: time.Minute}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	if err := (RateLimitConfig{RequestsPerWindow: 0, WindowDuration: time.Minute}).Validate(); err == nil {
		t.Error("expected error for zero requests per window")
	}
	if err := (RateLimitConfig{RequestsPerWindow: 10}).Validate(); err == nil {
		t.Error("expected error for zero window duration")
	}
}

func TestInMemoryStoreAllowsWithinLimit(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 3, WindowDuration: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _ := store.Allow(ctx, "key1", config)
		if !allowed {
			t.Fatalf("request %d should have been allowed", i+1)
		}
	}

	allowed, retryAfter := store.Allow(ctx, "key1", config)
	if allowed {
		t.Error("fourth request should have been blocked")
	}
	if retryAfter <= 0 {
		t.Errorf("expected positive retry-after, got %d", retryAfter)
	}

	// Other keys are unaffected.
	if allowed, _ := store.Allow(ctx, "key2", config); !allowed {
		t.Error("different key should not be rate limited")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute}
	handler := RateLimiter(store, config, IPKeyFunc())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/recommendations/jobs", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429 response")
	}
}

func TestUserKeyFuncPrefersUserID(t *testing.T) {
	keyFunc := UserKeyFunc()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if key := keyFunc(req); key != "ip:10.0.0.1" {
		t.Errorf("expected IP fallback, got %q", key)
	}

	req = req.WithContext(SetUserID(req.Context(), "user1"))
	if key := keyFunc(req); key != "user:user1" {
		t.Errorf("expected user key, got %q", key)
	}
}

func TestIPKeyFuncForwardedFor(t *testing.T) {
	keyFunc := IPKeyFunc()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if key := keyFunc(req); key != "203.0.113.7" {
		t.Errorf("expected first forwarded IP, got %q", key)
	}
}

func TestCleanupRemovesExpiredBuckets(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Millisecond}

	store.Allow(context.Background(), "key1", config)
	time.Sleep(5 * time.Millisecond)
	store.Cleanup()

	store.mu.RLock()
	defer store.mu.RUnlock()
	if len(store.buckets) != 0 {
		t.Errorf("expected expired buckets to be removed, %d remain", len(store.buckets))
	}
}
