// Package middleware provides HTTP middleware components for the API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

// userIDKey is the context key for the authenticated user ID.
type userIDKey struct{}

// requestStateKey is the context key for the per-request state holder.
type requestStateKey struct{}

// requestState carries values set on derived contexts back to the logging
// middleware. Handlers and inner middleware run on child contexts, so a
// mutable holder is needed for their values to be visible when the request
// log entry is written.
type requestState struct {
	mu        sync.Mutex
	userID    string
	errorCode string
}

// SetUserID stores the authenticated user ID in the context.
// This is called by the authentication middleware after validating the token.
func SetUserID(ctx context.Context, userID string) context.Context {
	if state, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		state.mu.Lock()
		state.userID = userID
		state.mu.Unlock()
	}
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID retrieves the user ID from context. Returns empty string if not present.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	if state, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		state.mu.Lock()
		defer state.mu.Unlock()
		return state.userID
	}
	return ""
}

// SetErrorCode records an error code for the current request so the logging
// middleware can include it in the request log entry.
func SetErrorCode(ctx context.Context, code string) context.Context {
	if state, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		state.mu.Lock()
		state.errorCode = code
		state.mu.Unlock()
	}
	return ctx
}

// GetErrorCode retrieves the error code recorded for the current request.
// Returns empty string if none was set.
func GetErrorCode(ctx context.Context) string {
	if state, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		state.mu.Lock()
		defer state.mu.Unlock()
		return state.errorCode
	}
	return ""
}

// responseWriter wraps http.ResponseWriter to capture status code and response size.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	wroteHeader bool
}

// WriteHeader captures the status code before writing it.
// Only the first call sets the status code; subsequent calls are ignored
// to match http.ResponseWriter behavior where only the first status is sent.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size and writes the data.
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// newResponseWriter creates a new responseWriter with default 200 status.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// NewLogger creates an slog.Logger based on the environment.
// In production (env == "production"), it returns a JSON handler.
// Otherwise, it returns a text handler for development.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

// Logging is a middleware that logs HTTP requests with structured fields.
// It captures: method, path, status, latency (ms), request ID, user ID (if
// present), response size, and error_code (for error responses).
//
// Note: If a handler panics, the log entry will not be written. To ensure logging
// even on panics, place a recovery middleware outside of the logging middleware.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Inject the state holder so inner middleware and handlers can
			// report the user ID and error code back.
			ctx := context.WithValue(r.Context(), requestStateKey{}, &requestState{})
			r = r.WithContext(ctx)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			latency := time.Since(start).Milliseconds()

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int64("latency_ms", latency),
				slog.Int("size", rw.size),
			}

			if requestID := GetRequestID(r.Context()); requestID != "" {
				attrs = append(attrs, slog.String("request_id", requestID))
			}

			if userID := GetUserID(r.Context()); userID != "" {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			if rw.statusCode >= 400 {
				if errorCode := GetErrorCode(r.Context()); errorCode != "" {
					attrs = append(attrs, slog.String("error_code", errorCode))
				}
			}

			if rw.statusCode >= 500 {
				logger.LogAttrs(r.Context(), slog.LevelError, "request completed", attrs...)
			} else if rw.statusCode >= 400 {
				logger.LogAttrs(r.Context(), slog.LevelWarn, "request completed", attrs...)
			} else {
				logger.LogAttrs(r.Context(), slog.LevelInfo, "request completed", attrs...)
			}
		})
	}
}
