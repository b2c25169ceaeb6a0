package dispatchhandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalvas/relay/dispatch"
)

// AccessLogConfig configures the AccessLog middleware behaviour.
type AccessLogConfig struct {
	// Logger is the structured logger used for request records.
	// Defaults to slog.Default when nil.
	Logger *slog.Logger

	// Level is the level request records are logged at.
	// Defaults to slog.LevelInfo.
	Level slog.Level
}

// AccessLogMiddleware returns a middleware that writes one structured log
// record per dispatched request: method, concrete path, matched route
// template, terminal status, response size and duration. When the request
// carries an ID from RequestIDMiddleware it is included in the record.
func AccessLogMiddleware(cfg AccessLogConfig) dispatch.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(sw, r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.statusCode()),
				slog.Int64("bytes", sw.written),
				slog.Duration("duration", time.Since(start)),
			}
			if route := dispatch.CurrentRoute(r); route != nil {
				attrs = append(attrs, slog.String("route", route.Template()))
			}
			if id := RequestIDFromContext(r.Context()); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			logger.Log(r.Context(), cfg.Level, "http request", attrs...)
		})
	}
}
