// Package dispatchhandlers provides HTTP middleware for the dispatch engine.
//
// # Recovery Middleware
//
// RecoveryMiddleware recovers from panics in downstream handlers, writes
// the engine's JSON 500 payload and optionally invokes a log callback:
//
//	e.Use(dispatchhandlers.RecoveryMiddleware(dispatchhandlers.RecoveryConfig{
//	    LogFunc: func(r *http.Request, err any) {
//	        slog.Error("panic", "path", r.URL.Path, "err", err)
//	    },
//	}))
//
// # Request ID Middleware
//
// RequestIDMiddleware generates or propagates an X-Request-ID header and
// stores the ID in the request context:
//
//	e.Use(dispatchhandlers.RequestIDMiddleware(dispatchhandlers.RequestIDConfig{
//	    TrustIncoming: true,
//	}))
//
// # Access Log Middleware
//
// AccessLogMiddleware writes one structured slog record per dispatched
// request, including the matched route template and the terminal status:
//
//	e.Use(dispatchhandlers.AccessLogMiddleware(dispatchhandlers.AccessLogConfig{}))
//
// # Metrics Middleware
//
// MetricsMiddleware records Prometheus request counters and duration
// histograms labeled by method, route template and status:
//
//	mw, err := dispatchhandlers.MetricsMiddleware(dispatchhandlers.MetricsConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	e.Use(mw)
//
// # Server Middleware
//
// ServerMiddleware sets a server identification response header, resolving
// the hostname once at construction time.
package dispatchhandlers
