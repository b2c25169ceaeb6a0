package dispatchhandlers

import (
	"net/http"
	"os"

	"github.com/vitalvas/relay/dispatch"
)

// ServerConfig configures the Server middleware behaviour.
type ServerConfig struct {
	// HeaderName is the response header written by the middleware.
	// Defaults to "X-Server-Hostname" when empty.
	HeaderName string

	// Hostname is the value written to the response header. Resolution
	// order: Hostname field, then HostnameEnv environment variables,
	// then os.Hostname.
	Hostname string

	// HostnameEnv is a list of environment variable names checked in
	// order (e.g. ["POD_NAME", "HOSTNAME"]). The first non-empty
	// value is used. Only consulted when Hostname is empty. When all
	// variables are unset or empty, os.Hostname is used as a fallback.
	HostnameEnv []string
}

// ServerMiddleware returns a middleware that sets server identification
// response headers. The hostname is resolved once when the middleware is
// created. It returns an error if the hostname cannot be determined.
func ServerMiddleware(cfg ServerConfig) (dispatch.MiddlewareFunc, error) {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Server-Hostname"
	}

	hostname := cfg.Hostname

	if hostname == "" {
		for _, env := range cfg.HostnameEnv {
			if v, ok := os.LookupEnv(env); ok && v != "" {
				hostname = v
				break
			}
		}
	}

	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, err
		}

		hostname = h
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(headerName, hostname)
			next.ServeHTTP(w, r)
		})
	}, nil
}
