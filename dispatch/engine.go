package dispatch

import (
	"errors"
	"net/http"
	"path"
	"strings"
	"sync"
)

// Engine matches incoming requests against its route table, binds request
// data to typed handler parameters, invokes the handler and translates the
// outcome into exactly one HTTP response.
//
// It implements the http.Handler interface, so it can be registered to
// serve requests:
//
//	e := dispatch.New()
//	e.GET("/api", dispatch.NewHandler(listHandler))
//	http.ListenAndServe(":8080", e)
type Engine struct {
	// NotFoundHandler is called when no route matches the request path.
	// If nil, a default JSON 404 handler is used.
	// Corresponds to 404 Not Found per RFC 7231 Section 6.5.4.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when a route matches the path
	// but not the method. If nil, a default JSON 405 handler is used.
	// Per RFC 7231 Section 6.5.5, the Allow header is always set before
	// this handler is invoked.
	MethodNotAllowedHandler http.Handler

	table       *Table
	middlewares []MiddlewareFunc

	// handlerCache caches the middleware-wrapped dispatch handler per
	// route to avoid re-wrapping on every request.
	handlerCache sync.Map // map[*Route]http.Handler

	skipClean bool
}

// New returns a new engine with an empty route table.
func New() *Engine {
	return &Engine{table: NewTable()}
}

// SkipClean defines the path cleaning behavior. When true, the request
// path will not be cleaned (path.Clean will not be called).
func (e *Engine) SkipClean(value bool) *Engine {
	e.skipClean = value
	return e
}

// Use appends a MiddlewareFunc to the chain. Middleware is applied to
// matched handlers only; 404 and 405 responses bypass the chain.
func (e *Engine) Use(mwf ...MiddlewareFunc) {
	e.middlewares = append(e.middlewares, mwf...)
}

// Register adds a route for the given method and path template. All
// registration happens at startup: registering after the engine has served
// its first request fails with ErrTableFrozen.
func (e *Engine) Register(method, tpl string, h *Handler) error {
	return e.table.Register(method, tpl, h)
}

// GET registers a route for the GET method.
func (e *Engine) GET(tpl string, h *Handler) error {
	return e.Register(http.MethodGet, tpl, h)
}

// POST registers a route for the POST method.
func (e *Engine) POST(tpl string, h *Handler) error {
	return e.Register(http.MethodPost, tpl, h)
}

// PUT registers a route for the PUT method.
func (e *Engine) PUT(tpl string, h *Handler) error {
	return e.Register(http.MethodPut, tpl, h)
}

// PATCH registers a route for the PATCH method.
func (e *Engine) PATCH(tpl string, h *Handler) error {
	return e.Register(http.MethodPatch, tpl, h)
}

// DELETE registers a route for the DELETE method.
func (e *Engine) DELETE(tpl string, h *Handler) error {
	return e.Register(http.MethodDelete, tpl, h)
}

// Routes returns the registered routes in registration order.
func (e *Engine) Routes() []*Route {
	return e.table.Routes()
}

// Table returns the engine's route table.
func (e *Engine) Table() *Table {
	return e.table
}

// ServeHTTP dispatches the request to the handler of the matched route.
// Implements http.Handler per RFC 7230 Section 3. Every request resolves
// to exactly one terminal response; the engine never leaves a request
// unanswered or answers it twice.
func (e *Engine) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// First request freezes the table: from here on it is read-only and
	// concurrent resolution needs no locking.
	e.table.Freeze()

	// Normalize the request path per RFC 3986 Section 5.2.4
	// (removing dot segments) unless SkipClean is enabled.
	if !e.skipClean {
		if cleaned := cleanPath(req.URL.Path); cleaned != req.URL.Path {
			u := *req.URL
			u.Path = cleaned
			u.RawPath = ""
			req = req.Clone(req.Context())
			req.URL = &u
		}
	}

	var m Match
	if !e.table.Resolve(req.Method, req.URL.Path, &m) {
		if errors.Is(m.Err, ErrMethodMismatch) {
			// RFC 7231 Section 6.5.5: the origin server MUST generate
			// an Allow header field in a 405 response.
			w.Header().Set("Allow", strings.Join(m.Allow, ", "))
			handler := e.MethodNotAllowedHandler
			if handler == nil {
				handler = defaultMethodNotAllowedHandler
			}
			handler.ServeHTTP(w, req)
			return
		}

		handler := e.NotFoundHandler
		if handler == nil {
			handler = defaultNotFoundHandler
		}
		handler.ServeHTTP(w, req)
		return
	}

	req = setRouteContext(req, m.Route, m.Vars)
	e.dispatchHandler(m.Route).ServeHTTP(w, req)
}

// dispatchHandler returns the middleware-wrapped terminal handler for the
// route, building and caching it on first dispatch.
func (e *Engine) dispatchHandler(route *Route) http.Handler {
	if cached, ok := e.handlerCache.Load(route); ok {
		return cached.(http.Handler)
	}

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.invoke(w, r, route)
	})
	for i := len(e.middlewares) - 1; i >= 0; i-- {
		handler = e.middlewares[i].Middleware(handler)
	}

	actual, _ := e.handlerCache.LoadOrStore(route, handler)
	return actual.(http.Handler)
}

// invoke runs the binder and the handler for a matched route and writes
// the terminal response. Status policy: a malformed value is the client's
// fault (400); a missing required parameter is a contract inconsistency
// between route declaration and request surface (500, deliberately not
// softened to 400); any error raised by the handler collapses to 500
// without finer classification.
func (e *Engine) invoke(w http.ResponseWriter, r *http.Request, route *Route) {
	// ParseForm merges URL query and form body fields into one lookup
	// namespace (r.Form). A malformed body still leaves the query fields
	// populated, so binding proceeds on whatever parsed.
	_ = r.ParseForm()

	params, err := bind(route.handler.params, Vars(r), r.Form)
	if err != nil {
		var be *BindError
		if errors.As(err, &be) && be.Reason == ReasonMalformed {
			respondError(w, http.StatusBadRequest, "malformed parameter", be.Param)
			return
		}
		if errors.As(err, &be) {
			respondError(w, http.StatusInternalServerError, "missing required parameter", be.Param)
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	v, err := route.handler.fn(r, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	status := route.handler.status
	if v == nil || status == http.StatusNoContent {
		NoBody(w, status)
		return
	}

	JSON(w, status, v)
}

// cleanPath returns the canonical path for p, eliminating . and .. elements
// per RFC 3986 Section 5.2.4 (remove dot segments).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

var defaultNotFoundHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "not found", "")
})

var defaultMethodNotAllowedHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "method is not allowed", "")
})
