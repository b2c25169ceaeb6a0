package dispatch

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/net/http/httpguts"
)

// Route is one registered (method, pattern, handler) triple. Routes are
// immutable once registered and shared read-only across all concurrent
// requests for the process lifetime.
type Route struct {
	method  string
	pattern *Pattern
	handler *Handler
}

// Method returns the route's HTTP method token (RFC 7231 Section 4).
func (r *Route) Method() string {
	return r.method
}

// Template returns the route's raw path template.
func (r *Route) Template() string {
	return r.pattern.Template()
}

// Pattern returns the route's compiled path pattern.
func (r *Route) Pattern() *Pattern {
	return r.pattern
}

// Handler returns the route's handler descriptor.
func (r *Route) Handler() *Handler {
	return r.handler
}

// Match holds the result of resolving a (method, path) pair against the
// table. Exactly one of the three outcomes applies: a matched route with
// its captured variables, a method mismatch with the allowed methods, or
// no match at all.
type Match struct {
	// Route is the matched route, if any.
	Route *Route

	// Vars contains the raw path variables captured by the matched
	// pattern, keyed by variable name.
	Vars map[string]string

	// Allow lists the methods registered for the request path when the
	// outcome is a method mismatch. It populates the Allow header field
	// required by RFC 7231 Section 6.5.5 on a 405 response.
	Allow []string

	// Err is ErrMethodMismatch or ErrNotFound when no route matched.
	Err error
}

// Table is an ordered collection of routes. Registration happens once at
// startup; Freeze (called by the engine before the first request) makes the
// table permanently read-only, so resolution takes no locks.
type Table struct {
	routes []*Route
	frozen atomic.Bool
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{}
}

// Register compiles the template and adds a route for the given method.
// It fails with ErrDuplicateRoute when the same (method, template) pair is
// already registered, and with ErrAmbiguousRoute when a registered pattern
// for the same method structurally overlaps the new one. Both are
// configuration errors meant to be fatal to startup, never surfaced to a
// client.
func (t *Table) Register(method, tpl string, h *Handler) error {
	if t.frozen.Load() {
		return fmt.Errorf("%w: cannot register %s %q", ErrTableFrozen, method, tpl)
	}
	if h == nil || h.fn == nil {
		return fmt.Errorf("dispatch: nil handler for %s %q", method, tpl)
	}

	method = strings.ToUpper(method)
	// Method tokens share the token grammar of header field names
	// (RFC 7230 Section 3.2.6).
	if !httpguts.ValidHeaderFieldName(method) {
		return fmt.Errorf("dispatch: invalid method token %q", method)
	}

	pattern, err := CompilePattern(tpl)
	if err != nil {
		return err
	}

	// Every path-sourced parameter must name a variable the pattern
	// actually declares; anything else could never bind.
	for _, p := range h.params {
		if p.Source == SourcePath && !pattern.hasVar(p.Name) {
			return fmt.Errorf("dispatch: parameter %q is not a variable of %q", p.Name, tpl)
		}
	}

	for _, existing := range t.routes {
		if existing.method != method {
			continue
		}
		if existing.pattern.Template() == tpl {
			return fmt.Errorf("%w: %s %q", ErrDuplicateRoute, method, tpl)
		}
		if overlaps(existing.pattern, pattern) {
			return fmt.Errorf("%w: %s %q overlaps %q", ErrAmbiguousRoute, method, tpl, existing.pattern.Template())
		}
	}

	t.routes = append(t.routes, &Route{
		method:  method,
		pattern: pattern,
		handler: h,
	})

	return nil
}

// Freeze makes the table permanently read-only. Safe to call more than
// once and from concurrent goroutines.
func (t *Table) Freeze() {
	t.frozen.Store(true)
}

// Resolve matches a (method, path) pair against the table and fills m.
// It returns true when a route matched both path and method. Otherwise
// m.Err distinguishes a method mismatch (with m.Allow populated, sorted
// alphabetically per RFC 7231 Section 7.4.1) from no match at all.
func (t *Table) Resolve(method, path string, m *Match) bool {
	var allowed []string

	for _, route := range t.routes {
		vars, ok := route.pattern.Match(path)
		if !ok {
			continue
		}

		if route.method == method {
			m.Route = route
			m.Vars = vars
			return true
		}

		if !matchInArray(allowed, route.method) {
			allowed = append(allowed, route.method)
		}
	}

	if len(allowed) > 0 {
		sort.Strings(allowed)
		m.Allow = allowed
		m.Err = ErrMethodMismatch
		return false
	}

	m.Err = ErrNotFound
	return false
}

// Routes returns the registered routes in registration order.
func (t *Table) Routes() []*Route {
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// overlaps reports whether some concrete path matches both patterns. It
// builds a canonical probe path covering both templates, preferring
// literal segments over the variable stand-in token, and runs it through
// both matchers. The probe matches both iff some concrete path does.
func overlaps(a, b *Pattern) bool {
	probe, ok := combinedProbe(a, b)
	if !ok {
		return false
	}
	if _, ok := a.Match(probe); !ok {
		return false
	}
	_, ok = b.Match(probe)
	return ok
}

// matchInArray returns true if the given string value is in the array.
func matchInArray(arr []string, value string) bool {
	for _, v := range arr {
		if v == value {
			return true
		}
	}
	return false
}
