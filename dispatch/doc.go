// Package dispatch implements a request-dispatch and binding engine for
// JSON HTTP APIs: it matches an incoming request to a registered handler,
// coerces request data (path variables, form and query fields) into the
// handler's declared parameter types, invokes the handler, and translates
// its return value or failure into exactly one HTTP response.
//
// The package implements routing and response semantics based on:
//   - RFC 9110 (HTTP Semantics, successor to RFC 7231)
//   - RFC 9112 (HTTP/1.1, successor to RFC 7230)
//   - RFC 3986 (URIs)
//
// # Engine
//
// Create an engine, register routes at startup, and serve:
//
//	e := dispatch.New()
//	e.GET("/api", dispatch.NewHandler(listHandler))
//	e.POST("/api/calculate", dispatch.NewHandler(calcHandler,
//	    dispatch.Field("operand1", dispatch.TypeInt),
//	    dispatch.Field("operator", dispatch.TypeString),
//	    dispatch.Field("operand2", dispatch.TypeInt),
//	))
//	http.ListenAndServe(":8080", e)
//
// Registration is explicit and programmatic. Duplicate routes and routes
// whose patterns structurally overlap an existing route for the same
// method are rejected at registration time, so resolution never has to
// tie-break at request time. The table freezes on the first served
// request; concurrent lookups take no locks.
//
// # Path Patterns
//
// Templates are matched segment by segment. A segment of the form {name}
// captures any single non-empty path segment:
//
//	e.DELETE("/api/resource/{id}", dispatch.NewHandler(deleteHandler,
//	    dispatch.PathVar("id", dispatch.TypeInt),
//	).Status(http.StatusNoContent))
//
// Raw captured values are stored in the request context, accessible via
// the Vars function; typed values arrive in the handler's Params.
//
// # Parameter Binding
//
// Each declared parameter names a path variable or a form/query field,
// a target type and a required flag. Coercion follows an explicit table,
// one rule per target type. Binding is all-or-nothing: parameters are
// checked in declaration order and the first failure terminates the
// request. Fields the handler does not declare are ignored.
//
// # Status Policy
//
// Terminal outcomes map to status codes as follows:
//
//	no matching path        404
//	path matches, method
//	does not                405 (with Allow header)
//	malformed parameter     400 (names the parameter)
//	missing required
//	parameter               500 (declaration/request contract violation)
//	handler returned error  500 (message in the body, no finer mapping)
//	handler returned value  handler's success status (default 200)
//	handler returned nil    success status, empty body
//
// A missing required parameter is deliberately not softened to 400:
// presence is the caller's contract but is not pre-validated. Handler
// errors collapse to a single coarse 500; the engine does not classify
// domain failures.
//
// # Middleware
//
// Middleware wraps the dispatch of matched routes:
//
//	e.Use(func(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // pre-processing
//	        next.ServeHTTP(w, r)
//	    })
//	})
//
// Ready-made middleware (panic recovery, request IDs, access logging,
// metrics) lives in the dispatchhandlers package.
package dispatch
