package dispatch

import "net/http"

// HandlerFunc is the signature of a dispatchable handler. It receives the
// original request and the bound, typed parameters and returns a value for
// the response serializer. A nil value produces an empty body. A non-nil
// error collapses to 500 Internal Server Error; the engine deliberately
// does not map domain error kinds to differentiated status codes.
type HandlerFunc func(r *http.Request, p Params) (any, error)

// Handler describes a registered handler: its ordered parameter
// declarations, the function to invoke, and the status written on success.
type Handler struct {
	params []Param
	fn     HandlerFunc
	status int
}

// NewHandler returns a handler descriptor for fn with the given parameter
// declarations. The success status defaults to 200 OK.
func NewHandler(fn HandlerFunc, params ...Param) *Handler {
	return &Handler{
		params: params,
		fn:     fn,
		status: http.StatusOK,
	}
}

// Status overrides the status code written on a successful invocation,
// e.g. 204 No Content for delete-style handlers. It returns the handler
// for chaining.
func (h *Handler) Status(code int) *Handler {
	h.status = code
	return h
}

// Params returns a copy of the handler's parameter declarations in
// declaration order.
func (h *Handler) Params() []Param {
	out := make([]Param, len(h.params))
	copy(out, h.params)
	return out
}

// SuccessStatus returns the status code written on a successful invocation.
func (h *Handler) SuccessStatus() int {
	return h.status
}
