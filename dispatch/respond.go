package dispatch

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// JSON encodes v as JSON and writes it to the response with the given
// status code. The Content-Type header is set to "application/json".
// Strings are JSON-string-encoded (quoted, escaped); raw unescaped text is
// never emitted as a body. If encoding fails, an HTTP 500 Internal Server
// Error is written instead.
func JSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

// NoBody writes the status code with no body and no Content-Type.
func NoBody(w http.ResponseWriter, code int) {
	w.WriteHeader(code)
}

// errorBody is the JSON shape of engine-generated error responses.
type errorBody struct {
	Error     string `json:"error"`
	Parameter string `json:"parameter,omitempty"`
}

// respondError writes an engine-generated JSON error payload. The
// parameter name is included for binding failures so the client can
// identify the offending field.
func respondError(w http.ResponseWriter, code int, msg, param string) {
	JSON(w, code, errorBody{Error: msg, Parameter: param})
}
