package dispatch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculateHandler(_ *http.Request, p Params) (any, error) {
	a := p.Int("operand1")
	b := p.Int("operand2")
	op := p.String("operator")

	var result int64
	switch op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	default:
		return nil, fmt.Errorf("unsupported operator %q", op)
	}

	return fmt.Sprintf("%d %s %d = %d", a, op, b, result), nil
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e := New()
	require.NoError(t, e.GET("/api", NewHandler(func(_ *http.Request, _ Params) (any, error) {
		return []string{"Hello", "World", "!"}, nil
	})))
	require.NoError(t, e.POST("/api/calculate", NewHandler(calculateHandler,
		Field("operand1", TypeInt),
		Field("operator", TypeString),
		Field("operand2", TypeInt),
	)))
	require.NoError(t, e.DELETE("/api/resource/{id}", NewHandler(func(_ *http.Request, _ Params) (any, error) {
		return nil, nil
	}, PathVar("id", TypeInt)).Status(http.StatusNoContent)))

	return e
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestEngineDispatch(t *testing.T) {
	t.Run("zero-argument handler returns JSON array", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `["Hello","World","!"]`, rec.Body.String())
	})

	t.Run("form fields bind and return a JSON string", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, postForm("/api/calculate", url.Values{
			"operand1": {"3"},
			"operator": {"+"},
			"operand2": {"4"},
		}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `"3 + 4 = 7"`, rec.Body.String())
	})

	t.Run("query fields share the form namespace", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/calculate?operand1=5&operator=*&operand2=6", nil)
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `"5 * 6 = 30"`, rec.Body.String())
	})

	t.Run("malformed field is a 400 naming the parameter", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, postForm("/api/calculate", url.Values{
			"operand1": {"abc"},
			"operator": {"+"},
			"operand2": {"4"},
		}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"malformed parameter","parameter":"operand1"}`, rec.Body.String())
	})

	t.Run("missing required field is a 500", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, postForm("/api/calculate", url.Values{
			"operator": {"+"},
			"operand2": {"4"},
		}))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"missing required parameter","parameter":"operand1"}`, rec.Body.String())
	})

	t.Run("handler error collapses to 500 with message", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, postForm("/api/calculate", url.Values{
			"operand1": {"3"},
			"operator": {"%"},
			"operand2": {"4"},
		}))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"unsupported operator \"%\""}`, rec.Body.String())
	})

	t.Run("declared 204 writes an empty body", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/resource/12", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("malformed path variable is a 400", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/resource/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"malformed parameter","parameter":"id"}`, rec.Body.String())
	})

	t.Run("unregistered path is a 404", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
	})

	t.Run("wrong method is a 405 with Allow header", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET", rec.Header().Get("Allow"))
	})

	t.Run("binding is idempotent across identical requests", func(t *testing.T) {
		e := newTestEngine(t)
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, postForm("/api/calculate", url.Values{
				"operand1": {"3"},
				"operator": {"+"},
				"operand2": {"4"},
			}))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `"3 + 4 = 7"`, rec.Body.String())
		}
	})
}

func TestEngineTerminalHandlers(t *testing.T) {
	t.Run("custom not found handler", func(t *testing.T) {
		e := New()
		e.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("custom method not allowed handler keeps Allow header", func(t *testing.T) {
		e := New()
		require.NoError(t, e.GET("/api", noopHandler()))
		e.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET", rec.Header().Get("Allow"))
	})
}

func TestEnginePathCleaning(t *testing.T) {
	t.Run("dot segments removed by default", func(t *testing.T) {
		e := newTestEngine(t)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/../api", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("skip clean leaves the path alone", func(t *testing.T) {
		e := New().SkipClean(true)
		require.NoError(t, e.GET("/api", noopHandler()))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/../api", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEngineMiddleware(t *testing.T) {
	t.Run("wraps matched handlers in order", func(t *testing.T) {
		e := New()
		require.NoError(t, e.GET("/api", noopHandler()))

		var order []string
		mw := func(name string) MiddlewareFunc {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}
		e.Use(mw("outer"), mw("inner"))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("does not wrap 404 responses", func(t *testing.T) {
		e := New()
		called := false
		e.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				next.ServeHTTP(w, r)
			})
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, called)
	})
}

func TestEngineFreeze(t *testing.T) {
	e := New()
	require.NoError(t, e.GET("/api", noopHandler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))

	err := e.GET("/late", noopHandler())
	assert.ErrorIs(t, err, ErrTableFrozen)
}

func TestEngineConcurrentDispatch(t *testing.T) {
	e := newTestEngine(t)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				rec := httptest.NewRecorder()
				e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
				if rec.Code != http.StatusOK {
					t.Errorf("unexpected status %d", rec.Code)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
