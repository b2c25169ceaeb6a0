package dispatch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext(t *testing.T) {
	t.Run("vars and current route visible inside handler", func(t *testing.T) {
		e := New()
		var gotVars map[string]string
		var gotRoute *Route
		require.NoError(t, e.GET("/users/{id}", NewHandler(func(r *http.Request, _ Params) (any, error) {
			gotVars = Vars(r)
			gotRoute = CurrentRoute(r)
			return nil, nil
		})))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))

		assert.Equal(t, map[string]string{"id": "42"}, gotVars)
		require.NotNil(t, gotRoute)
		assert.Equal(t, "/users/{id}", gotRoute.Template())
	})

	t.Run("no context outside dispatch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
		assert.Nil(t, Vars(req))
		assert.Nil(t, CurrentRoute(req))

		_, ok := VarGet(req, "id")
		assert.False(t, ok)
	})

	t.Run("var get", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = SetVars(req, map[string]string{"id": "7"})

		v, ok := VarGet(req, "id")
		assert.True(t, ok)
		assert.Equal(t, "7", v)

		_, ok = VarGet(req, "missing")
		assert.False(t, ok)
	})

	t.Run("set vars for handler tests", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = SetVars(req, map[string]string{"id": "12"})
		assert.Equal(t, map[string]string{"id": "12"}, Vars(req))
	})
}
