package dispatch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	t.Run("sequence of strings preserves order", func(t *testing.T) {
		rec := httptest.NewRecorder()
		JSON(rec, http.StatusOK, []string{"Hello", "World", "!"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "[\"Hello\",\"World\",\"!\"]\n", rec.Body.String())
	})

	t.Run("strings are quoted and escaped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		JSON(rec, http.StatusOK, `say "hi"`)

		assert.Equal(t, "\"say \\\"hi\\\"\"\n", rec.Body.String())
	})

	t.Run("encoding failure falls back to 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		JSON(rec, http.StatusOK, func() {})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NoBody(rec, http.StatusNoContent)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestRespondError(t *testing.T) {
	t.Run("with parameter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondError(rec, http.StatusBadRequest, "malformed parameter", "operand1")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"malformed parameter","parameter":"operand1"}`, rec.Body.String())
	})

	t.Run("without parameter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondError(rec, http.StatusNotFound, "not found", "")

		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
	})
}
