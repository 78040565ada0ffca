package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/logger"
)

func TestRecovery_PanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	ctx := logger.WithCorrelationID(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "corr-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil).WithContext(ctx))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	e := decodeError(t, rr)
	assert.Equal(t, "INTERNAL_ERROR", e.Code)
	assert.Equal(t, "corr-1", e.RequestID)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRecovery_PassThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	Recovery(logger.Discard())(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
