package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerTiming_WritesHeader(t *testing.T) {
	h := ServerTiming(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		StartTiming(r.Context(), "catalog", "catalog load").Stop()
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rr.Header().Get("Server-Timing"), "catalog")
}

func TestStartTiming_OutsideRequestIsNoop(t *testing.T) {
	tm := StartTiming(context.Background(), "x", "")
	assert.Nil(t, tm)
	assert.NotPanics(t, tm.Stop)
}
