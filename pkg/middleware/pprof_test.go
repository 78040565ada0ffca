package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/logger"
)

func TestRegisterPprof_Allowlist(t *testing.T) {
	r := chi.NewRouter()
	RegisterPprof(r, []string{"127.0.0.0/8", "not-a-cidr"}, logger.Discard())

	tests := []struct {
		name   string
		remote string
		want   int
	}{
		{"loopback allowed", "127.0.0.1:9000", http.StatusOK},
		{"public denied", "203.0.113.5:9000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
			req.RemoteAddr = tt.remote
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestIPAllowlist_IgnoresForwardedHeaders(t *testing.T) {
	h := IPAllowlist([]string{"10.0.0.0/8"}, logger.Discard())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:1"
	req.Header.Set("X-Forwarded-For", "10.1.1.1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
