package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/httputil"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/logger"
)

const (
	testSecret = "test-secret-with-enough-bytes"
	testIssuer = "baqirsons"
)

func adminChain(next http.Handler) http.Handler {
	return Auth(HMACValidator(testSecret, testIssuer), logger.Discard())(RequireRole("admin")(next))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *httputil.ErrorResponse {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestAuth_ValidAdminToken(t *testing.T) {
	token, err := SignHMAC(testSecret, testIssuer, "ops@baqirsons", "admin", time.Minute)
	require.NoError(t, err)

	var claims *Claims
	var subject string
	h := adminChain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = ClaimsFromContext(r.Context())
		subject = logger.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "ops@baqirsons", subject)
}

func TestAuth_Rejections(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	wrongKey, err := SignHMAC("another-secret", testIssuer, "x", "admin", time.Minute)
	require.NoError(t, err)

	wrongIssuer, err := SignHMAC(testSecret, "someone-else", "x", "admin", time.Minute)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: testIssuer},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"wrong issuer", "Bearer " + wrongIssuer},
		{"no expiry", "Bearer " + noExp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := adminChain(okHandler())
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "UNAUTHORIZED", decodeError(t, rr).Code)
		})
	}
}

func TestAuth_NonAdminForbidden(t *testing.T) {
	token, err := SignHMAC(testSecret, testIssuer, "viewer", "viewer", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rr := httptest.NewRecorder()
	adminChain(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rr).Code)
}

func TestHMACValidator_EmptySecretRejectsEverything(t *testing.T) {
	token, err := SignHMAC("", "", "x", "admin", time.Minute)
	require.NoError(t, err)

	_, err = HMACValidator("", "")(token)
	assert.Error(t, err)
}

func TestRoleFromContext_NoClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RoleFromContext(req.Context()))
	assert.Nil(t, ClaimsFromContext(req.Context()))
}
