package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	claims := &jwt.StandardClaims{
		Subject:   subject,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func guardedEcho(secret string) (http.Handler, *string) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = OperatorID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return RequireToken(secret)(next), &seen
}

func TestRequireToken_PassesValidTokenAndExposesOperator(t *testing.T) {
	sut, seen := guardedEcho("secret")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "secret", "op-42", time.Hour))
	rec := httptest.NewRecorder()

	sut.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "op-42", *seen)
}

func TestRequireToken_MissingHeaderIsRejected(t *testing.T) {
	sut, _ := guardedEcho("secret")

	rec := httptest.NewRecorder()
	sut.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireToken_WrongSecretIsRejected(t *testing.T) {
	sut, _ := guardedEcho("secret")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "other-secret", "op-42", time.Hour))
	rec := httptest.NewRecorder()

	sut.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireToken_ExpiredTokenIsRejected(t *testing.T) {
	sut, _ := guardedEcho("secret")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "secret", "op-42", -time.Minute))
	rec := httptest.NewRecorder()

	sut.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
