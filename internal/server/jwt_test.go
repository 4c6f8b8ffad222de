package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonathan/call-scorer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testJWTSecret,
		ExpirationHours: expirationHours,
	})
}

func signClaims(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token, err := service.GenerateToken("qa-dashboard")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "JWT should have 3 parts separated by dots")

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "qa-dashboard", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_GenerateToken_RequiresSubject(t *testing.T) {
	_, err := setupTestJWTService(t, 24).GenerateToken("")
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_InvalidSignature(t *testing.T) {
	service := setupTestJWTService(t, 24)
	other := NewJWTService(&config.JWTConfig{Secret: "different-secret-key-for-jwt-signing", ExpirationHours: 24})

	token, err := other.GenerateToken("qa-dashboard")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.Nil(t, claims)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")
}

func TestJWTService_ValidateToken_Malformed(t *testing.T) {
	service := setupTestJWTService(t, 24)

	for _, token := range []string{"", "invalid", "invalid.token", "invalid.token.format.extra", "invalid.base64.signature"} {
		claims, err := service.ValidateToken(token)
		assert.Error(t, err, token)
		assert.Nil(t, claims)
	}
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := setupTestJWTService(t, 24)
	past := time.Now().Add(-2 * time.Hour)

	token := signClaims(t, testJWTSecret, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "qa-dashboard",
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
	}})

	claims, err := service.ValidateToken(token)
	assert.Nil(t, claims)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_ValidateToken_WrongIssuer(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token := signClaims(t, testJWTSecret, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "qa-dashboard",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})

	_, err := service.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 1)
	token, err := service.GenerateToken("batch-runner")
	require.NoError(t, err)

	claims, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	subject, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "batch-runner", subject)
}
