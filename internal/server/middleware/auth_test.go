package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]string
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{validTokens: make(map[string]string)}
}

func (v *testTokenValidator) ValidateToken(tokenString string) (SubjectGetter, error) {
	subject, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(subject), nil
}

type testClaims string

func (c testClaims) GetSubject() (string, error) {
	return string(c), nil
}

func runAuth(t *testing.T, v TokenValidator, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seen string
	handler := AuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := GetSubject(r)
		require.NoError(t, err)
		seen = subject
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/analyses", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := newTestTokenValidator()
	v.validTokens["valid-token"] = "qa-dashboard"

	for _, header := range []string{"Bearer valid-token", "bearer valid-token", "BEARER   valid-token"} {
		w, subject := runAuth(t, v, header)
		assert.Equal(t, http.StatusOK, w.Code, header)
		assert.Equal(t, "qa-dashboard", subject)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	v := newTestTokenValidator()
	v.validTokens["valid-token"] = "qa-dashboard"
	v.validTokens["no-subject"] = ""

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "no scheme", header: "valid-token"},
		{name: "wrong scheme", header: "Basic valid-token"},
		{name: "extra parts", header: "Bearer valid-token extra"},
		{name: "unknown token", header: "Bearer nope"},
		{name: "empty subject", header: "Bearer no-subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := runAuth(t, v, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestGetSubject_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSubject(req)
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestGetSubject_InvalidType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), subjectKey, 42))
	_, err := GetSubject(req)
	assert.ErrorIs(t, err, ErrNoSubject)
}
