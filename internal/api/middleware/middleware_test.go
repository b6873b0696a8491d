package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/api/shared"
	"github.com/techradar-io/radar-api/internal/auth"
	"github.com/techradar-io/radar-api/internal/platform/logger"
)

type stubValidator struct {
	claims *auth.Claims
	err    error
	token  string
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	s.token = token
	return s.claims, s.err
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
	}{
		{"valid token", "Bearer valid-token", nil, &auth.Claims{UserID: userID}, http.StatusOK},
		{"lowercase scheme", "bearer valid-token", nil, &auth.Claims{UserID: userID}, http.StatusOK},
		{"missing header", "", nil, nil, http.StatusUnauthorized},
		{"invalid format", "InvalidFormat", nil, nil, http.StatusUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", nil, nil, http.StatusUnauthorized},
		{"expired token", "Bearer expired", auth.ErrExpiredToken, nil, http.StatusUnauthorized},
		{"invalid token", "Bearer invalid", auth.ErrInvalidToken, nil, http.StatusUnauthorized},
		{"unexpected error", "Bearer boom", errors.New("boom"), nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			validator := &stubValidator{claims: tc.claims, err: tc.validateErr}
			var gotUser uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/radars", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()

			NewAuthMiddleware(validator).Authenticate(next).ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, "valid-token", validator.token)
			} else {
				assert.Equal(t, uuid.Nil, gotUser)
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req)
	assert.False(t, ok)
}

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.NewBufferLogger()

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	})

	w := httptest.NewRecorder()
	NewTraceMiddleware(log)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, traceID, 32)
	assert.Equal(t, traceID, w.Header().Get(TraceIDHeader))

	entry, ok := buf.Find("inside handler")
	require.True(t, ok)
	assert.Equal(t, traceID, entry["trace_id"])
}
