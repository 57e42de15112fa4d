package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/synonym-backend/internal/auth"
	"github.com/heartmarshall/synonym-backend/pkg/ctxutil"
)

var _ tokenValidator = &tokenValidatorMock{}

type tokenValidatorMock struct {
	ValidateFunc func(token string) (auth.Claims, error)

	mu    sync.Mutex
	calls []string
}

func (m *tokenValidatorMock) Validate(token string) (auth.Claims, error) {
	m.mu.Lock()
	m.calls = append(m.calls, token)
	m.mu.Unlock()
	return m.ValidateFunc(token)
}

func (m *tokenValidatorMock) ValidateCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	validator := &tokenValidatorMock{
		ValidateFunc: func(token string) (auth.Claims, error) {
			if token == "valid-token" {
				return auth.Claims{OwnerID: owner}, nil
			}
			return auth.Claims{}, errors.New("invalid token")
		},
	}

	var got uuid.UUID
	h := Auth(validator, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ctxutil.OwnerIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, owner, got)
}

func TestAuth_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		wantCalls int
	}{
		{"no header", "", 0},
		{"basic auth", "Basic dXNlcjpwYXNz", 0},
		{"empty bearer", "Bearer ", 0},
		{"invalid token", "Bearer nope", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator := &tokenValidatorMock{
				ValidateFunc: func(string) (auth.Claims, error) { return auth.Claims{}, errors.New("invalid token") },
			}
			h := Auth(validator, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run")
			}))

			req := httptest.NewRequest(http.MethodPost, "/synonyms/import", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			assert.Len(t, validator.ValidateCalls(), tt.wantCalls)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer with token", "Bearer valid-token", "valid-token"},
		{"bearer lowercase", "bearer valid-token", "valid-token"},
		{"bearer mixed case", "BEARER valid-token", "valid-token"},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
		{"bearer no space", "Bearertoken", ""},
		{"bearer empty token", "Bearer ", ""},
		{"just bearer", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, extractBearerToken(req))
		})
	}
}
