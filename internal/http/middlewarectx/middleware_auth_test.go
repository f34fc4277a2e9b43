package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/product-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// Mock for Authenticator
type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Principal(ctx context.Context, token string) (*models.Principal, error) {
	args := m.Called(ctx, token)
	p, _ := args.Get(0).(*models.Principal)
	return p, args.Error(1)
}

func TestAuthenticate(t *testing.T) {
	principal := &models.Principal{UserID: "u1", Role: models.RoleUser}

	tests := []struct {
		name           string
		authHeader     string
		token          string
		mockResp       *models.Principal
		mockErr        error
		wantStatusCode int
		wantCalled     bool
		wantError      string
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "missing or invalid authorization header",
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "missing or invalid authorization header",
		},
		{
			name:           "empty bearer token",
			authHeader:     "Bearer ",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "missing or invalid authorization header",
		},
		{
			name:           "token rejected",
			authHeader:     "Bearer bad",
			token:          "bad",
			mockErr:        fmt.Errorf("services.Principal: %w", models.ErrUnauthorized),
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid or expired token",
		},
		{
			name:           "store unavailable",
			authHeader:     "Bearer tok",
			token:          "tok",
			mockErr:        models.ErrUnavailable,
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      "service unavailable",
		},
		{
			name:           "unclassified store error",
			authHeader:     "Bearer tok",
			token:          "tok",
			mockErr:        fmt.Errorf("services.Principal: %w", errors.New("db down")),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			token:          "validtoken",
			mockResp:       principal,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer validtoken",
			token:          "validtoken",
			mockResp:       principal,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthenticatorMock)
			if tt.token != "" {
				authMock.On("Principal", mock.Anything, tt.token).Return(tt.mockResp, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				got, ok := middlewarectx.PrincipalFrom(r.Context())
				assert.True(t, ok)
				assert.Equal(t, principal, got)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.Authenticate(authMock, sl.Discard())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantError != "" {
				var body map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "Error", body["status"])
				assert.Equal(t, tt.wantError, body["error"])
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name      string
		principal *models.Principal
		roles     []models.Role
		wantCode  int
	}{
		{name: "no principal", roles: []models.Role{models.RoleAdmin}, wantCode: http.StatusUnauthorized},
		{name: "user on admin route", principal: &models.Principal{Role: models.RoleUser}, roles: []models.Role{models.RoleAdmin}, wantCode: http.StatusForbidden},
		{name: "admin on admin route", principal: &models.Principal{Role: models.RoleAdmin}, roles: []models.Role{models.RoleAdmin}, wantCode: http.StatusOK},
		{name: "any role allowed", principal: &models.Principal{Role: models.RoleUser}, wantCode: http.StatusOK},
		{name: "one of several", principal: &models.Principal{Role: models.RoleUser}, roles: []models.Role{models.RoleUser, models.RoleAdmin}, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.principal != nil {
				req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()

			middlewarectx.RequireRoles(sl.Discard(), tt.roles...)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, called)
		})
	}
}
