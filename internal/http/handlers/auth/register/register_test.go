package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// Мок сервиса с методом Register
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	valid := Request{Name: "A", Email: "a@x.com", Password: "secret1"}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "valid registration",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "A", "a@x.com", "secret1").
					Return(&models.User{ID: "u1", Name: "A", Email: "a@x.com", Role: models.RoleUser}, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Name: "A", Email: "a@x.com"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is a required field",
		},
		{
			name:           "validation error - short password",
			requestBody:    Request{Name: "A", Email: "a@x.com", Password: "123"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password must be at least 6 characters",
		},
		{
			name:           "validation error - password over bcrypt limit",
			requestBody:    Request{Name: "A", Email: "a@x.com", Password: strings.Repeat("a", 73)},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password must be at most 72 characters",
		},
		{
			name:        "multibyte password over bcrypt limit",
			requestBody: Request{Name: "A", Email: "a@x.com", Password: strings.Repeat("я", 40)},
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "A", "a@x.com", strings.Repeat("я", 40)).
					Return(nil, fmt.Errorf("services.Register: %w", models.ErrInvalidArgument))
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid argument",
		},
		{
			name:        "email in use",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "A", "a@x.com", "secret1").Return(nil, models.ErrEmailInUse).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "email already in use",
		},
		{
			name:        "internal error",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db error")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			handler := New(sl.Discard(), svc)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "User successfully registered", got["message"])
				user, ok := got["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "u1", user["id"])
				assert.Equal(t, "user", user["role"])
				assert.NotContains(t, user, "passwordHash")
				assert.NotContains(t, user, "password")
			}
			svc.AssertExpectations(t)
		})
	}
}
