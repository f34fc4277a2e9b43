package listowner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/product-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListForOwner(ctx context.Context, ownerID string, page models.Pagination) (models.ProductPage, error) {
	args := m.Called(ctx, ownerID, page)
	return args.Get(0).(models.ProductPage), args.Error(1)
}

func TestListOwnerHandler(t *testing.T) {
	tests := []struct {
		name           string
		principal      *models.Principal
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "own products",
			principal: &models.Principal{UserID: "u1"},
			setupMock: func(m *MockService) {
				m.On("ListForOwner", mock.Anything, "u1", models.Pagination{Page: 1, Limit: 10}).
					Return(models.ProductPage{Items: []*models.Product{{ID: "p1", OwnerID: "u1"}}, Total: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"products":[{"id":"p1","name":"","price":0,"description":"","quantity":0,"approved":false,"ownerId":"u1"}],"total":1}`,
		},
		{
			name:      "no products",
			principal: &models.Principal{UserID: "u2"},
			setupMock: func(m *MockService) {
				m.On("ListForOwner", mock.Anything, "u2", mock.Anything).Return(models.ProductPage{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"products":[],"total":0}`,
		},
		{
			name:           "unauthenticated",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/products/user", nil)
			if tt.principal != nil {
				req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
