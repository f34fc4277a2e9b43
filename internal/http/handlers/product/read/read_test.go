package read

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) FindByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение товара",
			url:  "/products/p1",
			setupMock: func(m *MockService) {
				m.On("FindByID", mock.Anything, "p1").Return(&models.Product{
					ID: "p1", Name: "P", Price: 10, OwnerID: "u1",
					Owner: &models.User{ID: "u1", Name: "A", Email: "a@x.com", Role: models.RoleUser},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"id":"p1","name":"P","price":10,"description":"","quantity":0,"approved":false,"ownerId":"u1",
				"user":{"id":"u1","name":"A","email":"a@x.com","role":"user","isBanned":false}}`,
		},
		{
			name: "товар не найден",
			url:  "/products/missing",
			setupMock: func(m *MockService) {
				m.On("FindByID", mock.Anything, "missing").Return(nil, models.ErrProductNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"product not found"}`,
		},
		{
			name: "ошибка сервиса чтения",
			url:  "/products/p2",
			setupMock: func(m *MockService) {
				m.On("FindByID", mock.Anything, "p2").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := chi.NewRouter()
			r.Method(http.MethodGet, "/products/{id}", New(sl.Discard(), svc))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
