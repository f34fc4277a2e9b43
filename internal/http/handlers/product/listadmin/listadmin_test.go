package listadmin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
	services "github.com/magabrotheeeer/product-catalog/internal/services/product"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListForAdmin(ctx context.Context, page models.Pagination) (*services.AdminPage, error) {
	args := m.Called(ctx, page)
	if res := args.Get(0); res != nil {
		return res.(*services.AdminPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListAdminHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("ListForAdmin", mock.Anything, models.Pagination{Page: 1, Limit: 2}).
		Return(&services.AdminPage{
			Items:      []*models.Product{{ID: "p1", OwnerID: "u1"}, {ID: "p2", OwnerID: "u2", Approved: true}},
			Total:      3,
			TotalPages: 2,
		}, nil)

	rec := httptest.NewRecorder()
	New(sl.Discard(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/admin?limit=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"items":[
			{"id":"p1","name":"","price":0,"description":"","quantity":0,"approved":false,"ownerId":"u1"},
			{"id":"p2","name":"","price":0,"description":"","quantity":0,"approved":true,"ownerId":"u2"}
		],
		"total":3,
		"totalPages":2
	}`, rec.Body.String())
}

func TestListAdminHandler_InvalidLimit(t *testing.T) {
	svc := new(MockService)

	rec := httptest.NewRecorder()
	New(sl.Discard(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/admin?limit=0", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ListForAdmin", mock.Anything, mock.Anything)
}
