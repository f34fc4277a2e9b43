// Package listowner реализует листинг товаров текущего пользователя.
package listowner

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/product-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/product-catalog/internal/http/request"
	"github.com/magabrotheeeer/product-catalog/internal/http/response"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

type Service interface {
	ListForOwner(ctx context.Context, ownerID string, page models.Pagination) (models.ProductPage, error)
}

type Response struct {
	Products []*models.Product `json:"products"`
	Total    int               `json:"total"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.listowner"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		response.Write(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, err := request.Pagination(r)
	if err != nil {
		log.Info("invalid pagination", sl.Err(err))
		response.Write(w, r, http.StatusBadRequest, "page and limit must be positive integers")
		return
	}

	result, err := h.service.ListForOwner(r.Context(), principal.UserID, page)
	if err != nil {
		log.Error("failed to list owner products", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	products := result.Items
	if products == nil {
		products = []*models.Product{}
	}
	render.JSON(w, r, Response{Products: products, Total: result.Total})
}
