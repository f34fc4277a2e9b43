// Package list реализует публичный листинг одобренных товаров с пагинацией.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/product-catalog/internal/http/request"
	"github.com/magabrotheeeer/product-catalog/internal/http/response"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
	services "github.com/magabrotheeeer/product-catalog/internal/services/product"
)

type Service interface {
	ListApproved(ctx context.Context, page models.Pagination) (*services.ApprovedPage, error)
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
	const op = "handlers.product.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := request.Pagination(r)
	if err != nil {
		log.Info("invalid pagination", sl.Err(err))
		response.Write(w, r, http.StatusBadRequest, "page and limit must be positive integers")
		return
	}

	result, err := h.service.ListApproved(r.Context(), page)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, result)
}
