// Package listadmin реализует постраничный листинг пользователей для администратора.
package listadmin

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
	services "github.com/magabrotheeeer/product-catalog/internal/services/user"
)

type Service interface {
	List(ctx context.Context, page models.Pagination) (*services.UsersPage, error)
}

type Response struct {
	Message    string         `json:"message"`
	Users      []*models.User `json:"users"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
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
	const op = "handlers.user.listadmin"

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

	result, err := h.service.List(r.Context(), page)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, Response{
		Message:    "Users successfully fetched",
		Users:      result.Users,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}
