// Package moderate реализует одобрение и снятие одобрения товара администратором.
package moderate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/product-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/product-catalog/internal/http/response"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

type Service interface {
	SetApproved(ctx context.Context, id string, approved bool, actorID string) (*models.Product, error)
}

// Handler выставляет флаг одобрения в значение approved.
type Handler struct {
	log      *slog.Logger
	service  Service
	approved bool
}

func New(log *slog.Logger, service Service, approved bool) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		approved: approved,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.moderate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("approved", h.approved),
	)

	principal, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		response.Write(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	product, err := h.service.SetApproved(r.Context(), id, h.approved, principal.UserID)
	if err != nil {
		log.Info("failed to moderate product", slog.String("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("product moderated", slog.String("id", id))
	render.JSON(w, r, product)
}
