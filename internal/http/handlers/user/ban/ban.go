// Package ban реализует блокировку и разблокировку пользователя администратором.
package ban

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
)

type Service interface {
	Ban(ctx context.Context, id, actorID string) error
	Unban(ctx context.Context, id, actorID string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
	ban     bool
}

// New возвращает обработчик блокировки при ban=true и разблокировки иначе.
func New(log *slog.Logger, service Service, ban bool) *Handler {
	return &Handler{
		log:     log,
		service: service,
		ban:     ban,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.ban"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("ban", h.ban),
	)

	principal, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		response.Write(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	var (
		err error
		msg string
	)
	if h.ban {
		err = h.service.Ban(r.Context(), id, principal.UserID)
		msg = "User successfully banned"
	} else {
		err = h.service.Unban(r.Context(), id, principal.UserID)
		msg = "User successfully unbanned"
	}
	if err != nil {
		log.Info("failed to change ban state", slog.String("user_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("ban state changed", slog.String("user_id", id))
	render.JSON(w, r, response.Message{Message: msg})
}
