// Package health отдаёт состояние процесса для liveness-проб.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/product-catalog/internal/http/response"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": response.StatusOK})
}
