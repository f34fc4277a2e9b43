package register

import (
	"context"

	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// Service регистрирует пользователей.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
}
