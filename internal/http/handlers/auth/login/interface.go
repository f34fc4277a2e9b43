package login

import "context"

// Service выполняет вход и выпускает токен доступа.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}
