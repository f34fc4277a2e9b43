package models

import (
	"errors"
	"fmt"
)

// Ошибки предметной области. Слой HTTP сопоставляет их со статусами ответа.
var (
	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBanned             = errors.New("user is banned")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnavailable        = errors.New("service unavailable")

	ErrConflict      = errors.New("conflict")
	ErrAlreadyBanned = fmt.Errorf("%w: user is already banned", ErrConflict)
	ErrNotBanned     = fmt.Errorf("%w: user is not banned", ErrConflict)
	ErrAdminTarget   = fmt.Errorf("%w: cannot ban an admin", ErrConflict)
)
