// Package services содержит логику бизнес-уровня для регистрации, входа
// и проверки субъекта запроса.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/product-catalog/internal/events"
	"github.com/magabrotheeeer/product-catalog/internal/lib/jwt"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя; повторный email возвращает models.ErrEmailInUse.
	CreateUser(ctx context.Context, user models.NewUser) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или models.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по ID или models.ErrUserNotFound.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Hasher хэширует и проверяет пароли.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	hasher   Hasher
	jwtMaker jwt.Maker
	events   events.Publisher
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, hasher Hasher, jwtMaker jwt.Maker, publisher events.Publisher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		jwtMaker: jwtMaker,
		events:   publisher,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "user".
// Проверка email до записи только ускоряет отказ: источником истины остаётся
// ограничение уникальности хранилища.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, error) {
	const op = "services.Register"

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrEmailInUse)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event := events.New(events.UserRegistered)
	event.UserID = user.ID
	s.publish(ctx, event)

	return user.Public(), nil
}

// Authenticate проверяет учётные данные. Заблокированный пользователь получает
// models.ErrBanned независимо от правильности пароля.
func (s *AuthService) Authenticate(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "services.Authenticate"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.IsBanned {
		return nil, fmt.Errorf("%s: %w", op, models.ErrBanned)
	}
	if !s.hasher.Verify(rawPassword, user.PasswordHash) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	return user.Public(), nil
}

// IssueSession выпускает токен доступа. Блокировка перепроверяется по хранилищу
// на случай бана между Authenticate и выпуском токена.
func (s *AuthService) IssueSession(ctx context.Context, user *models.User) (string, error) {
	const op = "services.IssueSession"

	current, err := s.users.GetUser(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if current.IsBanned {
		return "", fmt.Errorf("%s: %w", op, models.ErrBanned)
	}

	token, err := s.jwtMaker.GenerateToken(jwt.Subject{
		UserID: current.ID,
		Role:   string(current.Role),
		Email:  current.Email,
		Name:   current.Name,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Login выполняет Authenticate и IssueSession.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	user, err := s.Authenticate(ctx, email, rawPassword)
	if err != nil {
		return "", err
	}
	return s.IssueSession(ctx, user)
}

// Principal проверяет токен и сверяет субъекта с хранилищем. Отсутствующий или
// заблокированный пользователь даёт models.ErrUnauthorized; роль берётся из
// хранилища, а не из claims.
func (s *AuthService) Principal(ctx context.Context, token string) (*models.Principal, error) {
	const op = "services.Principal"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUnauthorized, err)
	}

	user, err := s.users.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.IsBanned {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUnauthorized, models.ErrBanned)
	}

	return &models.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, nil
}

// EnsureAdmin создаёт учётную запись администратора, если email свободен.
// Если email занят пользователем без роли admin, возвращается models.ErrConflict.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, rawPassword string) (*models.User, error) {
	const op = "services.EnsureAdmin"

	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%s: %w: %s belongs to a non-admin user", op, models.ErrConflict, email)
		}
		return existing.Public(), nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	admin, err := s.users.CreateUser(ctx, models.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin account created", slog.String("user_id", admin.ID))
	return admin.Public(), nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", string(event.Type)), sl.Err(err))
	}
}
