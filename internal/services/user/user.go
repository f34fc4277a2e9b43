// Package services содержит администрирование пользователей: листинг и блокировку.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/product-catalog/internal/events"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// UserRepository описывает доступ к пользователям, нужный администрированию.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, page models.Pagination) (models.UserPage, error)
	SetBanned(ctx context.Context, id string, banned bool) error
}

type UsersPage struct {
	Users      []*models.User
	Total      int
	TotalPages int
}

// UserService реализует операции администратора над пользователями.
type UserService struct {
	users  UserRepository
	events events.Publisher
	log    *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, publisher events.Publisher, log *slog.Logger) *UserService {
	return &UserService{users: users, events: publisher, log: log}
}

// List возвращает страницу пользователей без хэшей паролей.
func (s *UserService) List(ctx context.Context, page models.Pagination) (*UsersPage, error) {
	const op = "services.ListUsers"
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.users.ListUsers(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users := make([]*models.User, 0, len(result.Items))
	for _, u := range result.Items {
		users = append(users, u.Public())
	}
	return &UsersPage{
		Users:      users,
		Total:      result.Total,
		TotalPages: page.TotalPages(result.Total),
	}, nil
}

// Ban блокирует пользователя. Администратора заблокировать нельзя.
func (s *UserService) Ban(ctx context.Context, id, actorID string) error {
	const op = "services.Ban"

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Role == models.RoleAdmin {
		return fmt.Errorf("%s: %w", op, models.ErrAdminTarget)
	}
	if user.IsBanned {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyBanned)
	}
	if err := s.users.SetBanned(ctx, id, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user banned", slog.String("user_id", id), slog.String("actor_id", actorID))
	s.publish(ctx, events.UserBanned, actorID, id)
	return nil
}

// Unban снимает блокировку.
func (s *UserService) Unban(ctx context.Context, id, actorID string) error {
	const op = "services.Unban"

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Role == models.RoleAdmin {
		return fmt.Errorf("%s: %w", op, models.ErrAdminTarget)
	}
	if !user.IsBanned {
		return fmt.Errorf("%s: %w", op, models.ErrNotBanned)
	}
	if err := s.users.SetBanned(ctx, id, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user unbanned", slog.String("user_id", id), slog.String("actor_id", actorID))
	s.publish(ctx, events.UserUnbanned, actorID, id)
	return nil
}

func (s *UserService) publish(ctx context.Context, t events.Type, actorID, userID string) {
	event := events.New(t)
	event.ActorID = actorID
	event.UserID = userID
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", string(t)), sl.Err(err))
	}
}
