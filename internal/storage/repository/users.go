package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/product-catalog/internal/models"
)

const userColumns = `id, name, email, password_hash, role, is_banned`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.IsBanned); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return u, nil
}

// CreateUser сохраняет нового пользователя. Повторный email отклоняется
// ограничением уникальности и возвращается как models.ErrEmailInUse.
func (s *Storage) CreateUser(ctx context.Context, user models.NewUser) (*models.User, error) {
	const op = "storage.CreateUser"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	query := `INSERT INTO users (id, name, email, password_hash, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns
	created, err := scanUser(s.DB.QueryRowContext(ctx, query,
		uuid.NewString(), user.Name, user.Email, user.PasswordHash, string(role)))
	if err != nil {
		return nil, classify(op, err, models.ErrUserNotFound)
	}
	return created, nil
}

// GetUserByEmail возвращает пользователя по email (с учётом регистра).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, classify(op, err, models.ErrUserNotFound)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(op, err, models.ErrUserNotFound)
	}
	return u, nil
}

// ListUsers возвращает страницу пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context, page models.Pagination) (models.UserPage, error) {
	const op = "storage.ListUsers"
	if err := page.Validate(); err != nil {
		return models.UserPage{}, fmt.Errorf("%s: %w", op, err)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var result models.UserPage
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&result.Total); err != nil {
		return models.UserPage{}, classify(op, err, models.ErrUserNotFound)
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at, id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return models.UserPage{}, classify(op, err, models.ErrUserNotFound)
	}
	defer func() {
		_ = rows.Close()
	}()

	result.Items = make([]*models.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return models.UserPage{}, classify(op, err, models.ErrUserNotFound)
		}
		result.Items = append(result.Items, u)
	}
	if err = rows.Err(); err != nil {
		return models.UserPage{}, classify(op, err, models.ErrUserNotFound)
	}
	return result, nil
}

// SetBanned устанавливает флаг блокировки пользователя.
func (s *Storage) SetBanned(ctx context.Context, id string, banned bool) error {
	const op = "storage.SetBanned"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `UPDATE users SET is_banned = $1 WHERE id = $2`, banned, id)
	if err != nil {
		return classify(op, err, models.ErrUserNotFound)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classify(op, err, models.ErrUserNotFound)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}
