package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// productColumns выбирает товар вместе с публичными полями владельца.
const productColumns = `p.id, p.name, p.price::float8, p.description, p.quantity, p.approved, p.owner_id,
		u.id, u.name, u.email, u.role, u.is_banned`

const productFrom = ` FROM products p JOIN users u ON u.id = p.owner_id`

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{Owner: &models.User{}}
	var role string
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Quantity, &p.Approved, &p.OwnerID,
		&p.Owner.ID, &p.Owner.Name, &p.Owner.Email, &role, &p.Owner.IsBanned)
	if err != nil {
		return nil, err
	}
	p.Owner.Role = models.Role(role)
	return p, nil
}

// CreateProduct сохраняет товар владельца ownerID с approved=false.
// Отсутствующий владелец возвращается как models.ErrUserNotFound.
func (s *Storage) CreateProduct(ctx context.Context, ownerID string, input models.ProductInput) (*models.Product, error) {
	const op = "storage.CreateProduct"
	if _, err := uuid.Parse(ownerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `WITH created AS (
				INSERT INTO products (id, name, price, description, quantity, approved, owner_id)
				VALUES ($1, $2, $3, $4, $5, FALSE, $6)
				RETURNING *
			  )
			  SELECT ` + productColumns + ` FROM created p JOIN users u ON u.id = p.owner_id`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		uuid.NewString(), input.Name, input.Price, input.Description, input.Quantity, ownerID))
	if err != nil {
		return nil, classify(op, err, models.ErrUserNotFound)
	}
	return p, nil
}

// GetProduct возвращает товар по ID.
func (s *Storage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.GetProduct"
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + productFrom + ` WHERE p.id = $1`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(op, err, models.ErrProductNotFound)
	}
	return p, nil
}

// ListApprovedProducts возвращает страницу одобренных товаров, новые первыми.
func (s *Storage) ListApprovedProducts(ctx context.Context, page models.Pagination) (models.ProductPage, error) {
	return s.listProducts(ctx, "storage.ListApprovedProducts", page, `p.approved = TRUE`)
}

// ListProducts возвращает страницу всех товаров независимо от статуса модерации.
func (s *Storage) ListProducts(ctx context.Context, page models.Pagination) (models.ProductPage, error) {
	return s.listProducts(ctx, "storage.ListProducts", page, `TRUE`)
}

// ListProductsByOwner возвращает страницу товаров одного владельца.
func (s *Storage) ListProductsByOwner(ctx context.Context, ownerID string, page models.Pagination) (models.ProductPage, error) {
	const op = "storage.ListProductsByOwner"
	if _, err := uuid.Parse(ownerID); err != nil {
		return models.ProductPage{}, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return s.listProducts(ctx, op, page, `p.owner_id = $1`, ownerID)
}

// listProducts выполняет подсчёт и выборку страницы по условию where.
// Параметры LIMIT и OFFSET добавляются после args.
func (s *Storage) listProducts(ctx context.Context, op string, page models.Pagination, where string, args ...any) (models.ProductPage, error) {
	if err := page.Validate(); err != nil {
		return models.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var result models.ProductPage
	countQuery := `SELECT COUNT(*) FROM products p WHERE ` + where
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&result.Total); err != nil {
		return models.ProductPage{}, classify(op, err, models.ErrProductNotFound)
	}

	query := `SELECT ` + productColumns + productFrom + `
			  WHERE ` + where + `
			  ORDER BY p.created_at DESC, p.id
			  LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	params := append(args, page.Limit, page.Offset())
	rows, err := s.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return models.ProductPage{}, classify(op, err, models.ErrProductNotFound)
	}
	defer func() {
		_ = rows.Close()
	}()

	result.Items = make([]*models.Product, 0, page.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return models.ProductPage{}, classify(op, err, models.ErrProductNotFound)
		}
		result.Items = append(result.Items, p)
	}
	if err = rows.Err(); err != nil {
		return models.ProductPage{}, classify(op, err, models.ErrProductNotFound)
	}
	return result, nil
}

// UpdateProduct меняет только заданные в патче поля.
func (s *Storage) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `WITH updated AS (
				UPDATE products SET
					name = COALESCE($2, name),
					price = COALESCE($3, price),
					description = COALESCE($4, description),
					quantity = COALESCE($5, quantity),
					updated_at = NOW()
				WHERE id = $1
				RETURNING *
			  )
			  SELECT ` + productColumns + ` FROM updated p JOIN users u ON u.id = p.owner_id`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		id, patch.Name, patch.Price, patch.Description, patch.Quantity))
	if err != nil {
		return nil, classify(op, err, models.ErrProductNotFound)
	}
	return p, nil
}

// DeleteProduct удаляет товар по ID.
func (s *Storage) DeleteProduct(ctx context.Context, id string) error {
	const op = "storage.DeleteProduct"
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return classify(op, err, models.ErrProductNotFound)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classify(op, err, models.ErrProductNotFound)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
	}
	return nil
}

// SetProductApproved устанавливает статус модерации товара.
func (s *Storage) SetProductApproved(ctx context.Context, id string, approved bool) (*models.Product, error) {
	const op = "storage.SetProductApproved"
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `WITH updated AS (
				UPDATE products SET approved = $2, updated_at = NOW()
				WHERE id = $1
				RETURNING *
			  )
			  SELECT ` + productColumns + ` FROM updated p JOIN users u ON u.id = p.owner_id`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id, approved))
	if err != nil {
		return nil, classify(op, err, models.ErrProductNotFound)
	}
	return p, nil
}
