package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// classify переводит ошибку драйвера в ошибку предметной области.
// notFound возвращается для отсутствующих строк и некорректных идентификаторов.
func classify(op string, err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, notFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if pgErr.ConstraintName == "users_email_key" {
				return fmt.Errorf("%s: %w", op, models.ErrEmailInUse)
			}
		case pgerrcode.ForeignKeyViolation:
			if pgErr.ConstraintName == "products_owner_id_fkey" {
				return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
			}
		case pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%s: %w", op, notFound)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%s: %w: %s", op, models.ErrInvalidArgument, pgErr.ConstraintName)
		case pgerrcode.NumericValueOutOfRange, pgerrcode.InvalidRowCountInResultOffsetClause,
			pgerrcode.InvalidRowCountInLimitClause:
			return fmt.Errorf("%s: %w: %s", op, models.ErrInvalidArgument, pgErr.Message)
		case pgerrcode.QueryCanceled, pgerrcode.AdminShutdown, pgerrcode.CannotConnectNow,
			pgerrcode.TooManyConnections:
			return fmt.Errorf("%s: %w: %w", op, models.ErrUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, models.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
