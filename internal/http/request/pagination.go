// Package request разбирает общие параметры входящих запросов.
package request

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// Pagination читает page и limit из query. Отсутствующий параметр заменяется
// значением по умолчанию, limit больше максимума ограничивается максимумом.
func Pagination(r *http.Request) (models.Pagination, error) {
	query := r.URL.Query()

	page, err := positiveInt(query.Get("page"), models.DefaultPage)
	if err != nil {
		return models.Pagination{}, fmt.Errorf("%w: page must be a positive integer", models.ErrInvalidArgument)
	}
	limit, err := positiveInt(query.Get("limit"), models.DefaultLimit)
	if err != nil {
		return models.Pagination{}, fmt.Errorf("%w: limit must be a positive integer", models.ErrInvalidArgument)
	}
	if limit > models.MaxLimit {
		limit = models.MaxLimit
	}
	p := models.Pagination{Page: page, Limit: limit}
	if err := p.Validate(); err != nil {
		return models.Pagination{}, err
	}
	return p, nil
}

func positiveInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
