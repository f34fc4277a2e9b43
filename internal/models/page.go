package models

import (
	"fmt"
	"math"
)

// Параметры пагинации по умолчанию.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination описывает запрос страницы: Page и Limit начинаются с 1.
type Pagination struct {
	Page  int
	Limit int
}

// Validate проверяет границы параметров пагинации.
func (p Pagination) Validate() error {
	if p.Page < 1 || p.Limit < 1 {
		return fmt.Errorf("%w: page and limit must be positive numbers", ErrInvalidArgument)
	}
	if p.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must not exceed %d", ErrInvalidArgument, MaxLimit)
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return fmt.Errorf("%w: page is out of range", ErrInvalidArgument)
	}
	return nil
}

// Offset возвращает количество пропускаемых записей.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages возвращает количество страниц для total записей.
func (p Pagination) TotalPages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
