// Package repository реализует хранилище пользователей и товаров на PostgreSQL.
// Уникальность email и ссылочная целостность товаров обеспечиваются ограничениями
// схемы; ошибки драйвера переводятся в ошибки предметной области.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями и товарами.
type Storage struct {
	DB           *sql.DB
	queryTimeout time.Duration
}

// New создаёт подключение к PostgreSQL и проверяет его.
// queryTimeout ограничивает каждый запрос; 0 отключает собственный лимит.
func New(ctx context.Context, storageConnectionString string, queryTimeout time.Duration) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s := &Storage{DB: db, queryTimeout: queryTimeout}
	pingCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
