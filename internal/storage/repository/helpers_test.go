package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/product-catalog/internal/migrations"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// setupTestStorage поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn, 5*time.Second)
	require.NoError(t, err, "failed to create storage")

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))

	t.Cleanup(func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return storage
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя через хранилище
func (f *TestDataFactory) CreateUser(t *testing.T, name, email string, role models.Role) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

// CreateProduct создает тестовый товар и при необходимости одобряет его
func (f *TestDataFactory) CreateProduct(t *testing.T, ownerID, name string, price float64, approved bool) *models.Product {
	t.Helper()
	ctx := context.Background()
	p, err := f.storage.CreateProduct(ctx, ownerID, models.ProductInput{
		Name:        name,
		Price:       price,
		Description: "description of " + name,
		Quantity:    1,
	})
	require.NoError(t, err)
	if approved {
		p, err = f.storage.SetProductApproved(ctx, p.ID, true)
		require.NoError(t, err)
	}
	return p
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyProductCount проверяет количество товаров в БД
func (v *TestVerification) VerifyProductCount(t *testing.T, expected int) {
	t.Helper()
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM products").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// VerifyUserBanned проверяет флаг блокировки пользователя
func (v *TestVerification) VerifyUserBanned(t *testing.T, userID string, expected bool) {
	t.Helper()
	var banned bool
	err := v.storage.DB.QueryRow("SELECT is_banned FROM users WHERE id = $1", userID).Scan(&banned)
	require.NoError(t, err)
	require.Equal(t, expected, banned)
}
