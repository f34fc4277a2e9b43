// Package services содержит бизнес-логику товаров: проверку владения,
// модерацию и кэширование листинга одобренных товаров.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/product-catalog/internal/events"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// ListingCachePrefix — общий префикс ключей кэша листинга одобренных товаров.
const ListingCachePrefix = "products:all:"

// ProductRepository определяет методы для работы с товарами в хранилище.
type ProductRepository interface {
	CreateProduct(ctx context.Context, ownerID string, input models.ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListApprovedProducts(ctx context.Context, page models.Pagination) (models.ProductPage, error)
	ListProducts(ctx context.Context, page models.Pagination) (models.ProductPage, error)
	ListProductsByOwner(ctx context.Context, ownerID string, page models.Pagination) (models.ProductPage, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SetProductApproved(ctx context.Context, id string, approved bool) (*models.Product, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// InvalidatePrefix удаляет все ключи с заданным префиксом.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// CacheMetrics учитывает обращения к кэшу.
type CacheMetrics interface {
	CacheHit()
	CacheMiss()
	CacheError(operation string)
}

type noopMetrics struct{}

func (noopMetrics) CacheHit()         {}
func (noopMetrics) CacheMiss()        {}
func (noopMetrics) CacheError(string) {}

// ApprovedPage кэшируется целиком.
type ApprovedPage struct {
	Results []*models.Product `json:"results"`
	Total   int               `json:"total"`
}

// AdminPage содержит все товары независимо от модерации.
type AdminPage struct {
	Items      []*models.Product `json:"items"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
}

// ProductService реализует бизнес-логику работы с товарами, включая кеширование.
type ProductService struct {
	repo     ProductRepository
	cache    Cache
	cacheTTL time.Duration
	metrics  CacheMetrics
	events   events.Publisher
	log      *slog.Logger
}

// NewProductService создает новый экземпляр ProductService. metrics может быть nil.
func NewProductService(repo ProductRepository, cache Cache, cacheTTL time.Duration, metrics CacheMetrics,
	publisher events.Publisher, log *slog.Logger) *ProductService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ProductService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		events:   publisher,
		log:      log,
	}
}

// ListingCacheKey возвращает ключ кэша страницы одобренных товаров.
func ListingCacheKey(page models.Pagination) string {
	return ListingCachePrefix + strconv.Itoa(page.Page) + ":" + strconv.Itoa(page.Limit)
}

// Create сохраняет товар владельца ownerID с approved=false.
func (s *ProductService) Create(ctx context.Context, input models.ProductInput, ownerID string) (*models.Product, error) {
	const op = "services.CreateProduct"

	product, err := s.repo.CreateProduct(ctx, ownerID, input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	product.StripOwnerSecrets()

	s.log.Info("product created", slog.String("product_id", product.ID), slog.String("owner_id", ownerID))
	s.invalidateListing(ctx)
	s.publish(ctx, events.ProductCreated, ownerID, product.ID)
	return product, nil
}

// ListApproved возвращает страницу одобренных товаров, используя кэш.
// Сбой кэша считается промахом и не влияет на результат.
func (s *ProductService) ListApproved(ctx context.Context, page models.Pagination) (*ApprovedPage, error) {
	const op = "services.ListApproved"
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := ListingCacheKey(page)
	var cached ApprovedPage
	found, err := s.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		s.metrics.CacheError("get")
		s.log.Warn("failed to read listing from cache", slog.String("key", key), sl.Err(err))
	case found:
		s.metrics.CacheHit()
		return &cached, nil
	default:
		s.metrics.CacheMiss()
	}

	result, err := s.repo.ListApprovedProducts(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	listing := &ApprovedPage{Results: publicItems(result.Items), Total: result.Total}

	// Инвалидация между чтением из БД и Set не отменяет запись: устаревшая
	// страница может жить до истечения TTL.
	if err := s.cache.Set(ctx, key, listing, s.cacheTTL); err != nil {
		s.metrics.CacheError("set")
		s.log.Warn("failed to cache listing", slog.String("key", key), sl.Err(err))
	}
	return listing, nil
}

// ListForAdmin возвращает страницу всех товаров без фильтра по модерации.
func (s *ProductService) ListForAdmin(ctx context.Context, page models.Pagination) (*AdminPage, error) {
	const op = "services.ListForAdmin"
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.repo.ListProducts(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AdminPage{
		Items:      publicItems(result.Items),
		Total:      result.Total,
		TotalPages: page.TotalPages(result.Total),
	}, nil
}

// ListForOwner возвращает страницу товаров владельца без кэширования.
func (s *ProductService) ListForOwner(ctx context.Context, ownerID string, page models.Pagination) (models.ProductPage, error) {
	const op = "services.ListForOwner"
	if err := page.Validate(); err != nil {
		return models.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.repo.ListProductsByOwner(ctx, ownerID, page)
	if err != nil {
		return models.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, p := range result.Items {
		p.StripOwnerSecrets()
	}
	return result, nil
}

// FindByID возвращает товар по ID.
func (s *ProductService) FindByID(ctx context.Context, id string) (*models.Product, error) {
	const op = "services.FindByID"

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	product.StripOwnerSecrets()
	return product, nil
}

// Update применяет патч к товару. Изменять товар может только его владелец.
func (s *ProductService) Update(ctx context.Context, id string, patch models.ProductPatch, callerID string) (*models.Product, error) {
	const op = "services.UpdateProduct"

	if err := s.authorizeOwner(ctx, id, callerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated.StripOwnerSecrets()

	s.invalidateListing(ctx)
	s.publish(ctx, events.ProductUpdated, callerID, id)
	return updated, nil
}

// Delete удаляет товар. Удалять товар может только его владелец.
func (s *ProductService) Delete(ctx context.Context, id, callerID string) error {
	const op = "services.DeleteProduct"

	if err := s.authorizeOwner(ctx, id, callerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("product deleted", slog.String("product_id", id))
	s.invalidateListing(ctx)
	s.publish(ctx, events.ProductDeleted, callerID, id)
	return nil
}

// SetApproved меняет статус модерации. Проверка роли выполняется на уровне маршрута.
func (s *ProductService) SetApproved(ctx context.Context, id string, approved bool, actorID string) (*models.Product, error) {
	const op = "services.SetApproved"

	product, err := s.repo.SetProductApproved(ctx, id, approved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	product.StripOwnerSecrets()

	s.invalidateListing(ctx)
	eventType := events.ProductApproved
	if !approved {
		eventType = events.ProductDisapproved
	}
	s.publish(ctx, eventType, actorID, id)
	return product, nil
}

func (s *ProductService) authorizeOwner(ctx context.Context, id, callerID string) error {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if product.OwnerID != callerID {
		return models.ErrForbidden
	}
	return nil
}

// publicItems убирает секреты владельцев; пустая страница сериализуется как [].
func publicItems(items []*models.Product) []*models.Product {
	if items == nil {
		return []*models.Product{}
	}
	for _, p := range items {
		p.StripOwnerSecrets()
	}
	return items
}

// invalidateListing удаляет все закэшированные страницы листинга.
func (s *ProductService) invalidateListing(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, ListingCachePrefix); err != nil {
		s.metrics.CacheError("invalidate")
		s.log.Warn("failed to invalidate listing cache", sl.Err(err))
	}
}

func (s *ProductService) publish(ctx context.Context, t events.Type, actorID, productID string) {
	event := events.New(t)
	event.ActorID = actorID
	event.ProductID = productID
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", string(t)), sl.Err(err))
	}
}
