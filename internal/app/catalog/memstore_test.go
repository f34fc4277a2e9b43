package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/product-catalog/internal/models"
)

type memoryStore struct {
	mu       sync.Mutex
	users    []*models.User
	products []*models.Product
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) CreateUser(_ context.Context, u models.NewUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, models.ErrEmailInUse
		}
	}
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         role,
	}
	s.users = append(s.users, user)
	cp := *user
	return &cp, nil
}

func (s *memoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *memoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findUser(id); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrUserNotFound
}

func (s *memoryStore) ListUsers(_ context.Context, page models.Pagination) (models.UserPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*models.User
	for _, u := range window(s.users, page) {
		cp := *u
		items = append(items, &cp)
	}
	return models.UserPage{Items: items, Total: len(s.users)}, nil
}

func (s *memoryStore) SetBanned(_ context.Context, id string, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(id)
	if u == nil {
		return models.ErrUserNotFound
	}
	u.IsBanned = banned
	return nil
}

func (s *memoryStore) CreateProduct(_ context.Context, ownerID string, input models.ProductInput) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUser(ownerID) == nil {
		return nil, models.ErrUserNotFound
	}
	p := &models.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Quantity:    input.Quantity,
		OwnerID:     ownerID,
	}
	s.products = append(s.products, p)
	return s.snapshot(p), nil
}

func (s *memoryStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p := s.findProduct(id); p != nil {
		return s.snapshot(p), nil
	}
	return nil, models.ErrProductNotFound
}

func (s *memoryStore) ListApprovedProducts(_ context.Context, page models.Pagination) (models.ProductPage, error) {
	return s.list(page, func(p *models.Product) bool { return p.Approved }), nil
}

func (s *memoryStore) ListProducts(_ context.Context, page models.Pagination) (models.ProductPage, error) {
	return s.list(page, func(*models.Product) bool { return true }), nil
}

func (s *memoryStore) ListProductsByOwner(_ context.Context, ownerID string, page models.Pagination) (models.ProductPage, error) {
	return s.list(page, func(p *models.Product) bool { return p.OwnerID == ownerID }), nil
}

func (s *memoryStore) UpdateProduct(_ context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return nil, models.ErrProductNotFound
	}
	patch.Apply(p)
	return s.snapshot(p), nil
}

func (s *memoryStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return models.ErrProductNotFound
}

func (s *memoryStore) SetProductApproved(_ context.Context, id string, approved bool) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return nil, models.ErrProductNotFound
	}
	p.Approved = approved
	return s.snapshot(p), nil
}

func (s *memoryStore) list(page models.Pagination, keep func(*models.Product) bool) models.ProductPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.Product
	for _, p := range s.products {
		if keep(p) {
			matched = append(matched, p)
		}
	}
	var items []*models.Product
	for _, p := range window(matched, page) {
		items = append(items, s.snapshot(p))
	}
	return models.ProductPage{Items: items, Total: len(matched)}
}

func (s *memoryStore) findUser(id string) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *memoryStore) findProduct(id string) *models.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *memoryStore) snapshot(p *models.Product) *models.Product {
	cp := *p
	if owner := s.findUser(p.OwnerID); owner != nil {
		o := *owner
		cp.Owner = &o
	}
	return &cp
}

func window[T any](items []T, page models.Pagination) []T {
	from := page.Offset()
	if from >= len(items) {
		return nil
	}
	to := min(from+page.Limit, len(items))
	return items[from:to]
}
