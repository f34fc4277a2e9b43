// Package catalog собирает приложение каталога: зависимости, маршруты и HTTP-сервер.
package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/product-catalog/internal/config"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/health"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/product/create"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/product/list"
	productlistadmin "github.com/magabrotheeeer/product-catalog/internal/http/handlers/product/listadmin"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/product/listowner"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/product/moderate"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/product/read"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/product/remove"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/product/update"
	"github.com/magabrotheeeer/product-catalog/internal/http/handlers/user/ban"
	userlistadmin "github.com/magabrotheeeer/product-catalog/internal/http/handlers/user/listadmin"
	"github.com/magabrotheeeer/product-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/product-catalog/internal/http/response"
	"github.com/magabrotheeeer/product-catalog/internal/metrics"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// AuthService описывает операции аутентификации, нужные маршрутам.
type AuthService interface {
	register.Service
	login.Service
	middlewarectx.Authenticator
}

// ProductService описывает операции над товарами, нужные маршрутам.
type ProductService interface {
	create.Service
	list.Service
	productlistadmin.Service
	listowner.Service
	read.Service
	update.Service
	remove.Service
	moderate.Service
}

type UserService interface {
	userlistadmin.Service
	ban.Service
}

type Services struct {
	Auth     AuthService
	Products ProductService
	Users    UserService
}

// Route описывает маршрут и его ограничения.
//
// Authenticated требует действительный токен, Roles дополнительно ограничивает
// роль. RateLimit задаёт лимит запросов за окно; 0 означает лимит по умолчанию.
// Exempt снимает ограничение частоты.
type Route struct {
	Method        string
	Path          string
	Handler       http.Handler
	Authenticated bool
	Roles         []models.Role
	RateLimit     int
	Exempt        bool
}

// Routes возвращает таблицу маршрутов приложения.
// /products/user объявлен раньше /products/{id}.
func Routes(logger *slog.Logger, svc Services, limits config.RateLimit) []Route {
	admin := []models.Role{models.RoleAdmin}
	productLimit := limits.ProductLimit

	return []Route{
		{Method: http.MethodGet, Path: "/health/status", Handler: health.New()},

		{Method: http.MethodPost, Path: "/auth/register", Handler: register.New(logger, svc.Auth)},
		{Method: http.MethodPost, Path: "/auth/login", Handler: login.New(logger, svc.Auth)},

		{Method: http.MethodGet, Path: "/products", Handler: list.New(logger, svc.Products), RateLimit: productLimit},
		{Method: http.MethodPost, Path: "/products", Handler: create.New(logger, svc.Products),
			Authenticated: true, RateLimit: productLimit},
		{Method: http.MethodGet, Path: "/products/admin", Handler: productlistadmin.New(logger, svc.Products),
			Roles: admin, RateLimit: productLimit},
		{Method: http.MethodGet, Path: "/products/user", Handler: listowner.New(logger, svc.Products),
			Authenticated: true, RateLimit: productLimit},
		{Method: http.MethodGet, Path: "/products/{id}", Handler: read.New(logger, svc.Products), RateLimit: productLimit},
		{Method: http.MethodPatch, Path: "/products/{id}", Handler: update.New(logger, svc.Products),
			Authenticated: true, RateLimit: productLimit},
		{Method: http.MethodDelete, Path: "/products/{id}", Handler: remove.New(logger, svc.Products),
			Authenticated: true, RateLimit: productLimit},
		{Method: http.MethodPatch, Path: "/products/{id}/admin/approve", Handler: moderate.New(logger, svc.Products, true),
			Roles: admin, Exempt: true},
		{Method: http.MethodPatch, Path: "/products/{id}/admin/disapprove", Handler: moderate.New(logger, svc.Products, false),
			Roles: admin, Exempt: true},

		{Method: http.MethodGet, Path: "/users/admin", Handler: userlistadmin.New(logger, svc.Users), Roles: admin},
		{Method: http.MethodPatch, Path: "/users/admin/{id}/ban", Handler: ban.New(logger, svc.Users, true), Roles: admin},
		{Method: http.MethodPatch, Path: "/users/admin/{id}/unban", Handler: ban.New(logger, svc.Users, false), Roles: admin},
	}
}

// RegisterRoutes регистрирует все маршруты приложения.
//
// Порядок ступеней маршрута: ограничение частоты, аутентификация, проверка роли.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, limits config.RateLimit,
	m *metrics.Metrics, gatherer prometheus.Gatherer,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middlewarectx.Logger(logger),
		middleware.Recoverer,
		middlewarectx.Metrics(m),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Write(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Write(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	authenticate := middlewarectx.Authenticate(svc.Auth, logger)

	for _, route := range Routes(logger, svc, limits) {
		var chain []func(http.Handler) http.Handler
		if !route.Exempt {
			limit := route.RateLimit
			if limit == 0 {
				limit = limits.Limit
			}
			limiter := middlewarectx.NewRateLimiter(limit, limits.Window)
			chain = append(chain, limiter.Middleware(route.Method+" "+route.Path, m, logger))
		}
		if route.Authenticated || len(route.Roles) > 0 {
			chain = append(chain, authenticate)
		}
		if len(route.Roles) > 0 {
			chain = append(chain, middlewarectx.RequireRoles(logger, route.Roles...))
		}
		r.With(chain...).Method(route.Method, route.Path, route.Handler)
	}

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
