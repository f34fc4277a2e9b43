// Package middlewarectx содержит HTTP middleware: проверку JWT и роли,
// ограничение частоты запросов и сбор метрик.
//
// Authenticate проверяет заголовок Authorization, сверяет субъекта токена
// с хранилищем и кладёт models.Principal в контекст запроса. RequireRoles
// проверяет роль субъекта, уже находящегося в контексте. Это две независимые
// ступени: маршрут без ролей требует только аутентификации.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/product-catalog/internal/http/response"
	"github.com/magabrotheeeer/product-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey — ключ субъекта запроса в контексте.
const PrincipalKey Key = "principal"

// Authenticator разрешает токен в субъекта запроса.
type Authenticator interface {
	Principal(ctx context.Context, token string) (*models.Principal, error)
}

// WithPrincipal возвращает контекст с субъектом запроса.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom извлекает субъекта запроса из контекста.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return p, ok && p != nil
}

// Authenticate возвращает HTTP middleware, который проверяет Bearer-токен.
//
// Отсутствующий или некорректный заголовок, недействительный токен, удалённый
// или заблокированный пользователь дают 401. Недоступность хранилища даёт 503.
func Authenticate(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Info("missing or invalid authorization header")
				response.Write(w, r, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			principal, err := auth.Principal(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, models.ErrUnauthorized) {
					log.Info("invalid or expired token", sl.Err(err))
					response.Write(w, r, http.StatusUnauthorized, "invalid or expired token")
					return
				}
				log.Error("failed to resolve principal", sl.Err(err))
				response.Fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireRoles пропускает запрос, если роль субъекта входит в roles.
// Без субъекта в контексте отвечает 401, при несовпадении роли 403.
// Пустой roles пропускает любого аутентифицированного субъекта.
func RequireRoles(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				response.Write(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			if len(roles) > 0 && !principal.HasRole(roles...) {
				log.Info("role not allowed",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("user_id", principal.UserID),
					slog.String("role", string(principal.Role)),
				)
				response.Write(w, r, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
