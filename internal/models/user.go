// Package models содержит доменные структуры каталога: пользователей, товары,
// параметры пагинации и аутентифицированного субъекта запроса.
// Типы не зависят от хранилища и транспорта.
package models

// Role — уровень доступа пользователя.
type Role string

const (
	// RoleUser назначается при регистрации.
	RoleUser Role = "user"
	// RoleAdmin — администратор: модерация товаров и пользователей.
	RoleAdmin Role = "admin"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User представляет зарегистрированного пользователя.
// PasswordHash никогда не сериализуется наружу.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	IsBanned     bool   `json:"isBanned"`
}

// Public возвращает копию пользователя без хэша пароля.
func (u User) Public() *User {
	u.PasswordHash = ""
	return &u
}

// NewUser — данные для создания пользователя в хранилище.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// UserPage — страница пользователей и общее количество записей.
type UserPage struct {
	Items []*User
	Total int
}

// Principal — аутентифицированный субъект запроса, построенный из claims токена
// и сверенный с хранилищем. Живёт в пределах одного запроса.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

// HasRole сообщает, входит ли роль субъекта в перечень допустимых.
func (p *Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
