// Package models содержит доменную модель пользователя.
package models

// User представляет строку таблицы users.
type User struct {
	ID           int64  // Суррогатный ключ, назначается хранилищем
	Email        string // Электронная почта (уникальная)
	Username     string // Имя пользователя (уникальное)
	PasswordHash string // bcrypt-хеш пароля, никогда не открытый текст
}

// PublicUser содержит поля пользователя, которые можно отдавать клиенту.
type PublicUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Public возвращает публичное представление пользователя без хеша пароля.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
	}
}
