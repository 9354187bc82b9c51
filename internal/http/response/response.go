// Package response содержит типы и функции для формирования JSON-ответов HTTP-обработчиков.
package response

import "github.com/magabrotheeeer/plp-users/internal/models"

// MessageResponse содержит успешный ответ или отказ в аутентификации.
type MessageResponse struct {
	Message string `json:"message" example:"User registered successfully"`
}

// ErrorResponse содержит ответ с ошибкой. Никогда не содержит текст ошибки хранилища.
type ErrorResponse struct {
	Error string `json:"error" example:"Username or email already exists"`
}

// LoginResponse содержит ответ на успешный вход.
type LoginResponse struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

// StatusResponse содержит ответ проверки состояния.
type StatusResponse struct {
	Status string `json:"status"`
}

const (
	// StatusOK задает значение статуса для исправного сервиса.
	StatusOK = "OK"
	// StatusError задает значение статуса для неисправного сервиса.
	StatusError = "Error"
)

// Message возвращает MessageResponse с переданным текстом.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// Error возвращает ErrorResponse с переданным текстом.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Login возвращает ответ на успешный вход с публичными полями пользователя.
func Login(msg string, user models.PublicUser) LoginResponse {
	return LoginResponse{Message: msg, User: user}
}

// Status возвращает ответ проверки состояния.
func Status(status string) StatusResponse {
	return StatusResponse{Status: status}
}
