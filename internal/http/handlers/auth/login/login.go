// Package login реализует HTTP-обработчик аутентификации пользователя.
//
// При успехе возвращаются публичные поля пользователя. Неизвестный username
// и неверный пароль дают один и тот же ответ 401.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/plp-users/internal/http/response"
	"github.com/magabrotheeeer/plp-users/internal/lib/sl"
	"github.com/magabrotheeeer/plp-users/internal/models"
	"github.com/magabrotheeeer/plp-users/internal/services/auth"
)

const maxBodyBytes = 1 << 20

// Request описывает входные данные для входа.
type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LogValue скрывает пароль в логах.
func (r Request) LogValue() slog.Value {
	return slog.GroupValue(slog.String("username", r.Username))
}

// Service описывает аутентификацию пользователя.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (models.PublicUser, error)
}

// Handler обрабатывает POST /login.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис учетных данных
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.LoginResponse
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.MessageResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Debug("request body decoded", slog.Any("request", req))

	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Message("Invalid credentials"))
		return
	default:
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Error logging in"))
		return
	}

	log.Info("login success", slog.Int64("id", user.ID))
	render.JSON(w, r, response.Login("Login successful", user))
}
