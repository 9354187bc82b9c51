// Package auth содержит сервис учетных данных: регистрацию пользователей
// с хешированием пароля и аутентификацию по сохраненному хешу.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/plp-users/internal/lib/password"
	"github.com/magabrotheeeer/plp-users/internal/lib/sl"
	"github.com/magabrotheeeer/plp-users/internal/models"
	"github.com/magabrotheeeer/plp-users/internal/storage"
)

// Исходы операций для метрик.
const (
	OutcomeCreated            = "created"
	OutcomeDuplicate          = "duplicate"
	OutcomeAuthenticated      = "authenticated"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (int64, error)

	// GetUserByUsername возвращает пользователя по имени или storage.ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// PasswordHasher вычисляет и проверяет хеши паролей.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
	CompareDummy(password string)
}

// Recorder получает исходы операций.
type Recorder interface {
	RecordRegister(outcome string)
	RecordLogin(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordRegister(string) {}
func (noopRecorder) RecordLogin(string)    {}

// Option настраивает Service.
type Option func(*Service)

// WithRecorder подключает учет исходов операций.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger задает логгер сервиса.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service регистрирует и аутентифицирует пользователей.
// Не хранит изменяемого состояния между запросами и безопасен для конкурентного использования.
type Service struct {
	users    UserRepository
	hasher   PasswordHasher
	recorder Recorder
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр Service.
func NewAuthService(users UserRepository, hasher PasswordHasher, opts ...Option) *Service {
	s := &Service{
		users:    users,
		hasher:   hasher,
		recorder: noopRecorder{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register хеширует пароль и сохраняет пользователя. Возвращает ID новой записи.
//
// Ошибки: ErrDuplicateCredential при занятом email или username, *HashingError
// если хеш не удалось вычислить (хранилище при этом не вызывается), *StorageError
// для прочих ошибок хранилища.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (int64, error) {
	const op = "services.auth.Register"
	log := s.log.With(sl.Op(op), slog.String("username", username))

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		s.recorder.RecordRegister(OutcomeError)
		return 0, &HashingError{Op: op, Err: err}
	}

	id, err := s.users.RegisterUser(ctx, models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info("duplicate credential")
			s.recorder.RecordRegister(OutcomeDuplicate)
			return 0, ErrDuplicateCredential
		}
		log.Error("failed to store user", sl.Err(err))
		s.recorder.RecordRegister(OutcomeError)
		return 0, &StorageError{Op: op, Err: err}
	}

	log.Info("user registered", slog.Int64("id", id))
	s.recorder.RecordRegister(OutcomeCreated)
	return id, nil
}

// Authenticate проверяет пароль пользователя и возвращает его публичные поля.
//
// Неизвестный username и неверный пароль дают одну и ту же ошибку ErrInvalidCredentials.
// Для неизвестного username все равно выполняется сравнение с фиктивным хешем.
func (s *Service) Authenticate(ctx context.Context, username, rawPassword string) (models.PublicUser, error) {
	const op = "services.auth.Authenticate"
	log := s.log.With(sl.Op(op), slog.String("username", username))

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.hasher.CompareDummy(rawPassword)
			log.Info("authentication failed")
			s.recorder.RecordLogin(OutcomeInvalidCredentials)
			return models.PublicUser{}, ErrInvalidCredentials
		}
		log.Error("failed to load user", sl.Err(err))
		s.recorder.RecordLogin(OutcomeError)
		return models.PublicUser{}, &StorageError{Op: op, Err: err}
	}

	if err = s.hasher.Compare(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			log.Info("authentication failed")
			s.recorder.RecordLogin(OutcomeInvalidCredentials)
			return models.PublicUser{}, ErrInvalidCredentials
		}
		log.Error("stored hash is unusable", sl.Err(err), slog.Int64("id", user.ID))
		s.recorder.RecordLogin(OutcomeError)
		return models.PublicUser{}, &HashingError{Op: op, Err: err}
	}

	log.Info("user authenticated", slog.Int64("id", user.ID))
	s.recorder.RecordLogin(OutcomeAuthenticated)
	return user.Public(), nil
}
