package auth

import "errors"

var (
	// ErrDuplicateCredential означает, что email или username уже заняты.
	ErrDuplicateCredential = errors.New("username or email already exists")
	// ErrInvalidCredentials означает неизвестного пользователя или неверный пароль.
	// Причина намеренно не уточняется.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// StorageError оборачивает любую ошибку хранилища, кроме конфликта уникальности.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": storage failure: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// HashingError оборачивает ошибку вычисления или проверки хеша пароля.
type HashingError struct {
	Op  string
	Err error
}

func (e *HashingError) Error() string {
	return e.Op + ": hashing failure: " + e.Err.Error()
}

func (e *HashingError) Unwrap() error {
	return e.Err
}
