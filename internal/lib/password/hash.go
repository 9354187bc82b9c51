// Package password реализует хеширование и проверку паролей на основе bcrypt.
//
// Соль генерируется заново при каждом вызове и хранится внутри самого хеша,
// поэтому отдельное хранение соли не требуется.
package password

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost соответствует 2^10 раундам bcrypt.
const DefaultCost = 10

// ErrMismatch возвращается, когда пароль не соответствует хешу.
var ErrMismatch = errors.New("password does not match hash")

// Hasher хеширует пароли с заданной стоимостью.
type Hasher struct {
	cost  int
	dummy func() ([]byte, error)
}

// NewHasher создает Hasher. Стоимость вне диапазона bcrypt заменяется на DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	h := &Hasher{cost: cost}
	h.dummy = sync.OnceValues(func() ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte("dummy-password-for-missing-users"), h.cost)
	})
	return h
}

// Cost возвращает стоимость хеширования.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash возвращает bcrypt-хеш пароля.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает пароль с хешем. Несовпадение возвращает ErrMismatch,
// любая другая ошибка означает поврежденный хеш.
func (h *Hasher) Compare(hash, password string) error {
	const op = "password.Compare"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// CompareDummy выполняет сравнение с фиксированным хешем той же стоимости.
// Используется, когда пользователь не найден, чтобы обе ветки отказа занимали сопоставимое время.
func (h *Hasher) CompareDummy(password string) {
	hash, err := h.dummy()
	if err != nil {
		return
	}
	_ = bcrypt.CompareHashAndPassword(hash, []byte(password))
}

// GetHash хеширует пароль со стоимостью DefaultCost.
func GetHash(password string) (string, error) {
	return NewHasher(DefaultCost).Hash(password)
}

// CompareHash сравнивает bcrypt-хеш с введённым паролем.
func CompareHash(originalHash, externalPassword string) error {
	return NewHasher(DefaultCost).Compare(originalHash, externalPassword)
}
