// Package storage реализует хранилище пользователей на основе PostgreSQL:
// подключение, подготовку схемы при старте и запросы к таблице users.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	// ErrUserExists возвращается при нарушении уникальности email или username.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, если пользователь с таким username отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrSchemaMissing возвращается, если таблица users не найдена после подготовки схемы.
	ErrSchemaMissing = errors.New("users table is missing")
)

// Storage инкапсулирует пул соединений с целевой базой данных.
// *sql.DB безопасен для конкурентного использования, поэтому один Storage
// разделяется всеми запросами.
type Storage struct {
	DB *sql.DB
}

// New открывает пул соединений по DSN и проверяет доступность базы.
func New(ctx context.Context, dsn string, maxOpenConns int) (*Storage, error) {
	const op = "storage.New"

	db, err := open(ctx, dsn, maxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

func open(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Ping проверяет, что хранилище отвечает.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.Ping"
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CheckReady проверяет, что таблица users существует в текущей схеме.
func (s *Storage) CheckReady(ctx context.Context) error {
	const op = "storage.CheckReady"

	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_schema = current_schema() AND table_name = 'users'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, ErrSchemaMissing)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
