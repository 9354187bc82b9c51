package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/plp-users/internal/lib/sl"
)

// schemaLockKey сериализует создание таблицы между процессами, стартующими одновременно.
const schemaLockKey int64 = 0x706c705f7573

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    email VARCHAR(100) NOT NULL UNIQUE,
    username VARCHAR(50) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL
)`

// ProvisionConfig описывает, куда подключаться для подготовки схемы.
type ProvisionConfig struct {
	// MaintenanceDSN указывает на существующую базу, из которой выполняется CREATE DATABASE.
	MaintenanceDSN string
	// TargetDSN указывает на целевую базу, в которой живет таблица users.
	TargetDSN    string
	Database     string
	MaxOpenConns int
}

// Provision выполняет подготовку хранилища при старте:
//  1. создает базу данных, если ее нет;
//  2. открывает пул соединений к этой базе;
//  3. создает таблицу users, если ее нет.
//
// Каждый шаг идемпотентен и переживает гонку с другим процессом, выполняющим то же самое.
// При любой ошибке пул закрывается и возвращается ошибка: запускать сервис на
// неподготовленной схеме нельзя.
func Provision(ctx context.Context, cfg ProvisionConfig, log *slog.Logger) (*Storage, error) {
	const op = "storage.Provision"
	log = log.With(sl.Op(op), slog.String("database", cfg.Database))

	maintenance, err := open(ctx, cfg.MaintenanceDSN, 1)
	if err != nil {
		return nil, fmt.Errorf("%s: connect to maintenance database: %w", op, err)
	}
	created, err := EnsureDatabase(ctx, maintenance, cfg.Database)
	if cerr := maintenance.Close(); cerr != nil {
		log.Warn("failed to close maintenance connection", sl.Err(cerr))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if created {
		log.Info("database created")
	} else {
		log.Debug("database already exists")
	}

	s, err := New(ctx, cfg.TargetDSN, cfg.MaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Debug("database selected")

	if err = EnsureSchema(ctx, s.DB); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.CheckReady(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("users table is ready")

	return s, nil
}

// EnsureDatabase создает базу name, если ее нет. Возвращает true, если база была создана этим вызовом.
func EnsureDatabase(ctx context.Context, db *sql.DB, name string) (bool, error) {
	const op = "storage.EnsureDatabase"

	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return false, nil
	}

	// CREATE DATABASE не принимает параметры, поэтому имя экранируется как идентификатор.
	if _, err = db.ExecContext(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		if isConcurrentCreate(err) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// EnsureSchema создает таблицу users, если ее нет. Создание выполняется под
// транзакционной advisory-блокировкой, чтобы параллельные процессы не конфликтовали
// на вставке в системный каталог.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const op = "storage.EnsureSchema"

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
		return fmt.Errorf("%s: lock: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("%s: create table: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// isConcurrentCreate сообщает, что объект уже создан другим процессом.
// Параллельный CREATE DATABASE проявляется либо как duplicate_database,
// либо как unique_violation на индексе pg_database.
func isConcurrentCreate(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.DuplicateDatabase || pgErr.Code == pgerrcode.UniqueViolation
}
