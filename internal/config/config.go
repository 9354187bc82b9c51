// Package config загружает и проверяет настройки сервиса.
//
// Источники в порядке применения: файл .env (если есть), YAML-файл из CONFIG_PATH
// (если задан) и переменные окружения, которые имеют наивысший приоритет.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	BcryptCost int    `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10" validate:"gte=10,lte=31"`
	Database   `yaml:"database"`
	HTTPServer `yaml:"http_server"`
}

// Database структура для настройки подключения к PostgreSQL
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-required:"true" validate:"required"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432" validate:"gte=1,lte=65535"`
	User            string `yaml:"user" env:"DB_USER" env-required:"true" validate:"required"`
	Password        string `yaml:"password" env:"DB_PASSWORD" env-required:"true" validate:"required"`
	Name            string `yaml:"name" env:"DB_NAME" env-required:"true" validate:"required,max=63"`
	MaintenanceName string `yaml:"maintenance_name" env:"DB_MAINTENANCE_NAME" env-default:"postgres" validate:"required,max=63"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10" validate:"gte=1"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080" validate:"required"`
	Timeout        time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s" validate:"gt=0"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s" validate:"gt=0"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:"," validate:"min=1"`
}

// Load читает конфигурацию и проверяет ее.
func Load() (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: read .env: %w", op, err)
	}

	var cfg Config
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("%s: config file %s: %w", op, configPath, err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг и завершает процесс при любой ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// DSN возвращает строку подключения к базе name на том же сервере.
func (d Database) DSN(name string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// TargetDSN возвращает строку подключения к целевой базе.
func (d Database) TargetDSN() string {
	return d.DSN(d.Name)
}

// MaintenanceDSN возвращает строку подключения к служебной базе.
func (d Database) MaintenanceDSN() string {
	return d.DSN(d.MaintenanceName)
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"BcryptCost: %d\n"+
			"Database:\n"+
			"  Host: %s\n"+
			"  Port: %d\n"+
			"  User: %s\n"+
			"  Password: %s\n"+
			"  Name: %s\n"+
			"  MaintenanceName: %s\n"+
			"  SSLMode: %s\n"+
			"  MaxOpenConns: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  AllowedOrigins: %v\n",
		c.Env,
		c.BcryptCost,
		c.Host,
		c.Port,
		c.User,
		"********",
		c.Name,
		c.MaintenanceName,
		c.SSLMode,
		c.MaxOpenConns,
		c.Address,
		c.Timeout,
		c.IdleTimeout,
		c.AllowedOrigins,
	)
}
