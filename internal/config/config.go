// Package config загружает конфигурацию сервера из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- HTTP ---
	HTTPAddr           string        `envconfig:"HTTP_ADDR" default:":3000"`
	HTTPReadTimeout    time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout   time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"10s"`
	HTTPRequestTimeout time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"5s"`
	// Каталог со статикой клиента. Если его нет, статика не раздаётся.
	StaticDir string `envconfig:"STATIC_DIR" default:"public"`

	// --- Database ---
	DBDriver string `envconfig:"DB_DRIVER" default:"postgres"`
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"brainuser"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"brain_trainer"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/brainaccelerator.sqlite"`

	// --- Application ---
	AppEnv       string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel  string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppLogFormat string `envconfig:"APP_LOG_FORMAT" default:"text"`

	// --- Game ---
	// TOML-файл с режимами. Пусто или нет файла — встроенные режимы.
	ModesFile          string `envconfig:"MODES_FILE"`
	ScoresDefaultLimit int    `envconfig:"SCORES_DEFAULT_LIMIT" default:"20"`

	// --- Rate Limiting (POST /api/scores) ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Redis (кеш таблицы лидеров, необязателен) ---
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RedisTTL      time.Duration `envconfig:"REDIS_TTL" default:"30s"`

	// --- Telegram (сводка таблицы лидеров, необязательна) ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
	DigestCron       string `envconfig:"DIGEST_CRON" default:"0 9 * * *"`
	DigestTopN       int    `envconfig:"DIGEST_TOP_N" default:"5"`

	// --- Admin ---
	// Пусто — админ-эндпоинты выключены.
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`

	// --- Jobs ---
	StreakExpiryCron string `envconfig:"STREAK_EXPIRY_CRON" default:"5 0 * * *"`

	// --- Feature Flags ---
	FeatureStreakExpiry bool `envconfig:"FEATURE_STREAK_EXPIRY" default:"true"`
	FeatureDigest       bool `envconfig:"FEATURE_DIGEST" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// DigestEnabled — заданы ли токен и чат для сводки и не выключена ли она флагом.
func (c *Config) DigestEnabled() bool {
	return c.FeatureDigest && c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// AdminEnabled — включены ли админ-эндпоинты.
func (c *Config) AdminEnabled() bool {
	return c.AdminPasswordHash != ""
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD обязателен для DB_DRIVER=postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH не задан")
		}
	default:
		return fmt.Errorf("неизвестный DB_DRIVER %q (postgres или sqlite)", c.DBDriver)
	}

	if c.HTTPRequestTimeout <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT должен быть > 0")
	}
	if c.ScoresDefaultLimit <= 0 {
		return fmt.Errorf("SCORES_DEFAULT_LIMIT должен быть > 0")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	if (c.TelegramBotToken == "") != (c.TelegramChatID == 0) {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN и TELEGRAM_CHAT_ID задаются вместе")
	}
	if c.DigestTopN <= 0 {
		return fmt.Errorf("DIGEST_TOP_N должен быть > 0")
	}
	if c.AppLogFormat != "text" && c.AppLogFormat != "json" {
		return fmt.Errorf("APP_LOG_FORMAT должен быть text или json")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
