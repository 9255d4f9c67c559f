// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"time"
)

// Config holds the runtime configuration for the shop bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Shop      ShopConfig      `mapstructure:"shop"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Orders    OrdersConfig    `mapstructure:"orders"`
	Staff     StaffConfig     `mapstructure:"staff"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables rotated file output in addition to stdout.
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SentryConfig controls error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// BotConfig holds Telegram connection settings.
type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig holds the metrics/health HTTP listener settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig holds PostgreSQL connection settings for the product catalog and
// the order log.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

// RedisConfig holds Redis settings. Redis is optional: when disabled the bot
// falls back to in-memory sessions, in-process idempotency, and skips the
// broadcast scheduler.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ShopConfig describes the physical shop shown by the location command.
type ShopConfig struct {
	Name    string  `mapstructure:"name"`
	Address string  `mapstructure:"address"`
	Lat     float64 `mapstructure:"lat"`
	Lon     float64 `mapstructure:"lon"`
}

// PricingConfig holds the pricing rules, fixed at startup.
type PricingConfig struct {
	DiscountPercent  int64 `mapstructure:"discount_percent" validate:"gte=0,lte=100"`
	DeliveryFee      int64 `mapstructure:"delivery_fee" validate:"gte=0"`
	FreeShippingOver int64 `mapstructure:"free_shipping_over" validate:"gte=0"`
}

// CatalogConfig holds browse settings.
type CatalogConfig struct {
	PageSize             int           `mapstructure:"page_size" validate:"gt=0"`
	TokenTTL             time.Duration `mapstructure:"token_ttl"`
	TokenCleanupInterval time.Duration `mapstructure:"token_cleanup_interval"`
}

// OrdersConfig selects the order log backend.
type OrdersConfig struct {
	// Backend is "csv" or "postgres".
	Backend string `mapstructure:"backend" validate:"oneof=csv postgres"`
	CSVPath string `mapstructure:"csv_path"`
}

// StaffConfig identifies the staff chat and related targets.
type StaffConfig struct {
	WorkersChatID  int64   `mapstructure:"workers_chat_id"`
	OwnerUserID    int64   `mapstructure:"owner_user_id"`
	ClientGroupIDs []int64 `mapstructure:"client_group_ids"`
}

// BroadcastConfig drives the two daily announcements.
type BroadcastConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MorningHour int    `mapstructure:"morning_hour" validate:"gte=0,lte=23"`
	EveningHour int    `mapstructure:"evening_hour" validate:"gte=0,lte=23"`
	Timezone    string `mapstructure:"timezone"`
}
