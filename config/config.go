package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/messaging/redis"
)

// EnvPrefix prefixes every environment override, e.g. BOOKING_DB_HOST.
const EnvPrefix = "BOOKING"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	NotifierLog   = "log"
	NotifierRedis = "redis"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server" envconfig:"SERVER"`
	Database     DatabaseConfig     `mapstructure:"database" envconfig:"DB"`
	Store        StoreConfig        `mapstructure:"store" envconfig:"STORE"`
	Redis        RedisConfig        `mapstructure:"redis" envconfig:"REDIS"`
	SMTP         SMTPConfig         `mapstructure:"smtp" envconfig:"SMTP"`
	Business     BusinessConfig     `mapstructure:"business" envconfig:"BUSINESS"`
	Notification NotificationConfig `mapstructure:"notification" envconfig:"NOTIFICATION"`
	Reminder     ReminderConfig     `mapstructure:"reminder" envconfig:"REMINDER"`
	Worker       WorkerConfig       `mapstructure:"worker" envconfig:"WORKER"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit" envconfig:"RATE_LIMIT"`
	CORS         CORSConfig         `mapstructure:"cors" envconfig:"CORS"`
	Log          LogConfig          `mapstructure:"log" envconfig:"LOG"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" envconfig:"PORT"`
	Mode            string        `mapstructure:"mode" envconfig:"MODE"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" envconfig:"MAX_BODY_BYTES"`
	MetricsPath     string        `mapstructure:"metrics_path" envconfig:"METRICS_PATH"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host" envconfig:"HOST"`
	Port            int           `mapstructure:"port" envconfig:"PORT"`
	User            string        `mapstructure:"user" envconfig:"USER"`
	Password        string        `mapstructure:"password" envconfig:"PASSWORD"`
	Name            string        `mapstructure:"name" envconfig:"NAME"`
	SSLMode         string        `mapstructure:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
}

// DSN returns a lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type StoreConfig struct {
	// Driver is "memory" or "postgres".
	Driver string `mapstructure:"driver" envconfig:"DRIVER"`
	// AutoMigrate applies pending migrations at start-up.
	AutoMigrate bool `mapstructure:"auto_migrate" envconfig:"AUTO_MIGRATE"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"URL"`
	MaxRetries   int           `mapstructure:"max_retries" envconfig:"MAX_RETRIES"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" envconfig:"RETRY_BACKOFF"`
	PoolSize     int           `mapstructure:"pool_size" envconfig:"POOL_SIZE"`
	MinIdleConns int           `mapstructure:"min_idle_conns" envconfig:"MIN_IDLE_CONNS"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"HOST"`
	Port     int    `mapstructure:"port" envconfig:"PORT"`
	Username string `mapstructure:"username" envconfig:"USERNAME"`
	Password string `mapstructure:"password" envconfig:"PASSWORD"`
	From     string `mapstructure:"from" envconfig:"FROM"`
}

type BusinessConfig struct {
	Name     string `mapstructure:"name" envconfig:"NAME"`
	Timezone string `mapstructure:"timezone" envconfig:"TIMEZONE"`
	Email    string `mapstructure:"email" envconfig:"EMAIL"`
	Phone    string `mapstructure:"phone" envconfig:"PHONE"`
	// SlotCacheTTL bounds how stale a slot listing can be.
	SlotCacheTTL time.Duration `mapstructure:"slot_cache_ttl" envconfig:"SLOT_CACHE_TTL"`
}

type NotificationConfig struct {
	// Driver is "log" or "redis".
	Driver     string        `mapstructure:"driver" envconfig:"DRIVER"`
	Timeout    time.Duration `mapstructure:"timeout" envconfig:"TIMEOUT"`
	MaxRetries int           `mapstructure:"max_retries" envconfig:"MAX_RETRIES"`
	RetryDelay time.Duration `mapstructure:"retry_delay" envconfig:"RETRY_DELAY"`
}

type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled" envconfig:"ENABLED"`
	Schedule string `mapstructure:"schedule" envconfig:"SCHEDULE"`
}

// WorkerConfig configures the background worker's probe server.
type WorkerConfig struct {
	Port int `mapstructure:"port" envconfig:"PORT"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled" envconfig:"ENABLED"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Burst             int           `mapstructure:"burst" envconfig:"BURST"`
	ClientTTL         time.Duration `mapstructure:"client_ttl" envconfig:"CLIENT_TTL"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"LEVEL"`
	Pretty bool   `mapstructure:"pretty" envconfig:"PRETTY"`
}

// LoadConfig reads config.yaml (optional), then .env (optional), then
// BOOKING_* environment variables. Later sources win.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/app/config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.metrics_path", "/metrics")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "salon")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.auto_migrate", false)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "LuxeLashes <hello@luxelashes.com>")

	v.SetDefault("business.name", "LuxeLashes")
	v.SetDefault("business.timezone", "Local")
	v.SetDefault("business.email", "hello@luxelashes.com")
	v.SetDefault("business.phone", "(555) 123-4567")
	v.SetDefault("business.slot_cache_ttl", 30*time.Second)

	v.SetDefault("notification.driver", NotifierLog)
	v.SetDefault("notification.timeout", 10*time.Second)
	v.SetDefault("notification.max_retries", 3)
	v.SetDefault("notification.retry_delay", 2*time.Second)

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.schedule", "0 9 * * *")

	v.SetDefault("worker.port", 8081)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 5.0)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.client_ttl", 10*time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Store.Driver {
	case StoreMemory, StorePostgres:
	default:
		problems = append(problems, fmt.Sprintf("store.driver must be %q or %q", StoreMemory, StorePostgres))
	}
	switch c.Notification.Driver {
	case NotifierLog, NotifierRedis:
	default:
		problems = append(problems, fmt.Sprintf("notification.driver must be %q or %q", NotifierLog, NotifierRedis))
	}
	if _, err := c.Business.Location(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Server.Port <= 0 {
		problems = append(problems, "server.port must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit requires positive requests_per_second and burst")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: %v", err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves the business timezone. "Local" and "" mean the host zone.
func (c BusinessConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("business.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}

func (c LogConfig) ToLoggerConfig() logger.Config {
	return logger.Config{Level: logger.ParseLevel(c.Level), Pretty: c.Pretty}
}
