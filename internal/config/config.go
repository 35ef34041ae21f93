// config реализует конфигурацию post-comment-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config - корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Ops      OpsConfig     `yaml:"ops"`
	GRPC     GRPCConfig    `yaml:"grpc"`
	DB       DBConfig      `yaml:"db"`
	Limits   LimitsConfig  `yaml:"limits"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Breaker  BreakerConfig `yaml:"breaker"`
}

// HTTPConfig - REST API /api/v1/post_comment.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// OpsConfig - служебный HTTP (livez/healthz/metrics).
type OpsConfig struct {
	Host string `yaml:"host" env:"OPS_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"OPS_PORT" env-default:"8081"`
}

// GRPCConfig - gRPC health-сервер для оркестратора.
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50055"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (o OpsConfig) Addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// DBConfig - настройки подключения к MongoDB.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
	// Database - имя БД; если пусто, берётся из пути URI (или "post_comments").
	Database   string `yaml:"database" env:"DATABASE_NAME"`
	Collection string `yaml:"collection" env:"DATABASE_COLLECTION" env-default:"comments"`
}

// LimitsConfig - размеры страниц выдачи.
type LimitsConfig struct {
	// size не передан -> DefaultPageSize; size > MaxPageSize -> MaxPageSize.
	DefaultPageSize int64 `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE" env-default:"20"`
	MaxPageSize     int64 `yaml:"max_page_size"     env:"MAX_PAGE_SIZE"     env-default:"300"`
}

// TimeoutConfig - дедлайны обработки.
type TimeoutConfig struct {
	// Request - общий дедлайн запроса (HTTP и gRPC). 0 - без дедлайна.
	Request  time.Duration `yaml:"request"  env:"REQUEST_TIMEOUT"  env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// BreakerConfig - circuit breaker вокруг обращений к хранилищу.
type BreakerConfig struct {
	// Disabled выключает breaker (без env-default: иначе false из YAML перетирается).
	Disabled bool `yaml:"disabled" env:"BREAKER_DISABLED"`
	// MaxRequests - сколько пробных запросов пропускается в half-open.
	MaxRequests uint32 `yaml:"max_requests" env:"BREAKER_MAX_REQUESTS" env-default:"5"`
	// Interval - период сброса счётчиков в closed.
	Interval time.Duration `yaml:"interval" env:"BREAKER_INTERVAL" env-default:"30s"`
	// Timeout - сколько breaker остаётся open перед переходом в half-open.
	Timeout      time.Duration `yaml:"timeout" env:"BREAKER_TIMEOUT" env-default:"10s"`
	FailureRatio float64       `yaml:"failure_ratio" env:"BREAKER_FAILURE_RATIO" env-default:"0.6"`
	MinRequests  uint32        `yaml:"min_requests" env:"BREAKER_MIN_REQUESTS" env-default:"5"`
}

// MustLoad - обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", p, err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	switch {
	case path != "":
		return readFile(path)
	case os.Getenv("CONFIG_PATH") != "":
		return readFile(os.Getenv("CONFIG_PATH"))
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		return readFile("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate - базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.DB.Collection == "" {
		return fmt.Errorf("db.collection is required")
	}

	if c.Limits.DefaultPageSize <= 0 {
		return fmt.Errorf("limits.default_page_size must be > 0")
	}

	if c.Limits.MaxPageSize <= 0 {
		return fmt.Errorf("limits.max_page_size must be > 0")
	}

	if c.Limits.DefaultPageSize > c.Limits.MaxPageSize {
		return fmt.Errorf("limits.default_page_size must be <= limits.max_page_size")
	}

	if c.Timeouts.Request < 0 {
		return fmt.Errorf("timeouts.request must be >= 0")
	}

	if c.Timeouts.Shutdown <= 0 {
		return fmt.Errorf("timeouts.shutdown must be > 0")
	}

	if !c.Breaker.Disabled {
		if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
			return fmt.Errorf("breaker.failure_ratio must be in (0, 1]")
		}

		if c.Breaker.MinRequests == 0 {
			return fmt.Errorf("breaker.min_requests must be > 0")
		}

		if c.Breaker.Timeout <= 0 {
			return fmt.Errorf("breaker.timeout must be > 0")
		}
	}

	return nil
}
