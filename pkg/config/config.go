package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "shadowwear"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Store backends the persistence adapter can run on.
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	Redis     RedisConfig
	Documents DocumentsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHADOWWEAR_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SHADOWWEAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHADOWWEAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects and parameterizes the durable key-value backend.
type StoreConfig struct {
	Backend    string `envconfig:"SHADOWWEAR_STORE_BACKEND" default:"sqlite"`
	SQLitePath string `envconfig:"SHADOWWEAR_STORE_SQLITE_PATH" default:"shadowwear.db"`
	Namespace  string `envconfig:"SHADOWWEAR_STORE_NAMESPACE" default:"shadowwear"`
}

func (s StoreConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case StoreBackendSQLite, StoreBackendRedis, StoreBackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", s.Backend)
	}
}

// NormalizedBackend returns the lowercase backend identifier.
func (s StoreConfig) NormalizedBackend() string {
	return strings.ToLower(strings.TrimSpace(s.Backend))
}

type RedisConfig struct {
	URL          string        `envconfig:"SHADOWWEAR_REDIS_URL"`
	Address      string        `envconfig:"SHADOWWEAR_REDIS_ADDR"`
	Password     string        `envconfig:"SHADOWWEAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHADOWWEAR_REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"SHADOWWEAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHADOWWEAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHADOWWEAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// DocumentsConfig points at the read-only catalog and settings documents.
type DocumentsConfig struct {
	CatalogPath  string `envconfig:"SHADOWWEAR_CATALOG_PATH" default:"products.json"`
	SettingsPath string `envconfig:"SHADOWWEAR_SETTINGS_PATH" default:"content/settings.json"`
}
