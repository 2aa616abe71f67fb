package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "STOREOPS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Identity     IdentityConfig
	Provisioning ProvisioningConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Identity.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREOPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREOPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"STOREOPS_DB_DSN"`

	Host     string `envconfig:"STOREOPS_DB_HOST"`
	Port     int    `envconfig:"STOREOPS_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREOPS_DB_USER"`
	Password string `envconfig:"STOREOPS_DB_PASSWORD"`
	Name     string `envconfig:"STOREOPS_DB_NAME"`
	SSLMode  string `envconfig:"STOREOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	if db.Host == "" {
		missing = append(missing, "STOREOPS_DB_HOST")
	}
	if db.User == "" {
		missing = append(missing, "STOREOPS_DB_USER")
	}
	if db.Name == "" {
		missing = append(missing, "STOREOPS_DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("database config incomplete: set STOREOPS_DB_DSN or %s", strings.Join(missing, ", "))
	}

	db.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREOPS_REDIS_URL"`
	Address      string        `envconfig:"STOREOPS_REDIS_ADDR"`
	Password     string        `envconfig:"STOREOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies the access tokens minted by the identity platform.
// The secret must match the platform's token signing secret.
type JWTConfig struct {
	Secret string `envconfig:"STOREOPS_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"STOREOPS_JWT_ISSUER"`
}

// IdentityConfig points at the identity platform's admin API. The service
// role key grants privileged account operations and must never reach a browser.
type IdentityConfig struct {
	BaseURL        string        `envconfig:"STOREOPS_IDENTITY_BASE_URL" required:"true"`
	ServiceRoleKey string        `envconfig:"STOREOPS_IDENTITY_SERVICE_ROLE_KEY" required:"true"`
	Timeout        time.Duration `envconfig:"STOREOPS_IDENTITY_TIMEOUT" default:"15s"`
	SearchPageSize int           `envconfig:"STOREOPS_IDENTITY_SEARCH_PAGE_SIZE" default:"50"`
	SearchMaxPages int           `envconfig:"STOREOPS_IDENTITY_SEARCH_MAX_PAGES" default:"20"`
}

func (i IdentityConfig) validate() error {
	if _, err := url.ParseRequestURI(i.BaseURL); err != nil {
		return fmt.Errorf("identity base url: %w", err)
	}
	return nil
}

type ProvisioningConfig struct {
	TempPasswordLength int    `envconfig:"STOREOPS_TEMP_PASSWORD_LENGTH" default:"16"`
	DefaultRedirectURL string `envconfig:"STOREOPS_DEFAULT_REDIRECT_URL"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREOPS_AUTO_MIGRATE" default:"false"`
}
