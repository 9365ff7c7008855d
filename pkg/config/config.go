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
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Stripe   StripeConfig
	Cron     CronConfig
	Features FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ZAPSHIFT_APP_ENV" required:"true"`
	Port         string `envconfig:"ZAPSHIFT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ZAPSHIFT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ZAPSHIFT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"ZAPSHIFT_DB_DSN"`

	Host     string `envconfig:"ZAPSHIFT_DB_HOST"`
	Port     int    `envconfig:"ZAPSHIFT_DB_PORT" default:"5432"`
	User     string `envconfig:"ZAPSHIFT_DB_USER"`
	Password string `envconfig:"ZAPSHIFT_DB_PASSWORD"`
	Name     string `envconfig:"ZAPSHIFT_DB_NAME"`
	SSLMode  string `envconfig:"ZAPSHIFT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ZAPSHIFT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ZAPSHIFT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ZAPSHIFT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ZAPSHIFT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from discrete parts when one was not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database config incomplete: provide ZAPSHIFT_DB_DSN or host/user/name")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"ZAPSHIFT_REDIS_URL"`
	Address      string        `envconfig:"ZAPSHIFT_REDIS_ADDR"`
	Password     string        `envconfig:"ZAPSHIFT_REDIS_PASSWORD"`
	DB           int           `envconfig:"ZAPSHIFT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ZAPSHIFT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ZAPSHIFT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ZAPSHIFT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ZAPSHIFT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ZAPSHIFT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ZAPSHIFT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ZAPSHIFT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ZAPSHIFT_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ZAPSHIFT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ZAPSHIFT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ZAPSHIFT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ZAPSHIFT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ZAPSHIFT_ARGON_KEY_LEN" default:"32"`
}

type StripeConfig struct {
	APIKey   string `envconfig:"ZAPSHIFT_STRIPE_API_KEY"`
	Currency string `envconfig:"ZAPSHIFT_STRIPE_CURRENCY" default:"usd"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"ZAPSHIFT_CRON_INTERVAL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ZAPSHIFT_AUTO_MIGRATE" default:"false"`
}
