package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/blake2b"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	AppEnv   string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	OrderServiceURL string        `mapstructure:"ORDER_SERVICE_URL"`
	NotifyTimeout   time.Duration `mapstructure:"NOTIFY_TIMEOUT"`

	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int           `mapstructure:"REDIS_DB"`
	IdempotencyTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL"`

	JWTSecret       string `mapstructure:"JWT_SECRET"`
	TokenizationKey string `mapstructure:"TOKENIZATION_KEY"`

	GatewayDeclineThreshold float64 `mapstructure:"GATEWAY_DECLINE_THRESHOLD"`

	WorkerCount      int           `mapstructure:"WORKER_COUNT"`
	TaskPollInterval time.Duration `mapstructure:"TASK_POLL_INTERVAL"`
	TaskMaxAttempts  int           `mapstructure:"TASK_MAX_ATTEMPTS"`
	TaskLease        time.Duration `mapstructure:"TASK_LEASE"`

	// EnvFileLoaded reports whether a .env file was read. The logger does not
	// exist yet while loading, so callers log it.
	EnvFileLoaded bool `mapstructure:"-"`
}

var defaults = map[string]any{
	"PORT":                      "8003",
	"APP_ENV":                   "prod",
	"LOG_LEVEL":                 "info",
	"DB_DRIVER":                 "postgres",
	"POSTGRES_DSN":              "",
	"SQLITE_PATH":               "payflow.db",
	"ORDER_SERVICE_URL":         "http://localhost:8002",
	"NOTIFY_TIMEOUT":            "5s",
	"REDIS_ADDR":                "",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  0,
	"IDEMPOTENCY_TTL":           "24h",
	"JWT_SECRET":                "",
	"TOKENIZATION_KEY":          "",
	"GATEWAY_DECLINE_THRESHOLD": 10000,
	"WORKER_COUNT":              4,
	"TASK_POLL_INTERVAL":        "1s",
	"TASK_MAX_ATTEMPTS":         5,
	"TASK_LEASE":                "30s",
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	envErr := godotenv.Load(".env")

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = envErr == nil
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// blake2b accepts keys of at most 64 bytes.
	if len(c.TokenizationKey) > blake2b.Size {
		return fmt.Errorf("TOKENIZATION_KEY must be at most %d bytes, got %d", blake2b.Size, len(c.TokenizationKey))
	}
	return nil
}

func (c *Config) normalize() {
	c.DBDriver = strings.ToLower(c.DBDriver)
	c.OrderServiceURL = strings.TrimRight(c.OrderServiceURL, "/")
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	if c.TaskMaxAttempts <= 0 {
		c.TaskMaxAttempts = 1
	}
	if c.TaskPollInterval <= 0 {
		c.TaskPollInterval = time.Second
	}
	if c.TaskLease <= 0 {
		c.TaskLease = 30 * time.Second
	}
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}
