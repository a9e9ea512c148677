package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

var DefaultConfig = []byte(`
primary:
  env: "dev"

server:
  port: "8080"
  read_timeout: 15s
  write_timeout: 30s
  idle_timeout: 60s
  request_timeout: 25s

database:
  host: "localhost"
  port: 5432
  user: "postgres"
  password: "postgres"
  name: "hyperswitch"
  ssl_mode: "disable"
  max_open_conns: 20
  max_idle_conns: 5
  conn_max_lifetime: 1h
  conn_max_idle_time: 30m

gateway:
  sandbox_base_url: "https://sandbox.hyperswitch.io"
  production_base_url: "https://api.hyperswitch.io"
  timeout: 20s

tenants:
  default_api_key: ""
  default_profile_id: ""
  default_environment: "sandbox"

retry:
  base_delay: 200ms
  max_retries: 3

logger:
  level: "info"

lock:
  ttl: 30s
  wait_timeout: 5s
  poll_interval: 100ms

redis:
  enabled: false
  uri: "localhost:6379"
  password: ""

archive:
  enabled: false
  uri: "mongodb://localhost:27017"
  database: "hyperswitch"
  collection: "gateway_responses"

kafka:
  enabled: false
  brokers:
    - "localhost:9092"
  topic: "hyperswitch-config"
  consumer_name: "hyperswitch-adapter"
  records_per_poll: 100
`)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Gateway  GatewayConfig  `koanf:"gateway"`
	Tenants  TenantsConfig  `koanf:"tenants"`
	Retry    RetryConfig    `koanf:"retry"`
	Logger   LoggerConfig   `koanf:"logger"`
	Lock     LockConfig     `koanf:"lock"`
	Redis    RedisConfig    `koanf:"redis"`
	Archive  ArchiveConfig  `koanf:"archive"`
	Kafka    KafkaConfig    `koanf:"kafka"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

func (p Primary) IsProd() bool {
	return p.Env == "prod" || p.Env == "production"
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type GatewayConfig struct {
	SandboxBaseURL    string        `koanf:"sandbox_base_url" validate:"required,url"`
	ProductionBaseURL string        `koanf:"production_base_url" validate:"required,url"`
	Timeout           time.Duration `koanf:"timeout" validate:"required"`
}

// TenantsConfig holds the credentials used for tenants without their own upload.
type TenantsConfig struct {
	DefaultAPIKey      string `koanf:"default_api_key"`
	DefaultProfileID   string `koanf:"default_profile_id"`
	DefaultEnvironment string `koanf:"default_environment" validate:"omitempty,oneof=sandbox production"`
}

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type LockConfig struct {
	TTL          time.Duration `koanf:"ttl" validate:"required"`
	WaitTimeout  time.Duration `koanf:"wait_timeout" validate:"required"`
	PollInterval time.Duration `koanf:"poll_interval" validate:"required"`
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type ArchiveConfig struct {
	Enabled    bool   `koanf:"enabled"`
	URI        string `koanf:"uri"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection"`
}

type KafkaConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Brokers        []string `koanf:"brokers"`
	Topic          string   `koanf:"topic"`
	ConsumerName   string   `koanf:"consumer_name"`
	RecordsPerPoll int      `koanf:"records_per_poll"`
}

// Validate checks the rules struct tags cannot express.
func (c *Config) Validate() error {
	var problems []string

	if c.Redis.Enabled && c.Redis.URI == "" {
		problems = append(problems, "redis.uri: cannot be empty when redis is enabled")
	}
	if c.Archive.Enabled {
		if c.Archive.URI == "" {
			problems = append(problems, "archive.uri: cannot be empty when the archive is enabled")
		}
		if c.Archive.Database == "" || c.Archive.Collection == "" {
			problems = append(problems, "archive.database, archive.collection: cannot be empty when the archive is enabled")
		}
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			problems = append(problems, "kafka.brokers: cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" || c.Kafka.ConsumerName == "" {
			problems = append(problems, "kafka.topic, kafka.consumer_name: cannot be empty when kafka is enabled")
		}
	}
	if c.Retry.MaxRetries < 1 {
		problems = append(problems, "retry.max_retries: must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadConfig layers the embedded defaults, the optional YAML file at path and
// GATEWAY_ prefixed environment variables, in that order.
func LoadConfig(path string) (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()); err != nil {
		logger.Error("failed to load default config", "error", err)
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				logger.Error("failed to load config file", "path", path, "error", err)
				return nil, err
			}
		}
	}

	err := k.Load(env.Provider("GATEWAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GATEWAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
