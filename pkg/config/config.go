package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lt=65536"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level     string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format    string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output    string `yaml:"output" default:"stdout"`
		Collector struct {
			Enabled   bool          `yaml:"enabled"`
			Interval  time.Duration `yaml:"interval" default:"30s"`
			Threshold int           `yaml:"threshold" default:"100"`
			Topic     string        `yaml:"topic" default:"macrobot.errors"`
		} `yaml:"collector"`
	} `yaml:"logging"`
	Postgres struct {
		DSN             string        `yaml:"dsn"`
		Host            string        `yaml:"host" default:"localhost"`
		Port            int           `yaml:"port" default:"5432"`
		Database        string        `yaml:"database" default:"macroeconomic_db"`
		User            string        `yaml:"user" default:"postgres"`
		Password        string        `yaml:"password"`
		SSLMode         string        `yaml:"sslmode" default:"disable"`
		MaxOpenConns    int           `yaml:"max_open_conns" default:"10"`
		MaxIdleConns    int           `yaml:"max_idle_conns" default:"5"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"5m"`
		ConnectTimeout  time.Duration `yaml:"connect_timeout" default:"5s" validate:"gt=0"`
	} `yaml:"postgres"`
	Line struct {
		APIURL        string        `yaml:"api_url" default:"https://api.line.me" validate:"url"`
		ChannelSecret string        `yaml:"channel_secret"`
		AccessToken   string        `yaml:"access_token"`
		RecipientID   string        `yaml:"recipient_id"`
		Timeout       time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"line"`
	Fred struct {
		BaseURL string        `yaml:"base_url" default:"https://api.stlouisfed.org/fred" validate:"url"`
		APIKey  string        `yaml:"api_key"`
		Source  string        `yaml:"source" default:"FRED"`
		Timeout time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"fred"`
	Lookup struct {
		CacheTTL time.Duration `yaml:"cache_ttl" default:"5m"`
	} `yaml:"lookup"`
	Notifier struct {
		Window  time.Duration `yaml:"window" default:"24h"`
		Limit   int           `yaml:"limit" default:"100" validate:"gt=0"`
		LockTTL time.Duration `yaml:"lock_ttl" default:"10m"`
	} `yaml:"notifier"`
	Ingest struct {
		DefaultStart string        `yaml:"default_start" default:"1900-01-01" validate:"datetime=2006-01-02"`
		LockTTL      time.Duration `yaml:"lock_ttl" default:"30m"`
	} `yaml:"ingest"`
	Cache struct {
		Driver string `yaml:"driver" default:"redis" validate:"oneof=memory redis"`
		Memory struct {
			MaxSize         int           `yaml:"max_size" default:"1000" validate:"gt=0"`
			CleanupInterval time.Duration `yaml:"cleanup_interval" default:"5m" validate:"gt=0"`
		} `yaml:"memory"`
		Redis struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"macrobot"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Compression  string        `yaml:"compression" default:"gzip"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3" validate:"gt=0"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
}

// Mode names the subcommand a config is validated for.
type Mode string

const (
	ModeServe  Mode = "serve"
	ModeNotify Mode = "notify"
	ModeSync   Mode = "sync"
)

var validate = validator.New()

// Load reads and parses a YAML configuration file, applying defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes and applies defaults. It does not validate.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML, overrides with environment variables
// and validates the result for mode.
func LoadWithEnv(path string, mode Mode) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv(os.Getenv)

	if err := c.Validate(mode); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides credentials and endpoints from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
	}
	if v := getenv("LINE_CHANNEL_SECRET"); v != "" {
		c.Line.ChannelSecret = v
	}
	if v := getenv("LINE_ACCESS_TOKEN"); v != "" {
		c.Line.AccessToken = v
	}
	if v := getenv("LINE_USER_ID"); v != "" {
		c.Line.RecipientID = v
	}
	if v := getenv("FRED_API_KEY"); v != "" {
		c.Fred.APIKey = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks struct rules and the credentials mode needs.
func (c *Config) Validate(mode Mode) error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Postgres.DSN == "" && c.Postgres.Host == "" {
		return fmt.Errorf("postgres.dsn or postgres.host is required")
	}
	if c.Logging.Collector.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when logging.collector is enabled")
	}
	// sync runs in its own process and cannot reach a memory cache in serve
	if c.Cache.Driver == "memory" && c.Lookup.CacheTTL > 0 {
		return fmt.Errorf("lookup.cache_ttl requires cache.driver redis; set it to 0 with the memory driver")
	}

	switch mode {
	case ModeServe:
		if c.Line.ChannelSecret == "" {
			return fmt.Errorf("line.channel_secret is required")
		}
		if c.Line.AccessToken == "" {
			return fmt.Errorf("line.access_token is required")
		}
	case ModeNotify:
		if c.Line.AccessToken == "" {
			return fmt.Errorf("line.access_token is required")
		}
		if c.Line.RecipientID == "" {
			return fmt.Errorf("line.recipient_id is required")
		}
	case ModeSync:
		if c.Fred.APIKey == "" {
			return fmt.Errorf("fred.api_key is required")
		}
	default:
		return fmt.Errorf("unknown mode '%s'", mode)
	}
	return nil
}
