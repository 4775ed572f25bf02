package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

const sample = `
environment: test
postgres:
  dsn: postgres://bot@localhost/macro?sslmode=disable
line:
  channel_secret: s3cret
  access_token: tok
notifier:
  window: 12h
cache:
  driver: redis
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(sample))
	assert.Equal(t, nil, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 12*time.Hour, c.Notifier.Window)
	assert.Equal(t, 100, c.Notifier.Limit)
	assert.Equal(t, "1900-01-01", c.Ingest.DefaultStart)
	assert.Equal(t, "redis", c.Cache.Driver)
	assert.Equal(t, "macrobot", c.Cache.Redis.Prefix)
	assert.Equal(t, "https://api.line.me", c.Line.APIURL)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
	assert.Equal(t, 3, c.Kafka.MaxAttempts)
	assert.Equal(t, 10*time.Second, c.Kafka.WriteTimeout)
	assert.Equal(t, 5*time.Second, c.Postgres.ConnectTimeout)
	assert.Equal(t, 1000, c.Cache.Memory.MaxSize)
	assert.Equal(t, 5*time.Minute, c.Cache.Memory.CleanupInterval)
}

func TestApplyEnvOverrides(t *testing.T) {
	c, err := Parse([]byte(sample))
	assert.Equal(t, nil, err)

	env := map[string]string{
		"DATABASE_URL":  "postgres://other/db",
		"LINE_USER_ID":  "U123",
		"KAFKA_BROKERS": "k1:9092,k2:9092",
		"LOG_LEVEL":     "debug",
	}
	c.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "postgres://other/db", c.Postgres.DSN)
	assert.Equal(t, "U123", c.Line.RecipientID)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "tok", c.Line.AccessToken)
}

func TestValidatePerMode(t *testing.T) {
	c, err := Parse([]byte(sample))
	assert.Equal(t, nil, err)

	assert.Equal(t, nil, c.Validate(ModeServe))
	assert.NotEqual(t, nil, c.Validate(ModeNotify)) // no recipient
	assert.NotEqual(t, nil, c.Validate(ModeSync))   // no api key

	c.Line.RecipientID = "U1"
	c.Fred.APIKey = "k"
	assert.Equal(t, nil, c.Validate(ModeNotify))
	assert.Equal(t, nil, c.Validate(ModeSync))
	assert.NotEqual(t, nil, c.Validate(Mode("bogus")))
}

func TestValidateRejectsBadValues(t *testing.T) {
	c, err := Parse([]byte(sample))
	assert.Equal(t, nil, err)

	c.Cache.Driver = "memcached"
	assert.NotEqual(t, nil, c.Validate(ModeServe))

	c.Cache.Driver = "memory"
	c.Lookup.CacheTTL = 0
	assert.Equal(t, nil, c.Validate(ModeServe))

	c.Ingest.DefaultStart = "01/01/1900"
	assert.NotEqual(t, nil, c.Validate(ModeServe))

	c.Ingest.DefaultStart = "1900-01-01"
	c.Logging.Collector.Enabled = true
	assert.NotEqual(t, nil, c.Validate(ModeServe))
}

func TestValidateMemoryCacheCannotCacheLookups(t *testing.T) {
	c, err := Parse([]byte(sample))
	assert.Equal(t, nil, err)

	c.Cache.Driver = "memory"
	assert.Equal(t, 5*time.Minute, c.Lookup.CacheTTL)
	err = c.Validate(ModeServe)
	assert.NotEqual(t, nil, err)
	assert.MatchRegex(t, err.Error(), "lookup.cache_ttl requires cache.driver redis")

	c.Lookup.CacheTTL = 0
	assert.Equal(t, nil, c.Validate(ModeServe))
}

func TestParseDefaultsToRedisCache(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	assert.Equal(t, nil, err)
	assert.Equal(t, "redis", c.Cache.Driver)
}

func TestLoadWithEnvReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LINE_CHANNEL_SECRET", "from-env")

	c, err := LoadWithEnv(path, ModeServe)
	assert.Equal(t, nil, err)
	assert.Equal(t, "from-env", c.Line.ChannelSecret)

	_, err = LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), ModeServe)
	assert.NotEqual(t, nil, err)
}
