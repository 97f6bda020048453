package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "postgres",
			Host:   "localhost",
			Port:   5432,
			Name:   "quillhub",
			User:   "postgres",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Security: SecurityConfig{
			BcryptCost: 12,
		},
		JWT: JWTConfig{
			SecretKey:       "test-secret-key-needs-32-characters!",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		assert.NoError(t, Validate(validConfig()))
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "oracle"
		assert.Error(t, Validate(cfg))
	})

	t.Run("SqliteNeedsPath", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "sqlite"
		assert.Error(t, Validate(cfg))

		cfg.Database.SQLitePath = "local.db"
		assert.NoError(t, Validate(cfg))
	})

	t.Run("ShortJWTSecret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.SecretKey = "too-short"
		assert.Error(t, Validate(cfg))
	})

	t.Run("RSAKeysReplaceSecret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.SecretKey = ""
		cfg.JWT.UseRSAKeys = true
		cfg.JWT.PrivateKey = "fake-private-pem"
		cfg.JWT.PublicKey = "fake-public-pem"
		assert.NoError(t, Validate(cfg))
	})

	t.Run("BcryptCostBounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Security.BcryptCost = 9
		assert.Error(t, Validate(cfg))

		cfg.Security.BcryptCost = 15
		assert.Error(t, Validate(cfg))
	})

	t.Run("CacheNeedsRedisURL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.Enabled = true
		cfg.Cache.RedisURL = ""
		assert.Error(t, Validate(cfg))
	})
}

func TestEnvHelpers(t *testing.T) {
	t.Run("StringDefault", func(t *testing.T) {
		assert.Equal(t, "fallback", getEnvString("QH_TEST_UNSET", "fallback"))
	})

	t.Run("IntParsing", func(t *testing.T) {
		t.Setenv("QH_TEST_INT", "42")
		assert.Equal(t, 42, getEnvInt("QH_TEST_INT", 7))

		t.Setenv("QH_TEST_INT", "not-a-number")
		assert.Equal(t, 7, getEnvInt("QH_TEST_INT", 7))
	})

	t.Run("DurationParsing", func(t *testing.T) {
		t.Setenv("QH_TEST_DUR", "90s")
		assert.Equal(t, 90*time.Second, getEnvDuration("QH_TEST_DUR", time.Minute))
	})

	t.Run("StringSliceSplitsAndTrims", func(t *testing.T) {
		t.Setenv("QH_TEST_SLICE", "a, b ,,c")
		got := getEnvStringSlice("QH_TEST_SLICE", nil)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})
}
