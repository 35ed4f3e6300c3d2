package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("MENTOR_JWT_SECRET", "secret")
	t.Setenv("MENTOR_TESTS_MAX_ATTEMPTS", "2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 2, cfg.TestMaxAttempts)
	require.Equal(t, "mentorship", cfg.RedisKeyPrefix)
	require.False(t, cfg.SeedEnabled)
	require.Empty(t, cfg.CORSOrigins)
}

func TestLoadSplitsCORSOrigins(t *testing.T) {
	t.Setenv("MENTOR_JWT_SECRET", "secret")
	t.Setenv("MENTOR_CORS_ALLOW_ORIGINS", "https://mentor.example.com, ,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"https://mentor.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestValidationRejectsIncompleteDrivers(t *testing.T) {
	cases := map[string]map[string]any{
		"unknown driver":  {"store.driver": "mongo", "jwt.secret": "s"},
		"postgres no dsn": {"store.driver": "postgres", "jwt.secret": "s"},
		"redis no url":    {"store.driver": "redis", "jwt.secret": "s"},
		"negative limit":  {"tests.max_attempts": -1, "jwt.secret": "s"},
		"missing secret":  {"store.driver": "memory"},
		"bad rate window": {"jwt.secret": "s", "rate_limit.window": "soon"},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for key, value := range values {
				v.Set(key, value)
			}
			_, err := fromViper(v)
			require.Error(t, err)
		})
	}
}

func TestValidationAcceptsConfiguredDrivers(t *testing.T) {
	v := viper.New()
	v.Set("store.driver", "Postgres")
	v.Set("database.url", "postgres://localhost/mentorship")
	v.Set("jwt.secret", "s")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	require.Equal(t, StorePostgres, cfg.StoreDriver)
}
