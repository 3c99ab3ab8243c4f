package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendHTTP, cfg.Knowledge.Backend)
	assert.Equal(t, time.Second, cfg.Knowledge.MockDelay)
	assert.Equal(t, "/api/v1/kolam/knowledge", cfg.Knowledge.QueryPath)
	assert.Equal(t, "redis:6379", cfg.RedisConfig.Addr)
	assert.Equal(t, 10*time.Minute, cfg.RedisConfig.TTL)
	assert.False(t, cfg.UseMockData())
}

func TestLoad_MockFlag(t *testing.T) {
	t.Setenv("KNOWLEDGE_USE_MOCK_DATA", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseMockData())
}

func TestLoad_DevelopmentModeImpliesMock(t *testing.T) {
	t.Setenv("APP_MODE", ModeDevelopment)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseMockData())
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("KNOWLEDGE_BACKEND", "grpc")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported knowledge backend")
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	cases := map[string]struct {
		key, value, msg string
	}{
		"session ttl":    {"SESSION_TTL", "0s", "session ttl"},
		"sweep interval": {"SESSION_SWEEP_INTERVAL", "0s", "sweep interval"},
		"negative sweep": {"SESSION_SWEEP_INTERVAL", "-1m", "sweep interval"},
		"server timeout": {"SERVER_TIMEOUT", "0s", "server timeout"},
		"throttle limit": {"SERVER_THROTTLE_LIMIT", "0", "throttle limit"},
		"negative limit": {"SERVER_THROTTLE_LIMIT", "-3", "throttle limit"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.ErrorContains(t, err, tc.msg)
		})
	}
}
