package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("ORDER_SERVICE_URL", "http://orders:8002/")
	t.Setenv("TASK_MAX_ATTEMPTS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "http://orders:8002", cfg.OrderServiceURL)
	require.Equal(t, float64(10000), cfg.GatewayDeclineThreshold)
	require.Equal(t, 5*time.Second, cfg.NotifyTimeout)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, 1, cfg.TaskMaxAttempts)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("TASK_POLL_INTERVAL", "250ms")
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 8, cfg.WorkerCount)
	require.Equal(t, 250*time.Millisecond, cfg.TaskPollInterval)
	require.True(t, cfg.IsDev())
}

func TestLoad_TokenizationKeyLength(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "empty", key: ""},
		{name: "max length", key: strings.Repeat("k", 64)},
		{name: "too long", key: strings.Repeat("k", 65), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TOKENIZATION_KEY", tt.key)

			cfg, err := Load()
			if tt.wantErr {
				require.ErrorContains(t, err, "TOKENIZATION_KEY")
				require.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.key, cfg.TokenizationKey)
		})
	}
}
