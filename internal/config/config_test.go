package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"

	"github.com/keyguard-network/keyguard-daemon/internal/config"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("KEYGUARD_DATADIR", datadir)

		err := config.InitConfig()
		require.NoError(t, err)

		require.Equal(t, &chaincfg.MainNetParams, config.GetNetwork())
		require.Equal(t, 15*time.Second, config.GetServerTimeout())

		policy := config.GetIORetryPolicy()
		require.Equal(t, "io", policy.Name)
		require.Equal(t, 3, policy.NumRetries)
		require.Equal(t, 100*time.Millisecond, policy.Delay)
		require.Equal(t, 2.0, policy.DelayFactor)

		info, err := os.Stat(filepath.Join(datadir, config.DbLocation))
		require.NoError(t, err)
		require.True(t, info.IsDir())
		_, err = os.Stat(filepath.Join(datadir, config.StatsLocation))
		require.True(t, os.IsNotExist(err))
	})

	t.Run("overrides", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("KEYGUARD_DATADIR", datadir)
		t.Setenv("KEYGUARD_NETWORK", "signet")
		t.Setenv("KEYGUARD_DB_TYPE", "inmemory")
		t.Setenv("KEYGUARD_RETRY_NUM", "5")
		t.Setenv("KEYGUARD_RETRY_DELAY", "250")
		t.Setenv("KEYGUARD_ENABLE_STATS", "true")

		err := config.InitConfig()
		require.NoError(t, err)

		require.Equal(t, &chaincfg.SigNetParams, config.GetNetwork())
		policy := config.GetIORetryPolicy()
		require.Equal(t, 5, policy.NumRetries)
		require.Equal(t, 250*time.Millisecond, policy.Delay)

		_, err = os.Stat(filepath.Join(datadir, config.DbLocation))
		require.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(datadir, config.StatsLocation))
		require.NoError(t, err)
		require.Equal(
			t, filepath.Join(datadir, "stats", "metrics.txt"), config.GetMetricsPath(),
		)
	})
}

func TestInitConfigFailure(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown network", "KEYGUARD_NETWORK", "liquid"},
		{"unknown db type", "KEYGUARD_DB_TYPE", "postgres"},
		{"invalid server url", "KEYGUARD_SERVER_URL", "not a url"},
		{"server timeout too short", "KEYGUARD_SERVER_TIMEOUT", "10"},
		{"negative requests per second", "KEYGUARD_REQUESTS_PER_SECOND", "-1"},
		{"negative retries", "KEYGUARD_RETRY_NUM", "-1"},
		{"delay factor below 1", "KEYGUARD_RETRY_DELAY_FACTOR", "0.5"},
		{"zero concurrency", "KEYGUARD_RECONCILE_CONCURRENCY", "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KEYGUARD_DATADIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			err := config.InitConfig()
			require.Error(t, err)
		})
	}
}
