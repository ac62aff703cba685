package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/config"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg, err := config.LoadEnv()
	require.NoError(t, err)

	require.Equal(t, config.NetworkMainnet, cfg.Network)
	require.Equal(t, "confirmed", cfg.Commitment)
	require.Equal(t, 20*time.Second, cfg.Timeout)
	require.True(t, cfg.Retry.Enabled)
	require.Equal(t, 3, cfg.Retry.MaxAttempts)
	require.Equal(t, float64(8), cfg.RateLimit.RPS)
	require.Equal(t, 16, cfg.RateLimit.Burst)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FUNDRAISELY_NETWORK", "devnet")
	t.Setenv("FUNDRAISELY_RPC_URL", "http://localhost:8899")
	t.Setenv("FUNDRAISELY_COMMITMENT", "finalized")
	t.Setenv("FUNDRAISELY_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("FUNDRAISELY_RATE_LIMIT_RPS", "2.5")

	cfg, err := config.LoadEnv()
	require.NoError(t, err)

	require.Equal(t, config.NetworkDevnet, cfg.Network)
	require.Equal(t, "http://localhost:8899", cfg.RPCURL)
	require.Equal(t, "finalized", cfg.Commitment)
	require.Equal(t, 5, cfg.Retry.MaxAttempts)
	require.Equal(t, 2.5, cfg.RateLimit.RPS)
}

func TestResolveRPCURL(t *testing.T) {
	cfg := config.DefaultRPCConfig()
	require.Equal(t, "https://api.mainnet-beta.solana.com", cfg.ResolveRPCURL())

	cfg.RPCURL = "http://localhost:8899"
	require.Equal(t, "http://localhost:8899", cfg.ResolveRPCURL())

	cfg = config.RPCConfig{Network: config.NetworkDevnet}
	require.Equal(t, "https://api.devnet.solana.com", cfg.ResolveRPCURL())

	cfg = config.RPCConfig{Network: config.NetworkCustom}
	require.Empty(t, cfg.ResolveRPCURL())
}
