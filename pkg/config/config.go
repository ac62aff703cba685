package config

import (
	"io"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Network defines the target Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
	NetworkCustom  Network = "custom"
)

// DefaultRPCURL returns the standard RPC endpoint for a known network.
func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkDevnet:
		return "https://api.devnet.solana.com"
	default:
		return ""
	}
}

// RetryConfig controls RPC retry behavior.
type RetryConfig struct {
	Enabled        bool          `env:"RETRY_ENABLED" envDefault:"true"`
	MaxAttempts    int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	InitialBackoff time.Duration `env:"RETRY_INITIAL_BACKOFF" envDefault:"150ms"`
	MaxBackoff     time.Duration `env:"RETRY_MAX_BACKOFF" envDefault:"2s"`
	Jitter         bool          `env:"RETRY_JITTER" envDefault:"true"`
}

// RateLimitConfig throttles outbound RPC calls.
type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"8"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"16"`
}

// RPCConfig aggregates runtime settings for RPC usage.
type RPCConfig struct {
	Network    Network       `env:"NETWORK" envDefault:"mainnet"`
	RPCURL     string        `env:"RPC_URL"`
	Commitment string        `env:"COMMITMENT" envDefault:"confirmed"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"20s"`
	Retry      RetryConfig   `envPrefix:""`
	RateLimit  RateLimitConfig
	Logger     zerolog.Logger `env:"-"`
}

// DefaultRPCConfig yields production-safe defaults (mainnet, confirmed commitment).
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Network:    NetworkMainnet,
		RPCURL:     DefaultRPCURL(NetworkMainnet),
		Commitment: "confirmed",
		Timeout:    20 * time.Second,
		Retry: RetryConfig{
			Enabled:        true,
			MaxAttempts:    3,
			InitialBackoff: 150 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Jitter:         true,
		},
		RateLimit: RateLimitConfig{
			RPS:   8,
			Burst: 16,
		},
		Logger: zerolog.New(io.Discard),
	}
}

// LoadEnv builds an RPCConfig from FUNDRAISELY_-prefixed environment
// variables, falling back to the same defaults as DefaultRPCConfig.
func LoadEnv() (RPCConfig, error) {
	cfg := RPCConfig{Logger: zerolog.New(io.Discard)}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "FUNDRAISELY_"}); err != nil {
		return RPCConfig{}, err
	}
	return cfg, nil
}

// ResolveRPCURL returns RPCURL if set, otherwise falls back to network defaults.
func (c RPCConfig) ResolveRPCURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return DefaultRPCURL(c.Network)
}
