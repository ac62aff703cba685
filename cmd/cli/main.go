package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	sdkconfig "github.com/fundraisely/fundraisely-go-sdk/pkg/config"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/jito"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/roomclient"
	sdkrpc "github.com/fundraisely/fundraisely-go-sdk/pkg/rpc"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/submitter"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/wallet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOpts struct {
	rpcURL         string
	commitment     string
	keypairPath    string
	skipPreflight  bool
	retryAttempts  int
	retryBackoffMs int
	rateLimitRPS   float64
	logLevel       string
	timeoutSec     int
	jitoEndpoint   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:   "fundraisely",
		Short: "Fundraisely room program CLI",
	}

	root.PersistentFlags().StringVar(&opts.rpcURL, "rpc-url", "", "RPC endpoint (default mainnet if empty)")
	root.PersistentFlags().StringVar(&opts.commitment, "commitment", "confirmed", "RPC commitment level")
	root.PersistentFlags().StringVar(&opts.keypairPath, "keypair", "", "path to solana-keygen json for the signer")
	root.PersistentFlags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip the RPC node's preflight checks")
	root.PersistentFlags().IntVar(&opts.retryAttempts, "retry-attempts", 3, "RPC retry attempts")
	root.PersistentFlags().IntVar(&opts.retryBackoffMs, "retry-backoff-ms", 150, "initial backoff in ms")
	root.PersistentFlags().Float64Var(&opts.rateLimitRPS, "rate-limit-rps", 8, "rate limit RPS (0 to disable)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.timeoutSec, "timeout-sec", 20, "RPC timeout seconds")
	root.PersistentFlags().StringVar(&opts.jitoEndpoint, "jito-endpoint", "", "route sends through a Jito block engine endpoint")

	root.AddCommand(
		newConfigCmd(),
		newAccountCmd(opts),
		newRoomCmd(opts),
		newSettleCmd(opts),
		newAdminCmd(opts),
	)

	return root
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective config (env overrides applied)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sdkconfig.LoadEnv()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "network=%s\nrpc=%s\ncommitment=%s\n", cfg.Network, cfg.ResolveRPCURL(), cfg.Commitment)
			return nil
		},
	}
}

type runtimeDeps struct {
	client *roomclient.Client
	signer wallet.Signer
	rpc    *sdkrpc.Client
}

func newRuntime(cmd *cobra.Command, opts *globalOpts) (*runtimeDeps, error) {
	cfg, err := sdkconfig.LoadEnv()
	if err != nil {
		return nil, err
	}
	if opts != nil {
		if opts.rpcURL != "" {
			cfg.RPCURL = opts.rpcURL
		}
		if opts.commitment != "" {
			cfg.Commitment = opts.commitment
		}
		cfg.RateLimit.RPS = opts.rateLimitRPS
		cfg.Retry.MaxAttempts = opts.retryAttempts
		if opts.retryBackoffMs > 0 {
			cfg.Retry.InitialBackoff = time.Duration(opts.retryBackoffMs) * time.Millisecond
		}
		if opts.timeoutSec > 0 {
			cfg.Timeout = time.Duration(opts.timeoutSec) * time.Second
		}
	}
	level := parseLogLevel(opts.logLevel)
	log := zerolog.New(cmd.ErrOrStderr()).Level(level).With().Timestamp().Logger()
	cfg.Logger = log

	rpcClient := sdkrpc.NewClient(cfg)

	subOpts := []submitter.Option{
		submitter.WithSkipPreflight(opts != nil && opts.skipPreflight),
		submitter.WithLogger(log),
		submitter.WithProgramErrorParser(func(code int, logs []string) error {
			return room.ParseProgramError(code, logs)
		}),
	}
	if opts != nil && opts.jitoEndpoint != "" {
		subOpts = append(subOpts, submitter.WithJito(jito.NewClient(opts.jitoEndpoint, "")))
	}
	sub := submitter.New(rpcClient, solanarpc.CommitmentType(cfg.Commitment), subOpts...)

	client, err := roomclient.New(rpcClient, sub, roomclient.WithLogger(log))
	if err != nil {
		return nil, err
	}

	var signer wallet.Signer
	if opts != nil && opts.keypairPath != "" {
		local, err := wallet.NewLocalFromKeygen(opts.keypairPath)
		if err != nil {
			return nil, err
		}
		signer = local
	}

	return &runtimeDeps{client: client, signer: signer, rpc: rpcClient}, nil
}

// requireSigner is used by commands that submit transactions; read-only
// commands work without a keypair.
func (d *runtimeDeps) requireSigner() (wallet.Signer, error) {
	if d.signer == nil {
		return nil, fmt.Errorf("a signer is required (use --keypair)")
	}
	return d.signer, nil
}

func parseLogLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
