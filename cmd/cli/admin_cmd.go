package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/roomclient"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

func newAdminCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Platform administration (config, pause, token registry)",
	}
	cmd.AddCommand(
		newAdminInitCmd(opts),
		newAdminShowConfigCmd(opts),
		newAdminUpdateConfigCmd(opts),
		newAdminPauseCmd(opts),
		newRegistryCmd(opts),
	)
	return cmd
}

func newAdminInitCmd(opts *globalOpts) *cobra.Command {
	var (
		platformStr string
		charityStr  string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "One-time platform setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			admin, err := deps.requireSigner()
			if err != nil {
				return err
			}
			platform, err := parsePubkey("platform-wallet", platformStr)
			if err != nil {
				return err
			}
			charity, err := parsePubkey("charity-wallet", charityStr)
			if err != nil {
				return err
			}
			outcome, err := deps.client.Initialize(ctx, admin, platform, charity)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&platformStr, "platform-wallet", "", "platform fee destination")
	cmd.Flags().StringVar(&charityStr, "charity-wallet", "", "default charity wallet")
	_ = cmd.MarkFlagRequired("platform-wallet")
	_ = cmd.MarkFlagRequired("charity-wallet")
	return cmd
}

func newAdminShowConfigCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show-config",
		Short: "Show the on-chain global config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			cfg, err := deps.client.GlobalConfig(ctx)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(cfg, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
}

func newAdminUpdateConfigCmd(opts *globalOpts) *cobra.Command {
	var (
		platformStr string
		charityStr  string
		platformBps uint16
		hostCapBps  uint16
		prizeCapBps uint16
		charityBps  uint16
	)
	cmd := &cobra.Command{
		Use:   "update-config",
		Short: "Patch the global config (only supplied flags change)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			admin, err := deps.requireSigner()
			if err != nil {
				return err
			}

			var patch roomclient.ConfigPatch
			if platformStr != "" {
				pk, err := parsePubkey("platform-wallet", platformStr)
				if err != nil {
					return err
				}
				patch.PlatformWallet = &pk
			}
			if charityStr != "" {
				pk, err := parsePubkey("charity-wallet", charityStr)
				if err != nil {
					return err
				}
				patch.CharityWallet = &pk
			}
			if cmd.Flags().Changed("platform-fee-bps") {
				patch.PlatformFeeBps = &platformBps
			}
			if cmd.Flags().Changed("max-host-fee-bps") {
				patch.MaxHostFeeBps = &hostCapBps
			}
			if cmd.Flags().Changed("max-prize-pool-bps") {
				patch.MaxPrizePoolBps = &prizeCapBps
			}
			if cmd.Flags().Changed("min-charity-bps") {
				patch.MinCharityBps = &charityBps
			}

			outcome, err := deps.client.UpdateGlobalConfig(ctx, admin, patch)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&platformStr, "platform-wallet", "", "new platform wallet")
	cmd.Flags().StringVar(&charityStr, "charity-wallet", "", "new default charity wallet")
	cmd.Flags().Uint16Var(&platformBps, "platform-fee-bps", 0, "new platform fee")
	cmd.Flags().Uint16Var(&hostCapBps, "max-host-fee-bps", 0, "new host fee cap")
	cmd.Flags().Uint16Var(&prizeCapBps, "max-prize-pool-bps", 0, "new prize pool cap")
	cmd.Flags().Uint16Var(&charityBps, "min-charity-bps", 0, "new charity floor")
	return cmd
}

func newAdminPauseCmd(opts *globalOpts) *cobra.Command {
	var paused bool
	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Toggle the emergency pause",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			admin, err := deps.requireSigner()
			if err != nil {
				return err
			}
			outcome, err := deps.client.SetEmergencyPause(ctx, admin, paused)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
	cmd.Flags().BoolVar(&paused, "paused", true, "pause (true) or resume (false)")
	return cmd
}

func newRegistryCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Approved fee-token registry",
	}
	cmd.AddCommand(
		newRegistryInitCmd(opts),
		newRegistryListCmd(opts),
		newRegistryMutateCmd(opts, "add", "Approve a fee token mint",
			func(ctx context.Context, deps *runtimeDeps, mint solana.PublicKey) (types.Outcome, error) {
				admin, err := deps.requireSigner()
				if err != nil {
					return types.Outcome{}, err
				}
				return deps.client.AddApprovedToken(ctx, admin, mint)
			}),
		newRegistryMutateCmd(opts, "remove", "Remove a fee token mint",
			func(ctx context.Context, deps *runtimeDeps, mint solana.PublicKey) (types.Outcome, error) {
				admin, err := deps.requireSigner()
				if err != nil {
					return types.Outcome{}, err
				}
				return deps.client.RemoveApprovedToken(ctx, admin, mint)
			}),
	)
	return cmd
}

func newRegistryInitCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the token registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			admin, err := deps.requireSigner()
			if err != nil {
				return err
			}
			outcome, err := deps.client.InitializeTokenRegistry(ctx, admin)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
}

func newRegistryListCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List approved fee token mints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			registry, err := deps.client.TokenRegistry(ctx)
			if err != nil {
				return err
			}
			for _, mint := range registry.ApprovedTokens {
				fmt.Fprintln(cmd.OutOrStdout(), mint.String())
			}
			return nil
		},
	}
}

type registryMutateFn func(ctx context.Context, deps *runtimeDeps, mint solana.PublicKey) (types.Outcome, error)

func newRegistryMutateCmd(opts *globalOpts, use, short string, run registryMutateFn) *cobra.Command {
	var mintStr string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			mint, err := parsePubkey("mint", mintStr)
			if err != nil {
				return err
			}
			outcome, err := run(ctx, deps, mint)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&mintStr, "mint", "", "fee token mint pubkey")
	_ = cmd.MarkFlagRequired("mint")
	return cmd
}
