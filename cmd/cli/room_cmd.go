package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/roomclient"
)

func newRoomCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room lifecycle (create, join, close, cleanup)",
	}
	cmd.AddCommand(
		newRoomCreateCmd(opts),
		newRoomCreateAssetCmd(opts),
		newRoomAddPrizeCmd(opts),
		newRoomJoinCmd(opts),
		newRoomCloseJoiningCmd(opts),
		newRoomCleanupCmd(opts),
		newRoomInfoCmd(opts),
		newRoomPreviewSplitCmd(opts),
	)
	return cmd
}

func newRoomCreateCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID        string
		mintStr       string
		charityStr    string
		charityMemo   string
		entryFee      uint64
		maxPlayers    uint32
		hostFeeBps    uint16
		prizeBps      uint16
		firstPct    uint16
		secondPct   uint16
		thirdPct    uint16
		expirySlots uint64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pool-prize room",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			host, err := deps.requireSigner()
			if err != nil {
				return err
			}
			mint, err := parsePubkey("fee-mint", mintStr)
			if err != nil {
				return err
			}
			charity, err := parsePubkey("charity-wallet", charityStr)
			if err != nil {
				return err
			}

			params := roomclient.CreateRoomParams{
				RoomID:        roomID,
				FeeTokenMint:  mint,
				CharityWallet: charity,
				CharityMemo:   charityMemo,
				EntryFee:      entryFee,
				MaxPlayers:    maxPlayers,
				HostFeeBps:    hostFeeBps,
				PrizePoolBps:  prizeBps,
				FirstPlacePct: firstPct,
			}
			if cmd.Flags().Changed("second-place-pct") {
				params.SecondPlacePct = &secondPct
			}
			if cmd.Flags().Changed("third-place-pct") {
				params.ThirdPlacePct = &thirdPct
			}
			if cmd.Flags().Changed("expiration-slots") {
				params.ExpirationSlots = &expirySlots
			}

			res, err := deps.client.CreateRoom(ctx, host, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "room: %s\n", res.RoomAddress)
			reportOutcome(cmd, res.Outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier (1-32 bytes)")
	cmd.Flags().StringVar(&mintStr, "fee-mint", "", "approved fee token mint")
	cmd.Flags().StringVar(&charityStr, "charity-wallet", "", "charity wallet pubkey")
	cmd.Flags().StringVar(&charityMemo, "charity-memo", "", "memo attached to charity payouts (max 28 bytes)")
	cmd.Flags().Uint64Var(&entryFee, "entry-fee", 0, "entry fee in base token units")
	cmd.Flags().Uint32Var(&maxPlayers, "max-players", 100, "player cap (1-10000)")
	cmd.Flags().Uint16Var(&hostFeeBps, "host-fee-bps", 0, "host fee in basis points")
	cmd.Flags().Uint16Var(&prizeBps, "prize-pool-bps", 0, "prize pool share in basis points")
	cmd.Flags().Uint16Var(&firstPct, "first-place-pct", 100, "first place share of the prize pool")
	cmd.Flags().Uint16Var(&secondPct, "second-place-pct", 0, "second place share of the prize pool")
	cmd.Flags().Uint16Var(&thirdPct, "third-place-pct", 0, "third place share of the prize pool")
	cmd.Flags().Uint64Var(&expirySlots, "expiration-slots", 0, "slots until the room becomes admin-recoverable")
	_ = cmd.MarkFlagRequired("room-id")
	_ = cmd.MarkFlagRequired("fee-mint")
	_ = cmd.MarkFlagRequired("charity-wallet")
	return cmd
}

func newRoomCreateAssetCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID       string
		mintStr      string
		charityStr   string
		charityMemo  string
		entryFee     uint64
		maxPlayers   uint32
		hostFeeBps   uint16
		prize1Mint   string
		prize1Amount uint64
		prize2Mint   string
		prize2Amount uint64
		prize3Mint   string
		prize3Amount uint64
	)

	cmd := &cobra.Command{
		Use:   "create-asset",
		Short: "Create a room with pre-deposited prize assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			host, err := deps.requireSigner()
			if err != nil {
				return err
			}
			mint, err := parsePubkey("fee-mint", mintStr)
			if err != nil {
				return err
			}
			charity, err := parsePubkey("charity-wallet", charityStr)
			if err != nil {
				return err
			}
			p1, err := parsePubkey("prize1-mint", prize1Mint)
			if err != nil {
				return err
			}

			params := roomclient.CreateAssetRoomParams{
				RoomID:        roomID,
				FeeTokenMint:  mint,
				CharityWallet: charity,
				CharityMemo:   charityMemo,
				EntryFee:      entryFee,
				MaxPlayers:    maxPlayers,
				HostFeeBps:    hostFeeBps,
				Prize1Mint:    p1,
				Prize1Amount:  prize1Amount,
			}
			if prize2Mint != "" {
				p2, err := parsePubkey("prize2-mint", prize2Mint)
				if err != nil {
					return err
				}
				params.Prize2Mint = &p2
				params.Prize2Amount = &prize2Amount
			}
			if prize3Mint != "" {
				p3, err := parsePubkey("prize3-mint", prize3Mint)
				if err != nil {
					return err
				}
				params.Prize3Mint = &p3
				params.Prize3Amount = &prize3Amount
			}

			res, err := deps.client.CreateAssetRoom(ctx, host, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "room: %s\n", res.RoomAddress)
			reportOutcome(cmd, res.Outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier (1-32 bytes)")
	cmd.Flags().StringVar(&mintStr, "fee-mint", "", "approved fee token mint")
	cmd.Flags().StringVar(&charityStr, "charity-wallet", "", "charity wallet pubkey")
	cmd.Flags().StringVar(&charityMemo, "charity-memo", "", "memo attached to charity payouts")
	cmd.Flags().Uint64Var(&entryFee, "entry-fee", 0, "entry fee in base token units")
	cmd.Flags().Uint32Var(&maxPlayers, "max-players", 100, "player cap (1-10000)")
	cmd.Flags().Uint16Var(&hostFeeBps, "host-fee-bps", 0, "host fee in basis points")
	cmd.Flags().StringVar(&prize1Mint, "prize1-mint", "", "first prize token mint")
	cmd.Flags().Uint64Var(&prize1Amount, "prize1-amount", 0, "first prize amount")
	cmd.Flags().StringVar(&prize2Mint, "prize2-mint", "", "optional second prize token mint")
	cmd.Flags().Uint64Var(&prize2Amount, "prize2-amount", 0, "second prize amount")
	cmd.Flags().StringVar(&prize3Mint, "prize3-mint", "", "optional third prize token mint")
	cmd.Flags().Uint64Var(&prize3Amount, "prize3-amount", 0, "third prize amount")
	_ = cmd.MarkFlagRequired("room-id")
	_ = cmd.MarkFlagRequired("fee-mint")
	_ = cmd.MarkFlagRequired("charity-wallet")
	_ = cmd.MarkFlagRequired("prize1-mint")
	_ = cmd.MarkFlagRequired("prize1-amount")
	return cmd
}

func newRoomAddPrizeCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID     string
		prizeIndex uint8
	)
	cmd := &cobra.Command{
		Use:   "add-prize",
		Short: "Deposit a declared prize into its vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			host, err := deps.requireSigner()
			if err != nil {
				return err
			}
			outcome, err := deps.client.AddPrizeAsset(ctx, host, roomID, prizeIndex)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	cmd.Flags().Uint8Var(&prizeIndex, "prize-index", 0, "prize slot to deposit (0-2)")
	_ = cmd.MarkFlagRequired("room-id")
	return cmd
}

func newRoomJoinCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID  string
		hostStr string
		extras  uint64
	)
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Pay the entry fee and join a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			player, err := deps.requireSigner()
			if err != nil {
				return err
			}
			params := roomclient.JoinRoomParams{RoomID: roomID, ExtrasAmount: extras}
			if hostStr != "" {
				host, err := parsePubkey("host", hostStr)
				if err != nil {
					return err
				}
				params.Host = host
			}

			res, err := deps.client.JoinRoom(ctx, player, params)
			if err != nil {
				return err
			}
			if res.AlreadyPaid {
				fmt.Fprintln(cmd.OutOrStdout(), "earlier payment already landed; nothing charged twice")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "player entry: %s\n", res.PlayerEntryAddress)
			reportOutcome(cmd, res.Outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	cmd.Flags().StringVar(&hostStr, "host", "", "room host pubkey (omitting forces a slow scan)")
	cmd.Flags().Uint64Var(&extras, "extras", 0, "voluntary extra payment, 100% to charity")
	_ = cmd.MarkFlagRequired("room-id")
	return cmd
}

func newRoomCloseJoiningCmd(opts *globalOpts) *cobra.Command {
	var roomID string
	cmd := &cobra.Command{
		Use:   "close-joining",
		Short: "Lock a room to new players (one-way)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			host, err := deps.requireSigner()
			if err != nil {
				return err
			}
			outcome, err := deps.client.CloseJoining(ctx, host, roomID)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	_ = cmd.MarkFlagRequired("room-id")
	return cmd
}

func newRoomCleanupCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID  string
		hostStr string
	)
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Reclaim the vault rent of an ended room",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			caller, err := deps.requireSigner()
			if err != nil {
				return err
			}
			host, err := parsePubkey("host", hostStr)
			if err != nil {
				return err
			}
			outcome, err := deps.client.CleanupRoom(ctx, caller, host, roomID)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	cmd.Flags().StringVar(&hostStr, "host", "", "room host pubkey")
	_ = cmd.MarkFlagRequired("room-id")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}

func newRoomInfoCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID  string
		hostStr string
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show a room's on-chain state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			host, err := parsePubkey("host", hostStr)
			if err != nil {
				return err
			}
			r, addr, err := deps.client.Room(ctx, host, roomID)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(r, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "address=%s status=%s\n%s\n", addr, r.Status, string(bz))
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	cmd.Flags().StringVar(&hostStr, "host", "", "room host pubkey")
	_ = cmd.MarkFlagRequired("room-id")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}

func newRoomPreviewSplitCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID  string
		hostStr string
	)
	cmd := &cobra.Command{
		Use:   "preview-split",
		Short: "Show where the escrowed funds would go at settlement",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			host, err := parsePubkey("host", hostStr)
			if err != nil {
				return err
			}
			shares, err := deps.client.SplitPreview(ctx, host, roomID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "charity=%d host=%d prize=%d platform=%d total=%d\n",
				shares.Charity, shares.Host, shares.Prize, shares.Platform, shares.Total())
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	cmd.Flags().StringVar(&hostStr, "host", "", "room host pubkey")
	_ = cmd.MarkFlagRequired("room-id")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}
