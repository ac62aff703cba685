package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSettleCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Settlement (declare winners, end room, recover)",
	}
	cmd.AddCommand(
		newDeclareWinnersCmd(opts),
		newEndRoomCmd(opts),
		newRecoverRoomCmd(opts),
	)
	return cmd
}

func newDeclareWinnersCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID     string
		winnerStrs []string
	)
	cmd := &cobra.Command{
		Use:   "declare-winners",
		Short: "Record the winner list ahead of settlement",
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
			winners, err := parsePubkeyList("winner", winnerStrs)
			if err != nil {
				return err
			}
			outcome, err := deps.client.DeclareWinners(ctx, host, roomID, winners)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	cmd.Flags().StringArrayVar(&winnerStrs, "winner", nil, "winner pubkey (repeat per winner, in rank order)")
	_ = cmd.MarkFlagRequired("room-id")
	_ = cmd.MarkFlagRequired("winner")
	return cmd
}

func newEndRoomCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID     string
		winnerStrs []string
	)
	cmd := &cobra.Command{
		Use:   "end",
		Short: "Settle a room and pay out the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 90*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			host, err := deps.requireSigner()
			if err != nil {
				return err
			}
			winners, err := parsePubkeyList("winner", winnerStrs)
			if err != nil {
				return err
			}
			res, err := deps.client.EndRoom(ctx, host, roomID, winners)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "charity=%d host=%d prize=%d platform=%d\n",
				res.Shares.Charity, res.Shares.Host, res.Shares.Prize, res.Shares.Platform)
			reportOutcome(cmd, res.Outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	cmd.Flags().StringArrayVar(&winnerStrs, "winner", nil, "winner pubkey (omit if already declared)")
	_ = cmd.MarkFlagRequired("room-id")
	return cmd
}

func newRecoverRoomCmd(opts *globalOpts) *cobra.Command {
	var (
		roomID  string
		hostStr string
	)
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Admin recovery of an abandoned room (pro-rata refunds)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 90*time.Second)
			defer cancel()

			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			admin, err := deps.requireSigner()
			if err != nil {
				return err
			}
			host, err := parsePubkey("host", hostStr)
			if err != nil {
				return err
			}
			res, err := deps.client.RecoverRoom(ctx, admin, host, roomID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "platform=%d refund-per-player=%d players=%d\n",
				res.PlatformFee, res.RefundPerPlayer, res.PlayerCount)
			reportOutcome(cmd, res.Outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "room identifier")
	cmd.Flags().StringVar(&hostStr, "host", "", "room host pubkey")
	_ = cmd.MarkFlagRequired("room-id")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}
