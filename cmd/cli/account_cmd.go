package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
)

func newAccountCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "account [pubkey]",
		Short: "Inspect a room program account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := parsePubkey("account", args[0])
			if err != nil {
				return err
			}
			deps, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			acc, err := deps.rpc.GetAccountInfo(ctx, pub)
			if err != nil {
				return fmt.Errorf("fetch account: %w", err)
			}
			if acc == nil || acc.Value == nil || acc.Value.Data == nil {
				return fmt.Errorf("account not found or empty")
			}
			data := acc.Value.Data.GetBinary()
			name, decoded, err := decodeKnownAccount(data)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(decoded, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "account=%s program=%s\n%s\n", name, acc.Value.Owner, string(bz))
			return nil
		},
	}
}

func decodeKnownAccount(data []byte) (string, interface{}, error) {
	if len(data) < 8 {
		return "", nil, fmt.Errorf("account data too short")
	}
	switch {
	case bytes.Equal(data[:8], room.GlobalConfigDiscriminator[:]):
		v, err := room.DecodeGlobalConfig(data)
		return "room.GlobalConfig", v, err
	case bytes.Equal(data[:8], room.TokenRegistryDiscriminator[:]):
		v, err := room.DecodeTokenRegistry(data)
		return "room.TokenRegistry", v, err
	case bytes.Equal(data[:8], room.RoomDiscriminator[:]):
		v, err := room.DecodeRoom(data)
		return "room.Room", v, err
	case bytes.Equal(data[:8], room.PlayerEntryDiscriminator[:]):
		v, err := room.DecodePlayerEntry(data)
		return "room.PlayerEntry", v, err
	}
	return "", nil, fmt.Errorf("unknown account discriminator")
}
