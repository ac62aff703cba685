package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

// parsePubkey converts a base58 string to a PublicKey.
func parsePubkey(label, v string) (solana.PublicKey, error) {
	if v == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", label)
	}
	pk, err := solana.PublicKeyFromBase58(v)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s invalid pubkey: %w", label, err)
	}
	return pk, nil
}

// parsePubkeyList converts a repeated base58 flag into winner keys.
func parsePubkeyList(label string, vs []string) ([]solana.PublicKey, error) {
	out := make([]solana.PublicKey, 0, len(vs))
	for _, v := range vs {
		pk, err := parsePubkey(label, v)
		if err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	return out, nil
}

func reportOutcome(cmd *cobra.Command, outcome types.Outcome) {
	if outcome.Kind == types.OutcomeAlreadyDone {
		fmt.Fprintf(cmd.OutOrStdout(), "already done: %s\n", outcome.Signature)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", outcome.Signature)
}
