// Package txbuilder assembles ordered instruction lists into signable
// transactions. It is deliberately ignorant of what the instructions mean;
// callers are responsible for ordering (creation instructions before the
// instructions that consume the created accounts).
package txbuilder

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/wallet"
)

// BlockhashSource provides the freshness anchor for new transactions.
// *rpc.Client satisfies it through a small adapter; tests use a fixed hash.
type BlockhashSource interface {
	RecentBlockhash(ctx context.Context) (solana.Hash, error)
}

// BlockhashFunc adapts a function to BlockhashSource.
type BlockhashFunc func(ctx context.Context) (solana.Hash, error)

// RecentBlockhash implements BlockhashSource.
func (f BlockhashFunc) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	return f(ctx)
}

// Builder assembles transactions against a blockhash source.
type Builder struct {
	source BlockhashSource
}

// NewBuilder constructs a builder with the provided blockhash source.
func NewBuilder(source BlockhashSource) *Builder {
	return &Builder{source: source}
}

// Build assembles instructions into an unsigned transaction with a fresh
// blockhash. Instruction order is preserved exactly. Empty instruction
// lists are rejected.
func (b *Builder) Build(ctx context.Context, feePayer solana.PublicKey, instructions ...solana.Instruction) (*solana.Transaction, error) {
	if b.source == nil {
		return nil, types.ErrNilRPC
	}
	blockhash, err := b.source.RecentBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get recent blockhash: %w", err)
	}
	return BuildWithBlockhash(feePayer, blockhash, instructions...)
}

// BuildWithBlockhash assembles a transaction against a caller-supplied
// freshness anchor. Pure; no network access.
func BuildWithBlockhash(feePayer solana.PublicKey, blockhash solana.Hash, instructions ...solana.Instruction) (*solana.Transaction, error) {
	if len(instructions) == 0 {
		return nil, types.ErrNoInstructions
	}
	if err := types.ValidatePublicKey("feePayer", feePayer); err != nil {
		return nil, err
	}

	builder := solana.NewTransactionBuilder().
		SetRecentBlockHash(blockhash).
		SetFeePayer(feePayer)

	for _, ix := range instructions {
		builder.AddInstruction(ix)
	}

	tx, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	return tx, nil
}

// Sign signs using the provided signers in account-key order.
func Sign(ctx context.Context, tx *solana.Transaction, signers ...wallet.Signer) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}
	required := int(tx.Message.Header.NumRequiredSignatures)
	if required == 0 {
		return nil
	}
	if len(tx.Message.AccountKeys) < required {
		return fmt.Errorf("not enough account keys for required signatures")
	}

	signerMap := make(map[string]wallet.Signer, len(signers))
	for _, s := range signers {
		signerMap[s.PublicKey().String()] = s
	}

	messageBytes, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	tx.Signatures = make([]solana.Signature, required)
	for i := 0; i < required; i++ {
		pk := tx.Message.AccountKeys[i]
		signer, ok := signerMap[pk.String()]
		if !ok {
			return fmt.Errorf("missing signer for %s", pk.String())
		}
		sig, err := signer.SignMessage(ctx, messageBytes)
		if err != nil {
			return fmt.Errorf("sign message for %s: %w", pk.String(), err)
		}
		tx.Signatures[i] = sig
	}
	return nil
}
