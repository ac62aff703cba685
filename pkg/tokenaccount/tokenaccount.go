// Package tokenaccount resolves the associated token account an owner needs
// for a given mint and plans its creation when missing. It is a pure
// planning step: nothing is submitted here, callers prepend the returned
// create instruction to their own transaction for atomic create-then-use.
package tokenaccount

import (
	"context"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/pda"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

// Reader is the read-only account access the manager needs. *rpc.Client
// satisfies it; tests use an in-memory fake.
type Reader interface {
	GetMultipleAccounts(ctx context.Context, addrs ...solana.PublicKey) (map[string]*solanarpc.Account, error)
}

// Resolution describes one owner's token account for a mint: where it is,
// whether it exists, its balance if it does, and the instruction to create
// it if it does not.
type Resolution struct {
	Address       solana.PublicKey
	ExistsAlready bool
	Balance       uint64
	// CreateInstruction is non-nil only when the account must be created.
	CreateInstruction solana.Instruction
}

// Request names one (payer, owner, mint) resolution.
type Request struct {
	Payer solana.PublicKey
	Owner solana.PublicKey
	Mint  solana.PublicKey
}

// Resolve plans a single token account. See ResolveBatch.
func Resolve(ctx context.Context, reader Reader, req Request) (Resolution, error) {
	out, err := ResolveBatch(ctx, reader, []Request{req})
	if err != nil {
		return Resolution{}, err
	}
	return out[0], nil
}

// ResolveBatch derives the associated token account for each request, reads
// them in one round trip, and classifies each as existing (with balance) or
// missing (with a create instruction). Read failures other than not-found
// propagate as-is; not-found is the benign planned-creation case.
func ResolveBatch(ctx context.Context, reader Reader, reqs []Request) ([]Resolution, error) {
	if reader == nil {
		return nil, types.ErrNilRPC
	}
	if len(reqs) == 0 {
		return nil, nil
	}

	out := make([]Resolution, len(reqs))
	addrs := make([]solana.PublicKey, len(reqs))
	for i, req := range reqs {
		if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
			"payer": req.Payer,
			"owner": req.Owner,
			"mint":  req.Mint,
		}); err != nil {
			return nil, err
		}
		derived, err := pda.AssociatedTokenAccount(req.Owner, req.Mint)
		if err != nil {
			return nil, err
		}
		out[i].Address = derived.Address
		addrs[i] = derived.Address
	}

	accounts, err := reader.GetMultipleAccounts(ctx, addrs...)
	if err != nil {
		return nil, types.RPCError{Op: "resolve token accounts", Err: err}
	}

	for i, req := range reqs {
		acc := accounts[out[i].Address.String()]
		if acc != nil && acc.Owner.Equals(constants.TokenProgramID) {
			out[i].ExistsAlready = true
			out[i].Balance = decodeBalance(acc)
			continue
		}
		out[i].CreateInstruction = buildCreateInstruction(req.Payer, out[i].Address, req.Owner, req.Mint)
	}
	return out, nil
}

func decodeBalance(acc *solanarpc.Account) uint64 {
	if acc.Data == nil {
		return 0
	}
	data := acc.Data.GetBinary()
	if len(data) == 0 {
		return 0
	}
	var tokAcc token.Account
	if err := bin.NewBinDecoder(data).Decode(&tokAcc); err != nil {
		return 0
	}
	return tokAcc.Amount
}

// buildCreateInstruction assembles the associated-token-account creation
// instruction. Account order is fixed by the ATA program.
func buildCreateInstruction(payer, ata, owner, mint solana.PublicKey) solana.Instruction {
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(ata, true, false),
		solana.NewAccountMeta(owner, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(constants.SystemProgramID, false, false),
		solana.NewAccountMeta(constants.TokenProgramID, false, false),
	}
	return solana.NewInstruction(constants.AssociatedTokenProgramID, metas, nil)
}

// FetchBalances reads token balances for already-known token accounts,
// returning 0 for accounts that do not exist.
func FetchBalances(ctx context.Context, reader Reader, accounts []solana.PublicKey) (map[string]uint64, error) {
	if len(accounts) == 0 {
		return map[string]uint64{}, nil
	}
	amap, err := reader.GetMultipleAccounts(ctx, accounts...)
	if err != nil {
		return nil, types.RPCError{Op: "fetch token balances", Err: err}
	}
	result := make(map[string]uint64, len(accounts))
	for _, addr := range accounts {
		key := addr.String()
		if acc := amap[key]; acc != nil {
			result[key] = decodeBalance(acc)
		} else {
			result[key] = 0
		}
	}
	return result, nil
}
