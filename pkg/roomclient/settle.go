package roomclient

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/pda"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/split"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/tokenaccount"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/wallet"
)

func validateWinners(host solana.PublicKey, winners []solana.PublicKey) error {
	if len(winners) == 0 || len(winners) > constants.MaxWinners {
		return types.NewValidationError("winners", fmt.Sprintf("must name 1-%d winners", constants.MaxWinners))
	}
	seen := make(map[solana.PublicKey]struct{}, len(winners))
	for _, w := range winners {
		if w.IsZero() {
			return types.NewValidationError("winners", "contains the zero address")
		}
		if w.Equals(host) {
			return types.ErrHostCannotBeWinner
		}
		if _, dup := seen[w]; dup {
			return types.NewValidationError("winners", "contains a duplicate")
		}
		seen[w] = struct{}{}
	}
	return nil
}

// DeclareWinners records the winner list on the room ahead of settlement.
// Hosts use it to publish results before moving funds with EndRoom.
func (c *Client) DeclareWinners(ctx context.Context, host wallet.Signer, roomID string, winners []solana.PublicKey) (types.Outcome, error) {
	if host == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	if err := validateWinners(host.PublicKey(), winners); err != nil {
		return types.Outcome{}, err
	}
	r, roomAddr, err := c.Room(ctx, host.PublicKey(), roomID)
	if err != nil {
		return types.Outcome{}, err
	}
	if r.Ended {
		return types.Outcome{}, types.ErrRoomAlreadyEnded
	}

	ix, err := room.BuildDeclareWinners(room.DeclareWinnersAccounts{
		Room: roomAddr,
		Host: host.PublicKey(),
	}, room.DeclareWinnersArgs{RoomID: roomID, Winners: winners})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "declare_winners", host, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		cur, _, err := c.Room(ctx, host.PublicKey(), roomID)
		if err != nil {
			return false, err
		}
		return len(cur.Winners) > 0, nil
	})
}

// EndRoomResult reports a settlement with the share breakdown that was paid
// out of the vault.
type EndRoomResult struct {
	Outcome types.Outcome
	Shares  split.Shares
}

// EndRoom settles a room: the vault pays the platform, host, prize winners,
// and sends the remainder plus all extras to charity. Winners may be passed
// here or pre-declared with DeclareWinners; passing both is rejected to
// avoid a silent mismatch. Missing destination token accounts are created
// in the same transaction at the host's expense.
func (c *Client) EndRoom(ctx context.Context, host wallet.Signer, roomID string, winners []solana.PublicKey) (EndRoomResult, error) {
	if host == nil {
		return EndRoomResult{}, types.ErrNilSigner
	}
	r, roomAddr, err := c.Room(ctx, host.PublicKey(), roomID)
	if err != nil {
		return EndRoomResult{}, err
	}
	if r.Ended || r.Status == room.RoomStatusEnded {
		return EndRoomResult{}, types.ErrRoomAlreadyEnded
	}
	// The program only settles active rooms; a room still in Ready has
	// never started and must be recovered or cleaned up instead.
	if r.Status != room.RoomStatusActive {
		return EndRoomResult{}, types.NewValidationError("status", "room has not started")
	}

	switch {
	case len(r.Winners) > 0 && len(winners) > 0:
		return EndRoomResult{}, types.NewValidationError("winners", "already declared on the room")
	case len(r.Winners) > 0:
		winners = r.Winners
	}
	if err := validateWinners(host.PublicKey(), winners); err != nil {
		return EndRoomResult{}, err
	}

	cfg, err := c.GlobalConfig(ctx)
	if err != nil {
		return EndRoomResult{}, err
	}
	shares, err := split.SplitWithExtras(r.TotalEntryFees, r.TotalExtrasFees, r.HostFeeBps, r.PrizePoolBps, cfg.PlatformFeeBps)
	if err != nil {
		return EndRoomResult{}, err
	}

	// Destination token accounts, winners last so their metas line up with
	// the winner order inside the instruction.
	payer := host.PublicKey()
	reqs := []tokenaccount.Request{
		{Payer: payer, Owner: cfg.PlatformWallet, Mint: r.FeeTokenMint},
		{Payer: payer, Owner: r.CharityWallet, Mint: r.FeeTokenMint},
		{Payer: payer, Owner: payer, Mint: r.FeeTokenMint},
	}
	for _, w := range winners {
		reqs = append(reqs, tokenaccount.Request{Payer: payer, Owner: w, Mint: r.FeeTokenMint})
	}
	resolutions, err := tokenaccount.ResolveBatch(ctx, c.reader, reqs)
	if err != nil {
		return EndRoomResult{}, err
	}

	var instrs []solana.Instruction
	for _, res := range resolutions {
		if res.CreateInstruction != nil {
			instrs = append(instrs, res.CreateInstruction)
		}
	}

	vaultPDA, err := pda.RoomVault(roomAddr)
	if err != nil {
		return EndRoomResult{}, err
	}
	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return EndRoomResult{}, err
	}
	winnerAccounts := make([]solana.PublicKey, len(winners))
	for i := range winners {
		winnerAccounts[i] = resolutions[3+i].Address
	}
	endIx, err := room.BuildEndRoom(room.EndRoomAccounts{
		Room:                 roomAddr,
		RoomVault:            vaultPDA.Address,
		GlobalConfig:         configPDA.Address,
		PlatformTokenAccount: resolutions[0].Address,
		CharityTokenAccount:  resolutions[1].Address,
		HostTokenAccount:     resolutions[2].Address,
		Host:                 payer,
		TokenProgram:         constants.TokenProgramID,
	}, room.EndRoomArgs{RoomID: roomID, Winners: winners}, winnerAccounts)
	if err != nil {
		return EndRoomResult{}, err
	}
	instrs = append(instrs, endIx)

	outcome, err := c.execute(ctx, "end_room", host, instrs, func(ctx context.Context) (bool, error) {
		cur, _, err := c.Room(ctx, host.PublicKey(), roomID)
		if err != nil {
			return false, err
		}
		return cur.Ended, nil
	})
	if err != nil {
		return EndRoomResult{}, err
	}
	return EndRoomResult{Outcome: outcome, Shares: shares}, nil
}

// RecoverRoomResult reports an admin recovery with the refund breakdown.
type RecoverRoomResult struct {
	Outcome         types.Outcome
	PlatformFee     uint64
	RefundPerPlayer uint64
	PlayerCount     uint32
}

// RecoverRoom is the admin path for abandoned rooms: 10% of the vault to the
// platform, the rest refunded pro-rata to every joined player. Player token
// accounts are discovered from the join receipts.
func (c *Client) RecoverRoom(ctx context.Context, admin wallet.Signer, host solana.PublicKey, roomID string) (RecoverRoomResult, error) {
	if admin == nil {
		return RecoverRoomResult{}, types.ErrNilSigner
	}
	cfg, err := c.GlobalConfig(ctx)
	if err != nil {
		return RecoverRoomResult{}, err
	}
	if !cfg.Admin.Equals(admin.PublicKey()) {
		return RecoverRoomResult{}, types.ErrNotAdmin
	}

	r, roomAddr, err := c.Room(ctx, host, roomID)
	if err != nil {
		return RecoverRoomResult{}, err
	}
	if r.Ended {
		return RecoverRoomResult{}, types.ErrRoomAlreadyEnded
	}

	platformFee, _, perPlayer, err := split.RecoverySplit(r.TotalCollected(), r.PlayerCount)
	if err != nil {
		return RecoverRoomResult{}, err
	}

	entries, err := c.playerEntries(ctx, roomAddr)
	if err != nil {
		return RecoverRoomResult{}, err
	}
	if len(entries) == 0 {
		return RecoverRoomResult{}, types.ErrNoPlayersFound
	}

	payer := admin.PublicKey()
	reqs := make([]tokenaccount.Request, 0, len(entries)+1)
	reqs = append(reqs, tokenaccount.Request{Payer: payer, Owner: cfg.PlatformWallet, Mint: r.FeeTokenMint})
	for _, e := range entries {
		reqs = append(reqs, tokenaccount.Request{Payer: payer, Owner: e.Player, Mint: r.FeeTokenMint})
	}
	resolutions, err := tokenaccount.ResolveBatch(ctx, c.reader, reqs)
	if err != nil {
		return RecoverRoomResult{}, err
	}

	var instrs []solana.Instruction
	for _, res := range resolutions {
		if res.CreateInstruction != nil {
			instrs = append(instrs, res.CreateInstruction)
		}
	}

	vaultPDA, err := pda.RoomVault(roomAddr)
	if err != nil {
		return RecoverRoomResult{}, err
	}
	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return RecoverRoomResult{}, err
	}
	playerAccounts := make([]solana.PublicKey, len(entries))
	for i := range entries {
		playerAccounts[i] = resolutions[1+i].Address
	}
	recoverIx, err := room.BuildRecoverRoom(room.RecoverRoomAccounts{
		Room:                 roomAddr,
		RoomVault:            vaultPDA.Address,
		GlobalConfig:         configPDA.Address,
		PlatformTokenAccount: resolutions[0].Address,
		Admin:                payer,
		TokenProgram:         constants.TokenProgramID,
	}, room.RecoverRoomArgs{RoomID: roomID}, playerAccounts)
	if err != nil {
		return RecoverRoomResult{}, err
	}
	instrs = append(instrs, recoverIx)

	outcome, err := c.execute(ctx, "recover_room", admin, instrs, func(ctx context.Context) (bool, error) {
		cur, _, err := c.Room(ctx, host, roomID)
		if err != nil {
			return false, err
		}
		return cur.Ended, nil
	})
	if err != nil {
		return RecoverRoomResult{}, err
	}
	return RecoverRoomResult{
		Outcome:         outcome,
		PlatformFee:     platformFee,
		RefundPerPlayer: perPlayer,
		PlayerCount:     r.PlayerCount,
	}, nil
}

// SplitPreview computes the payout breakdown a room would settle with right
// now, without touching the chain beyond the two reads. Frontends use it to
// show hosts and players where the money goes.
func (c *Client) SplitPreview(ctx context.Context, host solana.PublicKey, roomID string) (split.Shares, error) {
	r, _, err := c.Room(ctx, host, roomID)
	if err != nil {
		return split.Shares{}, err
	}
	cfg, err := c.GlobalConfig(ctx)
	if err != nil {
		return split.Shares{}, err
	}
	return split.SplitWithExtras(r.TotalEntryFees, r.TotalExtrasFees, r.HostFeeBps, r.PrizePoolBps, cfg.PlatformFeeBps)
}
