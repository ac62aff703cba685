package roomclient_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/pda"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

func TestDeclareWinnersRejectsHostAsWinner(t *testing.T) {
	w := newWorld(t)

	_, err := w.client.DeclareWinners(context.Background(), w.host, w.room.RoomID,
		[]solana.PublicKey{w.host.PublicKey()})
	require.ErrorIs(t, err, types.ErrHostCannotBeWinner)
	require.Zero(t, w.sub.submitCalls)
}

func TestDeclareWinnersRejectsDuplicates(t *testing.T) {
	w := newWorld(t)
	winner := solana.NewWallet().PublicKey()

	_, err := w.client.DeclareWinners(context.Background(), w.host, w.room.RoomID,
		[]solana.PublicKey{winner, winner})
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDeclareWinnersRejectsEmptyAndOversized(t *testing.T) {
	w := newWorld(t)

	_, err := w.client.DeclareWinners(context.Background(), w.host, w.room.RoomID, nil)
	require.Error(t, err)

	tooMany := make([]solana.PublicKey, constants.MaxWinners+1)
	for i := range tooMany {
		tooMany[i] = solana.NewWallet().PublicKey()
	}
	_, err = w.client.DeclareWinners(context.Background(), w.host, w.room.RoomID, tooMany)
	require.Error(t, err)
}

func TestEndRoomPaysSharesAndCreatesMissingAccounts(t *testing.T) {
	w := newWorld(t)
	w.room.Status = room.RoomStatusActive
	w.putRoom(t)
	winner := solana.NewWallet().PublicKey()

	res, err := w.client.EndRoom(context.Background(), w.host, w.room.RoomID,
		[]solana.PublicKey{winner})
	require.NoError(t, err)
	require.Equal(t, types.OutcomeOk, res.Outcome.Kind)

	// 3,000,000 entry fees at host 5% / prize 25% / platform 20%, charity
	// takes the exact remainder.
	require.Equal(t, uint64(150_000), res.Shares.Host)
	require.Equal(t, uint64(750_000), res.Shares.Prize)
	require.Equal(t, uint64(600_000), res.Shares.Platform)
	require.Equal(t, uint64(1_500_000), res.Shares.Charity)
	require.Equal(t, w.room.TotalEntryFees, res.Shares.Total())

	// None of the four destination token accounts exist, so the settlement
	// transaction carries their creations ahead of the payout.
	require.Len(t, w.sub.lastTx.Message.Instructions, 5)
}

func TestEndRoomRoutesExtrasToCharity(t *testing.T) {
	w := newWorld(t)
	w.room.Status = room.RoomStatusActive
	w.room.TotalExtrasFees = 333
	w.putRoom(t)
	winner := solana.NewWallet().PublicKey()

	res, err := w.client.EndRoom(context.Background(), w.host, w.room.RoomID,
		[]solana.PublicKey{winner})
	require.NoError(t, err)
	require.Equal(t, uint64(1_500_333), res.Shares.Charity)
	require.Equal(t, uint64(150_000), res.Shares.Host)
}

func TestEndRoomUsesPreDeclaredWinners(t *testing.T) {
	w := newWorld(t)
	declared := solana.NewWallet().PublicKey()
	w.room.Status = room.RoomStatusActive
	w.room.Winners = []solana.PublicKey{declared}
	w.putRoom(t)

	res, err := w.client.EndRoom(context.Background(), w.host, w.room.RoomID, nil)
	require.NoError(t, err)
	require.Equal(t, types.OutcomeOk, res.Outcome.Kind)
}

func TestEndRoomRejectsConflictingWinnerLists(t *testing.T) {
	w := newWorld(t)
	w.room.Status = room.RoomStatusActive
	w.room.Winners = []solana.PublicKey{solana.NewWallet().PublicKey()}
	w.putRoom(t)

	_, err := w.client.EndRoom(context.Background(), w.host, w.room.RoomID,
		[]solana.PublicKey{solana.NewWallet().PublicKey()})
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Zero(t, w.sub.submitCalls)
}

func TestEndRoomRejectsEndedRoom(t *testing.T) {
	w := newWorld(t)
	w.room.Ended = true
	w.putRoom(t)

	_, err := w.client.EndRoom(context.Background(), w.host, w.room.RoomID,
		[]solana.PublicKey{solana.NewWallet().PublicKey()})
	require.ErrorIs(t, err, types.ErrRoomAlreadyEnded)
}

func TestEndRoomRejectsRoomThatNeverStarted(t *testing.T) {
	w := newWorld(t)
	// Fixture rooms start in Ready; settlement requires Active on-chain and
	// the client rejects it before simulation.

	_, err := w.client.EndRoom(context.Background(), w.host, w.room.RoomID,
		[]solana.PublicKey{solana.NewWallet().PublicKey()})
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Zero(t, w.sub.simCalls)
	require.Zero(t, w.sub.submitCalls)
}

func TestRecoverRoomRefundsProRata(t *testing.T) {
	w := newWorld(t)

	// Three join receipts back the room's player count.
	var entries []*room.PlayerEntry
	for i := 0; i < 3; i++ {
		entries = append(entries, &room.PlayerEntry{
			Player:  solana.NewWallet().PublicKey(),
			Room:    w.roomAddr,
			FeePaid: w.room.EntryFee,
		})
	}
	w.setPlayerEntries(t, entries)

	res, err := w.client.RecoverRoom(context.Background(), w.admin, w.room.Host, w.room.RoomID)
	require.NoError(t, err)
	require.Equal(t, types.OutcomeOk, res.Outcome.Kind)
	// 10% of 3,000,000 to the platform, the rest split three ways.
	require.Equal(t, uint64(300_000), res.PlatformFee)
	require.Equal(t, uint64(900_000), res.RefundPerPlayer)
	require.Equal(t, uint32(3), res.PlayerCount)
}

func TestRecoverRoomScanExcludesOtherRoomsEntries(t *testing.T) {
	w := newWorld(t)
	w.room.PlayerCount = 2
	w.room.TotalEntryFees = 2_000_000
	w.putRoom(t)

	// Two receipts for this room plus one for an unrelated room. The entry
	// scan matches on the Room key right after the discriminator and player
	// fields, so the unrelated receipt must never reach the refund math.
	entries := []*room.PlayerEntry{
		{Player: solana.NewWallet().PublicKey(), Room: w.roomAddr, FeePaid: w.room.EntryFee},
		{Player: solana.NewWallet().PublicKey(), Room: w.roomAddr, FeePaid: w.room.EntryFee},
		{Player: solana.NewWallet().PublicKey(), Room: solana.NewWallet().PublicKey(), FeePaid: w.room.EntryFee},
	}
	w.setPlayerEntries(t, entries)

	res, err := w.client.RecoverRoom(context.Background(), w.admin, w.room.Host, w.room.RoomID)
	require.NoError(t, err)
	require.Equal(t, uint32(2), res.PlayerCount)
	require.Equal(t, uint64(200_000), res.PlatformFee)
	require.Equal(t, uint64(900_000), res.RefundPerPlayer)

	// Platform plus two player token-account creations and the recover call;
	// a third creation would mean the unrelated receipt leaked through.
	require.Len(t, w.sub.lastTx.Message.Instructions, 4)
}

func TestRecoverRoomWithoutEntries(t *testing.T) {
	w := newWorld(t)

	_, err := w.client.RecoverRoom(context.Background(), w.admin, w.room.Host, w.room.RoomID)
	require.ErrorIs(t, err, types.ErrNoPlayersFound)
	require.Zero(t, w.sub.submitCalls)
}

func TestCleanupRoomRequiresEmptyVault(t *testing.T) {
	w := newWorld(t)
	w.room.Ended = true
	w.putRoom(t)

	vaultPDA, err := pda.RoomVault(w.roomAddr)
	require.NoError(t, err)
	w.reader.put(vaultPDA.Address, constants.TokenProgramID,
		splToken(w.mint, w.roomAddr, 500))

	_, err = w.client.CleanupRoom(context.Background(), w.host, w.room.Host, w.room.RoomID)
	require.ErrorIs(t, err, types.ErrVaultNotEmpty)
}

func TestCleanupRoomRequiresEndedRoom(t *testing.T) {
	w := newWorld(t)

	_, err := w.client.CleanupRoom(context.Background(), w.host, w.room.Host, w.room.RoomID)
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCloseJoiningIsOneWay(t *testing.T) {
	w := newWorld(t)

	out, err := w.client.CloseJoining(context.Background(), w.host, w.room.RoomID)
	require.NoError(t, err)
	require.Equal(t, types.OutcomeOk, out.Kind)

	w.room.JoiningClosed = true
	w.putRoom(t)
	_, err = w.client.CloseJoining(context.Background(), w.host, w.room.RoomID)
	require.ErrorIs(t, err, types.ErrJoiningClosed)
}

func TestSplitPreviewMatchesSettlement(t *testing.T) {
	w := newWorld(t)

	shares, err := w.client.SplitPreview(context.Background(), w.room.Host, w.room.RoomID)
	require.NoError(t, err)
	require.Equal(t, uint64(150_000), shares.Host)
	require.Equal(t, uint64(1_500_000), shares.Charity)
	require.Zero(t, w.sub.submitCalls)
}
