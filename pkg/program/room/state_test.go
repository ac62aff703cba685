package room_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
)

var (
	testHost   = solana.MustPublicKeyFromBase58("9yQ5nUUjoZHRMB5z5W4ybYYbM1DArUnzfX3PSDitgsBM")
	testPlayer = solana.MustPublicKeyFromBase58("4Nd1mYQFsVg2N3xG9EGTQk2TTYfFsKJbkHjxBcqcPK7V")
	testMint   = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

func sampleRoom() *room.Room {
	return &room.Room{
		Host:              testHost,
		RoomID:            "friday-bingo",
		FeeTokenMint:      testMint,
		CharityWallet:     testPlayer,
		CharityMemo:       "friday night",
		EntryFee:          5_000_000,
		MaxPlayers:        100,
		PlayerCount:       3,
		HostFeeBps:        500,
		PrizePoolBps:      2500,
		PrizeDistribution: []uint16{60, 30, 10},
		PrizeMode:         room.PrizeModePoolSplit,
		TotalEntryFees:    15_000_000,
		TotalExtrasFees:   1_000_000,
		Status:            room.RoomStatusReady,
		Bump:              254,
	}
}

func TestRoomRoundTrip(t *testing.T) {
	r := sampleRoom()
	data, err := room.EncodeRoom(r)
	require.NoError(t, err)

	decoded, err := room.DecodeRoom(data)
	require.NoError(t, err)
	require.Equal(t, r.Host, decoded.Host)
	require.Equal(t, r.RoomID, decoded.RoomID)
	require.Equal(t, r.FeeTokenMint, decoded.FeeTokenMint)
	require.Equal(t, r.CharityMemo, decoded.CharityMemo)
	require.Equal(t, r.EntryFee, decoded.EntryFee)
	require.Equal(t, r.MaxPlayers, decoded.MaxPlayers)
	require.Equal(t, r.PrizeDistribution, decoded.PrizeDistribution)
	require.Equal(t, r.Status, decoded.Status)
	require.Equal(t, r.Bump, decoded.Bump)
	require.Equal(t, uint64(16_000_000), decoded.TotalCollected())
}

func TestDecodeRejectsWrongDiscriminator(t *testing.T) {
	r := sampleRoom()
	data, err := room.EncodeRoom(r)
	require.NoError(t, err)

	_, err = room.DecodePlayerEntry(data)
	require.Error(t, err)

	_, err = room.DecodeRoom(data[:4])
	require.Error(t, err)
}

func TestPlayerEntryRoundTrip(t *testing.T) {
	e := &room.PlayerEntry{
		Player:     testPlayer,
		Room:       testHost,
		FeePaid:    5_000_000,
		ExtrasPaid: 250_000,
		JoinedAt:   1756400000,
		Bump:       253,
	}
	data, err := room.EncodePlayerEntry(e)
	require.NoError(t, err)
	decoded, err := room.DecodePlayerEntry(data)
	require.NoError(t, err)
	require.Equal(t, e, decoded)
}

// Entry scans memcmp-match the Room key at byte 40; the encoding must keep
// the discriminator, player, and room fields at those fixed offsets.
func TestPlayerEntryScanOffsets(t *testing.T) {
	e := &room.PlayerEntry{
		Player:  testPlayer,
		Room:    testHost,
		FeePaid: 5_000_000,
	}
	data, err := room.EncodePlayerEntry(e)
	require.NoError(t, err)

	require.Equal(t, room.PlayerEntryDiscriminator[:], data[:8])
	require.Equal(t, testPlayer[:], data[8:40])
	require.Equal(t, testHost[:], data[40:72])
}

func TestTokenRegistryContains(t *testing.T) {
	reg := &room.TokenRegistry{
		Admin:          testHost,
		ApprovedTokens: []solana.PublicKey{testMint},
	}
	require.True(t, reg.Contains(testMint))
	require.False(t, reg.Contains(testPlayer))
}

func TestRoomIsFull(t *testing.T) {
	r := sampleRoom()
	require.False(t, r.IsFull())
	r.PlayerCount = r.MaxPlayers
	require.True(t, r.IsFull())
}
