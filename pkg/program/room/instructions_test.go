package room_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
)

func TestBuildJoinRoomAccountOrder(t *testing.T) {
	accts := room.JoinRoomAccounts{
		Room:               testHost,
		PlayerEntry:        testPlayer,
		RoomVault:          testMint,
		PlayerTokenAccount: solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		GlobalConfig:       solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111"),
		Player:             solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111"),
		TokenProgram:       constants.TokenProgramID,
		SystemProgram:      constants.SystemProgramID,
	}
	ix, err := room.BuildJoinRoom(accts, room.JoinRoomArgs{RoomID: "r1", ExtrasAmount: 7})
	require.NoError(t, err)
	require.Equal(t, constants.RoomProgramID, ix.ProgramID())

	metas := ix.Accounts()
	require.Len(t, metas, 8)
	require.Equal(t, accts.Room, metas[0].PublicKey)
	require.True(t, metas[0].IsWritable)
	require.Equal(t, accts.PlayerEntry, metas[1].PublicKey)
	require.Equal(t, accts.Player, metas[5].PublicKey)
	require.True(t, metas[5].IsSigner)
	require.False(t, metas[6].IsWritable)

	data, err := ix.Data()
	require.NoError(t, err)
	// discriminator + borsh("r1") + u64 extras
	require.Equal(t, []byte{95, 232, 188, 81, 124, 130, 78, 139}, data[:8])
	require.Equal(t, []byte{2, 0, 0, 0, 'r', '1'}, data[8:14])
	require.Equal(t, []byte{7, 0, 0, 0, 0, 0, 0, 0}, data[14:22])
}

func TestBuildEndRoomAppendsWinnerAccounts(t *testing.T) {
	winners := []solana.PublicKey{testPlayer, testMint}
	ix, err := room.BuildEndRoom(room.EndRoomAccounts{
		Room:                 testHost,
		RoomVault:            testMint,
		GlobalConfig:         testPlayer,
		PlatformTokenAccount: testHost,
		CharityTokenAccount:  testMint,
		HostTokenAccount:     testPlayer,
		Host:                 testHost,
		TokenProgram:         constants.TokenProgramID,
	}, room.EndRoomArgs{RoomID: "r1", Winners: winners}, winners)
	require.NoError(t, err)

	metas := ix.Accounts()
	require.Len(t, metas, 10)
	require.Equal(t, winners[0], metas[8].PublicKey)
	require.Equal(t, winners[1], metas[9].PublicKey)
	require.True(t, metas[8].IsWritable)
	require.False(t, metas[8].IsSigner)
}

func TestBuildUpdateGlobalConfigOptionalEncoding(t *testing.T) {
	fee := uint16(250)
	ix, err := room.BuildUpdateGlobalConfig(room.UpdateGlobalConfigAccounts{
		GlobalConfig: testHost,
		Admin:        testPlayer,
	}, room.UpdateGlobalConfigArgs{PlatformFeeBps: &fee})
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{164, 84, 130, 189, 111, 58, 250, 200}, data[:8])
	// Six optional fields: absent wallet patches, present fee, absent rest.
	require.Equal(t, []byte{0, 0, 1, 250, 0, 0, 0, 0}, data[8:])
}

func TestInstructionDiscriminatorsDistinct(t *testing.T) {
	build := []func() (solana.Instruction, error){
		func() (solana.Instruction, error) {
			return room.BuildDeclareWinners(room.DeclareWinnersAccounts{Room: testHost, Host: testPlayer},
				room.DeclareWinnersArgs{RoomID: "r", Winners: []solana.PublicKey{testMint}})
		},
		func() (solana.Instruction, error) {
			return room.BuildCloseJoining(room.CloseJoiningAccounts{Room: testHost, Host: testPlayer},
				room.CloseJoiningArgs{RoomID: "r"})
		},
		func() (solana.Instruction, error) {
			return room.BuildSetEmergencyPause(room.SetEmergencyPauseAccounts{GlobalConfig: testHost, Admin: testPlayer},
				room.SetEmergencyPauseArgs{Paused: true})
		},
	}
	seen := map[[8]byte]bool{}
	for _, b := range build {
		ix, err := b()
		require.NoError(t, err)
		data, err := ix.Data()
		require.NoError(t, err)
		var disc [8]byte
		copy(disc[:], data[:8])
		require.False(t, seen[disc])
		seen[disc] = true
	}
}
