// Package pda centralizes program-derived address computation for the room
// program. Every other package goes through these functions; deriving the
// same entity from two call sites with hand-built seeds is how the v2/v4
// registry mismatch happened, and is the thing this package exists to prevent.
package pda

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

// RegistryVersion identifies which token registry seed tag an address was
// derived from.
type RegistryVersion string

const (
	RegistryV2 RegistryVersion = "v2"
	RegistryV4 RegistryVersion = "v4"
	// RegistryVersionUnknown means neither derivation is initialized on-chain.
	RegistryVersionUnknown RegistryVersion = "unknown"
)

// Derived pairs an address with its bump seed.
type Derived struct {
	Address solana.PublicKey
	Bump    uint8
}

func find(seeds [][]byte) (Derived, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, constants.RoomProgramID)
	if err != nil {
		return Derived{}, fmt.Errorf("derive program address: %w", err)
	}
	return Derived{Address: addr, Bump: bump}, nil
}

// GlobalConfig derives the singleton global configuration account.
func GlobalConfig() (Derived, error) {
	return find([][]byte{[]byte(constants.SeedGlobalConfig)})
}

// TokenRegistry derives the canonical (v4) token registry account.
func TokenRegistry() (Derived, error) {
	return find([][]byte{[]byte(constants.SeedTokenRegistry)})
}

// LegacyTokenRegistry derives the retired v2 registry address. Only used by
// DetectRegistryVersion to report accounts stranded on the old seed.
func LegacyTokenRegistry() (Derived, error) {
	return find([][]byte{[]byte(constants.SeedTokenRegistryLegacy)})
}

// Room derives the room account for a (host, roomID) pair.
func Room(host solana.PublicKey, roomID string) (Derived, error) {
	if err := types.ValidateRoomID(roomID); err != nil {
		return Derived{}, err
	}
	return find([][]byte{
		[]byte(constants.SeedRoom),
		host[:],
		[]byte(roomID),
	})
}

// RoomVault derives the escrow token account for a room.
func RoomVault(room solana.PublicKey) (Derived, error) {
	return find([][]byte{
		[]byte(constants.SeedRoomVault),
		room[:],
	})
}

// PlayerEntry derives the per-(room, player) entry account. Creating this
// account twice fails on-chain, which is the duplicate-join guard.
func PlayerEntry(room, player solana.PublicKey) (Derived, error) {
	return find([][]byte{
		[]byte(constants.SeedPlayerEntry),
		room[:],
		player[:],
	})
}

// PrizeVault derives the vault holding a pre-deposited prize asset.
func PrizeVault(room solana.PublicKey, prizeIndex uint8) (Derived, error) {
	return find([][]byte{
		[]byte(constants.SeedPrizeVault),
		room[:],
		{prizeIndex},
	})
}

// AssociatedTokenAccount derives the canonical token-holding account for an
// (owner, mint) pair under the associated token program.
func AssociatedTokenAccount(owner, mint solana.PublicKey) (Derived, error) {
	addr, bump, err := solana.FindProgramAddress([][]byte{
		owner[:],
		constants.TokenProgramID[:],
		mint[:],
	}, constants.AssociatedTokenProgramID)
	if err != nil {
		return Derived{}, fmt.Errorf("derive associated token account: %w", err)
	}
	return Derived{Address: addr, Bump: bump}, nil
}
