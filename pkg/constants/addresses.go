package constants

import "github.com/gagliardetto/solana-go"

// Well-known program IDs
var (
	// SPL Programs
	SystemProgramID          = solana.SystemProgramID
	TokenProgramID           = solana.TokenProgramID
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
	SysvarRentProgramID      = solana.SysVarRentPubkey

	// Fundraisely room program
	RoomProgramID = solana.MustPublicKeyFromBase58("8W83G9mSeoQ6Ljcz5QJHYPjH2vQgw94YeVCnpY6KFt7i")

	// Upgrade authority may update global config alongside the stored admin.
	UpgradeAuthority = solana.MustPublicKeyFromBase58("C1vn2MT7tZotZPjUJQDf9oo3dpZZ2tr7NxYLg8jTYgkw")
)

// PDA seeds. The token registry seed is versioned; v4 is canonical and v2 is
// kept only so tooling can detect accounts stranded on the old derivation.
const (
	SeedGlobalConfig        = "global-config"
	SeedTokenRegistry       = "token-registry-v4"
	SeedTokenRegistryLegacy = "token-registry-v2"
	SeedRoom                = "room"
	SeedRoomVault           = "room-vault"
	SeedPlayerEntry         = "player"
	SeedPrizeVault          = "prize-vault"
)

// Protocol limits enforced on-chain; the client pre-validates against the
// same values to reject bad inputs before any network call.
const (
	MaxRoomIDLen      = 32
	MaxCharityMemoLen = 28
	MaxPlayersLimit   = 10000
	MaxWinners        = 10
	TokenRegistryCap  = 50

	// Half of i64 max, leaves headroom for checked math on-chain.
	MaxSafeAmount uint64 = 9_223_372_036_854_775_807 / 2

	// Amounts below this are allowed but flagged as dust.
	DustThreshold uint64 = 1000

	// TotalBps is one hundred percent in basis points.
	TotalBps = 10000
)
