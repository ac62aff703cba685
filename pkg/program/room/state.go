// Package room contains the on-chain interface of the Fundraisely room
// program: account state mirrors, instruction builders, and the program
// error catalog. Layouts follow Anchor conventions (8-byte account
// discriminator, borsh field encoding).
package room

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Account discriminators (sha256("account:<Name>")[..8]).
var (
	GlobalConfigDiscriminator  = [8]byte{149, 8, 156, 202, 160, 252, 176, 217}
	TokenRegistryDiscriminator = [8]byte{227, 255, 152, 118, 84, 200, 145, 120}
	RoomDiscriminator          = [8]byte{156, 199, 67, 27, 222, 23, 185, 94}
	PlayerEntryDiscriminator   = [8]byte{158, 6, 39, 104, 234, 4, 153, 255}
)

// RoomStatus tracks the room lifecycle.
type RoomStatus uint8

const (
	RoomStatusReady RoomStatus = iota
	RoomStatusActive
	RoomStatusEnded
)

func (s RoomStatus) String() string {
	switch s {
	case RoomStatusReady:
		return "ready"
	case RoomStatusActive:
		return "active"
	case RoomStatusEnded:
		return "ended"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// PrizeMode selects pool-split or pre-deposited-asset prizes.
type PrizeMode uint8

const (
	PrizeModePoolSplit PrizeMode = iota
	PrizeModeAssetBased
)

// GlobalConfig is the platform-wide singleton configuration.
type GlobalConfig struct {
	Admin           solana.PublicKey
	PlatformWallet  solana.PublicKey
	CharityWallet   solana.PublicKey
	PlatformFeeBps  uint16
	MaxHostFeeBps   uint16
	MaxPrizePoolBps uint16
	MinCharityBps   uint16
	Paused          bool
	Bump            uint8
}

// TokenRegistry is the allow-list of approved fee token mints (capacity 50).
type TokenRegistry struct {
	Admin          solana.PublicKey
	ApprovedTokens []solana.PublicKey
	Bump           uint8
}

// Contains reports whether a mint is already approved.
func (r *TokenRegistry) Contains(mint solana.PublicKey) bool {
	for _, t := range r.ApprovedTokens {
		if t.Equals(mint) {
			return true
		}
	}
	return false
}

// PrizeAsset is one pre-deposited prize in an asset-based room.
type PrizeAsset struct {
	Mint      solana.PublicKey
	Amount    uint64
	Deposited bool
}

// Room is one hosted event's escrow and payout rules.
type Room struct {
	Host              solana.PublicKey
	RoomID            string
	FeeTokenMint      solana.PublicKey
	CharityWallet     solana.PublicKey
	CharityMemo       string
	EntryFee          uint64
	MaxPlayers        uint32
	PlayerCount       uint32
	HostFeeBps        uint16
	PrizePoolBps      uint16
	PrizeDistribution []uint16
	PrizeMode         PrizeMode
	PrizeAssets       []PrizeAsset
	TotalEntryFees    uint64
	TotalExtrasFees   uint64
	Winners           []solana.PublicKey
	Status            RoomStatus
	Ended             bool
	JoiningClosed     bool
	ExpirationSlot    uint64
	Bump              uint8
}

// TotalCollected is the full amount escrowed in the vault.
func (r *Room) TotalCollected() uint64 {
	return r.TotalEntryFees + r.TotalExtrasFees
}

// IsFull reports whether the room reached its player cap.
func (r *Room) IsFull() bool {
	return r.MaxPlayers > 0 && r.PlayerCount >= r.MaxPlayers
}

// PlayerEntry is the append-only join receipt for one (room, player) pair.
// Its existence on-chain is the proof a player has paid.
type PlayerEntry struct {
	Player     solana.PublicKey
	Room       solana.PublicKey
	FeePaid    uint64
	ExtrasPaid uint64
	JoinedAt   int64
	Bump       uint8
}

func decodeAccount(data []byte, discriminator [8]byte, out interface{}) error {
	if len(data) < 8 {
		return fmt.Errorf("account data too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], discriminator[:]) {
		return fmt.Errorf("account discriminator mismatch")
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(out); err != nil {
		return fmt.Errorf("decode account: %w", err)
	}
	return nil
}

// DecodeGlobalConfig parses a GlobalConfig account.
func DecodeGlobalConfig(data []byte) (*GlobalConfig, error) {
	var cfg GlobalConfig
	if err := decodeAccount(data, GlobalConfigDiscriminator, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DecodeTokenRegistry parses a TokenRegistry account.
func DecodeTokenRegistry(data []byte) (*TokenRegistry, error) {
	var reg TokenRegistry
	if err := decodeAccount(data, TokenRegistryDiscriminator, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// DecodeRoom parses a Room account.
func DecodeRoom(data []byte) (*Room, error) {
	var r Room
	if err := decodeAccount(data, RoomDiscriminator, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DecodePlayerEntry parses a PlayerEntry account.
func DecodePlayerEntry(data []byte) (*PlayerEntry, error) {
	var e PlayerEntry
	if err := decodeAccount(data, PlayerEntryDiscriminator, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func encodeAccount(discriminator [8]byte, in interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(discriminator[:])
	if err := bin.NewBorshEncoder(&buf).Encode(in); err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeRoom serializes a Room with its discriminator. Used by tests and
// local simulation fixtures; production state is written only on-chain.
func EncodeRoom(r *Room) ([]byte, error) {
	return encodeAccount(RoomDiscriminator, r)
}

// EncodeGlobalConfig serializes a GlobalConfig with its discriminator.
func EncodeGlobalConfig(cfg *GlobalConfig) ([]byte, error) {
	return encodeAccount(GlobalConfigDiscriminator, cfg)
}

// EncodeTokenRegistry serializes a TokenRegistry with its discriminator.
func EncodeTokenRegistry(reg *TokenRegistry) ([]byte, error) {
	return encodeAccount(TokenRegistryDiscriminator, reg)
}

// EncodePlayerEntry serializes a PlayerEntry with its discriminator.
func EncodePlayerEntry(e *PlayerEntry) ([]byte, error) {
	return encodeAccount(PlayerEntryDiscriminator, e)
}
