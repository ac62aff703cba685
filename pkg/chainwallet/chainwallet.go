// Package chainwallet normalizes three wallet/account models (EVM account,
// Solana keypair, Stellar account) behind one connect/disconnect/address/
// network-check contract. Business logic never branches on the family;
// the variant is chosen once at construction and the cross-family guard
// distinguishes "wrong family" (disconnect and reconnect another wallet)
// from "wrong network" (switch network in the same wallet).
package chainwallet

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

// Family tags the chain family a wallet belongs to.
type Family string

const (
	FamilyEVM     Family = "evm"
	FamilySolana  Family = "solana"
	FamilyStellar Family = "stellar"
)

// ConnectFunc performs the family-specific connection handshake and returns
// the connected address and the network the wallet is actually on. It is
// user-interaction-bound: the wait is unbounded unless the context says
// otherwise, and cancelling the context abandons the connect with no side
// effects.
type ConnectFunc func(ctx context.Context) (address, network string, err error)

// Adapter is the uniform wallet contract.
type Adapter interface {
	Connect(ctx context.Context) error
	Disconnect()
	// Address returns the connected identity, or ok=false when disconnected.
	Address() (string, bool)
	Family() Family
	CurrentNetwork() string
	ExpectedNetwork() string
	IsOnCorrectNetwork() bool
}

// Config describes one adapter instance.
type Config struct {
	Family          Family
	ExpectedNetwork string
	Connect         ConnectFunc
}

// New constructs the adapter variant for the configured family.
func New(cfg Config) (Adapter, error) {
	if cfg.Connect == nil {
		return nil, types.NewValidationError("connect", "connect func is required")
	}
	base := &state{cfg: cfg}
	switch cfg.Family {
	case FamilyEVM:
		return &evmAdapter{state: base}, nil
	case FamilySolana:
		return &solanaAdapter{state: base}, nil
	case FamilyStellar:
		return &stellarAdapter{state: base}, nil
	default:
		return nil, types.NewValidationError("family", "unknown chain family")
	}
}

// state carries the shared connect/disconnect bookkeeping. Address
// validation is the only per-family behavior.
type state struct {
	cfg Config

	mu        sync.RWMutex
	connected bool
	address   string
	network   string
}

func (s *state) connect(ctx context.Context, validate func(string) error) error {
	addr, network, err := s.cfg.Connect(ctx)
	if err != nil {
		return err
	}
	if err := validate(addr); err != nil {
		return err
	}
	s.mu.Lock()
	s.connected = true
	s.address = addr
	s.network = network
	s.mu.Unlock()
	return nil
}

func (s *state) Disconnect() {
	s.mu.Lock()
	s.connected = false
	s.address = ""
	s.network = ""
	s.mu.Unlock()
}

func (s *state) Address() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address, s.connected
}

func (s *state) Family() Family { return s.cfg.Family }

func (s *state) CurrentNetwork() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network
}

func (s *state) ExpectedNetwork() string { return s.cfg.ExpectedNetwork }

func (s *state) IsOnCorrectNetwork() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected && s.network == s.cfg.ExpectedNetwork
}

type evmAdapter struct{ *state }

func (a *evmAdapter) Connect(ctx context.Context) error {
	return a.connect(ctx, validateEVMAddress)
}

func validateEVMAddress(addr string) error {
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		return types.NewValidationError("address", "not a 0x-prefixed 20-byte hex address")
	}
	if _, err := hex.DecodeString(addr[2:]); err != nil {
		return types.NewValidationError("address", "invalid hex in address")
	}
	return nil
}

type solanaAdapter struct{ *state }

func (a *solanaAdapter) Connect(ctx context.Context) error {
	return a.connect(ctx, validateSolanaAddress)
}

func validateSolanaAddress(addr string) error {
	if _, err := solana.PublicKeyFromBase58(addr); err != nil {
		return types.NewValidationError("address", "invalid base58 public key")
	}
	return nil
}

type stellarAdapter struct{ *state }

func (a *stellarAdapter) Connect(ctx context.Context) error {
	return a.connect(ctx, validateStellarAddress)
}

func validateStellarAddress(addr string) error {
	// Stellar account strkeys are 56-char base32 starting with G.
	if len(addr) != 56 || addr[0] != 'G' {
		return types.NewValidationError("address", "not a Stellar account strkey")
	}
	const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	for _, r := range addr {
		if !strings.ContainsRune(base32Alphabet, r) {
			return types.NewValidationError("address", "invalid base32 in strkey")
		}
	}
	return nil
}

// CheckCompatibility verifies a connected wallet can join a room on the
// required family and network. The three failure modes are distinct so the
// caller can render the correct remediation.
func CheckCompatibility(a Adapter, requiredFamily Family, requiredNetwork string) error {
	if a == nil {
		return types.ErrNotConnected
	}
	if _, ok := a.Address(); !ok {
		return types.ErrNotConnected
	}
	if a.Family() != requiredFamily {
		return types.ErrWrongChainFamily
	}
	if a.CurrentNetwork() != requiredNetwork {
		return types.ErrWrongNetwork
	}
	return nil
}
