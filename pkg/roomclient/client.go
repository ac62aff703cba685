// Package roomclient is the high-level client for the Fundraisely room
// program: room lifecycle, player joins, settlement, and admin operations.
// Every operation follows the same per-call sequence: local validation and
// account resolution first (turning guaranteed on-chain reverts into fast
// local rejections), then simulate, sign, submit, confirm.
package roomclient

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/pda"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/submitter"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/txbuilder"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/wallet"
)

// ChainReader is the read-only ledger access the client needs. *rpc.Client
// satisfies it; tests use an in-memory fake.
type ChainReader interface {
	GetAccountInfo(ctx context.Context, addr solana.PublicKey) (*solanarpc.GetAccountInfoResult, error)
	GetMultipleAccounts(ctx context.Context, addrs ...solana.PublicKey) (map[string]*solanarpc.Account, error)
	GetProgramAccounts(ctx context.Context, program solana.PublicKey, filters []solanarpc.RPCFilter) (solanarpc.GetProgramAccountsResult, error)
	GetLatestBlockhash(ctx context.Context) (*solanarpc.GetLatestBlockhashResult, error)
}

// TxSubmitter is the simulate/submit surface. *submitter.Submitter
// satisfies it.
type TxSubmitter interface {
	Simulate(ctx context.Context, tx *solana.Transaction) (submitter.SimulationResult, error)
	Submit(ctx context.Context, tx *solana.Transaction, opts submitter.SubmitOptions) types.Outcome
}

// phase labels the per-call state machine for logging. Each operation walks
// idle -> simulating -> submitting -> confirming -> done|failed; the
// submitter owns the submitting/confirming transitions internally.
type phase string

const (
	phaseSimulating phase = "simulating"
	phaseSubmitting phase = "submitting"
	phaseDone       phase = "done"
	phaseFailed     phase = "failed"
)

// Client executes room program operations.
type Client struct {
	reader  ChainReader
	sub     TxSubmitter
	builder *txbuilder.Builder
	log     zerolog.Logger
	confirm submitter.ConfirmationLevel
}

// Option configures a Client.
type Option func(*Client)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithConfirmationLevel sets the confirmation depth for submissions.
func WithConfirmationLevel(level submitter.ConfirmationLevel) Option {
	return func(c *Client) { c.confirm = level }
}

// New constructs a Client.
func New(reader ChainReader, sub TxSubmitter, opts ...Option) (*Client, error) {
	if reader == nil {
		return nil, types.ErrNilRPC
	}
	if sub == nil {
		return nil, types.NewValidationError("submitter", "cannot be nil")
	}
	c := &Client{
		reader:  reader,
		sub:     sub,
		log:     zerolog.Nop(),
		confirm: submitter.ConfirmationConfirmed,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.builder = txbuilder.NewBuilder(txbuilder.BlockhashFunc(func(ctx context.Context) (solana.Hash, error) {
		res, err := reader.GetLatestBlockhash(ctx)
		if err != nil {
			return solana.Hash{}, err
		}
		return res.Value.Blockhash, nil
	}))
	return c, nil
}

// execute runs the simulate-sign-submit pipeline for one operation. The
// simulation gate is absolute: a failed simulation short-circuits before
// any signature is requested from the wallet.
func (c *Client) execute(ctx context.Context, op string, signer wallet.Signer, instrs []solana.Instruction, recheck submitter.StateRecheck) (types.Outcome, error) {
	if signer == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	log := c.log.With().Str("op", op).Logger()

	tx, err := c.builder.Build(ctx, signer.PublicKey(), instrs...)
	if err != nil {
		return types.Outcome{}, err
	}

	log.Debug().Str("phase", string(phaseSimulating)).Msg("simulating transaction")
	sim, err := c.sub.Simulate(ctx, tx)
	if err != nil {
		return types.Outcome{}, err
	}
	if !sim.Success {
		log.Debug().Str("phase", string(phaseFailed)).Err(sim.Err).Msg("simulation rejected transaction")
		return types.Outcome{}, sim.Err
	}

	if err := txbuilder.Sign(ctx, tx, signer); err != nil {
		return types.Outcome{}, err
	}

	log.Debug().Str("phase", string(phaseSubmitting)).Uint64("computeUnits", sim.ComputeUnits).Msg("submitting transaction")
	outcome := c.sub.Submit(ctx, tx, submitter.SubmitOptions{
		Confirmation: c.confirm,
		Recheck:      recheck,
	})
	if outcome.Kind == types.OutcomeFailed {
		log.Debug().Str("phase", string(phaseFailed)).Err(outcome.Reason).Msg("submission failed")
		return outcome, outcome.Reason
	}
	log.Debug().Str("phase", string(phaseDone)).Str("outcome", outcome.Kind.String()).Stringer("signature", outcome.Signature).Msg("operation complete")
	return outcome, nil
}

// accountExists reports whether an account is initialized, classifying
// not-found as the benign false case and propagating every other failure.
func (c *Client) accountExists(ctx context.Context, addr solana.PublicKey) (bool, error) {
	res, err := c.reader.GetAccountInfo(ctx, addr)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return false, nil
		}
		return false, types.RPCError{Op: "getAccountInfo", Err: err}
	}
	return res != nil && res.Value != nil, nil
}

func (c *Client) accountData(ctx context.Context, addr solana.PublicKey) ([]byte, error) {
	res, err := c.reader.GetAccountInfo(ctx, addr)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, types.ErrAccountNotFound
		}
		return nil, types.RPCError{Op: "getAccountInfo", Err: err}
	}
	if res == nil || res.Value == nil || res.Value.Data == nil {
		return nil, types.ErrAccountNotFound
	}
	return res.Value.Data.GetBinary(), nil
}

// GlobalConfig fetches and decodes the platform configuration singleton.
func (c *Client) GlobalConfig(ctx context.Context) (*room.GlobalConfig, error) {
	derived, err := pda.GlobalConfig()
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, derived.Address)
	if err != nil {
		if errors.Is(err, types.ErrAccountNotFound) {
			return nil, types.ErrGlobalConfigNotFound
		}
		return nil, err
	}
	return room.DecodeGlobalConfig(data)
}

// TokenRegistry fetches and decodes the approved-token registry, reporting
// a registry stranded on the legacy derivation as a distinct condition.
func (c *Client) TokenRegistry(ctx context.Context) (*room.TokenRegistry, error) {
	version, derived, err := pda.DetectRegistryVersion(ctx, c.accountExists)
	if err != nil {
		return nil, err
	}
	switch version {
	case pda.RegistryV4:
		// canonical
	case pda.RegistryV2:
		c.log.Warn().Str("registryVersion", string(version)).Msg("token registry found on legacy derivation; migration required")
	default:
		return nil, types.ErrRegistryNotFound
	}
	data, err := c.accountData(ctx, derived.Address)
	if err != nil {
		return nil, err
	}
	return room.DecodeTokenRegistry(data)
}

// Room fetches and decodes a room by its derived address.
func (c *Client) Room(ctx context.Context, host solana.PublicKey, roomID string) (*room.Room, solana.PublicKey, error) {
	derived, err := pda.Room(host, roomID)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	data, err := c.accountData(ctx, derived.Address)
	if err != nil {
		if errors.Is(err, types.ErrAccountNotFound) {
			return nil, solana.PublicKey{}, types.ErrRoomNotFound
		}
		return nil, solana.PublicKey{}, err
	}
	r, err := room.DecodeRoom(data)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	return r, derived.Address, nil
}

// findRoomByID scans all room accounts for a matching room id. This is the
// O(n) degraded-mode fallback for callers that do not know the host; pass
// the host explicitly wherever it is known.
func (c *Client) findRoomByID(ctx context.Context, roomID string) (*room.Room, solana.PublicKey, error) {
	c.log.Warn().Str("roomID", roomID).Msg("falling back to full room scan; prefer passing the host explicitly")

	filters := []solanarpc.RPCFilter{
		{Memcmp: &solanarpc.RPCFilterMemcmp{
			Offset: 0,
			Bytes:  solana.Base58(room.RoomDiscriminator[:]),
		}},
	}
	accounts, err := c.reader.GetProgramAccounts(ctx, constants.RoomProgramID, filters)
	if err != nil {
		return nil, solana.PublicKey{}, types.RPCError{Op: "getProgramAccounts", Err: err}
	}
	for _, acc := range accounts {
		if acc == nil || acc.Account == nil || acc.Account.Data == nil {
			continue
		}
		r, err := room.DecodeRoom(acc.Account.Data.GetBinary())
		if err != nil {
			continue // skip undecodable accounts, the scan is best-effort
		}
		if r.RoomID == roomID {
			return r, acc.Pubkey, nil
		}
	}
	return nil, solana.PublicKey{}, types.ErrRoomNotFound
}

// playerEntries enumerates all join receipts for a room in one scan.
func (c *Client) playerEntries(ctx context.Context, roomAddr solana.PublicKey) ([]*room.PlayerEntry, error) {
	filters := []solanarpc.RPCFilter{
		{Memcmp: &solanarpc.RPCFilterMemcmp{
			Offset: 0,
			Bytes:  solana.Base58(room.PlayerEntryDiscriminator[:]),
		}},
		{Memcmp: &solanarpc.RPCFilterMemcmp{
			Offset: 8 + 32, // Room field follows the discriminator and player key
			Bytes:  solana.Base58(roomAddr[:]),
		}},
	}
	accounts, err := c.reader.GetProgramAccounts(ctx, constants.RoomProgramID, filters)
	if err != nil {
		return nil, types.RPCError{Op: "getProgramAccounts", Err: err}
	}
	entries := make([]*room.PlayerEntry, 0, len(accounts))
	for _, acc := range accounts {
		if acc == nil || acc.Account == nil || acc.Account.Data == nil {
			continue
		}
		entry, err := room.DecodePlayerEntry(acc.Account.Data.GetBinary())
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// requireNotPaused rejects room mutations while the emergency pause is set.
func requireNotPaused(cfg *room.GlobalConfig) error {
	if cfg.Paused {
		return types.ErrEmergencyPaused
	}
	return nil
}
