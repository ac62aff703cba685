package roomclient

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/pda"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/tokenaccount"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/wallet"
)

// CreateRoomParams configures a new pool-prize room.
type CreateRoomParams struct {
	RoomID         string
	FeeTokenMint   solana.PublicKey
	CharityWallet  solana.PublicKey
	CharityMemo    string
	EntryFee       uint64
	MaxPlayers     uint32
	HostFeeBps     uint16
	PrizePoolBps   uint16
	FirstPlacePct  uint16
	SecondPlacePct *uint16
	ThirdPlacePct  *uint16
	// ExpirationSlots is the optional slot horizon after which the room
	// becomes recoverable by the admin.
	ExpirationSlots *uint64
}

// CreateRoomResult reports a room creation.
type CreateRoomResult struct {
	Outcome     types.Outcome
	RoomAddress solana.PublicKey
}

func (c *Client) validateCreateParams(params CreateRoomParams, cfg *room.GlobalConfig) error {
	if err := types.ValidateRoomID(params.RoomID); err != nil {
		return err
	}
	if err := types.ValidateCharityMemo(params.CharityMemo); err != nil {
		return err
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"feeTokenMint":  params.FeeTokenMint,
		"charityWallet": params.CharityWallet,
	}); err != nil {
		return err
	}
	if err := types.ValidateAmount("entryFee", params.EntryFee, true); err != nil {
		return err
	}
	// The program allows dust-level fees but flags them; mirror the warning.
	if params.EntryFee > 0 && params.EntryFee < constants.DustThreshold {
		c.log.Warn().Uint64("entryFee", params.EntryFee).Msg("entry fee below dust threshold")
	}
	if params.MaxPlayers == 0 || params.MaxPlayers > constants.MaxPlayersLimit {
		return types.NewValidationError("maxPlayers", fmt.Sprintf("must be 1-%d", constants.MaxPlayersLimit))
	}
	if params.HostFeeBps > cfg.MaxHostFeeBps {
		return types.NewValidationError("hostFeeBps", fmt.Sprintf("exceeds platform cap of %d", cfg.MaxHostFeeBps))
	}
	if params.PrizePoolBps > cfg.MaxPrizePoolBps {
		return types.NewValidationError("prizePoolBps", fmt.Sprintf("exceeds platform cap of %d", cfg.MaxPrizePoolBps))
	}
	return nil
}

// CreateRoom creates a pool-prize room hosted by the signer. The fee token
// must already be in the approved registry; the derived room address must be
// vacant.
func (c *Client) CreateRoom(ctx context.Context, host wallet.Signer, params CreateRoomParams) (CreateRoomResult, error) {
	if host == nil {
		return CreateRoomResult{}, types.ErrNilSigner
	}

	cfg, err := c.GlobalConfig(ctx)
	if err != nil {
		return CreateRoomResult{}, err
	}
	if err := requireNotPaused(cfg); err != nil {
		return CreateRoomResult{}, err
	}
	if err := c.validateCreateParams(params, cfg); err != nil {
		return CreateRoomResult{}, err
	}

	registry, err := c.TokenRegistry(ctx)
	if err != nil {
		return CreateRoomResult{}, err
	}
	if !registry.Contains(params.FeeTokenMint) {
		return CreateRoomResult{}, types.ErrTokenNotApproved
	}

	roomPDA, err := pda.Room(host.PublicKey(), params.RoomID)
	if err != nil {
		return CreateRoomResult{}, err
	}
	exists, err := c.accountExists(ctx, roomPDA.Address)
	if err != nil {
		return CreateRoomResult{}, err
	}
	if exists {
		return CreateRoomResult{}, types.ErrRoomAlreadyExists
	}

	vaultPDA, err := pda.RoomVault(roomPDA.Address)
	if err != nil {
		return CreateRoomResult{}, err
	}
	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return CreateRoomResult{}, err
	}
	registryPDA, err := pda.TokenRegistry()
	if err != nil {
		return CreateRoomResult{}, err
	}

	ix, err := room.BuildInitPoolRoom(room.InitPoolRoomAccounts{
		Room:          roomPDA.Address,
		RoomVault:     vaultPDA.Address,
		FeeTokenMint:  params.FeeTokenMint,
		TokenRegistry: registryPDA.Address,
		GlobalConfig:  configPDA.Address,
		Host:          host.PublicKey(),
		SystemProgram: constants.SystemProgramID,
		TokenProgram:  constants.TokenProgramID,
		Rent:          constants.SysvarRentProgramID,
	}, room.InitPoolRoomArgs{
		RoomID:          params.RoomID,
		CharityWallet:   params.CharityWallet,
		EntryFee:        params.EntryFee,
		MaxPlayers:      params.MaxPlayers,
		HostFeeBps:      params.HostFeeBps,
		PrizePoolBps:    params.PrizePoolBps,
		FirstPlacePct:   params.FirstPlacePct,
		SecondPlacePct:  params.SecondPlacePct,
		ThirdPlacePct:   params.ThirdPlacePct,
		CharityMemo:     params.CharityMemo,
		ExpirationSlots: params.ExpirationSlots,
	})
	if err != nil {
		return CreateRoomResult{}, err
	}

	outcome, err := c.execute(ctx, "create_room", host, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		return c.accountExists(ctx, roomPDA.Address)
	})
	if err != nil {
		return CreateRoomResult{}, err
	}
	return CreateRoomResult{Outcome: outcome, RoomAddress: roomPDA.Address}, nil
}

// CreateAssetRoomParams configures a room whose prizes are pre-deposited
// token amounts instead of a share of the entry pool.
type CreateAssetRoomParams struct {
	RoomID          string
	FeeTokenMint    solana.PublicKey
	CharityWallet   solana.PublicKey
	CharityMemo     string
	EntryFee        uint64
	MaxPlayers      uint32
	HostFeeBps      uint16
	ExpirationSlots *uint64
	Prize1Mint      solana.PublicKey
	Prize1Amount    uint64
	Prize2Mint      *solana.PublicKey
	Prize2Amount    *uint64
	Prize3Mint      *solana.PublicKey
	Prize3Amount    *uint64
}

// CreateAssetRoom creates an asset-prize room. Prizes are declared here and
// deposited afterwards with AddPrizeAsset, one per prize slot.
func (c *Client) CreateAssetRoom(ctx context.Context, host wallet.Signer, params CreateAssetRoomParams) (CreateRoomResult, error) {
	if host == nil {
		return CreateRoomResult{}, types.ErrNilSigner
	}

	cfg, err := c.GlobalConfig(ctx)
	if err != nil {
		return CreateRoomResult{}, err
	}
	if err := requireNotPaused(cfg); err != nil {
		return CreateRoomResult{}, err
	}
	if err := c.validateCreateParams(CreateRoomParams{
		RoomID:        params.RoomID,
		FeeTokenMint:  params.FeeTokenMint,
		CharityWallet: params.CharityWallet,
		CharityMemo:   params.CharityMemo,
		EntryFee:      params.EntryFee,
		MaxPlayers:    params.MaxPlayers,
		HostFeeBps:    params.HostFeeBps,
	}, cfg); err != nil {
		return CreateRoomResult{}, err
	}
	if err := types.ValidatePublicKey("prize1Mint", params.Prize1Mint); err != nil {
		return CreateRoomResult{}, err
	}
	if err := types.ValidateAmount("prize1Amount", params.Prize1Amount, false); err != nil {
		return CreateRoomResult{}, err
	}

	registry, err := c.TokenRegistry(ctx)
	if err != nil {
		return CreateRoomResult{}, err
	}
	if !registry.Contains(params.FeeTokenMint) {
		return CreateRoomResult{}, types.ErrTokenNotApproved
	}

	roomPDA, err := pda.Room(host.PublicKey(), params.RoomID)
	if err != nil {
		return CreateRoomResult{}, err
	}
	exists, err := c.accountExists(ctx, roomPDA.Address)
	if err != nil {
		return CreateRoomResult{}, err
	}
	if exists {
		return CreateRoomResult{}, types.ErrRoomAlreadyExists
	}

	vaultPDA, err := pda.RoomVault(roomPDA.Address)
	if err != nil {
		return CreateRoomResult{}, err
	}
	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return CreateRoomResult{}, err
	}
	registryPDA, err := pda.TokenRegistry()
	if err != nil {
		return CreateRoomResult{}, err
	}

	ix, err := room.BuildInitAssetRoom(room.InitPoolRoomAccounts{
		Room:          roomPDA.Address,
		RoomVault:     vaultPDA.Address,
		FeeTokenMint:  params.FeeTokenMint,
		TokenRegistry: registryPDA.Address,
		GlobalConfig:  configPDA.Address,
		Host:          host.PublicKey(),
		SystemProgram: constants.SystemProgramID,
		TokenProgram:  constants.TokenProgramID,
		Rent:          constants.SysvarRentProgramID,
	}, room.InitAssetRoomArgs{
		RoomID:          params.RoomID,
		CharityWallet:   params.CharityWallet,
		EntryFee:        params.EntryFee,
		MaxPlayers:      params.MaxPlayers,
		HostFeeBps:      params.HostFeeBps,
		CharityMemo:     params.CharityMemo,
		ExpirationSlots: params.ExpirationSlots,
		Prize1Mint:      params.Prize1Mint,
		Prize1Amount:    params.Prize1Amount,
		Prize2Mint:      params.Prize2Mint,
		Prize2Amount:    params.Prize2Amount,
		Prize3Mint:      params.Prize3Mint,
		Prize3Amount:    params.Prize3Amount,
	})
	if err != nil {
		return CreateRoomResult{}, err
	}

	outcome, err := c.execute(ctx, "create_asset_room", host, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		return c.accountExists(ctx, roomPDA.Address)
	})
	if err != nil {
		return CreateRoomResult{}, err
	}
	return CreateRoomResult{Outcome: outcome, RoomAddress: roomPDA.Address}, nil
}

// AddPrizeAsset deposits one declared prize into its prize vault. The host's
// token account for the prize mint must hold at least the declared amount.
func (c *Client) AddPrizeAsset(ctx context.Context, host wallet.Signer, roomID string, prizeIndex uint8) (types.Outcome, error) {
	if host == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	r, roomAddr, err := c.Room(ctx, host.PublicKey(), roomID)
	if err != nil {
		return types.Outcome{}, err
	}
	if r.PrizeMode != room.PrizeModeAssetBased {
		return types.Outcome{}, types.NewValidationError("room", "not an asset-prize room")
	}
	if int(prizeIndex) >= len(r.PrizeAssets) {
		return types.Outcome{}, types.NewValidationError("prizeIndex", "no prize declared at this index")
	}
	prize := r.PrizeAssets[prizeIndex]
	if prize.Deposited {
		return types.Outcome{}, types.ErrAlreadyApproved
	}

	vaultPDA, err := pda.PrizeVault(roomAddr, prizeIndex)
	if err != nil {
		return types.Outcome{}, err
	}
	hostAcc, err := tokenaccount.Resolve(ctx, c.reader, tokenaccount.Request{
		Payer: host.PublicKey(),
		Owner: host.PublicKey(),
		Mint:  prize.Mint,
	})
	if err != nil {
		return types.Outcome{}, err
	}
	if hostAcc.Balance < prize.Amount {
		return types.Outcome{}, types.ErrInsufficientBalance
	}

	ix, err := room.BuildAddPrizeAsset(room.AddPrizeAssetAccounts{
		Room:             roomAddr,
		PrizeVault:       vaultPDA.Address,
		HostTokenAccount: hostAcc.Address,
		Host:             host.PublicKey(),
		TokenProgram:     constants.TokenProgramID,
	}, room.AddPrizeAssetArgs{RoomID: roomID, PrizeIndex: prizeIndex})
	if err != nil {
		return types.Outcome{}, err
	}

	return c.execute(ctx, "add_prize_asset", host, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		cur, _, err := c.Room(ctx, host.PublicKey(), roomID)
		if err != nil {
			return false, err
		}
		return int(prizeIndex) < len(cur.PrizeAssets) && cur.PrizeAssets[prizeIndex].Deposited, nil
	})
}

// JoinRoomParams identifies the room to join. Host should be supplied
// whenever the caller knows it; leaving it zero forces a full program
// account scan.
type JoinRoomParams struct {
	RoomID string
	Host   solana.PublicKey
	// ExtrasAmount is an optional voluntary payment on top of the entry
	// fee; it goes entirely to charity.
	ExtrasAmount uint64
}

// JoinResult reports a join. AlreadyPaid is set when the join receipt turned
// out to exist after an ambiguous submission, meaning the player's earlier
// payment landed and no funds moved twice.
type JoinResult struct {
	Outcome            types.Outcome
	PlayerEntryAddress solana.PublicKey
	AlreadyPaid        bool
}

// JoinRoom pays the entry fee and creates the player's join receipt. The
// sequence is strict: resolve and validate state locally, plan the token
// account, verify the balance covers fee plus extras, simulate, and only
// then sign and submit. A duplicate join is rejected locally before any
// transaction is built.
func (c *Client) JoinRoom(ctx context.Context, player wallet.Signer, params JoinRoomParams) (JoinResult, error) {
	if player == nil {
		return JoinResult{}, types.ErrNilSigner
	}
	if err := types.ValidateRoomID(params.RoomID); err != nil {
		return JoinResult{}, err
	}
	if err := types.ValidateAmount("extrasAmount", params.ExtrasAmount, true); err != nil {
		return JoinResult{}, err
	}

	cfg, err := c.GlobalConfig(ctx)
	if err != nil {
		return JoinResult{}, err
	}
	if err := requireNotPaused(cfg); err != nil {
		return JoinResult{}, err
	}

	var r *room.Room
	var roomAddr solana.PublicKey
	if params.Host.IsZero() {
		r, roomAddr, err = c.findRoomByID(ctx, params.RoomID)
	} else {
		r, roomAddr, err = c.Room(ctx, params.Host, params.RoomID)
	}
	if err != nil {
		return JoinResult{}, err
	}

	switch {
	case r.Ended || r.Status == room.RoomStatusEnded:
		return JoinResult{}, types.ErrRoomAlreadyEnded
	case r.JoiningClosed:
		return JoinResult{}, types.ErrJoiningClosed
	case r.Status != room.RoomStatusReady:
		return JoinResult{}, types.ErrGameAlreadyStarted
	case r.IsFull():
		return JoinResult{}, types.ErrRoomFull
	}

	entryPDA, err := pda.PlayerEntry(roomAddr, player.PublicKey())
	if err != nil {
		return JoinResult{}, err
	}
	exists, err := c.accountExists(ctx, entryPDA.Address)
	if err != nil {
		return JoinResult{}, err
	}
	if exists {
		return JoinResult{PlayerEntryAddress: entryPDA.Address}, types.ErrAlreadyJoined
	}

	playerAcc, err := tokenaccount.Resolve(ctx, c.reader, tokenaccount.Request{
		Payer: player.PublicKey(),
		Owner: player.PublicKey(),
		Mint:  r.FeeTokenMint,
	})
	if err != nil {
		return JoinResult{}, err
	}
	required := r.EntryFee + params.ExtrasAmount
	if playerAcc.Balance < required {
		return JoinResult{}, fmt.Errorf("need %d, have %d: %w", required, playerAcc.Balance, types.ErrInsufficientBalance)
	}

	vaultPDA, err := pda.RoomVault(roomAddr)
	if err != nil {
		return JoinResult{}, err
	}
	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return JoinResult{}, err
	}

	joinIx, err := room.BuildJoinRoom(room.JoinRoomAccounts{
		Room:               roomAddr,
		PlayerEntry:        entryPDA.Address,
		RoomVault:          vaultPDA.Address,
		PlayerTokenAccount: playerAcc.Address,
		GlobalConfig:       configPDA.Address,
		Player:             player.PublicKey(),
		TokenProgram:       constants.TokenProgramID,
		SystemProgram:      constants.SystemProgramID,
	}, room.JoinRoomArgs{RoomID: params.RoomID, ExtrasAmount: params.ExtrasAmount})
	if err != nil {
		return JoinResult{}, err
	}

	instrs := make([]solana.Instruction, 0, 2)
	if playerAcc.CreateInstruction != nil {
		instrs = append(instrs, playerAcc.CreateInstruction)
	}
	instrs = append(instrs, joinIx)

	// The join receipt is the ground truth for "did my payment land": on an
	// ambiguous submission the submitter rechecks its existence instead of
	// blindly retrying, which is what prevents a double charge.
	outcome, err := c.execute(ctx, "join_room", player, instrs, func(ctx context.Context) (bool, error) {
		return c.accountExists(ctx, entryPDA.Address)
	})
	if err != nil {
		return JoinResult{}, err
	}
	return JoinResult{
		Outcome:            outcome,
		PlayerEntryAddress: entryPDA.Address,
		AlreadyPaid:        outcome.Kind == types.OutcomeAlreadyDone,
	}, nil
}

// CloseJoining locks a room to new players. One-way: there is no reopen.
func (c *Client) CloseJoining(ctx context.Context, host wallet.Signer, roomID string) (types.Outcome, error) {
	if host == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	r, roomAddr, err := c.Room(ctx, host.PublicKey(), roomID)
	if err != nil {
		return types.Outcome{}, err
	}
	if r.Ended {
		return types.Outcome{}, types.ErrRoomAlreadyEnded
	}
	if r.JoiningClosed {
		return types.Outcome{}, types.ErrJoiningClosed
	}

	ix, err := room.BuildCloseJoining(room.CloseJoiningAccounts{
		Room: roomAddr,
		Host: host.PublicKey(),
	}, room.CloseJoiningArgs{RoomID: roomID})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "close_joining", host, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		cur, _, err := c.Room(ctx, host.PublicKey(), roomID)
		if err != nil {
			return false, err
		}
		return cur.JoiningClosed, nil
	})
}

// CleanupRoom reclaims the vault rent of an ended room. The vault must be
// fully drained; anything left means settlement is incomplete.
func (c *Client) CleanupRoom(ctx context.Context, caller wallet.Signer, host solana.PublicKey, roomID string) (types.Outcome, error) {
	if caller == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	r, roomAddr, err := c.Room(ctx, host, roomID)
	if err != nil {
		return types.Outcome{}, err
	}
	if !r.Ended {
		return types.Outcome{}, types.NewValidationError("room", "must be ended before cleanup")
	}

	vaultPDA, err := pda.RoomVault(roomAddr)
	if err != nil {
		return types.Outcome{}, err
	}
	balances, err := tokenaccount.FetchBalances(ctx, c.reader, []solana.PublicKey{vaultPDA.Address})
	if err != nil {
		return types.Outcome{}, err
	}
	if balances[vaultPDA.Address.String()] > 0 {
		return types.Outcome{}, types.ErrVaultNotEmpty
	}

	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return types.Outcome{}, err
	}
	ix, err := room.BuildCleanupRoom(room.CleanupRoomAccounts{
		Room:         roomAddr,
		RoomVault:    vaultPDA.Address,
		GlobalConfig: configPDA.Address,
		Caller:       caller.PublicKey(),
		TokenProgram: constants.TokenProgramID,
	}, room.CleanupRoomArgs{RoomID: roomID})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "cleanup_room", caller, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		exists, err := c.accountExists(ctx, roomAddr)
		if err != nil {
			return false, err
		}
		return !exists, nil
	})
}
