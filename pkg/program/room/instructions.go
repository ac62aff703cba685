package room

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
)

// Instruction discriminators (sha256("global:<name>")[..8]).
var (
	initializeDiscriminator              = []byte{175, 175, 109, 31, 13, 152, 155, 237}
	updateGlobalConfigDiscriminator      = []byte{164, 84, 130, 189, 111, 58, 250, 200}
	initPoolRoomDiscriminator            = []byte{51, 17, 194, 102, 72, 127, 188, 37}
	initAssetRoomDiscriminator           = []byte{130, 35, 252, 232, 247, 146, 31, 171}
	joinRoomDiscriminator                = []byte{95, 232, 188, 81, 124, 130, 78, 139}
	declareWinnersDiscriminator          = []byte{42, 228, 213, 39, 88, 35, 143, 71}
	endRoomDiscriminator                 = []byte{102, 106, 181, 155, 61, 17, 40, 78}
	initializeTokenRegistryDiscriminator = []byte{206, 94, 91, 162, 242, 92, 51, 192}
	addApprovedTokenDiscriminator        = []byte{243, 15, 9, 190, 211, 61, 218, 73}
	removeApprovedTokenDiscriminator     = []byte{210, 154, 53, 36, 34, 32, 178, 5}
	addPrizeAssetDiscriminator           = []byte{73, 174, 200, 110, 91, 241, 141, 104}
	recoverRoomDiscriminator             = []byte{23, 246, 194, 40, 13, 163, 9, 214}
	setEmergencyPauseDiscriminator       = []byte{216, 204, 65, 234, 19, 243, 233, 25}
	closeJoiningDiscriminator            = []byte{203, 245, 231, 125, 106, 208, 104, 176}
	cleanupRoomDiscriminator             = []byte{68, 85, 10, 56, 80, 219, 249, 43}
)

func encodeArgs(discriminator []byte, args interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(discriminator)
	if args != nil {
		if err := bin.NewBorshEncoder(&buf).Encode(args); err != nil {
			return nil, fmt.Errorf("encode instruction args: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// InitializeArgs configures the one-time platform setup.
type InitializeArgs struct {
	PlatformWallet solana.PublicKey
	CharityWallet  solana.PublicKey
}

// InitializeAccounts lists accounts for the initialize instruction.
type InitializeAccounts struct {
	GlobalConfig  solana.PublicKey
	Admin         solana.PublicKey
	SystemProgram solana.PublicKey
}

// BuildInitialize builds the one-time global config creation instruction.
// Re-running it fails on-chain because the config PDA already exists.
func BuildInitialize(accts InitializeAccounts, args InitializeArgs) (solana.Instruction, error) {
	data, err := encodeArgs(initializeDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.GlobalConfig, true, false),
		solana.NewAccountMeta(accts.Admin, true, true),
		solana.NewAccountMeta(accts.SystemProgram, false, false),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// UpdateGlobalConfigArgs carries patch-style optional fields; nil fields are
// left unchanged by the program.
type UpdateGlobalConfigArgs struct {
	PlatformWallet  *solana.PublicKey `bin:"optional"`
	CharityWallet   *solana.PublicKey `bin:"optional"`
	PlatformFeeBps  *uint16           `bin:"optional"`
	MaxHostFeeBps   *uint16           `bin:"optional"`
	MaxPrizePoolBps *uint16           `bin:"optional"`
	MinCharityBps   *uint16           `bin:"optional"`
}

// UpdateGlobalConfigAccounts lists accounts for update_global_config.
type UpdateGlobalConfigAccounts struct {
	GlobalConfig solana.PublicKey
	Admin        solana.PublicKey
}

// BuildUpdateGlobalConfig builds the admin config patch instruction.
func BuildUpdateGlobalConfig(accts UpdateGlobalConfigAccounts, args UpdateGlobalConfigArgs) (solana.Instruction, error) {
	data, err := encodeArgs(updateGlobalConfigDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.GlobalConfig, true, false),
		solana.NewAccountMeta(accts.Admin, false, true),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// InitPoolRoomArgs configures a pool-prize room.
type InitPoolRoomArgs struct {
	RoomID          string
	CharityWallet   solana.PublicKey
	EntryFee        uint64
	MaxPlayers      uint32
	HostFeeBps      uint16
	PrizePoolBps    uint16
	FirstPlacePct   uint16
	SecondPlacePct  *uint16 `bin:"optional"`
	ThirdPlacePct   *uint16 `bin:"optional"`
	CharityMemo     string
	ExpirationSlots *uint64 `bin:"optional"`
}

// InitPoolRoomAccounts lists accounts for init_pool_room.
type InitPoolRoomAccounts struct {
	Room          solana.PublicKey
	RoomVault     solana.PublicKey
	FeeTokenMint  solana.PublicKey
	TokenRegistry solana.PublicKey
	GlobalConfig  solana.PublicKey
	Host          solana.PublicKey
	SystemProgram solana.PublicKey
	TokenProgram  solana.PublicKey
	Rent          solana.PublicKey
}

// BuildInitPoolRoom builds the room creation instruction.
func BuildInitPoolRoom(accts InitPoolRoomAccounts, args InitPoolRoomArgs) (solana.Instruction, error) {
	data, err := encodeArgs(initPoolRoomDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.RoomVault, true, false),
		solana.NewAccountMeta(accts.FeeTokenMint, false, false),
		solana.NewAccountMeta(accts.TokenRegistry, false, false),
		solana.NewAccountMeta(accts.GlobalConfig, false, false),
		solana.NewAccountMeta(accts.Host, true, true),
		solana.NewAccountMeta(accts.SystemProgram, false, false),
		solana.NewAccountMeta(accts.TokenProgram, false, false),
		solana.NewAccountMeta(accts.Rent, false, false),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// JoinRoomArgs carries the join parameters.
type JoinRoomArgs struct {
	RoomID       string
	ExtrasAmount uint64
}

// JoinRoomAccounts lists accounts for join_room. PlayerEntry is the derived
// duplicate-join guard; the ledger rejects a second creation.
type JoinRoomAccounts struct {
	Room               solana.PublicKey
	PlayerEntry        solana.PublicKey
	RoomVault          solana.PublicKey
	PlayerTokenAccount solana.PublicKey
	GlobalConfig       solana.PublicKey
	Player             solana.PublicKey
	TokenProgram       solana.PublicKey
	SystemProgram      solana.PublicKey
}

// BuildJoinRoom builds the player join instruction.
func BuildJoinRoom(accts JoinRoomAccounts, args JoinRoomArgs) (solana.Instruction, error) {
	data, err := encodeArgs(joinRoomDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.PlayerEntry, true, false),
		solana.NewAccountMeta(accts.RoomVault, true, false),
		solana.NewAccountMeta(accts.PlayerTokenAccount, true, false),
		solana.NewAccountMeta(accts.GlobalConfig, false, false),
		solana.NewAccountMeta(accts.Player, true, true),
		solana.NewAccountMeta(accts.TokenProgram, false, false),
		solana.NewAccountMeta(accts.SystemProgram, false, false),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// DeclareWinnersArgs names 1-10 winners ahead of settlement.
type DeclareWinnersArgs struct {
	RoomID  string
	Winners []solana.PublicKey
}

// DeclareWinnersAccounts lists accounts for declare_winners.
type DeclareWinnersAccounts struct {
	Room solana.PublicKey
	Host solana.PublicKey
}

// BuildDeclareWinners builds the winner declaration instruction.
func BuildDeclareWinners(accts DeclareWinnersAccounts, args DeclareWinnersArgs) (solana.Instruction, error) {
	data, err := encodeArgs(declareWinnersDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.Host, true, true),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// EndRoomArgs finalizes a room. Winners are used only when none were
// pre-declared.
type EndRoomArgs struct {
	RoomID  string
	Winners []solana.PublicKey
}

// EndRoomAccounts lists fixed accounts for end_room. Winner token accounts
// follow as remaining accounts in winner order.
type EndRoomAccounts struct {
	Room                 solana.PublicKey
	RoomVault            solana.PublicKey
	GlobalConfig         solana.PublicKey
	PlatformTokenAccount solana.PublicKey
	CharityTokenAccount  solana.PublicKey
	HostTokenAccount     solana.PublicKey
	Host                 solana.PublicKey
	TokenProgram         solana.PublicKey
}

// BuildEndRoom builds the settlement instruction with winner token accounts
// appended as a variable-length account list.
func BuildEndRoom(accts EndRoomAccounts, args EndRoomArgs, winnerTokenAccounts []solana.PublicKey) (solana.Instruction, error) {
	data, err := encodeArgs(endRoomDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.RoomVault, true, false),
		solana.NewAccountMeta(accts.GlobalConfig, false, false),
		solana.NewAccountMeta(accts.PlatformTokenAccount, true, false),
		solana.NewAccountMeta(accts.CharityTokenAccount, true, false),
		solana.NewAccountMeta(accts.HostTokenAccount, true, false),
		solana.NewAccountMeta(accts.Host, true, true),
		solana.NewAccountMeta(accts.TokenProgram, false, false),
	}
	for _, w := range winnerTokenAccounts {
		metas = append(metas, solana.NewAccountMeta(w, true, false))
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// InitializeTokenRegistryAccounts lists accounts for the registry setup.
type InitializeTokenRegistryAccounts struct {
	TokenRegistry solana.PublicKey
	Admin         solana.PublicKey
	SystemProgram solana.PublicKey
}

// BuildInitializeTokenRegistry builds the one-time registry creation.
func BuildInitializeTokenRegistry(accts InitializeTokenRegistryAccounts) (solana.Instruction, error) {
	data, err := encodeArgs(initializeTokenRegistryDiscriminator, nil)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.TokenRegistry, true, false),
		solana.NewAccountMeta(accts.Admin, true, true),
		solana.NewAccountMeta(accts.SystemProgram, false, false),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// ApprovedTokenArgs names the mint to add or remove.
type ApprovedTokenArgs struct {
	TokenMint solana.PublicKey
}

// ApprovedTokenAccounts lists accounts for registry mutations.
type ApprovedTokenAccounts struct {
	TokenRegistry solana.PublicKey
	Admin         solana.PublicKey
}

// BuildAddApprovedToken builds the allow-list addition instruction.
func BuildAddApprovedToken(accts ApprovedTokenAccounts, args ApprovedTokenArgs) (solana.Instruction, error) {
	data, err := encodeArgs(addApprovedTokenDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.TokenRegistry, true, false),
		solana.NewAccountMeta(accts.Admin, true, true),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// BuildRemoveApprovedToken builds the allow-list removal instruction.
func BuildRemoveApprovedToken(accts ApprovedTokenAccounts, args ApprovedTokenArgs) (solana.Instruction, error) {
	data, err := encodeArgs(removeApprovedTokenDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.TokenRegistry, true, false),
		solana.NewAccountMeta(accts.Admin, true, true),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// RecoverRoomArgs names the room to recover.
type RecoverRoomArgs struct {
	RoomID string
}

// RecoverRoomAccounts lists fixed accounts for recover_room. Player token
// accounts follow as remaining accounts for pro-rata refunds.
type RecoverRoomAccounts struct {
	Room                 solana.PublicKey
	RoomVault            solana.PublicKey
	GlobalConfig         solana.PublicKey
	PlatformTokenAccount solana.PublicKey
	Admin                solana.PublicKey
	TokenProgram         solana.PublicKey
}

// BuildRecoverRoom builds the admin recovery instruction carrying each
// player's token account for refunds.
func BuildRecoverRoom(accts RecoverRoomAccounts, args RecoverRoomArgs, playerTokenAccounts []solana.PublicKey) (solana.Instruction, error) {
	data, err := encodeArgs(recoverRoomDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.RoomVault, true, false),
		solana.NewAccountMeta(accts.GlobalConfig, false, false),
		solana.NewAccountMeta(accts.PlatformTokenAccount, true, false),
		solana.NewAccountMeta(accts.Admin, true, true),
		solana.NewAccountMeta(accts.TokenProgram, false, false),
	}
	for _, p := range playerTokenAccounts {
		metas = append(metas, solana.NewAccountMeta(p, true, false))
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// SetEmergencyPauseArgs toggles the circuit breaker.
type SetEmergencyPauseArgs struct {
	Paused bool
}

// SetEmergencyPauseAccounts lists accounts for set_emergency_pause.
type SetEmergencyPauseAccounts struct {
	GlobalConfig solana.PublicKey
	Admin        solana.PublicKey
}

// BuildSetEmergencyPause builds the pause toggle instruction.
func BuildSetEmergencyPause(accts SetEmergencyPauseAccounts, args SetEmergencyPauseArgs) (solana.Instruction, error) {
	data, err := encodeArgs(setEmergencyPauseDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.GlobalConfig, true, false),
		solana.NewAccountMeta(accts.Admin, true, true),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// CloseJoiningArgs names the room to close to new players.
type CloseJoiningArgs struct {
	RoomID string
}

// CloseJoiningAccounts lists accounts for close_joining.
type CloseJoiningAccounts struct {
	Room solana.PublicKey
	Host solana.PublicKey
}

// BuildCloseJoining builds the one-way joining lock instruction.
func BuildCloseJoining(accts CloseJoiningAccounts, args CloseJoiningArgs) (solana.Instruction, error) {
	data, err := encodeArgs(closeJoiningDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.Host, true, true),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// CleanupRoomArgs names the ended room whose vault rent is reclaimed.
type CleanupRoomArgs struct {
	RoomID string
}

// CleanupRoomAccounts lists accounts for cleanup_room.
type CleanupRoomAccounts struct {
	Room         solana.PublicKey
	RoomVault    solana.PublicKey
	GlobalConfig solana.PublicKey
	Caller       solana.PublicKey
	TokenProgram solana.PublicKey
}

// BuildCleanupRoom builds the rent reclamation instruction.
func BuildCleanupRoom(accts CleanupRoomAccounts, args CleanupRoomArgs) (solana.Instruction, error) {
	data, err := encodeArgs(cleanupRoomDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.RoomVault, true, false),
		solana.NewAccountMeta(accts.GlobalConfig, false, false),
		solana.NewAccountMeta(accts.Caller, true, true),
		solana.NewAccountMeta(accts.TokenProgram, false, false),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// InitAssetRoomArgs configures a room with pre-deposited prize assets.
type InitAssetRoomArgs struct {
	RoomID          string
	CharityWallet   solana.PublicKey
	EntryFee        uint64
	MaxPlayers      uint32
	HostFeeBps      uint16
	CharityMemo     string
	ExpirationSlots *uint64 `bin:"optional"`
	Prize1Mint      solana.PublicKey
	Prize1Amount    uint64
	Prize2Mint      *solana.PublicKey `bin:"optional"`
	Prize2Amount    *uint64           `bin:"optional"`
	Prize3Mint      *solana.PublicKey `bin:"optional"`
	Prize3Amount    *uint64           `bin:"optional"`
}

// BuildInitAssetRoom builds the asset-room creation instruction. The account
// list matches init_pool_room.
func BuildInitAssetRoom(accts InitPoolRoomAccounts, args InitAssetRoomArgs) (solana.Instruction, error) {
	data, err := encodeArgs(initAssetRoomDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.RoomVault, false, false),
		solana.NewAccountMeta(accts.FeeTokenMint, false, false),
		solana.NewAccountMeta(accts.TokenRegistry, false, false),
		solana.NewAccountMeta(accts.GlobalConfig, false, false),
		solana.NewAccountMeta(accts.Host, true, true),
		solana.NewAccountMeta(accts.SystemProgram, false, false),
		solana.NewAccountMeta(accts.TokenProgram, false, false),
		solana.NewAccountMeta(accts.Rent, false, false),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}

// AddPrizeAssetArgs deposits one prize into an asset room.
type AddPrizeAssetArgs struct {
	RoomID     string
	PrizeIndex uint8
}

// AddPrizeAssetAccounts lists accounts for add_prize_asset.
type AddPrizeAssetAccounts struct {
	Room             solana.PublicKey
	PrizeVault       solana.PublicKey
	HostTokenAccount solana.PublicKey
	Host             solana.PublicKey
	TokenProgram     solana.PublicKey
}

// BuildAddPrizeAsset builds the prize deposit instruction.
func BuildAddPrizeAsset(accts AddPrizeAssetAccounts, args AddPrizeAssetArgs) (solana.Instruction, error) {
	data, err := encodeArgs(addPrizeAssetDiscriminator, args)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accts.Room, true, false),
		solana.NewAccountMeta(accts.PrizeVault, true, false),
		solana.NewAccountMeta(accts.HostTokenAccount, true, false),
		solana.NewAccountMeta(accts.Host, true, true),
		solana.NewAccountMeta(accts.TokenProgram, false, false),
	}
	return solana.NewInstruction(constants.RoomProgramID, metas, data), nil
}
