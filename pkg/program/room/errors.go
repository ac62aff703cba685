package room

import (
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

// ProgramErr describes one custom error the room program can return.
type ProgramErr struct {
	Code uint32
	Name string
	Msg  string
	// Sentinel from the shared taxonomy, when the condition maps to one.
	Sentinel error
}

// Custom error codes start at 6000 per Anchor convention.
var programErrors = []ProgramErr{
	{6000, "Unauthorized", "caller is not authorized for this operation", types.ErrNotAdmin},
	{6001, "EmergencyPause", "program is paused", types.ErrEmergencyPaused},
	{6002, "InvalidRoomId", "room id must be 1-32 bytes without NUL", types.ErrInvalidRoomID},
	{6003, "InvalidEntryFee", "entry fee must be greater than zero", nil},
	{6004, "InvalidMaxPlayers", "max players must be between 1 and 10000", nil},
	{6005, "HostFeeTooHigh", "host fee exceeds configured maximum", nil},
	{6006, "PrizePoolTooHigh", "prize pool exceeds configured maximum", nil},
	{6007, "CharityBelowMinimum", "charity allocation below configured minimum", nil},
	{6008, "InvalidPrizeDistribution", "prize percentages must sum to 100", nil},
	{6009, "InvalidMemo", "charity memo too long", nil},
	{6010, "RoomNotReady", "room is not accepting players", types.ErrGameAlreadyStarted},
	{6011, "RoomExpired", "room has expired", nil},
	{6012, "RoomAlreadyEnded", "room has already ended", types.ErrRoomAlreadyEnded},
	{6013, "JoiningClosed", "room is closed to new players", types.ErrJoiningClosed},
	{6014, "MaxPlayersReached", "room is full", types.ErrRoomFull},
	{6015, "PlayerAlreadyJoined", "player already joined this room", types.ErrAlreadyJoined},
	{6016, "InsufficientBalance", "insufficient balance", types.ErrInsufficientBalance},
	{6017, "InvalidRoomStatus", "room is not in a valid status for this operation", nil},
	{6018, "WinnersAlreadyDeclared", "winners have already been declared", nil},
	{6019, "InvalidWinners", "winner list is invalid", nil},
	{6020, "HostCannotBeWinner", "host cannot be declared a winner", types.ErrHostCannotBeWinner},
	{6021, "InvalidPlayerEntry", "winner did not join the room", nil},
	{6022, "TokenAlreadyApproved", "token is already approved", types.ErrAlreadyApproved},
	{6023, "TokenRegistryFull", "token registry is at capacity", types.ErrRegistryFull},
	{6024, "TokenNotApproved", "token is not in the approved registry", types.ErrTokenNotApproved},
	{6025, "InvalidTokenMint", "token account mint does not match", nil},
	{6026, "InvalidTokenOwner", "token account owner does not match", nil},
	{6027, "InvalidVaultAccount", "vault account does not match expected PDA", nil},
	{6028, "VaultNotEmpty", "room vault still holds funds", types.ErrVaultNotEmpty},
	{6029, "InsufficientAuthority", "caller must be host or admin", types.ErrNotAdmin},
	{6030, "PrizeAlreadyDeposited", "prize has already been deposited", nil},
	{6031, "ArithmeticOverflow", "arithmetic overflow", nil},
	{6032, "ArithmeticUnderflow", "arithmetic underflow", nil},
}

var errorsByCode = func() map[uint32]ProgramErr {
	m := make(map[uint32]ProgramErr, len(programErrors))
	for _, e := range programErrors {
		m[e.Code] = e
	}
	return m
}()

// ErrorFromCode looks up a program error by its custom code.
func ErrorFromCode(code uint32) (ProgramErr, bool) {
	e, ok := errorsByCode[code]
	return e, ok
}

// ParseProgramError converts a custom error code into a ProgramError carrying
// the taxonomy sentinel, so callers can use errors.Is against the shared
// error set regardless of whether the condition was detected locally or by
// the program.
func ParseProgramError(code int, logs []string) *types.ProgramError {
	if e, ok := ErrorFromCode(uint32(code)); ok {
		return &types.ProgramError{
			Code:     code,
			Message:  e.Msg,
			Logs:     logs,
			Sentinel: e.Sentinel,
		}
	}
	return &types.ProgramError{Code: code, Message: "unknown program error", Logs: logs}
}
