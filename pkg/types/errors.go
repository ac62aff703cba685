package types

import (
	"errors"
	"fmt"
	"strings"
)

// Common SDK errors
var (
	// Parameter validation errors
	ErrNilRPC           = errors.New("rpc client is nil")
	ErrNilSigner        = errors.New("signer is nil")
	ErrNilFeePayer      = errors.New("fee payer is nil")
	ErrZeroAmount       = errors.New("amount must be greater than 0")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrNoInstructions   = errors.New("requires at least one instruction")
	ErrInvalidRoomID    = errors.New("room id must be 1-32 bytes without NUL")
	ErrInvalidBps       = errors.New("basis points out of range")

	// Wallet errors
	ErrNotConnected     = errors.New("wallet not connected")
	ErrWrongChainFamily = errors.New("connected wallet belongs to a different chain family")
	ErrWrongNetwork     = errors.New("wallet connected to the wrong network")

	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrGlobalConfigNotFound = errors.New("global config not found")
	ErrRegistryNotFound     = errors.New("token registry not found")
	ErrPlayerEntryNotFound  = errors.New("player entry not found")

	// Room lifecycle errors
	ErrRoomAlreadyExists  = errors.New("room already exists")
	ErrRoomFull           = errors.New("room is full")
	ErrAlreadyJoined      = errors.New("player already joined this room")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrRoomAlreadyEnded   = errors.New("room already ended")
	ErrJoiningClosed      = errors.New("room is closed to new players")
	ErrNoFundsToRecover   = errors.New("room has no funds to recover")
	ErrNoPlayersFound     = errors.New("no player entries found for room")
	ErrVaultNotEmpty      = errors.New("room vault still holds funds")
	ErrHostCannotBeWinner = errors.New("host cannot be declared a winner")

	// Admin errors
	ErrNotAdmin         = errors.New("caller is not the configured admin")
	ErrEmergencyPaused  = errors.New("program is paused")
	ErrRegistryFull     = errors.New("token registry is at capacity")
	ErrAlreadyApproved  = errors.New("token is already approved")
	ErrTokenNotApproved = errors.New("token is not in the approved registry")

	// Transaction errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrSimulationFailed    = errors.New("simulation failed")
	ErrConfirmationTimeout = errors.New("confirmation timeout")

	// The ledger reported the transaction as already processed. The caller
	// must recheck on-chain state before treating this as a failure.
	ErrSubmissionAmbiguous = errors.New("transaction already processed")
)

// RPCError wraps RPC failures with operation context.
type RPCError struct {
	Op  string
	Err error
}

func (e RPCError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e RPCError) Unwrap() error {
	return e.Err
}

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// ProgramError represents on-chain program execution errors.
type ProgramError struct {
	Code    int
	Message string
	Logs    []string
	// Sentinel matching the taxonomy entry for this code, if the code is
	// one the room program defines. Lets callers use errors.Is.
	Sentinel error
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("program error [%d]: %s", e.Code, e.Message)
}

func (e *ProgramError) Unwrap() error {
	return e.Sentinel
}

// SimulationError contains simulation failure details, logs attached verbatim.
type SimulationError struct {
	Err  interface{}
	Logs []string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %v", e.Err)
}

func (e *SimulationError) Unwrap() error {
	return ErrSimulationFailed
}

// IsAlreadyProcessed reports whether a send error is the ambiguous
// "transaction already processed" case. Blind retry here risks a double
// charge; callers recheck finalized state instead.
func IsAlreadyProcessed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSubmissionAmbiguous) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already been processed") ||
		strings.Contains(msg, "alreadyprocessed")
}

// IsRetryableSendError reports whether a submission error is transient
// transport flakiness worth retrying. Program rejections and the ambiguous
// already-processed case are never retried blindly.
func IsRetryableSendError(err error) bool {
	if err == nil {
		return false
	}
	if IsAlreadyProcessed(err) {
		return false
	}
	var progErr *ProgramError
	if errors.As(err, &progErr) {
		return false
	}
	var simErr *SimulationError
	if errors.As(err, &simErr) {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "blockhash not found"),
		strings.Contains(msg, "node is behind"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "connection"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "429"),
		strings.Contains(msg, "503"):
		return true
	}
	return false
}
