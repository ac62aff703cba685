package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

func TestIsAlreadyProcessed(t *testing.T) {
	require.True(t, types.IsAlreadyProcessed(types.ErrSubmissionAmbiguous))
	require.True(t, types.IsAlreadyProcessed(fmt.Errorf("send: %w", types.ErrSubmissionAmbiguous)))
	require.True(t, types.IsAlreadyProcessed(errors.New("This transaction has already been processed")))
	require.False(t, types.IsAlreadyProcessed(errors.New("blockhash not found")))
	require.False(t, types.IsAlreadyProcessed(nil))
}

func TestIsRetryableSendError(t *testing.T) {
	require.True(t, types.IsRetryableSendError(errors.New("Blockhash not found")))
	require.True(t, types.IsRetryableSendError(errors.New("connection reset by peer")))
	require.True(t, types.IsRetryableSendError(errors.New("429 Too Many Requests")))
	require.True(t, types.IsRetryableSendError(errors.New("request timed out")))

	// Ambiguity and program rejections must never be retried blindly.
	require.False(t, types.IsRetryableSendError(types.ErrSubmissionAmbiguous))
	require.False(t, types.IsRetryableSendError(&types.ProgramError{Code: 6015, Message: "player already joined"}))
	require.False(t, types.IsRetryableSendError(&types.SimulationError{Err: "InstructionError"}))
	require.False(t, types.IsRetryableSendError(errors.New("invalid param")))
	require.False(t, types.IsRetryableSendError(nil))
}

func TestProgramErrorBridgesToSentinel(t *testing.T) {
	err := error(&types.ProgramError{
		Code:     6015,
		Message:  "player already joined this room",
		Sentinel: types.ErrAlreadyJoined,
	})
	require.ErrorIs(t, err, types.ErrAlreadyJoined)
	require.NotErrorIs(t, err, types.ErrRoomFull)

	wrapped := fmt.Errorf("join: %w", err)
	require.ErrorIs(t, wrapped, types.ErrAlreadyJoined)
}

func TestSimulationErrorUnwraps(t *testing.T) {
	err := error(&types.SimulationError{Err: map[string]any{"InstructionError": []any{0, "Custom"}}})
	require.ErrorIs(t, err, types.ErrSimulationFailed)
}

func TestRPCErrorUnwraps(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	err := error(types.RPCError{Op: "getAccountInfo", Err: inner})
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "getAccountInfo")
}
