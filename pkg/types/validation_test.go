package types_test

import (
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

func TestValidateRoomID(t *testing.T) {
	require.NoError(t, types.ValidateRoomID("a"))
	require.NoError(t, types.ValidateRoomID(strings.Repeat("x", constants.MaxRoomIDLen)))

	require.Error(t, types.ValidateRoomID(""))
	require.Error(t, types.ValidateRoomID(strings.Repeat("x", constants.MaxRoomIDLen+1)))
	require.Error(t, types.ValidateRoomID("room\x00id"))
}

func TestValidateCharityMemo(t *testing.T) {
	require.NoError(t, types.ValidateCharityMemo(""))
	require.NoError(t, types.ValidateCharityMemo(strings.Repeat("m", constants.MaxCharityMemoLen)))
	require.Error(t, types.ValidateCharityMemo(strings.Repeat("m", constants.MaxCharityMemoLen+1)))
	require.Error(t, types.ValidateCharityMemo("memo\x00"))
}

func TestValidateBps(t *testing.T) {
	require.NoError(t, types.ValidateBps("fee", constants.TotalBps))
	require.Error(t, types.ValidateBps("fee", constants.TotalBps+1))
}

func TestValidateAmount(t *testing.T) {
	require.NoError(t, types.ValidateAmount("fee", 1, false))
	require.NoError(t, types.ValidateAmount("fee", 0, true))
	require.Error(t, types.ValidateAmount("fee", 0, false))

	require.NoError(t, types.ValidateAmount("fee", constants.MaxSafeAmount, false))
	require.Error(t, types.ValidateAmount("fee", constants.MaxSafeAmount+1, false))
}

func TestValidatePublicKey(t *testing.T) {
	require.Error(t, types.ValidatePublicKey("wallet", solana.PublicKey{}))
	require.NoError(t, types.ValidatePublicKey("wallet", solana.MustPublicKeyFromBase58("9yQ5nUUjoZHRMB5z5W4ybYYbM1DArUnzfX3PSDitgsBM")))
}
