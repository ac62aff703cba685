package chainwallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/chainwallet"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

func staticConnect(address, network string) chainwallet.ConnectFunc {
	return func(ctx context.Context) (string, string, error) {
		return address, network, nil
	}
}

const (
	evmAddr     = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	solanaAddr  = "9yQ5nUUjoZHRMB5z5W4ybYYbM1DArUnzfX3PSDitgsBM"
	stellarAddr = "GA7QYNF7SOWQ3GLR2BGMZEHXAVIRZA4KVWLTJJFC7MGXUA74P7UJVSGZ"
)

func TestConnectLifecycle(t *testing.T) {
	a, err := chainwallet.New(chainwallet.Config{
		Family:          chainwallet.FamilySolana,
		ExpectedNetwork: "mainnet-beta",
		Connect:         staticConnect(solanaAddr, "mainnet-beta"),
	})
	require.NoError(t, err)

	_, ok := a.Address()
	require.False(t, ok)
	require.False(t, a.IsOnCorrectNetwork())

	require.NoError(t, a.Connect(context.Background()))
	addr, ok := a.Address()
	require.True(t, ok)
	require.Equal(t, solanaAddr, addr)
	require.True(t, a.IsOnCorrectNetwork())

	a.Disconnect()
	_, ok = a.Address()
	require.False(t, ok)
	require.Empty(t, a.CurrentNetwork())
}

func TestConnectErrorLeavesDisconnected(t *testing.T) {
	boom := errors.New("user rejected")
	a, err := chainwallet.New(chainwallet.Config{
		Family:          chainwallet.FamilyEVM,
		ExpectedNetwork: "1",
		Connect: func(ctx context.Context) (string, string, error) {
			return "", "", boom
		},
	})
	require.NoError(t, err)

	require.ErrorIs(t, a.Connect(context.Background()), boom)
	_, ok := a.Address()
	require.False(t, ok)
}

func TestNewRejectsUnknownFamily(t *testing.T) {
	_, err := chainwallet.New(chainwallet.Config{
		Family:  chainwallet.Family("cosmos"),
		Connect: staticConnect("x", "y"),
	})
	require.Error(t, err)
}

func TestNewRequiresConnectFunc(t *testing.T) {
	_, err := chainwallet.New(chainwallet.Config{Family: chainwallet.FamilySolana})
	require.Error(t, err)
}

func TestAddressValidationPerFamily(t *testing.T) {
	cases := []struct {
		name    string
		family  chainwallet.Family
		address string
		ok      bool
	}{
		{"evm valid", chainwallet.FamilyEVM, evmAddr, true},
		{"evm missing prefix", chainwallet.FamilyEVM, evmAddr[2:], false},
		{"evm bad hex", chainwallet.FamilyEVM, "0xZZ2d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{"evm short", chainwallet.FamilyEVM, "0x742d35", false},
		{"solana valid", chainwallet.FamilySolana, solanaAddr, true},
		{"solana invalid base58", chainwallet.FamilySolana, "not-a-key-0OIl", false},
		{"stellar valid", chainwallet.FamilyStellar, stellarAddr, true},
		{"stellar wrong prefix", chainwallet.FamilyStellar, "S" + stellarAddr[1:], false},
		{"stellar wrong length", chainwallet.FamilyStellar, stellarAddr[:40], false},
		{"stellar bad base32", chainwallet.FamilyStellar, stellarAddr[:55] + "1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := chainwallet.New(chainwallet.Config{
				Family:          tc.family,
				ExpectedNetwork: "net",
				Connect:         staticConnect(tc.address, "net"),
			})
			require.NoError(t, err)

			err = a.Connect(context.Background())
			if tc.ok {
				require.NoError(t, err)
			} else {
				var verr types.ValidationError
				require.ErrorAs(t, err, &verr)
			}
		})
	}
}

func TestCheckCompatibilityDistinguishesFailures(t *testing.T) {
	connect := func(family chainwallet.Family, addr, network string) chainwallet.Adapter {
		a, err := chainwallet.New(chainwallet.Config{
			Family:          family,
			ExpectedNetwork: network,
			Connect:         staticConnect(addr, network),
		})
		require.NoError(t, err)
		require.NoError(t, a.Connect(context.Background()))
		return a
	}

	t.Run("nil adapter", func(t *testing.T) {
		err := chainwallet.CheckCompatibility(nil, chainwallet.FamilySolana, "mainnet-beta")
		require.ErrorIs(t, err, types.ErrNotConnected)
	})

	t.Run("disconnected", func(t *testing.T) {
		a := connect(chainwallet.FamilySolana, solanaAddr, "mainnet-beta")
		a.Disconnect()
		err := chainwallet.CheckCompatibility(a, chainwallet.FamilySolana, "mainnet-beta")
		require.ErrorIs(t, err, types.ErrNotConnected)
	})

	t.Run("wrong family beats wrong network", func(t *testing.T) {
		a := connect(chainwallet.FamilyEVM, evmAddr, "1")
		err := chainwallet.CheckCompatibility(a, chainwallet.FamilySolana, "mainnet-beta")
		require.ErrorIs(t, err, types.ErrWrongChainFamily)
	})

	t.Run("wrong network", func(t *testing.T) {
		a := connect(chainwallet.FamilySolana, solanaAddr, "devnet")
		err := chainwallet.CheckCompatibility(a, chainwallet.FamilySolana, "mainnet-beta")
		require.ErrorIs(t, err, types.ErrWrongNetwork)
	})

	t.Run("compatible", func(t *testing.T) {
		a := connect(chainwallet.FamilySolana, solanaAddr, "mainnet-beta")
		require.NoError(t, chainwallet.CheckCompatibility(a, chainwallet.FamilySolana, "mainnet-beta"))
	})
}
