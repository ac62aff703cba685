package split_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/split"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

func TestSplitKnownBreakdown(t *testing.T) {
	// 1000 units at 5% host, 25% prize, 20% platform leaves 50% to charity.
	shares, err := split.Split(1000, 500, 2500, 2000)
	require.NoError(t, err)
	require.Equal(t, uint64(50), shares.Host)
	require.Equal(t, uint64(250), shares.Prize)
	require.Equal(t, uint64(200), shares.Platform)
	require.Equal(t, uint64(500), shares.Charity)
	require.Equal(t, uint64(1000), shares.Total())
}

func TestSplitConservation(t *testing.T) {
	cases := []struct {
		total                    uint64
		hostBps, prize, platform uint16
	}{
		{1, 500, 2500, 2000},
		{7, 1, 1, 1},
		{999, 333, 333, 333},
		{1_000_000_000_000, 500, 3500, 2000},
		{4611686018427387903, 500, 2500, 2000}, // MaxSafeAmount
		{1000, 0, 0, 0},
	}
	for _, tc := range cases {
		shares, err := split.Split(tc.total, tc.hostBps, tc.prize, tc.platform)
		require.NoError(t, err)
		// Every unit lands somewhere; charity absorbs the flooring dust.
		require.Equal(t, tc.total, shares.Total())
		require.GreaterOrEqual(t, shares.Charity, split.Bps(tc.total, 10000-tc.hostBps-tc.prize-tc.platform))
	}
}

func TestSplitRejectsOverAllocation(t *testing.T) {
	_, err := split.Split(1000, 5000, 4000, 2000)
	require.Error(t, err)
}

func TestSplitWithExtrasAllToCharity(t *testing.T) {
	base, err := split.Split(1000, 500, 2500, 2000)
	require.NoError(t, err)
	withExtras, err := split.SplitWithExtras(1000, 333, 500, 2500, 2000)
	require.NoError(t, err)

	// Extras never change the fee-based shares.
	require.Equal(t, base.Host, withExtras.Host)
	require.Equal(t, base.Prize, withExtras.Prize)
	require.Equal(t, base.Platform, withExtras.Platform)
	require.Equal(t, base.Charity+333, withExtras.Charity)
	require.Equal(t, uint64(1333), withExtras.Total())
}

func TestBpsFlooring(t *testing.T) {
	require.Equal(t, uint64(0), split.Bps(1, 500))
	require.Equal(t, uint64(0), split.Bps(19, 500))
	require.Equal(t, uint64(1), split.Bps(20, 500))
	require.Equal(t, uint64(0), split.Bps(12345, 0))
	require.Equal(t, uint64(12345), split.Bps(12345, 10000))
}

func TestRecoverySplit(t *testing.T) {
	platform, pool, perPlayer, err := split.RecoverySplit(1000, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(100), platform)
	require.Equal(t, uint64(900), pool)
	require.Equal(t, uint64(300), perPlayer)
}

func TestRecoverySplitEmptyVault(t *testing.T) {
	_, _, _, err := split.RecoverySplit(0, 5)
	require.ErrorIs(t, err, types.ErrNoFundsToRecover)
}

func TestRecoverySplitNoPlayers(t *testing.T) {
	_, _, _, err := split.RecoverySplit(1000, 0)
	require.ErrorIs(t, err, types.ErrNoPlayersFound)
}

func TestConfigBoundsValidate(t *testing.T) {
	ok := split.ConfigBounds{
		PlatformFeeBps:  2000,
		MaxHostFeeBps:   500,
		MaxPrizePoolBps: 3500,
		MinCharityBps:   4000,
	}
	require.NoError(t, ok.Validate())

	// Worst-case fees must still leave room for the charity floor.
	bad := ok
	bad.MinCharityBps = 4500
	require.Error(t, bad.Validate())

	overflow := split.ConfigBounds{PlatformFeeBps: 10001}
	require.Error(t, overflow.Validate())
}
