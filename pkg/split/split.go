// Package split computes the deterministic charity/host/prize/platform fund
// distribution. The same rounding rule runs on-chain at settlement; the two
// must never diverge, so every amount here uses the identical
// floor(total*bps/10000) computation and charity absorbs the remainder.
package split

import (
	"math/bits"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

// TotalBps is one hundred percent in basis points.
const TotalBps = constants.TotalBps

// Shares is the computed distribution. The four amounts always sum exactly
// to the input total; charity takes the rounding dust.
type Shares struct {
	Charity  uint64
	Host     uint64
	Prize    uint64
	Platform uint64
}

// Total returns the sum of all four buckets.
func (s Shares) Total() uint64 {
	return s.Charity + s.Host + s.Prize + s.Platform
}

// Bps applies a basis-point share to an amount with flooring through the
// same widened multiply the program's u128 math uses, so rounding matches
// bit-for-bit.
func Bps(amount uint64, bps uint16) uint64 {
	hi, lo := bits.Mul64(amount, uint64(bps))
	q, _ := bits.Div64(hi, lo, TotalBps)
	return q
}

// Split distributes totalCollected into the four buckets. Host, prize, and
// platform are floored bps shares of the total; charity is the exact
// remainder, guaranteeing conservation with zero leftover.
func Split(totalCollected uint64, hostBps, prizeBps, platformBps uint16) (Shares, error) {
	if err := types.ValidateBps("hostBps", hostBps); err != nil {
		return Shares{}, err
	}
	if err := types.ValidateBps("prizeBps", prizeBps); err != nil {
		return Shares{}, err
	}
	if err := types.ValidateBps("platformBps", platformBps); err != nil {
		return Shares{}, err
	}
	sum := uint32(hostBps) + uint32(prizeBps) + uint32(platformBps)
	if sum > TotalBps {
		return Shares{}, types.NewValidationError("bps", "host+prize+platform must be <= 10000")
	}
	if err := types.ValidateAmount("totalCollected", totalCollected, true); err != nil {
		return Shares{}, err
	}

	host := Bps(totalCollected, hostBps)
	prize := Bps(totalCollected, prizeBps)
	platform := Bps(totalCollected, platformBps)
	charity := totalCollected - host - prize - platform

	return Shares{
		Charity:  charity,
		Host:     host,
		Prize:    prize,
		Platform: platform,
	}, nil
}

// SplitWithExtras mirrors settlement exactly: bps shares apply to entry fees
// only, and extras go to charity in full on top of the entry-fee remainder.
func SplitWithExtras(entryFees, extras uint64, hostBps, prizeBps, platformBps uint16) (Shares, error) {
	s, err := Split(entryFees, hostBps, prizeBps, platformBps)
	if err != nil {
		return Shares{}, err
	}
	if err := types.ValidateAmount("extras", extras, true); err != nil {
		return Shares{}, err
	}
	s.Charity += extras
	return s, nil
}

// RecoverySplit computes the admin-recovery distribution: 10% to the
// platform, the rest refunded pro rata across playerCount players. The
// per-player floor remainder stays with the refund pool's first recipient
// on-chain; here we report pool and per-player amounts.
func RecoverySplit(totalCollected uint64, playerCount uint32) (platform, refundPool, perPlayer uint64, err error) {
	if totalCollected == 0 {
		return 0, 0, 0, types.ErrNoFundsToRecover
	}
	if playerCount == 0 {
		return 0, 0, 0, types.ErrNoPlayersFound
	}
	platform = Bps(totalCollected, 1000)
	refundPool = totalCollected - platform
	perPlayer = refundPool / uint64(playerCount)
	return platform, refundPool, perPlayer, nil
}

// ConfigBounds holds the four GlobalConfig bps fields subject to the
// cross-field invariant.
type ConfigBounds struct {
	PlatformFeeBps  uint16
	MaxHostFeeBps   uint16
	MaxPrizePoolBps uint16
	MinCharityBps   uint16
}

// Validate enforces platform + maxHost + maxPrize <= 10000 - minCharity.
// Any accepted GlobalConfig must satisfy it; updates are rejected locally
// before submission when they would not.
func (b ConfigBounds) Validate() error {
	for name, v := range map[string]uint16{
		"platformFeeBps":  b.PlatformFeeBps,
		"maxHostFeeBps":   b.MaxHostFeeBps,
		"maxPrizePoolBps": b.MaxPrizePoolBps,
		"minCharityBps":   b.MinCharityBps,
	} {
		if err := types.ValidateBps(name, v); err != nil {
			return err
		}
	}
	sum := uint32(b.PlatformFeeBps) + uint32(b.MaxHostFeeBps) + uint32(b.MaxPrizePoolBps) + uint32(b.MinCharityBps)
	if sum > TotalBps {
		return types.NewValidationError("bps", "platform+maxHost+maxPrize+minCharity must be <= 10000")
	}
	return nil
}
