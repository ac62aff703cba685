package types

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
)

// ValidateRoomID checks id length and content against the on-chain rules.
func ValidateRoomID(roomID string) error {
	if len(roomID) == 0 || len(roomID) > constants.MaxRoomIDLen {
		return NewValidationError("roomID", fmt.Sprintf("must be 1-%d bytes", constants.MaxRoomIDLen))
	}
	if strings.ContainsRune(roomID, 0) {
		return NewValidationError("roomID", "must not contain NUL bytes")
	}
	return nil
}

// ValidateCharityMemo checks memo length and content.
func ValidateCharityMemo(memo string) error {
	if len(memo) > constants.MaxCharityMemoLen {
		return NewValidationError("charityMemo", fmt.Sprintf("must be at most %d bytes", constants.MaxCharityMemoLen))
	}
	if strings.ContainsRune(memo, 0) {
		return NewValidationError("charityMemo", "must not contain NUL bytes")
	}
	return nil
}

// ValidateBps checks a single basis-point value.
func ValidateBps(name string, bps uint16) error {
	if bps > constants.TotalBps {
		return NewValidationError(name, fmt.Sprintf("must be <= %d (100%%)", constants.TotalBps))
	}
	return nil
}

// ValidatePublicKey validates a public key is not zero.
func ValidatePublicKey(name string, key solana.PublicKey) error {
	if key.IsZero() {
		return NewValidationError(name, "cannot be zero")
	}
	return nil
}

// ValidatePublicKeys validates multiple public keys.
func ValidatePublicKeys(keys map[string]solana.PublicKey) error {
	for name, key := range keys {
		if err := ValidatePublicKey(name, key); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAmount rejects zero (unless allowed) and amounts beyond the safe
// ceiling the program's checked math tolerates.
func ValidateAmount(name string, amount uint64, allowZero bool) error {
	if !allowZero && amount == 0 {
		return NewValidationError(name, "must be greater than 0")
	}
	if amount > constants.MaxSafeAmount {
		return NewValidationError(name, "exceeds maximum safe amount")
	}
	return nil
}
