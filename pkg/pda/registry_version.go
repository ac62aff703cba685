package pda

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// AccountExistsFunc reports whether an account is initialized on-chain.
// A missing account is (false, nil); transport failures are returned as-is.
type AccountExistsFunc func(ctx context.Context, addr solana.PublicKey) (bool, error)

// DetectRegistryVersion reports which token registry derivation is actually
// initialized. A deployment that upgraded its seed tag without migrating
// leaves the v2 account populated and the v4 address empty; tooling uses
// this to report the mismatch instead of silently reading the wrong account.
func DetectRegistryVersion(ctx context.Context, exists AccountExistsFunc) (RegistryVersion, Derived, error) {
	v4, err := TokenRegistry()
	if err != nil {
		return RegistryVersionUnknown, Derived{}, err
	}
	ok, err := exists(ctx, v4.Address)
	if err != nil {
		return RegistryVersionUnknown, Derived{}, err
	}
	if ok {
		return RegistryV4, v4, nil
	}

	v2, err := LegacyTokenRegistry()
	if err != nil {
		return RegistryVersionUnknown, Derived{}, err
	}
	ok, err = exists(ctx, v2.Address)
	if err != nil {
		return RegistryVersionUnknown, Derived{}, err
	}
	if ok {
		return RegistryV2, v2, nil
	}
	return RegistryVersionUnknown, Derived{}, nil
}
