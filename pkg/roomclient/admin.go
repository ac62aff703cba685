package roomclient

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/constants"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/pda"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/split"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/wallet"
)

// Initialize performs the one-time platform setup, creating the global
// config with the signer as admin. Fails if the config already exists.
func (c *Client) Initialize(ctx context.Context, admin wallet.Signer, platformWallet, charityWallet solana.PublicKey) (types.Outcome, error) {
	if admin == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"platformWallet": platformWallet,
		"charityWallet":  charityWallet,
	}); err != nil {
		return types.Outcome{}, err
	}

	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return types.Outcome{}, err
	}
	exists, err := c.accountExists(ctx, configPDA.Address)
	if err != nil {
		return types.Outcome{}, err
	}
	if exists {
		return types.Outcome{}, types.NewValidationError("globalConfig", "already initialized")
	}

	ix, err := room.BuildInitialize(room.InitializeAccounts{
		GlobalConfig:  configPDA.Address,
		Admin:         admin.PublicKey(),
		SystemProgram: constants.SystemProgramID,
	}, room.InitializeArgs{
		PlatformWallet: platformWallet,
		CharityWallet:  charityWallet,
	})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "initialize", admin, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		return c.accountExists(ctx, configPDA.Address)
	})
}

// ConfigPatch carries optional global config updates; nil fields are left
// unchanged.
type ConfigPatch struct {
	PlatformWallet  *solana.PublicKey
	CharityWallet   *solana.PublicKey
	PlatformFeeBps  *uint16
	MaxHostFeeBps   *uint16
	MaxPrizePoolBps *uint16
	MinCharityBps   *uint16
}

func (p ConfigPatch) empty() bool {
	return p.PlatformWallet == nil && p.CharityWallet == nil &&
		p.PlatformFeeBps == nil && p.MaxHostFeeBps == nil &&
		p.MaxPrizePoolBps == nil && p.MinCharityBps == nil
}

// UpdateGlobalConfig applies a partial config update. The merged result is
// bounds-checked locally before submission so an update that would leave the
// platform unable to pay its charity floor never reaches the chain.
func (c *Client) UpdateGlobalConfig(ctx context.Context, admin wallet.Signer, patch ConfigPatch) (types.Outcome, error) {
	if admin == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	if patch.empty() {
		return types.Outcome{}, types.NewValidationError("patch", "no fields to update")
	}

	cfg, err := c.GlobalConfig(ctx)
	if err != nil {
		return types.Outcome{}, err
	}
	// The program accepts the upgrade authority alongside the stored admin
	// for config updates, so the local check mirrors both.
	if !cfg.Admin.Equals(admin.PublicKey()) && !admin.PublicKey().Equals(constants.UpgradeAuthority) {
		return types.Outcome{}, types.ErrNotAdmin
	}

	merged := split.ConfigBounds{
		PlatformFeeBps:  cfg.PlatformFeeBps,
		MaxHostFeeBps:   cfg.MaxHostFeeBps,
		MaxPrizePoolBps: cfg.MaxPrizePoolBps,
		MinCharityBps:   cfg.MinCharityBps,
	}
	if patch.PlatformFeeBps != nil {
		merged.PlatformFeeBps = *patch.PlatformFeeBps
	}
	if patch.MaxHostFeeBps != nil {
		merged.MaxHostFeeBps = *patch.MaxHostFeeBps
	}
	if patch.MaxPrizePoolBps != nil {
		merged.MaxPrizePoolBps = *patch.MaxPrizePoolBps
	}
	if patch.MinCharityBps != nil {
		merged.MinCharityBps = *patch.MinCharityBps
	}
	if err := merged.Validate(); err != nil {
		return types.Outcome{}, err
	}
	if patch.PlatformWallet != nil {
		if err := types.ValidatePublicKey("platformWallet", *patch.PlatformWallet); err != nil {
			return types.Outcome{}, err
		}
	}
	if patch.CharityWallet != nil {
		if err := types.ValidatePublicKey("charityWallet", *patch.CharityWallet); err != nil {
			return types.Outcome{}, err
		}
	}

	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return types.Outcome{}, err
	}
	ix, err := room.BuildUpdateGlobalConfig(room.UpdateGlobalConfigAccounts{
		GlobalConfig: configPDA.Address,
		Admin:        admin.PublicKey(),
	}, room.UpdateGlobalConfigArgs{
		PlatformWallet:  patch.PlatformWallet,
		CharityWallet:   patch.CharityWallet,
		PlatformFeeBps:  patch.PlatformFeeBps,
		MaxHostFeeBps:   patch.MaxHostFeeBps,
		MaxPrizePoolBps: patch.MaxPrizePoolBps,
		MinCharityBps:   patch.MinCharityBps,
	})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "update_global_config", admin, []solana.Instruction{ix}, nil)
}

// SetEmergencyPause toggles the platform circuit breaker. While paused,
// room creation and joins are refused both here and on-chain.
func (c *Client) SetEmergencyPause(ctx context.Context, admin wallet.Signer, paused bool) (types.Outcome, error) {
	if admin == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	cfg, err := c.GlobalConfig(ctx)
	if err != nil {
		return types.Outcome{}, err
	}
	if !cfg.Admin.Equals(admin.PublicKey()) {
		return types.Outcome{}, types.ErrNotAdmin
	}
	if cfg.Paused == paused {
		return types.Outcome{}, types.NewValidationError("paused", "already in the requested state")
	}

	configPDA, err := pda.GlobalConfig()
	if err != nil {
		return types.Outcome{}, err
	}
	ix, err := room.BuildSetEmergencyPause(room.SetEmergencyPauseAccounts{
		GlobalConfig: configPDA.Address,
		Admin:        admin.PublicKey(),
	}, room.SetEmergencyPauseArgs{Paused: paused})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "set_emergency_pause", admin, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		cur, err := c.GlobalConfig(ctx)
		if err != nil {
			return false, err
		}
		return cur.Paused == paused, nil
	})
}

// InitializeTokenRegistry creates the approved-token registry on its
// canonical derivation. Fails if it already exists on either derivation.
func (c *Client) InitializeTokenRegistry(ctx context.Context, admin wallet.Signer) (types.Outcome, error) {
	if admin == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	version, _, err := pda.DetectRegistryVersion(ctx, c.accountExists)
	if err != nil {
		return types.Outcome{}, err
	}
	if version != pda.RegistryVersionUnknown {
		return types.Outcome{}, types.NewValidationError("tokenRegistry", "already initialized as "+string(version))
	}

	registryPDA, err := pda.TokenRegistry()
	if err != nil {
		return types.Outcome{}, err
	}
	ix, err := room.BuildInitializeTokenRegistry(room.InitializeTokenRegistryAccounts{
		TokenRegistry: registryPDA.Address,
		Admin:         admin.PublicKey(),
		SystemProgram: constants.SystemProgramID,
	})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "initialize_token_registry", admin, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		return c.accountExists(ctx, registryPDA.Address)
	})
}

// AddApprovedToken adds a mint to the fee-token allow list.
func (c *Client) AddApprovedToken(ctx context.Context, admin wallet.Signer, mint solana.PublicKey) (types.Outcome, error) {
	if admin == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	if err := types.ValidatePublicKey("mint", mint); err != nil {
		return types.Outcome{}, err
	}
	registry, err := c.TokenRegistry(ctx)
	if err != nil {
		return types.Outcome{}, err
	}
	if !registry.Admin.Equals(admin.PublicKey()) {
		return types.Outcome{}, types.ErrNotAdmin
	}
	if registry.Contains(mint) {
		return types.Outcome{}, types.ErrAlreadyApproved
	}
	if len(registry.ApprovedTokens) >= constants.TokenRegistryCap {
		return types.Outcome{}, types.ErrRegistryFull
	}

	registryPDA, err := pda.TokenRegistry()
	if err != nil {
		return types.Outcome{}, err
	}
	ix, err := room.BuildAddApprovedToken(room.ApprovedTokenAccounts{
		TokenRegistry: registryPDA.Address,
		Admin:         admin.PublicKey(),
	}, room.ApprovedTokenArgs{TokenMint: mint})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "add_approved_token", admin, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		cur, err := c.TokenRegistry(ctx)
		if err != nil {
			return false, err
		}
		return cur.Contains(mint), nil
	})
}

// RemoveApprovedToken removes a mint from the allow list. Rooms already
// using the mint are unaffected; only new room creation is blocked.
func (c *Client) RemoveApprovedToken(ctx context.Context, admin wallet.Signer, mint solana.PublicKey) (types.Outcome, error) {
	if admin == nil {
		return types.Outcome{}, types.ErrNilSigner
	}
	if err := types.ValidatePublicKey("mint", mint); err != nil {
		return types.Outcome{}, err
	}
	registry, err := c.TokenRegistry(ctx)
	if err != nil {
		return types.Outcome{}, err
	}
	if !registry.Admin.Equals(admin.PublicKey()) {
		return types.Outcome{}, types.ErrNotAdmin
	}
	if !registry.Contains(mint) {
		return types.Outcome{}, types.ErrTokenNotApproved
	}

	registryPDA, err := pda.TokenRegistry()
	if err != nil {
		return types.Outcome{}, err
	}
	ix, err := room.BuildRemoveApprovedToken(room.ApprovedTokenAccounts{
		TokenRegistry: registryPDA.Address,
		Admin:         admin.PublicKey(),
	}, room.ApprovedTokenArgs{TokenMint: mint})
	if err != nil {
		return types.Outcome{}, err
	}
	return c.execute(ctx, "remove_approved_token", admin, []solana.Instruction{ix}, func(ctx context.Context) (bool, error) {
		cur, err := c.TokenRegistry(ctx)
		if err != nil {
			return false, err
		}
		return !cur.Contains(mint), nil
	})
}
