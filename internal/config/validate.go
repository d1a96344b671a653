package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/calls"
)

var (
	// ErrDanglingReference is returned when an asset id does not resolve
	// to a declared asset.
	ErrDanglingReference = errors.New("dangling asset reference")
	ErrDuplicate         = errors.New("duplicate entry")
	ErrInvalid           = errors.New("invalid value")
)

// Validate checks the config before any network call is made. All
// violations are reported together.
func (c *NetworkConfig) Validate() error {
	var errs error

	declared := make(map[uint32]bool, len(c.Assets))
	for i, a := range c.Assets {
		if declared[a.AssetID] {
			errs = multierr.Append(errs, fmt.Errorf("assets[%d]: asset id %d: %w", i, a.AssetID, ErrDuplicate))
		}
		declared[a.AssetID] = true
		if a.AssetID == NativeAssetID {
			errs = multierr.Append(errs, fmt.Errorf("assets[%d]: asset id 0 is the native currency: %w", i, ErrInvalid))
		}
		for j, b := range a.Balances {
			errs = multierr.Append(errs, checkAddress(fmt.Sprintf("assets[%d].balances[%d]", i, j), b.Account))
		}
	}

	resolves := func(id uint32) bool {
		return id == NativeAssetID || declared[id]
	}
	ref := func(field string, id uint32) error {
		if resolves(id) {
			return nil
		}
		return fmt.Errorf("%s: asset %d: %w", field, id, ErrDanglingReference)
	}

	errs = multierr.Append(errs, ref("relayAsset", c.RelayAsset))
	if c.LiquidAsset != 0 {
		errs = multierr.Append(errs, ref("liquidAsset", c.LiquidAsset))
	}
	if c.StakingAsset != 0 {
		errs = multierr.Append(errs, ref("stakingAsset", c.StakingAsset))
	}

	if _, err := c.ByteOrder(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("derivativeIndexByteOrder: %w", err))
	}

	for i, m := range c.Markets {
		errs = multierr.Append(errs, ref(fmt.Sprintf("markets[%d].assetId", i), m.AssetID))
	}
	// ptokens are minted by the loans pallet when the market is added,
	// so they must not collide with declared assets or with each other.
	marketAssets := make(map[uint32]bool)
	ptokens := make(map[uint32]uint32)
	for _, m := range c.AllMarkets() {
		if marketAssets[m.AssetID] {
			errs = multierr.Append(errs, fmt.Errorf("market of asset %d: %w", m.AssetID, ErrDuplicate))
		}
		marketAssets[m.AssetID] = true

		o := m.Options
		if declared[o.PTokenID] {
			errs = multierr.Append(errs, fmt.Errorf("market of asset %d: ptokenId %d collides with a declared asset: %w", m.AssetID, o.PTokenID, ErrInvalid))
		}
		if other, dup := ptokens[o.PTokenID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("market of asset %d: ptokenId %d already used by asset %d: %w", m.AssetID, o.PTokenID, other, ErrDuplicate))
		}
		ptokens[o.PTokenID] = m.AssetID
		errs = multierr.Append(errs, o.validate(m.AssetID))
	}

	paraIDs := make(map[uint32]bool)
	indexes := make(map[uint16]uint32)
	for i, cl := range c.Crowdloans {
		field := fmt.Sprintf("crowdloans[%d]", i)
		errs = multierr.Append(errs, ref(field+".ctokenId", cl.CTokenID))
		if paraIDs[cl.ParaID] {
			errs = multierr.Append(errs, fmt.Errorf("%s: paraId %d: %w", field, cl.ParaID, ErrDuplicate))
		}
		paraIDs[cl.ParaID] = true
		if other, dup := indexes[cl.DerivativeIndex]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: derivativeIndex %d already used by para %d: %w", field, cl.DerivativeIndex, other, ErrDuplicate))
		}
		indexes[cl.DerivativeIndex] = cl.ParaID
		if cl.LeaseStart > cl.LeaseEnd {
			errs = multierr.Append(errs, fmt.Errorf("%s: leaseStart %d after leaseEnd %d: %w", field, cl.LeaseStart, cl.LeaseEnd, ErrInvalid))
		}
		if cl.Cap.IsZero() {
			errs = multierr.Append(errs, fmt.Errorf("%s: cap must be positive: %w", field, ErrInvalid))
		}
	}

	for i, p := range c.Pools {
		field := fmt.Sprintf("pools[%d]", i)
		errs = multierr.Append(errs, ref(field+".pool[0]", p.Pool[0]))
		errs = multierr.Append(errs, ref(field+".pool[1]", p.Pool[1]))
		errs = multierr.Append(errs, ref(field+".liquidityProviderToken", p.LiquidityProviderToken))
		errs = multierr.Append(errs, checkAddress(field+".lptokenReceiver", p.LPTokenReceiver))
		if p.Pool[0] == p.Pool[1] {
			errs = multierr.Append(errs, fmt.Errorf("%s: pool pairs asset %d with itself: %w", field, p.Pool[0], ErrInvalid))
		}
	}

	for i, m := range c.Bridge.Members {
		errs = multierr.Append(errs, checkAddress(fmt.Sprintf("bridge.members[%d]", i), m))
	}
	for i, t := range c.Bridge.BridgeTokens {
		errs = multierr.Append(errs, ref(fmt.Sprintf("bridge.bridgeTokens[%d].assetId", i), t.AssetID))
	}

	for i, f := range c.FarmPools {
		field := fmt.Sprintf("farmPools[%d]", i)
		errs = multierr.Append(errs, ref(field+".assetId", f.AssetID))
		errs = multierr.Append(errs, ref(field+".rewardAssetId", f.RewardAssetID))
		if f.RewardPayer != "" {
			errs = multierr.Append(errs, checkAddress(field+".rewardPayer", f.RewardPayer))
		}
	}

	return errs
}

func (o MarketOptions) validate(assetID uint32) error {
	var errs error
	for name, v := range map[string]uint32{
		"collateralFactor":                 o.CollateralFactor,
		"liquidationThreshold":             o.LiquidationThreshold,
		"reserveFactor":                    o.ReserveFactor,
		"closeFactor":                      o.CloseFactor,
		"liquidateIncentiveReservedFactor": o.LiquidateIncentiveReservedFactor,
	} {
		if v > 1_000_000 {
			errs = multierr.Append(errs, fmt.Errorf("market of asset %d: %s %d exceeds 100%%: %w", assetID, name, v, ErrInvalid))
		}
	}
	if o.RateModel.JumpModel == nil && o.RateModel.CurveModel == nil {
		errs = multierr.Append(errs, fmt.Errorf("market of asset %d: rateModel needs jumpModel or curveModel: %w", assetID, ErrInvalid))
	}
	if _, err := calls.ParseMarketState(o.State); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("market of asset %d: %v: %w", assetID, err, ErrInvalid))
	}
	return errs
}

func checkAddress(field, addr string) error {
	if _, err := address.AccountID(addr); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
