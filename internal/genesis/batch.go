// Package genesis turns a network config into the privileged call
// batches that bootstrap a parachain and its relay chain, and submits
// them.
package genesis

import (
	"fmt"
	"math/big"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/config"
)

// BuildParachainBatch returns the parachain bootstrap calls in launch
// order: assets, markets, crowdloan vaults, AMM pools, bridge, global
// parameters, farming pools. signer owns the created assets.
func BuildParachainBatch(cfg *config.NetworkConfig, signer [32]byte) ([]calls.Call, error) {
	var batch []calls.Call

	for _, a := range cfg.Assets {
		batch = append(batch,
			calls.Sudo(calls.AssetsForceCreate(a.AssetID, signer, true, config.DefaultAssetMinBalance)),
			calls.Sudo(calls.AssetsForceSetMetadata(a.AssetID, a.Name, a.Symbol, a.Decimal, false)),
		)
		for _, b := range a.Balances {
			who, err := address.AccountID(b.Account)
			if err != nil {
				return nil, fmt.Errorf("asset %d balance: %w", a.AssetID, err)
			}
			batch = append(batch, calls.AssetsMint(a.AssetID, who, b.Amount.Int()))
		}
	}

	for _, m := range cfg.AllMarkets() {
		market, err := MarketFromOptions(m.Options)
		if err != nil {
			return nil, fmt.Errorf("market of asset %d: %w", m.AssetID, err)
		}
		batch = append(batch,
			calls.Sudo(calls.LoansAddMarket(m.AssetID, market)),
			calls.Sudo(calls.LoansActivateMarket(m.AssetID)),
		)
	}

	for _, c := range cfg.Crowdloans {
		batch = append(batch, calls.Sudo(calls.CrowdloansCreateVault(
			c.ParaID, c.CTokenID, c.LeaseStart, c.LeaseEnd, c.Cap.Int(), c.EndBlock,
		)))
		if !c.Pending {
			batch = append(batch, calls.Sudo(calls.CrowdloansOpen(c.ParaID)))
		}
	}

	for _, p := range cfg.Pools {
		receiver, err := address.AccountID(p.LPTokenReceiver)
		if err != nil {
			return nil, fmt.Errorf("pool %d/%d: %w", p.Pool[0], p.Pool[1], err)
		}
		batch = append(batch, calls.Sudo(calls.AMMCreatePool(
			p.Pool,
			[2]*big.Int{p.LiquidityAmounts[0].Int(), p.LiquidityAmounts[1].Int()},
			receiver,
			p.LiquidityProviderToken,
		)))
	}

	for _, m := range cfg.Bridge.Members {
		who, err := address.AccountID(m)
		if err != nil {
			return nil, fmt.Errorf("bridge member: %w", err)
		}
		batch = append(batch, calls.Sudo(calls.BridgeMembershipAddMember(who)))
	}
	for _, id := range cfg.Bridge.ChainIDs {
		batch = append(batch, calls.Sudo(calls.BridgeRegisterChain(id)))
	}
	for _, t := range cfg.Bridge.BridgeTokens {
		batch = append(batch, calls.Sudo(calls.BridgeRegisterBridgeToken(t.AssetID, bridgeToken(t))))
	}

	if !cfg.StakingLedgerCap.IsZero() {
		batch = append(batch, calls.Sudo(calls.LiquidStakingUpdateStakingLedgerCap(cfg.StakingLedgerCap.Int())))
	}
	if !cfg.XcmFees.IsZero() {
		batch = append(batch, calls.Sudo(calls.XcmHelperUpdateXcmFees(cfg.XcmFees.Int())))
	}
	if cfg.EraStartBlock != 0 {
		batch = append(batch, calls.Sudo(calls.LiquidStakingForceSetEraStartBlock(cfg.EraStartBlock)))
	}
	if cfg.CurrentEra != 0 {
		batch = append(batch, calls.Sudo(calls.LiquidStakingForceSetCurrentEra(cfg.CurrentEra)))
	}
	if !cfg.Gift.IsZero() {
		gift := address.PalletAccountID(cfg.GiftPalletID)
		batch = append(batch, calls.BalancesTransfer(gift, cfg.Gift.Int()).WithNote("gift to %s", cfg.GiftPalletID))
	}

	for _, f := range cfg.FarmPools {
		payer := signer
		if f.RewardPayer != "" {
			id, err := address.AccountID(f.RewardPayer)
			if err != nil {
				return nil, fmt.Errorf("farming pool %d: %w", f.AssetID, err)
			}
			payer = id
		}
		batch = append(batch,
			calls.Sudo(calls.FarmingCreate(f.AssetID, f.RewardAssetID, f.LockDuration, f.CoolDownDuration)),
			calls.Sudo(calls.FarmingSetPoolStatus(f.AssetID, f.RewardAssetID, f.LockDuration, true)),
			calls.Sudo(calls.FarmingDispatchReward(
				f.AssetID, f.RewardAssetID, f.LockDuration, payer, f.RewardAmount.Int(), f.RewardDuration,
			)),
		)
	}

	return batch, nil
}

// BuildRegistrations returns one force_register call per crowdloan, in
// config order, for the derivative sub-account of signer.
func BuildRegistrations(cfg *config.NetworkConfig, signer [32]byte, blobs map[uint32]*Genesis) ([]calls.Call, error) {
	order, err := cfg.ByteOrder()
	if err != nil {
		return nil, err
	}

	out := make([]calls.Call, 0, len(cfg.Crowdloans))
	for _, c := range cfg.Crowdloans {
		g, ok := blobs[c.ParaID]
		if !ok || g == nil {
			return nil, fmt.Errorf("no genesis exported for para %d", c.ParaID)
		}
		manager := address.SubAccountID(signer, c.DerivativeIndex, order)
		out = append(out, calls.Sudo(calls.RegistrarForceRegister(
			manager, cfg.ParaDeposit.Int(), c.ParaID, g.State, g.Wasm,
		)))
	}
	return out, nil
}

// BuildRelayBatch returns the relay calls submitted after onboarding:
// the auction, deposits to every derivative sub-account, one crowdloan
// per derivative and the relay asset transfers to the parachain
// sovereign account.
func BuildRelayBatch(cfg *config.NetworkConfig, signer [32]byte) ([]calls.Call, error) {
	order, err := cfg.ByteOrder()
	if err != nil {
		return nil, err
	}

	batch := []calls.Call{
		calls.Sudo(calls.AuctionsNewAuction(cfg.AuctionDuration, cfg.LeaseIndex)),
	}

	for _, c := range cfg.Crowdloans {
		sub := address.SubAccountID(signer, c.DerivativeIndex, order)
		batch = append(batch, calls.BalancesTransfer(sub, cfg.CrowdloanDeposit.Int()).
			WithNote("deposit to derivative #%d", c.DerivativeIndex))
	}

	for _, c := range cfg.Crowdloans {
		batch = append(batch, calls.AsDerivative(c.DerivativeIndex,
			calls.CrowdloanCreate(c.ParaID, c.Cap.Int(), c.LeaseStart, c.LeaseEnd, c.EndBlock),
		))
	}

	if relay, ok := cfg.Asset(cfg.RelayAsset); ok {
		sovereign := address.SovereignRelayID(cfg.ParaID)
		for _, b := range relay.Balances {
			batch = append(batch, calls.BalancesTransfer(sovereign, b.Amount.Int()).
				WithNote("sovereign of para %d", cfg.ParaID))
		}
	}

	return batch, nil
}

// MarketFromOptions converts config market options into the runtime
// market struct.
func MarketFromOptions(o config.MarketOptions) (calls.Market, error) {
	state, err := calls.ParseMarketState(o.State)
	if err != nil {
		return calls.Market{}, err
	}

	var rate calls.RateModel
	switch {
	case o.RateModel.JumpModel != nil:
		j := o.RateModel.JumpModel
		rate.Jump = &calls.JumpModel{
			BaseRate:        j.BaseRate.Int(),
			JumpRate:        j.JumpRate.Int(),
			FullRate:        j.FullRate.Int(),
			JumpUtilization: j.JumpUtilization,
		}
	case o.RateModel.CurveModel != nil:
		rate.Curve = &calls.CurveModel{BaseRate: o.RateModel.CurveModel.BaseRate.Int()}
	default:
		return calls.Market{}, fmt.Errorf("rate model needs jumpModel or curveModel")
	}

	threshold := o.LiquidationThreshold
	if threshold == 0 {
		threshold = o.CollateralFactor
	}

	return calls.Market{
		CollateralFactor:                 o.CollateralFactor,
		LiquidationThreshold:             threshold,
		ReserveFactor:                    o.ReserveFactor,
		CloseFactor:                      o.CloseFactor,
		LiquidateIncentive:               o.LiquidateIncentive.Int(),
		LiquidateIncentiveReservedFactor: o.LiquidateIncentiveReservedFactor,
		RateModel:                        rate,
		State:                            state,
		SupplyCap:                        o.SupplyCap.Or(o.Cap).Int(),
		BorrowCap:                        o.BorrowCap.Or(o.Cap).Int(),
		PTokenID:                         o.PTokenID,
	}, nil
}

func bridgeToken(t config.BridgeToken) calls.BridgeToken {
	enable := true
	if t.Enable != nil {
		enable = *t.Enable
	}
	return calls.BridgeToken{
		ID:        t.ID,
		External:  t.External,
		Fee:       t.Fee.Int(),
		Enable:    enable,
		OutCap:    t.OutCap.Int(),
		OutAmount: new(big.Int),
		InCap:     t.InCap.Int(),
		InAmount:  new(big.Int),
	}
}
