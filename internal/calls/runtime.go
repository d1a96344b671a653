package calls

import (
	"math/big"
)

// Parachain runtime calls.

func AssetsForceCreate(id uint32, owner [32]byte, sufficient bool, minBalance uint64) Call {
	return New("Assets", "force_create",
		NewCompact(uint64(id)), Address(owner), Bool(sufficient), NewCompact(minBalance),
	).WithNote("asset %d", id)
}

func AssetsForceSetMetadata(id uint32, name, symbol string, decimals uint8, frozen bool) Call {
	return New("Assets", "force_set_metadata",
		NewCompact(uint64(id)), Bytes(name), Bytes(symbol), U8(decimals), Bool(frozen),
	).WithNote("%s(%s)", name, symbol)
}

func AssetsMint(id uint32, beneficiary [32]byte, amount *big.Int) Call {
	return New("Assets", "mint",
		NewCompact(uint64(id)), Address(beneficiary), CompactBig(amount),
	).WithNote("asset %d amount %s", id, amount)
}

func LoansAddMarket(assetID uint32, market Market) Call {
	return New("Loans", "add_market", U32(assetID), market).
		WithNote("asset %d ptoken %d", assetID, market.PTokenID)
}

func LoansActivateMarket(assetID uint32) Call {
	return New("Loans", "activate_market", U32(assetID)).WithNote("asset %d", assetID)
}

func LoansUpdateMarketRewardSpeed(assetID uint32, supply, borrow *big.Int) Call {
	return New("Loans", "update_market_reward_speed",
		U32(assetID), Some(NewU128(supply)), Some(NewU128(borrow)),
	).WithNote("asset %d supply %s borrow %s", assetID, supply, borrow)
}

func CrowdloansCreateVault(paraID, ctokenID, leaseStart, leaseEnd uint32, cap *big.Int, endBlock uint32) Call {
	return New("Crowdloans", "create_vault",
		U32(paraID), U32(ctokenID), U32(leaseStart), U32(leaseEnd),
		ContributionXCM, CompactBig(cap), U32(endBlock),
	).WithNote("para %d ctoken %d", paraID, ctokenID)
}

func CrowdloansOpen(paraID uint32) Call {
	return New("Crowdloans", "open", U32(paraID)).WithNote("para %d", paraID)
}

func AMMCreatePool(pair [2]uint32, amounts [2]*big.Int, receiver [32]byte, lpToken uint32) Call {
	return New("AMM", "create_pool",
		Tuple{U32(pair[0]), U32(pair[1])},
		Tuple{NewU128(amounts[0]), NewU128(amounts[1])},
		AccountID(receiver),
		U32(lpToken),
	).WithNote("%d/%d lp %d", pair[0], pair[1], lpToken)
}

func BridgeMembershipAddMember(who [32]byte) Call {
	return New("BridgeMembership", "add_member", Address(who))
}

func BridgeRegisterChain(chainID uint8) Call {
	return New("Bridge", "register_chain", U8(chainID)).WithNote("chain %d", chainID)
}

func BridgeRegisterBridgeToken(assetID uint32, token BridgeToken) Call {
	return New("Bridge", "register_bridge_token", U32(assetID), token).
		WithNote("asset %d token %d", assetID, token.ID)
}

func LiquidStakingUpdateStakingLedgerCap(cap *big.Int) Call {
	return New("LiquidStaking", "update_staking_ledger_cap", CompactBig(cap))
}

func LiquidStakingForceSetEraStartBlock(block uint32) Call {
	return New("LiquidStaking", "force_set_era_start_block", U32(block))
}

func LiquidStakingForceSetCurrentEra(era uint32) Call {
	return New("LiquidStaking", "force_set_current_era", U32(era))
}

// LiquidStakingSetStakingLedger relays a ledger read from the relay chain.
// ledger is the raw SCALE value as stored on the relay chain.
func LiquidStakingSetStakingLedger(derivativeIndex uint16, ledger []byte, proof [][]byte) Call {
	return New("LiquidStaking", "set_staking_ledger", U16(derivativeIndex), Raw(ledger), Proof(proof)).
		WithNote("derivative %d", derivativeIndex)
}

func LiquidStakingSetCurrentEra(era uint32, proof [][]byte) Call {
	return New("LiquidStaking", "set_current_era", U32(era), Proof(proof)).WithNote("era %d", era)
}

func XcmHelperUpdateXcmFees(fees *big.Int) Call {
	return New("XcmHelper", "update_xcm_fees", CompactBig(fees)).WithNote("fees %s", fees)
}

func FarmingCreate(asset, rewardAsset, lockDuration, coolDownDuration uint32) Call {
	return New("Farming", "create",
		U32(asset), U32(rewardAsset), U32(lockDuration), U32(coolDownDuration),
	).WithNote("asset %d reward %d", asset, rewardAsset)
}

func FarmingSetPoolStatus(asset, rewardAsset, lockDuration uint32, active bool) Call {
	return New("Farming", "set_pool_status",
		U32(asset), U32(rewardAsset), U32(lockDuration), Bool(active),
	).WithNote("asset %d active %t", asset, active)
}

func FarmingDispatchReward(asset, rewardAsset, lockDuration uint32, payer [32]byte, amount *big.Int, duration uint32) Call {
	return New("Farming", "dispatch_reward",
		U32(asset), U32(rewardAsset), U32(lockDuration), Address(payer), CompactBig(amount), U32(duration),
	).WithNote("asset %d amount %s over %d blocks", asset, amount, duration)
}

func OrmlXcmSendAsSovereign(dest, message interface{}) Call {
	return New("OrmlXcm", "send_as_sovereign", dest, message)
}

func PolkadotXcmSend(dest, message interface{}) Call {
	return New("PolkadotXcm", "send", dest, message)
}

func PreimageNotePreimage(bytes []byte) Call {
	return New("Preimage", "note_preimage", Bytes(bytes)).WithNote("%d bytes", len(bytes))
}

func DemocracyExternalProposeMajority(hash [32]byte) Call {
	return New("Democracy", "external_propose_majority", Bounded{Legacy: hash})
}

func ParachainSystemAuthorizeUpgrade(codeHash [32]byte) Call {
	return New("ParachainSystem", "authorize_upgrade", Hash(codeHash))
}

// Shared by both chains.

func BalancesTransfer(dest [32]byte, amount *big.Int) Call {
	return New("Balances", "transfer", Address(dest), CompactBig(amount)).WithNote("amount %s", amount)
}

// Relay chain runtime calls.

func RegistrarForceRegister(who [32]byte, deposit *big.Int, paraID uint32, genesisHead, validationCode []byte) Call {
	return New("Registrar", "force_register",
		AccountID(who), NewU128(deposit), U32(paraID), Bytes(genesisHead), Bytes(validationCode),
	).WithNote("para %d", paraID)
}

func AuctionsNewAuction(duration, leaseIndex uint32) Call {
	return New("Auctions", "new_auction", NewCompact(uint64(duration)), NewCompact(uint64(leaseIndex))).
		WithNote("duration %d lease %d", duration, leaseIndex)
}

func CrowdloanCreate(paraID uint32, cap *big.Int, firstPeriod, lastPeriod, end uint32) Call {
	return New("Crowdloan", "create",
		NewCompact(uint64(paraID)), CompactBig(cap),
		NewCompact(uint64(firstPeriod)), NewCompact(uint64(lastPeriod)), NewCompact(uint64(end)),
		None(),
	).WithNote("para %d", paraID)
}

func HrmpInitOpenChannel(recipient, maxCapacity, maxMessageSize uint32) Call {
	return New("Hrmp", "hrmp_init_open_channel", U32(recipient), U32(maxCapacity), U32(maxMessageSize)).
		WithNote("to %d", recipient)
}

func HrmpAcceptOpenChannel(sender uint32) Call {
	return New("Hrmp", "hrmp_accept_open_channel", U32(sender)).WithNote("from %d", sender)
}
