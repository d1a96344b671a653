// Package config holds the network configuration consumed by the genesis
// launcher and the operational commands.
package config

import (
	"github.com/parallel-finance/paractl/internal/address"
)

type contextKey string

var (
	ConfigKey  contextKey = "config"
	EnvKey     contextKey = "env"
	ProfileKey contextKey = "profile"
	LoggerKey  contextKey = "loggerKey"
)

const (
	DefaultGiftPalletID    = "par/gift"
	DefaultAuctionDuration = 201600
	DefaultAssetMinBalance = 1

	// NativeAssetID is the chain's native currency. It always resolves.
	NativeAssetID = 0
)

// NetworkConfig is the static description of a network to bootstrap.
// It is loaded once and never mutated by the launcher.
type NetworkConfig struct {
	Name string `yaml:"name,omitempty"`

	ParaID       uint32 `yaml:"paraId"`
	RelayAsset   uint32 `yaml:"relayAsset"`
	LiquidAsset  uint32 `yaml:"liquidAsset,omitempty"`
	StakingAsset uint32 `yaml:"stakingAsset,omitempty"`

	AuctionDuration uint32 `yaml:"auctionDuration"`
	LeaseIndex      uint32 `yaml:"leaseIndex"`

	// ParaDeposit is the registrar deposit of force_register.
	ParaDeposit Amount `yaml:"paraDeposit,omitempty"`
	// CrowdloanDeposit funds each derivative sub-account on the relay.
	CrowdloanDeposit Amount `yaml:"crowdloanDeposit,omitempty"`

	StakingLedgerCap Amount `yaml:"stakingLedgerCap,omitempty"`
	XcmFees          Amount `yaml:"xcmFees,omitempty"`
	EraStartBlock    uint32 `yaml:"eraStartBlock,omitempty"`
	CurrentEra       uint32 `yaml:"currentEra,omitempty"`

	Gift         Amount `yaml:"gift,omitempty"`
	GiftPalletID string `yaml:"giftPalletId,omitempty"`

	// DerivativeIndexByteOrder is "be" (default) or "le".
	DerivativeIndexByteOrder string `yaml:"derivativeIndexByteOrder,omitempty"`

	SS58Prefix      uint16 `yaml:"ss58Prefix"`
	RelaySS58Prefix uint16 `yaml:"relaySs58Prefix"`

	Assets     []Asset     `yaml:"assets"`
	Markets    []MarketRef `yaml:"markets,omitempty"`
	Crowdloans []Crowdloan `yaml:"crowdloans,omitempty"`
	Pools      []Pool      `yaml:"pools,omitempty"`
	Bridge     Bridge      `yaml:"bridge,omitempty"`
	FarmPools  []FarmPool  `yaml:"farmPools,omitempty"`
}

type Asset struct {
	Name         string         `yaml:"name"`
	Symbol       string         `yaml:"symbol"`
	AssetID      uint32         `yaml:"assetId"`
	Decimal      uint8          `yaml:"decimal"`
	MarketOption *MarketOptions `yaml:"marketOption,omitempty"`
	Balances     []Balance      `yaml:"balances,omitempty"`
}

// MarketRef attaches a market to an asset declared elsewhere.
type MarketRef struct {
	AssetID      uint32        `yaml:"assetId"`
	MarketConfig MarketOptions `yaml:"marketConfig"`
}

// MarketOptions are the loans market parameters. Ratios are Permill
// (1e6 = 100%), rates FixedU128 (1e18 = 100%).
type MarketOptions struct {
	CollateralFactor                 uint32    `yaml:"collateralFactor"`
	LiquidationThreshold             uint32    `yaml:"liquidationThreshold,omitempty"`
	ReserveFactor                    uint32    `yaml:"reserveFactor"`
	CloseFactor                      uint32    `yaml:"closeFactor"`
	LiquidateIncentive               Amount    `yaml:"liquidateIncentive"`
	LiquidateIncentiveReservedFactor uint32    `yaml:"liquidateIncentiveReservedFactor,omitempty"`
	RateModel                        RateModel `yaml:"rateModel"`
	State                            string    `yaml:"state,omitempty"`
	SupplyCap                        Amount    `yaml:"supplyCap,omitempty"`
	BorrowCap                        Amount    `yaml:"borrowCap,omitempty"`
	// Cap is the single cap of older runtimes, used for both supply and
	// borrow when they are not set.
	Cap      Amount `yaml:"cap,omitempty"`
	PTokenID uint32 `yaml:"ptokenId"`
}

type RateModel struct {
	JumpModel  *JumpModel  `yaml:"jumpModel,omitempty"`
	CurveModel *CurveModel `yaml:"curveModel,omitempty"`
}

type JumpModel struct {
	BaseRate        Amount `yaml:"baseRate"`
	JumpRate        Amount `yaml:"jumpRate"`
	FullRate        Amount `yaml:"fullRate"`
	JumpUtilization uint32 `yaml:"jumpUtilization"`
}

type CurveModel struct {
	BaseRate Amount `yaml:"baseRate"`
}

// Market is a resolved (asset, options) pair.
type Market struct {
	AssetID uint32
	Options MarketOptions
}

type Crowdloan struct {
	ParaID          uint32 `yaml:"paraId"`
	DerivativeIndex uint16 `yaml:"derivativeIndex"`
	Image           string `yaml:"image,omitempty"`
	Chain           string `yaml:"chain,omitempty"`
	CTokenID        uint32 `yaml:"ctokenId"`
	Cap             Amount `yaml:"cap"`
	EndBlock        uint32 `yaml:"endBlock"`
	LeaseStart      uint32 `yaml:"leaseStart"`
	LeaseEnd        uint32 `yaml:"leaseEnd"`
	Pending         bool   `yaml:"pending,omitempty"`
}

type Pool struct {
	Pool                   [2]uint32 `yaml:"pool"`
	LiquidityAmounts       [2]Amount `yaml:"liquidityAmounts"`
	LPTokenReceiver        string    `yaml:"lptokenReceiver"`
	LiquidityProviderToken uint32    `yaml:"liquidityProviderToken"`
}

type Bridge struct {
	Members      []string      `yaml:"members,omitempty"`
	ChainIDs     []uint8       `yaml:"chainIds,omitempty"`
	BridgeTokens []BridgeToken `yaml:"bridgeTokens,omitempty"`
}

type BridgeToken struct {
	AssetID  uint32 `yaml:"assetId"`
	ID       uint32 `yaml:"id"`
	External bool   `yaml:"external"`
	Fee      Amount `yaml:"fee"`
	Enable   *bool  `yaml:"enable,omitempty"`
	OutCap   Amount `yaml:"outCap,omitempty"`
	InCap    Amount `yaml:"inCap,omitempty"`
}

type FarmPool struct {
	AssetID          uint32 `yaml:"assetId"`
	RewardAssetID    uint32 `yaml:"rewardAssetId"`
	LockDuration     uint32 `yaml:"lockDuration"`
	CoolDownDuration uint32 `yaml:"coolDownDuration"`
	RewardAmount     Amount `yaml:"rewardAmount"`
	RewardDuration   uint32 `yaml:"rewardDuration"`
	// RewardPayer defaults to the parachain signer.
	RewardPayer string `yaml:"rewardPayer,omitempty"`
}

// AllMarkets returns the markets declared inline on assets followed by
// the ones in the markets list, in declaration order.
func (c *NetworkConfig) AllMarkets() []Market {
	var out []Market
	for _, a := range c.Assets {
		if a.MarketOption != nil {
			out = append(out, Market{AssetID: a.AssetID, Options: *a.MarketOption})
		}
	}
	for _, m := range c.Markets {
		out = append(out, Market{AssetID: m.AssetID, Options: m.MarketConfig})
	}
	return out
}

// Asset returns the declared asset with the given id.
func (c *NetworkConfig) Asset(id uint32) (*Asset, bool) {
	for i := range c.Assets {
		if c.Assets[i].AssetID == id {
			return &c.Assets[i], true
		}
	}
	return nil, false
}

// ByteOrder returns the configured derivative index layout.
func (c *NetworkConfig) ByteOrder() (address.ByteOrder, error) {
	return address.ParseByteOrder(c.DerivativeIndexByteOrder)
}

// GiftAccount is the pallet account that receives the gift transfer.
func (c *NetworkConfig) GiftAccount() (string, error) {
	id := c.GiftPalletID
	if id == "" {
		id = DefaultGiftPalletID
	}
	return address.PalletAccount(id, c.SS58Prefix)
}

func (c *NetworkConfig) applyDefaults() {
	if c.AuctionDuration == 0 {
		c.AuctionDuration = DefaultAuctionDuration
	}
	if c.GiftPalletID == "" {
		c.GiftPalletID = DefaultGiftPalletID
	}
}
