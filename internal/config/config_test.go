package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallel-finance/paractl/internal/address"
)

const minimalConfig = `
paraId: 2085
relayAsset: 100
ss58Prefix: 110
relaySs58Prefix: 2
assets:
  - name: Kusama
    symbol: KSM
    assetId: 100
    decimal: 12
    balances:
      - ["5HHMY7e8UAqR5ZaHGaQnRW5EDR8dP7QpAyjeBu6V7vdXxxbf", 1e18]
      - account: 5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY
        amount: "42"
    marketOption:
      collateralFactor: 500000
      reserveFactor: 150000
      closeFactor: 500000
      liquidateIncentive: "1100000000000000000"
      cap: "100000000000000000"
      rateModel:
        jumpModel:
          baseRate: "20000000000000000"
          jumpRate: "100000000000000000"
          fullRate: "320000000000000000"
          jumpUtilization: 800000
      ptokenId: 2100
  - name: Crowdloan KSM
    symbol: cKSM
    assetId: 4000
    decimal: 12
crowdloans:
  - paraId: 2013
    derivativeIndex: 0
    ctokenId: 4000
    cap: "100000000000000"
    endBlock: 28800
    leaseStart: 0
    leaseEnd: 7
`

func TestParse_Minimal(t *testing.T) {
	cfg, err := Parse(strings.NewReader(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, uint32(2085), cfg.ParaID)
	assert.Equal(t, uint32(DefaultAuctionDuration), cfg.AuctionDuration)
	assert.Equal(t, DefaultGiftPalletID, cfg.GiftPalletID)

	require.Len(t, cfg.Assets[0].Balances, 2)
	assert.Equal(t, "1000000000000000000", cfg.Assets[0].Balances[0].Amount.String())
	assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", cfg.Assets[0].Balances[1].Account)
	assert.Equal(t, "42", cfg.Assets[0].Balances[1].Amount.String())

	markets := cfg.AllMarkets()
	require.Len(t, markets, 1)
	assert.Equal(t, uint32(100), markets[0].AssetID)
	assert.Equal(t, uint32(2100), markets[0].Options.PTokenID)

	order, err := cfg.ByteOrder()
	require.NoError(t, err)
	assert.Equal(t, address.BigEndian, order)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader(minimalConfig + "unexpected: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected")
}

func TestValidate_DanglingReferences(t *testing.T) {
	cfg, err := Parse(strings.NewReader(minimalConfig))
	require.NoError(t, err)

	cfg.Crowdloans[0].CTokenID = 4001
	cfg.Pools = []Pool{{
		Pool:                   [2]uint32{100, 7},
		LiquidityAmounts:       [2]Amount{AmountFromUint64(1), AmountFromUint64(1)},
		LPTokenReceiver:        "5HHMY7e8UAqR5ZaHGaQnRW5EDR8dP7QpAyjeBu6V7vdXxxbf",
		LiquidityProviderToken: 5000,
	}}
	cfg.FarmPools = []FarmPool{{AssetID: 5000, RewardAssetID: 0}}

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)

	msg := err.Error()
	assert.Contains(t, msg, "crowdloans[0].ctokenId: asset 4001")
	assert.Contains(t, msg, "pools[0].pool[1]: asset 7")
	assert.Contains(t, msg, "pools[0].liquidityProviderToken: asset 5000")
	assert.Contains(t, msg, "farmPools[0].assetId: asset 5000")
	assert.NotContains(t, msg, "pool[0]")
	assert.NotContains(t, msg, "rewardAssetId")
}

func TestValidate_Duplicates(t *testing.T) {
	cfg, err := Parse(strings.NewReader(minimalConfig))
	require.NoError(t, err)

	cfg.Crowdloans = append(cfg.Crowdloans, Crowdloan{
		ParaID:          2013,
		DerivativeIndex: 0,
		CTokenID:        4000,
		Cap:             AmountFromUint64(1),
		LeaseStart:      8,
		LeaseEnd:        1,
	})

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "paraId 2013")
	assert.Contains(t, err.Error(), "derivativeIndex 0 already used by para 2013")
	assert.Contains(t, err.Error(), "leaseStart 8 after leaseEnd 1")
}

func TestValidate_PTokenCollision(t *testing.T) {
	cfg, err := Parse(strings.NewReader(minimalConfig))
	require.NoError(t, err)

	cfg.Assets[0].MarketOption.PTokenID = 4000
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ptokenId 4000 collides")
}

func TestValidate_BadAddress(t *testing.T) {
	cfg, err := Parse(strings.NewReader(minimalConfig))
	require.NoError(t, err)

	cfg.Bridge.Members = []string{"not-an-address"}
	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, address.ErrInvalidAddress)
	assert.Contains(t, err.Error(), "bridge.members[0]")
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("2.5e9")
	require.NoError(t, err)
	assert.Equal(t, "2500000000", a.String())

	_, err = ParseAmount("1.5")
	assert.Error(t, err)

	_, err = ParseAmount("-1")
	assert.Error(t, err)

	assert.True(t, Amount{}.IsZero())
	assert.Equal(t, "7", Amount{}.Or(AmountFromUint64(7)).String())
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Preset(name)
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Assets)
			assert.NotEmpty(t, cfg.Crowdloans)
		})
	}

	vanilla, err := Preset("vanilla-dev")
	require.NoError(t, err)
	assert.Equal(t, "heiko-dev", vanilla.Name)
	assert.Equal(t, uint32(2085), vanilla.ParaID)

	kerria, err := Preset("kerria-dev")
	require.NoError(t, err)
	assert.Equal(t, "parallel-dev", kerria.Name)
	assert.Equal(t, address.ParallelPrefix, kerria.SS58Prefix)

	_, err = Preset("mainnet")
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2085), cfg.ParaID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	_, err := Resolve("", "")
	assert.Error(t, err)

	cfg, err := Resolve("", "heiko-dev")
	require.NoError(t, err)
	assert.Equal(t, "heiko-dev", cfg.Name)
}

func TestGiftAccount(t *testing.T) {
	cfg := &NetworkConfig{SS58Prefix: address.GenericPrefix}
	addr, err := cfg.GiftAccount()
	require.NoError(t, err)
	assert.Equal(t, "5EYCAe5iie3Jmi8o2zduuKrYMcSXczu3tDf4tNiPMEJiE4pE", addr)
}

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("RELAY_CHAIN_SUDO_KEY", "//Alice")
	t.Setenv("RELAY_CHAIN_TYPE", "kusama")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "//Alice", env.RelayChainSudoKey)

	profile, err := env.Profile()
	require.NoError(t, err)
	assert.Equal(t, "10000000000", profile.XcmFee.String())
	assert.Equal(t, DefaultTransactWeight, profile.TransactWeight)
	assert.Equal(t, address.HeikoPrefix, profile.ParaSS58Prefix)

	_, err = ProfileFor("rococo")
	assert.Error(t, err)
}
