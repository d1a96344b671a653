package calls

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeHex(t *testing.T, v interface{}) string {
	t.Helper()
	bz, err := codec.Encode(v)
	require.NoError(t, err)
	return hex.EncodeToString(bz)
}

func exp10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "04", encodeHex(t, NewCompact(1)))
	assert.Equal(t, "9520", encodeHex(t, NewCompact(2085)))
	assert.Equal(t, "0300f90295", encodeHex(t, NewCompact(2_500_000_000)))
	assert.Equal(t, "00", encodeHex(t, CompactBig(nil)))
}

func TestU128(t *testing.T) {
	assert.Equal(t, "01000000000000000000000000000000", encodeHex(t, NewU128(big.NewInt(1))))

	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err := codec.Encode(NewU128(tooBig))
	assert.Error(t, err)
}

func TestOption(t *testing.T) {
	assert.Equal(t, "00", encodeHex(t, None()))
	assert.Equal(t, "0107000000", encodeHex(t, Some(U32(7))))
}

func TestBytesAndProof(t *testing.T) {
	assert.Equal(t, "0c414243", encodeHex(t, Bytes("ABC")))
	assert.Equal(t, "08"+"04aa"+"08bbcc", encodeHex(t, Proof{{0xaa}, {0xbb, 0xcc}}))
	assert.Equal(t, "abcd", encodeHex(t, Raw{0xab, 0xcd}))
}

func TestAddress_IsMultiAddressID(t *testing.T) {
	var id [32]byte
	id[0] = 0x11
	got := encodeHex(t, Address(id))
	require.Len(t, got, 66)
	assert.Equal(t, "0011", got[:4])
}

func TestMarket_Encode(t *testing.T) {
	m := Market{
		CollateralFactor:                 500_000,
		LiquidationThreshold:             550_000,
		ReserveFactor:                    150_000,
		CloseFactor:                      500_000,
		LiquidateIncentive:               new(big.Int).Mul(big.NewInt(11), exp10(17)),
		LiquidateIncentiveReservedFactor: 30_000,
		RateModel: RateModel{Jump: &JumpModel{
			BaseRate:        new(big.Int).Mul(big.NewInt(2), exp10(16)),
			JumpRate:        exp10(17),
			FullRate:        new(big.Int).Mul(big.NewInt(32), exp10(16)),
			JumpUtilization: 800_000,
		}},
		State:     MarketPending,
		SupplyCap: exp10(17),
		BorrowCap: exp10(16),
		PTokenID:  2100,
	}

	assert.Equal(t,
		"20a1070070640800f049020020a107000000ee042cfc430f00000000000000003075000000000082dfe40d4700000000000000000000008a5d784563010000000000000000000020f84dde7004000000000000000000350c000100008a5d7845630100000000000000000000c16ff2862300000000000000000034080000",
		encodeHex(t, m))
}

func TestRateModel_Empty(t *testing.T) {
	_, err := codec.Encode(RateModel{})
	assert.Error(t, err)
}

func TestBridgeToken_Encode(t *testing.T) {
	tok := BridgeToken{
		ID:        102,
		External:  false,
		Fee:       big.NewInt(0),
		Enable:    true,
		OutCap:    exp10(18),
		OutAmount: big.NewInt(0),
		InCap:     new(big.Int).Mul(big.NewInt(5), exp10(18)),
		InAmount:  big.NewInt(7),
	}
	assert.Equal(t,
		"66000000000000000000000000000000000000000001000064a7b3b6e00d0000000000000000000000000000000000000000000000000000f44482916345000000000000000007000000000000000000000000000000",
		encodeHex(t, tok))
}

func TestParseMarketState(t *testing.T) {
	s, err := ParseMarketState("Active")
	require.NoError(t, err)
	assert.Equal(t, MarketActive, s)

	s, err = ParseMarketState("")
	require.NoError(t, err)
	assert.Equal(t, MarketPending, s)

	_, err = ParseMarketState("Frozen")
	assert.Error(t, err)
}

func TestWrappers(t *testing.T) {
	inner := LoansActivateMarket(100)

	sudo := Sudo(inner)
	assert.Equal(t, "Sudo.sudo", sudo.Name())
	assert.Equal(t, "root", Origin(sudo))
	assert.Equal(t, inner.Name(), Unwrap(sudo).Name())

	deriv := AsDerivative(3, CrowdloanCreate(2085, big.NewInt(1), 0, 7, 100))
	assert.Equal(t, "derivative(3)", Origin(deriv))
	assert.Equal(t, "Crowdloan.create", Unwrap(deriv).Name())

	council := CouncilPropose(2, BatchAll([]Call{inner}))
	assert.Equal(t, "council", Origin(council))
	assert.Equal(t, "Utility.batch_all", Unwrap(council).Name())
	lb, ok := council.Args[2].(LengthOf)
	require.True(t, ok)
	assert.Equal(t, "Utility.batch_all", lb.Call.Name())

	assert.Equal(t, "signed", Origin(BalancesTransfer([32]byte{}, big.NewInt(1))))
}

func TestFlattenAndDescribe(t *testing.T) {
	batch := BatchAll([]Call{
		Sudo(AssetsForceCreate(100, [32]byte{}, true, 1)),
		AssetsMint(100, [32]byte{}, big.NewInt(5)),
	})

	flat := Flatten(batch)
	require.Len(t, flat, 2)
	assert.Equal(t, "Sudo.sudo", flat[0].Name())

	assert.Equal(t,
		"Utility.batch_all(Sudo.sudo(Assets.force_create), Assets.mint)",
		Describe(batch))

	single := LoansActivateMarket(1)
	assert.Equal(t, []Call{single}, Flatten(single))
}

func TestCall_String(t *testing.T) {
	c := CrowdloansOpen(2085)
	assert.Equal(t, "Crowdloans.open (para 2085)", c.String())
	assert.Equal(t, "Utility.batch_all", New("Utility", "batch_all").String())
}
