package xcm

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sovereign account of para 2085 on the relay chain
const refundHex = "7061726125080000000000000000000000000000000000000000000000000000"

func encodeHex(t *testing.T, v interface{}) string {
	t.Helper()
	bz, err := codec.Encode(v)
	require.NoError(t, err)
	return hex.EncodeToString(bz)
}

func refund(t *testing.T) [32]byte {
	t.Helper()
	raw, err := hex.DecodeString(refundHex)
	require.NoError(t, err)
	var id [32]byte
	copy(id[:], raw)
	return id
}

func TestRelayDestination(t *testing.T) {
	assert.Equal(t, "010100", encodeHex(t, RelayDestination()))
}

func TestTransactMessage_Polkadot(t *testing.T) {
	call, _ := hex.DecodeString("0001081234")
	msg := TransactMessage(call, TransactOptions{
		Fee:        big.NewInt(2_500_000_000),
		Weight:     3_000_000_000,
		OriginKind: OriginNative,
		Refund:     refund(t),
	})

	want := strings.Join([]string{
		"02",                     // V2
		"14",                     // 5 instructions
		"00", "04", "000000", "00", "0300f90295", // WithdrawAsset
		"13", "000000", "00", "0300f90295", "00", // BuyExecution, Unlimited
		"06", "00", "03005ed0b2", "14", "0001081234", // Transact
		"14",                                  // RefundSurplus
		"0d", "0101", "000000", "00", "04", // DepositAsset Wild AllOf, max 1
		"00", "01", "01", "00", refundHex, // beneficiary X1 AccountId32 Any
	}, "")
	assert.Equal(t, want, encodeHex(t, msg))
}

func TestTransactMessage_SovereignOriginKusamaFee(t *testing.T) {
	msg := TransactMessage([]byte{0xff}, TransactOptions{
		Fee:        big.NewInt(10_000_000_000),
		Weight:     1_000_000_000,
		OriginKind: OriginSovereignAccount,
		Refund:     refund(t),
	})

	got := encodeHex(t, msg)
	assert.Contains(t, got, "0700e40b5402")
	// Transact, SovereignAccount, compact(1e9), call 0xff
	assert.Contains(t, got, "06"+"01"+"02286bee"+"04ff")
}

func TestTransactMessage_InstructionOrder(t *testing.T) {
	msg := TransactMessage(nil, TransactOptions{Fee: big.NewInt(1)})
	var names []string
	for _, in := range msg.V2 {
		names = append(names, in.Name())
	}
	assert.Equal(t, []string{"WithdrawAsset", "BuyExecution", "Transact", "RefundSurplus", "DepositAsset"}, names)
}

func TestJunctions_Parachain(t *testing.T) {
	loc := MultiLocation{Parents: 1, Interior: Junctions{Parachain(2085)}}
	// parents 1, X1, Parachain, compact(2085)
	assert.Equal(t, "010100"+"9520", encodeHex(t, loc))
}

func TestJunctions_TooMany(t *testing.T) {
	js := make(Junctions, 9)
	_, err := codec.Encode(MultiLocation{Interior: js})
	assert.Error(t, err)
}

func TestWeightLimit_Limited(t *testing.T) {
	assert.Equal(t, "01"+"02286bee", encodeHex(t, WeightLimit{Limited: true, Weight: 1_000_000_000}))
}

func TestParseOriginKind(t *testing.T) {
	k, err := ParseOriginKind("SovereignAccount")
	require.NoError(t, err)
	assert.Equal(t, OriginSovereignAccount, k)
	assert.Equal(t, "SovereignAccount", k.String())

	k, err = ParseOriginKind("")
	require.NoError(t, err)
	assert.Equal(t, OriginNative, k)

	_, err = ParseOriginKind("Root")
	assert.Error(t, err)
}
