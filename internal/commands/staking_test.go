package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/logger"
	"github.com/parallel-finance/paractl/internal/mocks"
	"github.com/parallel-finance/paractl/internal/storagekey"
)

var testProof = [][]byte{{0x01, 0x02}, {0x03}}

func expectDerivativeIndex(para *mocks.MockChainClient, index uint16) {
	para.EXPECT().Constant("LiquidStaking", "DerivativeIndex", gomock.Any()).
		DoAndReturn(func(_, _ string, target interface{}) error {
			*target.(*uint16) = index
			return nil
		})
}

func expectAnchor(relay, para *mocks.MockChainClient, pallet, paraBlock string) {
	para.EXPECT().StorageRaw(gomock.Any(), storagekey.ValidationData(pallet), paraBlock).Return(validationDataRaw(100), nil)
	relay.EXPECT().BlockHash(gomock.Any(), uint32(100)).Return("0xrelay", nil)
}

func TestStakingController(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)
	expectDerivativeIndex(para, 0)
	expectParaID(para)

	idx, controller, err := stakingController(context.Background(), para, -1, address.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), idx)
	assert.Equal(t, address.SubAccountID(address.SovereignRelayID(testParaID), 0, address.BigEndian), controller)
}

func TestStakingController_FlagSkipsConstant(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)
	expectParaID(para)

	idx, _, err := stakingController(context.Background(), para, 3, address.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), idx)

	_, _, err = stakingController(context.Background(), para, 70000, address.BigEndian)
	assert.ErrorContains(t, err, "out of range")
}

func TestExecuteSetStakingLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	expectDerivativeIndex(para, 0)
	expectParaID(para)
	para.EXPECT().LatestBlockHash(gomock.Any()).Return("0xpara", nil)
	expectAnchor(relay, para, "LiquidStaking", "0xpara")

	controller := address.SubAccountID(address.SovereignRelayID(testParaID), 0, address.BigEndian)
	key := storagekey.StakingLedger(controller)
	ledger := []byte{0xde, 0xad, 0xbe, 0xef}
	relay.EXPECT().ReadProof(gomock.Any(), [][]byte{key}, "0xrelay").Return(&chain.ReadProof{At: "0xrelay", Proof: testProof}, nil)
	relay.EXPECT().StorageRaw(gomock.Any(), key, "0xrelay").Return(ledger, nil)

	var got calls.Call
	captureSubmit(para, &got)

	s, out := testSubmitter(para, false)
	require.NoError(t, executeSetStakingLedger(context.Background(), relay, para, s, -1, address.BigEndian))

	assert.Equal(t, "LiquidStaking.set_staking_ledger", got.Name())
	require.Len(t, got.Args, 3)
	assert.Equal(t, calls.U16(0), got.Args[0])
	assert.Equal(t, calls.Raw(ledger), got.Args[1])
	assert.Equal(t, calls.Proof(testProof), got.Args[2])
	assert.Contains(t, out.String(), "0xfeed")
}

func TestExecuteSetStakingLedger_NoLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	expectParaID(para)
	para.EXPECT().LatestBlockHash(gomock.Any()).Return("0xpara", nil)
	expectAnchor(relay, para, "LiquidStaking", "0xpara")
	relay.EXPECT().ReadProof(gomock.Any(), gomock.Any(), "0xrelay").Return(&chain.ReadProof{}, nil)
	relay.EXPECT().StorageRaw(gomock.Any(), gomock.Any(), "0xrelay").Return(nil, nil)

	s, _ := testSubmitter(para, false)
	err := executeSetStakingLedger(context.Background(), relay, para, s, 0, address.BigEndian)
	assert.ErrorContains(t, err, "no staking ledger for controller")
}

func TestExecuteSetCurrentEra(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	para.EXPECT().LatestBlockHash(gomock.Any()).Return("0xpara", nil)
	expectAnchor(relay, para, "LiquidStaking", "0xpara")
	key := storagekey.StakingCurrentEra()
	relay.EXPECT().StorageRaw(gomock.Any(), key, "0xrelay").Return(u32le(1234), nil)
	relay.EXPECT().ReadProof(gomock.Any(), [][]byte{key}, "0xrelay").Return(&chain.ReadProof{Proof: testProof}, nil)

	var got calls.Call
	captureSubmit(para, &got)

	s, _ := testSubmitter(para, false)
	require.NoError(t, executeSetCurrentEra(context.Background(), relay, para, s))

	assert.Equal(t, "LiquidStaking.set_current_era", got.Name())
	assert.Equal(t, calls.U32(1234), got.Args[0])
	assert.Equal(t, "era 1234", got.Note)
}

func TestExecuteSetCurrentEra_Unset(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	para.EXPECT().LatestBlockHash(gomock.Any()).Return("0xpara", nil)
	expectAnchor(relay, para, "LiquidStaking", "0xpara")
	relay.EXPECT().StorageRaw(gomock.Any(), gomock.Any(), "0xrelay").Return(nil, nil)

	s, _ := testSubmitter(para, false)
	err := executeSetCurrentEra(context.Background(), relay, para, s)
	assert.ErrorContains(t, err, "Staking.CurrentEra is not set")
}

func TestExecuteSetCurrentEra_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	para.EXPECT().LatestBlockHash(gomock.Any()).Return("0xpara", nil)
	expectAnchor(relay, para, "LiquidStaking", "0xpara")
	relay.EXPECT().StorageRaw(gomock.Any(), gomock.Any(), "0xrelay").Return(u32le(7), nil)
	relay.EXPECT().ReadProof(gomock.Any(), gomock.Any(), "0xrelay").Return(&chain.ReadProof{Proof: testProof}, nil)
	para.EXPECT().EncodeHex(gomock.Any()).Return("0x4d05", nil)

	s, out := testSubmitter(para, true)
	require.NoError(t, executeSetCurrentEra(context.Background(), relay, para, s))
	assert.Contains(t, out.String(), "0x4d05")
}

func TestExecuteStorageProof(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	expectAnchor(relay, para, "ParachainSystem", "0xblock")

	who := address.SovereignRelayID(testParaID)
	key := storagekey.StakingLedger(who)
	relay.EXPECT().ReadProof(gomock.Any(), [][]byte{key}, "0xrelay").Return(&chain.ReadProof{Proof: testProof}, nil)

	res, err := executeStorageProof(context.Background(), relay, para, "0xblock", proofItem{Name: ProofItemLedger}, &who, -1, address.BigEndian, logger.NewTestLogger())
	require.NoError(t, err)

	assert.Equal(t, "0xblock", res.ParaBlock)
	assert.Equal(t, "0xrelay", res.RelayBlock)
	assert.Equal(t, uint32(100), res.ValidationData.RelayParentNumber)
	assert.Equal(t, "5Ec4AhNtg8ug9xAezbpQom1Pz4PtM7q9bF12AC4T6Zp1PoCB", res.Controller)
	assert.Equal(t, hexutil.Encode(key), res.StorageKey)
	assert.Equal(t, []string{"0x0102", "0x03"}, res.Proof)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"relayParentNumber":100`)
}

func TestExecuteStorageProof_DefaultsToController(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	expectDerivativeIndex(para, 0)
	expectParaID(para)
	para.EXPECT().LatestBlockHash(gomock.Any()).Return("0xlatest", nil)
	expectAnchor(relay, para, "ParachainSystem", "0xlatest")

	controller := address.SubAccountID(address.SovereignRelayID(testParaID), 0, address.BigEndian)
	relay.EXPECT().ReadProof(gomock.Any(), [][]byte{storagekey.StakingLedger(controller)}, "0xrelay").Return(&chain.ReadProof{}, nil)

	res, err := executeStorageProof(context.Background(), relay, para, "", proofItem{}, nil, -1, address.BigEndian, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "0xlatest", res.ParaBlock)
	assert.Equal(t, ProofItemLedger, res.Item)
	assert.Equal(t, address.MustEncode(controller[:], address.GenericPrefix), res.Controller)
	assert.Empty(t, res.Proof)
}

func TestExecuteStorageProof_SystemAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	expectAnchor(relay, para, "ParachainSystem", "0xblock")

	who := address.SovereignRelayID(testParaID)
	key := storagekey.SystemAccount(who)
	relay.EXPECT().ReadProof(gomock.Any(), [][]byte{key}, "0xrelay").Return(&chain.ReadProof{Proof: testProof}, nil)

	res, err := executeStorageProof(context.Background(), relay, para, "0xblock", proofItem{Name: ProofItemAccount}, &who, -1, address.BigEndian, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, ProofItemAccount, res.Item)
	assert.Equal(t, hexutil.Encode(key), res.StorageKey)
	assert.Equal(t, []string{"0x0102", "0x03"}, res.Proof)
}

func TestExecuteStorageProof_AssetsAccountOnParachain(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	expectAnchor(relay, para, "ParachainSystem", "0xblock")

	who, err := address.AccountID("hJJREXdsDH4SSmaxCXiFqFFyKgmqU56gfSbuBWfxi2mcQbfvj")
	require.NoError(t, err)
	key := storagekey.AssetsAccount(102, who)
	para.EXPECT().ReadProof(gomock.Any(), [][]byte{key}, "0xblock").Return(&chain.ReadProof{Proof: testProof}, nil)
	relay.EXPECT().ReadProof(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res, err := executeStorageProof(context.Background(), relay, para, "0xblock", proofItem{Name: ProofItemAsset, AssetID: 102}, &who, -1, address.BigEndian, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, ProofItemAsset, res.Item)
	assert.Equal(t, hexutil.Encode(key), res.StorageKey)
	assert.Equal(t, []string{"0x0102", "0x03"}, res.Proof)
}

func TestExecuteStorageProof_UnknownItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	expectAnchor(relay, para, "ParachainSystem", "0xblock")

	who := address.SovereignRelayID(testParaID)
	_, err := executeStorageProof(context.Background(), relay, para, "0xblock", proofItem{Name: "nominators"}, &who, -1, address.BigEndian, logger.NewTestLogger())
	assert.ErrorContains(t, err, `unknown proof item "nominators"`)
}
