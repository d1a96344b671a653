package commands

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/csvinput"
	"github.com/parallel-finance/paractl/internal/mocks"
)

// proposedBatch unwraps GeneralCouncil.propose(Utility.batch_all(...)).
func proposedBatch(t *testing.T, got calls.Call, threshold uint64) []calls.Call {
	t.Helper()
	require.Equal(t, "GeneralCouncil.propose", got.Name())
	assert.Equal(t, threshold, got.Args[0].(calls.Compact).Int().Uint64())

	batch := got.Args[1].(calls.Call)
	require.Equal(t, "Utility.batch_all", batch.Name())
	return batch.Args[0].([]calls.Call)
}

func TestExecuteAddMarket(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)
	expectCouncil(para, 5)

	var got calls.Call
	captureSubmit(para, &got)

	rows := []csvinput.MarketRow{
		{AssetID: 100, Market: calls.Market{CollateralFactor: 500_000, PTokenID: 2100}},
		{AssetID: 101, Market: calls.Market{CollateralFactor: 600_000, PTokenID: 2101}},
	}
	s, _ := testSubmitter(para, false)
	require.NoError(t, executeAddMarket(context.Background(), para, s, rows))

	batch := proposedBatch(t, got, 3)
	require.Len(t, batch, 2)
	for i, c := range batch {
		assert.Equal(t, "Loans.add_market", c.Name())
		assert.Equal(t, calls.U32(rows[i].AssetID), c.Args[0])
		assert.Equal(t, rows[i].Market, c.Args[1])
	}
}

func TestExecuteAddMarket_NoRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)

	s, _ := testSubmitter(para, false)
	err := executeAddMarket(context.Background(), para, s, nil)
	assert.ErrorContains(t, err, "nothing to propose")
}

func TestExecuteMarketReward(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)
	expectCouncil(para, 1)

	var got calls.Call
	captureSubmit(para, &got)

	rows := []csvinput.MarketReward{
		{AssetID: 1, Name: "HKO", BorrowSpeed: big.NewInt(2), SupplySpeed: big.NewInt(3)},
	}
	s, _ := testSubmitter(para, false)
	require.NoError(t, executeMarketReward(context.Background(), para, s, rows))

	batch := proposedBatch(t, got, 1)
	require.Len(t, batch, 1)
	assert.Equal(t, "Loans.update_market_reward_speed", batch[0].Name())
	assert.Contains(t, batch[0].Note, "HKO supply 3 borrow 2")
}

func TestFarmingPayer(t *testing.T) {
	cases := []struct {
		chainName   string
		payer       string
		rewardAsset int
		wantPayer   string
		wantAsset   uint32
	}{
		{"Parallel", "", -1, ParallelRewardPayer, 1},
		{"Parallel Heiko", "", -1, HeikoRewardPayer, 0},
		{"Vanilla Dev", "", -1, HeikoRewardPayer, 0},
		{"Parallel", "5Ec4AhNtg8ug9xAezbpQom1Pz4PtM7q9bF12AC4T6Zp1PoCB", 7, "5Ec4AhNtg8ug9xAezbpQom1Pz4PtM7q9bF12AC4T6Zp1PoCB", 7},
	}

	for _, tc := range cases {
		t.Run(tc.chainName, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			para := mocks.NewMockChainClient(ctrl)
			para.EXPECT().ChainName(gomock.Any()).Return(tc.chainName, nil)

			opts, err := farmingPayer(context.Background(), para, tc.payer, tc.rewardAsset)
			require.NoError(t, err)

			want, err := address.AccountID(tc.wantPayer)
			require.NoError(t, err)
			assert.Equal(t, want, opts.Payer)
			assert.Equal(t, tc.wantAsset, opts.RewardAsset)
		})
	}
}

func TestFarmingPayer_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)
	para.EXPECT().ChainName(gomock.Any()).Return("Parallel", nil)

	_, err := farmingPayer(context.Background(), para, "not-an-address", -1)
	assert.ErrorContains(t, err, "invalid payer")
}

func TestExecuteFarmingReward(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)
	expectCouncil(para, 2)

	var got calls.Call
	captureSubmit(para, &got)

	payer := address.SovereignRelayID(testParaID)
	rows := []csvinput.FarmingReward{
		{AssetID: 1000, Name: "KSM", Amount: big.NewInt(5_000_000_000_000), Duration: 100_800},
	}
	s, _ := testSubmitter(para, false)
	require.NoError(t, executeFarmingReward(context.Background(), para, s, rows, rewardOptions{Payer: payer, RewardAsset: 1}))

	batch := proposedBatch(t, got, 1)
	require.Len(t, batch, 1)
	c := batch[0]
	assert.Equal(t, "Farming.dispatch_reward", c.Name())
	assert.Equal(t, calls.U32(1000), c.Args[0])
	assert.Equal(t, calls.U32(1), c.Args[1])
	assert.Equal(t, calls.U32(0), c.Args[2])
	assert.Equal(t, calls.Address(payer), c.Args[3])
	assert.Equal(t, calls.U32(100_800), c.Args[5])
}
