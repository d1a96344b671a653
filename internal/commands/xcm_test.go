package commands

import (
	"context"
	"flag"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/mock/gomock"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/config"
	"github.com/parallel-finance/paractl/internal/mocks"
	"github.com/parallel-finance/paractl/internal/xcm"
)

func transactContext(t *testing.T, profile config.Profile, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range transactFlags() {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	c := cli.NewContext(cli.NewApp(), set, nil)
	c.Context = context.WithValue(context.Background(), config.ProfileKey, profile)
	return c
}

func TestTransactOptions_ProfileDefaults(t *testing.T) {
	profile, err := config.ProfileFor("polkadot")
	require.NoError(t, err)
	profile.TransactWeight = 1_500_000_000

	opts, err := transactOptions(transactContext(t, profile), xcm.OriginNative, [32]byte{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000), opts.Weight)
	assert.Equal(t, "2500000000", opts.Fee.String())
}

func TestTransactOptions_FlagsOverrideProfile(t *testing.T) {
	profile, err := config.ProfileFor("kusama")
	require.NoError(t, err)
	profile.TransactWeight = 1_500_000_000

	c := transactContext(t, profile, "--transact-weight", "4000000000", "--xcm-fee", "5000000000")
	opts, err := transactOptions(c, xcm.OriginSovereignAccount, [32]byte{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(4_000_000_000), opts.Weight)
	assert.Equal(t, "5000000000", opts.Fee.String())
	assert.Equal(t, xcm.OriginSovereignAccount, opts.OriginKind)
}

func TestTransactOptions_InvalidFee(t *testing.T) {
	profile, err := config.ProfileFor("kusama")
	require.NoError(t, err)

	_, err = transactOptions(transactContext(t, profile, "--xcm-fee", "lots"), xcm.OriginNative, [32]byte{})
	assert.ErrorContains(t, err, "invalid --xcm-fee")
}

func testTransactOptions() xcm.TransactOptions {
	return xcm.TransactOptions{
		Fee:        big.NewInt(10_000_000_000),
		Weight:     3_000_000_000,
		OriginKind: xcm.OriginNative,
		Refund:     address.SovereignRelayID(testParaID),
	}
}

func TestExecuteHrmpOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)
	expectCouncil(para, 3)

	open := calls.HrmpInitOpenChannel(2000, DefaultHrmpMaxCapacity, DefaultHrmpMaxMessageSize)
	relay.EXPECT().Encode(open).Return([]byte{0x3c, 0x00}, nil)

	var got calls.Call
	captureSubmit(para, &got)

	s, _ := testSubmitter(para, false)
	require.NoError(t, executeHrmpOpen(context.Background(), relay, para, s, open, testTransactOptions()))

	assert.Equal(t, "GeneralCouncil.propose", got.Name())
	assert.Equal(t, uint64(2), got.Args[0].(calls.Compact).Int().Uint64())
	send := got.Args[1].(calls.Call)
	assert.Equal(t, "OrmlXcm.send_as_sovereign", send.Name())
	assert.Equal(t, xcm.RelayDestination(), send.Args[0])
	assert.Equal(t, open.String(), send.Note)
}

func TestExecuteHrmpOpen_EncodeFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	open := calls.HrmpInitOpenChannel(2000, 1, 1)
	relay.EXPECT().Encode(open).Return(nil, assert.AnError)

	s, _ := testSubmitter(para, false)
	err := executeHrmpOpen(context.Background(), relay, para, s, open, testTransactOptions())
	assert.ErrorContains(t, err, "failed to encode Hrmp.hrmp_init_open_channel")
}

func TestExecuteHrmpAccept(t *testing.T) {
	ctrl := gomock.NewController(t)
	relay := mocks.NewMockChainClient(ctrl)
	para := mocks.NewMockChainClient(ctrl)

	accept := calls.HrmpAcceptOpenChannel(2000)
	relay.EXPECT().Encode(accept).Return([]byte{0x3c, 0x01}, nil)

	var got calls.Call
	captureSubmit(para, &got)

	s, _ := testSubmitter(para, false)
	require.NoError(t, executeHrmpAccept(context.Background(), relay, s, accept, testTransactOptions()))

	assert.Equal(t, "Sudo.sudo", got.Name())
	assert.Equal(t, "PolkadotXcm.send", calls.Unwrap(got).Name())
}

func TestExecuteUmpTransact(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)
	expectParaID(para)
	expectCouncil(para, 1)

	var got calls.Call
	captureSubmit(para, &got)

	opts := testTransactOptions()
	opts.OriginKind = xcm.OriginSovereignAccount
	opts.Refund = [32]byte{}

	s, _ := testSubmitter(para, false)
	require.NoError(t, executeUmpTransact(context.Background(), para, s, []byte{0x00, 0x01, 0x08, 0x12, 0x34}, opts))

	send := got.Args[1].(calls.Call)
	assert.Equal(t, "OrmlXcm.send_as_sovereign", send.Name())
	assert.Equal(t, "5 byte relay call as SovereignAccount", send.Note)
	assert.Equal(t, xcm.TransactMessage([]byte{0x00, 0x01, 0x08, 0x12, 0x34}, xcm.TransactOptions{
		Fee:        opts.Fee,
		Weight:     opts.Weight,
		OriginKind: xcm.OriginSovereignAccount,
		Refund:     address.SovereignRelayID(testParaID),
	}), send.Args[1])
}

func TestExecuteUmpTransact_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	para := mocks.NewMockChainClient(ctrl)
	expectParaID(para)
	expectCouncil(para, 1)
	para.EXPECT().EncodeHex(gomock.Any()).Return("0x2400", nil)

	s, out := testSubmitter(para, true)
	require.NoError(t, executeUmpTransact(context.Background(), para, s, []byte{0x00}, testTransactOptions()))
	assert.Contains(t, out.String(), `"hex": "0x2400"`)
}
