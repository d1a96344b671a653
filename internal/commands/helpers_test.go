package commands

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"go.uber.org/mock/gomock"

	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/logger"
	"github.com/parallel-finance/paractl/internal/mocks"
	"github.com/parallel-finance/paractl/internal/output"
	"github.com/parallel-finance/paractl/internal/storagekey"
)

const testParaID = 2085

func testSubmitter(client chain.Client, dryRun bool) (*submitter, *bytes.Buffer) {
	var buf bytes.Buffer
	return &submitter{
		Chain:  "para",
		Client: client,
		Signer: signature.TestKeyringPairAlice,
		DryRun: dryRun,
		Yes:    true,
		Out:    output.NewFormatterWithWriter(output.FormatJSON, &buf),
		Log:    logger.NewTestLogger(),
	}, &buf
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// validationDataRaw encodes PersistedValidationData with an empty parent
// head.
func validationDataRaw(relayParent uint32) []byte {
	raw := []byte{0x00}
	raw = append(raw, u32le(relayParent)...)
	raw = append(raw, bytes.Repeat([]byte{0x22}, 32)...)
	return append(raw, u32le(5_242_880)...)
}

func expectParaID(client *mocks.MockChainClient) {
	client.EXPECT().StorageRaw(gomock.Any(), storagekey.ParachainID(), "").Return(u32le(testParaID), nil).AnyTimes()
}

// expectCouncil makes GeneralCouncilMembership.Members hold n members.
func expectCouncil(client *mocks.MockChainClient, n byte) {
	client.EXPECT().StorageRaw(gomock.Any(), storagekey.CouncilMembers(CouncilMembership), "").
		Return([]byte{n << 2}, nil).AnyTimes()
}

func receipt() *chain.Receipt {
	return &chain.Receipt{BlockHash: "0xfeed", ExtrinsicIndex: 1}
}

// captureSubmit records the call submitted to client.
func captureSubmit(client *mocks.MockChainClient, got *calls.Call) {
	client.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ signature.KeyringPair, c calls.Call) (*chain.Receipt, error) {
			*got = c
			return receipt(), nil
		})
}
