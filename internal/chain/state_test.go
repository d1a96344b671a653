package chain_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/mocks"
	"github.com/parallel-finance/paractl/internal/storagekey"
)

func TestReadValidationData(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)

	raw := []byte{0x08, 0xaa, 0xbb, 0x64, 0x00, 0x00, 0x00}
	raw = append(raw, bytes.Repeat([]byte{0x11}, 32)...)
	raw = append(raw, 0x00, 0x00, 0x50, 0x00)

	client.EXPECT().StorageRaw(gomock.Any(), storagekey.ValidationData("LiquidStaking"), "0xabc").Return(raw, nil)

	vd, err := chain.ReadValidationData(context.Background(), client, "LiquidStaking", "0xabc")
	require.NoError(t, err)

	view := vd.View()
	assert.Equal(t, "0xaabb", view.ParentHead)
	assert.Equal(t, uint32(100), view.RelayParentNumber)
	assert.Equal(t, "0x"+string(bytes.Repeat([]byte("11"), 32)), view.RelayParentStorageRoot)
	assert.Equal(t, uint32(5_242_880), view.MaxPovSize)
}

func TestReadValidationData_Missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	client.EXPECT().StorageRaw(gomock.Any(), gomock.Any(), "").Return(nil, nil)

	_, err := chain.ReadValidationData(context.Background(), client, "ParachainSystem", "")
	assert.ErrorContains(t, err, "ParachainSystem.ValidationData is not set")
}

func TestParachainID(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	client.EXPECT().StorageRaw(gomock.Any(), storagekey.ParachainID(), "").Return([]byte{0x25, 0x08, 0x00, 0x00}, nil)

	id, err := chain.ParachainID(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, uint32(2085), id)
}

func TestReadU32_Short(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	client.EXPECT().StorageRaw(gomock.Any(), gomock.Any(), "").Return([]byte{0x01}, nil)

	_, _, err := chain.ReadU32(context.Background(), client, storagekey.StakingCurrentEra(), "")
	assert.Error(t, err)
}

func TestCouncilThreshold(t *testing.T) {
	cases := map[int]uint32{1: 1, 2: 1, 3: 2, 5: 3, 6: 3}
	for members, want := range cases {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockChainClient(ctrl)

		raw := []byte{byte(members << 2)}
		raw = append(raw, make([]byte, 32*members)...)
		client.EXPECT().StorageRaw(gomock.Any(), storagekey.CouncilMembers("GeneralCouncilMembership"), "").Return(raw, nil)

		got, err := chain.CouncilThreshold(context.Background(), client, "GeneralCouncilMembership")
		require.NoError(t, err)
		assert.Equal(t, want, got, "%d members", members)
	}
}

func TestCouncilThreshold_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)

	client.EXPECT().StorageRaw(gomock.Any(), gomock.Any(), "").Return([]byte{0x00}, nil)
	_, err := chain.CouncilThreshold(context.Background(), client, "GeneralCouncilMembership")
	assert.ErrorContains(t, err, "no members")

	boom := errors.New("boom")
	client.EXPECT().StorageRaw(gomock.Any(), gomock.Any(), "").Return(nil, boom)
	_, err = chain.CouncilThreshold(context.Background(), client, "GeneralCouncilMembership")
	assert.ErrorIs(t, err, boom)
}
