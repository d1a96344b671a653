package chain

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/parallel-finance/paractl/internal/storagekey"
)

// ValidationData is the PersistedValidationData a parachain block was
// built against.
type ValidationData struct {
	ParentHead             types.Bytes
	RelayParentNumber      types.U32
	RelayParentStorageRoot types.Hash
	MaxPovSize             types.U32
}

// ValidationDataView is the printable form of ValidationData.
type ValidationDataView struct {
	ParentHead             string `json:"parentHead" yaml:"parentHead"`
	RelayParentNumber      uint32 `json:"relayParentNumber" yaml:"relayParentNumber"`
	RelayParentStorageRoot string `json:"relayParentStorageRoot" yaml:"relayParentStorageRoot"`
	MaxPovSize             uint32 `json:"maxPovSize" yaml:"maxPovSize"`
}

func (v ValidationData) View() ValidationDataView {
	return ValidationDataView{
		ParentHead:             hexutil.Encode(v.ParentHead),
		RelayParentNumber:      uint32(v.RelayParentNumber),
		RelayParentStorageRoot: v.RelayParentStorageRoot.Hex(),
		MaxPovSize:             uint32(v.MaxPovSize),
	}
}

// ReadValidationData reads <pallet>.ValidationData at the given block.
func ReadValidationData(ctx context.Context, c Client, pallet, at string) (*ValidationData, error) {
	raw, err := c.StorageRaw(ctx, storagekey.ValidationData(pallet), at)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%s.ValidationData is not set", pallet)
	}
	var vd ValidationData
	if err := codec.Decode(raw, &vd); err != nil {
		return nil, fmt.Errorf("failed to decode %s.ValidationData: %w", pallet, err)
	}
	return &vd, nil
}

// ReadU32 reads a u32 storage value. ok is false when the key is empty.
func ReadU32(ctx context.Context, c Client, key []byte, at string) (uint32, bool, error) {
	raw, err := c.StorageRaw(ctx, key, at)
	if err != nil {
		return 0, false, err
	}
	if raw == nil {
		return 0, false, nil
	}
	if len(raw) < 4 {
		return 0, false, fmt.Errorf("storage value %s is %d bytes, want 4", hexutil.Encode(raw), len(raw))
	}
	return binary.LittleEndian.Uint32(raw), true, nil
}

// ParachainID reads ParachainInfo.ParachainId of a parachain.
func ParachainID(ctx context.Context, c Client) (uint32, error) {
	id, ok, err := ReadU32(ctx, c, storagekey.ParachainID(), "")
	if err != nil {
		return 0, fmt.Errorf("failed to read parachain id: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("ParachainInfo.ParachainId is not set")
	}
	return id, nil
}

// CouncilThreshold is a simple majority of the membership pallet's
// members, rounded up.
func CouncilThreshold(ctx context.Context, c Client, membershipPallet string) (uint32, error) {
	raw, err := c.StorageRaw(ctx, storagekey.CouncilMembers(membershipPallet), "")
	if err != nil {
		return 0, fmt.Errorf("failed to read council members: %w", err)
	}
	if raw == nil {
		return 0, fmt.Errorf("%s has no members", membershipPallet)
	}
	n, err := scale.NewDecoder(bytes.NewReader(raw)).DecodeUintCompact()
	if err != nil {
		return 0, fmt.Errorf("failed to decode council members: %w", err)
	}
	members := n.Uint64()
	if members == 0 {
		return 0, fmt.Errorf("%s has no members", membershipPallet)
	}
	return uint32((members + 1) / 2), nil
}
