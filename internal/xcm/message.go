package xcm

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Instruction is a single V2 XCM instruction.
type Instruction interface {
	Encode(e scale.Encoder) error
	Name() string
}

type WithdrawAsset struct {
	Assets []MultiAsset
}

func (WithdrawAsset) Name() string { return "WithdrawAsset" }

func (i WithdrawAsset) Encode(e scale.Encoder) error {
	if err := e.PushByte(0); err != nil {
		return err
	}
	return encodeAssets(e, i.Assets)
}

type Transact struct {
	Origin          OriginKind
	RequireWeightAt uint64
	Call            []byte
}

func (Transact) Name() string { return "Transact" }

func (i Transact) Encode(e scale.Encoder) error {
	if err := e.PushByte(6); err != nil {
		return err
	}
	if err := e.PushByte(byte(i.Origin)); err != nil {
		return err
	}
	if err := e.EncodeUintCompact(*new(big.Int).SetUint64(i.RequireWeightAt)); err != nil {
		return err
	}
	if err := e.EncodeUintCompact(*big.NewInt(int64(len(i.Call)))); err != nil {
		return err
	}
	return e.Write(i.Call)
}

type DepositAsset struct {
	Assets      MultiAssetFilter
	MaxAssets   uint32
	Beneficiary MultiLocation
}

func (DepositAsset) Name() string { return "DepositAsset" }

func (i DepositAsset) Encode(e scale.Encoder) error {
	if err := e.PushByte(13); err != nil {
		return err
	}
	if err := i.Assets.Encode(e); err != nil {
		return err
	}
	if err := e.EncodeUintCompact(*new(big.Int).SetUint64(uint64(i.MaxAssets))); err != nil {
		return err
	}
	return i.Beneficiary.Encode(e)
}

type BuyExecution struct {
	Fees  MultiAsset
	Limit WeightLimit
}

func (BuyExecution) Name() string { return "BuyExecution" }

func (i BuyExecution) Encode(e scale.Encoder) error {
	if err := e.PushByte(19); err != nil {
		return err
	}
	if err := i.Fees.Encode(e); err != nil {
		return err
	}
	return i.Limit.Encode(e)
}

type RefundSurplus struct{}

func (RefundSurplus) Name() string { return "RefundSurplus" }

func (RefundSurplus) Encode(e scale.Encoder) error {
	return e.PushByte(20)
}

// Xcm is an ordered V2 program.
type Xcm []Instruction

func (x Xcm) Encode(e scale.Encoder) error {
	if err := e.EncodeUintCompact(*big.NewInt(int64(len(x)))); err != nil {
		return err
	}
	for _, in := range x {
		if err := in.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// VersionedXcm wraps a V2 program.
type VersionedXcm struct {
	V2 Xcm
}

func (v VersionedXcm) Encode(e scale.Encoder) error {
	if err := e.PushByte(2); err != nil {
		return err
	}
	return v.V2.Encode(e)
}

// VersionedMultiLocation wraps a V1 location.
type VersionedMultiLocation struct {
	V1 MultiLocation
}

func (v VersionedMultiLocation) Encode(e scale.Encoder) error {
	if err := e.PushByte(1); err != nil {
		return err
	}
	return v.V1.Encode(e)
}

// RelayDestination is V1 { parents: 1, interior: Here }.
func RelayDestination() VersionedMultiLocation {
	return VersionedMultiLocation{V1: MultiLocation{Parents: 1}}
}

// TransactOptions configures the Transact envelope.
type TransactOptions struct {
	// Fee is withdrawn from the local reserve and used to buy execution.
	Fee        *big.Int
	Weight     uint64
	OriginKind OriginKind
	// Refund receives whatever is left after execution.
	Refund [32]byte
}

// TransactMessage wraps an encoded call into
// WithdrawAsset, BuyExecution, Transact, RefundSurplus, DepositAsset.
func TransactMessage(call []byte, opts TransactOptions) VersionedXcm {
	here := Here()
	fee := MultiAsset{ID: here, Amount: opts.Fee}

	return VersionedXcm{V2: Xcm{
		WithdrawAsset{Assets: []MultiAsset{fee}},
		BuyExecution{Fees: fee, Limit: Unlimited()},
		Transact{Origin: opts.OriginKind, RequireWeightAt: opts.Weight, Call: call},
		RefundSurplus{},
		DepositAsset{
			Assets:    MultiAssetFilter{AllOf: &here},
			MaxAssets: 1,
			Beneficiary: MultiLocation{
				Interior: Junctions{AccountID32(NetworkAny, opts.Refund)},
			},
		},
	}}
}
