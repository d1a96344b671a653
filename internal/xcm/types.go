// Package xcm holds the subset of XCM V1 locations and V2 instructions
// needed to send a Transact message to the relay chain, with their SCALE
// encodings.
package xcm

import (
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

type NetworkID uint8

const NetworkAny NetworkID = 0

type junctionKind uint8

const (
	junctionParachain   junctionKind = 0
	junctionAccountID32 junctionKind = 1
)

// Junction is one step of an interior location.
type Junction struct {
	kind    junctionKind
	paraID  uint32
	network NetworkID
	id      [32]byte
}

func Parachain(paraID uint32) Junction {
	return Junction{kind: junctionParachain, paraID: paraID}
}

func AccountID32(network NetworkID, id [32]byte) Junction {
	return Junction{kind: junctionAccountID32, network: network, id: id}
}

func (j Junction) Encode(e scale.Encoder) error {
	if err := e.PushByte(byte(j.kind)); err != nil {
		return err
	}
	switch j.kind {
	case junctionParachain:
		return e.EncodeUintCompact(*new(big.Int).SetUint64(uint64(j.paraID)))
	case junctionAccountID32:
		if err := e.PushByte(byte(j.network)); err != nil {
			return err
		}
		return e.Write(j.id[:])
	default:
		return fmt.Errorf("unsupported junction %d", j.kind)
	}
}

// Junctions is Here when empty, X1..X8 otherwise.
type Junctions []Junction

func (js Junctions) Encode(e scale.Encoder) error {
	if len(js) > 8 {
		return fmt.Errorf("too many junctions: %d", len(js))
	}
	if err := e.PushByte(byte(len(js))); err != nil {
		return err
	}
	for _, j := range js {
		if err := j.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

type MultiLocation struct {
	Parents  uint8
	Interior Junctions
}

// Here is the location of the local consensus system.
func Here() MultiLocation {
	return MultiLocation{}
}

func (l MultiLocation) Encode(e scale.Encoder) error {
	if err := e.PushByte(l.Parents); err != nil {
		return err
	}
	return l.Interior.Encode(e)
}

// MultiAsset is a concrete fungible asset.
type MultiAsset struct {
	ID     MultiLocation
	Amount *big.Int
}

func (a MultiAsset) Encode(e scale.Encoder) error {
	// AssetId::Concrete
	if err := e.PushByte(0); err != nil {
		return err
	}
	if err := a.ID.Encode(e); err != nil {
		return err
	}
	// Fungibility::Fungible
	if err := e.PushByte(0); err != nil {
		return err
	}
	amount := a.Amount
	if amount == nil {
		amount = new(big.Int)
	}
	return e.EncodeUintCompact(*amount)
}

type WeightLimit struct {
	Limited bool
	Weight  uint64
}

func Unlimited() WeightLimit { return WeightLimit{} }

func (w WeightLimit) Encode(e scale.Encoder) error {
	if !w.Limited {
		return e.PushByte(0)
	}
	if err := e.PushByte(1); err != nil {
		return err
	}
	return e.EncodeUintCompact(*new(big.Int).SetUint64(w.Weight))
}

// MultiAssetFilter selects assets either by an explicit list or by a
// wildcard over one concrete fungible asset.
type MultiAssetFilter struct {
	Definite []MultiAsset
	// AllOf is used when Definite is nil.
	AllOf *MultiLocation
}

func (f MultiAssetFilter) Encode(e scale.Encoder) error {
	if f.Definite != nil {
		if err := e.PushByte(0); err != nil {
			return err
		}
		return encodeAssets(e, f.Definite)
	}
	if err := e.PushByte(1); err != nil {
		return err
	}
	if f.AllOf == nil {
		// WildMultiAsset::All
		return e.PushByte(0)
	}
	// WildMultiAsset::AllOf { Concrete(id), WildFungibility::Fungible }
	if err := e.PushByte(1); err != nil {
		return err
	}
	if err := e.PushByte(0); err != nil {
		return err
	}
	if err := f.AllOf.Encode(e); err != nil {
		return err
	}
	return e.PushByte(0)
}

type OriginKind uint8

const (
	OriginNative           OriginKind = 0
	OriginSovereignAccount OriginKind = 1
	OriginSuperuser        OriginKind = 2
	OriginXcm              OriginKind = 3
)

// ParseOriginKind accepts the names used on the command line.
func ParseOriginKind(s string) (OriginKind, error) {
	switch s {
	case "", "Native":
		return OriginNative, nil
	case "SovereignAccount":
		return OriginSovereignAccount, nil
	case "Superuser":
		return OriginSuperuser, nil
	case "Xcm":
		return OriginXcm, nil
	default:
		return 0, fmt.Errorf("unknown origin kind %q", s)
	}
}

func (k OriginKind) String() string {
	switch k {
	case OriginNative:
		return "Native"
	case OriginSovereignAccount:
		return "SovereignAccount"
	case OriginSuperuser:
		return "Superuser"
	case OriginXcm:
		return "Xcm"
	default:
		return fmt.Sprintf("OriginKind(%d)", uint8(k))
	}
}

func encodeAssets(e scale.Encoder, assets []MultiAsset) error {
	if err := e.EncodeUintCompact(*big.NewInt(int64(len(assets)))); err != nil {
		return err
	}
	for _, a := range assets {
		if err := a.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
