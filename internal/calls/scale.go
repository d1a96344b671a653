package calls

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Compact is a SCALE compact unsigned integer.
type Compact struct {
	v *big.Int
}

func NewCompact(v uint64) Compact {
	return Compact{v: new(big.Int).SetUint64(v)}
}

func CompactBig(v *big.Int) Compact {
	if v == nil {
		v = new(big.Int)
	}
	return Compact{v: new(big.Int).Set(v)}
}

func (c Compact) Int() *big.Int {
	if c.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.v)
}

func (c Compact) Encode(e scale.Encoder) error {
	return e.EncodeUintCompact(*c.Int())
}

func (c Compact) String() string { return c.Int().String() }

// U128 is a fixed width little endian 128 bit integer.
type U128 struct {
	v *big.Int
}

func NewU128(v *big.Int) U128 {
	if v == nil {
		v = new(big.Int)
	}
	return U128{v: new(big.Int).Set(v)}
}

func (u U128) Int() *big.Int {
	if u.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(u.v)
}

func (u U128) Encode(e scale.Encoder) error {
	v := u.Int()
	if v.Sign() < 0 || v.BitLen() > 128 {
		return fmt.Errorf("value %s does not fit in u128", v)
	}
	be := v.FillBytes(make([]byte, 16))
	le := make([]byte, 16)
	for i := range be {
		le[i] = be[15-i]
	}
	return e.Write(le)
}

func (u U128) String() string { return u.Int().String() }

// Address is a MultiAddress::Id lookup source.
type Address [32]byte

func (a Address) Encode(e scale.Encoder) error {
	if err := e.PushByte(0); err != nil {
		return err
	}
	return e.Write(a[:])
}

// AccountID is a plain 32 byte account id.
type AccountID [32]byte

func (a AccountID) Encode(e scale.Encoder) error {
	return e.Write(a[:])
}

// Hash is an H256.
type Hash [32]byte

func (h Hash) Encode(e scale.Encoder) error {
	return e.Write(h[:])
}

// Bytes is a length prefixed Vec<u8>.
type Bytes []byte

func (b Bytes) Encode(e scale.Encoder) error {
	if err := e.EncodeUintCompact(*big.NewInt(int64(len(b)))); err != nil {
		return err
	}
	return e.Write(b)
}

// Raw is written verbatim, for values that are already SCALE encoded.
type Raw []byte

func (r Raw) Encode(e scale.Encoder) error {
	return e.Write(r)
}

// Proof is a Vec<Vec<u8>> of trie nodes.
type Proof [][]byte

func (p Proof) Encode(e scale.Encoder) error {
	if err := e.EncodeUintCompact(*big.NewInt(int64(len(p)))); err != nil {
		return err
	}
	for _, node := range p {
		if err := Bytes(node).Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// Option encodes None, or Some(Value).
type Option struct {
	Value interface{}
}

func None() Option { return Option{} }

func Some(v interface{}) Option { return Option{Value: v} }

func (o Option) Encode(e scale.Encoder) error {
	if o.Value == nil {
		return e.PushByte(0)
	}
	if err := e.PushByte(1); err != nil {
		return err
	}
	return e.Encode(o.Value)
}

// Variant is a fieldless enum variant.
type Variant uint8

func (v Variant) Encode(e scale.Encoder) error {
	return e.PushByte(byte(v))
}

// U32 forces a little endian u32, used inside tuples.
type U32 uint32

func (u U32) Encode(e scale.Encoder) error {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(u))
	return e.Write(b)
}

// U16 forces a little endian u16.
type U16 uint16

func (u U16) Encode(e scale.Encoder) error {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(u))
	return e.Write(b)
}

// Bool is a SCALE boolean.
type Bool bool

func (b Bool) Encode(e scale.Encoder) error {
	if b {
		return e.PushByte(1)
	}
	return e.PushByte(0)
}

// U8 is a single byte.
type U8 uint8

func (u U8) Encode(e scale.Encoder) error {
	return e.PushByte(byte(u))
}

// Tuple encodes its members back to back.
type Tuple []interface{}

func (t Tuple) Encode(e scale.Encoder) error {
	for _, v := range t {
		if err := e.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
