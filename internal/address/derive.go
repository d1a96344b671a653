package address

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ByteOrder selects how the derivative index is laid out in the
// sub-account preimage.
type ByteOrder string

const (
	// BigEndian is the reversed layout used by the launch tooling.
	BigEndian ByteOrder = "be"
	// LittleEndian is the plain SCALE u16 layout.
	LittleEndian ByteOrder = "le"
)

var (
	subAccountSeed = []byte("modlpy/utilisuba")
	palletPrefix   = "modl"
	relayParaTag   = []byte("para")
	siblingParaTag = []byte("sibl")
)

// ParseByteOrder accepts "be", "le" and the empty string (BigEndian).
func ParseByteOrder(s string) (ByteOrder, error) {
	switch ByteOrder(strings.ToLower(s)) {
	case "", BigEndian:
		return BigEndian, nil
	case LittleEndian:
		return LittleEndian, nil
	default:
		return "", fmt.Errorf("unknown derivative index byte order %q (want be or le)", s)
	}
}

// SubAccountID derives the raw account id of the derivative account
// `index` of `who`: blake2b-256("modlpy/utilisuba" ‖ who ‖ index).
func SubAccountID(who [AccountIDLen]byte, index uint16, order ByteOrder) [AccountIDLen]byte {
	idx := make([]byte, 2)
	if order == LittleEndian {
		binary.LittleEndian.PutUint16(idx, index)
	} else {
		binary.BigEndian.PutUint16(idx, index)
	}

	buf := make([]byte, 0, len(subAccountSeed)+AccountIDLen+len(idx))
	buf = append(buf, subAccountSeed...)
	buf = append(buf, who[:]...)
	buf = append(buf, idx...)
	return blake2b.Sum256(buf)
}

// SubAccount derives the derivative account of addr and encodes it with
// the same network prefix as addr.
func SubAccount(addr string, index uint16, order ByteOrder) (string, error) {
	pub, prefix, err := Decode(addr)
	if err != nil {
		return "", err
	}
	if len(pub) != AccountIDLen {
		return "", fmt.Errorf("%w: %q is not a 32 byte account", ErrInvalidAddress, addr)
	}
	var who [AccountIDLen]byte
	copy(who[:], pub)
	id := SubAccountID(who, index, order)
	return Encode(id[:], prefix)
}

// PalletAccountID is "modl" ‖ palletID truncated or zero padded to 32 bytes.
func PalletAccountID(palletID string) [AccountIDLen]byte {
	var id [AccountIDLen]byte
	copy(id[:], palletPrefix+palletID)
	return id
}

// PalletAccount returns the SS58 address of a pallet id such as "par/gift".
func PalletAccount(palletID string, prefix uint16) (string, error) {
	id := PalletAccountID(palletID)
	return Encode(id[:], prefix)
}

// SovereignRelayID is the account of a parachain on its relay chain.
func SovereignRelayID(paraID uint32) [AccountIDLen]byte {
	return paraAccountID(relayParaTag, paraID)
}

// SovereignSiblingID is the account of a parachain on a sibling parachain.
func SovereignSiblingID(paraID uint32) [AccountIDLen]byte {
	return paraAccountID(siblingParaTag, paraID)
}

// SovereignRelayOf returns the relay chain sovereign address of paraID.
func SovereignRelayOf(paraID uint32, prefix uint16) (string, error) {
	id := SovereignRelayID(paraID)
	return Encode(id[:], prefix)
}

// SovereignParaOf returns the sibling sovereign address of paraID.
func SovereignParaOf(paraID uint32, prefix uint16) (string, error) {
	id := SovereignSiblingID(paraID)
	return Encode(id[:], prefix)
}

func paraAccountID(tag []byte, paraID uint32) [AccountIDLen]byte {
	var id [AccountIDLen]byte
	copy(id[:], tag)
	binary.LittleEndian.PutUint32(id[len(tag):], paraID)
	return id
}
