// Package address implements the SS58 address format and the account
// derivation schemes used by Substrate pallets (derivative sub-accounts,
// pallet accounts and parachain sovereign accounts).
package address

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/decred/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	// GenericPrefix is the SS58 prefix used by the generic Substrate network.
	GenericPrefix uint16 = 42
	// PolkadotPrefix and KusamaPrefix are the relay chain prefixes.
	PolkadotPrefix uint16 = 0
	KusamaPrefix   uint16 = 2
	// HeikoPrefix and ParallelPrefix are the parachain prefixes.
	HeikoPrefix    uint16 = 110
	ParallelPrefix uint16 = 172

	AccountIDLen = 32

	checksumLen = 2
	maxPrefix   = 16383
)

var (
	ErrInvalidAddress  = errors.New("invalid ss58 address")
	ErrInvalidChecksum = errors.New("invalid ss58 checksum")
	ErrInvalidPrefix   = errors.New("invalid ss58 prefix")
)

var checksumPreimage = []byte("SS58PRE")

// Encode returns the SS58 representation of pub under the given network prefix.
func Encode(pub []byte, prefix uint16) (string, error) {
	if len(pub) == 0 {
		return "", fmt.Errorf("%w: empty public key", ErrInvalidAddress)
	}
	ident, err := encodePrefix(prefix)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, len(ident)+len(pub)+checksumLen)
	payload = append(payload, ident...)
	payload = append(payload, pub...)

	sum := checksum(payload)
	payload = append(payload, sum[:checksumLen]...)

	return base58.Encode(payload), nil
}

// MustEncode is Encode for inputs that are known to be valid.
func MustEncode(pub []byte, prefix uint16) string {
	addr, err := Encode(pub, prefix)
	if err != nil {
		panic(err)
	}
	return addr
}

// Decode parses an SS58 address and returns the public key and network prefix.
func Decode(addr string) ([]byte, uint16, error) {
	raw := base58.Decode(addr)
	if len(raw) < 1+checksumLen+1 {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}

	prefix, prefixLen, err := decodePrefix(raw)
	if err != nil {
		return nil, 0, err
	}

	body := raw[:len(raw)-checksumLen]
	if len(body) <= prefixLen {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}

	sum := checksum(body)
	if !bytes.Equal(sum[:checksumLen], raw[len(raw)-checksumLen:]) {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidChecksum, addr)
	}

	pub := make([]byte, len(body)-prefixLen)
	copy(pub, body[prefixLen:])
	return pub, prefix, nil
}

// AccountID decodes a 32 byte account address.
func AccountID(addr string) ([AccountIDLen]byte, error) {
	var id [AccountIDLen]byte
	pub, _, err := Decode(addr)
	if err != nil {
		return id, err
	}
	if len(pub) != AccountIDLen {
		return id, fmt.Errorf("%w: %q decodes to %d bytes, want %d", ErrInvalidAddress, addr, len(pub), AccountIDLen)
	}
	copy(id[:], pub)
	return id, nil
}

// Reencode converts addr to the given network prefix.
func Reencode(addr string, prefix uint16) (string, error) {
	pub, _, err := Decode(addr)
	if err != nil {
		return "", err
	}
	return Encode(pub, prefix)
}

func checksum(payload []byte) [blake2b.Size]byte {
	buf := make([]byte, 0, len(checksumPreimage)+len(payload))
	buf = append(buf, checksumPreimage...)
	buf = append(buf, payload...)
	return blake2b.Sum512(buf)
}

func encodePrefix(prefix uint16) ([]byte, error) {
	switch {
	case prefix < 64:
		return []byte{byte(prefix)}, nil
	case prefix <= maxPrefix:
		first := byte((prefix&0x00fc)>>2) | 0x40
		second := byte(prefix>>8) | byte((prefix&0x0003)<<6)
		return []byte{first, second}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrefix, prefix)
	}
}

func decodePrefix(raw []byte) (uint16, int, error) {
	first := raw[0]
	switch {
	case first < 64:
		return uint16(first), 1, nil
	case first < 128:
		second := raw[1]
		lower := (first << 2) | (second >> 6)
		upper := second & 0x3f
		return uint16(lower) | uint16(upper)<<8, 2, nil
	default:
		return 0, 0, fmt.Errorf("%w: leading byte %#x", ErrInvalidPrefix, first)
	}
}
