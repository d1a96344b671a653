// Package storagekey builds raw Substrate storage keys.
package storagekey

import (
	"encoding/binary"

	"github.com/pierrec/xxHash/xxHash64"
	"golang.org/x/crypto/blake2b"
)

// Hasher hashes a single map key and returns the bytes appended to the
// storage prefix.
type Hasher func(key []byte) []byte

// Twox128 is the 128 bit xxhash used for pallet and item prefixes.
func Twox128(data []byte) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[0:8], xxHash64.Checksum(data, 0))
	binary.LittleEndian.PutUint64(out[8:16], xxHash64.Checksum(data, 1))
	return out
}

// Blake2_128Concat is blake2b-128(key) ‖ key.
func Blake2_128Concat(key []byte) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write(key)
	out := h.Sum(nil)
	return append(out, key...)
}

// Plain returns the key of a storage value.
func Plain(pallet, item string) []byte {
	key := make([]byte, 0, 32)
	key = append(key, Twox128([]byte(pallet))...)
	key = append(key, Twox128([]byte(item))...)
	return key
}

// Entry is one hashed component of a map key.
type Entry struct {
	Hasher Hasher
	Key    []byte
}

// Map returns the key of a (double/n-) map entry.
func Map(pallet, item string, entries ...Entry) []byte {
	key := Plain(pallet, item)
	for _, e := range entries {
		key = append(key, e.Hasher(e.Key)...)
	}
	return key
}

// SystemAccount is System.Account(account).
func SystemAccount(account [32]byte) []byte {
	return Map("System", "Account", Entry{Blake2_128Concat, account[:]})
}

// StakingLedger is Staking.Ledger(controller) on the relay chain.
func StakingLedger(controller [32]byte) []byte {
	return Map("Staking", "Ledger", Entry{Blake2_128Concat, controller[:]})
}

// StakingCurrentEra is Staking.CurrentEra on the relay chain.
func StakingCurrentEra() []byte {
	return Plain("Staking", "CurrentEra")
}

// ParachainID is ParachainInfo.ParachainId.
func ParachainID() []byte {
	return Plain("ParachainInfo", "ParachainId")
}

// AssetsAccount is Assets.Account(assetID, account) on the parachain.
func AssetsAccount(assetID uint32, account [32]byte) []byte {
	id := make([]byte, 4)
	binary.LittleEndian.PutUint32(id, assetID)
	return Map("Assets", "Account",
		Entry{Blake2_128Concat, id},
		Entry{Blake2_128Concat, account[:]},
	)
}

// ValidationData is <pallet>.ValidationData, kept by both ParachainSystem
// and LiquidStaking.
func ValidationData(pallet string) []byte {
	return Plain(pallet, "ValidationData")
}

// CouncilMembers is <pallet>.Members of a membership pallet.
func CouncilMembers(pallet string) []byte {
	return Plain(pallet, "Members")
}
