package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"

	"github.com/parallel-finance/paractl/internal/address"
)

var ErrMissingKey = errors.New("signing key is not set")

// KeyringFromURI builds an sr25519 keypair from a secret URI such as
// "//Alice", a mnemonic or a 0x seed.
func KeyringFromURI(uri string) (signature.KeyringPair, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return signature.KeyringPair{}, ErrMissingKey
	}
	kp, err := signature.KeyringPairFromSecret(uri, 42)
	if err != nil {
		return signature.KeyringPair{}, fmt.Errorf("failed to derive key from secret uri: %w", err)
	}
	return kp, nil
}

// AccountID returns the 32 byte public key of kp.
func AccountID(kp signature.KeyringPair) ([address.AccountIDLen]byte, error) {
	var id [address.AccountIDLen]byte
	if len(kp.PublicKey) != address.AccountIDLen {
		return id, fmt.Errorf("unexpected public key length %d", len(kp.PublicKey))
	}
	copy(id[:], kp.PublicKey)
	return id, nil
}
