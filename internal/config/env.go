package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/parallel-finance/paractl/internal/address"
)

// Env holds the signing keys and the relay chain flavour.
type Env struct {
	ParaChainSudoKey  string `envconfig:"PARA_CHAIN_SUDO_KEY" default:"//Dave"`
	RelayChainSudoKey string `envconfig:"RELAY_CHAIN_SUDO_KEY"`
	RelayChainType    string `envconfig:"RELAY_CHAIN_TYPE" default:"polkadot"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &env, nil
}

// Profile carries the per relay chain defaults: endpoints, XCM fee and
// Transact weight.
type Profile struct {
	Name            string
	RelayWS         string
	ParaWS          string
	XcmFee          *big.Int
	TransactWeight  uint64
	RelaySS58Prefix uint16
	ParaSS58Prefix  uint16
	// RelayAssetDecimals of KSM or DOT.
	RelayAssetDecimals int32
}

const DefaultTransactWeight uint64 = 3_000_000_000

var profiles = map[string]Profile{
	"kusama": {
		Name:               "kusama",
		RelayWS:            "ws://127.0.0.1:9944",
		ParaWS:             "ws://127.0.0.1:9948",
		XcmFee:             big.NewInt(10_000_000_000),
		TransactWeight:     DefaultTransactWeight,
		RelaySS58Prefix:    address.KusamaPrefix,
		ParaSS58Prefix:     address.HeikoPrefix,
		RelayAssetDecimals: 12,
	},
	"polkadot": {
		Name:               "polkadot",
		RelayWS:            "ws://127.0.0.1:9944",
		ParaWS:             "ws://127.0.0.1:9948",
		XcmFee:             big.NewInt(2_500_000_000),
		TransactWeight:     DefaultTransactWeight,
		RelaySS58Prefix:    address.PolkadotPrefix,
		ParaSS58Prefix:     address.ParallelPrefix,
		RelayAssetDecimals: 10,
	},
}

// ProfileFor returns the profile of a relay chain type.
func ProfileFor(relayChainType string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(relayChainType))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown RELAY_CHAIN_TYPE %q (want kusama or polkadot)", relayChainType)
	}
	p.XcmFee = new(big.Int).Set(p.XcmFee)
	return p, nil
}

// Profile returns the profile selected by RELAY_CHAIN_TYPE.
func (e *Env) Profile() (Profile, error) {
	return ProfileFor(e.RelayChainType)
}
