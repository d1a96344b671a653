package middleware

import (
	"context"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/urfave/cli/v2"

	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/logger"
	"github.com/parallel-finance/paractl/internal/output"
)

// Dialer opens a chain client. label is "relay" or "para".
type Dialer func(ctx context.Context, endpoint, label string, log logger.Logger) (chain.Client, error)

// Dial is the Dialer used by commands; tests replace it.
var Dial Dialer = func(ctx context.Context, endpoint, label string, log logger.Logger) (chain.Client, error) {
	s, err := chain.Dial(ctx, endpoint, label, log)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RelayClient connects to --relay-ws, or the profile's relay endpoint.
func RelayClient(c *cli.Context) (chain.Client, error) {
	profile, err := GetProfile(c)
	if err != nil {
		return nil, err
	}
	return dial(c, "relay-ws", profile.RelayWS, "relay")
}

// ParaClient connects to --para-ws, or the profile's parachain endpoint.
func ParaClient(c *cli.Context) (chain.Client, error) {
	profile, err := GetProfile(c)
	if err != nil {
		return nil, err
	}
	return dial(c, "para-ws", profile.ParaWS, "para")
}

func dial(c *cli.Context, flagName, fallback, label string) (chain.Client, error) {
	endpoint := c.String(flagName)
	if endpoint == "" {
		endpoint = fallback
	}
	client, err := Dial(c.Context, endpoint, label, GetLogger(c))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s chain: %w", label, err)
	}
	return client, nil
}

// ParaSigner is the PARA_CHAIN_SUDO_KEY keypair.
func ParaSigner(c *cli.Context) (signature.KeyringPair, error) {
	env, err := GetEnv(c)
	if err != nil {
		return signature.KeyringPair{}, err
	}
	return SignerFromEnv(env.ParaChainSudoKey, "PARA_CHAIN_SUDO_KEY")
}

// RelaySigner is the RELAY_CHAIN_SUDO_KEY keypair.
func RelaySigner(c *cli.Context) (signature.KeyringPair, error) {
	env, err := GetEnv(c)
	if err != nil {
		return signature.KeyringPair{}, err
	}
	return SignerFromEnv(env.RelayChainSudoKey, "RELAY_CHAIN_SUDO_KEY")
}

// SignerFromEnv derives a keypair from the value of the env var name.
// When the variable is empty and stdin is a terminal the secret URI is
// read without echo.
func SignerFromEnv(value, name string) (signature.KeyringPair, error) {
	if value == "" {
		if !output.Interactive() {
			return signature.KeyringPair{}, fmt.Errorf("%s: %w", name, chain.ErrMissingKey)
		}
		var err error
		value, err = output.InputHiddenString(
			fmt.Sprintf("%s is not set. Enter the secret URI:", name),
			"A mnemonic, a 0x seed or a dev URI such as //Alice",
			func(s string) error {
				_, err := chain.KeyringFromURI(s)
				return err
			},
		)
		if err != nil {
			return signature.KeyringPair{}, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	kp, err := chain.KeyringFromURI(value)
	if err != nil {
		return signature.KeyringPair{}, fmt.Errorf("%s: %w", name, err)
	}
	return kp, nil
}
