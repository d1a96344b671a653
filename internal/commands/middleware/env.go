package middleware

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/parallel-finance/paractl/internal/config"
)

// EnvBeforeFunc reads the signing keys and relay chain type from the
// environment and stores them with the matching Profile in the context.
func EnvBeforeFunc(c *cli.Context) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	profile, err := env.Profile()
	if err != nil {
		return err
	}

	GetLogger(c).Debug("Loaded environment",
		zap.String("relayChainType", profile.Name),
		zap.Bool("hasParaKey", env.ParaChainSudoKey != ""),
		zap.Bool("hasRelayKey", env.RelayChainSudoKey != ""))

	c.Context = context.WithValue(c.Context, config.EnvKey, env)
	c.Context = context.WithValue(c.Context, config.ProfileKey, profile)
	return nil
}

// GetEnv returns the Env stored by EnvBeforeFunc.
func GetEnv(c *cli.Context) (*config.Env, error) {
	if env, ok := c.Context.Value(config.EnvKey).(*config.Env); ok && env != nil {
		return env, nil
	}
	env, err := config.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("environment not loaded: %w", err)
	}
	return env, nil
}

// GetProfile returns the relay chain profile stored by EnvBeforeFunc.
func GetProfile(c *cli.Context) (config.Profile, error) {
	if p, ok := c.Context.Value(config.ProfileKey).(config.Profile); ok {
		return p, nil
	}
	env, err := GetEnv(c)
	if err != nil {
		return config.Profile{}, err
	}
	return env.Profile()
}
