package middleware

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/parallel-finance/paractl/internal/logger"
)

// ChainBeforeFuncs chains multiple BeforeFuncs together
func ChainBeforeFuncs(funcs ...cli.BeforeFunc) cli.BeforeFunc {
	return func(c *cli.Context) error {
		for _, fn := range funcs {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// StandardMiddlewareChain initialises the logger, then loads the env file
// so that the keys and RELAY_CHAIN_TYPE it sets are visible to EnvBeforeFunc.
func StandardMiddlewareChain() cli.BeforeFunc {
	return ChainBeforeFuncs(
		func(c *cli.Context) error {
			_, err := LoggerBeforeFunc(c)
			return err
		},
		SecretsBeforeFunc,
		EnvBeforeFunc,
	)
}

func ExitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}

	var log logger.Logger
	if c != nil && c.App != nil {
		log = GetLogger(c)
	} else {
		logger.InitGlobalLogger(false)
		log = logger.GetLogger()
	}

	if c != nil && c.Command != nil && c.Command.Name != "" {
		log.Error("Command execution failed",
			zap.String("command", c.Command.Name),
			zap.Error(err))
	} else {
		log.Error("Command execution failed", zap.Error(err))
	}
}
