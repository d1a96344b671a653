package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/parallel-finance/paractl/internal/commands/middleware"
	"github.com/parallel-finance/paractl/internal/output"
	"github.com/parallel-finance/paractl/internal/version"
)

// Paractl builds the paractl application.
func Paractl() *cli.App {
	return &cli.App{
		Name:    "paractl",
		Usage:   "Bootstrap and operate Parallel Finance parachains",
		Version: version.GetFullVersion(),
		Description: `paractl launches a local relay chain and parachain from a network config
and carries the governance, XCM and liquid staking helpers used to
operate Parallel and Heiko.

Signing keys are read from PARA_CHAIN_SUDO_KEY and RELAY_CHAIN_SUDO_KEY,
endpoints and XCM defaults from the RELAY_CHAIN_TYPE profile. Both can be
set in an env file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "File of KEY=value lines loaded before the signing keys are read",
				Value: middleware.DefaultEnvFile,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table, json or yaml",
				Value:   output.FormatTable,
			},
		},
		Before: middleware.ChainBeforeFuncs(
			validateOutput,
			middleware.StandardMiddlewareChain(),
		),
		ExitErrHandler: middleware.ExitErrHandler,
		Commands: []*cli.Command{
			LaunchCommand(),
			PlanCommand(),
			HrmpOpenCommand(),
			HrmpAcceptCommand(),
			UmpTransactCommand(),
			SovereignCommand(),
			DerivativeCommand(),
			PalletAccountCommand(),
			XcmUnitsPerSecondCommand(),
			SetStakingLedgerCommand(),
			SetCurrentEraCommand(),
			StorageProofCommand(),
			RuntimeUpgradeCommand(),
			AddMarketCommand(),
			MarketRewardCommand(),
			FarmingRewardCommand(),
		},
	}
}

func validateOutput(c *cli.Context) error {
	return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).Validate()
}
