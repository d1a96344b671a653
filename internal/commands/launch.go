package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/commands/middleware"
	"github.com/parallel-finance/paractl/internal/config"
	"github.com/parallel-finance/paractl/internal/genesis"
	"github.com/parallel-finance/paractl/internal/output"
)

const (
	DefaultNetwork = "vanilla-dev"

	// Dev keys used when a dry run or plan has no key configured.
	devRelayKey = "//Alice"
	devParaKey  = "//Dave"
)

func networkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "network",
			Aliases: []string{"n"},
			Usage:   fmt.Sprintf("Embedded network config (%s)", strings.Join(config.PresetNames(), ", ")),
			Value:   DefaultNetwork,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Network config file, overrides --network",
		},
	}
}

func loadNetwork(c *cli.Context) (*config.NetworkConfig, error) {
	cfg, err := config.Resolve(c.String("config"), c.String("network"))
	if err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = c.String("network")
	}
	return cfg, nil
}

// LaunchCommand bootstraps a fresh relay chain and parachain.
func LaunchCommand() *cli.Command {
	return &cli.Command{
		Name:  "launch",
		Usage: "Bootstrap a relay chain and parachain from a network config",
		Description: `Waits for both chains to produce blocks, then registers the crowdloan
parachains on the relay chain, starts the auction and crowdloans, and
submits the parachain genesis batch (assets, markets, liquid staking,
AMM pools, bridge, farming).`,
		Flags: append(networkFlags(),
			relayWSFlag(),
			paraWSFlag(),
			&cli.DurationFlag{
				Name:  "onboarding-wait",
				Usage: "Time to wait for registered parathreads to onboard",
				Value: genesis.DefaultOnboardingWait,
			},
			&cli.DurationFlag{
				Name:  "block-timeout",
				Usage: "Time to wait for a chain to start producing blocks",
				Value: genesis.DefaultBlockTimeout,
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "Bootstrap relay chain and parachain concurrently",
			},
			&cli.StringFlag{
				Name:  "genesis-dir",
				Usage: "Read genesis state and wasm from <dir>/<paraId>/ instead of exporting them with docker",
			},
			dryRunFlag(),
		),
		Action: func(c *cli.Context) error {
			log := middleware.GetLogger(c)
			out := output.NewFormatterWithWriter(c.String("output"), c.App.Writer)
			if err := out.Validate(); err != nil {
				return err
			}

			cfg, err := loadNetwork(c)
			if err != nil {
				return err
			}
			dryRun := c.Bool("dry-run")
			relaySigner, paraSigner, err := launchSigners(c, dryRun)
			if err != nil {
				return err
			}

			var exporter genesis.Exporter
			if dir := c.String("genesis-dir"); dir != "" {
				exporter = &genesis.FileExporter{Dir: dir}
			} else if len(cfg.Crowdloans) > 0 {
				docker, err := genesis.NewDockerExporter(log)
				if err != nil {
					return err
				}
				defer docker.Close()
				exporter = docker
			}

			relay, para, err := dialBoth(c)
			if err != nil {
				return err
			}
			defer relay.Close()
			defer para.Close()

			l := &genesis.Launcher{
				Config:      cfg,
				Relay:       relay,
				Para:        para,
				RelaySigner: relaySigner,
				ParaSigner:  paraSigner,
				Exporter:    exporter,
				Options: genesis.Options{
					DryRun:         dryRun,
					Parallel:       c.Bool("parallel"),
					OnboardingWait: c.Duration("onboarding-wait"),
					BlockTimeout:   c.Duration("block-timeout"),
				},
				Log: log,
			}
			return executeLaunch(c.Context, l, out, c.App.ErrWriter)
		},
	}
}

// executeLaunch runs l and prints its report. A partial report is
// printed when the run fails part way.
func executeLaunch(ctx context.Context, l *genesis.Launcher, out *output.Formatter, summary io.Writer) error {
	report, err := l.Run(ctx)
	if report != nil && len(report.Steps) > 0 {
		if perr := out.PrintReport(report); perr != nil {
			l.Log.Warn("Failed to print launch report", zap.Error(perr))
		}
	}
	if err != nil {
		return err
	}
	output.Summary(summary, l.Config.Name, report)
	return nil
}

// launchSigners loads both sudo keys. A dry run never signs, so missing
// keys fall back to the dev accounts there.
func launchSigners(c *cli.Context, dryRun bool) (signature.KeyringPair, signature.KeyringPair, error) {
	env, err := middleware.GetEnv(c)
	if err != nil {
		return signature.KeyringPair{}, signature.KeyringPair{}, err
	}
	if dryRun {
		relay, err := chain.KeyringFromURI(orDefault(env.RelayChainSudoKey, devRelayKey))
		if err != nil {
			return relay, relay, err
		}
		para, err := chain.KeyringFromURI(orDefault(env.ParaChainSudoKey, devParaKey))
		return relay, para, err
	}

	relay, err := middleware.RelaySigner(c)
	if err != nil {
		return relay, relay, err
	}
	para, err := middleware.ParaSigner(c)
	return relay, para, err
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// PlanCommand prints the batches launch would submit without connecting.
func PlanCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Print the calls launch would submit for a network config",
		Flags: networkFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadNetwork(c)
			if err != nil {
				return err
			}
			env, err := middleware.GetEnv(c)
			if err != nil {
				return err
			}
			relay, err := signerAccount(orDefault(env.RelayChainSudoKey, devRelayKey))
			if err != nil {
				return err
			}
			para, err := signerAccount(orDefault(env.ParaChainSudoKey, devParaKey))
			if err != nil {
				return err
			}
			return executePlan(cfg, relay, para, output.NewFormatterWithWriter(c.String("output"), c.App.Writer))
		},
	}
}

var errNoCalls = errors.New("network config produces no calls")

// executePlan prints the parathread registrations, the relay batch and
// the parachain batch. Registrations are listed without genesis blobs,
// those are exported at launch.
func executePlan(cfg *config.NetworkConfig, relaySigner, paraSigner [32]byte, out *output.Formatter) error {
	blobs := make(map[uint32]*genesis.Genesis, len(cfg.Crowdloans))
	for _, c := range cfg.Crowdloans {
		blobs[c.ParaID] = &genesis.Genesis{}
	}
	registrations, err := genesis.BuildRegistrations(cfg, relaySigner, blobs)
	if err != nil {
		return err
	}
	relayBatch, err := genesis.BuildRelayBatch(cfg, relaySigner)
	if err != nil {
		return err
	}
	paraBatch, err := genesis.BuildParachainBatch(cfg, paraSigner)
	if err != nil {
		return err
	}
	if len(paraBatch) == 0 && len(relayBatch) == 0 {
		return errNoCalls
	}

	entries := output.Plan("relay", registrations)
	entries = append(entries, output.Plan("relay", relayBatch)...)
	entries = append(entries, output.Plan("para", paraBatch)...)
	return out.PrintPlan(entries)
}

func signerAccount(uri string) ([32]byte, error) {
	kp, err := chain.KeyringFromURI(uri)
	if err != nil {
		return [32]byte{}, err
	}
	return chain.AccountID(kp)
}
