package genesis

import (
	"context"
	"fmt"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/config"
	"github.com/parallel-finance/paractl/internal/logger"
)

const (
	DefaultOnboardingWait = 360 * time.Second
	DefaultBlockTimeout   = 5 * time.Minute
)

type Options struct {
	// DryRun encodes every batch instead of submitting it and skips the
	// block production and onboarding waits.
	DryRun bool
	// Parallel bootstraps relay and parachain concurrently. By default
	// the relay chain is bootstrapped first.
	Parallel       bool
	OnboardingWait time.Duration
	BlockTimeout   time.Duration
}

// Step is one submitted (or encoded, in dry run) extrinsic.
type Step struct {
	Chain   string         `json:"chain" yaml:"chain"`
	Call    string         `json:"call" yaml:"call"`
	Calls   int            `json:"calls" yaml:"calls"`
	Hex     string         `json:"hex,omitempty" yaml:"hex,omitempty"`
	Receipt *chain.Receipt `json:"receipt,omitempty" yaml:"receipt,omitempty"`
}

// Report summarises a launch run.
type Report struct {
	RunID    string        `json:"runId" yaml:"runId"`
	DryRun   bool          `json:"dryRun" yaml:"dryRun"`
	Steps    []Step        `json:"steps" yaml:"steps"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Launcher bootstraps a relay chain and a parachain from one config.
type Launcher struct {
	Config      *config.NetworkConfig
	Relay       chain.Client
	Para        chain.Client
	RelaySigner signature.KeyringPair
	ParaSigner  signature.KeyringPair
	Exporter    Exporter
	Options     Options
	Log         logger.Logger
}

func (l *Launcher) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.New().String(), DryRun: l.Options.DryRun}
	ctx = logger.WithFields(ctx, zap.String("runId", report.RunID))
	log := logger.Scoped(ctx, l.Log)

	log.Info("Launching network",
		zap.String("network", l.Config.Name),
		zap.Uint32("paraId", l.Config.ParaID),
		zap.Bool("dryRun", l.Options.DryRun),
		zap.Bool("parallel", l.Options.Parallel),
	)

	var relaySteps, paraSteps []Step
	if l.Options.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			relaySteps, err = l.relay(gctx, log.With(zap.String("chain", "relay")))
			return err
		})
		g.Go(func() error {
			var err error
			paraSteps, err = l.para(gctx, log.With(zap.String("chain", "para")))
			return err
		})
		err := g.Wait()
		report.Steps = append(relaySteps, paraSteps...)
		if err != nil {
			return report, err
		}
	} else {
		var err error
		relaySteps, err = l.relay(ctx, log.With(zap.String("chain", "relay")))
		report.Steps = append(report.Steps, relaySteps...)
		if err != nil {
			return report, err
		}
		paraSteps, err = l.para(ctx, log.With(zap.String("chain", "para")))
		report.Steps = append(report.Steps, paraSteps...)
		if err != nil {
			return report, err
		}
	}

	report.Duration = time.Since(start)
	log.Info("Network launched", zap.Int("extrinsics", len(report.Steps)), zap.Duration("took", report.Duration))
	return report, nil
}

func (l *Launcher) relay(ctx context.Context, log logger.Logger) ([]Step, error) {
	if err := l.waitForBlocks(ctx, l.Relay, log); err != nil {
		return nil, fmt.Errorf("relay chain: %w", err)
	}

	signer, err := chain.AccountID(l.RelaySigner)
	if err != nil {
		return nil, err
	}

	blobs := make(map[uint32]*Genesis, len(l.Config.Crowdloans))
	for _, c := range l.Config.Crowdloans {
		g, err := l.Exporter.Export(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("failed to export genesis of para %d: %w", c.ParaID, err)
		}
		blobs[c.ParaID] = g
	}

	registrations, err := BuildRegistrations(l.Config, signer, blobs)
	if err != nil {
		return nil, err
	}

	var steps []Step
	for i, reg := range registrations {
		log.Info("Registering parathread", zap.Uint32("paraId", l.Config.Crowdloans[i].ParaID))
		step, err := l.submit(ctx, "relay", l.Relay, l.RelaySigner, reg)
		if step != nil {
			steps = append(steps, *step)
		}
		if err != nil {
			return steps, fmt.Errorf("failed to register para %d: %w", l.Config.Crowdloans[i].ParaID, err)
		}
	}

	if len(registrations) > 0 && !l.Options.DryRun {
		wait := l.Options.OnboardingWait
		if wait == 0 {
			wait = DefaultOnboardingWait
		}
		log.Info("Waiting for parathreads to be onboarded", zap.Duration("wait", wait))
		if err := Sleep(ctx, wait); err != nil {
			return steps, fmt.Errorf("onboarding wait interrupted: %w", err)
		}
	}

	batch, err := BuildRelayBatch(l.Config, signer)
	if err != nil {
		return steps, err
	}

	log.Info("Starting auction and crowdloans", zap.Int("calls", len(batch)))
	step, err := l.submitBatch(ctx, "relay", l.Relay, l.RelaySigner, batch)
	if step != nil {
		steps = append(steps, *step)
	}
	if err != nil {
		return steps, fmt.Errorf("relay batch: %w", err)
	}
	return steps, nil
}

func (l *Launcher) para(ctx context.Context, log logger.Logger) ([]Step, error) {
	if err := l.waitForBlocks(ctx, l.Para, log); err != nil {
		return nil, fmt.Errorf("parachain: %w", err)
	}

	signer, err := chain.AccountID(l.ParaSigner)
	if err != nil {
		return nil, err
	}

	batch, err := BuildParachainBatch(l.Config, signer)
	if err != nil {
		return nil, err
	}

	log.Info("Submitting parachain batch", zap.Int("calls", len(batch)))
	step, err := l.submitBatch(ctx, "para", l.Para, l.ParaSigner, batch)
	if step == nil {
		return nil, fmt.Errorf("parachain batch: %w", err)
	}
	if err != nil {
		return []Step{*step}, fmt.Errorf("parachain batch: %w", err)
	}
	return []Step{*step}, nil
}

func (l *Launcher) waitForBlocks(ctx context.Context, c chain.Client, log logger.Logger) error {
	if l.Options.DryRun {
		return nil
	}
	timeout := l.Options.BlockTimeout
	if timeout == 0 {
		timeout = DefaultBlockTimeout
	}
	log.Info("Waiting for block production")
	n, err := c.WaitForBlockProduction(ctx, timeout)
	if err != nil {
		return err
	}
	log.Debug("Producing blocks", zap.Uint32("block", n))
	return nil
}

// submit sends call, or encodes it in dry run. The returned step is nil
// only when nothing reached the chain.
func (l *Launcher) submit(ctx context.Context, name string, c chain.Client, signer signature.KeyringPair, call calls.Call) (*Step, error) {
	return l.send(name, c, call, func() (*chain.Receipt, error) {
		return c.Submit(ctx, signer, call)
	})
}

// submitBatch is submit for a Utility.batch_all of batch.
func (l *Launcher) submitBatch(ctx context.Context, name string, c chain.Client, signer signature.KeyringPair, batch []calls.Call) (*Step, error) {
	return l.send(name, c, calls.BatchAll(batch), func() (*chain.Receipt, error) {
		return c.SubmitBatch(ctx, signer, batch)
	})
}

func (l *Launcher) send(name string, c chain.Client, call calls.Call, submit func() (*chain.Receipt, error)) (*Step, error) {
	step := &Step{Chain: name, Call: call.String(), Calls: len(calls.Flatten(call))}

	if l.Options.DryRun {
		hex, err := c.EncodeHex(call)
		if err != nil {
			return nil, err
		}
		step.Hex = hex
		return step, nil
	}

	receipt, err := submit()
	if receipt == nil {
		return nil, err
	}
	step.Receipt = receipt
	return step, err
}
