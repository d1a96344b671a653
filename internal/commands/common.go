package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/commands/middleware"
	"github.com/parallel-finance/paractl/internal/genesis"
	"github.com/parallel-finance/paractl/internal/logger"
	"github.com/parallel-finance/paractl/internal/output"
)

// CouncilMembership is the membership pallet backing the general council.
const CouncilMembership = "GeneralCouncilMembership"

var ErrAborted = errors.New("aborted by user")

func relayWSFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "relay-ws",
		Aliases: []string{"r"},
		Usage:   "Relay chain websocket endpoint (defaults to the RELAY_CHAIN_TYPE profile)",
	}
}

func paraWSFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "para-ws",
		Aliases: []string{"p"},
		Usage:   "Parachain websocket endpoint (defaults to the RELAY_CHAIN_TYPE profile)",
	}
}

func dryRunFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"d"},
		Usage:   "Print the hex encoded call instead of signing and submitting it",
	}
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Submit without asking for confirmation",
	}
}

// submitter signs and submits a single call, or prints its encoding in
// dry run.
type submitter struct {
	Chain   string
	Client  chain.Client
	Signer  signature.KeyringPair
	DryRun  bool
	Yes     bool
	Confirm func(chainName, call string) (bool, error)
	Out     *output.Formatter
	Log     logger.Logger
}

func newSubmitter(c *cli.Context, chainName string, client chain.Client) (*submitter, error) {
	s := &submitter{
		Chain:   chainName,
		Client:  client,
		DryRun:  c.Bool("dry-run"),
		Yes:     c.Bool("yes") || !output.Interactive(),
		Confirm: output.ConfirmSubmission,
		Out:     output.NewFormatterWithWriter(c.String("output"), c.App.Writer),
		Log:     middleware.GetLogger(c),
	}
	if s.DryRun {
		return s, nil
	}

	var err error
	if chainName == "relay" {
		s.Signer, err = middleware.RelaySigner(c)
	} else {
		s.Signer, err = middleware.ParaSigner(c)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *submitter) send(ctx context.Context, call calls.Call) (*genesis.Step, error) {
	step := &genesis.Step{Chain: s.Chain, Call: call.String(), Calls: len(calls.Flatten(calls.Unwrap(call)))}
	s.Log.Debug("Prepared call", zap.String("call", calls.Describe(call)))

	if s.DryRun {
		hex, err := s.Client.EncodeHex(call)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", call.Name(), err)
		}
		step.Hex = hex
		s.Log.Info("hex-encoded call", zap.String("call", call.String()))
		return step, s.Out.Print(step)
	}

	if !s.Yes {
		ok, err := s.Confirm(s.Chain, call.String())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	receipt, err := s.Client.Submit(ctx, s.Signer, call)
	if receipt != nil {
		step.Receipt = receipt
		if perr := s.Out.Print(step); perr != nil {
			s.Log.Warn("Failed to print receipt", zap.Error(perr))
		}
	}
	if err != nil {
		return step, fmt.Errorf("failed to submit %s: %w", call.Name(), err)
	}
	return step, nil
}

// councilProposal wraps proposal in GeneralCouncil.propose with a simple
// majority threshold.
func councilProposal(ctx context.Context, para chain.Client, proposal calls.Call) (calls.Call, error) {
	threshold, err := chain.CouncilThreshold(ctx, para, CouncilMembership)
	if err != nil {
		return calls.Call{}, err
	}
	return calls.CouncilPropose(threshold, proposal), nil
}
