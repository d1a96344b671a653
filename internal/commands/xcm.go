package commands

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/commands/middleware"
	"github.com/parallel-finance/paractl/internal/config"
	"github.com/parallel-finance/paractl/internal/xcm"
)

const (
	DefaultHrmpMaxCapacity    = 1000
	DefaultHrmpMaxMessageSize = 102400

	// defaultUmpCall is System.remark(0x1234) on the relay chain.
	defaultUmpCall = "0x0001081234"
)

func transactFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "xcm-fee",
			Usage: "Relay asset withdrawn to buy execution (defaults to the RELAY_CHAIN_TYPE profile)",
		},
		&cli.Uint64Flag{
			Name:  "transact-weight",
			Usage: "requireWeightAtMost of the Transact instruction (defaults to the RELAY_CHAIN_TYPE profile)",
		},
	}
}

func transactOptions(c *cli.Context, origin xcm.OriginKind, refund [32]byte) (xcm.TransactOptions, error) {
	profile, err := middleware.GetProfile(c)
	if err != nil {
		return xcm.TransactOptions{}, err
	}
	opts := xcm.TransactOptions{
		Fee:        profile.XcmFee,
		Weight:     profile.TransactWeight,
		OriginKind: origin,
		Refund:     refund,
	}
	if s := c.String("xcm-fee"); s != "" {
		fee, err := config.ParseAmount(s)
		if err != nil {
			return xcm.TransactOptions{}, fmt.Errorf("invalid --xcm-fee: %w", err)
		}
		opts.Fee = fee.Int()
	}
	if c.IsSet("transact-weight") {
		opts.Weight = c.Uint64("transact-weight")
	}
	return opts, nil
}

// HrmpOpenCommand proposes to open an HRMP channel from source to target.
func HrmpOpenCommand() *cli.Command {
	return &cli.Command{
		Name:      "hrmp-open",
		Usage:     "Propose opening an HRMP channel through the general council",
		ArgsUsage: "<source-para-id> <target-para-id>",
		Description: `Encodes Hrmp.hrmp_init_open_channel against the relay chain metadata and
proposes OrmlXcm.send_as_sovereign of the Transact message to the general
council. Surplus fees are refunded to the source's sovereign account.`,
		Flags: append([]cli.Flag{
			relayWSFlag(),
			paraWSFlag(),
			&cli.UintFlag{Name: "max-capacity", Usage: "Channel max capacity", Value: DefaultHrmpMaxCapacity},
			&cli.UintFlag{Name: "max-message-size", Usage: "Channel max message size", Value: DefaultHrmpMaxMessageSize},
			dryRunFlag(),
			yesFlag(),
		}, transactFlags()...),
		Action: func(c *cli.Context) error {
			source, target, err := paraPair(c)
			if err != nil {
				return err
			}
			opts, err := transactOptions(c, xcm.OriginNative, address.SovereignRelayID(source))
			if err != nil {
				return err
			}
			relay, para, err := dialBoth(c)
			if err != nil {
				return err
			}
			defer relay.Close()
			defer para.Close()

			s, err := newSubmitter(c, "para", para)
			if err != nil {
				return err
			}
			open := calls.HrmpInitOpenChannel(target, uint32(c.Uint("max-capacity")), uint32(c.Uint("max-message-size")))
			return executeHrmpOpen(c.Context, relay, para, s, open, opts)
		},
	}
}

func executeHrmpOpen(ctx context.Context, relay, para chain.Client, s *submitter, open calls.Call, opts xcm.TransactOptions) error {
	encoded, err := relay.Encode(open)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", open.Name(), err)
	}
	s.Log.Info("Encoded relay call", zap.String("call", open.String()), zap.String("hex", hexutil.Encode(encoded)))

	send := calls.OrmlXcmSendAsSovereign(xcm.RelayDestination(), xcm.TransactMessage(encoded, opts)).
		WithNote("%s", open.String())
	proposal, err := councilProposal(ctx, para, send)
	if err != nil {
		return err
	}
	_, err = s.send(ctx, proposal)
	return err
}

// HrmpAcceptCommand accepts an HRMP channel request with the sudo key.
func HrmpAcceptCommand() *cli.Command {
	return &cli.Command{
		Name:      "hrmp-accept",
		Usage:     "Accept an HRMP channel request via sudo",
		ArgsUsage: "<source-para-id> <target-para-id>",
		Description: `Sends Hrmp.hrmp_accept_open_channel(source) to the relay chain with
Sudo(PolkadotXcm.send). Surplus fees are refunded to the target's
sovereign account.`,
		Flags: append([]cli.Flag{
			relayWSFlag(),
			paraWSFlag(),
			dryRunFlag(),
			yesFlag(),
		}, transactFlags()...),
		Action: func(c *cli.Context) error {
			source, target, err := paraPair(c)
			if err != nil {
				return err
			}
			opts, err := transactOptions(c, xcm.OriginNative, address.SovereignRelayID(target))
			if err != nil {
				return err
			}
			relay, para, err := dialBoth(c)
			if err != nil {
				return err
			}
			defer relay.Close()
			defer para.Close()

			s, err := newSubmitter(c, "para", para)
			if err != nil {
				return err
			}
			return executeHrmpAccept(c.Context, relay, s, calls.HrmpAcceptOpenChannel(source), opts)
		},
	}
}

func executeHrmpAccept(ctx context.Context, relay chain.Client, s *submitter, accept calls.Call, opts xcm.TransactOptions) error {
	encoded, err := relay.Encode(accept)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", accept.Name(), err)
	}
	send := calls.PolkadotXcmSend(xcm.RelayDestination(), xcm.TransactMessage(encoded, opts)).
		WithNote("%s", accept.String())
	_, err = s.send(ctx, calls.Sudo(send))
	return err
}

// UmpTransactCommand proposes sending an arbitrary relay call as the
// parachain's sovereign account.
func UmpTransactCommand() *cli.Command {
	return &cli.Command{
		Name:  "ump-transact",
		Usage: "Propose an encoded relay chain call dispatched by the parachain sovereign account",
		Flags: append([]cli.Flag{
			paraWSFlag(),
			&cli.StringFlag{
				Name:    "encoded-call-data",
				Aliases: []string{"e"},
				Usage:   "Hex encoded relay chain call",
				Value:   defaultUmpCall,
			},
			&cli.StringFlag{
				Name:  "origin-kind",
				Usage: "Transact origin kind: Native, SovereignAccount, Superuser or Xcm",
				Value: xcm.OriginSovereignAccount.String(),
			},
			dryRunFlag(),
			yesFlag(),
		}, transactFlags()...),
		Action: func(c *cli.Context) error {
			encoded, err := hexutil.Decode(c.String("encoded-call-data"))
			if err != nil {
				return fmt.Errorf("invalid --encoded-call-data: %w", err)
			}
			origin, err := xcm.ParseOriginKind(c.String("origin-kind"))
			if err != nil {
				return err
			}
			para, err := middleware.ParaClient(c)
			if err != nil {
				return err
			}
			defer para.Close()

			s, err := newSubmitter(c, "para", para)
			if err != nil {
				return err
			}
			opts, err := transactOptions(c, origin, [32]byte{})
			if err != nil {
				return err
			}
			return executeUmpTransact(c.Context, para, s, encoded, opts)
		},
	}
}

// executeUmpTransact fills in the refund account from the parachain id
// read on chain.
func executeUmpTransact(ctx context.Context, para chain.Client, s *submitter, encoded []byte, opts xcm.TransactOptions) error {
	paraID, err := chain.ParachainID(ctx, para)
	if err != nil {
		return err
	}
	opts.Refund = address.SovereignRelayID(paraID)

	send := calls.OrmlXcmSendAsSovereign(xcm.RelayDestination(), xcm.TransactMessage(encoded, opts)).
		WithNote("%d byte relay call as %s", len(encoded), opts.OriginKind)
	proposal, err := councilProposal(ctx, para, send)
	if err != nil {
		return err
	}
	_, err = s.send(ctx, proposal)
	return err
}

func paraPair(c *cli.Context) (uint32, uint32, error) {
	if c.NArg() != 2 {
		return 0, 0, fmt.Errorf("expected two arguments: <source-para-id> <target-para-id>")
	}
	source, err := parseUint32(c.Args().Get(0), "source para id")
	if err != nil {
		return 0, 0, err
	}
	target, err := parseUint32(c.Args().Get(1), "target para id")
	if err != nil {
		return 0, 0, err
	}
	return source, target, nil
}

func dialBoth(c *cli.Context) (chain.Client, chain.Client, error) {
	relay, err := middleware.RelayClient(c)
	if err != nil {
		return nil, nil, err
	}
	para, err := middleware.ParaClient(c)
	if err != nil {
		relay.Close()
		return nil, nil, err
	}
	return relay, para, nil
}
