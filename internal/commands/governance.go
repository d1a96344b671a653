package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/commands/middleware"
	"github.com/parallel-finance/paractl/internal/csvinput"
)

// Farming rewards are paid from the treasury of the respective network.
const (
	ParallelRewardPayer = "p8B3QXweBQKzu8DhkggwJqFkUVQ53kB1RejtFQ8q3JMSFqqMd"
	HeikoRewardPayer    = "hJFHzsKENPsaqPJT2k6D4VYUKz2eFxxW7AVfG9zvL3Q1R7sFp"
)

func proposalFlags() []cli.Flag {
	return []cli.Flag{paraWSFlag(), dryRunFlag(), yesFlag()}
}

// openCSV reads the single <csv> argument.
func openCSV(c *cli.Context) (io.ReadCloser, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one argument: <csv>")
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.Args().First(), err)
	}
	return f, nil
}

// proposeBatch proposes Utility.batch_all(batch) to the general council.
func proposeBatch(ctx context.Context, para chain.Client, s *submitter, batch []calls.Call) error {
	if len(batch) == 0 {
		return fmt.Errorf("nothing to propose: no rows")
	}
	proposal, err := councilProposal(ctx, para, calls.BatchAll(batch))
	if err != nil {
		return err
	}
	_, err = s.send(ctx, proposal)
	return err
}

// AddMarketCommand proposes new loans markets read from a CSV file.
func AddMarketCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-market",
		Usage:     "Propose new loans markets from a CSV file",
		ArgsUsage: "<csv>",
		Flags:     proposalFlags(),
		Action: func(c *cli.Context) error {
			f, err := openCSV(c)
			if err != nil {
				return err
			}
			rows, err := csvinput.ParseMarkets(f)
			f.Close()
			if err != nil {
				return err
			}
			return withProposer(c, func(ctx context.Context, para chain.Client, s *submitter) error {
				return executeAddMarket(ctx, para, s, rows)
			})
		},
	}
}

func executeAddMarket(ctx context.Context, para chain.Client, s *submitter, rows []csvinput.MarketRow) error {
	batch := make([]calls.Call, 0, len(rows))
	for _, row := range rows {
		s.Log.Info("Adding market", zap.Uint32("assetId", row.AssetID), zap.Uint32("ptokenId", row.Market.PTokenID))
		batch = append(batch, calls.LoansAddMarket(row.AssetID, row.Market))
	}
	return proposeBatch(ctx, para, s, batch)
}

// MarketRewardCommand proposes loans reward speeds read from a CSV file.
func MarketRewardCommand() *cli.Command {
	return &cli.Command{
		Name:      "market-reward",
		Usage:     "Propose loans market reward speeds from a CSV file",
		ArgsUsage: "<csv>",
		Flags:     proposalFlags(),
		Action: func(c *cli.Context) error {
			f, err := openCSV(c)
			if err != nil {
				return err
			}
			rows, err := csvinput.ParseMarketRewards(f)
			f.Close()
			if err != nil {
				return err
			}
			return withProposer(c, func(ctx context.Context, para chain.Client, s *submitter) error {
				return executeMarketReward(ctx, para, s, rows)
			})
		},
	}
}

func executeMarketReward(ctx context.Context, para chain.Client, s *submitter, rows []csvinput.MarketReward) error {
	batch := make([]calls.Call, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, calls.LoansUpdateMarketRewardSpeed(row.AssetID, row.SupplySpeed, row.BorrowSpeed).
			WithNote("%s supply %s borrow %s", row.Name, row.SupplySpeed, row.BorrowSpeed))
	}
	return proposeBatch(ctx, para, s, batch)
}

// FarmingRewardCommand proposes farming reward dispatches read from a CSV
// file.
func FarmingRewardCommand() *cli.Command {
	return &cli.Command{
		Name:      "farming-reward",
		Usage:     "Propose farming pool rewards from a CSV file",
		ArgsUsage: "<csv>",
		Flags: append(proposalFlags(),
			&cli.StringFlag{
				Name:  "payer",
				Usage: "Account the rewards are paid from (defaults to the network treasury)",
			},
			&cli.IntFlag{
				Name:  "reward-asset",
				Usage: "Reward asset id (defaults to the network's native asset)",
				Value: -1,
			},
		),
		Action: func(c *cli.Context) error {
			f, err := openCSV(c)
			if err != nil {
				return err
			}
			rows, err := csvinput.ParseFarmingRewards(f)
			f.Close()
			if err != nil {
				return err
			}
			return withProposer(c, func(ctx context.Context, para chain.Client, s *submitter) error {
				opts, err := farmingPayer(ctx, para, c.String("payer"), c.Int("reward-asset"))
				if err != nil {
					return err
				}
				return executeFarmingReward(ctx, para, s, rows, opts)
			})
		},
	}
}

type rewardOptions struct {
	Payer       [32]byte
	RewardAsset uint32
}

// farmingPayer picks the treasury and reward asset of the connected
// network unless overridden.
func farmingPayer(ctx context.Context, para chain.Client, payer string, rewardAsset int) (rewardOptions, error) {
	name, err := para.ChainName(ctx)
	if err != nil {
		return rewardOptions{}, err
	}
	opts := rewardOptions{RewardAsset: 0}
	if name == "Parallel" {
		opts.RewardAsset = 1
	}
	if payer == "" {
		payer = HeikoRewardPayer
		if name == "Parallel" {
			payer = ParallelRewardPayer
		}
	}
	if opts.Payer, err = address.AccountID(payer); err != nil {
		return rewardOptions{}, fmt.Errorf("invalid payer: %w", err)
	}
	if rewardAsset >= 0 {
		opts.RewardAsset = uint32(rewardAsset)
	}
	return opts, nil
}

func executeFarmingReward(ctx context.Context, para chain.Client, s *submitter, rows []csvinput.FarmingReward, opts rewardOptions) error {
	batch := make([]calls.Call, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, calls.FarmingDispatchReward(row.AssetID, opts.RewardAsset, 0, opts.Payer, row.Amount, row.Duration).
			WithNote("%s amount %s over %d blocks", row.Name, row.Amount, row.Duration))
	}
	return proposeBatch(ctx, para, s, batch)
}

// withProposer connects to the parachain and runs fn with a para submitter.
func withProposer(c *cli.Context, fn func(ctx context.Context, para chain.Client, s *submitter) error) error {
	para, err := middleware.ParaClient(c)
	if err != nil {
		return err
	}
	defer para.Close()

	s, err := newSubmitter(c, "para", para)
	if err != nil {
		return err
	}
	return fn(c.Context, para, s)
}
