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
	"github.com/parallel-finance/paractl/internal/logger"
	"github.com/parallel-finance/paractl/internal/output"
	"github.com/parallel-finance/paractl/internal/storagekey"
)

func derivativeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "derivative-index",
			Usage: "Derivative index of the staking controller (defaults to the LiquidStaking.DerivativeIndex constant)",
			Value: -1,
		},
		&cli.StringFlag{
			Name:  "byte-order",
			Usage: "Layout of the derivative index in the sub-account preimage: be or le",
			Value: string(address.BigEndian),
		},
	}
}

// relayAnchor is the relay block a parachain block was built on.
type relayAnchor struct {
	ParaBlock      string
	ValidationData *chain.ValidationData
	RelayBlock     string
}

func anchor(ctx context.Context, relay, para chain.Client, pallet, paraBlock string, log logger.Logger) (*relayAnchor, error) {
	if paraBlock == "" {
		var err error
		if paraBlock, err = para.LatestBlockHash(ctx); err != nil {
			return nil, err
		}
	}
	log.Info("Parachain block", zap.String("hash", paraBlock))

	vd, err := chain.ReadValidationData(ctx, para, pallet, paraBlock)
	if err != nil {
		return nil, err
	}
	relayBlock, err := relay.BlockHash(ctx, uint32(vd.RelayParentNumber))
	if err != nil {
		return nil, err
	}
	log.Info("Relay parent block",
		zap.Uint32("number", uint32(vd.RelayParentNumber)),
		zap.String("hash", relayBlock))

	return &relayAnchor{ParaBlock: paraBlock, ValidationData: vd, RelayBlock: relayBlock}, nil
}

// stakingController resolves the relay chain controller account of the
// liquid staking derivative: SubAccount(SovereignRelayOf(paraId), index).
func stakingController(ctx context.Context, para chain.Client, index int, order address.ByteOrder) (uint16, [32]byte, error) {
	var derivative uint16
	if index >= 0 {
		if index > 0xffff {
			return 0, [32]byte{}, fmt.Errorf("derivative index %d out of range", index)
		}
		derivative = uint16(index)
	} else if err := para.Constant("LiquidStaking", "DerivativeIndex", &derivative); err != nil {
		return 0, [32]byte{}, err
	}

	paraID, err := chain.ParachainID(ctx, para)
	if err != nil {
		return 0, [32]byte{}, err
	}
	return derivative, address.SubAccountID(address.SovereignRelayID(paraID), derivative, order), nil
}

// SetStakingLedgerCommand relays the staking ledger of the derivative
// controller to the liquid staking pallet with a read proof.
func SetStakingLedgerCommand() *cli.Command {
	return &cli.Command{
		Name:  "set-staking-ledger",
		Usage: "Submit the relay chain staking ledger of the liquid staking controller with its proof",
		Flags: append([]cli.Flag{relayWSFlag(), paraWSFlag(), dryRunFlag(), yesFlag()}, derivativeFlags()...),
		Action: func(c *cli.Context) error {
			order, err := address.ParseByteOrder(c.String("byte-order"))
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
			return executeSetStakingLedger(c.Context, relay, para, s, c.Int("derivative-index"), order)
		},
	}
}

func executeSetStakingLedger(ctx context.Context, relay, para chain.Client, s *submitter, index int, order address.ByteOrder) error {
	derivative, controller, err := stakingController(ctx, para, index, order)
	if err != nil {
		return err
	}
	s.Log.Info("Staking controller",
		zap.Uint16("derivativeIndex", derivative),
		zap.String("controller", address.MustEncode(controller[:], address.GenericPrefix)))

	a, err := anchor(ctx, relay, para, "LiquidStaking", "", s.Log)
	if err != nil {
		return err
	}

	key := storagekey.StakingLedger(controller)
	proof, err := relay.ReadProof(ctx, [][]byte{key}, a.RelayBlock)
	if err != nil {
		return err
	}
	ledger, err := relay.StorageRaw(ctx, key, a.RelayBlock)
	if err != nil {
		return err
	}
	if ledger == nil {
		return fmt.Errorf("no staking ledger for controller %s at relay block %s",
			address.MustEncode(controller[:], address.GenericPrefix), a.RelayBlock)
	}

	_, err = s.send(ctx, calls.LiquidStakingSetStakingLedger(derivative, ledger, proof.Proof))
	return err
}

// SetCurrentEraCommand relays Staking.CurrentEra with a read proof.
func SetCurrentEraCommand() *cli.Command {
	return &cli.Command{
		Name:  "set-current-era",
		Usage: "Submit the relay chain current era with its proof",
		Flags: []cli.Flag{relayWSFlag(), paraWSFlag(), dryRunFlag(), yesFlag()},
		Action: func(c *cli.Context) error {
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
			return executeSetCurrentEra(c.Context, relay, para, s)
		},
	}
}

// executeSetCurrentEra reads the era and its proof at the relay parent of
// the latest parachain block, the root LiquidStaking verifies against.
func executeSetCurrentEra(ctx context.Context, relay, para chain.Client, s *submitter) error {
	a, err := anchor(ctx, relay, para, "LiquidStaking", "", s.Log)
	if err != nil {
		return err
	}

	key := storagekey.StakingCurrentEra()
	era, ok, err := chain.ReadU32(ctx, relay, key, a.RelayBlock)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("Staking.CurrentEra is not set at relay block %s", a.RelayBlock)
	}
	proof, err := relay.ReadProof(ctx, [][]byte{key}, a.RelayBlock)
	if err != nil {
		return err
	}

	_, err = s.send(ctx, calls.LiquidStakingSetCurrentEra(era, proof.Proof))
	return err
}

// StorageProof is printed by storage-proof.
type StorageProof struct {
	ParaBlock      string                   `json:"paraBlock" yaml:"paraBlock"`
	ValidationData chain.ValidationDataView `json:"validationData" yaml:"validationData"`
	RelayBlock     string                   `json:"relayBlock" yaml:"relayBlock"`
	Item           string                   `json:"item" yaml:"item"`
	Controller     string                   `json:"controller" yaml:"controller"`
	StorageKey     string                   `json:"storageKey" yaml:"storageKey"`
	Proof          []string                 `json:"proof" yaml:"proof"`
}

// Storage items storage-proof can prove. Ledger and account are relay
// chain state read at the relay parent; asset is the parachain's
// Assets.Account read at the parachain block.
const (
	ProofItemLedger  = "ledger"
	ProofItemAccount = "account"
	ProofItemAsset   = "asset"
)

// proofKey returns the storage key of item for who and whether it lives
// on the parachain.
func proofKey(item string, who [32]byte, assetID uint32) ([]byte, bool, error) {
	switch item {
	case "", ProofItemLedger:
		return storagekey.StakingLedger(who), false, nil
	case ProofItemAccount:
		return storagekey.SystemAccount(who), false, nil
	case ProofItemAsset:
		return storagekey.AssetsAccount(assetID, who), true, nil
	}
	return nil, false, fmt.Errorf("unknown proof item %q (want %s, %s or %s)", item, ProofItemLedger, ProofItemAccount, ProofItemAsset)
}

// StorageProofCommand prints the read proof of a staking ledger, or of
// the controller's System.Account, at the relay parent of a parachain
// block.
func StorageProofCommand() *cli.Command {
	return &cli.Command{
		Name:  "storage-proof",
		Usage: "Print validation data, storage key and read proof of a relay chain staking ledger",
		Flags: append([]cli.Flag{
			relayWSFlag(),
			paraWSFlag(),
			&cli.StringFlag{
				Name:    "block-at",
				Aliases: []string{"a"},
				Usage:   "Parachain block hash (defaults to the best block)",
			},
			&cli.StringFlag{
				Name:  "account",
				Usage: "Account to prove (defaults to the liquid staking derivative controller)",
			},
			&cli.StringFlag{
				Name:  "item",
				Usage: "Storage item to prove: ledger (Staking.Ledger), account (System.Account) or asset (parachain Assets.Account)",
				Value: ProofItemLedger,
			},
			&cli.UintFlag{
				Name:  "asset-id",
				Usage: "Asset of --item asset",
			},
		}, derivativeFlags()...),
		Action: func(c *cli.Context) error {
			order, err := address.ParseByteOrder(c.String("byte-order"))
			if err != nil {
				return err
			}
			if _, _, err := proofKey(c.String("item"), [32]byte{}, 0); err != nil {
				return err
			}
			relay, para, err := dialBoth(c)
			if err != nil {
				return err
			}
			defer relay.Close()
			defer para.Close()

			var controller *[32]byte
			if acc := c.String("account"); acc != "" {
				id, err := address.AccountID(acc)
				if err != nil {
					return err
				}
				controller = &id
			}

			res, err := executeStorageProof(c.Context, relay, para, c.String("block-at"), proofItem{Name: c.String("item"), AssetID: uint32(c.Uint("asset-id"))}, controller, c.Int("derivative-index"), order, middleware.GetLogger(c))
			if err != nil {
				return err
			}
			return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).Print(res)
		},
	}
}

// proofItem selects the storage entry storage-proof reads.
type proofItem struct {
	Name    string
	AssetID uint32
}

func executeStorageProof(ctx context.Context, relay, para chain.Client, paraBlock string, item proofItem, controller *[32]byte, index int, order address.ByteOrder, log logger.Logger) (*StorageProof, error) {
	if item.Name == "" {
		item.Name = ProofItemLedger
	}
	if controller == nil {
		_, id, err := stakingController(ctx, para, index, order)
		if err != nil {
			return nil, err
		}
		controller = &id
	}

	a, err := anchor(ctx, relay, para, "ParachainSystem", paraBlock, log)
	if err != nil {
		return nil, err
	}

	key, onPara, err := proofKey(item.Name, *controller, item.AssetID)
	if err != nil {
		return nil, err
	}
	source, at := relay, a.RelayBlock
	if onPara {
		source, at = para, a.ParaBlock
	}
	proof, err := source.ReadProof(ctx, [][]byte{key}, at)
	if err != nil {
		return nil, err
	}

	res := &StorageProof{
		ParaBlock:      a.ParaBlock,
		ValidationData: a.ValidationData.View(),
		RelayBlock:     a.RelayBlock,
		Item:           item.Name,
		Controller:     address.MustEncode(controller[:], address.GenericPrefix),
		StorageKey:     hexutil.Encode(key),
		Proof:          make([]string, 0, len(proof.Proof)),
	}
	for _, node := range proof.Proof {
		res.Proof = append(res.Proof, hexutil.Encode(node))
	}
	return res, nil
}
