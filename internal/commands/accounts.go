package commands

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/output"
)

func prefixFlag() cli.Flag {
	return &cli.UintFlag{
		Name:  "prefix",
		Usage: "SS58 network prefix of the printed address",
		Value: uint(address.GenericPrefix),
	}
}

// SovereignCommand prints the sovereign account of a parachain.
func SovereignCommand() *cli.Command {
	return &cli.Command{
		Name:      "sovereign",
		Usage:     "Print the sovereign account of a parachain",
		ArgsUsage: "<para-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "sibling",
				Aliases: []string{"s"},
				Usage:   "Print the account on sibling parachains instead of the relay chain",
			},
			prefixFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one argument: <para-id>")
			}
			paraID, err := parseUint32(c.Args().First(), "para id")
			if err != nil {
				return err
			}
			addr, err := sovereignAccount(paraID, c.Bool("sibling"), uint16(c.Uint("prefix")))
			if err != nil {
				return err
			}
			return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).Print(map[string]interface{}{
				"paraId":    paraID,
				"sibling":   c.Bool("sibling"),
				"sovereign": addr,
			})
		},
	}
}

func sovereignAccount(paraID uint32, sibling bool, prefix uint16) (string, error) {
	if sibling {
		return address.SovereignParaOf(paraID, prefix)
	}
	return address.SovereignRelayOf(paraID, prefix)
}

// DerivativeCommand prints a derivative sub-account.
func DerivativeCommand() *cli.Command {
	return &cli.Command{
		Name:      "derivative",
		Usage:     "Print the derivative sub-account of an address",
		ArgsUsage: "<address> <index>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "byte-order",
				Usage: "Layout of the index in the preimage: be (reversed, default) or le",
				Value: string(address.BigEndian),
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected two arguments: <address> <index>")
			}
			index, err := strconv.ParseUint(c.Args().Get(1), 10, 16)
			if err != nil {
				return fmt.Errorf("invalid derivative index %q: %w", c.Args().Get(1), err)
			}
			order, err := address.ParseByteOrder(c.String("byte-order"))
			if err != nil {
				return err
			}
			sub, err := address.SubAccount(c.Args().First(), uint16(index), order)
			if err != nil {
				return err
			}
			return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).Print(map[string]interface{}{
				"address":    c.Args().First(),
				"index":      index,
				"derivative": sub,
			})
		},
	}
}

// PalletAccountCommand prints the account of a pallet id.
func PalletAccountCommand() *cli.Command {
	return &cli.Command{
		Name:      "pallet-account",
		Usage:     "Print the account of a pallet id such as par/gift",
		ArgsUsage: "<pallet-id>",
		Flags:     []cli.Flag{prefixFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one argument: <pallet-id>")
			}
			addr, err := address.PalletAccount(c.Args().First(), uint16(c.Uint("prefix")))
			if err != nil {
				return err
			}
			return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).Print(map[string]interface{}{
				"palletId": c.Args().First(),
				"account":  addr,
			})
		},
	}
}

// XcmUnitsPerSecondCommand computes units_per_second for reserve based
// transfers of an asset.
func XcmUnitsPerSecondCommand() *cli.Command {
	return &cli.Command{
		Name:      "xcm-units-per-second",
		Usage:     "Calculate units_per_second for xcm reserve transfers",
		ArgsUsage: "<precision> <price>",
		Description: `Charges at most 0.02 USD per reserve based transfer, assuming the fixed
weigher's 600_000_000 weight per instruction set.

Example:
  paractl xcm-units-per-second 12 0.5`,
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected two arguments: <precision> <price>")
			}
			precision, err := strconv.ParseUint(c.Args().First(), 10, 8)
			if err != nil {
				return fmt.Errorf("invalid precision %q: %w", c.Args().First(), err)
			}
			units, err := xcmUnitsPerSecond(uint8(precision), c.Args().Get(1))
			if err != nil {
				return err
			}
			return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).Print(map[string]interface{}{
				"precision":      precision,
				"price":          c.Args().Get(1),
				"unitsPerSecond": units.String(),
			})
		},
	}
}

var (
	weightPerSecond = decimal.New(1, 12)
	transferWeight  = decimal.New(600_000_000, 0)
	maxTransferFee  = decimal.New(2, -2)
)

// xcmUnitsPerSecond is floor(maxFee * WEIGHT_PER_SECOND * 10^precision /
// weight / price).
func xcmUnitsPerSecond(precision uint8, price string) (*big.Int, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	if !p.IsPositive() {
		return nil, fmt.Errorf("price must be positive, got %s", price)
	}

	numerator := maxTransferFee.Mul(weightPerSecond).Shift(int32(precision))
	quotient, _ := numerator.QuoRem(transferWeight.Mul(p), 0)
	return quotient.BigInt(), nil
}

func parseUint32(s, what string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, s, err)
	}
	return uint32(v), nil
}
