// Package csvinput parses the spreadsheets governance proposals are
// prepared in: new loans markets, market reward speeds and farming
// rewards. Human units are scaled to on-chain fixed point here.
package csvinput

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/parallel-finance/paractl/internal/calls"
)

var ErrMalformedRow = errors.New("malformed row")

const (
	// minColumns is the smallest row that is not treated as padding.
	minColumns = 4

	permillScale = 6
	fixedScale   = 18
	unitScale    = 12
)

// MarketRow is one loans market to add.
type MarketRow struct {
	AssetID uint32
	Market  calls.Market
}

type MarketReward struct {
	AssetID     uint32
	Name        string
	BorrowSpeed *big.Int
	SupplySpeed *big.Int
}

type FarmingReward struct {
	AssetID  uint32
	Name     string
	Amount   *big.Int
	Duration uint32
}

// ParseMarkets reads rows of
//
//	asset id, collateral factor, liquidation threshold, reserve factor,
//	close factor, liquidate incentive, liquidate incentive reserved factor,
//	base rate, jump rate, full rate, jump utilization, state,
//	supply cap, borrow cap, ptoken id
//
// Ratios are fractions of one, caps are in whole tokens of 12 decimals.
func ParseMarkets(r io.Reader) ([]MarketRow, error) {
	var out []MarketRow
	err := each(r, func(row *row) {
		if len(row.cols) < 15 {
			row.fail(fmt.Errorf("want 15 columns, got %d", len(row.cols)))
			return
		}
		m := MarketRow{AssetID: row.u32(0)}
		m.Market = calls.Market{
			CollateralFactor:                 row.permill(1),
			LiquidationThreshold:             row.permill(2),
			ReserveFactor:                    row.permill(3),
			CloseFactor:                      row.permill(4),
			LiquidateIncentive:               row.scaled(5, fixedScale),
			LiquidateIncentiveReservedFactor: row.permill(6),
			RateModel: calls.RateModel{Jump: &calls.JumpModel{
				BaseRate:        row.scaled(7, fixedScale),
				JumpRate:        row.scaled(8, fixedScale),
				FullRate:        row.scaled(9, fixedScale),
				JumpUtilization: row.permill(10),
			}},
			SupplyCap: row.scaled(12, unitScale),
			BorrowCap: row.scaled(13, unitScale),
			PTokenID:  row.u32(14),
		}
		state, err := calls.ParseMarketState(row.cols[11])
		if err != nil {
			row.fail(err)
		}
		m.Market.State = state
		if row.err == nil {
			out = append(out, m)
		}
	})
	return out, err
}

// ParseMarketRewards reads rows of asset id, name, borrow speed, supply
// speed. Speeds are in whole tokens per block.
func ParseMarketRewards(r io.Reader) ([]MarketReward, error) {
	var out []MarketReward
	err := each(r, func(row *row) {
		rw := MarketReward{
			AssetID:     row.u32(0),
			Name:        row.cols[1],
			BorrowSpeed: row.scaled(2, unitScale),
			SupplySpeed: row.scaled(3, unitScale),
		}
		if row.err == nil {
			out = append(out, rw)
		}
	})
	return out, err
}

// ParseFarmingRewards reads rows of asset id, name, amount, duration in
// blocks.
func ParseFarmingRewards(r io.Reader) ([]FarmingReward, error) {
	var out []FarmingReward
	err := each(r, func(row *row) {
		rw := FarmingReward{
			AssetID:  row.u32(0),
			Name:     row.cols[1],
			Amount:   row.scaled(2, unitScale),
			Duration: row.u32(3),
		}
		if row.err == nil {
			out = append(out, rw)
		}
	})
	return out, err
}

type row struct {
	cols []string
	err  error
}

func (r *row) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *row) u32(i int) uint32 {
	v, err := strconv.ParseUint(r.cols[i], 10, 32)
	if err != nil {
		r.fail(fmt.Errorf("column %d: %q is not a u32", i+1, r.cols[i]))
		return 0
	}
	return uint32(v)
}

func (r *row) permill(i int) uint32 {
	v := r.scaled(i, permillScale)
	if v == nil {
		return 0
	}
	if !v.IsUint64() || v.Uint64() > 1_000_000 {
		r.fail(fmt.Errorf("column %d: %q exceeds 100%%", i+1, r.cols[i]))
		return 0
	}
	return uint32(v.Uint64())
}

// scaled returns cols[i] × 10^exp, which must be a non-negative integer.
func (r *row) scaled(i, exp int) *big.Int {
	d, err := decimal.NewFromString(r.cols[i])
	if err != nil {
		r.fail(fmt.Errorf("column %d: %q is not a number", i+1, r.cols[i]))
		return nil
	}
	d = d.Shift(int32(exp))
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		r.fail(fmt.Errorf("column %d: %q has more than %d decimals or is negative", i+1, r.cols[i], exp))
		return nil
	}
	return d.BigInt()
}

// each feeds every data row to fn. Empty cells are dropped before the
// column count check, so short padding rows are skipped silently.
func each(r io.Reader, fn func(row *row)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read csv: %w", err)
		}
		if header {
			header = false
			continue
		}

		cols := make([]string, 0, len(record))
		for _, c := range record {
			if c = strings.TrimSpace(c); c != "" {
				cols = append(cols, c)
			}
		}
		if len(cols) < minColumns {
			continue
		}

		line, _ := reader.FieldPos(0)
		rw := &row{cols: cols}
		fn(rw)
		if rw.err != nil {
			return fmt.Errorf("%w at line %d: %v", ErrMalformedRow, line, rw.err)
		}
	}
}
