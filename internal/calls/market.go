package calls

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

type MarketState uint8

const (
	MarketActive MarketState = iota
	MarketPending
	MarketSupervision
)

func ParseMarketState(s string) (MarketState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return MarketActive, nil
	case "pending", "":
		return MarketPending, nil
	case "supervision":
		return MarketSupervision, nil
	default:
		return 0, fmt.Errorf("unknown market state %q", s)
	}
}

func (s MarketState) String() string {
	switch s {
	case MarketActive:
		return "Active"
	case MarketPending:
		return "Pending"
	case MarketSupervision:
		return "Supervision"
	default:
		return fmt.Sprintf("MarketState(%d)", uint8(s))
	}
}

// JumpModel is the kinked interest rate model. Rates are FixedU128
// (1e18 = 100%), the utilization kink is a Permill.
type JumpModel struct {
	BaseRate        *big.Int
	JumpRate        *big.Int
	FullRate        *big.Int
	JumpUtilization uint32
}

// CurveModel is the curve interest rate model.
type CurveModel struct {
	BaseRate *big.Int
}

type RateModel struct {
	Jump  *JumpModel
	Curve *CurveModel
}

func (m RateModel) Encode(e scale.Encoder) error {
	switch {
	case m.Jump != nil:
		return Tuple{Variant(0),
			NewU128(m.Jump.BaseRate),
			NewU128(m.Jump.JumpRate),
			NewU128(m.Jump.FullRate),
			U32(m.Jump.JumpUtilization),
		}.Encode(e)
	case m.Curve != nil:
		return Tuple{Variant(1), NewU128(m.Curve.BaseRate)}.Encode(e)
	default:
		return fmt.Errorf("rate model has neither jump nor curve parameters")
	}
}

// Market is the loans pallet market definition. Ratios are Permill.
type Market struct {
	CollateralFactor                 uint32
	LiquidationThreshold             uint32
	ReserveFactor                    uint32
	CloseFactor                      uint32
	LiquidateIncentive               *big.Int
	LiquidateIncentiveReservedFactor uint32
	RateModel                        RateModel
	State                            MarketState
	SupplyCap                        *big.Int
	BorrowCap                        *big.Int
	PTokenID                         uint32
}

func (m Market) Encode(e scale.Encoder) error {
	return Tuple{
		U32(m.CollateralFactor),
		U32(m.LiquidationThreshold),
		U32(m.ReserveFactor),
		U32(m.CloseFactor),
		NewU128(m.LiquidateIncentive),
		U32(m.LiquidateIncentiveReservedFactor),
		m.RateModel,
		Variant(m.State),
		NewU128(m.SupplyCap),
		NewU128(m.BorrowCap),
		U32(m.PTokenID),
	}.Encode(e)
}

// BridgeToken is the per asset registration record of the bridge pallet.
type BridgeToken struct {
	ID        uint32
	External  bool
	Fee       *big.Int
	Enable    bool
	OutCap    *big.Int
	OutAmount *big.Int
	InCap     *big.Int
	InAmount  *big.Int
}

func (t BridgeToken) Encode(e scale.Encoder) error {
	return Tuple{
		U32(t.ID),
		Bool(t.External),
		NewU128(t.Fee),
		Bool(t.Enable),
		NewU128(t.OutCap),
		NewU128(t.OutAmount),
		NewU128(t.InCap),
		NewU128(t.InAmount),
	}.Encode(e)
}

// ContributionStrategy of a crowdloan vault. Only XCM exists.
const ContributionXCM Variant = 0

// Bounded is the democracy proposal reference; only Legacy { hash } is
// produced here.
type Bounded struct {
	Legacy Hash
}

func (b Bounded) Encode(e scale.Encoder) error {
	return Tuple{Variant(0), b.Legacy}.Encode(e)
}
