package config

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Amount is a non-negative integer balance. In YAML it may be written as
// a number, a quoted string or in exponent form ("1e18").
type Amount struct {
	v *big.Int
}

func NewAmount(v *big.Int) Amount {
	if v == nil {
		return Amount{}
	}
	return Amount{v: new(big.Int).Set(v)}
}

func AmountFromUint64(v uint64) Amount {
	return Amount{v: new(big.Int).SetUint64(v)}
}

// ParseAmount parses an integer amount, accepting exponent notation.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	if !d.Equal(d.Truncate(0)) {
		return Amount{}, fmt.Errorf("invalid amount %q: must be an integer", s)
	}
	return Amount{v: d.BigInt()}, nil
}

// Int returns a copy of the amount; the zero Amount is 0.
func (a Amount) Int() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.v)
}

func (a Amount) IsZero() bool {
	return a.v == nil || a.v.Sign() == 0
}

// Or returns a, or def when a is zero.
func (a Amount) Or(def Amount) Amount {
	if a.IsZero() {
		return def
	}
	return a
}

func (a Amount) String() string {
	return a.Int().String()
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	parsed, err := ParseAmount(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*a = parsed
	return nil
}

func (a Amount) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// Balance is a pre-minted (account, amount) pair. It is written either as
// a two element sequence or as a mapping with account and amount keys.
type Balance struct {
	Account string
	Amount  Amount
}

func (b *Balance) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: balance must be [account, amount]", node.Line)
		}
		if err := node.Content[0].Decode(&b.Account); err != nil {
			return err
		}
		return node.Content[1].Decode(&b.Amount)
	case yaml.MappingNode:
		var raw struct {
			Account string `yaml:"account"`
			Amount  Amount `yaml:"amount"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		b.Account, b.Amount = raw.Account, raw.Amount
		return nil
	default:
		return fmt.Errorf("line %d: balance must be a sequence or a mapping", node.Line)
	}
}

func (b Balance) MarshalYAML() (interface{}, error) {
	return []string{b.Account, b.Amount.String()}, nil
}
