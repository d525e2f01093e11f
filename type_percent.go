package nexotax

import "github.com/shopspring/decimal"

// Percent is a percentage value (2.15 means 2.15%).
type Percent struct {
	value decimal.Decimal
}

func NewPercent(value decimal.Decimal) Percent { return Percent{value: value} }

func (p Percent) IsZero() bool     { return p.value.IsZero() }
func (p Percent) IsNegative() bool { return p.value.IsNegative() }

func (p Percent) String() string { return p.value.StringFixed(2) + "%" }

func (p Percent) SignedString() string {
	if p.value.IsPositive() {
		return "+" + p.String()
	}
	return p.String()
}
