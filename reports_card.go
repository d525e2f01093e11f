package nexotax

import "github.com/shopspring/decimal"

// CardAnalysisSummary answers whether paying by card was worth it for a
// year: the cashback earned, the tax it attracts, and the FX-spread cost of
// settling EUR purchases through a USD-like credit line.
type CardAnalysisSummary struct {
	Year int

	PurchaseEUR  Money
	PurchaseUSD  Money
	RepaymentEUR Money
	RepaymentUSD Money

	FxSpreadEUR    Money
	CashbackEUR    Money // net of reversals
	CashbackTaxEUR Money
	NetBenefitEUR  Money
	EffectiveRate  Percent // net benefit as % of purchase volume
}

// CardAnalysis computes the card profitability figures for a year.
// netCashback is the year's cashback EUR net of reversals, as already
// computed by the annual summary.
func (c *Calculator) CardAnalysis(year int, netCashback Money) *CardAnalysisSummary {
	s := &CardAnalysisSummary{
		Year:         year,
		PurchaseEUR:  EUR(0),
		PurchaseUSD:  USD(0),
		RepaymentEUR: EUR(0),
		RepaymentUSD: USD(0),
		CashbackEUR:  netCashback,
	}

	for _, ev := range c.Events.CardPurchases {
		if ev.Time.Year() != year {
			continue
		}
		s.PurchaseEUR = s.PurchaseEUR.Add(ev.EUR)
		s.PurchaseUSD = s.PurchaseUSD.Add(ev.USD)
	}
	for _, ev := range c.Events.Repayments {
		if ev.Time.Year() != year {
			continue
		}
		s.RepaymentEUR = s.RepaymentEUR.Add(ev.EUR)
		s.RepaymentUSD = s.RepaymentUSD.Add(ev.USD)
	}

	// FX spread: what the repayments cost beyond the purchases' own EUR
	// value, after correcting for USD not yet repaid (or over-repaid) within
	// the year at the purchases' average rate.
	if s.PurchaseUSD.IsPositive() {
		purchaseRate := s.PurchaseEUR.value.Div(s.PurchaseUSD.value)
		usdMismatch := s.PurchaseUSD.value.Sub(s.RepaymentUSD.value)
		mismatchEUR := usdMismatch.Mul(purchaseRate)
		s.FxSpreadEUR = EUR(s.RepaymentEUR.value.Sub(s.PurchaseEUR.value.Sub(mismatchEUR)))
	} else {
		s.FxSpreadEUR = EUR(0)
	}

	s.CashbackTaxEUR = EUR(netCashback.value.Mul(c.taxRate))
	s.NetBenefitEUR = s.CashbackEUR.Sub(s.CashbackTaxEUR).Sub(s.FxSpreadEUR)

	if s.PurchaseEUR.IsPositive() {
		s.EffectiveRate = NewPercent(s.NetBenefitEUR.value.Div(s.PurchaseEUR.value).Mul(decimal.NewFromInt(100)))
	} else {
		s.EffectiveRate = NewPercent(decimal.Zero)
	}
	return s
}
