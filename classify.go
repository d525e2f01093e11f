package nexotax

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one record of the exchange export, after field-level parsing and
// before classification. The output amount stays raw because only some rules
// read it, and the export leaves it empty for several transaction types.
type RawRow struct {
	TxID           string
	Type           string
	InputCurrency  string
	InputAmount    decimal.Decimal
	OutputCurrency string
	OutputAmount   string
	USDEquivalent  decimal.Decimal
	Fee            string
	FeeCurrency    string
	Details        string
	Time           time.Time
}

func (r RawRow) outputAmount() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(r.OutputAmount))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("transaction %s: invalid output amount %q: %w", r.TxID, r.OutputAmount, err)
	}
	return v, nil
}

// Ruleset is the immutable classification configuration: which currency codes
// count as fiat, which of those are USD-like or EUR-like, the platform's
// reward token, the type labels that credit interest, and the literal prefix
// the export puts in front of the merchant name.
type Ruleset struct {
	Fiat          map[string]bool
	USDLike       map[string]bool
	EURLike       map[string]bool
	RewardToken   string
	InterestTypes map[string]bool
	DetailPrefix  string
}

// DefaultRuleset returns the classification sets of the Nexo export format.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Fiat:          set("EUR", "EURX", "USD", "xUSD", "USDX"),
		USDLike:       set("USD", "xUSD", "USDX"),
		EURLike:       set("EUR", "EURX"),
		RewardToken:   "NEXO",
		InterestTypes: set("Interest", "Fixed Term Interest", "Exchange Cashback"),
		DetailPrefix:  "approved / ",
	}
}

func set(codes ...string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}

// IsCrypto reports whether a currency code is a crypto asset: anything not in
// the fiat set.
func (s Ruleset) IsCrypto(code string) bool { return !s.Fiat[code] }

// merchant strips the detail prefix to yield the merchant or description.
func (s Ruleset) merchant(details string) string {
	return strings.TrimPrefix(details, s.DetailPrefix)
}

// rule maps a set of transaction-type labels and a currency-class predicate
// to an emit function. Rules are evaluated in priority order; the first whose
// label and predicate both match consumes the row.
type rule struct {
	types []string
	when  func(Ruleset, RawRow) bool
	emit  func(Ruleset, RawRow, *Events) error
}

func (r rule) matches(s Ruleset, row RawRow) bool {
	for _, t := range r.types {
		if t == row.Type {
			return r.when == nil || r.when(s, row)
		}
	}
	return false
}

// Classifier turns raw rows into typed events using a declarative rule table.
type Classifier struct {
	set   Ruleset
	rules []rule
}

func NewClassifier(set Ruleset) *Classifier {
	return &Classifier{set: set, rules: []rule{
		{
			types: []string{"Cashback"},
			when:  func(s Ruleset, r RawRow) bool { return r.InputCurrency == s.RewardToken },
			emit:  emitCashback,
		},
		{
			types: slices.Sorted(maps.Keys(set.InterestTypes)),
			when: func(s Ruleset, r RawRow) bool {
				return r.InputAmount.IsPositive() && s.IsCrypto(r.InputCurrency)
			},
			emit: emitInterest,
		},
		{
			types: []string{"Nexo Card Cashback Reversal"},
			emit:  emitCashbackReversal,
		},
		{
			types: []string{"Exchange", "Exchange Collateral"},
			emit:  emitExchange,
		},
		{
			types: []string{"Manual Sell Order", "Withdrawal"},
			when:  func(s Ruleset, r RawRow) bool { return s.IsCrypto(r.InputCurrency) },
			emit:  emitDisposal,
		},
		{
			types: []string{"Top up Crypto"},
			when:  func(s Ruleset, r RawRow) bool { return s.IsCrypto(r.InputCurrency) },
			emit:  emitTopUp,
		},
		{
			types: []string{"Nexo Card Purchase"},
			when: func(s Ruleset, r RawRow) bool {
				return s.USDLike[r.InputCurrency] && r.OutputCurrency == "EUR"
			},
			emit: emitCardPurchase,
		},
		{
			types: []string{"Exchange Liquidation"},
			when: func(s Ruleset, r RawRow) bool {
				return s.EURLike[r.InputCurrency] && s.USDLike[r.OutputCurrency]
			},
			emit: emitRepayment,
		},
	}}
}

// Classify appends the row's events to out. Rows matching no rule are counted
// in out.Dropped and otherwise ignored: unmodeled transaction types must not
// abort the run.
func (c *Classifier) Classify(row RawRow, out *Events) error {
	for _, r := range c.rules {
		if r.matches(c.set, row) {
			return r.emit(c.set, row, out)
		}
	}
	out.Dropped++
	return nil
}

func emitCashback(s Ruleset, r RawRow, out *Events) error {
	out.Cashbacks = append(out.Cashbacks, CashbackEvent{
		TxID:     r.TxID,
		Time:     r.Time,
		Amount:   Q(r.InputAmount),
		ValueUSD: USD(r.USDEquivalent),
		Merchant: s.merchant(r.Details),
	})
	return nil
}

func emitInterest(s Ruleset, r RawRow, out *Events) error {
	out.Interests = append(out.Interests, InterestEvent{
		TxID:     r.TxID,
		Time:     r.Time,
		Asset:    r.InputCurrency,
		Amount:   Q(r.InputAmount),
		ValueUSD: USD(r.USDEquivalent),
		Source:   r.Type,
	})
	return nil
}

func emitCashbackReversal(s Ruleset, r RawRow, out *Events) error {
	out.CashbackReversals = append(out.CashbackReversals, CashbackReversalEvent{
		TxID:     r.TxID,
		Time:     r.Time,
		ValueUSD: USD(r.USDEquivalent),
	})
	return nil
}

// emitExchange handles conversions. The crypto side of the swap produces an
// event; a crypto-to-crypto swap produces both a disposal and a buy, a
// fiat-to-fiat conversion produces none.
func emitExchange(s Ruleset, r RawRow, out *Events) error {
	if s.IsCrypto(r.InputCurrency) {
		out.Disposals = append(out.Disposals, DisposalEvent{
			TxID:        r.TxID,
			Time:        r.Time,
			Asset:       r.InputCurrency,
			Quantity:    Q(r.InputAmount).Abs(),
			ProceedsUSD: USD(r.USDEquivalent),
			FeeEUR:      EUR(0),
			Description: s.merchant(r.Details),
		})
	}
	if s.IsCrypto(r.OutputCurrency) {
		amount, err := r.outputAmount()
		if err != nil {
			return err
		}
		out.ExchangeBuys = append(out.ExchangeBuys, ExchangeBuyEvent{
			TxID:          r.TxID,
			Time:          r.Time,
			Asset:         r.OutputCurrency,
			Amount:        Q(amount),
			SpentAmount:   Q(r.InputAmount).Abs(),
			SpentCurrency: r.InputCurrency,
			ValueUSD:      USD(r.USDEquivalent),
		})
	}
	return nil
}

func emitDisposal(s Ruleset, r RawRow, out *Events) error {
	out.Disposals = append(out.Disposals, DisposalEvent{
		TxID:        r.TxID,
		Time:        r.Time,
		Asset:       r.InputCurrency,
		Quantity:    Q(r.InputAmount).Abs(),
		ProceedsUSD: USD(r.USDEquivalent),
		FeeEUR:      EUR(0),
		Description: s.merchant(r.Details),
	})
	return nil
}

// emitTopUp records an external deposit as a self-funded acquisition: the
// spent amount equals the received amount.
func emitTopUp(s Ruleset, r RawRow, out *Events) error {
	out.ExchangeBuys = append(out.ExchangeBuys, ExchangeBuyEvent{
		TxID:          r.TxID,
		Time:          r.Time,
		Asset:         r.InputCurrency,
		Amount:        Q(r.InputAmount),
		SpentAmount:   Q(r.InputAmount),
		SpentCurrency: r.InputCurrency,
		ValueUSD:      USD(r.USDEquivalent),
	})
	return nil
}

// emitCardPurchase yields both the purchase and the FX observation the daily
// rate table is built from.
func emitCardPurchase(s Ruleset, r RawRow, out *Events) error {
	eur, err := r.outputAmount()
	if err != nil {
		return err
	}
	usd := r.InputAmount.Abs()
	out.FxObservations = append(out.FxObservations, FxObservation{
		Time: r.Time,
		EUR:  EUR(eur),
		USD:  USD(usd),
	})
	out.CardPurchases = append(out.CardPurchases, CardPurchaseEvent{
		TxID:     r.TxID,
		Time:     r.Time,
		EUR:      EUR(eur),
		USD:      USD(usd),
		Merchant: s.merchant(r.Details),
	})
	return nil
}

func emitRepayment(s Ruleset, r RawRow, out *Events) error {
	usd, err := r.outputAmount()
	if err != nil {
		return err
	}
	out.Repayments = append(out.Repayments, RepaymentEvent{
		TxID: r.TxID,
		Time: r.Time,
		EUR:  EUR(r.InputAmount.Abs()),
		USD:  USD(usd),
	})
	return nil
}
