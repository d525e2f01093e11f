package nexotax

import (
	"slices"
	"time"
)

// This file defines the typed events a raw export row can classify into.
// Every event keeps the originating transaction id and its UTC timestamp.
// USD values come straight from the export; EUR values are derived later,
// exactly once, by RateTable.Enrich.

// CashbackEvent is a reward-token cashback granted for a card purchase.
type CashbackEvent struct {
	TxID     string
	Time     time.Time
	Amount   Quantity // reward-token units
	ValueUSD Money
	ValueEUR Money
	Merchant string
}

// CashbackReversalEvent is a clawback of a previously granted cashback,
// typically after a refunded purchase.
type CashbackReversalEvent struct {
	TxID     string
	Time     time.Time
	ValueUSD Money
	ValueEUR Money
}

// InterestEvent is crypto interest or yield credited to the account.
type InterestEvent struct {
	TxID     string
	Time     time.Time
	Asset    string
	Amount   Quantity
	ValueUSD Money
	ValueEUR Money
	Source   string // the originating transaction type label
}

// ExchangeBuyEvent is crypto acquired through a conversion, fiat to crypto or
// crypto to crypto.
type ExchangeBuyEvent struct {
	TxID          string
	Time          time.Time
	Asset         string
	Amount        Quantity
	SpentAmount   Quantity
	SpentCurrency string
	ValueUSD      Money
	ValueEUR      Money
}

// DisposalEvent is crypto given up: sold, swapped away, or withdrawn.
// It is the taxable side of the ledger.
type DisposalEvent struct {
	TxID        string
	Time        time.Time
	Asset       string
	Quantity    Quantity // non-negative magnitude
	ProceedsUSD Money
	ProceedsEUR Money
	FeeEUR      Money
	Description string
}

// CardPurchaseEvent is a point-of-sale card charge: a USD-like balance is
// debited against a EUR amount paid to the merchant.
type CardPurchaseEvent struct {
	TxID     string
	Time     time.Time
	EUR      Money
	USD      Money
	Merchant string
}

// RepaymentEvent is a credit-line repayment: EUR-like debited, USD-like credited.
type RepaymentEvent struct {
	TxID string
	Time time.Time
	EUR  Money
	USD  Money
}

// FxObservation is a paired EUR/USD amount sampled from a card purchase,
// used only to build the daily rate table.
type FxObservation struct {
	Time time.Time
	EUR  Money
	USD  Money
}

// Events holds every classified event collection, each sorted by timestamp
// ascending. Dropped counts rows that matched no classification rule; they
// are tolerated by design, the count is kept for auditability.
type Events struct {
	Cashbacks         []CashbackEvent
	CashbackReversals []CashbackReversalEvent
	Interests         []InterestEvent
	ExchangeBuys      []ExchangeBuyEvent
	FxObservations    []FxObservation
	Disposals         []DisposalEvent
	CardPurchases     []CardPurchaseEvent
	Repayments        []RepaymentEvent
	Dropped           int

	enriched bool // EUR values have been applied
}

// Merge appends all of o's events. Call sort afterwards; exports are merged
// file by file and each collection must end up in chronological order.
func (e *Events) Merge(o *Events) {
	e.Cashbacks = append(e.Cashbacks, o.Cashbacks...)
	e.CashbackReversals = append(e.CashbackReversals, o.CashbackReversals...)
	e.Interests = append(e.Interests, o.Interests...)
	e.ExchangeBuys = append(e.ExchangeBuys, o.ExchangeBuys...)
	e.FxObservations = append(e.FxObservations, o.FxObservations...)
	e.Disposals = append(e.Disposals, o.Disposals...)
	e.CardPurchases = append(e.CardPurchases, o.CardPurchases...)
	e.Repayments = append(e.Repayments, o.Repayments...)
	e.Dropped += o.Dropped
}

// sort restores chronological order in every collection. Exchange exports
// arrive in reverse-chronological order.
func (e *Events) sort() {
	slices.SortFunc(e.Cashbacks, func(a, b CashbackEvent) int { return a.Time.Compare(b.Time) })
	slices.SortFunc(e.CashbackReversals, func(a, b CashbackReversalEvent) int { return a.Time.Compare(b.Time) })
	slices.SortFunc(e.Interests, func(a, b InterestEvent) int { return a.Time.Compare(b.Time) })
	slices.SortFunc(e.ExchangeBuys, func(a, b ExchangeBuyEvent) int { return a.Time.Compare(b.Time) })
	slices.SortFunc(e.FxObservations, func(a, b FxObservation) int { return a.Time.Compare(b.Time) })
	slices.SortFunc(e.Disposals, func(a, b DisposalEvent) int { return a.Time.Compare(b.Time) })
	slices.SortFunc(e.CardPurchases, func(a, b CardPurchaseEvent) int { return a.Time.Compare(b.Time) })
	slices.SortFunc(e.Repayments, func(a, b RepaymentEvent) int { return a.Time.Compare(b.Time) })
}
