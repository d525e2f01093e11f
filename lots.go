package nexotax

import (
	"fmt"
	"slices"
	"time"
)

// LotSource tags which kind of acquisition created a lot.
type LotSource int

const (
	SourceCashback LotSource = iota
	SourceInterest
	SourceExchangeBuy
)

func (s LotSource) String() string {
	switch s {
	case SourceCashback:
		return "cashback"
	case SourceInterest:
		return "interest"
	case SourceExchangeBuy:
		return "exchange_buy"
	default:
		return "unknown"
	}
}

// Lot is a single acquisition tranche of one asset, used for cost basis
// calculations. Remaining is mutated in place as disposals consume it.
type Lot struct {
	Asset     string
	TxID      string
	Source    LotSource
	Acquired  time.Time
	Quantity  Quantity
	Cost      Money // total EUR cost of the lot
	Remaining Quantity
}

// RemainingCost scales the lot's cost to its unconsumed portion.
func (l *Lot) RemainingCost() Money {
	return l.Cost.Mul(l.Remaining).Div(l.Quantity)
}

// Consumption records one lot's contribution to a disposal.
type Consumption struct {
	LotTxID  string
	Acquired time.Time
	Quantity Quantity
	Cost     Money
}

// DisposalResult is the outcome of matching one disposal against the ledger.
type DisposalResult struct {
	Disposal  DisposalEvent
	CostBasis Money
	Gain      Money
	Consumed  []Consumption
}

// ShortfallError reports a disposal that requested more quantity than the
// remaining lots could supply. It indicates an incomplete transaction history
// or a classification defect, never a condition to clamp silently.
type ShortfallError struct {
	Asset     string
	Requested Quantity
	Shortfall Quantity
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("not enough %s lots to cover disposal of %s %s, shortfall: %s %s",
		e.Asset, e.Requested, e.Asset, e.Shortfall, e.Asset)
}

// lotQueue is a FIFO of lots for one asset. Consumed lots stay behind the
// head index so the audit trail keeps them addressable.
type lotQueue struct {
	lots []*Lot
	head int
}

// Ledger holds the per-asset FIFO acquisition queues. It is built once from
// the entire multi-year event set and then mutated in place, strictly
// sequentially, one disposal at a time: a disposal in a later year may
// consume lots acquired in an earlier year.
type Ledger struct {
	queues map[string]*lotQueue
}

// NewLedger builds the per-asset queues from every acquisition source.
// Cashback always lands on the reward-token asset. Each asset's queue is
// sorted by acquisition date ascending.
func NewLedger(cashbacks []CashbackEvent, interests []InterestEvent, buys []ExchangeBuyEvent, rewardToken string) *Ledger {
	l := &Ledger{queues: make(map[string]*lotQueue)}
	for _, ev := range cashbacks {
		l.append(&Lot{
			Asset:     rewardToken,
			TxID:      ev.TxID,
			Source:    SourceCashback,
			Acquired:  ev.Time,
			Quantity:  ev.Amount,
			Cost:      ev.ValueEUR,
			Remaining: ev.Amount,
		})
	}
	for _, ev := range interests {
		l.append(&Lot{
			Asset:     ev.Asset,
			TxID:      ev.TxID,
			Source:    SourceInterest,
			Acquired:  ev.Time,
			Quantity:  ev.Amount,
			Cost:      ev.ValueEUR,
			Remaining: ev.Amount,
		})
	}
	for _, ev := range buys {
		l.append(&Lot{
			Asset:     ev.Asset,
			TxID:      ev.TxID,
			Source:    SourceExchangeBuy,
			Acquired:  ev.Time,
			Quantity:  ev.Amount,
			Cost:      ev.ValueEUR,
			Remaining: ev.Amount,
		})
	}
	for _, q := range l.queues {
		slices.SortFunc(q.lots, func(a, b *Lot) int { return a.Acquired.Compare(b.Acquired) })
	}
	return l
}

func (l *Ledger) append(lot *Lot) {
	q, ok := l.queues[lot.Asset]
	if !ok {
		q = &lotQueue{}
		l.queues[lot.Asset] = q
	}
	q.lots = append(q.lots, lot)
}

// Consume resolves one disposal against the asset's FIFO queue.
//
// It takes from the front lot while quantity remains needed, allocating cost
// proportionally (cost × consumed ÷ original quantity) so a partially
// consumed lot retains a correctly scaled residual cost. A fully spent lot is
// dequeued and never revisited. If the queue empties first, Consume fails
// with a ShortfallError before any gain is computed.
func (l *Ledger) Consume(disposal DisposalEvent) (DisposalResult, error) {
	needed := disposal.Quantity
	total := EUR(0)
	var consumed []Consumption

	q := l.queues[disposal.Asset]
	for q != nil && q.head < len(q.lots) && needed.IsPositive() {
		lot := q.lots[q.head]
		used := needed
		if lot.Remaining.LessThan(needed) {
			used = lot.Remaining
		}
		cost := lot.Cost.Mul(used).Div(lot.Quantity)
		total = total.Add(cost)
		lot.Remaining = lot.Remaining.Sub(used)
		needed = needed.Sub(used)
		consumed = append(consumed, Consumption{
			LotTxID:  lot.TxID,
			Acquired: lot.Acquired,
			Quantity: used,
			Cost:     cost,
		})
		if lot.Remaining.IsZero() {
			q.head++
		}
	}

	if needed.IsPositive() {
		return DisposalResult{}, &ShortfallError{
			Asset:     disposal.Asset,
			Requested: disposal.Quantity,
			Shortfall: needed,
		}
	}

	return DisposalResult{
		Disposal:  disposal,
		CostBasis: total,
		Gain:      disposal.ProceedsEUR.Sub(disposal.FeeEUR).Sub(total),
		Consumed:  consumed,
	}, nil
}

// RemainingLots returns every lot with unconsumed quantity, ordered by asset
// then acquisition date. This is cumulative cross-year inventory state.
func (l *Ledger) RemainingLots() []*Lot {
	assets := make([]string, 0, len(l.queues))
	for asset := range l.queues {
		assets = append(assets, asset)
	}
	slices.Sort(assets)

	var remaining []*Lot
	for _, asset := range assets {
		q := l.queues[asset]
		for _, lot := range q.lots[q.head:] {
			if lot.Remaining.IsPositive() {
				remaining = append(remaining, lot)
			}
		}
	}
	return remaining
}

// RemainingByAsset sums the unconsumed quantity per asset.
func (l *Ledger) RemainingByAsset() map[string]Quantity {
	totals := make(map[string]Quantity)
	for _, lot := range l.RemainingLots() {
		totals[lot.Asset] = totals[lot.Asset].Add(lot.Remaining)
	}
	return totals
}
