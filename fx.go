package nexotax

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoObservations is returned when a conversion is requested from a rate
// table built with zero FX observations. There is no defensible default rate,
// so the computation must fail rather than assume one.
var ErrNoObservations = errors.New("fx: no observations, USD/EUR rate is undefined")

// RateTable is a daily USD/EUR rate series inferred from card-purchase
// observations. Each day's rate is the ratio of that day's total EUR to total
// USD, a volume-weighted average rather than a mean of individual rates.
type RateTable struct {
	rates map[Date]decimal.Decimal
	days  []Date // sorted ascending
}

// NewRateTable groups observations by UTC calendar day and computes the
// volume-weighted rate per day.
func NewRateTable(observations []FxObservation) *RateTable {
	type volume struct{ eur, usd decimal.Decimal }
	daily := make(map[Date]*volume)
	for _, obs := range observations {
		day := DateOf(obs.Time)
		v, ok := daily[day]
		if !ok {
			v = &volume{}
			daily[day] = v
		}
		v.eur = v.eur.Add(obs.EUR.value)
		v.usd = v.usd.Add(obs.USD.value)
	}

	t := &RateTable{rates: make(map[Date]decimal.Decimal, len(daily))}
	for day, v := range daily {
		t.rates[day] = v.eur.Div(v.usd)
		t.days = append(t.days, day)
	}
	slices.SortFunc(t.days, Date.Compare)
	return t
}

// Len returns the number of days with a known rate.
func (t *RateTable) Len() int { return len(t.days) }

// Rate returns the USD/EUR rate for the day of the given instant.
// Exact day if known, otherwise the nearest known day by absolute distance
// with ties broken toward the earlier day; queries outside the observed range
// clamp to the boundary day.
func (t *RateTable) Rate(on time.Time) (decimal.Decimal, error) {
	if len(t.days) == 0 {
		return decimal.Decimal{}, ErrNoObservations
	}
	day := DateOf(on)
	if rate, ok := t.rates[day]; ok {
		return rate, nil
	}

	i, _ := slices.BinarySearchFunc(t.days, day, Date.Compare)
	// i is the insertion index: days[i-1] is earlier, days[i] later.
	switch {
	case i == 0:
		return t.rates[t.days[0]], nil
	case i == len(t.days):
		return t.rates[t.days[len(t.days)-1]], nil
	}
	before, after := t.days[i-1], t.days[i]
	if before.DaysTo(day) <= day.DaysTo(after) {
		return t.rates[before], nil
	}
	return t.rates[after], nil
}

// Convert turns a USD amount into EUR at the rate of the given instant's day.
func (t *RateTable) Convert(usd Money, on time.Time) (Money, error) {
	rate, err := t.Rate(on)
	if err != nil {
		return Money{}, err
	}
	return EUR(usd.value.Mul(rate)), nil
}

// Enrich applies EUR values to every USD-valued event. It must run exactly
// once per event set, before any accounting: lot costs and disposal proceeds
// are read from the EUR fields.
func (t *RateTable) Enrich(events *Events) error {
	if events.enriched {
		return fmt.Errorf("fx: events already carry EUR values")
	}
	var err error
	for i := range events.Cashbacks {
		ev := &events.Cashbacks[i]
		if ev.ValueEUR, err = t.Convert(ev.ValueUSD, ev.Time); err != nil {
			return err
		}
	}
	for i := range events.CashbackReversals {
		ev := &events.CashbackReversals[i]
		if ev.ValueEUR, err = t.Convert(ev.ValueUSD, ev.Time); err != nil {
			return err
		}
	}
	for i := range events.Interests {
		ev := &events.Interests[i]
		if ev.ValueEUR, err = t.Convert(ev.ValueUSD, ev.Time); err != nil {
			return err
		}
	}
	for i := range events.ExchangeBuys {
		ev := &events.ExchangeBuys[i]
		if ev.ValueEUR, err = t.Convert(ev.ValueUSD, ev.Time); err != nil {
			return err
		}
	}
	for i := range events.Disposals {
		ev := &events.Disposals[i]
		if ev.ProceedsEUR, err = t.Convert(ev.ProceedsUSD, ev.Time); err != nil {
			return err
		}
	}
	events.enriched = true
	return nil
}
