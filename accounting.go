package nexotax

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat Finnish capital-income tax rate applied to
// cashback income.
var DefaultTaxRate = decimal.New(30, -2)

// Calculator encapsulates all the data required for one tax computation run:
// the classified event set, the FX rate table inferred from it, and the
// shared FIFO lot ledger. It is the single owner of the ledger, which is
// mutated in place as years are processed in ascending order.
type Calculator struct {
	Events  *Events
	Rates   *RateTable
	Ledger  *Ledger
	ruleset Ruleset
	taxRate decimal.Decimal
}

// NewCalculator wires the pipeline up to the point where years can be
// processed: it builds the rate table from the event set's FX observations,
// applies EUR values to every USD-valued event, and seeds the FIFO ledger
// from all acquisition events across all years.
func NewCalculator(events *Events, set Ruleset, taxRate decimal.Decimal) (*Calculator, error) {
	rates := NewRateTable(events.FxObservations)
	if err := rates.Enrich(events); err != nil {
		return nil, fmt.Errorf("cannot apply EUR values: %w", err)
	}
	ledger := NewLedger(events.Cashbacks, events.Interests, events.ExchangeBuys, set.RewardToken)
	return &Calculator{
		Events:  events,
		Rates:   rates,
		Ledger:  ledger,
		ruleset: set,
		taxRate: taxRate,
	}, nil
}

// YearReport bundles the per-year result objects handed to report consumers.
type YearReport struct {
	Year    int
	Summary *AnnualSummary
	Card    *CardAnalysisSummary
}

// Process computes the annual summary and card analysis for every requested
// year. Years are processed in ascending numeric order regardless of input
// order; the ordering is load-bearing, it determines which lots are available
// to which disposal.
func (c *Calculator) Process(years []int) ([]YearReport, error) {
	ordered := slices.Clone(years)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	reports := make([]YearReport, 0, len(ordered))
	for _, year := range ordered {
		summary, err := c.AnnualSummary(year)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", year, err)
		}
		card := c.CardAnalysis(year, summary.NetCashbackEUR())
		reports = append(reports, YearReport{Year: year, Summary: summary, Card: card})
	}
	return reports, nil
}
