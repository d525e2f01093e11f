// Package cmd implements the CLI application to compute tax reports from
// exchange CSV exports.
package cmd

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/mkoskinen/nexotax"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// build the full pipeline from scratch in every command.

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&reportCmd{},
	&auditCmd{},
	&lotsCmd{},
	&docsCmd{},
}

// loadEvents imports and classifies all export files, logging what was found.
func loadEvents(paths []string) (*nexotax.Events, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no export files given")
	}
	events, err := nexotax.ImportFiles(paths, nexotax.DefaultRuleset())
	if err != nil {
		return nil, err
	}
	log.Printf("Parsed %d cashback events", len(events.Cashbacks))
	log.Printf("Parsed %d cashback reversal events", len(events.CashbackReversals))
	log.Printf("Parsed %d interest events", len(events.Interests))
	log.Printf("Parsed %d exchange buy events", len(events.ExchangeBuys))
	log.Printf("Parsed %d FX observations (card purchases)", len(events.FxObservations))
	log.Printf("Parsed %d disposal events", len(events.Disposals))
	log.Printf("Parsed %d card purchase events", len(events.CardPurchases))
	log.Printf("Parsed %d repayment events", len(events.Repayments))
	if events.Dropped > 0 {
		log.Printf("Dropped %d unclassified rows", events.Dropped)
	}
	return events, nil
}

// newCalculator builds the full pipeline from export files.
func newCalculator(paths []string) (*nexotax.Calculator, error) {
	events, err := loadEvents(paths)
	if err != nil {
		return nil, err
	}
	return nexotax.NewCalculator(events, nexotax.DefaultRuleset(), nexotax.DefaultTaxRate)
}

// parseYears parses a comma-separated year list like "2024,2025".
func parseYears(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no tax year given, use -years (e.g. -years 2024,2025)")
	}
	var years []int
	for _, part := range strings.Split(s, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", part, err)
		}
		years = append(years, year)
	}
	return years, nil
}

// disposalYears returns every distinct year with a disposal, so the whole
// history can be consumed when no explicit year list applies.
func disposalYears(events *nexotax.Events) []int {
	seen := map[int]bool{}
	var years []int
	for _, ev := range events.Disposals {
		if y := ev.Time.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	return years
}
