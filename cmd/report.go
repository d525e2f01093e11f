package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mkoskinen/nexotax/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	years string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "per-year tax summary and card analysis" }
func (*reportCmd) Usage() string {
	return `ntx report -years <years> <export.csv> [<export.csv>...]

  Computes the annual capital income summary, FIFO capital gains, and card
  profitability analysis for each requested tax year. Years are processed in
  ascending order so unconsumed lots carry forward.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.years, "years", "", "Comma-separated tax years to report (e.g. 2024,2025)")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	years, err := parseYears(c.years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	calc, err := newCalculator(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	reports, err := calc.Process(years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, report := range reports {
		printMarkdown(renderer.Summary(report.Summary))
		printMarkdown(renderer.CardAnalysis(report.Card))
	}
	return subcommands.ExitSuccess
}
