package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mkoskinen/nexotax/renderer"
)

// lotsCmd holds the flags for the 'lots' subcommand.
type lotsCmd struct{}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "remaining acquisition lots after the full history" }
func (*lotsCmd) Usage() string {
	return `ntx lots <export.csv> [<export.csv>...]

  Consumes every disposal in the export history against the FIFO ledger and
  prints the lots still open, with their residual cost basis.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	calc, err := newCalculator(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if _, err := calc.Process(disposalYears(calc.Events)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RemainingLots(calc.Ledger.RemainingLots()))
	return subcommands.ExitSuccess
}
