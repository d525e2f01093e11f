package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/google/subcommands"
	"github.com/mkoskinen/nexotax"
)

// auditCmd holds the flags for the 'audit' subcommand.
type auditCmd struct {
	years string
	out   string
	xlsx  string
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "write detailed per-year audit tables" }
func (*auditCmd) Usage() string {
	return `ntx audit -years <years> [-o <dir>] [-xlsx <file>] <export.csv> [<export.csv>...]

  Writes per-year audit tables: acquisitions, interest, disposals with
  consumed-lot detail, remaining lots, and the card analysis. CSV files go to
  the output directory; -xlsx additionally bundles all years into one
  workbook.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.years, "years", "", "Comma-separated tax years to audit (e.g. 2024,2025)")
	f.StringVar(&c.out, "o", "output", "Directory for the audit CSV files")
	f.StringVar(&c.xlsx, "xlsx", "", "Also write all audit tables into this .xlsx workbook")
}

func (c *auditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	// The audit pack for a year snapshots the ledger right after that year
	// is processed, so years are processed and audited one at a time, in
	// ascending order.
	slices.Sort(years)
	years = slices.Compact(years)
	var packs []*nexotax.AuditPack
	for _, year := range years {
		reports, err := calc.Process([]int{year})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		packs = append(packs, calc.Audit(reports[0]))
	}

	for _, pack := range packs {
		if err := pack.WriteCSV(c.out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote audit tables for %d to %s\n", pack.Year, c.out)
	}

	if c.xlsx != "" {
		if err := nexotax.WriteWorkbook(c.xlsx, packs); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote audit workbook %s\n", c.xlsx)
	}
	return subcommands.ExitSuccess
}
