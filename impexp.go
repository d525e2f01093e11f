package nexotax

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// this file contains functions to read the exchange's CSV export format.
// The format is header-driven: columns are located by name, extra columns are
// ignored, and a header missing any required column is rejected before any
// row is parsed.

// Required columns of the export format.
var requiredColumns = []string{
	"Transaction",
	"Type",
	"Input Currency",
	"Input Amount",
	"Output Currency",
	"Output Amount",
	"USD Equivalent",
	"Fee",
	"Fee Currency",
	"Details",
	"Date / Time (UTC)",
}

// ImportFiles reads and classifies several export files into one merged,
// chronologically sorted event set.
func ImportFiles(paths []string, set Ruleset) (*Events, error) {
	merged := &Events{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot open export file: %w", err)
		}
		events, err := ImportRows(f, set)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot import %q: %w", path, err)
		}
		merged.Merge(events)
	}
	merged.sort()
	return merged, nil
}

// ImportRows reads one export from 'r' and classifies every row.
func ImportRows(r io.Reader, set Ruleset) (*Events, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read export header: %w", err)
	}
	col, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	classifier := NewClassifier(set)
	events := &Events{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read export row: %w", err)
		}
		row, err := parseRow(record, col)
		if err != nil {
			return nil, err
		}
		if err := classifier.Classify(row, events); err != nil {
			return nil, err
		}
	}
	events.sort()
	return events, nil
}

// indexColumns maps required column names to their position, collecting every
// missing column into a single error.
func indexColumns(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("export header is missing required column(s): %s", strings.Join(missing, ", "))
	}
	return col, nil
}

func parseRow(record []string, col map[string]int) (RawRow, error) {
	field := func(name string) string {
		i := col[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	txID := field("Transaction")

	when, err := ParseTimestamp(field("Date / Time (UTC)"))
	if err != nil {
		return RawRow{}, fmt.Errorf("transaction %s: %w", txID, err)
	}
	input, err := decimal.NewFromString(strings.TrimSpace(field("Input Amount")))
	if err != nil {
		return RawRow{}, fmt.Errorf("transaction %s: invalid input amount %q: %w", txID, field("Input Amount"), err)
	}
	usd, err := parseUSDEquivalent(field("USD Equivalent"))
	if err != nil {
		return RawRow{}, fmt.Errorf("transaction %s: %w", txID, err)
	}

	return RawRow{
		TxID:           txID,
		Type:           field("Type"),
		InputCurrency:  field("Input Currency"),
		InputAmount:    input,
		OutputCurrency: field("Output Currency"),
		OutputAmount:   field("Output Amount"),
		USDEquivalent:  usd,
		Fee:            field("Fee"),
		FeeCurrency:    field("Fee Currency"),
		Details:        field("Details"),
		Time:           when,
	}, nil
}

// parseUSDEquivalent strips the leading "$" the export puts in front of the
// USD value.
func parseUSDEquivalent(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid USD equivalent %q: %w", s, err)
	}
	return v, nil
}
