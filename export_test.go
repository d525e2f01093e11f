package nexotax

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func auditPack(t *testing.T, year int) *AuditPack {
	t.Helper()
	calc := newTestCalculator(t, fullExport)
	reports, err := calc.Process([]int{2024, 2025})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	for _, report := range reports {
		if report.Year == year {
			return calc.Audit(report)
		}
	}
	t.Fatalf("no report for %d", year)
	return nil
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("cannot open %s: %v", path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("cannot read %s: %v", path, err)
	}
	return rows
}

func TestWriteCSV(t *testing.T) {
	pack := auditPack(t, 2025)
	dir := t.TempDir()
	if err := pack.WriteCSV(dir); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	for _, name := range []string{
		"acquisitions_2025.csv",
		"interest_2025.csv",
		"disposals_2025.csv",
		"remaining_lots_2025.csv",
		"card_analysis_2025.csv",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	rows := readCSV(t, filepath.Join(dir, "disposals_2025.csv"))
	if len(rows) != 2 {
		t.Fatalf("disposals: got %d rows, want header + 1", len(rows))
	}
	if rows[0][0] != "tx_id" {
		t.Errorf("header starts with %q, want tx_id", rows[0][0])
	}
	row := rows[1]
	if row[0] != "tx6" || row[2] != "NEXO" {
		t.Errorf("disposal row = %v", row)
	}
	// The consumed-lot detail names the cashback lot and its allocated cost.
	if detail := row[8]; !strings.Contains(detail, "tx2:") || !strings.Contains(detail, "@0.85") {
		t.Errorf("lots_consumed = %q", detail)
	}
}

func TestWriteCSVRemainingLots(t *testing.T) {
	pack := auditPack(t, 2025)
	dir := t.TempDir()
	if err := pack.WriteCSV(dir); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "remaining_lots_2025.csv"))
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want header + 4 lots", len(rows))
	}
	sources := map[string]bool{}
	for _, row := range rows[1:] {
		sources[row[3]] = true
	}
	for _, want := range []string{"cashback", "interest", "exchange_buy"} {
		if !sources[want] {
			t.Errorf("no remaining lot with source %q", want)
		}
	}
}

func TestAuditSnapshotsRemainingLots(t *testing.T) {
	// The audit CLI captures each year's pack before processing the next year
	// and only writes the files at the end. The 2024 table must keep showing
	// the 2024 year-end state after 2025's disposal has consumed the ledger.
	calc := newTestCalculator(t, fullExport)
	reports, err := calc.Process([]int{2024})
	if err != nil {
		t.Fatalf("Process(2024) error = %v", err)
	}
	pack := calc.Audit(reports[0])
	if _, err := calc.Process([]int{2025}); err != nil {
		t.Fatalf("Process(2025) error = %v", err)
	}

	rows := pack.remainingLotRows()
	var nexo []string
	for _, row := range rows[1:] {
		if row[1] == "NEXO" {
			nexo = row
		}
	}
	if nexo == nil {
		t.Fatalf("no NEXO row in %v", rows)
	}
	if nexo[5] != "2.00000000" || nexo[6] != "1.70" {
		t.Errorf("2024 remaining NEXO = qty %s, cost %s; want 2.00000000 and 1.70", nexo[5], nexo[6])
	}
}

func TestWriteWorkbook(t *testing.T) {
	packs := []*AuditPack{auditPack(t, 2024)}
	path := filepath.Join(t.TempDir(), "audit.xlsx")
	if err := WriteWorkbook(path, packs); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	sheets := wb.GetSheetList()
	if len(sheets) != 5 {
		t.Fatalf("got %d sheets, want 5: %v", len(sheets), sheets)
	}
	for _, sheet := range sheets {
		if !strings.HasSuffix(sheet, "2024") {
			t.Errorf("sheet %q does not carry the year", sheet)
		}
	}
}
