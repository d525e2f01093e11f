package nexotax

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes the audit tables of one or more processed years as
// sheets of a single .xlsx workbook, one sheet per table per year.
func WriteWorkbook(path string, packs []*AuditPack) error {
	f := excelize.NewFile()
	for _, p := range packs {
		sheets := []struct {
			name string
			rows [][]string
		}{
			{fmt.Sprintf("Acquisitions %d", p.Year), p.acquisitionRows()},
			{fmt.Sprintf("Interest %d", p.Year), p.interestRows()},
			{fmt.Sprintf("Disposals %d", p.Year), p.disposalRows()},
			{fmt.Sprintf("Remaining Lots %d", p.Year), p.remainingLotRows()},
			{fmt.Sprintf("Card Analysis %d", p.Year), p.cardRows()},
		}
		for _, sheet := range sheets {
			if err := writeSheet(f, sheet.name, sheet.rows); err != nil {
				return err
			}
		}
	}
	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save workbook %q: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	f.NewSheet(sheet)
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("cannot write sheet %q: %w", sheet, err)
		}
	}
	return nil
}
