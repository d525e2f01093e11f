package nexotax

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// this file renders the audit tables to per-year CSV files. The row builders
// are shared with the spreadsheet writer.

func (p *AuditPack) acquisitionRows() [][]string {
	rows := [][]string{{"tx_id", "date", "amount", "value_usd", "value_eur", "merchant"}}
	for _, ev := range p.Cashbacks {
		rows = append(rows, []string{
			ev.TxID,
			ev.Time.Format(TimestampFormat),
			ev.Amount.StringFixed(8),
			ev.ValueUSD.StringFixed(2),
			ev.ValueEUR.StringFixed(2),
			ev.Merchant,
		})
	}
	return rows
}

func (p *AuditPack) interestRows() [][]string {
	rows := [][]string{{"tx_id", "date", "asset", "amount", "value_usd", "value_eur", "source"}}
	for _, ev := range p.Interests {
		rows = append(rows, []string{
			ev.TxID,
			ev.Time.Format(TimestampFormat),
			ev.Asset,
			ev.Amount.StringFixed(8),
			ev.ValueUSD.StringFixed(2),
			ev.ValueEUR.StringFixed(2),
			ev.Source,
		})
	}
	return rows
}

func (p *AuditPack) disposalRows() [][]string {
	rows := [][]string{{
		"tx_id", "date", "asset", "quantity",
		"proceeds_eur", "fee_eur", "cost_basis_eur", "gain_eur",
		"lots_consumed", "description",
	}}
	for _, result := range p.Disposals {
		d := result.Disposal
		detail := make([]string, 0, len(result.Consumed))
		for _, c := range result.Consumed {
			detail = append(detail, fmt.Sprintf("%s:%s@%s", c.LotTxID, c.Quantity.StringFixed(8), c.Cost.StringFixed(2)))
		}
		rows = append(rows, []string{
			d.TxID,
			d.Time.Format(TimestampFormat),
			d.Asset,
			d.Quantity.StringFixed(8),
			d.ProceedsEUR.StringFixed(2),
			d.FeeEUR.StringFixed(2),
			result.CostBasis.StringFixed(2),
			result.Gain.StringFixed(2),
			strings.Join(detail, "; "),
			d.Description,
		})
	}
	return rows
}

func (p *AuditPack) remainingLotRows() [][]string {
	rows := [][]string{{"tx_id", "asset", "acquired_date", "source", "original_qty", "remaining_qty", "cost_eur"}}
	for _, lot := range p.Remaining {
		rows = append(rows, []string{
			lot.TxID,
			lot.Asset,
			lot.Acquired.Format(TimestampFormat),
			lot.Source.String(),
			lot.Quantity.StringFixed(8),
			lot.Remaining.StringFixed(8),
			lot.RemainingCost().StringFixed(2),
		})
	}
	return rows
}

func (p *AuditPack) cardRows() [][]string {
	rows := [][]string{{"section", "tx_id", "date", "eur_amount", "usd_amount", "merchant"}}
	for _, ev := range p.CardPurchases {
		rows = append(rows, []string{
			"purchase", ev.TxID, ev.Time.Format(TimestampFormat),
			ev.EUR.StringFixed(2), ev.USD.StringFixed(2), ev.Merchant,
		})
	}
	for _, ev := range p.Repayments {
		rows = append(rows, []string{
			"repayment", ev.TxID, ev.Time.Format(TimestampFormat),
			ev.EUR.StringFixed(2), ev.USD.StringFixed(2), "",
		})
	}
	rows = append(rows,
		[]string{},
		[]string{"metric", "value"},
		[]string{"total_purchase_eur", p.Card.PurchaseEUR.StringFixed(2)},
		[]string{"total_purchase_usd", p.Card.PurchaseUSD.StringFixed(2)},
		[]string{"total_repayment_eur", p.Card.RepaymentEUR.StringFixed(2)},
		[]string{"total_repayment_usd", p.Card.RepaymentUSD.StringFixed(2)},
		[]string{"fx_spread_eur", p.Card.FxSpreadEUR.StringFixed(2)},
		[]string{"cashback_eur", p.Card.CashbackEUR.StringFixed(2)},
		[]string{"cashback_tax_eur", p.Card.CashbackTaxEUR.StringFixed(2)},
		[]string{"net_benefit_eur", p.Card.NetBenefitEUR.StringFixed(2)},
		[]string{"effective_rate_pct", p.Card.EffectiveRate.String()},
	)
	return rows
}

// WriteCSV writes the five audit tables as CSV files into dir, creating it if
// needed. File names carry the year: acquisitions_2024.csv and so on.
func (p *AuditPack) WriteCSV(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create audit directory: %w", err)
	}
	tables := map[string][][]string{
		fmt.Sprintf("acquisitions_%d.csv", p.Year):   p.acquisitionRows(),
		fmt.Sprintf("interest_%d.csv", p.Year):       p.interestRows(),
		fmt.Sprintf("disposals_%d.csv", p.Year):      p.disposalRows(),
		fmt.Sprintf("remaining_lots_%d.csv", p.Year): p.remainingLotRows(),
		fmt.Sprintf("card_analysis_%d.csv", p.Year):  p.cardRows(),
	}
	for name, rows := range tables {
		if err := writeCSVFile(filepath.Join(dir, name), rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create audit file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("cannot write %q: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
