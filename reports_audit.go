package nexotax

// AuditPack collects the detailed per-year tables behind an annual summary:
// acquisitions, interest, disposals with consumed-lot detail, remaining
// inventory, and the card analysis with its underlying purchases and
// repayments. Formatting to CSV or spreadsheet is left to the writers in
// export.go and spreadsheet.go.
type AuditPack struct {
	Year          int
	Cashbacks     []CashbackEvent
	Interests     []InterestEvent
	Disposals     []DisposalResult
	Remaining     []Lot // value snapshot, the ledger keeps mutating
	CardPurchases []CardPurchaseEvent
	Repayments    []RepaymentEvent
	Card          *CardAnalysisSummary
}

// Audit assembles the audit tables for one processed year. The remaining-lot
// table is a value snapshot of the cumulative ledger state at the time of the
// call, so Audit for year Y must run after Process (or AnnualSummary) has
// consumed year Y's disposals and before any later year is processed; the
// snapshot then stays valid while later years consume the ledger further.
func (c *Calculator) Audit(report YearReport) *AuditPack {
	p := &AuditPack{
		Year:      report.Year,
		Disposals: report.Summary.Disposals,
		Card:      report.Card,
	}
	for _, lot := range c.Ledger.RemainingLots() {
		p.Remaining = append(p.Remaining, *lot)
	}
	for _, ev := range c.Events.Cashbacks {
		if ev.Time.Year() == report.Year {
			p.Cashbacks = append(p.Cashbacks, ev)
		}
	}
	for _, ev := range c.Events.Interests {
		if ev.Time.Year() == report.Year {
			p.Interests = append(p.Interests, ev)
		}
	}
	for _, ev := range c.Events.CardPurchases {
		if ev.Time.Year() == report.Year {
			p.CardPurchases = append(p.CardPurchases, ev)
		}
	}
	for _, ev := range c.Events.Repayments {
		if ev.Time.Year() == report.Year {
			p.Repayments = append(p.Repayments, ev)
		}
	}
	return p
}
