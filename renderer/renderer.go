// Package renderer turns the calculator's result objects into markdown
// report strings. It renders to markdown only; terminal styling and file
// output are the caller's concern.
package renderer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mkoskinen/nexotax"
)

// sortedAssets returns the map's asset keys in stable, alphabetical order.
func sortedAssets(m map[string]nexotax.Quantity) []string {
	return slices.Sorted(maps.Keys(m))
}

// Summary renders the annual tax summary to a markdown string.
func Summary(s *nexotax.AnnualSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tax Year %d\n\n", s.Year)

	fmt.Fprint(&b, "## Capital Income\n\n")
	fmt.Fprintln(&b, "| Category | Events | Quantity | EUR |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	fmt.Fprintf(&b, "| Cashback | %d | %s | %s |\n",
		s.CashbackCount, s.CashbackQuantity, s.CashbackEUR)
	fmt.Fprintf(&b, "| Cashback reversals | %d | | %s |\n",
		s.ReversalCount, s.ReversalEUR.Neg())
	fmt.Fprintf(&b, "| Interest | %d | | %s |\n",
		s.InterestCount, s.InterestEUR)
	fmt.Fprintf(&b, "| **Net cashback** | | | **%s** |\n\n", s.NetCashbackEUR())

	if len(s.InterestByAsset) > 0 {
		fmt.Fprint(&b, "### Interest per Asset\n\n")
		fmt.Fprintln(&b, "| Asset | Quantity |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, asset := range sortedAssets(s.InterestByAsset) {
			fmt.Fprintf(&b, "| %s | %s |\n", asset, s.InterestByAsset[asset])
		}
		fmt.Fprintln(&b)
	}

	if s.ExchangeBuyCount > 0 {
		fmt.Fprint(&b, "## Acquisitions\n\n")
		fmt.Fprintf(&b, "%d exchange buys totaling %s\n\n", s.ExchangeBuyCount, s.ExchangeBuyEUR)
		fmt.Fprintln(&b, "| Asset | Quantity |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, asset := range sortedAssets(s.ExchangeBuyByAsset) {
			fmt.Fprintf(&b, "| %s | %s |\n", asset, s.ExchangeBuyByAsset[asset])
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprint(&b, "## Disposals\n\n")
	if len(s.Disposals) == 0 {
		fmt.Fprint(&b, "No disposals this year.\n\n")
	} else {
		fmt.Fprintln(&b, "| Date | Asset | Quantity | Proceeds | Cost Basis | Gain |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
		for _, r := range s.Disposals {
			d := r.Disposal
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				d.Time.Format(nexotax.DateFormat),
				d.Asset,
				d.Quantity,
				d.ProceedsEUR.Sub(d.FeeEUR),
				r.CostBasis,
				r.Gain.SignedString(),
			)
		}
		fmt.Fprintf(&b, "| **Total** | | | **%s** | **%s** | **%s** |\n\n",
			s.ProceedsEUR, s.CostBasisEUR, s.GainEUR.SignedString())
	}

	fmt.Fprint(&b, "## Remaining Inventory\n\n")
	fmt.Fprintf(&b, "%d open lots across all years\n\n", s.RemainingLotCount)
	if len(s.RemainingByAsset) > 0 {
		fmt.Fprintln(&b, "| Asset | Remaining |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, asset := range sortedAssets(s.RemainingByAsset) {
			fmt.Fprintf(&b, "| %s | %s |\n", asset, s.RemainingByAsset[asset])
		}
		fmt.Fprintln(&b)
	}

	return b.String()
}

// CardAnalysis renders the card profitability report to a markdown string.
func CardAnalysis(a *nexotax.CardAnalysisSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Card Analysis %d\n\n", a.Year)

	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Purchases | %s (%s) |\n", a.PurchaseEUR, a.PurchaseUSD)
	fmt.Fprintf(&b, "| Repayments | %s (%s) |\n", a.RepaymentEUR, a.RepaymentUSD)
	fmt.Fprintf(&b, "| FX spread cost | %s |\n", a.FxSpreadEUR)
	fmt.Fprintf(&b, "| Net cashback | %s |\n", a.CashbackEUR)
	fmt.Fprintf(&b, "| Cashback tax | %s |\n", a.CashbackTaxEUR)
	fmt.Fprintf(&b, "| **Net benefit** | **%s** |\n", a.NetBenefitEUR.SignedString())
	fmt.Fprintf(&b, "| Effective rate | %s |\n", a.EffectiveRate.SignedString())

	return b.String()
}

// RemainingLots renders the open-lot inventory to a markdown string.
func RemainingLots(lots []*nexotax.Lot) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Remaining Lots\n\n")
	if len(lots) == 0 {
		fmt.Fprint(&b, "All lots fully consumed.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Acquired | Source | Original | Remaining | Residual Cost |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
	for _, lot := range lots {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			lot.Asset,
			lot.Acquired.Format(nexotax.DateFormat),
			lot.Source,
			lot.Quantity,
			lot.Remaining,
			lot.RemainingCost(),
		)
	}

	return b.String()
}
