package nexotax

// AnnualSummary aggregates one tax year's capital income and capital gains.
// The remaining-inventory figures reflect cumulative, cross-year ledger
// state, not a year-scoped snapshot.
type AnnualSummary struct {
	Year int

	CashbackCount    int
	CashbackQuantity Quantity // reward-token units
	CashbackEUR      Money

	ReversalCount int
	ReversalEUR   Money

	InterestCount   int
	InterestByAsset map[string]Quantity
	InterestEUR     Money

	ExchangeBuyCount   int
	ExchangeBuyByAsset map[string]Quantity
	ExchangeBuyEUR     Money

	Disposals    []DisposalResult
	ProceedsEUR  Money // net of fees
	CostBasisEUR Money
	GainEUR      Money

	RemainingLotCount int
	RemainingByAsset  map[string]Quantity
}

// NetCashbackEUR is the year's cashback income after reversals.
func (s *AnnualSummary) NetCashbackEUR() Money {
	return s.CashbackEUR.Sub(s.ReversalEUR)
}

// AnnualSummary filters every event collection to the given year, sums the
// capital income categories, resolves the year's disposals in chronological
// order against the shared ledger, and reports the remaining inventory.
func (c *Calculator) AnnualSummary(year int) (*AnnualSummary, error) {
	s := &AnnualSummary{
		Year:               year,
		CashbackEUR:        EUR(0),
		ReversalEUR:        EUR(0),
		InterestByAsset:    make(map[string]Quantity),
		InterestEUR:        EUR(0),
		ExchangeBuyByAsset: make(map[string]Quantity),
		ExchangeBuyEUR:     EUR(0),
		ProceedsEUR:        EUR(0),
		CostBasisEUR:       EUR(0),
		GainEUR:            EUR(0),
	}

	for _, ev := range c.Events.Cashbacks {
		if ev.Time.Year() != year {
			continue
		}
		s.CashbackCount++
		s.CashbackQuantity = s.CashbackQuantity.Add(ev.Amount)
		s.CashbackEUR = s.CashbackEUR.Add(ev.ValueEUR)
	}
	for _, ev := range c.Events.CashbackReversals {
		if ev.Time.Year() != year {
			continue
		}
		s.ReversalCount++
		s.ReversalEUR = s.ReversalEUR.Add(ev.ValueEUR)
	}
	for _, ev := range c.Events.Interests {
		if ev.Time.Year() != year {
			continue
		}
		s.InterestCount++
		s.InterestByAsset[ev.Asset] = s.InterestByAsset[ev.Asset].Add(ev.Amount)
		s.InterestEUR = s.InterestEUR.Add(ev.ValueEUR)
	}
	for _, ev := range c.Events.ExchangeBuys {
		if ev.Time.Year() != year {
			continue
		}
		s.ExchangeBuyCount++
		s.ExchangeBuyByAsset[ev.Asset] = s.ExchangeBuyByAsset[ev.Asset].Add(ev.Amount)
		s.ExchangeBuyEUR = s.ExchangeBuyEUR.Add(ev.ValueEUR)
	}

	// Disposals are already in chronological order; consuming them in that
	// order is what makes the FIFO cost basis deterministic.
	for _, ev := range c.Events.Disposals {
		if ev.Time.Year() != year {
			continue
		}
		result, err := c.Ledger.Consume(ev)
		if err != nil {
			return nil, err
		}
		s.Disposals = append(s.Disposals, result)
		s.ProceedsEUR = s.ProceedsEUR.Add(ev.ProceedsEUR.Sub(ev.FeeEUR))
		s.CostBasisEUR = s.CostBasisEUR.Add(result.CostBasis)
		s.GainEUR = s.GainEUR.Add(result.Gain)
	}

	remaining := c.Ledger.RemainingLots()
	s.RemainingLotCount = len(remaining)
	s.RemainingByAsset = c.Ledger.RemainingByAsset()
	return s, nil
}
