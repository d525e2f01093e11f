package nexotax

import (
	"errors"
	"testing"
)

func interestLot(txid, when, asset, amount, eur string) InterestEvent {
	return InterestEvent{TxID: txid, Time: ts(when), Asset: asset, Amount: Q(amount), ValueEUR: EUR(eur), Source: "Interest"}
}

func disposal(txid, when, asset, quantity, proceedsEUR string) DisposalEvent {
	return DisposalEvent{
		TxID: txid, Time: ts(when), Asset: asset,
		Quantity:    Q(quantity),
		ProceedsEUR: EUR(proceedsEUR),
		FeeEUR:      EUR(0),
	}
}

func TestConsumePartialLot(t *testing.T) {
	// 10 units acquired for €8; disposing 4 allocates 8 × 4/10 = €3.20.
	ledger := NewLedger(nil, []InterestEvent{
		interestLot("buy1", "2024-01-01 10:00:00", "ETH", "10", "8"),
	}, nil, "NEXO")

	res, err := ledger.Consume(disposal("sell1", "2024-02-01 10:00:00", "ETH", "4", "6"))
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if !res.CostBasis.Equal(EUR("3.2")) {
		t.Errorf("CostBasis = %s, want €3.20", res.CostBasis)
	}
	if !res.Gain.Equal(EUR("2.8")) {
		t.Errorf("Gain = %s, want €2.80", res.Gain)
	}
	if len(res.Consumed) != 1 || !res.Consumed[0].Quantity.Equal(Q(4)) {
		t.Fatalf("Consumed = %+v, want one entry of 4", res.Consumed)
	}

	rem := ledger.RemainingLots()
	if len(rem) != 1 || !rem[0].Remaining.Equal(Q(6)) {
		t.Fatalf("remaining = %+v, want one lot of 6", rem)
	}
	if !rem[0].RemainingCost().Equal(EUR("4.8")) {
		t.Errorf("RemainingCost() = %s, want €4.80", rem[0].RemainingCost())
	}
}

func TestConsumeSpansLots(t *testing.T) {
	// FIFO across two lots: 5 units at €4, then 10 units at €9. Disposing 8
	// drains the first lot (€4) and takes 3/10 of the second (€2.70).
	ledger := NewLedger(nil, []InterestEvent{
		interestLot("buy2", "2024-01-02 10:00:00", "ETH", "10", "9"),
		interestLot("buy1", "2024-01-01 10:00:00", "ETH", "5", "4"),
	}, nil, "NEXO")

	res, err := ledger.Consume(disposal("sell1", "2024-02-01 10:00:00", "ETH", "8", "20"))
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if !res.CostBasis.Equal(EUR("6.7")) {
		t.Errorf("CostBasis = %s, want €6.70", res.CostBasis)
	}
	if !res.Gain.Equal(EUR("13.3")) {
		t.Errorf("Gain = %s, want €13.30", res.Gain)
	}
	if len(res.Consumed) != 2 {
		t.Fatalf("got %d consumptions, want 2", len(res.Consumed))
	}
	// Lots are consumed in acquisition order regardless of event order above.
	if res.Consumed[0].LotTxID != "buy1" || !res.Consumed[0].Quantity.Equal(Q(5)) {
		t.Errorf("first consumption = %+v, want all 5 of buy1", res.Consumed[0])
	}
	if res.Consumed[1].LotTxID != "buy2" || !res.Consumed[1].Quantity.Equal(Q(3)) {
		t.Errorf("second consumption = %+v, want 3 of buy2", res.Consumed[1])
	}

	rem := ledger.RemainingLots()
	if len(rem) != 1 || rem[0].TxID != "buy2" || !rem[0].Remaining.Equal(Q(7)) {
		t.Fatalf("remaining = %+v, want 7 of buy2", rem)
	}
}

func TestConsumeShortfall(t *testing.T) {
	ledger := NewLedger(nil, []InterestEvent{
		interestLot("buy1", "2024-01-01 10:00:00", "ETH", "5", "4"),
	}, nil, "NEXO")

	_, err := ledger.Consume(disposal("sell1", "2024-02-01 10:00:00", "ETH", "10", "30"))
	var shortfall *ShortfallError
	if !errors.As(err, &shortfall) {
		t.Fatalf("Consume() error = %v, want ShortfallError", err)
	}
	if shortfall.Asset != "ETH" || !shortfall.Requested.Equal(Q(10)) || !shortfall.Shortfall.Equal(Q(5)) {
		t.Errorf("ShortfallError = %+v", shortfall)
	}
}

func TestConsumeUnknownAsset(t *testing.T) {
	ledger := NewLedger(nil, nil, nil, "NEXO")
	_, err := ledger.Consume(disposal("sell1", "2024-02-01 10:00:00", "DOGE", "1", "1"))
	var shortfall *ShortfallError
	if !errors.As(err, &shortfall) {
		t.Fatalf("Consume() error = %v, want ShortfallError", err)
	}
}

func TestConsumeCostConservation(t *testing.T) {
	// Consuming a lot in two disposals allocates exactly the original cost:
	// 9 × 3/10 + 9 × 7/10 = 2.7 + 6.3 = 9.
	ledger := NewLedger(nil, []InterestEvent{
		interestLot("buy1", "2024-01-01 10:00:00", "ETH", "10", "9"),
	}, nil, "NEXO")

	first, err := ledger.Consume(disposal("sell1", "2024-02-01 10:00:00", "ETH", "3", "5"))
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	second, err := ledger.Consume(disposal("sell2", "2024-03-01 10:00:00", "ETH", "7", "12"))
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if total := first.CostBasis.Add(second.CostBasis); !total.Equal(EUR(9)) {
		t.Errorf("allocated cost = %s, want exactly €9.00", total)
	}
	if rem := ledger.RemainingLots(); len(rem) != 0 {
		t.Errorf("remaining = %+v, want none", rem)
	}
}

func TestLedgerCashbackLandsOnRewardToken(t *testing.T) {
	ledger := NewLedger([]CashbackEvent{
		{TxID: "cb1", Time: ts("2024-01-01 10:00:00"), Amount: Q(2), ValueEUR: EUR(3)},
	}, nil, nil, "NEXO")

	rem := ledger.RemainingByAsset()
	if got, ok := rem["NEXO"]; !ok || !got.Equal(Q(2)) {
		t.Errorf("RemainingByAsset() = %v, want 2 NEXO", rem)
	}
}

func TestRemainingLotsOrder(t *testing.T) {
	ledger := NewLedger(nil, []InterestEvent{
		interestLot("e2", "2024-02-01 10:00:00", "ETH", "1", "1"),
		interestLot("b1", "2024-03-01 10:00:00", "BTC", "1", "1"),
		interestLot("e1", "2024-01-01 10:00:00", "ETH", "1", "1"),
	}, nil, "NEXO")

	rem := ledger.RemainingLots()
	var order []string
	for _, lot := range rem {
		order = append(order, lot.TxID)
	}
	want := []string{"b1", "e1", "e2"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
