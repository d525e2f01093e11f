package nexotax

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func obs(when, eur, usd string) FxObservation {
	return FxObservation{Time: ts(when), EUR: EUR(eur), USD: USD(usd)}
}

func TestRateTableWeightsByVolume(t *testing.T) {
	// Two purchases on the same day: 100/110 and 50/50. The day's rate is
	// 150/160, not the mean of the two individual rates.
	table := NewRateTable([]FxObservation{
		obs("2024-03-01 09:00:00", "100", "110"),
		obs("2024-03-01 18:00:00", "50", "50"),
	})
	rate, err := table.Rate(ts("2024-03-01 12:00:00"))
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if want := decimal.RequireFromString("0.9375"); !rate.Equal(want) {
		t.Errorf("Rate() = %s, want %s", rate, want)
	}
}

func TestRateTableNearestDay(t *testing.T) {
	table := NewRateTable([]FxObservation{
		obs("2024-03-01 12:00:00", "90", "100"),  // 0.9
		obs("2024-03-11 12:00:00", "95", "100"),  // 0.95
		obs("2024-03-20 12:00:00", "100", "100"), // 1
	})

	tests := []struct {
		name string
		on   string
		want string
	}{
		{"exact day", "2024-03-11 23:59:59", "0.95"},
		{"closer to earlier", "2024-03-04 12:00:00", "0.9"},
		{"closer to later", "2024-03-09 12:00:00", "0.95"},
		{"tie goes to earlier", "2024-03-06 12:00:00", "0.9"},
		{"before first clamps", "2024-02-20 12:00:00", "0.9"},
		{"after last clamps", "2024-04-15 12:00:00", "1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := table.Rate(ts(tc.on))
			if err != nil {
				t.Fatalf("Rate() error = %v", err)
			}
			if want := decimal.RequireFromString(tc.want); !rate.Equal(want) {
				t.Errorf("Rate(%s) = %s, want %s", tc.on, rate, want)
			}
		})
	}
}

func TestRateTableEmpty(t *testing.T) {
	table := NewRateTable(nil)
	if _, err := table.Rate(ts("2024-03-01 12:00:00")); !errors.Is(err, ErrNoObservations) {
		t.Errorf("Rate() error = %v, want ErrNoObservations", err)
	}
	if _, err := table.Convert(USD(10), ts("2024-03-01 12:00:00")); !errors.Is(err, ErrNoObservations) {
		t.Errorf("Convert() error = %v, want ErrNoObservations", err)
	}
}

func TestRateTableConvert(t *testing.T) {
	table := NewRateTable([]FxObservation{obs("2024-03-01 09:00:00", "85", "100")})
	got, err := table.Convert(USD(2), ts("2024-03-01 12:00:00"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !got.Equal(EUR("1.70")) {
		t.Errorf("Convert($2.00) = %s, want €1.70", got)
	}
	if got.Currency() != "EUR" {
		t.Errorf("Convert() currency = %q, want EUR", got.Currency())
	}
}

func TestEnrich(t *testing.T) {
	events := &Events{
		Cashbacks: []CashbackEvent{{TxID: "tx1", Time: ts("2024-03-01 10:00:00"), Amount: Q(1), ValueUSD: USD(2)}},
		Disposals: []DisposalEvent{{TxID: "tx2", Time: ts("2024-03-01 11:00:00"), Asset: "NEXO", Quantity: Q(1), ProceedsUSD: USD(10)}},
	}
	table := NewRateTable([]FxObservation{obs("2024-03-01 09:00:00", "85", "100")})

	if err := table.Enrich(events); err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if !events.Cashbacks[0].ValueEUR.Equal(EUR("1.70")) {
		t.Errorf("cashback ValueEUR = %s, want €1.70", events.Cashbacks[0].ValueEUR)
	}
	if !events.Disposals[0].ProceedsEUR.Equal(EUR("8.50")) {
		t.Errorf("disposal ProceedsEUR = %s, want €8.50", events.Disposals[0].ProceedsEUR)
	}

	if err := table.Enrich(events); err == nil {
		t.Error("second Enrich() should fail")
	}
}
