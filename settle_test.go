package ganhos

import (
	"context"
	"testing"

	"github.com/brunofarias/ganhos/date"
	"github.com/shopspring/decimal"
)

// bid rate quoted on the sale date of the test calendar.
var saleBid = decimal.NewFromFloat(4.9)

// setupSaleTest builds a two-lot sale and a rate calendar covering the sale
// and both acquisition dates.
func setupSaleTest(t *testing.T) (TransactionRecord, *fakeSource) {
	t.Helper()
	rec := TransactionRecord{
		Ticker:          "MSFT",
		Date:            date.MustParse("05/06/2023"),
		Quantity:        10,
		ShareValue:      M(100, USD),
		TotalValue:      M(1000, USD),
		Commission:      M(10, USD),
		SupplementalFee: M(2, USD),
		Lots: []AcquisitionLot{
			{Date: date.MustParse("15/03/2022"), Quantity: 6, CostBasisPerShare: M(50, USD)},
			{Date: date.MustParse("10/09/2021"), Quantity: 4, CostBasisPerShare: M(40, USD)},
		},
	}
	src := &fakeSource{quotes: map[date.Date]Quote{
		date.MustParse("05/06/2023"): quoteOf(4.9, 5.0),
		date.MustParse("15/03/2022"): quoteOf(5.0, 5.1),
		date.MustParse("10/09/2021"): quoteOf(5.2, 5.3),
	}}
	return rec, src
}

func TestSettle(t *testing.T) {
	rec, src := setupSaleTest(t)
	s, err := NewResolver(src).Settle(context.Background(), rec)
	if err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}
	if s.Adjusted {
		t.Error("Adjusted = true for consistent lots")
	}
	if !s.SaleRate.Rate.Equal(saleBid) {
		t.Errorf("sale rate = %s, want the 05/06/2023 bid 4.9", s.SaleRate.Rate)
	}
	if len(s.Lots) != 2 {
		t.Fatalf("got %d lot reports, want 2", len(s.Lots))
	}

	// Net proceeds 988 USD, settled at 4.9: 4841.20 BRL overall.
	// Lot 0 owns 60% of every aggregate, lot 1 the remaining 40%.
	checks := []struct {
		name string
		got  Money
		want Money
	}{
		{"lot 0 proceeds", s.Lots[0].Proceeds, M(600, USD)},
		{"lot 0 costs", s.Lots[0].Costs, M(7.2, USD)},
		{"lot 0 net proceeds", s.Lots[0].NetProceeds, M(592.8, USD)},
		{"lot 0 settlement", s.Lots[0].NetProceedsSettlement, M(2904.72, BRL)},
		{"lot 0 acquisition cost", s.Lots[0].AcquisitionCost, M(300, USD)},
		{"lot 0 acquisition cost settlement", s.Lots[0].AcquisitionCostSettlement, M(1530, BRL)},
		{"lot 0 profit", s.Lots[0].Profit, M(292.8, USD)},
		{"lot 0 profit settlement", s.Lots[0].ProfitSettlement, M(1374.72, BRL)},

		{"lot 1 proceeds", s.Lots[1].Proceeds, M(400, USD)},
		{"lot 1 costs", s.Lots[1].Costs, M(4.8, USD)},
		{"lot 1 net proceeds", s.Lots[1].NetProceeds, M(395.2, USD)},
		{"lot 1 settlement", s.Lots[1].NetProceedsSettlement, M(1936.48, BRL)},
		{"lot 1 acquisition cost", s.Lots[1].AcquisitionCost, M(160, USD)},
		{"lot 1 acquisition cost settlement", s.Lots[1].AcquisitionCostSettlement, M(848, BRL)},
		{"lot 1 profit", s.Lots[1].Profit, M(235.2, USD)},
		{"lot 1 profit settlement", s.Lots[1].ProfitSettlement, M(1088.48, BRL)},
	}
	for _, c := range checks {
		if !c.got.Equal(c.want) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	// Each lot's cost basis converts at its own acquisition-date ask rate.
	if s.Lots[0].AcquisitionRate.On != date.MustParse("15/03/2022") {
		t.Errorf("lot 0 rate dated %s, want its acquisition date", s.Lots[0].AcquisitionRate.On)
	}
	if s.Lots[1].AcquisitionRate.On != date.MustParse("10/09/2021") {
		t.Errorf("lot 1 rate dated %s, want its acquisition date", s.Lots[1].AcquisitionRate.On)
	}
}

func TestSettle_AdjustsInconsistentLots(t *testing.T) {
	rec, src := setupSaleTest(t)
	// Lots sum to 11 against a sale of 10.
	rec.Lots[0].Quantity = 7
	s, err := NewResolver(src).Settle(context.Background(), rec)
	if err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}
	if !s.Adjusted {
		t.Error("Adjusted = false after a rescale")
	}
	var sum int64
	for _, lot := range s.Lots {
		sum += lot.Lot.Quantity
	}
	if sum != rec.Quantity {
		t.Errorf("lot quantities sum to %d, want %d", sum, rec.Quantity)
	}
}

func TestSettle_DeduplicatesAcquisitionLookups(t *testing.T) {
	rec, src := setupSaleTest(t)
	rec.Lots[1].Date = rec.Lots[0].Date
	if _, err := NewResolver(src).Settle(context.Background(), rec); err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}
	// One lookup for the sale date, one for the shared acquisition date.
	if src.lookups != 2 {
		t.Errorf("lookups = %d, want 2", src.lookups)
	}
}

func TestSettle_MissingRateFails(t *testing.T) {
	rec, src := setupSaleTest(t)
	delete(src.quotes, date.MustParse("10/09/2021"))
	if _, err := NewResolver(src).Settle(context.Background(), rec); err == nil {
		t.Error("Settle() with an unresolvable acquisition date succeeded, want error")
	}
}

func TestSettle_RejectsInvalidRecord(t *testing.T) {
	rec, src := setupSaleTest(t)
	rec.Quantity = 0
	if _, err := NewResolver(src).Settle(context.Background(), rec); err == nil {
		t.Error("Settle() with zero quantity succeeded, want error")
	}
	if src.lookups != 0 {
		t.Errorf("lookups = %d before validation failure, want 0", src.lookups)
	}
}

func TestSettleWithRates_SingleManualRate(t *testing.T) {
	rec, _ := setupSaleTest(t)
	sale := ResolvedRate{Rate: saleBid, On: rec.Date}
	acq := ResolvedRate{Rate: saleBid, On: rec.Lots[0].Date}
	s, err := SettleWithRates(rec, sale, SingleLotRate(acq), false)
	if err != nil {
		t.Fatalf("SettleWithRates() failed: %v", err)
	}
	for i, lot := range s.Lots {
		if !lot.AcquisitionRate.Rate.Equal(saleBid) {
			t.Errorf("lot %d rate = %s, want the broadcast manual rate", i, lot.AcquisitionRate.Rate)
		}
	}
}
