package ganhos

import "fmt"

// LotReport is one acquisition lot with every derived value attached:
// allocated sale-side amounts, the lot's own historical rate, acquisition
// cost and realized profit in both currencies. Values are computed once and
// never mutated afterwards.
type LotReport struct {
	Lot             AcquisitionLot
	AcquisitionRate ResolvedRate

	Proceeds              Money
	Costs                 Money
	NetProceeds           Money
	NetProceedsSettlement Money

	AcquisitionCost           Money // lot.Quantity * cost basis, transaction currency
	AcquisitionCostSettlement Money // converted at the lot's own acquisition-date rate

	Profit           Money // transaction currency
	ProfitSettlement Money
}

// ComputeProfits derives the per-lot realized profit from the allocated
// amounts and the acquisition rates. The acquisition cost is converted at
// each lot's own acquisition-date rate, never the sale-date rate. No
// rounding is applied; display formatting owns that.
func ComputeProfits(lots []AcquisitionLot, allocs []Allocation, rates LotRates) ([]LotReport, error) {
	if len(allocs) != len(lots) {
		return nil, fmt.Errorf("profit: got %d allocations for %d lots", len(allocs), len(lots))
	}
	perLot, err := rates.PerLot(len(lots))
	if err != nil {
		return nil, fmt.Errorf("profit: %w", err)
	}

	reports := make([]LotReport, len(lots))
	for i, lot := range lots {
		cost := lot.Cost()
		costSettlement := cost.Convert(perLot[i].Rate, BRL)
		reports[i] = LotReport{
			Lot:                       lot,
			AcquisitionRate:           perLot[i],
			Proceeds:                  allocs[i].Proceeds,
			Costs:                     allocs[i].Costs,
			NetProceeds:               allocs[i].NetProceeds,
			NetProceedsSettlement:     allocs[i].NetProceedsSettlement,
			AcquisitionCost:           cost,
			AcquisitionCostSettlement: costSettlement,
			Profit:                    allocs[i].NetProceeds.Sub(cost),
			ProfitSettlement:          allocs[i].NetProceedsSettlement.Sub(costSettlement),
		}
	}
	return reports, nil
}
