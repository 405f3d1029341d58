package ganhos

import (
	"context"
	"fmt"
)

// Settlement is a fully processed sale: reconciled lots, resolved rates,
// allocated aggregates and per-lot profit.
type Settlement struct {
	Record   TransactionRecord
	SaleRate ResolvedRate // sale-date bid rate applied to net proceeds
	Adjusted bool         // lot quantities were rescaled during reconciliation
	Lots     []LotReport
}

// Settle runs the whole pipeline on one record: validate, reconcile lot
// quantities, resolve the sale-date and acquisition-date rates, allocate the
// aggregates and compute per-lot profit. Lots are processed strictly in
// order; records are independent of each other and Settle is safe to call
// repeatedly.
func (r *Resolver) Settle(ctx context.Context, rec TransactionRecord) (*Settlement, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	lots, adjusted, err := ReconcileLots(rec.Quantity, rec.Lots)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rec.Ticker, err)
	}
	if adjusted {
		r.Log.Warn().
			Str("ticker", rec.Ticker).
			Int64("quantity", rec.Quantity).
			Msg("lot quantities did not match the sale quantity and were rescaled")
	}

	saleRate, err := r.Resolve(ctx, rec.Date, SaleProceeds)
	if err != nil {
		return nil, fmt.Errorf("%s: sale date: %w", rec.Ticker, err)
	}

	// One lookup per distinct acquisition date; several lots often share one.
	resolved := make(map[string]ResolvedRate)
	acqRates := make([]ResolvedRate, len(lots))
	for i, lot := range lots {
		key := lot.Date.String()
		rate, ok := resolved[key]
		if !ok {
			rate, err = r.Resolve(ctx, lot.Date, AcquisitionCost)
			if err != nil {
				return nil, fmt.Errorf("%s: lot %d acquisition date: %w", rec.Ticker, i, err)
			}
			resolved[key] = rate
		}
		acqRates[i] = rate
	}

	rec.Lots = lots
	return SettleWithRates(rec, saleRate, PerLotRates(acqRates), adjusted)
}

// SettleWithRates settles a record whose rates are already known, for
// example supplied manually after a failed lookup. The record's lots must
// already be reconciled.
func SettleWithRates(rec TransactionRecord, saleRate ResolvedRate, acqRates LotRates, adjusted bool) (*Settlement, error) {
	agg := Aggregates{
		Proceeds:              rec.TotalValue,
		Costs:                 rec.Costs(),
		NetProceeds:           rec.NetProceeds(),
		NetProceedsSettlement: rec.NetProceeds().Convert(saleRate.Rate, BRL),
	}
	allocs, err := Allocate(rec.Lots, rec.Quantity, agg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rec.Ticker, err)
	}
	reports, err := ComputeProfits(rec.Lots, allocs, acqRates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rec.Ticker, err)
	}
	return &Settlement{Record: rec, SaleRate: saleRate, Adjusted: adjusted, Lots: reports}, nil
}
