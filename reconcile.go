package ganhos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ReconcileLots forces the lot quantities to sum exactly to the reported
// sale quantity.
//
// When the sum already matches, the lots are returned unchanged. Otherwise
// every lot quantity is rescaled by quantity/total using banker's rounding,
// and the last lot absorbs whatever residual the rounding left, so the
// postcondition sum(lot.Quantity) == quantity holds exactly. The correction
// deliberately skews the last lot instead of spreading the residual.
//
// The returned flag reports whether any quantity was adjusted; callers are
// expected to surface it so a human can sanity-check the correction.
//
// A rescale that drives any lot quantity to zero or below (many small lots
// all rounding down, or a residual larger than the last lot) is rejected.
func ReconcileLots(quantity int64, lots []AcquisitionLot) ([]AcquisitionLot, bool, error) {
	if len(lots) == 0 {
		return nil, false, fmt.Errorf("reconcile: no lots")
	}
	var total int64
	for _, lot := range lots {
		total += lot.Quantity
	}
	if total == quantity {
		return lots, false, nil
	}
	if total <= 0 {
		return nil, false, fmt.Errorf("reconcile: lot quantities sum to %d, cannot rescale to %d", total, quantity)
	}

	factor := decimal.NewFromInt(quantity).Div(decimal.NewFromInt(total))
	adjusted := make([]AcquisitionLot, len(lots))
	var adjustedTotal int64
	for i, lot := range lots {
		q := decimal.NewFromInt(lot.Quantity).Mul(factor).RoundBank(0).IntPart()
		adjusted[i] = lot
		adjusted[i].Quantity = q
		adjustedTotal += q
	}
	if residual := quantity - adjustedTotal; residual != 0 {
		adjusted[len(adjusted)-1].Quantity += residual
	}

	for i, lot := range adjusted {
		if lot.Quantity <= 0 {
			return nil, false, fmt.Errorf("reconcile: rescaling %d to %d drives lot %d quantity to %d",
				total, quantity, i, lot.Quantity)
		}
	}
	return adjusted, true, nil
}
