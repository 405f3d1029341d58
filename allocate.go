package ganhos

import "fmt"

// Aggregates are the sale-side totals to distribute across lots. Each one is
// distributed independently of the others.
type Aggregates struct {
	Proceeds              Money // gross sale amount, transaction currency
	Costs                 Money // commission + supplemental fee
	NetProceeds           Money // proceeds - costs, transaction currency
	NetProceedsSettlement Money // net proceeds converted at the sale-date rate
}

// Allocation is the share of every aggregate assigned to one lot.
type Allocation struct {
	Proceeds              Money
	Costs                 Money
	NetProceeds           Money
	NetProceedsSettlement Money
}

// Allocate distributes the aggregates across lots in quantity proportion.
//
// For every lot except the last, the allocated value is
// aggregate * lot.Quantity / quantity. The last lot is never computed
// proportionally: it receives aggregate minus the running sum of the
// previous allocations, which guarantees that the per-lot values of each
// aggregate sum back to the aggregate exactly, whatever rounding drift the
// proportional terms accumulated. Each aggregate keeps its own running sum.
//
// The lots must already be reconciled: their quantities must sum to
// quantity exactly.
func Allocate(lots []AcquisitionLot, quantity int64, agg Aggregates) ([]Allocation, error) {
	if len(lots) == 0 {
		return nil, fmt.Errorf("allocate: no lots")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("allocate: quantity must be positive, got %d", quantity)
	}
	var total int64
	for _, lot := range lots {
		total += lot.Quantity
	}
	if total != quantity {
		return nil, fmt.Errorf("allocate: lot quantities sum to %d, want %d (reconcile first)", total, quantity)
	}

	out := make([]Allocation, len(lots))
	assign(out, lots, quantity, agg.Proceeds, func(a *Allocation, v Money) { a.Proceeds = v })
	assign(out, lots, quantity, agg.Costs, func(a *Allocation, v Money) { a.Costs = v })
	assign(out, lots, quantity, agg.NetProceeds, func(a *Allocation, v Money) { a.NetProceeds = v })
	assign(out, lots, quantity, agg.NetProceedsSettlement, func(a *Allocation, v Money) { a.NetProceedsSettlement = v })
	return out, nil
}

// assign distributes one aggregate over the allocations, last lot absorbing
// the remainder.
func assign(out []Allocation, lots []AcquisitionLot, quantity int64, total Money, set func(*Allocation, Money)) {
	sum := M(0, total.Currency())
	q := Q(quantity)
	last := len(lots) - 1
	for i, lot := range lots {
		if i == last {
			set(&out[i], total.Sub(sum))
			return
		}
		v := total.Mul(Q(lot.Quantity)).Div(q)
		sum = sum.Add(v)
		set(&out[i], v)
	}
}
