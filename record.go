package ganhos

import (
	"fmt"

	"github.com/brunofarias/ganhos/date"
)

// AcquisitionLot is a historically acquired block of shares with its own
// date and cost basis, distinct from other lots of the same security.
type AcquisitionLot struct {
	Date              date.Date
	Quantity          int64
	CostBasisPerShare Money // in transaction currency
}

// Cost returns the total acquisition cost of the lot in transaction currency.
func (l AcquisitionLot) Cost() Money {
	return l.CostBasisPerShare.Mul(Q(l.Quantity))
}

// TransactionRecord is one sale event settled against one or more
// acquisition lots. It is a short-lived value created per invocation and
// discarded after emission.
type TransactionRecord struct {
	Ticker          string
	Date            date.Date
	Quantity        int64
	ShareValue      Money // price per share at sale, informational
	TotalValue      Money // gross proceeds
	Commission      Money
	SupplementalFee Money
	Lots            []AcquisitionLot
}

// Costs returns the aggregate transaction costs.
func (r TransactionRecord) Costs() Money {
	return r.Commission.Add(r.SupplementalFee)
}

// NetProceeds returns gross proceeds minus costs, in transaction currency.
func (r TransactionRecord) NetProceeds() Money {
	return r.TotalValue.Sub(r.Costs())
}

// Validate checks the structural invariants of the record, before any
// reconciliation happens.
func (r TransactionRecord) Validate() error {
	if r.Ticker == "" {
		return fmt.Errorf("transaction record: missing ticker")
	}
	if r.Date.IsZero() {
		return fmt.Errorf("transaction record %s: missing transaction date", r.Ticker)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("transaction record %s: quantity must be positive, got %d", r.Ticker, r.Quantity)
	}
	if r.TotalValue.IsNegative() {
		return fmt.Errorf("transaction record %s: negative proceeds %s", r.Ticker, r.TotalValue)
	}
	if r.Commission.IsNegative() || r.SupplementalFee.IsNegative() {
		return fmt.Errorf("transaction record %s: negative costs", r.Ticker)
	}
	if len(r.Lots) == 0 {
		return fmt.Errorf("transaction record %s: needs at least one acquisition lot", r.Ticker)
	}
	for i, lot := range r.Lots {
		if lot.Date.IsZero() {
			return fmt.Errorf("transaction record %s: lot %d has no acquisition date", r.Ticker, i)
		}
		if lot.Quantity <= 0 {
			return fmt.Errorf("transaction record %s: lot %d quantity must be positive, got %d", r.Ticker, i, lot.Quantity)
		}
		if lot.CostBasisPerShare.IsNegative() {
			return fmt.Errorf("transaction record %s: lot %d has negative cost basis", r.Ticker, i)
		}
	}
	return nil
}
