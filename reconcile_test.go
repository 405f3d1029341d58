package ganhos

import (
	"testing"

	"github.com/brunofarias/ganhos/date"
)

// lotOf creates a test lot with a fixed cost basis.
func lotOf(t *testing.T, day string, quantity int64) AcquisitionLot {
	t.Helper()
	return AcquisitionLot{
		Date:              date.MustParse(day),
		Quantity:          quantity,
		CostBasisPerShare: M(50, USD),
	}
}

func TestReconcileLots(t *testing.T) {
	testCases := []struct {
		name         string
		quantity     int64
		lots         []int64
		want         []int64
		wantAdjusted bool
	}{
		{
			name:     "already consistent",
			quantity: 100,
			lots:     []int64{60, 40},
			want:     []int64{60, 40},
		},
		{
			name:         "proportional rescale",
			quantity:     100,
			lots:         []int64{60, 50},
			want:         []int64{55, 45},
			wantAdjusted: true,
		},
		{
			name:         "residual lands on the last lot",
			quantity:     10,
			lots:         []int64{3, 3, 3},
			want:         []int64{3, 3, 4},
			wantAdjusted: true,
		},
		{
			name:         "single lot absorbs everything",
			quantity:     42,
			lots:         []int64{40},
			want:         []int64{42},
			wantAdjusted: true,
		},
		{
			name:         "shrinking rescale",
			quantity:     50,
			lots:         []int64{60, 50},
			want:         []int64{27, 23},
			wantAdjusted: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lots := make([]AcquisitionLot, len(tc.lots))
			for i, q := range tc.lots {
				lots[i] = lotOf(t, "15/03/2022", q)
			}
			got, adjusted, err := ReconcileLots(tc.quantity, lots)
			if err != nil {
				t.Fatalf("ReconcileLots() failed: %v", err)
			}
			if adjusted != tc.wantAdjusted {
				t.Errorf("adjusted = %v, want %v", adjusted, tc.wantAdjusted)
			}
			var sum int64
			for i, lot := range got {
				sum += lot.Quantity
				if lot.Quantity != tc.want[i] {
					t.Errorf("lot %d quantity = %d, want %d", i, lot.Quantity, tc.want[i])
				}
			}
			if sum != tc.quantity {
				t.Errorf("reconciled quantities sum to %d, want %d", sum, tc.quantity)
			}
		})
	}
}

func TestReconcileLots_PreservesCostBasis(t *testing.T) {
	lots := []AcquisitionLot{
		{Date: date.MustParse("15/03/2022"), Quantity: 60, CostBasisPerShare: M(50, USD)},
		{Date: date.MustParse("10/09/2021"), Quantity: 50, CostBasisPerShare: M(40, USD)},
	}
	got, _, err := ReconcileLots(100, lots)
	if err != nil {
		t.Fatalf("ReconcileLots() failed: %v", err)
	}
	for i := range got {
		if got[i].Date != lots[i].Date {
			t.Errorf("lot %d date changed: %s", i, got[i].Date)
		}
		if !got[i].CostBasisPerShare.Equal(lots[i].CostBasisPerShare) {
			t.Errorf("lot %d cost basis changed: %s", i, got[i].CostBasisPerShare)
		}
	}
}

func TestReconcileLots_MismatchSweep(t *testing.T) {
	// Every mismatch from -1000 to +1000 against a fixed four-lot set must
	// rescale to an exact sum with all quantities positive.
	base := []int64{1200, 800, 600, 400}
	var total int64
	for _, q := range base {
		total += q
	}
	for delta := int64(-1000); delta <= 1000; delta++ {
		quantity := total + delta
		lots := make([]AcquisitionLot, len(base))
		for i, q := range base {
			lots[i] = lotOf(t, "15/03/2022", q)
		}
		got, adjusted, err := ReconcileLots(quantity, lots)
		if err != nil {
			t.Fatalf("ReconcileLots(%d) failed: %v", quantity, err)
		}
		if adjusted != (delta != 0) {
			t.Fatalf("ReconcileLots(%d) adjusted = %v", quantity, adjusted)
		}
		var sum int64
		for i, lot := range got {
			if lot.Quantity <= 0 {
				t.Fatalf("ReconcileLots(%d) lot %d quantity = %d", quantity, i, lot.Quantity)
			}
			sum += lot.Quantity
		}
		if sum != quantity {
			t.Fatalf("ReconcileLots(%d) quantities sum to %d", quantity, sum)
		}
	}
}

func TestReconcileLots_Rejections(t *testing.T) {
	testCases := []struct {
		name     string
		quantity int64
		lots     []int64
	}{
		{name: "no lots", quantity: 10, lots: nil},
		{name: "zero total", quantity: 10, lots: []int64{0, 0}},
		// 5*1/10 rounds to 0: the rescale would zero out the first lot.
		{name: "rescale drives a lot to zero", quantity: 1, lots: []int64{5, 5}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lots := make([]AcquisitionLot, len(tc.lots))
			for i, q := range tc.lots {
				lots[i] = lotOf(t, "15/03/2022", q)
			}
			if _, _, err := ReconcileLots(tc.quantity, lots); err == nil {
				t.Errorf("ReconcileLots(%d, %v) succeeded, want error", tc.quantity, tc.lots)
			}
		})
	}
}
