package ganhos

import (
	"context"
	"errors"
	"fmt"

	"github.com/brunofarias/ganhos/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrNoQuote is returned by a RateSource when the provider has no quote for
// the requested date (weekend, holiday). It is the recoverable condition
// that triggers the previous-day walk; transport failures are anything else.
var ErrNoQuote = errors.New("no quote published for date")

// ErrRateNotFound is returned by the Resolver once the backward day-walk is
// exhausted without finding a quote.
var ErrRateNotFound = errors.New("exchange rate not found")

// Quote is one day's currency quote, both sides.
type Quote struct {
	Bid decimal.Decimal
	Ask decimal.Decimal
}

// RateSource looks up the USD/BRL quote published on a given date.
// Implementations return ErrNoQuote (possibly wrapped) when the provider has
// no data for that date.
type RateSource interface {
	Lookup(ctx context.Context, on date.Date) (Quote, error)
}

// Side selects which side of a quote applies to a conversion. The asymmetry
// is a fixed business rule: liquidating a dollar-denominated sale converts
// proceeds at the institution's bid price, while costing a historical
// acquisition converts at the ask price.
type Side int

const (
	// SaleProceeds converts sale proceeds, at the bid rate.
	SaleProceeds Side = iota
	// AcquisitionCost converts acquisition cost basis, at the ask rate.
	AcquisitionCost
)

func (s Side) String() string {
	switch s {
	case SaleProceeds:
		return "sale-proceeds (bid)"
	case AcquisitionCost:
		return "acquisition-cost (ask)"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// pick returns the side of the quote this conversion uses.
func (s Side) pick(q Quote) decimal.Decimal {
	if s == AcquisitionCost {
		return q.Ask
	}
	return q.Bid
}

// ResolvedRate is an exchange rate together with the date whose quote was
// actually used, which may be earlier than the requested date.
type ResolvedRate struct {
	Rate decimal.Decimal
	On   date.Date
}

// DefaultMaxBackoffDays bounds the backward day-walk of the Resolver.
const DefaultMaxBackoffDays = 5

// Resolver resolves historical exchange rates from a RateSource, walking
// back day by day over weekends and holidays. It never blocks on user
// input: after exhausting the walk it surfaces ErrRateNotFound and leaves
// any manual fallback to the caller.
type Resolver struct {
	Source         RateSource
	MaxBackoffDays int
	Log            zerolog.Logger
}

// NewResolver returns a Resolver with the default backoff bound and a
// disabled logger.
func NewResolver(src RateSource) *Resolver {
	return &Resolver{Source: src, MaxBackoffDays: DefaultMaxBackoffDays, Log: zerolog.Nop()}
}

// Resolve returns the rate for the given date and side. When the source has
// no quote for that date it retries the previous calendar day, up to
// MaxBackoffDays times. Transport failures abort the resolution immediately.
func (r *Resolver) Resolve(ctx context.Context, on date.Date, side Side) (ResolvedRate, error) {
	day := on
	for attempt := 0; attempt <= r.MaxBackoffDays; attempt++ {
		q, err := r.Source.Lookup(ctx, day)
		if errors.Is(err, ErrNoQuote) {
			r.Log.Debug().Stringer("date", day).Msg("no quote, trying previous day")
			day = day.Add(-1)
			continue
		}
		if err != nil {
			return ResolvedRate{}, fmt.Errorf("rate lookup on %s: %w", day, err)
		}
		if day != on {
			r.Log.Warn().Stringer("requested", on).Stringer("used", day).Msg("quote taken from previous business day")
		}
		return ResolvedRate{Rate: side.pick(q), On: day}, nil
	}
	return ResolvedRate{}, fmt.Errorf("%w: no quote for %s or the %d previous days", ErrRateNotFound, on, r.MaxBackoffDays)
}

// LotRates carries acquisition exchange rates for a set of lots: either one
// rate broadcast to every lot, or one rate per lot in lot order. It replaces
// the single-value-or-list runtime branching with an explicit type resolved
// once, at the entry of the profit calculation.
type LotRates struct {
	single ResolvedRate
	perLot []ResolvedRate
	spread bool
}

// SingleLotRate returns a LotRates that broadcasts one rate to every lot.
func SingleLotRate(r ResolvedRate) LotRates { return LotRates{single: r} }

// PerLotRates returns a LotRates with one rate per lot, in lot order.
func PerLotRates(rs []ResolvedRate) LotRates { return LotRates{perLot: rs, spread: true} }

// PerLot resolves the rates into a concrete per-lot-indexed sequence of
// length n.
func (lr LotRates) PerLot(n int) ([]ResolvedRate, error) {
	if !lr.spread {
		out := make([]ResolvedRate, n)
		for i := range out {
			out[i] = lr.single
		}
		return out, nil
	}
	if len(lr.perLot) != n {
		return nil, fmt.Errorf("got %d lot rates for %d lots", len(lr.perLot), n)
	}
	return lr.perLot, nil
}
