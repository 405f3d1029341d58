package ganhos

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/brunofarias/ganhos/date"
)

// this file handles the broker CSV batch format and its conversion to the
// Bastter System import format.
//
// The broker export groups transactions by ticker. Each group starts with a
// line holding the ticker alone, then the fixed 8-column header, then one
// row per transaction. Groups are separated by delimiter lines made only of
// commas.

// tradesHeader is the fixed header of every ticker group.
var tradesHeader = []string{"Data", "Corretora", "Tipo", "Qtd", "Preço", "Total", "Preço + Taxas", "Total + Taxas"}

// TradeKind is the direction of a trade.
type TradeKind int

const (
	Buy TradeKind = iota
	Sell
)

func (k TradeKind) String() string {
	if k == Sell {
		return "V"
	}
	return "C"
}

// Trade is one row of the broker export.
type Trade struct {
	Ticker         string
	Date           date.Date
	Broker         string
	Kind           TradeKind
	Quantity       int64 // always positive; the sign convention is applied on export
	Price          Money
	Total          Money // without fees
	TotalWithCosts Money // total + fees for buys, total - fees for sells
}

// RowError records one skipped input row.
type RowError struct {
	Row int // 1-based record index in the file
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

// ImportTrades reads the ticker-grouped broker CSV export. Malformed rows
// are skipped and reported, never aborting the rest of the batch; only a
// structurally unreadable file is an error.
func ImportTrades(r io.Reader) ([]Trade, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		trades  []Trade
		skipped []RowError
		ticker  string
		inBlock bool
		row     int
	)
	for {
		record, err := cr.Read()
		row++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read broker export: %w", err)
		}

		switch {
		case blankRecord(record):
			// group delimiter
			ticker, inBlock = "", false
		case isHeader(record):
			inBlock = true
		case !inBlock:
			// first non-empty line of a group carries the ticker
			if t := strings.TrimSpace(record[0]); t != "" && t != tradesHeader[0] {
				ticker = t
			}
		default:
			trade, err := parseTradeRow(ticker, record)
			if err != nil {
				skipped = append(skipped, RowError{Row: row, Err: err})
				continue
			}
			trades = append(trades, trade)
		}
	}
	return trades, skipped, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func isHeader(record []string) bool {
	if len(record) < len(tradesHeader) {
		return false
	}
	for i, want := range tradesHeader {
		if strings.TrimSpace(record[i]) != want {
			return false
		}
	}
	return true
}

func parseTradeRow(ticker string, record []string) (Trade, error) {
	if ticker == "" {
		return Trade{}, fmt.Errorf("transaction row outside a ticker group")
	}
	if len(record) < 8 {
		return Trade{}, fmt.Errorf("want 8 columns, got %d", len(record))
	}
	d, err := date.Parse(strings.TrimSpace(record[0]))
	if err != nil {
		return Trade{}, err
	}
	var kind TradeKind
	switch strings.TrimSpace(record[2]) {
	case "C":
		kind = Buy
	case "V":
		kind = Sell
	default:
		return Trade{}, fmt.Errorf("unknown transaction type %q", record[2])
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
	if err != nil {
		return Trade{}, fmt.Errorf("cannot parse quantity %q: %w", record[3], err)
	}
	price, err := ParseMoney(record[4], BRL)
	if err != nil {
		return Trade{}, err
	}
	total, err := ParseMoney(record[5], BRL)
	if err != nil {
		return Trade{}, err
	}
	totalWithCosts, err := ParseMoney(record[7], BRL)
	if err != nil {
		return Trade{}, err
	}
	return Trade{
		Ticker:         ticker,
		Date:           d,
		Broker:         strings.TrimSpace(record[1]),
		Kind:           kind,
		Quantity:       quantity,
		Price:          price,
		Total:          total,
		TotalWithCosts: totalWithCosts,
	}, nil
}

// ExportBastter writes trades in the Bastter System import format: a
// headerless CSV with ticker, date, signed quantity (negative for sells),
// total including costs, and the gross total for sells (0.00 for buys).
// A non-zero year keeps only that year's trades.
func ExportBastter(w io.Writer, trades []Trade, year int) error {
	kept := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if year != 0 && t.Date.Year() != year {
			continue
		}
		kept = append(kept, t)
	}
	slices.SortStableFunc(kept, func(a, b Trade) int {
		if c := strings.Compare(a.Ticker, b.Ticker); c != 0 {
			return c
		}
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	})

	cw := csv.NewWriter(w)
	for _, t := range kept {
		quantity := t.Quantity
		gross := M(0, BRL)
		if t.Kind == Sell {
			quantity = -quantity
			gross = t.Total
		}
		row := []string{
			t.Ticker,
			t.Date.String(),
			strconv.FormatInt(quantity, 10),
			t.TotalWithCosts.StringFixed(),
			gross.StringFixed(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write Bastter row for %s: %w", t.Ticker, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
