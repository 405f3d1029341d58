package ganhos

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/brunofarias/ganhos/date"
	"github.com/shopspring/decimal"
)

// This file contains the client for the Banco Central do Brasil PTAX
// service (Olinda OData API), the official source of historical USD/BRL
// quotes.

const bcbBaseURL = "https://olinda.bcb.gov.br/olinda/servico/PTAX/versao/v1/odata"

// BCB fetches official dollar quotes from the Banco Central do Brasil.
// It implements RateSource.
type BCB struct {
	client *http.Client
	base   string
}

// NewBCB returns a PTAX client backed by the daily disk cache: a
// published historical quote never changes.
func NewBCB() *BCB {
	return &BCB{client: daily(), base: bcbBaseURL}
}

// DayQuote is a quote together with the date it was published on.
type DayQuote struct {
	On date.Date
	Quote
	Timestamp string // provider timestamp, e.g. "2023-06-05 13:09:02.871"
}

// Lookup returns the PTAX quote for the given date, or ErrNoQuote when the
// central bank published nothing that day (weekend or holiday).
func (b *BCB) Lookup(ctx context.Context, on date.Date) (Quote, error) {
	dq, err := b.day(ctx, on)
	if err != nil {
		return Quote{}, err
	}
	return dq.Quote, nil
}

func (b *BCB) day(ctx context.Context, on date.Date) (DayQuote, error) {
	// The API wants dates in MM-DD-YYYY.
	addr := fmt.Sprintf("%s/CotacaoDolarDia(dataCotacao=@dataCotacao)?@dataCotacao='%s'&$format=json",
		b.base, on.Format("01-02-2006"))

	// that's the payload
	var content struct {
		Value []struct {
			Compra    float64 `json:"cotacaoCompra"`
			Venda     float64 `json:"cotacaoVenda"`
			Timestamp string  `json:"dataHoraCotacao"`
		} `json:"value"`
	}
	if err := jwget(ctx, b.client, addr, &content); err != nil {
		return DayQuote{}, fmt.Errorf("ptax request for %s: %w", on, err)
	}
	if len(content.Value) == 0 {
		return DayQuote{}, fmt.Errorf("ptax %s: %w", on, ErrNoQuote)
	}
	v := content.Value[0]
	return DayQuote{
		On:        on,
		Quote:     Quote{Bid: decimal.NewFromFloat(v.Compra), Ask: decimal.NewFromFloat(v.Venda)},
		Timestamp: v.Timestamp,
	}, nil
}

// History returns the quotes published between from and to, inclusive.
// Days without a quote are skipped; transport failures abort the download.
func (b *BCB) History(ctx context.Context, from, to date.Date) ([]DayQuote, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("ptax history: end date %s before start date %s", to, from)
	}
	var quotes []DayQuote
	for day := from; !day.After(to); day = day.Add(1) {
		dq, err := b.day(ctx, day)
		if err != nil {
			if errors.Is(err, ErrNoQuote) {
				continue
			}
			return nil, err
		}
		quotes = append(quotes, dq)
	}
	return quotes, nil
}
