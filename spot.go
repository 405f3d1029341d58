package ganhos

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

/*
	{
	    "USDBRL": {
	        "code": "USD",
	        "codein": "BRL",
	        "name": "Dólar Americano/Real Brasileiro",
	        "bid": "5.4321",
	        "ask": "5.4399",
	        "create_date": "2025-08-22 17:59:58"
	    }
	}
*/
const spotAddr = "https://economia.awesomeapi.com.br/json/last/USD-BRL"

// SpotQuote returns the latest intraday USD/BRL quote. It is informational
// only: settlements always use the official historical PTAX quotes.
func SpotQuote(ctx context.Context) (Quote, error) {
	return spotQuote(ctx, new(http.Client), spotAddr)
}

func spotQuote(ctx context.Context, client *http.Client, addr string) (Quote, error) {
	var jobj any
	if err := jwget(ctx, client, addr, &jobj); err != nil {
		return Quote{}, fmt.Errorf("error in wget %q: %w", "USD/BRL", err)
	}
	var q Quote
	var err error
	if q.Bid, err = spotField(jobj, "$.USDBRL.bid"); err != nil {
		return Quote{}, err
	}
	if q.Ask, err = spotField(jobj, "$.USDBRL.ask"); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func spotField(jobj any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error parsing %q: %q %w", "USD/BRL", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("error parsing %q: %q not a string: %v", "USD/BRL", path, jval)
	}
	return ParseAmount(s)
}
