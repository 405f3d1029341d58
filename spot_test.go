package ganhos

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSpotQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"USDBRL":{"code":"USD","codein":"BRL","bid":"5.4321","ask":"5.4399","create_date":"2025-08-22 17:59:58"}}`)
	}))
	defer srv.Close()

	q, err := spotQuote(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("spotQuote() failed: %v", err)
	}
	if !q.Bid.Equal(decimal.NewFromFloat(5.4321)) {
		t.Errorf("bid = %s, want 5.4321", q.Bid)
	}
	if !q.Ask.Equal(decimal.NewFromFloat(5.4399)) {
		t.Errorf("ask = %s, want 5.4399", q.Ask)
	}
}

func TestSpotQuote_MissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"USDBRL":{"code":"USD"}}`)
	}))
	defer srv.Close()

	if _, err := spotQuote(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Error("spotQuote() without bid/ask succeeded, want error")
	}
}
