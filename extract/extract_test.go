package extract

import (
	"strings"
	"testing"

	"github.com/brunofarias/ganhos"
	"github.com/brunofarias/ganhos/date"
)

const modelAnswer = `{
  "transaction_date": "2023-06-05",
  "ticker": "MSFT",
  "operation_type": "venda",
  "quantity": 10,
  "share_value": 100.0,
  "total_value": 1000.0,
  "commission": 10.0,
  "supplemental_fee": 2.0,
  "acquisition_lots": [
    {"acquisition_date": "2022-03-15", "quantity": 6, "cost_basis_per_share": 50.0},
    {"acquisition_date": "2021-09-10", "quantity": 4, "cost_basis_per_share": 40.0}
  ]
}`

func TestDecodeRecord(t *testing.T) {
	rec, err := decodeRecord(modelAnswer)
	if err != nil {
		t.Fatalf("decodeRecord() failed: %v", err)
	}
	if rec.Ticker != "MSFT" {
		t.Errorf("ticker = %q, want MSFT", rec.Ticker)
	}
	if rec.Date != date.MustParse("05/06/2023") {
		t.Errorf("date = %s, want 05/06/2023", rec.Date)
	}
	if rec.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", rec.Quantity)
	}
	if !rec.TotalValue.Equal(ganhos.M(1000, ganhos.USD)) {
		t.Errorf("total = %s, want $1,000.00", rec.TotalValue)
	}
	if len(rec.Lots) != 2 {
		t.Fatalf("got %d lots, want 2", len(rec.Lots))
	}
	if rec.Lots[1].Date != date.MustParse("10/09/2021") {
		t.Errorf("lot 1 date = %s, want 10/09/2021", rec.Lots[1].Date)
	}
	if !rec.Lots[0].CostBasisPerShare.Equal(ganhos.M(50, ganhos.USD)) {
		t.Errorf("lot 0 cost basis = %s, want $50.00", rec.Lots[0].CostBasisPerShare)
	}
}

func TestDecodeRecord_FencedAnswer(t *testing.T) {
	fenced := "Here is the extraction you asked for:\n```json\n" + modelAnswer + "\n```\nLet me know if you need anything else."
	rec, err := decodeRecord(fenced)
	if err != nil {
		t.Fatalf("decodeRecord() failed on a fenced answer: %v", err)
	}
	if rec.Ticker != "MSFT" {
		t.Errorf("ticker = %q, want MSFT", rec.Ticker)
	}
}

func TestDecodeRecord_Rejections(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "sorry, I cannot read this document"},
		{name: "bad date", raw: strings.Replace(modelAnswer, "2023-06-05", "soon", 1)},
		{name: "no lots", raw: strings.Replace(modelAnswer, `{"acquisition_date": "2022-03-15", "quantity": 6, "cost_basis_per_share": 50.0},
    {"acquisition_date": "2021-09-10", "quantity": 4, "cost_basis_per_share": 40.0}`, "", 1)},
		{name: "zero quantity", raw: strings.Replace(modelAnswer, `"quantity": 10`, `"quantity": 0`, 1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeRecord(tc.raw); err == nil {
				t.Error("decodeRecord() succeeded, want error")
			}
		})
	}
}

func TestCleanModelJSON(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "already clean", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", raw: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding prose", raw: "Sure! {\"a\":1} Hope this helps.", want: `{"a":1}`},
		{name: "whitespace", raw: "\n\n  {\"a\":1}  \n", want: `{"a":1}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanModelJSON(tc.raw); got != tc.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	e := New(nil, Config{})
	if e.cfg.Model != DefaultModel {
		t.Errorf("model = %q, want %q", e.cfg.Model, DefaultModel)
	}
	if e.cfg.Timeout <= 0 || e.cfg.InitialBackoff <= 0 {
		t.Errorf("cfg = %+v, want positive timeout and backoff", e.cfg)
	}
}
