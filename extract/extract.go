// Package extract turns broker trade-confirmation PDFs into transaction
// records, using a language model for the document understanding.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brunofarias/ganhos"
	"github.com/brunofarias/ganhos/date"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// DefaultModel is the model used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Config holds the extraction policy. It is passed explicitly at
// construction; nothing is read from ambient process state.
type Config struct {
	Model          string
	MaxAttempts    int           // total attempts on throttled calls; <= 0 retries them indefinitely
	InitialBackoff time.Duration // first retry delay, doubled each attempt
	Timeout        time.Duration // per-attempt deadline
}

// Extractor extracts transaction records from PDF documents.
type Extractor struct {
	client *genai.Client
	cfg    Config
}

// New returns an Extractor around an explicitly constructed client.
func New(client *genai.Client, cfg Config) *Extractor {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 10 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Minute
	}
	return &Extractor{client: client, cfg: cfg}
}

const prompt = `You are a parser for Morgan Stanley trade confirmation documents.

Extract the sale transaction from the attached PDF:
- transaction date (from the "Fill summary" section, when the shares were actually sold)
- ticker symbol
- quantity of shares sold
- market price per unit in USD
- total proceeds in USD
- commission in USD
- supplemental transaction fee in USD
- every acquisition lot backing the sale, each with its acquisition date,
  quantity and original cost basis per share in USD

Output STRICT JSON only (no comments, no code fences, no extra text), a
single object with this exact structure:
{
  "transaction_date": "YYYY-MM-DD",
  "ticker": "SYMBOL",
  "operation_type": "venda",
  "quantity": 0,
  "share_value": 0.0,
  "total_value": 0.0,
  "commission": 0.0,
  "supplemental_fee": 0.0,
  "acquisition_lots": [
    {"acquisition_date": "YYYY-MM-DD", "quantity": 0, "cost_basis_per_share": 0.0}
  ]
}

All dates in ISO format YYYY-MM-DD. If the document reports a single
acquisition, return exactly one lot.`

// Transaction sends the PDF to the model and decodes the structured answer.
// Throttled calls are retried with exponential backoff; any other failure is
// fatal for this record and does not abort sibling records in a batch.
func (e *Extractor) Transaction(ctx context.Context, pdf []byte) (ganhos.TransactionRecord, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: pdf}},
				{Text: prompt},
			},
		},
	}

	var raw string
	call := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
		resp, err := e.client.Models.GenerateContent(ctx, e.cfg.Model, contents, nil)
		if err != nil {
			return fmt.Errorf("generate content: %w", err)
		}
		raw = resp.Text()
		if raw == "" {
			return errors.New("empty response from model")
		}
		return nil
	}
	if err := ganhos.Retry(ctx, e.cfg.MaxAttempts, e.cfg.InitialBackoff, classify, call); err != nil {
		return ganhos.TransactionRecord{}, fmt.Errorf("extract transaction: %w", err)
	}
	return decodeRecord(raw)
}

// classify maps model-call failures to retry kinds: only throttling and
// transient server conditions are worth retrying.
func classify(err error) ganhos.ErrorKind {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 503, 504:
			return ganhos.KindTransient
		}
		return ganhos.KindFatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ganhos.KindTransient
	}
	return ganhos.KindFatal
}

// wire format of the model answer.
type jlot struct {
	AcquisitionDate   string          `json:"acquisition_date"`
	Quantity          int64           `json:"quantity"`
	CostBasisPerShare decimal.Decimal `json:"cost_basis_per_share"`
}

type jrecord struct {
	TransactionDate string          `json:"transaction_date"`
	Ticker          string          `json:"ticker"`
	OperationType   string          `json:"operation_type"`
	Quantity        int64           `json:"quantity"`
	ShareValue      decimal.Decimal `json:"share_value"`
	TotalValue      decimal.Decimal `json:"total_value"`
	Commission      decimal.Decimal `json:"commission"`
	SupplementalFee decimal.Decimal `json:"supplemental_fee"`
	Lots            []jlot          `json:"acquisition_lots"`
}

// decodeRecord parses the model answer into a TransactionRecord. A
// malformed answer is surfaced together with the raw response for
// diagnosis.
func decodeRecord(raw string) (ganhos.TransactionRecord, error) {
	clean := cleanModelJSON(raw)
	var jr jrecord
	if err := json.Unmarshal([]byte(clean), &jr); err != nil {
		return ganhos.TransactionRecord{}, fmt.Errorf("cannot parse model answer: %w\nraw response: %s", err, raw)
	}
	on, err := date.Parse(jr.TransactionDate)
	if err != nil {
		return ganhos.TransactionRecord{}, fmt.Errorf("model answer: %w", err)
	}
	rec := ganhos.TransactionRecord{
		Ticker:          jr.Ticker,
		Date:            on,
		Quantity:        jr.Quantity,
		ShareValue:      ganhos.M(jr.ShareValue, ganhos.USD),
		TotalValue:      ganhos.M(jr.TotalValue, ganhos.USD),
		Commission:      ganhos.M(jr.Commission, ganhos.USD),
		SupplementalFee: ganhos.M(jr.SupplementalFee, ganhos.USD),
	}
	for i, jl := range jr.Lots {
		acquired, err := date.Parse(jl.AcquisitionDate)
		if err != nil {
			return ganhos.TransactionRecord{}, fmt.Errorf("model answer: lot %d: %w", i, err)
		}
		rec.Lots = append(rec.Lots, ganhos.AcquisitionLot{
			Date:              acquired,
			Quantity:          jl.Quantity,
			CostBasisPerShare: ganhos.M(jl.CostBasisPerShare, ganhos.USD),
		})
	}
	if err := rec.Validate(); err != nil {
		return ganhos.TransactionRecord{}, fmt.Errorf("model answer: %w\nraw response: %s", err, raw)
	}
	return rec, nil
}

// cleanModelJSON strips markdown fences and surrounding prose when the
// model ignored the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Extra safety: keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
