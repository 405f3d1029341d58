package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brunofarias/ganhos"
	"github.com/brunofarias/ganhos/extract"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// extractCmd holds the flags for the 'extract' subcommand.
type extractCmd struct {
	model       string
	outputFile  string
	timeout     time.Duration
	maxAttempts int
	maxBackoff  int
	saleRate    string
	acqRate     string
}

func (*extractCmd) Name() string { return "extract" }
func (*extractCmd) Synopsis() string {
	return "extracts a sale from a trade confirmation PDF and settles it per lot"
}
func (*extractCmd) Usage() string {
	return `gan extract [-model <name>] [-o <file>] [-sale-rate <rate> -acq-rate <rate>] <pdf>

  Reads a Morgan Stanley trade confirmation, extracts the sale and its
  acquisition lots, fetches the historical PTAX rates, and writes one CSV
  row per lot with the realized profit in both currencies.

  When the central bank has no quote (and the previous-day walk is
  exhausted), pass both -sale-rate and -acq-rate to settle with manual
  rates instead.
`
}

func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", extract.DefaultModel, "Model used for document extraction.")
	f.StringVar(&c.outputFile, "o", "", "Output CSV file. Defaults to <ticker>_transaction_<date>.csv")
	f.DurationVar(&c.timeout, "timeout", 3*time.Minute, "Per-attempt deadline for the extraction call.")
	f.IntVar(&c.maxAttempts, "max-attempts", 0, "Attempts for throttled extraction calls. 0 retries indefinitely.")
	f.IntVar(&c.maxBackoff, "max-backoff", ganhos.DefaultMaxBackoffDays, "How many previous days to try when a date has no quote.")
	f.StringVar(&c.saleRate, "sale-rate", "", "Manual USD/BRL bid rate for the sale date. Skips the PTAX lookup.")
	f.StringVar(&c.acqRate, "acq-rate", "", "Manual USD/BRL ask rate for the acquisition dates. Skips the PTAX lookup.")
}

func (c *extractCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one PDF file")
		return subcommands.ExitUsageError
	}
	if (c.saleRate == "") != (c.acqRate == "") {
		fmt.Fprintln(os.Stderr, "Error: -sale-rate and -acq-rate must be given together")
		return subcommands.ExitUsageError
	}

	pdf, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating model client: %v\n", err)
		return subcommands.ExitFailure
	}
	extractor := extract.New(client, extract.Config{
		Model:       c.model,
		MaxAttempts: c.maxAttempts,
		Timeout:     c.timeout,
	})

	log.Info().Str("file", f.Arg(0)).Msg("extracting transaction from PDF")
	rec, err := extractor.Transaction(ctx, pdf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting transaction: %v\n", err)
		return subcommands.ExitFailure
	}

	settlement, err := c.settle(ctx, rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error settling %s: %v\n", rec.Ticker, err)
		return subcommands.ExitFailure
	}

	name := c.outputFile
	if name == "" {
		name = ganhos.ReportFileName(settlement)
	}
	out, err := os.Create(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := ganhos.WriteSettlement(out, settlement); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", name, err)
		return subcommands.ExitFailure
	}

	printMarkdown(settlement.SummaryMarkdown())
	log.Info().Str("file", name).Msg("settlement written")
	return subcommands.ExitSuccess
}

// settle resolves rates from PTAX, or uses the manual override rates.
func (c *extractCmd) settle(ctx context.Context, rec ganhos.TransactionRecord) (*ganhos.Settlement, error) {
	if c.saleRate == "" {
		resolver := ganhos.NewResolver(ganhos.NewBCB())
		resolver.MaxBackoffDays = c.maxBackoff
		resolver.Log = log
		return resolver.Settle(ctx, rec)
	}

	sale, err := ganhos.ParseAmount(c.saleRate)
	if err != nil {
		return nil, fmt.Errorf("-sale-rate: %w", err)
	}
	acq, err := ganhos.ParseAmount(c.acqRate)
	if err != nil {
		return nil, fmt.Errorf("-acq-rate: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	lots, adjusted, err := ganhos.ReconcileLots(rec.Quantity, rec.Lots)
	if err != nil {
		return nil, err
	}
	if adjusted {
		log.Warn().Str("ticker", rec.Ticker).Msg("lot quantities did not match the sale quantity and were rescaled")
	}
	rec.Lots = lots
	// One manual rate covers every lot, but each report row still carries
	// the lot's own acquisition date.
	saleRate := ganhos.ResolvedRate{Rate: sale, On: rec.Date}
	acqRates := make([]ganhos.ResolvedRate, len(rec.Lots))
	for i, lot := range rec.Lots {
		acqRates[i] = ganhos.ResolvedRate{Rate: acq, On: lot.Date}
	}
	return ganhos.SettleWithRates(rec, saleRate, ganhos.PerLotRates(acqRates), adjusted)
}
