package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brunofarias/ganhos"
	"github.com/brunofarias/ganhos/date"
	"github.com/google/subcommands"
)

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	day        string
	from       string
	to         string
	outputFile string
}

func (*ratesCmd) Name() string { return "rates" }
func (*ratesCmd) Synopsis() string {
	return "downloads official USD/BRL quotes from the central bank"
}
func (*ratesCmd) Usage() string {
	return `gan rates [-d <date>] [-from <date> -to <date>] [-o <file>]

  Fetches PTAX quotes from Banco Central do Brasil and writes them as CSV
  (date, bid, ask, provider timestamp). Dates accept dd/mm/yyyy or
  yyyy-mm-dd. Days without a published quote are skipped.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "Single date to fetch.")
	f.StringVar(&c.from, "from", "", "Start of the period to fetch, inclusive.")
	f.StringVar(&c.to, "to", "", "End of the period to fetch, inclusive.")
	f.StringVar(&c.outputFile, "o", "", "Output CSV file. Defaults to stdout.")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, to, err := c.period()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	bcb := ganhos.NewBCB()
	quotes, err := bcb.History(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching quotes: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(quotes) == 0 {
		log.Warn().Stringer("from", from).Stringer("to", to).Msg("no quotes published in the period")
		return subcommands.ExitSuccess
	}

	var w io.Writer = os.Stdout
	if c.outputFile != "" {
		out, err := os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}
	if err := writeQuotes(w, quotes); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing quotes: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// period validates the flag combination and parses the requested range.
func (c *ratesCmd) period() (from, to date.Date, err error) {
	switch {
	case c.day != "" && (c.from != "" || c.to != ""):
		return from, to, fmt.Errorf("-d cannot be combined with -from/-to")
	case c.day != "":
		on, err := date.Parse(c.day)
		if err != nil {
			return from, to, err
		}
		return on, on, nil
	case c.from == "" || c.to == "":
		return from, to, fmt.Errorf("need either -d or both -from and -to")
	}
	if from, err = date.Parse(c.from); err != nil {
		return from, to, err
	}
	if to, err = date.Parse(c.to); err != nil {
		return from, to, err
	}
	return from, to, nil
}

func writeQuotes(w io.Writer, quotes []ganhos.DayQuote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Data", "Compra", "Venda", "DataHoraCotacao"}); err != nil {
		return err
	}
	for _, q := range quotes {
		row := []string{q.On.String(), q.Bid.StringFixed(4), q.Ask.StringFixed(4), q.Timestamp}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
