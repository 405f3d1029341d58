package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brunofarias/ganhos"
	"github.com/google/subcommands"
)

// convertCmd holds the flags for the 'convert' subcommand.
type convertCmd struct {
	inputFile  string
	outputFile string
	year       int
}

func (*convertCmd) Name() string { return "convert" }
func (*convertCmd) Synopsis() string {
	return "converts a ticker-grouped trade export into a flat import file"
}
func (*convertCmd) Usage() string {
	return `gan convert [-i <file>] [-o <file>] [-y <year>]

  Reads a trade spreadsheet exported as CSV, where trades are grouped in
  blocks headed by the ticker symbol, and writes a flat file suitable for
  bulk import: ticker, date, signed quantity, total with costs, gross.
  Rows that cannot be parsed are reported and skipped.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputFile, "i", "transacoes.csv", "Input CSV file with ticker-grouped trades.")
	f.StringVar(&c.outputFile, "o", "bastter_import.csv", "Output CSV file.")
	f.IntVar(&c.year, "y", 0, "Only export trades of this year. 0 exports everything.")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := os.Open(c.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.inputFile, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	trades, skipped, err := ganhos.ImportTrades(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.inputFile, err)
		return subcommands.ExitFailure
	}
	for _, bad := range skipped {
		log.Warn().Int("row", bad.Row).Err(bad.Err).Msg("skipping unparseable row")
	}

	out, err := os.Create(c.outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := ganhos.ExportBastter(out, trades, c.year); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.outputFile, err)
		return subcommands.ExitFailure
	}

	log.Info().Int("trades", len(trades)).Int("skipped", len(skipped)).
		Str("file", c.outputFile).Msg("import file written")
	return subcommands.ExitSuccess
}
