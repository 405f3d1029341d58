package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brunofarias/ganhos"
	"github.com/google/subcommands"
)

// spotCmd has no flags.
type spotCmd struct{}

func (*spotCmd) Name() string     { return "spot" }
func (*spotCmd) Synopsis() string { return "prints the current USD/BRL commercial quote" }
func (*spotCmd) Usage() string {
	return `gan spot

  Prints the latest USD/BRL commercial quote. This is an indicative
  intraday price, not the official PTAX used for settlements.
`
}

func (*spotCmd) SetFlags(*flag.FlagSet) {}

func (*spotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := ganhos.SpotQuote(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching spot quote: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(fmt.Sprintf("# USD/BRL agora\n\n- Compra: **%s**\n- Venda: **%s**\n",
		q.Bid.StringFixed(4), q.Ask.StringFixed(4)))
	return subcommands.ExitSuccess
}
