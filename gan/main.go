package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/brunofarias/ganhos/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion runs before flag parsing; it is a no-op outside a
	// completion request.
	completer().Complete("gan")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completer() *complete.Command {
	csvFiles := predict.Files("*.csv")
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"extract": {
				Flags: map[string]complete.Predictor{
					"model":        predict.Nothing,
					"o":            csvFiles,
					"timeout":      predict.Nothing,
					"max-attempts": predict.Nothing,
					"max-backoff":  predict.Nothing,
					"sale-rate":    predict.Nothing,
					"acq-rate":     predict.Nothing,
				},
				Args: predict.Files("*.pdf"),
			},
			"convert": {
				Flags: map[string]complete.Predictor{
					"i": csvFiles,
					"o": csvFiles,
					"y": predict.Nothing,
				},
			},
			"rates": {
				Flags: map[string]complete.Predictor{
					"d":    predict.Nothing,
					"from": predict.Nothing,
					"to":   predict.Nothing,
					"o":    csvFiles,
				},
			},
			"spot": {},
		},
	}
}
