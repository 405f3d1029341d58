// Package cmd implements the CLI application to convert broker transaction
// records.
package cmd

import (
	"fmt"

	"github.com/brunofarias/ganhos/logger"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&extractCmd{}, "transactions")
	c.Register(&convertCmd{}, "transactions")

	c.Register(&ratesCmd{}, "rates")
	c.Register(&spotCmd{}, "rates")
}

// as a CLI application, it has a very short lived lifecycle, so a package
// level logger is fine.
var log = logger.New()

// printMarkdown renders markdown to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		// fall back to the raw markdown
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
