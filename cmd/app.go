// Package cmd implements the CLI application to manage a portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/iex"
	"github.com/ThomasStivers/portfolio/renderer"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reporting")
	c.Register(&listCmd{}, "reporting")
	c.Register(&exportCmd{}, "reporting")

	c.Register(&updateCmd{}, "holdings")
	c.Register(&addSymbolCmd{}, "holdings")

	c.Register(&interactiveCmd{}, "session")
	c.Register(&assistCmd{}, "session")
	c.Register(&configCmd{}, "session")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioPath = flag.String("portfolio-path", defaultPath(), "Path to the folder holding prices, holdings and configuration")
var noFetch = flag.Bool("no-fetch", false, "Skip the market data refresh and work from cached prices only")

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".portfolio"
	}
	return filepath.Join(home, ".portfolio")
}

// openPortfolio loads the portfolio from the app path, refreshing prices
// from IEX unless -no-fetch is set.
func openPortfolio() (*portfolio.Portfolio, error) {
	var provider portfolio.Provider
	if !*noFetch {
		provider = &iex.Provider{}
	}
	return portfolio.Load(*portfolioPath, provider)
}

// closePortfolio persists the portfolio, skipping the write when nothing
// changed.
func closePortfolio(p *portfolio.Portfolio) subcommands.ExitStatus {
	if err := p.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when styling fails (e.g. no TTY).
func printMarkdown(md string) {
	out, err := renderer.Terminal(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
