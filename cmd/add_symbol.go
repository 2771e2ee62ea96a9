package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/ThomasStivers/portfolio/date"
	"github.com/ThomasStivers/portfolio/iex"
)

type addSymbolCmd struct{}

func (*addSymbolCmd) Name() string     { return "add-symbol" }
func (*addSymbolCmd) Synopsis() string { return "start tracking a new symbol" }
func (*addSymbolCmd) Usage() string {
	return `pf add-symbol <SYMBOL> <QUANTITY> [<DATE>]

  Starts a position of QUANTITY shares of a new SYMBOL from DATE (default
  today) forward, and backfills its price history. Fails when the symbol is
  already tracked; use 'update' for existing positions.
`
}

func (*addSymbolCmd) SetFlags(_ *flag.FlagSet) {}

func (c *addSymbolCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 || f.NArg() > 3 {
		fmt.Fprintln(os.Stderr, "Error: expected <SYMBOL> <QUANTITY> [<DATE>]")
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)
	quantity, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	day := date.Today()
	if f.NArg() == 3 {
		if day, err = date.Parse(f.Arg(2)); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	p, err := openPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := p.AddSymbol(symbol, quantity, day, &iex.Provider{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Now tracking %s with %v shares from %s\n", symbol, quantity, day)
	return closePortfolio(p)
}
