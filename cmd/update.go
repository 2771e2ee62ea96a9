package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/date"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	add    bool
	remove bool
	set    bool
	cash   bool
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "add, remove or set the held shares of a symbol" }
func (*updateCmd) Usage() string {
	return `pf update (-add | -remove | -set) [-c] <SYMBOL> <QUANTITY> [<DATE>]

  Changes the held shares of a symbol from DATE (default today) forward.
  QUANTITY is a share count, or a dollar amount with -c, converted at the
  closing price of DATE.

Usage Examples:
# Buy 10 shares of AAPL today.
$ pf update -add AAPL 10

# Sell $500 worth of MSFT on a past date.
$ pf update -remove -c MSFT 500 2020-03-02
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.add, "add", false, "Add shares to the position")
	f.BoolVar(&c.remove, "remove", false, "Remove shares from the position")
	f.BoolVar(&c.set, "set", false, "Set the position to the given share count")
	f.BoolVar(&c.cash, "c", false, "Interpret the quantity as a dollar amount")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	modes := 0
	for _, m := range []bool{c.add, c.remove, c.set} {
		if m {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -add, -remove or -set is required")
		return subcommands.ExitUsageError
	}
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

	if err := apply(p, c.mode(), symbol, quantity, day, c.cash); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	shares, _ := p.Holdings().Position(symbol, day)
	fmt.Printf("Holdings of %s on %s: %s shares\n", symbol, day, portfolio.Q(shares))
	return closePortfolio(p)
}

func (c *updateCmd) mode() string {
	switch {
	case c.add:
		return "add"
	case c.remove:
		return "remove"
	default:
		return "set"
	}
}

func apply(p *portfolio.Portfolio, mode, symbol string, quantity float64, day date.Date, cash bool) error {
	switch mode {
	case "add":
		if cash {
			return p.AddCash(symbol, quantity, day)
		}
		return p.AddShares(symbol, quantity, day)
	case "remove":
		if cash {
			return p.RemoveCash(symbol, quantity, day)
		}
		return p.RemoveShares(symbol, quantity, day)
	case "set":
		if cash {
			shares, err := p.ToShares(symbol, quantity, day)
			if err != nil {
				return err
			}
			return p.SetShares(symbol, shares, day)
		}
		return p.SetShares(symbol, quantity, day)
	}
	return fmt.Errorf("unknown mode %q", mode)
}
