package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ThomasStivers/portfolio"
)

// listCmd holds the flags for the 'list' subcommand.
type listCmd struct {
	verbose int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list tracked symbols and their positions" }
func (*listCmd) Usage() string {
	return `pf list [-v 0|1|2]

  Lists the tracked symbols. Verbosity 0 prints tickers only, 1 adds the
  latest position, price and value per symbol, 2 prints the recent value
  table.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.verbose, "v", 1, "Verbosity of the listing")
}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := openPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	switch {
	case c.verbose <= 0:
		for _, symbol := range p.Holdings().Symbols() {
			fmt.Println(symbol)
		}
	case c.verbose == 1:
		c.positions(p)
	default:
		c.table(p)
	}
	return closePortfolio(p)
}

func (c *listCmd) positions(p *portfolio.Portfolio) {
	day := p.Prices().LastDate()
	if day.IsZero() {
		fmt.Println("no price data yet")
		return
	}
	fmt.Printf("Positions as of %s:\n", day)
	for _, symbol := range p.Holdings().Symbols() {
		shares, _ := p.Holdings().Position(symbol, day)
		price, err := p.Prices().Lookup(symbol, day)
		if err != nil {
			fmt.Printf("  %-8s %12s shares (no price: %v)\n", symbol, portfolio.Q(shares), err)
			continue
		}
		value := portfolio.M(price).Mul(portfolio.Q(shares))
		fmt.Printf("  %-8s %12s shares at %10s = %12s\n", symbol, portfolio.Q(shares), portfolio.M(price), value)
	}
	if total, err := p.Value().Total(day); err == nil {
		fmt.Printf("  %-8s %38s %12s\n", "Total", "", portfolio.M(total))
	}
}

func (c *listCmd) table(p *portfolio.Portfolio) {
	day := p.Prices().LastDate()
	if day.IsZero() {
		fmt.Println("no price data yet")
		return
	}
	w, err := p.Value().WindowedTable(day, 9, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	var md strings.Builder
	md.WriteString("|  |")
	for _, d := range w.Dates {
		fmt.Fprintf(&md, " %s |", d.Format("Jan-02"))
	}
	md.WriteString("\n|---|")
	md.WriteString(strings.Repeat("---:|", len(w.Dates)))
	md.WriteString("\n")
	for i, symbol := range w.Symbols {
		fmt.Fprintf(&md, "| %s |", symbol)
		for _, v := range w.Cells[i] {
			fmt.Fprintf(&md, " %s |", portfolio.M(v))
		}
		md.WriteString("\n")
	}
	md.WriteString("| Total |")
	for _, v := range w.Totals {
		fmt.Fprintf(&md, " %s |", portfolio.M(v))
	}
	md.WriteString("\n")
	printMarkdown(md.String())
}
