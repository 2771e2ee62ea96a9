package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct{}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the portfolio data to CSV or XLSX" }
func (*exportCmd) Usage() string {
	return `pf export <file.csv|file.xlsx>

  Writes the holdings history to a CSV file (consecutive identical rows
  deduplicated), or a spreadsheet with Prices, Holdings and Value sheets.
`
}

func (*exportCmd) SetFlags(_ *flag.FlagSet) {}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected a destination file")
		return subcommands.ExitUsageError
	}
	p, err := openPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := p.Export(f.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Exported portfolio to %s\n", f.Arg(0))
	return closePortfolio(p)
}
