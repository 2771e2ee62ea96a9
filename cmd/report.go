package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/date"
	"github.com/ThomasStivers/portfolio/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	date    string
	email   bool
	test    bool
	outFile string
	export  string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display or email the portfolio performance report" }
func (*reportCmd) Usage() string {
	return `pf report [-d <date>] [-e] [-t] [-o <out.txt|out.html>] [-x <file.csv|file.xlsx>]

  Builds the report for a single day: total value, daily change, year-to-date
  rankings, per-symbol details and a window of recent values. By default the
  report is printed to the terminal; -e emails it to the configured
  recipients, -o writes it to a file, -x additionally exports the data.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the report (defaults to today)")
	f.BoolVar(&c.email, "e", false, "Email the report to the configured recipients")
	f.BoolVar(&c.test, "t", false, "Compose the email but print it instead of sending")
	f.StringVar(&c.outFile, "o", "", "Write the report to a file (.txt or .html)")
	f.StringVar(&c.export, "x", "", "Also export the portfolio data (.csv or .xlsx)")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day := date.Today()
	if c.date != "" {
		var err error
		if day, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	p, err := openPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	r, err := p.NewReport(day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.RenderReport(r)

	if c.outFile != "" {
		if err := c.write(md); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.email || c.test {
		if status := c.send(p, r, md); status != subcommands.ExitSuccess {
			return status
		}
	}
	if c.outFile == "" && !c.email && !c.test {
		printMarkdown(md)
	}
	if c.export != "" {
		if err := p.Export(c.export); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return closePortfolio(p)
}

func (c *reportCmd) write(md string) error {
	content := md
	if strings.HasSuffix(c.outFile, ".html") {
		var err error
		if content, err = renderer.HTML(md); err != nil {
			return err
		}
	}
	return os.WriteFile(c.outFile, []byte(content), 0644)
}

func (c *reportCmd) send(p *portfolio.Portfolio, r *portfolio.ReportData, md string) subcommands.ExitStatus {
	cfg, err := portfolio.LoadConfig(*portfolioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	html, err := renderer.HTML(md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	mailer := &portfolio.Mailer{Config: cfg.Email, Test: c.test}
	if err := mailer.Send(r, md, html); err != nil {
		fmt.Fprintf(os.Stderr, "Error sending report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
