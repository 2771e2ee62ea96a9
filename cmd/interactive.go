package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/date"
	"github.com/ThomasStivers/portfolio/renderer"
)

// menuAction maps one menu choice to its handler. The menu is a fixed
// table; choices never resolve to handlers dynamically.
type menuAction struct {
	label string
	run   func(p *portfolio.Portfolio, in *bufio.Reader) error
}

type interactiveCmd struct{}

func (*interactiveCmd) Name() string     { return "interactive" }
func (*interactiveCmd) Synopsis() string { return "manage the portfolio through a numbered menu" }
func (*interactiveCmd) Usage() string {
	return `pf interactive

  Starts a menu-driven session. Changes are saved when the session ends.
`
}

func (*interactiveCmd) SetFlags(_ *flag.FlagSet) {}

var menu = []menuAction{
	{"Show the report", runReport},
	{"Add shares", runMutation("add")},
	{"Remove shares", runMutation("remove")},
	{"Set shares", runMutation("set")},
	{"Track a new symbol", runAddSymbol},
	{"List positions", runList},
	{"Export", runExport},
}

func (c *interactiveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := openPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	in := bufio.NewReader(os.Stdin)

	for {
		fmt.Println()
		for i, action := range menu {
			fmt.Printf("%d. %s\n", i+1, action.label)
		}
		fmt.Printf("%d. Save and quit\n", len(menu)+1)
		choice, err := promptInt(in, "> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				break // EOF quits like the last menu entry.
			}
			fmt.Println("Please pick a number from the menu.")
			continue
		}
		if choice == len(menu)+1 {
			break
		}
		if choice < 1 || choice > len(menu) {
			fmt.Println("Please pick a number from the menu.")
			continue
		}
		if err := menu[choice-1].run(p, in); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
	return closePortfolio(p)
}

func runReport(p *portfolio.Portfolio, _ *bufio.Reader) error {
	r, err := p.NewReport(date.Today())
	if err != nil {
		return err
	}
	printMarkdown(renderer.RenderReport(r))
	return nil
}

func runMutation(mode string) func(*portfolio.Portfolio, *bufio.Reader) error {
	return func(p *portfolio.Portfolio, in *bufio.Reader) error {
		symbol, err := prompt(in, "Symbol: ")
		if err != nil {
			return err
		}
		quantity, err := promptFloat(in, "Quantity (prefix $ for a cash amount): ")
		if err != nil {
			return err
		}
		day, err := promptDate(in, "Date [today]: ")
		if err != nil {
			return err
		}
		return apply(p, mode, symbol, quantity.amount, day, quantity.cash)
	}
}

func runAddSymbol(p *portfolio.Portfolio, in *bufio.Reader) error {
	symbol, err := prompt(in, "Symbol: ")
	if err != nil {
		return err
	}
	quantity, err := promptFloat(in, "Shares: ")
	if err != nil {
		return err
	}
	day, err := promptDate(in, "Date [today]: ")
	if err != nil {
		return err
	}
	return p.AddSymbol(symbol, quantity.amount, day, nil)
}

func runList(p *portfolio.Portfolio, _ *bufio.Reader) error {
	(&listCmd{verbose: 1}).positions(p)
	return nil
}

func runExport(p *portfolio.Portfolio, in *bufio.Reader) error {
	dest, err := prompt(in, "Destination (.csv or .xlsx): ")
	if err != nil {
		return err
	}
	return p.Export(dest)
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptInt(in *bufio.Reader, label string) (int, error) {
	s, err := prompt(in, label)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

type amount struct {
	amount float64
	cash   bool
}

func promptFloat(in *bufio.Reader, label string) (amount, error) {
	s, err := prompt(in, label)
	if err != nil {
		return amount{}, err
	}
	cash := strings.HasPrefix(s, "$")
	v, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return amount{}, err
	}
	return amount{amount: v, cash: cash}, nil
}

func promptDate(in *bufio.Reader, label string) (date.Date, error) {
	s, err := prompt(in, label)
	if err != nil {
		return date.Date{}, err
	}
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}
