package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/ThomasStivers/portfolio/cmd"
)

func main() {
	// Shell completion runs (and exits) before any flag parsing.
	completion().Complete("pf")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	symbol := predict.Nothing
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"portfolio-path": predict.Dirs("*"),
			"no-fetch":       predict.Nothing,
			"iex-api-key":    predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"d": predict.Nothing,
				"e": predict.Nothing,
				"t": predict.Nothing,
				"o": predict.Files("*"),
				"x": predict.Files("*"),
			}},
			"update": {Flags: map[string]complete.Predictor{
				"add":    predict.Nothing,
				"remove": predict.Nothing,
				"set":    predict.Nothing,
				"c":      predict.Nothing,
			}, Args: symbol},
			"add-symbol": {Args: symbol},
			"list": {Flags: map[string]complete.Predictor{
				"v": predict.Set{"0", "1", "2"},
			}},
			"export":      {Args: predict.Files("*")},
			"interactive": {},
			"config": {Flags: map[string]complete.Predictor{
				"smtp-server":   predict.Nothing,
				"smtp-port":     predict.Nothing,
				"smtp-user":     predict.Nothing,
				"smtp-password": predict.Nothing,
				"sender":        predict.Nothing,
				"recipients":    predict.Nothing,
			}},
			"assist": {},
		},
	}
}
