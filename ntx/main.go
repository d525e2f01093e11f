package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/mkoskinen/nexotax/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: this exits early when invoked by the shell's
	// completion machinery.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"report": {
				Flags: map[string]complete.Predictor{"years": predict.Something},
				Args:  predict.Files("*.csv"),
			},
			"audit": {
				Flags: map[string]complete.Predictor{
					"years": predict.Something,
					"o":     predict.Dirs("*"),
					"xlsx":  predict.Files("*.xlsx"),
				},
				Args: predict.Files("*.csv"),
			},
			"lots": {
				Args: predict.Files("*.csv"),
			},
			"docs": {
				Args: predict.Something,
			},
		},
	}
	completion.Complete("ntx")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
