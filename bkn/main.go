package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/banken/banken/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// A .env in the working directory can set BANKEN_HOME; missing is fine.
	_ = godotenv.Load()

	completion := &complete.Command{
		Flags: map[string]complete.Predictor{
			"store": predict.Dirs("*"),
		},
		Sub: map[string]*complete.Command{
			"create":   {},
			"accounts": {},
			"rename":   {},
			"delete":   {},
			"deposit":  {},
			"withdraw": {},
			"transfer": {},
			"tx":       {},
			"history":  {},
			"clear":    {},
			"export":   {},
			"import":   {Args: predict.Files("*.json")},
		},
	}
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
