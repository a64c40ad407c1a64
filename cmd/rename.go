package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type renameCmd struct {
	name string
	to   string
}

func (*renameCmd) Name() string     { return "rename" }
func (*renameCmd) Synopsis() string { return "rename an account" }
func (*renameCmd) Usage() string {
	return `bkn rename -name <name> -to <new name>

  Changes the account's display name. The new name must not already be in use
  by another account. The account id and its history are unchanged.
`
}

func (c *renameCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Current name of the account.")
	f.StringVar(&c.to, "to", "", "New name for the account.")
}

func (c *renameCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.to == "" {
		fmt.Fprintln(os.Stderr, "Error: -name and -to are required.")
		return subcommands.ExitUsageError
	}
	ledger := openLedger()
	account, err := resolveAccount(ctx, ledger, c.name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := ledger.RenameAccount(ctx, account.ID(), c.to); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Renamed account %q to %q\n", c.name, c.to)
	return subcommands.ExitSuccess
}
