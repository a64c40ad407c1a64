package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list all accounts" }
func (*accountsCmd) Usage() string {
	return `bkn accounts

  Lists every account with its type, currency, balance and id.
`
}

func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger := openLedger()
	accounts, err := ledger.Accounts(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts yet. Create one with `bkn create`.")
		return subcommands.ExitSuccess
	}
	printMarkdown(accountsMarkdown(accounts))
	return subcommands.ExitSuccess
}
