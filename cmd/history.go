package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type historyCmd struct {
	account string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show one account's transaction history" }
func (*historyCmd) Usage() string {
	return `bkn history -account <name>

  Shows the account's private transaction history in chronological order.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Name of the account.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger := openLedger()
	account, err := resolveAccount(ctx, ledger, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	history := account.History()
	if len(history) == 0 {
		fmt.Printf("No transactions on %q.\n", account.Name())
		return subcommands.ExitSuccess
	}
	currency := account.Currency()
	printMarkdown(transactionsMarkdown(history, func(string) string { return currency }))
	return subcommands.ExitSuccess
}
