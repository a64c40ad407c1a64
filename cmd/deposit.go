package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/banken/banken"
	"github.com/google/subcommands"
)

type depositCmd struct {
	account string
	amount  string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit an amount into an account" }
func (*depositCmd) Usage() string {
	return `bkn deposit -account <name> -amount <amount>

  Credits the amount to the account and records a Deposit transaction.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Name of the account.")
	f.StringVar(&c.amount, "amount", "", "Amount to deposit.")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	ledger := openLedger()
	account, err := resolveAccount(ctx, ledger, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := ledger.Deposit(ctx, account.ID(), amount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deposited %s into %q\n", banken.FormatAmount(amount, account.Currency()), account.Name())
	return subcommands.ExitSuccess
}
