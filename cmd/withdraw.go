package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/banken/banken"
	"github.com/google/subcommands"
)

type withdrawCmd struct {
	account string
	amount  string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw an amount from an account" }
func (*withdrawCmd) Usage() string {
	return `bkn withdraw -account <name> -amount <amount>

  Debits the amount from the account and records a Withdraw transaction.
  Fails when the amount exceeds the balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Name of the account.")
	f.StringVar(&c.amount, "amount", "", "Amount to withdraw.")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := ledger.Withdraw(ctx, account.ID(), amount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Withdrew %s from %q\n", banken.FormatAmount(amount, account.Currency()), account.Name())
	return subcommands.ExitSuccess
}
