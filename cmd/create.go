package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/banken/banken"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type createCmd struct {
	name        string
	accountType string
	currency    string
	balance     string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new account" }
func (*createCmd) Usage() string {
	return `bkn create -name <name> -type <Savings|Checking> -currency <code> [-balance <amount>]

  Creates a new account. The name must not already be in use (names are
  compared case-insensitively).
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name.")
	f.StringVar(&c.accountType, "type", "Checking", "Account type (Savings, Checking).")
	f.StringVar(&c.currency, "currency", "SEK", "Currency label for the account.")
	f.StringVar(&c.balance, "balance", "0", "Initial balance.")
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required.")
		return subcommands.ExitUsageError
	}
	accountType, err := banken.ParseAccountType(c.accountType)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	balance, err := decimal.NewFromString(c.balance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid balance %q: %v\n", c.balance, err)
		return subcommands.ExitUsageError
	}

	ledger := openLedger()
	account, err := ledger.CreateAccount(ctx, c.name, accountType, c.currency, balance)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Created account %q (%s) with %s\n",
		account.Name(), account.ID(), banken.FormatAmount(account.Balance(), account.Currency()))
	return subcommands.ExitSuccess
}
