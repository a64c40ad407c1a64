package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/banken/banken"
	"github.com/google/subcommands"
)

type transferCmd struct {
	from   string
	to     string
	amount string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "transfer an amount between two accounts" }
func (*transferCmd) Usage() string {
	return `bkn transfer -from <name> -to <name> -amount <amount>

  Moves the amount from one account to the other, recording a TransferOut on
  the source and a TransferIn on the destination.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Name of the source account.")
	f.StringVar(&c.to, "to", "", "Name of the destination account.")
	f.StringVar(&c.amount, "amount", "", "Amount to transfer.")
}

func (c *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	ledger := openLedger()
	from, err := resolveAccount(ctx, ledger, c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	to, err := resolveAccount(ctx, ledger, c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := ledger.Transfer(ctx, from.ID(), to.ID(), amount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Transferred %s from %q to %q\n",
		banken.FormatAmount(amount, from.Currency()), from.Name(), to.Name())
	return subcommands.ExitSuccess
}
