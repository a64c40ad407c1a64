package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type clearCmd struct{}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "clear all transaction history" }
func (*clearCmd) Usage() string {
	return `bkn clear

  Empties the global transaction list and every account's history. Balances
  are unchanged. Export a snapshot first if you may want the history back.
`
}

func (*clearCmd) SetFlags(*flag.FlagSet) {}

func (*clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger := openLedger()
	if err := ledger.ClearAllTransactions(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Cleared all transactions.")
	return subcommands.ExitSuccess
}
