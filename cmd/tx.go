package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/banken/banken"
	"github.com/google/subcommands"
)

type txCmd struct {
	head int
	tail int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list all transactions in the ledger" }
func (*txCmd) Usage() string {
	return `bkn tx [-head <n>] [-tail <n>]

  Lists every recorded transaction, most recent first, with options for
  limiting the output.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	ledger := openLedger()
	transactions, err := ledger.AllTransactions(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(transactions) == 0 {
		fmt.Println("No transactions recorded.")
		return subcommands.ExitSuccess
	}

	if c.head > 0 && len(transactions) > c.head {
		transactions = transactions[:c.head]
	}
	if c.tail > 0 && len(transactions) > c.tail {
		transactions = transactions[len(transactions)-c.tail:]
	}

	printMarkdown(transactionsMarkdown(transactions, currencyIndex(ctx, ledger)))
	return subcommands.ExitSuccess
}

// currencyIndex returns a lookup from account id to its display currency.
func currencyIndex(ctx context.Context, ledger *banken.Ledger) func(string) string {
	currencies := make(map[string]string)
	if accounts, err := ledger.Accounts(ctx); err == nil {
		for _, a := range accounts {
			currencies[a.ID()] = a.Currency()
		}
	}
	return func(accountID string) string { return currencies[accountID] }
}
