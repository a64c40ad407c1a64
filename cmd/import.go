package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a snapshot, replacing the whole ledger state" }
func (*importCmd) Usage() string {
	return `bkn import <file>

  Validates the snapshot file completely, then replaces the ledger state with
  it. On any validation error nothing is changed.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one snapshot file.")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading snapshot %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	ledger := openLedger()
	if err := ledger.Import(ctx, data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported snapshot from %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}
