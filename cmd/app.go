// Package cmd implements the bkn CLI to manage a personal ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banken/banken"
	"github.com/banken/banken/kvstore"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&createCmd{}, "accounts")
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&renameCmd{}, "accounts")
	c.Register(&deleteCmd{}, "accounts")

	c.Register(&depositCmd{}, "transactions")
	c.Register(&withdrawCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&historyCmd{}, "transactions")
	c.Register(&clearCmd{}, "transactions")

	c.Register(&exportCmd{}, "snapshots")
	c.Register(&importCmd{}, "snapshots")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storePath = flag.String("store", "", "Path to the ledger store directory (default $BANKEN_HOME or ~/.banken)")

// storeDir resolves the store directory: the -store flag when given,
// otherwise $BANKEN_HOME, otherwise ~/.banken. The environment is read here,
// at command execution, not at package init, so a .env loaded by the main
// still takes effect.
func storeDir() string {
	if *storePath != "" {
		return *storePath
	}
	if dir := os.Getenv("BANKEN_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".banken"
	}
	return filepath.Join(home, ".banken")
}

// openLedger returns the ledger backed by the app store directory.
func openLedger() *banken.Ledger {
	return banken.NewLedger(kvstore.NewFile(storeDir()))
}

// resolveAccount finds an account by name (case-insensitive). Name lookup is
// CLI sugar: the ledger API itself is id-based.
func resolveAccount(ctx context.Context, ledger *banken.Ledger, name string) (*banken.Account, error) {
	accounts, err := ledger.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Name(), name) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("no account named %q", name)
}

// parseAmount parses a decimal amount from a flag value.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("missing -amount")
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}
