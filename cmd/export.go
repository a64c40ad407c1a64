package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
	query  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the full ledger state as a JSON snapshot" }
func (*exportCmd) Usage() string {
	return `bkn export [-o <file>] [-q <jsonpath>]

  Writes the full {accounts, transactions} snapshot as indented JSON to
  stdout, or to a file with -o. With -q, instead of the whole document,
  prints the result of a jsonpath query against it, for example:

$ bkn export -q '$.accounts[*].name'
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Write the snapshot to this file instead of stdout.")
	f.StringVar(&c.query, "q", "", "Print the result of this jsonpath query instead of the snapshot.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger := openLedger()
	data, err := ledger.Export(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.query != "" {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
		result, err := jsonpath.Get(c.query, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error evaluating query %q: %v\n", c.query, err)
			return subcommands.ExitFailure
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(out))
		return subcommands.ExitSuccess
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	pretty.WriteByte('\n')

	if c.output == "" {
		os.Stdout.Write(pretty.Bytes())
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.output, pretty.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing snapshot to %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Exported snapshot to %s\n", c.output)
	return subcommands.ExitSuccess
}
