package cmd

import (
	"fmt"
	"strings"

	"github.com/banken/banken"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// printMarkdown renders markdown to the terminal. On any rendering problem it
// falls back to printing the raw markdown.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// accountsMarkdown renders the account list as a markdown table.
func accountsMarkdown(accounts []*banken.Account) string {
	var b strings.Builder
	b.WriteString("| Name | Type | Currency | Balance | ID |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			a.Name(), a.AccountType(), a.Currency(),
			banken.FormatAmount(a.Balance(), a.Currency()), a.ID())
	}
	return b.String()
}

// transactionsMarkdown renders transactions as a markdown table. currencyOf
// resolves the display currency of an account id; for ids it cannot resolve
// (for instance after the account was deleted) the raw decimal is shown.
func transactionsMarkdown(transactions []banken.Transaction, currencyOf func(accountID string) string) string {
	var b strings.Builder
	b.WriteString("| When | Type | Amount | From | To | Balance after |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, tx := range transactions {
		// The owning account is the one whose balance the record snapshots.
		owner := tx.ToAccountID
		if tx.Type == banken.Withdraw || tx.Type == banken.TransferOut {
			owner = tx.FromAccountID
		}
		cur := currencyOf(owner)
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			tx.Timestamp.Format("2006-01-02 15:04:05"),
			tx.Type,
			formatIn(tx.Amount, cur),
			orDash(tx.FromAccountID),
			orDash(tx.ToAccountID),
			formatIn(tx.BalanceAfter, cur),
		)
	}
	return b.String()
}

func formatIn(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return amount.String()
	}
	return banken.FormatAmount(amount, currency)
}

func orDash(id string) string {
	if id == "" {
		return "—"
	}
	return id
}
