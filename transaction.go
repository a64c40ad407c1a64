package banken

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of ledger event a Transaction records.
type TransactionType string

// Transaction types. The symbolic names are also the wire representation in
// snapshots and in the persisted collections.
const (
	Deposit     TransactionType = "Deposit"
	Withdraw    TransactionType = "Withdraw"
	TransferIn  TransactionType = "TransferIn"
	TransferOut TransactionType = "TransferOut"
)

// ParseTransactionType parses a symbolic name into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case Deposit, Withdraw, TransferIn, TransferOut:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
}

// Transaction is an immutable record of one balance-affecting event.
//
// Amount always stores the magnitude, never a signed delta; the direction is
// implied by Type. BalanceAfter is the owning account's balance right after
// the event, a snapshot that is never recomputed. FromAccountID is empty for
// deposits, ToAccountID is empty for withdrawals.
type Transaction struct {
	ID            string
	Timestamp     time.Time
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	FromAccountID string
	ToAccountID   string
	Type          TransactionType
}

// SignedAmount returns the amount as the delta it applies to the account
// identified by accountID: positive for deposits and transfers in, negative
// for withdrawals and transfers out, zero when the record does not touch the
// account at all.
func (t Transaction) SignedAmount(accountID string) decimal.Decimal {
	switch t.Type {
	case Deposit, TransferIn:
		if t.ToAccountID == accountID {
			return t.Amount
		}
	case Withdraw, TransferOut:
		if t.FromAccountID == accountID {
			return t.Amount.Neg()
		}
	}
	return decimal.Zero
}

// References reports whether the record names the account on either side of
// the movement. A transfer's two records both reference both accounts.
func (t Transaction) References(accountID string) bool {
	return t.FromAccountID == accountID || t.ToAccountID == accountID
}

// BelongsTo reports whether the record belongs to the history of the account
// identified by accountID. Each record belongs to exactly one history, the
// account whose balance snapshot it carries: the destination for deposits and
// transfers in, the source for withdrawals and transfers out.
func (t Transaction) BelongsTo(accountID string) bool {
	switch t.Type {
	case Deposit, TransferIn:
		return t.ToAccountID == accountID
	case Withdraw, TransferOut:
		return t.FromAccountID == accountID
	}
	return false
}

// Equal reports whether two records describe the same event.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Timestamp.Equal(o.Timestamp) &&
		t.Amount.Equal(o.Amount) &&
		t.BalanceAfter.Equal(o.BalanceAfter) &&
		t.FromAccountID == o.FromAccountID &&
		t.ToAccountID == o.ToAccountID &&
		t.Type == o.Type
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("timestamp", t.Timestamp)
	w.Append("amount", t.Amount)
	w.Append("balanceAfter", t.BalanceAfter)
	w.Optional("fromAccountId", t.FromAccountID)
	w.Optional("toAccountId", t.ToAccountID)
	w.Append("transactionType", t.Type)
	return w.MarshalJSON()
}
