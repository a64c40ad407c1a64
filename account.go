package banken

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType is the enumerated tag of an account.
type AccountType string

// Account types.
const (
	Savings  AccountType = "Savings"
	Checking AccountType = "Checking"
)

// ParseAccountType parses a symbolic name into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case Savings, Checking:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("unknown account type: %q", s)
	}
}

// Account is a named, typed, currency-tagged balance holder with a private
// ordered history of the transactions affecting it.
//
// All validation happens at this boundary: amount sign and sufficient funds
// are checked here, so an Account can never reach an invalid state regardless
// of the caller. The Ledger only translates lookup failures into its own
// error kinds, it never re-validates these rules.
type Account struct {
	id          string
	name        string
	accountType AccountType
	currency    string
	balance     decimal.Decimal
	lastUpdated time.Time
	history     []Transaction
}

// NewAccount creates an account with a fresh id. The initial balance must not
// be negative.
func NewAccount(name string, accountType AccountType, currency string, initialBalance decimal.Decimal) (*Account, error) {
	if initialBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return &Account{
		id:          uuid.NewString(),
		name:        name,
		accountType: accountType,
		currency:    currency,
		balance:     initialBalance,
		lastUpdated: time.Now().UTC(),
	}, nil
}

// restoreAccount rebuilds an account from persisted state, keeping the
// recorded id and timestamps. History is attached separately by the Ledger.
func restoreAccount(id, name string, accountType AccountType, currency string, balance decimal.Decimal, lastUpdated time.Time) *Account {
	return &Account{
		id:          id,
		name:        name,
		accountType: accountType,
		currency:    currency,
		balance:     balance,
		lastUpdated: lastUpdated,
	}
}

func (a *Account) ID() string               { return a.id }
func (a *Account) Name() string             { return a.name }
func (a *Account) AccountType() AccountType { return a.accountType }
func (a *Account) Currency() string         { return a.currency }
func (a *Account) Balance() decimal.Decimal { return a.balance }
func (a *Account) LastUpdated() time.Time   { return a.lastUpdated }

// Rename changes the display label of the account.
func (a *Account) Rename(name string) {
	a.name = name
	a.touch(time.Now().UTC())
}

// Deposit credits amount to the account and appends a Deposit record.
// It fails with ErrInvalidAmount unless amount is strictly positive.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	now := time.Now().UTC()
	a.balance = a.balance.Add(amount)
	a.touch(now)
	a.history = append(a.history, Transaction{
		ID:           uuid.NewString(),
		Timestamp:    now,
		Amount:       amount,
		BalanceAfter: a.balance,
		ToAccountID:  a.id,
		Type:         Deposit,
	})
	return nil
}

// Withdraw debits amount from the account and appends a Withdraw record.
// It fails with ErrInvalidAmount unless amount is strictly positive, and with
// ErrInsufficientFunds when amount exceeds the balance. The balance can never
// go negative through this method.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	now := time.Now().UTC()
	a.balance = a.balance.Sub(amount)
	a.touch(now)
	a.history = append(a.history, Transaction{
		ID:            uuid.NewString(),
		Timestamp:     now,
		Amount:        amount,
		BalanceAfter:  a.balance,
		FromAccountID: a.id,
		Type:          Withdraw,
	})
	return nil
}

// TransferTo moves amount from the account to dest as one logical unit: a
// TransferOut record on the source and a TransferIn record on dest, sharing
// the same amount and timestamp but carrying distinct ids and balance
// snapshots. Validation only looks at the source balance; it happens entirely
// before the first mutation, so a failed transfer leaves both accounts
// untouched.
func (a *Account) TransferTo(dest *Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	now := time.Now().UTC()

	a.balance = a.balance.Sub(amount)
	a.touch(now)
	a.history = append(a.history, Transaction{
		ID:            uuid.NewString(),
		Timestamp:     now,
		Amount:        amount,
		BalanceAfter:  a.balance,
		FromAccountID: a.id,
		ToAccountID:   dest.id,
		Type:          TransferOut,
	})

	dest.balance = dest.balance.Add(amount)
	dest.touch(now)
	dest.history = append(dest.history, Transaction{
		ID:            uuid.NewString(),
		Timestamp:     now,
		Amount:        amount,
		BalanceAfter:  dest.balance,
		FromAccountID: a.id,
		ToAccountID:   dest.id,
		Type:          TransferIn,
	})
	return nil
}

// History returns the account's transactions in insertion order. The returned
// slice is a copy: callers cannot mutate the account's history through it.
func (a *Account) History() []Transaction {
	out := make([]Transaction, len(a.history))
	copy(out, a.history)
	return out
}

// ReplaceHistory replaces the private history wholesale. It is the typed
// mutation API the Ledger uses when re-deriving histories from the global
// transaction index, in place of reaching into private state.
func (a *Account) ReplaceHistory(history []Transaction) {
	a.history = make([]Transaction, len(history))
	copy(a.history, history)
}

// ClearHistory empties the private history. The balance is unaffected.
func (a *Account) ClearHistory() {
	a.history = nil
}

// lastTransaction returns the most recently appended record, if any.
func (a *Account) lastTransaction() (Transaction, bool) {
	if len(a.history) == 0 {
		return Transaction{}, false
	}
	return a.history[len(a.history)-1], true
}

// touch advances lastUpdated, keeping it monotonically non-decreasing even if
// the clock steps backwards.
func (a *Account) touch(now time.Time) {
	if now.After(a.lastUpdated) {
		a.lastUpdated = now
	}
}

// clone returns a copy the caller can hold without aliasing ledger state.
func (a *Account) clone() *Account {
	cp := *a
	cp.history = a.History()
	return &cp
}

// MarshalJSON implements the json.Marshaler interface for Account. The
// private history is not part of the account's wire form; it travels in the
// transactions collection.
func (a *Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.id)
	w.Append("name", a.name)
	w.Append("accountType", a.accountType)
	w.Append("currency", a.currency)
	w.Append("balance", a.balance)
	w.Append("lastUpdated", a.lastUpdated)
	return w.MarshalJSON()
}
