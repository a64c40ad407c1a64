package banken

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount reports a non-positive amount passed to a deposit,
	// withdrawal or transfer, or a negative initial balance.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds reports a withdrawal or transfer exceeding the
	// source account's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateName reports an account creation reusing an existing name
	// (names are compared case-insensitively).
	ErrDuplicateName = errors.New("account name already in use")
)

// NotFoundError reports an id-based account lookup miss.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account with ID %s not found", e.ID)
}

// ImportErrorKind classifies why a snapshot import was rejected.
type ImportErrorKind string

// Import rejection kinds, in validation order.
const (
	MalformedInput         ImportErrorKind = "malformed input"
	MissingSection         ImportErrorKind = "missing section"
	DuplicateAccountID     ImportErrorKind = "duplicate account id"
	InvalidAccount         ImportErrorKind = "invalid account"
	DuplicateTransactionID ImportErrorKind = "duplicate transaction id"
	InvalidTransaction     ImportErrorKind = "invalid transaction"
	DanglingReference      ImportErrorKind = "dangling reference"
	UnknownTransactionType ImportErrorKind = "unknown transaction type"
)

// ImportError reports a snapshot import rejected during validation. No ledger
// state has been mutated when an ImportError is returned.
type ImportError struct {
	Kind   ImportErrorKind
	Detail string
	Err    error
}

func (e *ImportError) Error() string {
	msg := string(e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() error { return e.Err }

func importErr(kind ImportErrorKind, format string, args ...any) *ImportError {
	return &ImportError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// PersistenceError reports a failure of the underlying key-value store.
// Storage failures are never swallowed: they surface through this type so
// callers can tell a failed write from a successful one.
type PersistenceError struct {
	Op  string // "get" or "set"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
