package banken

import (
	"context"
	"encoding/json"
	"strings"
)

// Export serializes the full ledger state to its transport form: one JSON
// object with an "accounts" array and a "transactions" array, camelCase
// keys, enums as symbolic names. The document is exactly what Import accepts.
func (l *Ledger) Export(ctx context.Context) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	accounts := l.accounts
	if accounts == nil {
		accounts = []*Account{}
	}
	transactions := l.transactions
	if transactions == nil {
		transactions = []Transaction{}
	}
	var w jsonObjectWriter
	w.Append("accounts", accounts)
	w.Append("transactions", transactions)
	return w.MarshalJSON()
}

// Import replaces the whole ledger state with the given snapshot document.
//
// The document is validated completely before any mutation: on any
// ImportError the ledger is exactly as it was. On success the account and
// transaction collections are replaced wholesale, each account's history is
// re-derived from the transaction collection (order preserved, every record
// referencing the account on either side), both collections are persisted,
// and the ledger counts as hydrated.
func (l *Ledger) Import(ctx context.Context, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var doc struct {
		Accounts     *[]accountRecord     `json:"accounts"`
		Transactions *[]transactionRecord `json:"transactions"`
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return importErr(MalformedInput, "empty input")
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ImportError{Kind: MalformedInput, Err: err}
	}
	if doc.Accounts == nil {
		return importErr(MissingSection, "accounts missing")
	}
	if doc.Transactions == nil {
		return importErr(MissingSection, "transactions missing")
	}

	if err := validateSnapshot(*doc.Accounts, *doc.Transactions); err != nil {
		return err
	}

	// Validation passed, replace the state.
	accounts := make([]*Account, 0, len(*doc.Accounts))
	for _, r := range *doc.Accounts {
		a, err := r.account()
		if err != nil {
			return &ImportError{Kind: InvalidAccount, Detail: "account " + r.ID, Err: err}
		}
		accounts = append(accounts, a)
	}
	transactions := make([]Transaction, 0, len(*doc.Transactions))
	for _, r := range *doc.Transactions {
		tx, err := r.transaction()
		if err != nil {
			// validateSnapshot already vetted the type, this is unreachable.
			return &ImportError{Kind: UnknownTransactionType, Detail: "transaction " + r.ID, Err: err}
		}
		transactions = append(transactions, tx)
	}

	l.accounts = accounts
	l.transactions = transactions
	l.rederiveHistories(Transaction.References)

	// Loaded before the commit: on a failed write the imported in-memory
	// state stays authoritative instead of being re-hydrated away, and the
	// next successful commit repairs the store.
	l.loaded = true
	return l.commit(ctx)
}

// validateSnapshot checks a snapshot document for internal consistency, in a
// fixed order: duplicate account ids, account fields, duplicate transaction
// ids, transaction amounts, then account references by transaction type.
func validateSnapshot(accounts []accountRecord, transactions []transactionRecord) error {
	accountIDs := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if accountIDs[a.ID] {
			return importErr(DuplicateAccountID, "account id %s", a.ID)
		}
		accountIDs[a.ID] = true
	}
	for _, a := range accounts {
		if strings.TrimSpace(a.Name) == "" {
			return importErr(InvalidAccount, "account %s has an empty name", a.ID)
		}
		if strings.TrimSpace(a.Currency) == "" {
			return importErr(InvalidAccount, "account %q has an empty currency", a.Name)
		}
		if a.Balance.IsNegative() {
			return importErr(InvalidAccount, "account %q has a negative balance", a.Name)
		}
	}

	txIDs := make(map[string]bool, len(transactions))
	for _, t := range transactions {
		if txIDs[t.ID] {
			return importErr(DuplicateTransactionID, "transaction id %s", t.ID)
		}
		txIDs[t.ID] = true
	}
	for _, t := range transactions {
		if !t.Amount.IsPositive() {
			return importErr(InvalidTransaction, "transaction %s has a non-positive amount", t.ID)
		}
		typ, err := ParseTransactionType(t.TransactionType)
		if err != nil {
			return importErr(UnknownTransactionType, "transaction %s has type %q", t.ID, t.TransactionType)
		}
		switch typ {
		case Deposit:
			if !accountIDs[t.ToAccountID] {
				return importErr(DanglingReference, "deposit transaction %s references invalid to-account", t.ID)
			}
		case Withdraw:
			if !accountIDs[t.FromAccountID] {
				return importErr(DanglingReference, "withdraw transaction %s references invalid from-account", t.ID)
			}
		case TransferIn, TransferOut:
			if !accountIDs[t.FromAccountID] {
				return importErr(DanglingReference, "transfer transaction %s references invalid from-account", t.ID)
			}
			if !accountIDs[t.ToAccountID] {
				return importErr(DanglingReference, "transfer transaction %s references invalid to-account", t.ID)
			}
		}
	}
	return nil
}
