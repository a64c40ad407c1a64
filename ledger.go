package banken

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/banken/banken/kvstore"
	"github.com/shopspring/decimal"
)

// Keys used in the key-value store. Two independent keys, written
// independently; see commit.
const (
	accountsKey     = "banken.accounts"
	transactionsKey = "banken.transactions"
)

// Ledger is the orchestrating service owning all accounts and the global
// transaction index, kept durable through a kvstore.Store.
//
// State is hydrated from the store lazily, at most once per Ledger instance;
// every public operation funnels through the same ensure-loaded guard. A
// single mutex serializes the hydrate-mutate-persist sequence of every
// operation, since nothing else protects the two denormalized collections
// (per-account histories and the global index) from diverging.
type Ledger struct {
	mu     sync.Mutex
	store  kvstore.Store
	loaded bool

	accounts     []*Account
	transactions []Transaction
}

// NewLedger creates a ledger backed by the given store. No I/O happens until
// the first operation.
func NewLedger(store kvstore.Store) *Ledger {
	return &Ledger{store: store}
}

// ensureLoaded hydrates the in-memory state from the store on first use.
// Callers must hold l.mu.
func (l *Ledger) ensureLoaded(ctx context.Context) error {
	if l.loaded {
		return nil
	}

	data, ok, err := l.store.Get(ctx, accountsKey)
	if err != nil {
		return &PersistenceError{Op: "get", Key: accountsKey, Err: err}
	}
	var accounts []*Account
	if ok {
		decoded, err := decodeAccounts(data)
		if err != nil {
			return err
		}
		accounts = dedupeByName(decoded)
	}

	data, ok, err = l.store.Get(ctx, transactionsKey)
	if err != nil {
		return &PersistenceError{Op: "get", Key: transactionsKey, Err: err}
	}
	var transactions []Transaction
	if ok {
		transactions, err = decodeTransactions(data)
		if err != nil {
			return err
		}
	}

	l.accounts = accounts
	l.transactions = transactions
	l.rederiveHistories(Transaction.BelongsTo)
	l.loaded = true
	return nil
}

// dedupeByName drops accounts whose name was already seen, comparing
// case-insensitively. First occurrence wins, in storage order. Data written
// by this ledger never contains duplicates; this repairs collections written
// before name uniqueness was enforced at creation.
func dedupeByName(accounts []*Account) []*Account {
	seen := make(map[string]bool, len(accounts))
	out := accounts[:0]
	for _, a := range accounts {
		key := strings.ToLower(a.Name())
		if seen[key] {
			log.Printf("warning: dropping stored account %q: duplicate name", a.Name())
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// rederiveHistories rebuilds each account's private history from the global
// transaction index, keeping the records match accepts, in index order. The
// two collections are denormalized views of the same facts; after replacing
// either wholesale this puts them back in sync.
//
// Import uses Transaction.References, attaching a transfer's records to both
// accounts, the shape snapshots have always carried. Hydration uses
// Transaction.BelongsTo, matching what the live operations append.
func (l *Ledger) rederiveHistories(match func(Transaction, string) bool) {
	for _, a := range l.accounts {
		var history []Transaction
		for _, tx := range l.transactions {
			if match(tx, a.ID()) {
				history = append(history, tx)
			}
		}
		a.ReplaceHistory(history)
	}
}

// commit writes both persisted collections, accounts first, transactions
// second. The two writes are sequential, not wrapped in a cross-key
// transaction: a crash or storage failure between them leaves the stored
// collections inconsistent until the next successful commit. The in-memory
// state stays authoritative, so retrying the operation repairs the store.
func (l *Ledger) commit(ctx context.Context) error {
	data, err := encodeAccounts(l.accounts)
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, accountsKey, data); err != nil {
		return &PersistenceError{Op: "set", Key: accountsKey, Err: err}
	}
	data, err = encodeTransactions(l.transactions)
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, transactionsKey, data); err != nil {
		return &PersistenceError{Op: "set", Key: transactionsKey, Err: err}
	}
	return nil
}

func (l *Ledger) findByID(id string) *Account {
	for _, a := range l.accounts {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

func (l *Ledger) findByName(name string) *Account {
	for _, a := range l.accounts {
		if strings.EqualFold(a.Name(), name) {
			return a
		}
	}
	return nil
}

// CreateAccount creates an account and persists the updated collections. The
// name must not already be in use (compared case-insensitively); a negative
// initial balance fails with ErrInvalidAmount. It returns a copy of the
// created account.
func (l *Ledger) CreateAccount(ctx context.Context, name string, accountType AccountType, currency string, initialBalance decimal.Decimal) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if l.findByName(name) != nil {
		return nil, ErrDuplicateName
	}
	a, err := NewAccount(name, accountType, currency, initialBalance)
	if err != nil {
		return nil, err
	}
	l.accounts = append(l.accounts, a)
	if err := l.commit(ctx); err != nil {
		return nil, err
	}
	return a.clone(), nil
}

// Accounts returns a snapshot of all accounts. The returned accounts are
// copies; mutating them does not touch ledger state.
func (l *Ledger) Accounts(ctx context.Context) ([]*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]*Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, a.clone())
	}
	return out, nil
}

// Account returns a copy of the account with the given id.
func (l *Ledger) Account(ctx context.Context, id string) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	a := l.findByID(id)
	if a == nil {
		return nil, &NotFoundError{ID: id}
	}
	return a.clone(), nil
}

// RenameAccount changes the display label of the account with the given id
// and persists the updated collections. The new name must not already be in
// use by another account (compared case-insensitively); renaming an account
// to a casing variant of its own name is allowed.
func (l *Ledger) RenameAccount(ctx context.Context, accountID, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return err
	}
	a := l.findByID(accountID)
	if a == nil {
		return &NotFoundError{ID: accountID}
	}
	if other := l.findByName(name); other != nil && other != a {
		return ErrDuplicateName
	}
	a.Rename(name)
	return l.commit(ctx)
}

// DeleteAccount removes the account with the given name, compared
// case-insensitively, and persists the updated collections. Deleting a name
// that does not exist is a no-op, not an error.
func (l *Ledger) DeleteAccount(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return err
	}
	for i, a := range l.accounts {
		if strings.EqualFold(a.Name(), name) {
			l.accounts = append(l.accounts[:i], l.accounts[i+1:]...)
			return l.commit(ctx)
		}
	}
	return nil
}

// Deposit credits amount to the account with the given id, appends the new
// record to the global index and persists both collections. Entity errors
// (ErrInvalidAmount) pass through unchanged.
func (l *Ledger) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return err
	}
	a := l.findByID(accountID)
	if a == nil {
		return &NotFoundError{ID: accountID}
	}
	if err := a.Deposit(amount); err != nil {
		return err
	}
	l.indexLast(a)
	return l.commit(ctx)
}

// Withdraw debits amount from the account with the given id, appends the new
// record to the global index and persists both collections. Entity errors
// (ErrInvalidAmount, ErrInsufficientFunds) pass through unchanged.
func (l *Ledger) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return err
	}
	a := l.findByID(accountID)
	if a == nil {
		return &NotFoundError{ID: accountID}
	}
	if err := a.Withdraw(amount); err != nil {
		return err
	}
	l.indexLast(a)
	return l.commit(ctx)
}

// Transfer moves amount between the two accounts as one atomic step from the
// ledger's perspective: either both balances move and both records exist, or
// nothing changed. The two new records (TransferOut on the source, TransferIn
// on the destination) are appended to the global index and both collections
// are persisted.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return err
	}
	from := l.findByID(fromID)
	if from == nil {
		return &NotFoundError{ID: fromID}
	}
	to := l.findByID(toID)
	if to == nil {
		return &NotFoundError{ID: toID}
	}
	if err := from.TransferTo(to, amount); err != nil {
		return err
	}
	l.indexLast(from)
	l.indexLast(to)
	return l.commit(ctx)
}

// indexLast appends the account's most recent record to the global index.
// Callers must hold l.mu and have just performed a successful mutation.
func (l *Ledger) indexLast(a *Account) {
	if tx, ok := a.lastTransaction(); ok {
		l.transactions = append(l.transactions, tx)
	}
}

// AllTransactions returns every recorded transaction, most recent first. It
// prefers the persisted collection when non-empty; when storage holds
// nothing it rebuilds the list from the account histories and writes the
// rebuilt list back before returning.
func (l *Ledger) AllTransactions(ctx context.Context) ([]Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	data, ok, err := l.store.Get(ctx, transactionsKey)
	if err != nil {
		return nil, &PersistenceError{Op: "get", Key: transactionsKey, Err: err}
	}
	if ok {
		stored, err := decodeTransactions(data)
		if err != nil {
			return nil, err
		}
		if len(stored) > 0 {
			sortByTimestampDesc(stored)
			return stored, nil
		}
	}

	var rebuilt []Transaction
	for _, a := range l.accounts {
		rebuilt = append(rebuilt, a.History()...)
	}
	sortByTimestampDesc(rebuilt)
	l.transactions = rebuilt

	data, err = encodeTransactions(rebuilt)
	if err != nil {
		return nil, err
	}
	if err := l.store.Set(ctx, transactionsKey, data); err != nil {
		return nil, &PersistenceError{Op: "set", Key: transactionsKey, Err: err}
	}

	out := make([]Transaction, len(rebuilt))
	copy(out, rebuilt)
	return out, nil
}

// ClearAllTransactions empties the global transaction index and every
// account's private history, then persists both collections. Balances are
// unchanged.
func (l *Ledger) ClearAllTransactions(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoaded(ctx); err != nil {
		return err
	}
	l.transactions = nil
	for _, a := range l.accounts {
		a.ClearHistory()
	}
	return l.commit(ctx)
}

func sortByTimestampDesc(transactions []Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Timestamp.After(transactions[j].Timestamp)
	})
}
