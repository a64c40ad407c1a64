package banken

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/banken/banken/kvstore"
)

func newTestLedger(t *testing.T) (*Ledger, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory()
	return NewLedger(store), store
}

// flakyStore wraps a Store and fails selected operations.
type flakyStore struct {
	kvstore.Store
	failGet bool
	failSet bool
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.failGet {
		return nil, false, fmt.Errorf("disk on fire")
	}
	return s.Store.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failSet {
		return fmt.Errorf("disk on fire")
	}
	return s.Store.Set(ctx, key, value)
}

// countingStore counts Get calls per key.
type countingStore struct {
	kvstore.Store
	gets map[string]int
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.gets[key]++
	return s.Store.Get(ctx, key)
}

func TestLedger_CreateAccount(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)

	account, err := ledger.CreateAccount(ctx, "Alice", Checking, "SEK", d("100"))
	if err != nil {
		t.Fatalf("CreateAccount() error = %v, want nil", err)
	}
	if account.Name() != "Alice" || !account.Balance().Equal(d("100")) {
		t.Errorf("CreateAccount() returned %q with %s", account.Name(), account.Balance())
	}

	t.Run("rejects duplicate names case-insensitively", func(t *testing.T) {
		if _, err := ledger.CreateAccount(ctx, "ALICE", Savings, "SEK", d("0")); !errors.Is(err, ErrDuplicateName) {
			t.Errorf("CreateAccount(duplicate) error = %v, want ErrDuplicateName", err)
		}
	})

	t.Run("rejects a negative initial balance", func(t *testing.T) {
		if _, err := ledger.CreateAccount(ctx, "Eve", Savings, "SEK", d("-1")); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("CreateAccount(negative) error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("persists across instances", func(t *testing.T) {
		fresh := NewLedger(store)
		accounts, err := fresh.Accounts(ctx)
		if err != nil {
			t.Fatalf("Accounts() error = %v, want nil", err)
		}
		if len(accounts) != 1 || accounts[0].ID() != account.ID() {
			t.Errorf("fresh ledger sees %d accounts, want the created one", len(accounts))
		}
	})
}

func TestLedger_RenameAccount(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	alice, err := ledger.CreateAccount(ctx, "Alice", Checking, "SEK", d("100"))
	if err != nil {
		t.Fatalf("CreateAccount(Alice) error = %v, want nil", err)
	}
	if _, err := ledger.CreateAccount(ctx, "Bob", Checking, "SEK", d("0")); err != nil {
		t.Fatalf("CreateAccount(Bob) error = %v, want nil", err)
	}

	t.Run("renames and persists", func(t *testing.T) {
		if err := ledger.RenameAccount(ctx, alice.ID(), "Alicia"); err != nil {
			t.Fatalf("RenameAccount() error = %v, want nil", err)
		}
		fresh := NewLedger(store)
		renamed, err := fresh.Account(ctx, alice.ID())
		if err != nil {
			t.Fatalf("Account() error = %v, want nil", err)
		}
		if renamed.Name() != "Alicia" {
			t.Errorf("name after rename = %q, want Alicia", renamed.Name())
		}
	})

	t.Run("rejects another account's name", func(t *testing.T) {
		if err := ledger.RenameAccount(ctx, alice.ID(), "BOB"); !errors.Is(err, ErrDuplicateName) {
			t.Errorf("RenameAccount(taken) error = %v, want ErrDuplicateName", err)
		}
	})

	t.Run("allows recasing the own name", func(t *testing.T) {
		if err := ledger.RenameAccount(ctx, alice.ID(), "ALICIA"); err != nil {
			t.Errorf("RenameAccount(recase) error = %v, want nil", err)
		}
	})

	t.Run("unknown id fails", func(t *testing.T) {
		err := ledger.RenameAccount(ctx, "ghost", "Anything")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("RenameAccount(ghost) error = %v, want *NotFoundError", err)
		}
	})
}

func TestLedger_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	if _, err := ledger.CreateAccount(ctx, "Alice", Checking, "SEK", d("100")); err != nil {
		t.Fatalf("CreateAccount() error = %v, want nil", err)
	}

	t.Run("unknown name is a no-op", func(t *testing.T) {
		if err := ledger.DeleteAccount(ctx, "nobody"); err != nil {
			t.Errorf("DeleteAccount(unknown) error = %v, want nil", err)
		}
	})

	t.Run("matches case-insensitively and persists", func(t *testing.T) {
		if err := ledger.DeleteAccount(ctx, "aLiCe"); err != nil {
			t.Fatalf("DeleteAccount() error = %v, want nil", err)
		}
		fresh := NewLedger(store)
		accounts, err := fresh.Accounts(ctx)
		if err != nil {
			t.Fatalf("Accounts() error = %v, want nil", err)
		}
		if len(accounts) != 0 {
			t.Errorf("after delete, fresh ledger sees %d accounts, want 0", len(accounts))
		}
	})
}

func TestLedger_LookupFailures(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)
	alice, err := ledger.CreateAccount(ctx, "Alice", Checking, "SEK", d("100"))
	if err != nil {
		t.Fatalf("CreateAccount() error = %v, want nil", err)
	}

	testCases := []struct {
		name   string
		op     func() error
		wantID string
	}{
		{name: "deposit", op: func() error { return ledger.Deposit(ctx, "missing-1", d("1")) }, wantID: "missing-1"},
		{name: "withdraw", op: func() error { return ledger.Withdraw(ctx, "missing-2", d("1")) }, wantID: "missing-2"},
		{name: "transfer from", op: func() error { return ledger.Transfer(ctx, "missing-3", alice.ID(), d("1")) }, wantID: "missing-3"},
		{name: "transfer to", op: func() error { return ledger.Transfer(ctx, alice.ID(), "missing-4", d("1")) }, wantID: "missing-4"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.op()
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("error = %v, want *NotFoundError", err)
			}
			if notFound.ID != tc.wantID {
				t.Errorf("NotFoundError.ID = %q, want %q", notFound.ID, tc.wantID)
			}
		})
	}
}

// The concrete scenario from the drawing board: Alice and Bob in SEK.
func TestLedger_TransferScenario(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)

	alice, err := ledger.CreateAccount(ctx, "Alice", Checking, "SEK", d("100"))
	if err != nil {
		t.Fatalf("CreateAccount(Alice) error = %v, want nil", err)
	}
	bob, err := ledger.CreateAccount(ctx, "Bob", Checking, "SEK", d("0"))
	if err != nil {
		t.Fatalf("CreateAccount(Bob) error = %v, want nil", err)
	}

	if err := ledger.Transfer(ctx, alice.ID(), bob.ID(), d("40")); err != nil {
		t.Fatalf("Transfer() error = %v, want nil", err)
	}

	alice, _ = ledger.Account(ctx, alice.ID())
	bob, _ = ledger.Account(ctx, bob.ID())
	if !alice.Balance().Equal(d("60")) {
		t.Errorf("Alice balance = %s, want 60", alice.Balance())
	}
	if !bob.Balance().Equal(d("40")) {
		t.Errorf("Bob balance = %s, want 40", bob.Balance())
	}

	transactions, err := ledger.AllTransactions(ctx)
	if err != nil {
		t.Fatalf("AllTransactions() error = %v, want nil", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("AllTransactions() has %d records, want 2", len(transactions))
	}

	if err := ledger.Withdraw(ctx, alice.ID(), d("1000")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Withdraw(1000) error = %v, want ErrInsufficientFunds", err)
	}
	alice, _ = ledger.Account(ctx, alice.ID())
	if !alice.Balance().Equal(d("60")) {
		t.Errorf("after failed withdrawal, Alice balance = %s, want 60", alice.Balance())
	}
}

func TestLedger_AllTransactions(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)

	alice, err := ledger.CreateAccount(ctx, "Alice", Checking, "SEK", d("100"))
	if err != nil {
		t.Fatalf("CreateAccount() error = %v, want nil", err)
	}
	for _, amount := range []string{"1", "2", "3"} {
		if err := ledger.Deposit(ctx, alice.ID(), d(amount)); err != nil {
			t.Fatalf("Deposit(%s) error = %v, want nil", amount, err)
		}
	}

	t.Run("most recent first", func(t *testing.T) {
		transactions, err := ledger.AllTransactions(ctx)
		if err != nil {
			t.Fatalf("AllTransactions() error = %v, want nil", err)
		}
		if len(transactions) != 3 {
			t.Fatalf("AllTransactions() has %d records, want 3", len(transactions))
		}
		for i := 1; i < len(transactions); i++ {
			if transactions[i].Timestamp.After(transactions[i-1].Timestamp) {
				t.Errorf("transactions out of order at %d", i)
			}
		}
	})

	t.Run("rebuilds from histories when storage is empty", func(t *testing.T) {
		// Blank out the stored transaction collection, as the original
		// system could leave it after only account writes happened.
		if err := store.Set(ctx, "banken.transactions", []byte("[]")); err != nil {
			t.Fatalf("Set() error = %v, want nil", err)
		}

		transactions, err := ledger.AllTransactions(ctx)
		if err != nil {
			t.Fatalf("AllTransactions() error = %v, want nil", err)
		}
		if len(transactions) != 3 {
			t.Fatalf("rebuilt list has %d records, want 3", len(transactions))
		}

		// The rebuilt list must have been written back.
		data, ok, err := store.Get(ctx, "banken.transactions")
		if err != nil || !ok {
			t.Fatalf("Get() = (%v, %v), want stored value", ok, err)
		}
		if string(data) == "[]" {
			t.Error("rebuilt transaction list was not written back to storage")
		}
	})
}

func TestLedger_ClearAllTransactions(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)

	alice, err := ledger.CreateAccount(ctx, "Alice", Checking, "SEK", d("100"))
	if err != nil {
		t.Fatalf("CreateAccount() error = %v, want nil", err)
	}
	if err := ledger.Deposit(ctx, alice.ID(), d("10")); err != nil {
		t.Fatalf("Deposit() error = %v, want nil", err)
	}

	if err := ledger.ClearAllTransactions(ctx); err != nil {
		t.Fatalf("ClearAllTransactions() error = %v, want nil", err)
	}

	alice, err = ledger.Account(ctx, alice.ID())
	if err != nil {
		t.Fatalf("Account() error = %v, want nil", err)
	}
	if len(alice.History()) != 0 {
		t.Errorf("after clear, history has %d records, want 0", len(alice.History()))
	}
	if !alice.Balance().Equal(d("110")) {
		t.Errorf("after clear, balance = %s, want 110 (unchanged)", alice.Balance())
	}

	// The cleared collections must be the persisted ones too.
	fresh := NewLedger(store)
	transactions, err := fresh.AllTransactions(ctx)
	if err != nil {
		t.Fatalf("AllTransactions() error = %v, want nil", err)
	}
	if len(transactions) != 0 {
		t.Errorf("fresh ledger sees %d transactions after clear, want 0", len(transactions))
	}
}

func TestLedger_HydrationDedupesStoredNames(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	// Two stored accounts sharing a name up to case, as the original system
	// could write before creation-time uniqueness existed. First wins.
	stored := `[
		{"id":"a1","name":"Alice","accountType":"Checking","currency":"SEK","balance":100,"lastUpdated":"2024-01-01T00:00:00Z"},
		{"id":"a2","name":"ALICE","accountType":"Savings","currency":"SEK","balance":5,"lastUpdated":"2024-01-02T00:00:00Z"}
	]`
	if err := store.Set(ctx, "banken.accounts", []byte(stored)); err != nil {
		t.Fatalf("Set() error = %v, want nil", err)
	}

	ledger := NewLedger(store)
	accounts, err := ledger.Accounts(ctx)
	if err != nil {
		t.Fatalf("Accounts() error = %v, want nil", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("Accounts() has %d entries, want 1 after dedupe", len(accounts))
	}
	if accounts[0].ID() != "a1" {
		t.Errorf("dedupe kept %q, want first occurrence a1", accounts[0].ID())
	}
}

func TestLedger_HydrationRederivesHistories(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	accounts := `[{"id":"a1","name":"Alice","accountType":"Checking","currency":"SEK","balance":90,"lastUpdated":"2024-01-01T00:00:00Z"}]`
	transactions := `[
		{"id":"t1","timestamp":"2024-01-01T10:00:00Z","amount":10,"balanceAfter":110,"toAccountId":"a1","transactionType":"Deposit"},
		{"id":"t2","timestamp":"2024-01-01T11:00:00Z","amount":20,"balanceAfter":90,"fromAccountId":"a1","transactionType":"Withdraw"},
		{"id":"t3","timestamp":"2024-01-01T12:00:00Z","amount":1,"balanceAfter":1,"toAccountId":"other","transactionType":"Deposit"}
	]`
	if err := store.Set(ctx, "banken.accounts", []byte(accounts)); err != nil {
		t.Fatalf("Set() error = %v, want nil", err)
	}
	if err := store.Set(ctx, "banken.transactions", []byte(transactions)); err != nil {
		t.Fatalf("Set() error = %v, want nil", err)
	}

	ledger := NewLedger(store)
	alice, err := ledger.Account(ctx, "a1")
	if err != nil {
		t.Fatalf("Account() error = %v, want nil", err)
	}
	history := alice.History()
	if len(history) != 2 {
		t.Fatalf("re-derived history has %d records, want 2", len(history))
	}
	if history[0].ID != "t1" || history[1].ID != "t2" {
		t.Errorf("re-derived history order = %q, %q; want t1, t2", history[0].ID, history[1].ID)
	}
}

func TestLedger_PersistenceFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("hydration read failure surfaces", func(t *testing.T) {
		ledger := NewLedger(&flakyStore{Store: kvstore.NewMemory(), failGet: true})
		_, err := ledger.Accounts(ctx)
		var persistence *PersistenceError
		if !errors.As(err, &persistence) {
			t.Fatalf("Accounts() error = %v, want *PersistenceError", err)
		}
		if persistence.Op != "get" {
			t.Errorf("PersistenceError.Op = %q, want get", persistence.Op)
		}
	})

	t.Run("write failure surfaces and is not swallowed", func(t *testing.T) {
		store := &flakyStore{Store: kvstore.NewMemory()}
		ledger := NewLedger(store)
		alice, err := ledger.CreateAccount(ctx, "Alice", Checking, "SEK", d("100"))
		if err != nil {
			t.Fatalf("CreateAccount() error = %v, want nil", err)
		}

		store.failSet = true
		err = ledger.Deposit(ctx, alice.ID(), d("10"))
		var persistence *PersistenceError
		if !errors.As(err, &persistence) {
			t.Fatalf("Deposit() error = %v, want *PersistenceError", err)
		}
		if !strings.Contains(err.Error(), "banken.accounts") {
			t.Errorf("error %q does not name the failing key", err)
		}
	})
}

func TestLedger_HydratesOnce(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: kvstore.NewMemory(), gets: make(map[string]int)}
	ledger := NewLedger(store)

	for i := 0; i < 3; i++ {
		if _, err := ledger.Accounts(ctx); err != nil {
			t.Fatalf("Accounts() error = %v, want nil", err)
		}
	}
	if got := store.gets["banken.accounts"]; got != 1 {
		t.Errorf("accounts key read %d times, want exactly 1 hydration", got)
	}
}
