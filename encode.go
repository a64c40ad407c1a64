package banken

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// accountRecord is the wire form of an Account, used in the persisted
// account collection and in snapshots. The private history is not part of
// it; history travels in the transaction collection.
type accountRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AccountType string          `json:"accountType"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// transactionRecord is the wire form of a Transaction.
type transactionRecord struct {
	ID              string          `json:"id"`
	Timestamp       time.Time       `json:"timestamp"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	FromAccountID   string          `json:"fromAccountId"`
	ToAccountID     string          `json:"toAccountId"`
	TransactionType string          `json:"transactionType"`
}

func (r transactionRecord) transaction() (Transaction, error) {
	typ, err := ParseTransactionType(r.TransactionType)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		ID:            r.ID,
		Timestamp:     r.Timestamp,
		Amount:        r.Amount,
		BalanceAfter:  r.BalanceAfter,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Type:          typ,
	}, nil
}

func (r accountRecord) account() (*Account, error) {
	typ, err := ParseAccountType(r.AccountType)
	if err != nil {
		return nil, err
	}
	return restoreAccount(r.ID, r.Name, typ, r.Currency, r.Balance, r.LastUpdated), nil
}

// encodeAccounts serializes the account collection to its persisted form.
// An empty collection encodes as an empty array, never null.
func encodeAccounts(accounts []*Account) ([]byte, error) {
	if accounts == nil {
		accounts = []*Account{}
	}
	return json.Marshal(accounts)
}

// encodeTransactions serializes the transaction collection to its persisted
// form. An empty collection encodes as an empty array, never null.
func encodeTransactions(transactions []Transaction) ([]byte, error) {
	if transactions == nil {
		transactions = []Transaction{}
	}
	return json.Marshal(transactions)
}

// decodeAccounts parses a persisted account collection.
func decodeAccounts(data []byte) ([]*Account, error) {
	var records []accountRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding stored accounts: %w", err)
	}
	accounts := make([]*Account, 0, len(records))
	for _, r := range records {
		a, err := r.account()
		if err != nil {
			return nil, fmt.Errorf("decoding stored account %q: %w", r.ID, err)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// decodeTransactions parses a persisted transaction collection.
func decodeTransactions(data []byte) ([]Transaction, error) {
	var records []transactionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding stored transactions: %w", err)
	}
	transactions := make([]Transaction, 0, len(records))
	for _, r := range records {
		tx, err := r.transaction()
		if err != nil {
			return nil, fmt.Errorf("decoding stored transaction %q: %w", r.ID, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}
