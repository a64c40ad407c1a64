// Package banken is a small personal-ledger core: named accounts with exact
// decimal balances, an append-only history of money-movement events, and a
// snapshot import/export format, kept durable through a generic key-value
// store (see the kvstore package).
//
// The Ledger owns all accounts and a global transaction index; each Account
// owns its private history and validates its own operations. The two are
// denormalized views of the same facts and the Ledger keeps them in sync.
package banken
