// Package kvstore defines the key-value persistence boundary of the ledger
// and its local implementations.
//
// Values are whole-collection JSON replacements, never partial patches. The
// durability of a key is whatever one atomic write of that key offers; the
// store makes no promise across two keys.
package kvstore

import "context"

// Store is a generic key to JSON blob store.
//
// Get returns the stored value and whether the key was present at all; an
// absent key is not an error. Both calls honor context cancellation and
// report it as an error rather than as silently succeeded state.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
