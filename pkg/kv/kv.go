// Package kv is a small ordered key-value store used for the conversation
// turn log. Keys are hierarchical (Key{"turns", "0001"}) and listed in
// lexicographic order of their encoded form.
//
// Badger backs the store on disk; Memory serves tests and ephemeral
// servers.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins key segments in the encoded key.
const Separator = ":"

// Key is a hierarchical path. Segments must not contain Separator.
type Key []string

func (k Key) String() string {
	return strings.Join(k, Separator)
}

func (k Key) encode() []byte {
	return []byte(k.String())
}

// prefix is the encoded key followed by the separator, so that listing
// "a:b" does not match "a:bc". The empty key matches everything.
func (k Key) prefix() []byte {
	if len(k) == 0 {
		return nil
	}
	return []byte(k.String() + Separator)
}

func decodeKey(b []byte) Key {
	return Key(strings.Split(string(b), Separator))
}

// Entry is a key-value pair returned by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is an ordered key-value store. Implementations are safe for
// concurrent use.
type Store interface {
	// Get returns ErrNotFound if the key is not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores value, overwriting any previous one.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Missing keys are not an error.
	Delete(ctx context.Context, key Key) error

	// List iterates entries under prefix in lexicographic key order.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// BatchDelete removes several keys atomically.
	BatchDelete(ctx context.Context, keys []Key) error

	Close() error
}

// Open returns a Badger store in dir, or a Memory store when dir is empty.
func Open(dir string) (Store, error) {
	if dir == "" {
		return NewMemory(), nil
	}
	return NewBadger(BadgerOptions{Dir: dir})
}
