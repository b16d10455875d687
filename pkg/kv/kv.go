// Package kv provides the key-value store behind the render cache. Keys are
// paths of string segments (e.g. ["render", "3f9a..."]) joined with a
// separator byte (default ':').
//
// Badger is the persistent backend; Memory serves tests and --no-cache runs
// that still want in-process reuse.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Key is a hierarchical path represented as a slice of string segments.
// Segments must not contain the configured separator character.
type Key []string

// String returns the key joined with ':'. For display only.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Entry is a key-value pair returned by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the interface for a key-value store with path-based keys.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present
	// or expired.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, replacing any existing value. The entry
	// expires after Options.TTL when that is set.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key Key) error

	// List iterates over all entries whose key starts with the given prefix,
	// in lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// BatchDelete atomically removes multiple keys.
	BatchDelete(ctx context.Context, keys []Key) error

	// Close releases any resources held by the store.
	Close() error
}

// DefaultSeparator is the default separator byte used to encode key segments.
const DefaultSeparator byte = ':'

// Options configures store behavior. A nil *Options means defaults.
type Options struct {
	// Separator joins key segments. Default is ':' if zero.
	Separator byte

	// TTL is the lifetime of entries written by Set. Zero keeps them until
	// deleted.
	TTL time.Duration
}

func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

func (o *Options) ttl() time.Duration {
	if o == nil {
		return 0
	}
	return o.TTL
}

func (o *Options) encode(k Key) []byte {
	return []byte(strings.Join(k, string(o.sep())))
}

func (o *Options) decode(b []byte) Key {
	return strings.Split(string(b), string(o.sep()))
}

// prefix returns the encoded scan prefix for p. A separator is appended so
// that "a:b" does not match "a:bc"; an empty prefix matches everything.
func (o *Options) prefix(p Key) []byte {
	if len(p) == 0 {
		return nil
	}
	return append(o.encode(p), o.sep())
}
