// Package cache stores finished renders keyed by the input file and the
// parameters that shaped the output, so re-rendering an unchanged file is a
// lookup.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/midisynth/pkg/kv"
	"github.com/haivivi/midisynth/pkg/timeline"
)

// schema is bumped whenever Entry or the rendering math changes.
const schema = "v1"

// namespace is the key prefix of every cache entry.
var namespace = kv.Key{"render", schema}

// ErrMiss is returned by Get when no entry exists for a key.
var ErrMiss = errors.New("cache: miss")

// Entry is a cached render.
type Entry struct {
	Format   uint16 `msgpack:"format"`
	Tracks   uint16 `msgpack:"tracks"`
	Division uint16 `msgpack:"division"`
	Events   int    `msgpack:"events"`

	Timeline timeline.Timeline `msgpack:"timeline"`

	SampleRate int     `msgpack:"sample_rate"`
	Samples    []int16 `msgpack:"samples"`

	CreatedAt time.Time `msgpack:"created_at"`
}

// Cache reads and writes entries in a kv.Store.
type Cache struct {
	store  kv.Store
	logger *slog.Logger
}

// New returns a cache on top of store. A nil logger uses slog.Default().
func New(store kv.Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, logger: logger}
}

// Open opens a Badger-backed cache in dir. Entries expire after ttl; zero
// keeps them until cleared.
func Open(dir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	store, err := kv.NewBadger(kv.BadgerOptions{
		Options: &kv.Options{TTL: ttl},
		Dir:     dir,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return New(store, logger), nil
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Fingerprint derives a cache key from the raw input and the render
// parameters. params must be msgpack-encodable; map keys are sorted so equal
// values always produce the same key.
func Fingerprint(input []byte, params any) (string, error) {
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	h := sha256.New()
	h.Write(input)
	enc.Reset(h)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(params); err != nil {
		return "", fmt.Errorf("cache: encode params: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the entry stored under key or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := c.store.Get(ctx, c.key(key))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get: %w", err)
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		// A corrupt entry is dropped and reported as a miss.
		c.logger.Warn("cache: dropping undecodable entry", "key", key, "error", err)
		c.store.Delete(ctx, c.key(key))
		return nil, ErrMiss
	}
	return &e, nil
}

// Put stores e under key.
func (c *Cache) Put(ctx context.Context, key string, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache: encode entry: %w", err)
	}
	if err := c.store.Set(ctx, c.key(key), data); err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	c.logger.Debug("cache: stored render", "key", key, "bytes", len(data))
	return nil
}

// Stats describes the cache contents.
type Stats struct {
	Entries int       `json:"entries" yaml:"entries"`
	Bytes   int64     `json:"bytes" yaml:"bytes"`
	Oldest  time.Time `json:"oldest,omitzero" yaml:"oldest,omitempty"`
	Newest  time.Time `json:"newest,omitzero" yaml:"newest,omitempty"`
}

// Stats scans all entries.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	for e, err := range c.store.List(ctx, namespace) {
		if err != nil {
			return st, fmt.Errorf("cache: list: %w", err)
		}
		st.Entries++
		st.Bytes += int64(len(e.Value))

		var meta struct {
			CreatedAt time.Time `msgpack:"created_at"`
		}
		if msgpack.Unmarshal(e.Value, &meta) != nil || meta.CreatedAt.IsZero() {
			continue
		}
		if st.Oldest.IsZero() || meta.CreatedAt.Before(st.Oldest) {
			st.Oldest = meta.CreatedAt
		}
		if meta.CreatedAt.After(st.Newest) {
			st.Newest = meta.CreatedAt
		}
	}
	return st, nil
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	var keys []kv.Key
	for e, err := range c.store.List(ctx, namespace) {
		if err != nil {
			return 0, fmt.Errorf("cache: list: %w", err)
		}
		keys = append(keys, e.Key)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := c.store.BatchDelete(ctx, keys); err != nil {
		return 0, fmt.Errorf("cache: clear: %w", err)
	}
	return len(keys), nil
}

func (c *Cache) key(k string) kv.Key {
	return append(namespace[:len(namespace):len(namespace)], k)
}
