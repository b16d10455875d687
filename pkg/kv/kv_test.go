package kv_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/haivivi/midisynth/pkg/kv"
)

// backends returns a constructor for every Store implementation so each test
// runs against all of them.
func backends() map[string]func(t *testing.T, opts *kv.Options) kv.Store {
	return map[string]func(t *testing.T, opts *kv.Options) kv.Store{
		"memory": func(t *testing.T, opts *kv.Options) kv.Store {
			s := kv.NewMemory(opts)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"badger": func(t *testing.T, opts *kv.Options) kv.Store {
			s, err := kv.NewBadger(kv.BadgerOptions{Options: opts, InMemory: true})
			if err != nil {
				t.Fatalf("NewBadger: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func forEachBackend(t *testing.T, opts *kv.Options, fn func(t *testing.T, s kv.Store)) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t, opts))
		})
	}
}

func set(t *testing.T, s kv.Store, entries map[string]string) {
	t.Helper()
	for k, v := range entries {
		if err := s.Set(context.Background(), strings.Split(k, ":"), []byte(v)); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
}

func list(t *testing.T, s kv.Store, prefix kv.Key) []string {
	t.Helper()
	var got []string
	for e, err := range s.List(context.Background(), prefix) {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		got = append(got, e.Key.String()+"="+string(e.Value))
	}
	return got
}

func TestGetSetDelete(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		key := kv.Key{"render", "abc123"}

		if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := s.Set(ctx, key, []byte("hello")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Set(ctx, key, []byte("world")); err != nil {
			t.Fatalf("Set overwrite: %v", err)
		}
		got, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "world" {
			t.Fatalf("Get = %q, want %q", got, "world")
		}

		if err := s.Delete(ctx, key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.Delete(ctx, kv.Key{"no", "such", "key"}); err != nil {
			t.Fatalf("Delete non-existent: %v", err)
		}
	})
}

func TestGetReturnsCopy(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		val := []byte("abc")
		s.Set(ctx, kv.Key{"k"}, val)
		val[0] = 'x'

		got, _ := s.Get(ctx, kv.Key{"k"})
		if string(got) != "abc" {
			t.Fatalf("stored value aliased caller slice: %q", got)
		}
		got[1] = 'y'
		again, _ := s.Get(ctx, kv.Key{"k"})
		if string(again) != "abc" {
			t.Fatalf("returned value aliased store: %q", again)
		}
	})
}

func TestList(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, s kv.Store) {
		set(t, s, map[string]string{
			"render:b":  "2",
			"render:a":  "1",
			"renders:c": "no",
			"meta:x":    "m",
		})

		if got, want := list(t, s, kv.Key{"render"}), []string{"render:a=1", "render:b=2"}; !slices.Equal(got, want) {
			t.Fatalf("List render = %v, want %v", got, want)
		}
		if got := list(t, s, nil); len(got) != 4 {
			t.Fatalf("List all = %v", got)
		}
		if got := list(t, s, kv.Key{"missing"}); len(got) != 0 {
			t.Fatalf("List missing = %v", got)
		}
	})
}

func TestListStopsEarly(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, s kv.Store) {
		set(t, s, map[string]string{"a:1": "x", "a:2": "y", "a:3": "z"})
		n := 0
		for _, err := range s.List(context.Background(), kv.Key{"a"}) {
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			n++
			if n == 2 {
				break
			}
		}
		if n != 2 {
			t.Fatalf("iterated %d entries, want 2", n)
		}
	})
}

func TestBatchDelete(t *testing.T) {
	forEachBackend(t, nil, func(t *testing.T, s kv.Store) {
		set(t, s, map[string]string{"a:1": "v1", "a:2": "v2", "a:3": "v3"})
		if err := s.BatchDelete(context.Background(), []kv.Key{{"a", "1"}, {"a", "2"}, {"a", "9"}}); err != nil {
			t.Fatalf("BatchDelete: %v", err)
		}
		if got, want := list(t, s, kv.Key{"a"}), []string{"a:3=v3"}; !slices.Equal(got, want) {
			t.Fatalf("List = %v, want %v", got, want)
		}
	})
}

func TestCustomSeparator(t *testing.T) {
	forEachBackend(t, &kv.Options{Separator: '/'}, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		key := kv.Key{"path", "to", "value"}
		if err := s.Set(ctx, key, []byte("data")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if got := list(t, s, kv.Key{"path", "to"}); len(got) != 1 || got[0] != "path:to:value=data" {
			t.Fatalf("List = %v", got)
		}
	})
}

func TestSetWithTTL(t *testing.T) {
	forEachBackend(t, &kv.Options{TTL: time.Hour}, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		if err := s.Set(ctx, kv.Key{"k"}, []byte("v")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := s.Get(ctx, kv.Key{"k"})
		if err != nil || string(got) != "v" {
			t.Fatalf("Get = %q, %v", got, err)
		}
	})
}

func TestKeyString(t *testing.T) {
	if got := (kv.Key{"a", "b", "c"}).String(); got != "a:b:c" {
		t.Fatalf("String() = %q", got)
	}
}

func TestBadgerDirRequired(t *testing.T) {
	_, err := kv.NewBadger(kv.BadgerOptions{})
	if err == nil {
		t.Fatal("expected error for empty Dir in on-disk mode")
	}
	if !strings.Contains(err.Error(), "Dir is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBadgerPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	if err := s.Set(ctx, kv.Key{"render", "x"}, []byte("pcm")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, kv.Key{"render", "x"})
	if err != nil || string(got) != "pcm" {
		t.Fatalf("Get after reopen = %q, %v", got, err)
	}
}
