package cache

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/haivivi/midisynth/pkg/kv"
	"github.com/haivivi/midisynth/pkg/timeline"
)

type params struct {
	Rate    int     `msgpack:"rate"`
	Attack  float64 `msgpack:"attack"`
	Hanging string  `msgpack:"hanging"`
}

func testEntry() *Entry {
	return &Entry{
		Format:   1,
		Tracks:   2,
		Division: 480,
		Events:   7,
		Timeline: timeline.Timeline{
			Notes: []timeline.Note{
				{Start: 0, Duration: 0.5, Pitch: 60, Velocity: 100},
				{Start: 0.5, Duration: 0.25, Pitch: 36, Velocity: 90, Channel: 9},
			},
			Duration: 1.75,
		},
		SampleRate: 44100,
		Samples:    []int16{0, 1, -1, 32000, -32000},
	}
}

func TestFingerprint(t *testing.T) {
	base, err := Fingerprint([]byte("MThd"), params{Rate: 44100, Attack: 0.05})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if len(base) != 64 {
		t.Errorf("len = %d, want 64 hex chars", len(base))
	}

	again, _ := Fingerprint([]byte("MThd"), params{Rate: 44100, Attack: 0.05})
	if again != base {
		t.Errorf("fingerprint not stable: %s vs %s", again, base)
	}

	tests := []struct {
		name   string
		input  string
		params params
	}{
		{"input", "MThe", params{Rate: 44100, Attack: 0.05}},
		{"rate", "MThd", params{Rate: 48000, Attack: 0.05}},
		{"attack", "MThd", params{Rate: 44100, Attack: 0.06}},
		{"hanging", "MThd", params{Rate: 44100, Attack: 0.05, Hanging: "close"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fingerprint([]byte(tt.input), tt.params)
			if err != nil {
				t.Fatalf("Fingerprint: %v", err)
			}
			if got == base {
				t.Errorf("changing %s did not change the fingerprint", tt.name)
			}
		})
	}
}

func TestFingerprintMapOrder(t *testing.T) {
	a, err := Fingerprint(nil, map[string]int{"a": 1, "b": 2, "c": 3, "d": 4})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	for range 10 {
		b, _ := Fingerprint(nil, map[string]int{"d": 4, "c": 3, "b": 2, "a": 1})
		if a != b {
			t.Fatalf("map fingerprint depends on iteration order")
		}
	}
}

func backends(t *testing.T) map[string]kv.Store {
	t.Helper()
	b, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	return map[string]kv.Store{
		"memory": kv.NewMemory(nil),
		"badger": b,
	}
}

func TestGetPut(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := New(store, nil)
			defer c.Close()

			if _, err := c.Get(ctx, "abc"); !errors.Is(err, ErrMiss) {
				t.Fatalf("Get before Put: err = %v, want ErrMiss", err)
			}

			want := testEntry()
			if err := c.Put(ctx, "abc", want); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if want.CreatedAt.IsZero() {
				t.Error("Put did not stamp CreatedAt")
			}

			got, err := c.Get(ctx, "abc")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Division != 480 || got.Tracks != 2 || got.Events != 7 || got.Format != 1 {
				t.Errorf("header = %+v", got)
			}
			if !slices.Equal(got.Samples, want.Samples) {
				t.Errorf("samples = %v, want %v", got.Samples, want.Samples)
			}
			if !slices.Equal(got.Timeline.Notes, want.Timeline.Notes) {
				t.Errorf("notes = %+v, want %+v", got.Timeline.Notes, want.Timeline.Notes)
			}
			if got.Timeline.Duration != 1.75 || got.SampleRate != 44100 {
				t.Errorf("duration = %v, rate = %d", got.Timeline.Duration, got.SampleRate)
			}
			if !got.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
			}
		})
	}
}

func TestCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory(nil)
	c := New(store, nil)

	store.Set(ctx, c.key("bad"), []byte{0xc1})
	if _, err := c.Get(ctx, "bad"); !errors.Is(err, ErrMiss) {
		t.Fatalf("err = %v, want ErrMiss", err)
	}
	if _, err := store.Get(ctx, c.key("bad")); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("corrupt entry not removed: %v", err)
	}
}

func TestStatsAndClear(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := New(store, nil)
			defer c.Close()

			// An unrelated key must survive Clear.
			store.Set(ctx, kv.Key{"other", "x"}, []byte("keep"))

			st, err := c.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if st.Entries != 0 || st.Bytes != 0 {
				t.Errorf("empty stats = %+v", st)
			}

			t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			for i, k := range []string{"a", "b", "c"} {
				e := testEntry()
				e.CreatedAt = t0.Add(time.Duration(i) * time.Hour)
				if err := c.Put(ctx, k, e); err != nil {
					t.Fatalf("Put: %v", err)
				}
			}

			st, err = c.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if st.Entries != 3 {
				t.Errorf("Entries = %d, want 3", st.Entries)
			}
			if st.Bytes <= 0 {
				t.Errorf("Bytes = %d", st.Bytes)
			}
			if !st.Oldest.Equal(t0) || !st.Newest.Equal(t0.Add(2*time.Hour)) {
				t.Errorf("range = %v..%v", st.Oldest, st.Newest)
			}

			n, err := c.Clear(ctx)
			if err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if n != 3 {
				t.Errorf("Clear removed %d, want 3", n)
			}
			if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
				t.Errorf("Get after Clear: %v", err)
			}
			if v, err := store.Get(ctx, kv.Key{"other", "x"}); err != nil || string(v) != "keep" {
				t.Errorf("unrelated key = %q, %v", v, err)
			}

			n, err = c.Clear(ctx)
			if err != nil || n != 0 {
				t.Errorf("second Clear = %d, %v", n, err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := Open(dir, 0, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Put(ctx, "k", testEntry()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c, err = Open(dir, 0, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	e, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if len(e.Samples) != 5 {
		t.Errorf("samples = %v", e.Samples)
	}
}
