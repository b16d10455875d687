package render

import (
	"context"
	"fmt"
	"io"

	"github.com/haivivi/midisynth/pkg/audio/wav"
	"github.com/haivivi/midisynth/pkg/storage"
)

// Load reads a whole MIDI file from a local path or an s3:// URI.
func Load(ctx context.Context, uri string, cfg storage.S3Config) ([]byte, error) {
	store, path, err := storage.Resolve(uri, cfg)
	if err != nil {
		return nil, err
	}
	rc, err := store.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("render: open input: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("render: read input: %w", err)
	}
	return data, nil
}

// Write stores res as a WAV file at path in store. The destination is only
// replaced when the whole file has been written.
func Write(ctx context.Context, store storage.FileStore, path string, res *Result) error {
	w, err := store.Write(ctx, path)
	if err != nil {
		return fmt.Errorf("render: create output: %w", err)
	}
	if err := wav.Encode(w, res.Audio, res.Samples); err != nil {
		storage.Abort(w)
		return fmt.Errorf("render: write output: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("render: write output: %w", err)
	}
	return nil
}

// WriteURI resolves uri and writes res there.
func WriteURI(ctx context.Context, uri string, cfg storage.S3Config, res *Result) error {
	store, path, err := storage.Resolve(uri, cfg)
	if err != nil {
		return err
	}
	return Write(ctx, store, path, res)
}
