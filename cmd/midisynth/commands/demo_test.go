package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haivivi/midisynth/pkg/smf"
	"github.com/haivivi/midisynth/pkg/songs"
)

func TestDemoList(t *testing.T) {
	setupTestEnv(t)

	stdout, _, code := runCmd(t, "demo")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, id := range songs.IDs() {
		if !strings.Contains(stdout, id) {
			t.Errorf("list missing %q:\n%s", id, stdout)
		}
	}

	stdout, _, code = runCmd(t, "demo", "-o", "json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var list []songInfo
	if err := json.Unmarshal([]byte(stdout), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != len(songs.All) {
		t.Fatalf("songs = %d, want %d", len(list), len(songs.All))
	}
	for _, s := range list {
		if s.ID == "twinkle_star" && (s.BPM != 100 || s.Meter != "4/4" || s.Beats != 48) {
			t.Errorf("twinkle_star = %+v", s)
		}
	}
}

func TestDemoRender(t *testing.T) {
	setupTestEnv(t)
	dir := t.TempDir()
	mid := filepath.Join(dir, "tigers.mid")
	out := filepath.Join(dir, "tigers.wav")

	_, stderr, code := runCmd(t, "demo", "two_tigers", out, "--midi", mid, "--metronome", "--no-cache")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	data, err := os.ReadFile(mid)
	if err != nil {
		t.Fatal(err)
	}
	seq, err := smf.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode written MIDI: %v", err)
	}
	perc := 0
	for _, e := range seq.Events {
		if e.Kind == smf.NoteOn && e.Channel == songs.MetronomeChannel {
			perc++
		}
	}
	if perc == 0 {
		t.Error("metronome track has no clicks")
	}

	info, _ := readWAV(t, out)
	want := songs.SongTwoTigers.Duration() + 1
	if info.Duration < want-0.01 || info.Duration > want+0.01 {
		t.Errorf("duration = %v, want %v", info.Duration, want)
	}
}

func TestDemoMIDIOnly(t *testing.T) {
	setupTestEnv(t)
	dir := t.TempDir()
	mid := filepath.Join(dir, "scale.mid")

	_, stderr, code := runCmd(t, "demo", "scale_c_major", filepath.Join(dir, "scale.wav"), "--midi", mid, "--midi-only")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if _, err := os.Stat(mid); err != nil {
		t.Errorf("midi not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scale.wav")); !os.IsNotExist(err) {
		t.Errorf("wav should not be written, stat err = %v", err)
	}
}

func TestDemoErrors(t *testing.T) {
	setupTestEnv(t)

	for _, args := range [][]string{
		{"demo", "no_such_song"},
		{"demo", "scale_c_major", "--midi-only"},
	} {
		if _, _, code := runCmd(t, args...); code == 0 {
			t.Errorf("%v: expected non-zero exit", args)
		}
	}
}
