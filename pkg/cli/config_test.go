package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/haivivi/midisynth/pkg/storage"
)

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if len(cfg.Profiles) != 0 || cfg.CurrentProfile != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
	// Loading must not create anything.
	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Errorf("config dir should not exist yet: %v", err)
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	err = cfg.AddProfile("hq", &Profile{
		SampleRate: 48000,
		Workers:    4,
		Hanging:    "close",
		CacheTTL:   "24h",
		S3:         &storage.S3Config{Endpoint: "http://localhost:9000", PathStyle: true},
	})
	if err != nil {
		t.Fatalf("AddProfile error: %v", err)
	}
	if err := cfg.AddProfile("fast", &Profile{SampleRate: 22050, NoCache: true}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseProfile("hq"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config mode = %o, want 600", perm)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if loaded.CurrentProfile != "hq" {
		t.Errorf("CurrentProfile = %q, want hq", loaded.CurrentProfile)
	}
	if got := loaded.ListProfiles(); !slices.Equal(got, []string{"fast", "hq"}) {
		t.Errorf("ListProfiles() = %v", got)
	}

	hq, err := loaded.GetProfile("hq")
	if err != nil {
		t.Fatal(err)
	}
	if hq.Name != "hq" || hq.SampleRate != 48000 || hq.Workers != 4 || hq.Hanging != "close" {
		t.Errorf("hq = %+v", hq)
	}
	if s3 := hq.S3Config(); s3.Endpoint != "http://localhost:9000" || !s3.PathStyle {
		t.Errorf("S3Config() = %+v", s3)
	}
	if ttl, err := hq.TTL(); err != nil || ttl != 24*time.Hour {
		t.Errorf("TTL() = %v, %v", ttl, err)
	}

	fast, _ := loaded.GetProfile("fast")
	if !fast.NoCache || fast.SampleRate != 22050 {
		t.Errorf("fast = %+v", fast)
	}
}

func TestConfig_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"current_profile: studio",
		"profiles:",
		"  studio:",
		"    sample_rate: 44100",
		"    output_rate: 48000",
		"    gain: 0.25",
		"  empty:",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	p, err := cfg.ResolveProfile("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "studio" || p.OutputRate != 48000 || p.Gain != 0.25 {
		t.Errorf("profile = %+v", p)
	}
	empty, err := cfg.GetProfile("empty")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Name != "empty" {
		t.Errorf("empty profile name = %q", empty.Name)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("profiles: [oops"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_ResolveProfile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	p, err := cfg.ResolveProfile("")
	if err != nil {
		t.Fatalf("ResolveProfile with no profiles: %v", err)
	}
	if *p != (Profile{}) {
		t.Errorf("expected zero profile, got %+v", p)
	}

	if _, err := cfg.ResolveProfile("missing"); err == nil {
		t.Error("expected error for missing profile")
	}

	if err := cfg.AddProfile("a", &Profile{Workers: 2}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseProfile("a"); err != nil {
		t.Fatal(err)
	}
	p, err = cfg.ResolveProfile("")
	if err != nil || p.Workers != 2 {
		t.Errorf("ResolveProfile(\"\") = %+v, %v", p, err)
	}
}

func TestConfig_DeleteProfile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddProfile("a", &Profile{}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseProfile("a"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.DeleteProfile("a"); err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentProfile != "" {
		t.Errorf("CurrentProfile = %q after delete", cfg.CurrentProfile)
	}
	if err := cfg.DeleteProfile("a"); err == nil {
		t.Error("expected error deleting missing profile")
	}
	if err := cfg.UseProfile("a"); err == nil {
		t.Error("expected error using missing profile")
	}
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"zero", Profile{}, false},
		{"full", Profile{SampleRate: 44100, OutputRate: 16000, Workers: 8, Hanging: "drop", CacheTTL: "1h", BPM: 96}, false},
		{"bad hanging", Profile{Hanging: "sustain"}, true},
		{"bad ttl", Profile{CacheTTL: "tomorrow"}, true},
		{"negative workers", Profile{Workers: -1}, true},
		{"negative bpm", Profile{BPM: -120}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_AddProfileRejects(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddProfile(" ", &Profile{}); err == nil {
		t.Error("expected error for blank name")
	}
	if err := cfg.AddProfile("x", &Profile{Hanging: "bogus"}); err == nil {
		t.Error("expected validation error")
	}
	if len(cfg.Profiles) != 0 {
		t.Errorf("rejected profiles were stored: %v", cfg.ListProfiles())
	}
}
