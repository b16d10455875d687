package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/haivivi/midisynth/pkg/storage"
	"github.com/haivivi/midisynth/pkg/timeline"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".midisynth"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Config is the on-disk configuration: a set of named render profiles and
// the one currently in use.
type Config struct {
	// CurrentProfile is the name of the profile used when none is given
	CurrentProfile string `yaml:"current_profile,omitempty"`

	// Profiles is a map of profile name to profile
	Profiles map[string]*Profile `yaml:"profiles,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Profile holds render settings. Zero fields keep the built-in defaults.
type Profile struct {
	Name string `json:"name" yaml:"name"`

	// SampleRate is the synthesis rate in Hz
	SampleRate int `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`

	// OutputRate resamples the result before writing (optional)
	OutputRate int `json:"output_rate,omitempty" yaml:"output_rate,omitempty"`

	// Gain replaces the per-note output gain (optional)
	Gain float64 `json:"gain,omitempty" yaml:"gain,omitempty"`

	// Workers is the number of render goroutines
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// BPM forces one tempo for the whole file (optional)
	BPM float64 `json:"bpm,omitempty" yaml:"bpm,omitempty"`

	// Hanging is the policy for notes without a note off: drop or close
	Hanging string `json:"hanging,omitempty" yaml:"hanging,omitempty"`

	// NoCache disables the render cache
	NoCache bool `json:"no_cache,omitempty" yaml:"no_cache,omitempty"`

	// CacheDir overrides the cache location
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`

	// CacheTTL expires cache entries, e.g. "72h" (optional)
	CacheTTL string `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`

	// S3 configures s3:// inputs and outputs
	S3 *storage.S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// Validate checks fields that are parsed later.
func (p *Profile) Validate() error {
	if _, err := timeline.ParseHangingPolicy(p.Hanging); err != nil {
		return err
	}
	if _, err := p.TTL(); err != nil {
		return err
	}
	if _, err := timeline.TempoForBPM(p.BPM); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	if p.SampleRate < 0 || p.OutputRate < 0 || p.Workers < 0 || p.Gain < 0 {
		return fmt.Errorf("profile %q: negative value", p.Name)
	}
	return nil
}

// TTL parses CacheTTL. An empty string means no expiry.
func (p *Profile) TTL() (time.Duration, error) {
	if p.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("profile %q: cache_ttl: %w", p.Name, err)
	}
	return d, nil
}

// S3Config returns the S3 settings, or the zero config.
func (p *Profile) S3Config() storage.S3Config {
	if p == nil || p.S3 == nil {
		return storage.S3Config{}
	}
	return *p.S3
}

// LoadConfig loads the configuration from path. An empty path means
// ~/.midisynth/config.yaml. A missing file yields an empty configuration;
// nothing is written until Save.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		paths, err := NewPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = paths.ConfigFile()
	}

	cfg := &Config{
		Profiles:   make(map[string]*Profile),
		configPath: path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Ensure profiles map is initialized
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}
	for name, p := range cfg.Profiles {
		if p == nil {
			p = &Profile{}
			cfg.Profiles[name] = p
		}
		p.Name = name
	}
	cfg.configPath = path

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(c.Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddProfile adds or replaces a profile
func (c *Config) AddProfile(name string, p *Profile) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("profile name is empty")
	}
	p.Name = name
	if err := p.Validate(); err != nil {
		return err
	}
	c.Profiles[name] = p
	return c.Save()
}

// DeleteProfile removes a profile
func (c *Config) DeleteProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return c.Save()
}

// UseProfile sets the current profile
func (c *Config) UseProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	c.CurrentProfile = name
	return c.Save()
}

// GetProfile returns a specific profile
func (c *Config) GetProfile(name string) (*Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// ResolveProfile returns the named profile, else the current profile, else
// an empty profile with built-in defaults.
func (c *Config) ResolveProfile(name string) (*Profile, error) {
	if name != "" {
		return c.GetProfile(name)
	}
	if c.CurrentProfile != "" {
		return c.GetProfile(c.CurrentProfile)
	}
	return &Profile{}, nil
}

// ListProfiles returns all profile names in sorted order
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
