package commands

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/haivivi/midisynth/pkg/cache"
	"github.com/haivivi/midisynth/pkg/cli"
	"github.com/haivivi/midisynth/pkg/render"
	"github.com/haivivi/midisynth/pkg/timeline"
)

func loadConfig() (*cli.Config, error) {
	return cli.LoadConfig(configPath)
}

// loadProfile resolves --profile, else the current profile, else defaults.
func loadProfile() (*cli.Profile, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.ResolveProfile(profileName)
}

// renderOptions merges defaults, the profile and the command line flags,
// in that order.
func renderOptions(p *cli.Profile) (render.Options, error) {
	opts := render.DefaultOptions()
	opts.Logger = slog.Default()

	rate := firstNonZero(sampleRate, p.SampleRate)
	if rate != 0 {
		opts.Synth.SampleRate = rate
	}
	if g := firstNonZero(gain, p.Gain); g != 0 {
		opts.Synth.Gain = g
	}
	opts.Synth.Workers = firstNonZero(workers, p.Workers, runtime.NumCPU())
	opts.OutputRate = firstNonZero(outputRate, p.OutputRate)
	opts.BPM = firstNonZero(bpm, p.BPM)

	name := hanging
	if name == "" {
		name = p.Hanging
	}
	policy, err := timeline.ParseHangingPolicy(name)
	if err != nil {
		return opts, err
	}
	opts.Hanging = policy
	return opts, nil
}

func firstNonZero[T int | float64](vs ...T) T {
	for _, v := range vs {
		if v != 0 {
			return v
		}
	}
	return 0
}

// cacheLocation returns --cache-dir, the profile's cache_dir or
// ~/.midisynth/cache.
func cacheLocation(p *cli.Profile) (string, error) {
	if cacheDir != "" {
		return cacheDir, nil
	}
	if p != nil && p.CacheDir != "" {
		return p.CacheDir, nil
	}
	paths, err := cli.NewPaths()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return paths.CacheDir(), nil
}

func openCache(p *cli.Profile) (*cache.Cache, error) {
	ttl, err := p.TTL()
	if err != nil {
		return nil, err
	}
	dir, err := cacheLocation(p)
	if err != nil {
		return nil, err
	}
	return cache.Open(dir, ttl, slog.Default())
}

// renderEnv holds what a command shares across renders: the open cache and
// one renderer per profile.
type renderEnv struct {
	cache     *cache.Cache
	renderers map[string]*render.Renderer
}

// newRenderEnv opens the render cache unless caching is disabled. A cache
// that cannot be opened, e.g. because another process holds it, is logged
// and rendering continues without it.
func newRenderEnv(p *cli.Profile) (*renderEnv, error) {
	env := &renderEnv{renderers: make(map[string]*render.Renderer)}
	if noCache || p.NoCache {
		return env, nil
	}
	c, err := openCache(p)
	if err != nil {
		if _, ttlErr := p.TTL(); ttlErr != nil {
			return nil, ttlErr
		}
		slog.Warn("render cache disabled", "error", err)
		return env, nil
	}
	env.cache = c
	return env, nil
}

// renderer returns the renderer for p, creating it on first use.
func (env *renderEnv) renderer(p *cli.Profile) (*render.Renderer, error) {
	if r, ok := env.renderers[p.Name]; ok {
		return r, nil
	}
	opts, err := renderOptions(p)
	if err != nil {
		return nil, err
	}
	if !p.NoCache {
		opts.Cache = env.cache
	}
	r, err := render.New(opts)
	if err != nil {
		return nil, err
	}
	env.renderers[p.Name] = r
	return r, nil
}

func (env *renderEnv) Close() error {
	if env.cache == nil {
		return nil
	}
	return env.cache.Close()
}
