package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRequest loads a request from a YAML or JSON file into the provided
// struct. The path "-" reads from stdin.
func LoadRequest(path string, v any) error {
	if path == "-" {
		return LoadRequestFromStdin(v)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return ParseRequest(data, path, v)
}

// ParseRequest parses request data based on file extension or content
func ParseRequest(data []byte, filename string, v any) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, v); err != nil {
			if err2 := json.Unmarshal(data, v); err2 != nil {
				return fmt.Errorf("failed to parse file (tried YAML and JSON)")
			}
		}
	}

	return nil
}

// LoadRequestFromStdin loads a request from stdin
func LoadRequestFromStdin(v any) error {
	return loadRequestFrom(os.Stdin, v)
}

func loadRequestFrom(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	// Try JSON first for stdin, then YAML
	if err := json.Unmarshal(data, v); err != nil {
		if err2 := yaml.Unmarshal(data, v); err2 != nil {
			return fmt.Errorf("failed to parse input (tried JSON and YAML)")
		}
	}

	return nil
}

// Job is one input/output pair of a batch render.
type Job struct {
	Input   string `yaml:"input" json:"input"`
	Output  string `yaml:"output" json:"output"`
	Profile string `yaml:"profile,omitempty" json:"profile,omitempty"`
}

// JobFile is the document read by `render -f`.
type JobFile struct {
	// Profile applies to jobs that do not name one
	Profile string `yaml:"profile,omitempty" json:"profile,omitempty"`
	Jobs    []Job  `yaml:"jobs" json:"jobs"`
}

// LoadJobs reads a job file and fills in defaults. Relative paths are
// resolved against the job file's directory.
func LoadJobs(path string) (*JobFile, error) {
	var jf JobFile
	if err := LoadRequest(path, &jf); err != nil {
		return nil, err
	}
	if len(jf.Jobs) == 0 {
		return nil, fmt.Errorf("%s: no jobs", path)
	}
	base := "."
	if path != "-" {
		base = filepath.Dir(path)
	}
	for i := range jf.Jobs {
		j := &jf.Jobs[i]
		if j.Input == "" || j.Output == "" {
			return nil, fmt.Errorf("%s: job %d needs input and output", path, i)
		}
		j.Input = resolveJobPath(base, j.Input)
		j.Output = resolveJobPath(base, j.Output)
		if j.Profile == "" {
			j.Profile = jf.Profile
		}
	}
	return &jf, nil
}

func resolveJobPath(base, p string) string {
	if strings.Contains(p, "://") || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
