// Package cli provides the shared pieces of the midisynth command line.
//
// This package includes:
//   - Configuration management (named render profiles)
//   - Output formatting (YAML, JSON, table, raw) with jq queries
//   - Batch job files (YAML/JSON)
//   - Styled summaries and logging setup
//
// Configuration is stored in ~/.midisynth/config.yaml.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("")
//	profile, err := cfg.ResolveProfile("")
//
//	cli.Output(summary, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    Query:  ".notes",
//	})
package cli
