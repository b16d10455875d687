package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/midisynth/pkg/cli"
	"github.com/haivivi/midisynth/pkg/render"
)

var jobFile string

var renderCmd = &cobra.Command{
	Use:   "render [<input.mid> <output.wav>]",
	Short: "Render one file or a batch of jobs",
	Long: `Render a MIDI file to WAV, or every job listed in a job file.

A job file is YAML or JSON:

  profile: hq           # optional, default for all jobs
  jobs:
    - input: intro.mid
      output: out/intro.wav
    - input: s3://scores/theme.mid
      output: s3://renders/theme.wav
      profile: fast

Relative paths are resolved against the job file's directory. Jobs
without notes are skipped. The command fails if any job fails.

Examples:
  midisynth render song.mid song.wav
  midisynth render -f jobs.yaml
  midisynth render -f jobs.yaml --format json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if jobFile != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if jobFile != "" {
			return renderJobs(cmd.Context(), jobFile)
		}
		return renderFile(cmd.Context(), args[0], args[1])
	},
}

func init() {
	renderCmd.Flags().StringVarP(&jobFile, "file", "f", "", "job file (YAML or JSON, - for stdin)")
	rootCmd.AddCommand(renderCmd)
}

// jobResult is one line of the batch report.
type jobResult struct {
	Input   string          `json:"input" yaml:"input"`
	Output  string          `json:"output" yaml:"output"`
	Status  string          `json:"status" yaml:"status"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
	Summary *render.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

const (
	statusOK      = "ok"
	statusCached  = "cached"
	statusNoNotes = "no notes"
	statusFailed  = "failed"
)

// renderJobs runs every job in path one after another. Each render already
// uses all workers.
func renderJobs(ctx context.Context, path string) error {
	jf, err := cli.LoadJobs(path)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base, err := cfg.ResolveProfile(profileName)
	if err != nil {
		return err
	}
	env, err := newRenderEnv(base)
	if err != nil {
		return err
	}
	defer env.Close()

	results := make([]jobResult, 0, len(jf.Jobs))
	failed := 0
	for i, job := range jf.Jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		jr := jobResult{Input: job.Input, Output: job.Output}
		cli.PrintVerbose(verbose, "job %d/%d: %s", i+1, len(jf.Jobs), job.Input)

		sum, err := runJob(ctx, env, cfg, base, job)
		switch {
		case errors.Is(err, render.ErrNoNotes):
			jr.Status = statusNoNotes
		case err != nil:
			jr.Status = statusFailed
			jr.Error = err.Error()
			failed++
		default:
			jr.Status = statusOK
			if sum.Cached {
				jr.Status = statusCached
			}
			jr.Summary = sum
		}
		results = append(results, jr)
	}

	if formatOutput != "" || queryExpr != "" {
		if err := outputResult(results); err != nil {
			return err
		}
	} else {
		printJobTable(results)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jf.Jobs))
	}
	return nil
}

func runJob(ctx context.Context, env *renderEnv, cfg *cli.Config, base *cli.Profile, job cli.Job) (*render.Summary, error) {
	p := base
	if job.Profile != "" && job.Profile != base.Name {
		var err error
		if p, err = cfg.GetProfile(job.Profile); err != nil {
			return nil, err
		}
	}
	r, err := env.renderer(p)
	if err != nil {
		return nil, err
	}
	return renderJob(ctx, r, p, job.Input, job.Output)
}

func printJobTable(results []jobResult) {
	rows := make([]map[string]any, 0, len(results))
	for _, jr := range results {
		row := map[string]any{
			"input":  jr.Input,
			"output": jr.Output,
			"status": jr.Status,
		}
		if jr.Summary != nil {
			row["notes"] = jr.Summary.Notes.Notes
			row["seconds"] = cli.FormatSeconds(jr.Summary.Seconds)
		}
		if jr.Error != "" {
			row["status"] = jr.Status + ": " + jr.Error
		}
		rows = append(rows, row)
	}
	if err := cli.Output(rows, cli.OutputOptions{Format: cli.FormatTable}); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
