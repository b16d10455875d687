package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haivivi/midisynth/pkg/cli"
	"github.com/haivivi/midisynth/pkg/render"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	profileName  string
	formatOutput string
	queryExpr    string

	// Render flags, shared by every command that renders. Zero values leave
	// the profile setting alone.
	sampleRate int
	outputRate int
	workers    int
	hanging    string
	gain       float64
	bpm        float64
	noCache    bool
	cacheDir   string
)

var rootCmd = &cobra.Command{
	Use:   "midisynth [flags] <input.mid> <output.wav>",
	Short: "Render Standard MIDI Files to WAV with a small additive synth",
	Long: `midisynth - Render Standard MIDI Files to 16-bit mono WAV.

Every note is a stack of four harmonics with a short linear attack and
release. Channel 10 plays a fixed low click. The mix is normalized and
written as PCM at 44.1 kHz unless another rate is configured.

Inputs and outputs may be local paths or s3://bucket/key URIs.

Render settings come from the current profile in ~/.midisynth/config.yaml
and can be overridden with flags.

Examples:
  # Render a file
  midisynth song.mid song.wav

  # Render at 48 kHz with a named profile
  midisynth -p hq --output-rate 48000 song.mid song.wav

  # Force 90 BPM
  midisynth --bpm 90 song.mid song.wav

  # Render a batch
  midisynth render -f jobs.yaml

  # Look inside a file
  midisynth inspect song.mid --notes --query '.notes | length'`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(cli.NewLogger(os.Stderr, verbose))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return cmd.Help()
		}
		return renderFile(cmd.Context(), args[0], args[1])
	},
}

// Execute runs the root command. An interrupt cancels the running render.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&configPath, "config", "", "config file (default ~/.midisynth/config.yaml)")
	pf.StringVarP(&profileName, "profile", "p", "", "render profile (default: current profile)")
	pf.StringVarP(&formatOutput, "format", "o", "", "output format: yaml, json, table, raw")
	pf.StringVarP(&queryExpr, "query", "q", "", "jq expression applied to structured output")

	pf.IntVar(&sampleRate, "rate", 0, "synthesis sample rate in Hz (default 44100)")
	pf.IntVar(&outputRate, "output-rate", 0, "resample the result to this rate before writing")
	pf.IntVar(&workers, "workers", 0, "render goroutines (default: number of CPUs)")
	pf.StringVar(&hanging, "hanging", "", "notes without a note off: drop or close (default drop)")
	pf.Float64Var(&gain, "gain", 0, "per-note gain before velocity scaling (default 0.3)")
	pf.Float64VarP(&bpm, "bpm", "b", 0, "time the whole file at this tempo, ignoring its tempo events")
	pf.BoolVar(&noCache, "no-cache", false, "do not read or write the render cache")
	pf.StringVar(&cacheDir, "cache-dir", "", "render cache directory (default ~/.midisynth/cache)")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// renderFile renders one input to one output and prints a summary. A file
// without notes is reported and produces no output.
func renderFile(ctx context.Context, input, output string) error {
	profile, err := loadProfile()
	if err != nil {
		return err
	}
	env, err := newRenderEnv(profile)
	if err != nil {
		return err
	}
	defer env.Close()

	r, err := env.renderer(profile)
	if err != nil {
		return err
	}
	sum, err := renderJob(ctx, r, profile, input, output)
	if errors.Is(err, render.ErrNoNotes) {
		cli.PrintWarning("No notes found")
		return nil
	}
	if err != nil {
		return err
	}
	return printSummary(input, sum)
}

// renderJob loads, renders and writes one file.
func renderJob(ctx context.Context, r *render.Renderer, profile *cli.Profile, input, output string) (*render.Summary, error) {
	s3 := profile.S3Config()
	data, err := render.Load(ctx, input, s3)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	res, err := r.Render(ctx, data)
	if err != nil {
		if errors.Is(err, render.ErrNoNotes) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	if err := render.WriteURI(ctx, output, s3, res); err != nil {
		return nil, fmt.Errorf("%s: %w", output, err)
	}
	sum := res.Summary(r.PercussionChannel())
	sum.Output = output
	return &sum, nil
}

// printSummary prints a render summary as a panel, or in the requested
// format when --format or --query is given.
func printSummary(title string, sum *render.Summary) error {
	if formatOutput != "" || queryExpr != "" {
		return outputResult(sum)
	}
	fields := []cli.Field{
		{Label: "Notes", Value: fmt.Sprintf("%d", sum.Notes.Notes)},
		{Label: "Duration", Value: cli.FormatSeconds(sum.Seconds)},
		{Label: "Rate", Value: fmt.Sprintf("%d Hz", sum.SampleRate)},
		{Label: "Samples", Value: fmt.Sprintf("%d", sum.Samples)},
	}
	if sum.Notes.Percussion > 0 {
		fields = append(fields, cli.Field{Label: "Percussion", Value: fmt.Sprintf("%d", sum.Notes.Percussion)})
	}
	footer := "written to " + sum.Output
	if sum.Cached {
		footer += " (cached)"
	}
	fmt.Println(cli.Panel{
		Styles:   cli.NewStyles(cli.DefaultTheme),
		Title:    title,
		Fields:   fields,
		Footer:   footer,
		MaxWidth: 72,
	}.Render())
	return nil
}

// outputResult writes v using the global --format and --query flags.
// YAML is the default.
func outputResult(v any) error {
	format := cli.OutputFormat(formatOutput)
	if format == "" {
		format = cli.FormatYAML
	}
	return cli.Output(v, cli.OutputOptions{
		Format: format,
		Query:  queryExpr,
	})
}
