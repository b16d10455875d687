package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/midisynth/pkg/cli"
	"github.com/haivivi/midisynth/pkg/render"
	"github.com/haivivi/midisynth/pkg/songs"
)

var (
	demoMIDI      string
	demoMIDIOnly  bool
	demoMetronome bool
)

var demoCmd = &cobra.Command{
	Use:   "demo [song] [output.wav]",
	Short: "List, write or render the built-in songs",
	Long: `Without arguments, list the built-in songs.

With a song id, render it to <song>.wav or the given output. --midi also
writes the generated Standard MIDI File; --midi-only skips rendering.
--metronome adds a click track on channel 10.

Examples:
  midisynth demo
  midisynth demo twinkle_star
  midisynth demo two_tigers tigers.wav --metronome
  midisynth demo scale_c_major --midi scale.mid --midi-only`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listSongs()
		}
		song := songs.ByID(args[0])
		if song == nil {
			return fmt.Errorf("unknown song %q (available: %s)", args[0], strings.Join(songs.IDs(), ", "))
		}
		output := song.ID + ".wav"
		if len(args) == 2 {
			output = args[1]
		}

		data, err := song.SMF(demoMetronome)
		if err != nil {
			return err
		}
		if demoMIDI != "" {
			if err := cli.OutputBytes(data, demoMIDI); err != nil {
				return err
			}
			cli.PrintSuccess("MIDI written to %s", demoMIDI)
		}
		if demoMIDIOnly {
			if demoMIDI == "" {
				return errors.New("--midi-only needs --midi")
			}
			return nil
		}

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

		ctx := cmd.Context()
		res, err := r.Render(ctx, data)
		if err != nil {
			return fmt.Errorf("%s: %w", song.ID, err)
		}
		if err := render.WriteURI(ctx, output, profile.S3Config(), res); err != nil {
			return fmt.Errorf("%s: %w", output, err)
		}
		sum := res.Summary(r.PercussionChannel())
		sum.Output = output
		return printSummary(song.Name, &sum)
	},
}

func init() {
	demoCmd.Flags().StringVar(&demoMIDI, "midi", "", "also write the MIDI file to this path")
	demoCmd.Flags().BoolVar(&demoMIDIOnly, "midi-only", false, "write the MIDI file only")
	demoCmd.Flags().BoolVar(&demoMetronome, "metronome", false, "add a metronome track")
	rootCmd.AddCommand(demoCmd)
}

type songInfo struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	BPM     int     `json:"bpm" yaml:"bpm"`
	Meter   string  `json:"meter" yaml:"meter"`
	Beats   float64 `json:"beats" yaml:"beats"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
}

func listSongs() error {
	list := make([]songInfo, 0, len(songs.All))
	for _, s := range songs.All {
		list = append(list, songInfo{
			ID:      s.ID,
			Name:    s.Name,
			BPM:     s.Tempo.BPM,
			Meter:   fmt.Sprintf("%d/%d", s.Tempo.Signature.BeatsPerBar, s.Tempo.Signature.BeatUnit),
			Beats:   s.TotalBeats(),
			Seconds: s.Duration(),
		})
	}
	if formatOutput == "" && queryExpr == "" {
		return cli.Output(list, cli.OutputOptions{Format: cli.FormatTable})
	}
	return outputResult(list)
}
