package commands

import (
	"bytes"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/midisynth/pkg/audio/wav"
	"github.com/haivivi/midisynth/pkg/render"
	"github.com/haivivi/midisynth/pkg/smf"
	"github.com/haivivi/midisynth/pkg/timeline"
)

var (
	inspectNotes  bool
	inspectEvents bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the contents of a MIDI or WAV file",
	Long: `Decode a MIDI file and print its header, tempo map and note statistics,
or print the format of a WAV file. Files ending in .wav are read as WAV,
everything else as MIDI.

Examples:
  midisynth inspect song.mid
  midisynth inspect song.mid --notes --format json
  midisynth inspect song.mid --notes -q '[.notes[] | select(.channel == 9)] | length'
  midisynth inspect song.wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := loadProfile()
		if err != nil {
			return err
		}
		data, err := render.Load(cmd.Context(), args[0], profile.S3Config())
		if err != nil {
			return err
		}
		var info any
		if strings.EqualFold(path.Ext(args[0]), ".wav") {
			info, err = inspectWAV(args[0], data)
		} else {
			var opts render.Options
			if opts, err = renderOptions(profile); err == nil {
				info, err = inspectMIDI(args[0], data, opts)
			}
		}
		if err != nil {
			return err
		}
		return outputResult(info)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectNotes, "notes", false, "include every reconstructed note")
	inspectCmd.Flags().BoolVar(&inspectEvents, "events", false, "include every decoded event")
	rootCmd.AddCommand(inspectCmd)
}

type tempoChange struct {
	Tick  uint32  `json:"tick" yaml:"tick"`
	Tempo uint32  `json:"tempo" yaml:"tempo"`
	BPM   float64 `json:"bpm" yaml:"bpm"`
}

type midiInfo struct {
	File      string          `json:"file" yaml:"file"`
	Format    uint16          `json:"format" yaml:"format"`
	Tracks    uint16          `json:"tracks" yaml:"tracks"`
	Division  uint16          `json:"division" yaml:"division"`
	TrackEnds []uint32        `json:"track_ends" yaml:"track_ends"`
	EndTick   uint32          `json:"end_tick" yaml:"end_tick"`
	Events    int             `json:"events" yaml:"events"`
	Tempos    []tempoChange   `json:"tempos,omitempty" yaml:"tempos,omitempty"`
	ForcedBPM float64         `json:"forced_bpm,omitempty" yaml:"forced_bpm,omitempty"`
	Stats     timeline.Stats  `json:"stats" yaml:"stats"`
	Notes     []timeline.Note `json:"notes,omitempty" yaml:"notes,omitempty"`
	EventList []eventInfo     `json:"event_list,omitempty" yaml:"event_list,omitempty"`
}

type eventInfo struct {
	Tick     uint32 `json:"tick" yaml:"tick"`
	Kind     string `json:"kind" yaml:"kind"`
	Channel  uint8  `json:"channel" yaml:"channel"`
	Pitch    uint8  `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Velocity uint8  `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Tempo    uint32 `json:"tempo,omitempty" yaml:"tempo,omitempty"`
}

func inspectMIDI(name string, data []byte, opts render.Options) (*midiInfo, error) {
	seq, err := smf.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	tempo, err := timeline.TempoForBPM(opts.BPM)
	if err != nil {
		return nil, err
	}
	tl, err := timeline.Reconstruct(seq.Events, seq.Division,
		timeline.WithHangingNotes(opts.Hanging),
		timeline.WithTempoOverride(tempo),
	)
	if err != nil {
		return nil, err
	}
	tl.SortByStart()

	info := &midiInfo{
		File:      name,
		Format:    seq.Format,
		Tracks:    seq.Tracks,
		Division:  seq.Division,
		TrackEnds: seq.TrackEnds,
		EndTick:   seq.EndTick(),
		Events:    len(seq.Events),
		ForcedBPM: opts.BPM,
		Stats:     tl.Stats(opts.Synth.PercussionChannel),
	}
	for _, e := range seq.Events {
		if e.Kind == smf.SetTempo {
			info.Tempos = append(info.Tempos, tempoChange{Tick: e.Tick, Tempo: e.Tempo, BPM: e.BPM()})
		}
		if inspectEvents {
			info.EventList = append(info.EventList, eventInfo{
				Tick:     e.Tick,
				Kind:     e.Kind.String(),
				Channel:  e.Channel,
				Pitch:    e.Pitch,
				Velocity: e.Velocity,
				Tempo:    e.Tempo,
			})
		}
	}
	if inspectNotes {
		info.Notes = tl.Notes
	}
	return info, nil
}

type wavInfo struct {
	File       string  `json:"file" yaml:"file"`
	SampleRate uint32  `json:"sample_rate" yaml:"sample_rate"`
	Channels   uint16  `json:"channels" yaml:"channels"`
	Bits       uint16  `json:"bits" yaml:"bits"`
	Samples    int     `json:"samples" yaml:"samples"`
	Duration   float64 `json:"duration" yaml:"duration"`
	Peak       int     `json:"peak" yaml:"peak"`
}

func inspectWAV(name string, data []byte) (*wavInfo, error) {
	info, samples, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	peak := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		peak = max(peak, v)
	}
	return &wavInfo{
		File:       name,
		SampleRate: info.Header.SampleRate,
		Channels:   info.Header.Channels,
		Bits:       info.Header.BitsPerSample,
		Samples:    len(samples),
		Duration:   info.Duration,
		Peak:       peak,
	}, nil
}
