// Package main is the entry point for the midisynth CLI.
//
// Usage:
//
//	midisynth [flags] <input.mid> <output.wav>
//	midisynth [flags] <command> [args]
//
// Commands:
//
//	render     - Render one file or a batch job file
//	inspect    - Show the contents of a MIDI or WAV file
//	demo       - Write or render a built-in song
//	config     - Manage render profiles
//	cache      - Show or clear the render cache
//	version    - Show version information
package main

import (
	"os"

	"github.com/haivivi/midisynth/cmd/midisynth/commands"
	"github.com/haivivi/midisynth/pkg/cli"
)

func main() {
	if err := commands.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
