package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/midisynth/pkg/cli"
	"github.com/haivivi/midisynth/pkg/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage render profiles",
	Long: `Manage named render profiles stored in ~/.midisynth/config.yaml.

A profile holds render settings (sample rate, output rate, gain, workers,
hanging note policy, cache and S3 settings). The current profile is used
when no -p/--profile flag is given. Flags on the command line override
profile values.

Examples:
  midisynth config add hq --rate 48000 --workers 8
  midisynth config add remote --s3-endpoint http://localhost:9000 --s3-path-style
  midisynth config use hq
  midisynth config list
  midisynth config show hq --format json
  midisynth config delete remote`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println(cfg.Path())
		return nil
	},
}

type profileRow struct {
	Name    string  `json:"name" yaml:"name"`
	Current bool    `json:"current" yaml:"current"`
	Rate    int     `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	Output  int     `json:"output_rate,omitempty" yaml:"output_rate,omitempty"`
	BPM     float64 `json:"bpm,omitempty" yaml:"bpm,omitempty"`
	Hanging string  `json:"hanging,omitempty" yaml:"hanging,omitempty"`
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		names := cfg.ListProfiles()
		if len(names) == 0 {
			cli.PrintInfo("No profiles configured. Use 'midisynth config add <name>' to create one.")
			return nil
		}
		rows := make([]profileRow, 0, len(names))
		for _, name := range names {
			p := cfg.Profiles[name]
			rows = append(rows, profileRow{
				Name:    name,
				Current: name == cfg.CurrentProfile,
				Rate:    p.SampleRate,
				Output:  p.OutputRate,
				BPM:     p.BPM,
				Hanging: p.Hanging,
			})
		}
		if formatOutput == "" && queryExpr == "" {
			return cli.Output(rows, cli.OutputOptions{Format: cli.FormatTable})
		}
		return outputResult(rows)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a profile (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := profileName
		if len(args) == 1 {
			name = args[0]
		}
		p, err := cfg.ResolveProfile(name)
		if err != nil {
			return err
		}
		return outputResult(p)
	},
}

var (
	addCacheTTL    string
	addS3Endpoint  string
	addS3Region    string
	addS3PathStyle bool
	addUse         bool
)

var configAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a profile",
	Long: `Add or replace a profile. Render flags (--rate, --output-rate, --gain,
--bpm, --workers, --hanging, --no-cache, --cache-dir) given on this command
are stored in the profile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p := &cli.Profile{
			SampleRate: sampleRate,
			OutputRate: outputRate,
			Gain:       gain,
			BPM:        bpm,
			Workers:    workers,
			Hanging:    hanging,
			NoCache:    noCache,
			CacheDir:   cacheDir,
			CacheTTL:   addCacheTTL,
		}
		if addS3Endpoint != "" || addS3Region != "" || addS3PathStyle {
			p.S3 = &storage.S3Config{
				Endpoint:  addS3Endpoint,
				Region:    addS3Region,
				PathStyle: addS3PathStyle,
			}
		}
		name := args[0]
		if addUse || len(cfg.Profiles) == 0 {
			cfg.CurrentProfile = name
		}
		if err := cfg.AddProfile(name, p); err != nil {
			return err
		}
		cli.PrintSuccess("Profile %q saved to %s", name, cfg.Path())
		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Now using profile %q", args[0])
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Profile %q deleted", args[0])
		return nil
	},
}

func init() {
	configAddCmd.Flags().StringVar(&addCacheTTL, "cache-ttl", "", "expire cache entries after this duration, e.g. 72h")
	configAddCmd.Flags().StringVar(&addS3Endpoint, "s3-endpoint", "", "S3 endpoint URL")
	configAddCmd.Flags().StringVar(&addS3Region, "s3-region", "", "S3 region")
	configAddCmd.Flags().BoolVar(&addS3PathStyle, "s3-path-style", false, "use path-style S3 addressing")
	configAddCmd.Flags().BoolVar(&addUse, "use", false, "make the profile current")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configUseCmd)
	configCmd.AddCommand(configDeleteCmd)
	rootCmd.AddCommand(configCmd)
}
