package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/midisynth/pkg/cache"
	"github.com/haivivi/midisynth/pkg/cli"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show or clear the render cache",
	Long: `Rendered audio is cached by the hash of the input file and the render
settings, so rendering the same file twice with the same profile is
instant. The cache lives in ~/.midisynth/cache unless --cache-dir or the
profile's cache_dir says otherwise.`,
}

type cacheStats struct {
	Dir         string `json:"dir" yaml:"dir"`
	cache.Stats `yaml:",inline"`
	Size        string `json:"size" yaml:"size"`
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, dir, err := openCacheForCommand()
		if err != nil {
			return err
		}
		defer c.Close()

		st, err := c.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return outputResult(cacheStats{Dir: dir, Stats: st, Size: cli.FormatBytes(st.Bytes)})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached render",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCacheForCommand()
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Clear(cmd.Context())
		if err != nil {
			return err
		}
		cli.PrintSuccess("Removed %d cached renders", n)
		return nil
	},
}

func openCacheForCommand() (*cache.Cache, string, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, "", err
	}
	dir, err := cacheLocation(p)
	if err != nil {
		return nil, "", err
	}
	c, err := openCache(p)
	if err != nil {
		return nil, "", fmt.Errorf("open cache %s: %w", dir, err)
	}
	return c, dir, nil
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
