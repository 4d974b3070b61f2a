package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/wallsafe/internal/cli"
	"github.com/jacksmith/wallsafe/internal/settings"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change rotation settings",
	Long: `Show or change rotation settings.

Accepted values:
  resolution         WIDTHxHEIGHT, e.g. 2560x1440
  dir                any directory; stored as an absolute path
  change-interval    30s, 5m, 2h, a bare number of seconds, or "10 minutes"
  download-interval  same format as change-interval; units are seconds,
                     minutes or hours
  mode               fill, fit, center or tile`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show rotation settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change rotation settings",
	Long: `Change one or more rotation settings. A running daemon picks up a new
change interval on its next preference reload.`,
	Example: `  wallsafe config set --change-interval 10m
  wallsafe config set --resolution 2560x1440 --dir ~/Pictures/Walls
  wallsafe config set --mode fit`,
	Args: cobra.NoArgs,
	RunE: runConfigSet,
}

var (
	configResolution       string
	configDir              string
	configChangeInterval   string
	configDownloadInterval string
	configMode             string
)

func init() {
	f := configSetCmd.Flags()
	f.StringVar(&configResolution, "resolution", "", "wallpaper resolution (WIDTHxHEIGHT)")
	f.StringVar(&configDir, "dir", "", "download directory holding one folder per keyword")
	f.StringVar(&configChangeInterval, "change-interval", "", "how often the wallpaper changes")
	f.StringVar(&configDownloadInterval, "download-interval", "", "how often new wallpapers are fetched")
	f.StringVar(&configMode, "mode", "", "how wallpapers are scaled: fill, fit, center or tile")
	configSetCmd.RegisterFlagCompletionFunc("mode", completeModes)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		cfg := a.settings.Snapshot()

		table := cli.NewTable()
		table.AddRow("resolution", cfg.Resolution)
		table.AddRow("dir", cli.HomePath(cfg.DirectoryPath))
		table.AddRow("change-interval", cfg.ChangeInterval.String())
		table.AddRow("download-interval", cfg.DownloadInterval.String())
		table.AddRow("mode", string(cfg.DesktopMode))
		table.AddRow("store", fmt.Sprintf("%s (%s)", a.cfg.Store, cli.HomePath(a.cfg.StateDir)))
		table.Render(os.Stdout)
		return nil
	})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configResolution == "" && configDir == "" && configChangeInterval == "" && configDownloadInterval == "" && configMode == "" {
		return &cli.ValidationError{Message: "nothing to change; pass at least one of --resolution, --dir, --change-interval, --download-interval, --mode"}
	}

	return withApp(func(a *app) error {
		if configResolution != "" {
			if err := a.settings.SetResolution(configResolution); err != nil {
				return &cli.ValidationError{Field: "resolution", Message: err.Error()}
			}
			fmt.Printf("resolution = %s\n", a.settings.Resolution())
		}

		if configDir != "" {
			if err := a.settings.SetDirectoryPath(expandHome(configDir)); err != nil {
				return &cli.ValidationError{Field: "dir", Message: err.Error()}
			}
			fmt.Printf("dir = %s\n", cli.HomePath(a.settings.DirectoryPath()))
		}

		if configChangeInterval != "" {
			iv, err := settings.ParseInterval(configChangeInterval)
			if err != nil {
				return &cli.ValidationError{Field: "change-interval", Message: err.Error()}
			}
			if err := a.settings.SetChangeInterval(iv); err != nil {
				return err
			}
			fmt.Printf("change-interval = %s\n", iv)
		}

		if configDownloadInterval != "" {
			iv, err := settings.ParseInterval(configDownloadInterval)
			if err != nil {
				return &cli.ValidationError{Field: "download-interval", Message: err.Error()}
			}
			if err := a.settings.SetDownloadInterval(iv); err != nil {
				return err
			}
			fmt.Printf("download-interval = %s\n", iv)
		}

		if configMode != "" {
			if err := a.settings.SetDesktopMode(configMode); err != nil {
				return &cli.ValidationError{Field: "mode", Message: err.Error()}
			}
			fmt.Printf("mode = %s\n", a.settings.DesktopMode())
		}
		return nil
	})
}

// expandHome turns a leading "~/" into the user's home directory.
func expandHome(path string) string {
	if path != "~" && !(len(path) > 1 && path[0] == '~' && os.IsPathSeparator(path[1])) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}
