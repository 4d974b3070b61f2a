// Package main is the entry point for the wallsafe CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/wallsafe/internal/cli"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var (
	flagConfig  string
	flagDryRun  bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "wallsafe",
	Short: "wallsafe - rotate desktop wallpapers by keyword",
	Long: `wallsafe rotates the desktop wallpaper through folders of downloaded
images, one folder per search keyword.

Each keyword remembers where it is in its playlist, so restarting the
daemon continues from the last wallpaper shown. Run 'wallsafe run' to
rotate on a timer, or use next, prev and delete to navigate by hand.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			cli.SetColorEnabled(false)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("wallsafe version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default $HOME/.config/wallsafe/config.yml)")
	pf.BoolVar(&flagDryRun, "dry-run", false, "select wallpapers without changing the desktop")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colored output")
}
