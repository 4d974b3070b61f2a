package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jacksmith/wallsafe/internal/cli"
	"github.com/jacksmith/wallsafe/internal/control"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show rotation settings and where each keyword's playlist stands",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		cfg := a.settings.Snapshot()

		fmt.Printf("Directory:  %s\n", cli.HomePath(cfg.DirectoryPath))
		fmt.Printf("Resolution: %s\n", cfg.Resolution)
		fmt.Printf("Change:     every %s\n", cfg.ChangeInterval)
		fmt.Printf("Download:   every %s\n", cfg.DownloadInterval)
		fmt.Printf("Mode:       %s\n", cfg.DesktopMode)
		fmt.Printf("Daemon:     %s\n", daemonStatus(a))
		fmt.Println()

		keywords := a.index.Keywords()
		if len(keywords) == 0 {
			fmt.Println("No keywords configured.")
			return nil
		}

		table := cli.NewTable("KEYWORD", "CURSOR", "FILES", "LAST SHOWN")
		for _, kw := range keywords {
			cursor := a.index.Get(kw)
			entries, err := a.catalog.List(kw)
			if err != nil {
				a.log.Warn("wallsafe: list failed", "keyword", kw, "error", err)
			}

			shown := cli.Gray("-")
			if cursor >= 0 && cursor < len(entries) {
				shown = entries[cursor].Name
			}
			files := fmt.Sprintf("%d", len(entries))
			if len(entries) == 0 {
				files = cli.Yellow("0")
			}
			table.AddRow(kw, cli.Cursor(cursor), files, shown)
		}
		table.Render(os.Stdout)
		return nil
	})
}

func daemonStatus(a *app) string {
	st, err := a.daemon.State(context.Background())
	switch {
	case errors.Is(err, control.ErrNotRunning):
		return cli.Gray("not running")
	case err != nil:
		return cli.Red("unreachable") + " (" + err.Error() + ")"
	case st.CurrentPath == "":
		return cli.Green("running") + ", nothing shown yet"
	}
	return fmt.Sprintf("%s, showing %s", cli.Green("running"), cli.HomePath(st.CurrentPath))
}
