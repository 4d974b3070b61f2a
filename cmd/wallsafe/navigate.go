package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacksmith/wallsafe/internal/cli"
	"github.com/jacksmith/wallsafe/internal/control"
	"github.com/jacksmith/wallsafe/internal/rotation"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:     "next",
	Aliases: []string{"n"},
	Short:   "Show the next wallpaper",
	Long: `Pick a random keyword and show the wallpaper after the last one shown
for it, wrapping to the newest file at the end of the playlist.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

var prevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"p", "previous"},
	Short:   "Show the previous wallpaper",
	Long: `Pick a random keyword and show the wallpaper before the last one shown
for it, wrapping to the oldest file at the start of the playlist.`,
	Args: cobra.NoArgs,
	RunE: runPrev,
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the current wallpaper and show another",
	Long: `Delete the wallpaper on screen and move on to the next one.

With 'wallsafe run' active the daemon deletes the wallpaper it is showing.
Without a daemon nothing has been shown by this process yet, so delete first
advances to a wallpaper and deletes that one.`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart every keyword's playlist from the beginning",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(resetCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	return advance(rotation.Next)
}

func runPrev(cmd *cobra.Command, args []string) error {
	return advance(rotation.Previous)
}

// advance moves the running daemon's engine, or a local one when no daemon
// is listening.
func advance(dir rotation.Direction) error {
	return withApp(func(a *app) error {
		sel, err := a.daemon.Advance(context.Background(), dir)
		if errors.Is(err, control.ErrNotRunning) {
			sel, err = a.engine.Advance(dir)
		}
		if err != nil {
			return err
		}
		printSelection(a, sel)
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		del, err := a.daemon.Delete(context.Background())
		if errors.Is(err, control.ErrNotRunning) {
			a.log.Debug("wallsafe: no daemon, deleting locally")
			del, err = a.engine.DeleteCurrent()
		}
		if err != nil {
			return err
		}
		if del.Deleted != "" {
			fmt.Printf("%s %s\n", cli.Red("Deleted"), cli.HomePath(del.Deleted))
		}
		printSelection(a, del.Next)
		return nil
	})
}

func runReset(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		if err := a.engine.ResetAllCursors(); err != nil {
			return err
		}
		fmt.Printf("Reset %d keyword(s)\n", len(a.index.Keywords()))
		return nil
	})
}

func printSelection(a *app, sel rotation.Selection) {
	if sel.Empty() {
		if len(a.index.Keywords()) == 0 {
			fmt.Println("No keywords configured. Add one with 'wallsafe keywords add'.")
		} else {
			fmt.Println("Nothing to show.")
		}
		return
	}

	line := fmt.Sprintf("%s %s #%d  %s", cli.Green("Showing"), sel.Keyword, sel.Index, cli.HomePath(sel.Path))
	if !sel.Painted {
		line += "  " + cli.Yellow("(desktop not updated)")
	}
	fmt.Println(line)
}
