package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jacksmith/wallsafe/internal/control"
	"github.com/jacksmith/wallsafe/internal/rotation"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rotate the wallpaper on the configured interval",
	Long: `Run in the foreground and change the wallpaper every change interval.

The preference store is re-read periodically, so 'wallsafe config set
--change-interval' and keyword edits made from another terminal apply
without a restart. While it runs, 'wallsafe next', 'prev' and 'delete'
act on the wallpaper this process is showing. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runNow         bool
	runReloadEvery time.Duration
)

func init() {
	runCmd.Flags().BoolVar(&runNow, "now", false, "change the wallpaper immediately on start")
	runCmd.Flags().DurationVar(&runReloadEvery, "reload-every", 0, "how often to re-read preferences (default from config, 5s)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(func(a *app) error {
		every := a.cfg.ReloadEvery
		if runReloadEvery > 0 {
			every = runReloadEvery
		}
		return daemon(ctx, a, runNow, every)
	})
}

// daemon starts the engine, serves control requests from other commands and
// keeps the engine in step with the preference store until ctx is done.
func daemon(ctx context.Context, a *app, now bool, reloadEvery time.Duration) error {
	ln, err := control.Listen(a.socketPath())
	if err != nil {
		return err
	}

	if err := a.engine.Start(); err != nil {
		ln.Close()
		return err
	}
	defer a.engine.Stop()

	if now {
		if _, err := a.engine.Advance(rotation.Next); err != nil {
			a.log.Error("wallsafe: initial change failed", "error", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return control.NewServer(a.engine, a.log).Serve(gctx, ln)
	})
	g.Go(func() error {
		watchPrefs(gctx, a, reloadEvery)
		return nil
	})

	a.log.Info("wallsafe: running",
		"interval", a.settings.ChangeInterval().String(),
		"keywords", len(a.index.Keywords()),
		"dir", a.settings.DirectoryPath())

	err = g.Wait()
	a.log.Info("wallsafe: stopped")
	return err
}

// watchPrefs polls the preference store for edits made by other processes
// and re-arms the scheduler when the change interval moved.
func watchPrefs(ctx context.Context, a *app, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	last := a.settings.ChangeInterval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := a.reload(); err != nil {
			a.log.Warn("wallsafe: reload preferences failed", "error", err)
			continue
		}
		a.engine.Reload()

		iv := a.settings.ChangeInterval()
		if iv == last {
			continue
		}
		if err := a.engine.UpdateInterval(); err != nil {
			a.log.Error("wallsafe: update interval failed", "interval", iv.String(), "error", err)
			continue
		}
		last = iv
	}
}
