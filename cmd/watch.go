package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/kiln/internal/pubsub"
	"github.com/zjrosen/kiln/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Populate the registry and repopulate on manifest changes",
	Long: `Populate the registry, then watch the configured manifest directories
and repopulate whenever a registry.yaml file changes. Runs until
interrupted, printing a line per repopulation.

Watching uses lenient factory binding, like list and resolve. The
debounce_ms setting controls how long changes are coalesced before a
repopulation pass; set auto_reload: false to disable watch mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AutoReload {
			return fmt.Errorf("auto_reload is disabled in configuration")
		}
		if len(cfg.ManifestDirs) == 0 {
			return fmt.Errorf("watch requires at least one manifest directory")
		}

		svc, cleanup, err := newService(false)
		if err != nil {
			return err
		}
		defer cleanup()
		defer svc.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Subscribe before the first population pass so its
		// repopulated event is reported too.
		events := svc.Subscribe(ctx)

		if err := svc.Populate(ctx); err != nil {
			return err
		}
		if err := svc.Watch(ctx, watcher.Config{
			Dirs:        cfg.ManifestDirs,
			DebounceDur: cfg.Debounce(),
		}); err != nil {
			return err
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if ev.Type == pubsub.RepopulatedEvent {
					cmd.Printf("repopulated: %d entries\n", ev.Payload.Count)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
