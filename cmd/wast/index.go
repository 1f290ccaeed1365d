package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wa-stats/internal/index"
	"github.com/Zuo-Peng/wa-stats/internal/watch"
)

// settle is how long the watcher waits for a burst of writes (an export
// being copied in) to finish before re-indexing.
const settle = 500 * time.Millisecond

func indexCmd(debug *bool) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Parse changed chat exports into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*debug)
			if err != nil {
				return err
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			run := func() error {
				st, err := index.IndexAll(db, a.cfg.ChatsDir, a.cfg.ParseOptions(), a.log)
				if err != nil {
					return fmt.Errorf("index: %w", err)
				}
				fmt.Fprintf(os.Stderr, "%s: %s\n", a.cfg.ChatsDir, st)
				return nil
			}

			if err := run(); err != nil {
				return err
			}
			if !follow {
				return nil
			}

			w, err := watch.New(a.cfg.ChatsDir, a.log)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return indexOnChange(ctx, w.Events(), run)
		},
	}

	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "Keep running and re-index when exports change")

	return cmd
}

// indexOnChange calls run once per burst of events until ctx is done or
// events is closed.
func indexOnChange(ctx context.Context, events <-chan watch.Event, run func() error) error {
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			timer = time.After(settle)
		case <-timer:
			timer = nil
			if err := run(); err != nil {
				return err
			}
		}
	}
}
