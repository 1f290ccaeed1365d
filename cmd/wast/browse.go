package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wa-stats/internal/tui"
	"github.com/Zuo-Peng/wa-stats/internal/watch"
)

func browseCmd(debug *bool) *cobra.Command {
	var noWatch bool
	var topWords int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse chats and their statistics interactively",
		Long: `Open a two-pane browser: chats on the left, the selected chat's report
on the right. Tab cycles the person filter, Enter copies the report.
Exports changed on disk are re-parsed while the browser is open.`,
		Args: cobra.NoArgs,
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

			a.refresh(db)

			ro, err := a.reportOptions("")
			if err != nil {
				return err
			}
			ro.TopWords = topWords

			opts := tui.Options{
				ChatsDir: a.cfg.ChatsDir,
				Parse:    a.cfg.ParseOptions(),
				Report:   ro,
				Log:      a.log,
			}

			if !noWatch {
				w, err := watch.New(a.cfg.ChatsDir, a.log)
				if err != nil {
					// the browser still works, just without live reload
					a.log.Warn("watch disabled", "dir", a.cfg.ChatsDir, "err", err)
				} else {
					defer w.Close()
					opts.Events = w.Events()
				}
			}

			return tui.Browse(db, opts)
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload exports that change on disk")
	cmd.Flags().IntVar(&topWords, "top-words", 10, "Words per sender in the report")

	return cmd
}
