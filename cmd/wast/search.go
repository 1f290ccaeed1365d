package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wa-stats/internal/search"
	"github.com/Zuo-Peng/wa-stats/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorGreen   = "\033[1;32m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func searchCmd(debug *bool) *cobra.Command {
	var chat, sender, since string
	var limit int
	var dedup bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across all chat messages",
		Long: `Search cached messages using FTS5. Output is TSV for fzf integration:
  chatKey, seq, time, sender, snippet

Recommended shell function (add to .zshrc):
  wastf() {
    wast search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'wast preview {1} --hit {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(wast open {1} --hit {2})'
  }`,
		Args: cobra.ExactArgs(1),
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

			// auto-update the cache before searching
			a.refresh(db)

			opts := search.Options{
				Chat:   chat,
				Sender: sender,
				Limit:  limit,
				Dedup:  dedup,
			}
			if since != "" {
				loc, _ := a.cfg.Location()
				t, err := time.ParseInLocation("2006-01-02", since, loc)
				if err != nil {
					return fmt.Errorf("--since: %w", err)
				}
				opts.Since = t
			}

			// interactive TUI when stdout is a terminal; TSV output for pipes
			if isTerminal() {
				return tui.Run(db, args[0], tui.Options{
					ChatsDir: a.cfg.ChatsDir,
					Parse:    a.cfg.ParseOptions(),
					Search:   opts,
					Log:      a.log,
				})
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			loc, _ := a.cfg.Location()
			for _, r := range results {
				snippet := strings.ReplaceAll(r.Snippet, "\t", " ")
				snippet = colorizeSnippet(snippet)
				// first two fields (chatKey, seq) stay plain for fzf {1} {2}
				fmt.Printf("%s\t%d\t%s%s%s\t%s%s%s\t%s\n",
					r.ChatKey,
					r.Seq,
					sColorDim, r.Ts.In(loc).Format("2006-01-02 15:04"), sColorReset,
					sColorGreen, r.Sender, sColorReset,
					snippet,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chat, "chat", "", "Filter by chat key")
	cmd.Flags().StringVar(&sender, "sender", "", "Filter by sender")
	cmd.Flags().StringVar(&since, "since", "", "Only messages since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	cmd.Flags().BoolVar(&dedup, "dedup", false, "Only the best hit per chat")

	return cmd
}
