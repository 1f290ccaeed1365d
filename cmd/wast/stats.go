package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wa-stats/internal/format"
	"github.com/Zuo-Peng/wa-stats/internal/index"
	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/record"
	"github.com/Zuo-Peng/wa-stats/internal/render"
	"github.com/Zuo-Peng/wa-stats/internal/stats"
	"github.com/Zuo-Peng/wa-stats/internal/textnorm"
)

func statsCmd(debug *bool) *cobra.Command {
	var person, outFormat string
	var tables []string
	var strict, noCache bool
	var topWords, emojiMin int

	cmd := &cobra.Command{
		Use:   "stats <chat>",
		Short: "Show statistics for one chat export",
		Long: `Parse a chat export and print its statistics. <chat> is a path to the
exported .txt file or its name below chats_dir.

Without --table a text dashboard is printed. With --table the named tables
(` + strings.Join(format.TableNames, ", ") + `, all) are written in --format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*debug)
			if err != nil {
				return err
			}

			f, err := format.New(outFormat)
			if err != nil {
				return err
			}

			fi, err := a.resolveChat(args[0])
			if err != nil {
				return err
			}

			opts := a.cfg.ParseOptions()
			if cmd.Flags().Changed("strict") {
				opts.Strict = strict
			}

			var s *record.Store
			if noCache {
				result, err := parse.ParseFile(fi.Path, opts)
				if err != nil {
					return err
				}
				s = record.FromResult(fi.Key, result)
			} else {
				db, err := a.openDB()
				if err != nil {
					return err
				}
				defer db.Close()

				s, err = index.LoadChat(db, fi, opts, a.log)
				if err != nil {
					return err
				}
			}

			if d := s.Diagnostics(); d.Skipped() > 0 {
				a.log.Warn("malformed lines skipped", "chat", fi.Key, "diagnostics", d.String())
			}

			if person != "" && !slices.Contains(s.Senders(), person) {
				return fmt.Errorf("unknown sender %q (have: %s)", person, strings.Join(s.Senders(), ", "))
			}

			ro, err := a.reportOptions(person)
			if err != nil {
				return err
			}
			ro.TopWords = topWords
			ro.EmojiMinCount = emojiMin
			report := stats.BuildReport(s, ro)

			if len(tables) == 0 {
				if outFormat == "table" {
					fmt.Print(render.RenderReport(report, terminalWidth(), isTerminal()))
					return nil
				}
				tables = []string{"all"}
			}

			out, err := format.ReportTables(report, tables)
			if err != nil {
				return err
			}
			return f.Format(os.Stdout, out)
		},
	}

	cmd.Flags().StringVar(&person, "person", "", "Restrict per-person tables to this sender")
	cmd.Flags().StringSliceVar(&tables, "table", nil, "Tables to print (comma separated, or all)")
	cmd.Flags().StringVar(&outFormat, "format", "table", "Output format: "+strings.Join(format.Names, "|"))
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when malformed lines were skipped (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Parse the file directly, bypassing the cache")
	cmd.Flags().IntVar(&topWords, "top-words", 10, "Words per sender in the words table")
	cmd.Flags().IntVar(&emojiMin, "emoji-min", stats.DashboardEmojiMinCount, "Hide emoji rows with fewer uses")

	return cmd
}

func (a *app) reportOptions(person string) (stats.ReportOptions, error) {
	ro := stats.DefaultReportOptions()
	ro.Person = person
	ro.EmojiMinCount = stats.DashboardEmojiMinCount

	wait, err := a.cfg.WaitOptions()
	if err != nil {
		return ro, err
	}
	ro.Wait = wait

	lang, err := textnorm.Lookup(a.cfg.Language)
	if err != nil {
		return ro, err
	}
	ro.Normalizer = textnorm.New(lang)
	return ro, nil
}
