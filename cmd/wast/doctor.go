package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wa-stats/internal/scan"
)

func doctorCmd(debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, chats directory and cache health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*debug)
			if err != nil {
				return err
			}

			ok := true
			check := func(name string, pass bool, detail string) {
				mark := "ok  "
				if !pass {
					mark = "FAIL"
					ok = false
				}
				fmt.Printf("[%s] %-14s %s\n", mark, name, detail)
			}

			loc, _ := a.cfg.Location()
			check("config", true, fmt.Sprintf("language=%s timezone=%s strict=%t", a.cfg.Language, loc, a.cfg.Strict))

			info, err := os.Stat(a.cfg.ChatsDir)
			switch {
			case err != nil:
				check("chats_dir", false, err.Error())
			case !info.IsDir():
				check("chats_dir", false, a.cfg.ChatsDir+" is not a directory")
			default:
				check("chats_dir", true, a.cfg.ChatsDir)
			}

			files, err := scan.ScanChats(a.cfg.ChatsDir)
			if err != nil {
				check("exports", false, err.Error())
			} else {
				check("exports", len(files) > 0, fmt.Sprintf("%d .txt files", len(files)))
			}

			db, err := a.openDB()
			if err != nil {
				check("cache", false, err.Error())
				return fmt.Errorf("doctor found problems")
			}
			defer db.Close()

			chats, err := db.ChatCount()
			if err != nil {
				check("cache", false, err.Error())
			} else {
				check("cache", true, fmt.Sprintf("%s (%d chats)", a.cfg.DBPath, chats))
			}

			msgs, err := db.MessageCount()
			var ftsRows int
			if err == nil {
				err = db.Raw().QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&ftsRows)
			}
			if err != nil {
				check("fts", false, err.Error())
			} else {
				check("fts", msgs == ftsRows, fmt.Sprintf("%d messages, %d indexed", msgs, ftsRows))
			}

			// malformed lines are not failures, but worth seeing
			rows, err := db.ListChats()
			if err != nil {
				check("chats", false, err.Error())
			}
			for _, c := range rows {
				if c.Diagnostics.Skipped() == 0 {
					continue
				}
				fmt.Printf("       %-14s %s\n", c.ChatKey, c.Diagnostics.String())
				for _, sample := range c.Diagnostics.Samples {
					fmt.Printf("         line %d (%s): %s\n", sample.LineNumber, sample.Reason, sample.Text)
				}
			}

			if !ok {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
}
