package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wa-stats/internal/open"
)

func openCmd(debug *bool) *cobra.Command {
	var hitSeq int

	cmd := &cobra.Command{
		Use:   "open <chatKey>",
		Short: "Open the chat export in $EDITOR at the hit line",
		Args:  cobra.ExactArgs(1),
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

			return open.OpenChat(db, args[0], hitSeq)
		},
	}

	cmd.Flags().IntVar(&hitSeq, "hit", -1, "Message number to jump to")

	return cmd
}
