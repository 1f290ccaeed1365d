package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "wast",
		Short:         "WhatsApp chat statistics - parse exported chats and report who writes what, when",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Verbose logging to stderr")

	rootCmd.AddCommand(indexCmd(&debug))
	rootCmd.AddCommand(statsCmd(&debug))
	rootCmd.AddCommand(searchCmd(&debug))
	rootCmd.AddCommand(previewCmd(&debug))
	rootCmd.AddCommand(openCmd(&debug))
	rootCmd.AddCommand(browseCmd(&debug))
	rootCmd.AddCommand(doctorCmd(&debug))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
