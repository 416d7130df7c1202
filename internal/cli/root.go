// Package cli defines the Cobra command tree for the aide CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Persistent flags.
var (
	flagConfig string
	flagDebug  bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aide",
	Short: "A personal assistant that understands short requests and acts on them",
	Long: `aide turns short natural-language requests into actions on your tasks,
notes, reminders and calendar events, and answers questions about you.

Try 'aide ask help' to see what it understands, or 'aide serve' to expose it
over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/aide/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newAskCmd(),
		newRetrainCmd(),
		newStatusCmd(),
		newPhrasesCmd(),
		newSmalltalkCmd(),
		newProfileCmd(),
		newRemindersCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aide %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
