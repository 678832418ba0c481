// Package app provides the entry point for the tokcount command-line
// application: a thin CLI over the Tokenizer and Prompt Accountant APIs
// (spec §6). It does not expose a calibration driver — running real probe
// requests against a vendor API is explicitly out of this module's scope.
package app

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptacct/promptacct/logging"
)

var rootCmd = &cobra.Command{
	Use:               "tokcount",
	DisableAutoGenTag: true,
	Short:             "Estimate BPE token counts and prompt overhead for chat completion requests",
	Long: `tokcount tokenizes text against a loaded Encoding Table and prices whole
chat prompts (messages plus tool definitions) against a Model Config,
without ever calling a model provider.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logging.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// NewRootCmd creates a new root command for the tokcount CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(priceCmd)

	return rootCmd
}
