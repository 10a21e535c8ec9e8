package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"drlint/internal/version"
)

// errReported ends a command whose findings were already printed; main
// turns it into exit status 1 without another message.
var errReported = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "drlint",
	Short: "Style checker and fixer for C# sources",
	Long: `drlint reports naming and layout violations (DR0001-DR0010) in C# sources
and applies the fixes it can synthesize for them`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupProfiling(cmd); err != nil {
			return err
		}
		return setupTracing(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		finishTracing(cmd.ErrOrStderr(), false)
		finishProfiling(cmd.ErrOrStderr())
	},
}

// main registers subcommands and persistent flags, then executes the root command.
// Any error, reported diagnostics included, exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = unlimited)")
	pf.String("config", "", "path to "+configFileHint+" (default: searched upward from the first path)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both); ring is dumped on failure")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	err := rootCmd.Execute()
	finishTracing(os.Stderr, err != nil)
	finishProfiling(os.Stderr)
	if err != nil {
		os.Exit(1)
	}
}
