package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drlint/internal/diagfmt"
	"drlint/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.cs",
	Short: "Dump the syntax tree of a C# file",
	Long:  `Parse prints the declaration and statement tree the style rules walk`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Parse(args[0], g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	reportDumpDiagnostics(g, result.Bag, result.FileSet)

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatTreePretty(out, result.Tree, result.FileSet)
	case "json":
		return diagfmt.FormatTreeJSON(out, result.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
