package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drlint/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat string
	versionFull   bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "show commit and build date on separate lines")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show drlint build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		switch strings.ToLower(versionFormat) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout())
		case "pretty":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
		g, err := readGlobals(cmd)
		if err != nil {
			return err
		}
		renderVersionPretty(cmd.OutOrStdout(), g.useColor(os.Stdout), versionFull)
		return nil
	},
}

func renderVersionPretty(w io.Writer, colored, full bool) {
	if !full {
		fmt.Fprintln(w, version.Line(colored))
		return
	}
	v := version.Version
	if colored {
		v = version.Colored()
	}
	fmt.Fprintf(w, "drlint %s\n", v)
	fmt.Fprintf(w, "  commit: %s\n", orUnknown(version.GitCommit))
	fmt.Fprintf(w, "  built:  %s\n", orUnknown(version.BuildDate))
}

func renderVersionJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{
		Tool:      "drlint",
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildDate: version.BuildDate,
	})
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
