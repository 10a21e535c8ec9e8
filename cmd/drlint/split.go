package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"drlint/internal/lexical"
)

var splitCmd = &cobra.Command{
	Use:   "split <identifier>...",
	Short: "Show how identifiers are split and re-cased",
	Long: `Split identifiers into words, normalize them under every casing policy and
report acronyms with inconsistent casing, using the configured dictionary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type splitInfo struct {
	Identifier   string            `json:"identifier"`
	Words        []string          `json:"words"`
	Normalized   map[string]string `json:"normalized"`
	Inconsistent []string          `json:"inconsistent,omitempty"`
}

var splitPolicies = []lexical.Policy{lexical.Upper, lexical.Lower, lexical.Pascal, lexical.Camel}

func runSplit(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	cfg, err := g.loadConfig(".")
	if err != nil {
		return err
	}
	infos := make([]splitInfo, 0, len(args))
	for _, id := range args {
		infos = append(infos, describeIdentifier(cfg.Dictionary, id))
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "pretty":
		for _, info := range infos {
			writeSplit(out, info)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func describeIdentifier(d *lexical.Dictionary, id string) splitInfo {
	info := splitInfo{
		Identifier: id,
		Words:      lexical.SplitWords(id),
		Normalized: make(map[string]string, len(splitPolicies)),
	}
	for _, p := range splitPolicies {
		info.Normalized[p.String()] = lexical.Normalize(d, id, p)
	}
	for _, f := range lexical.FindInconsistent(d, id) {
		info.Inconsistent = append(info.Inconsistent, f.Text)
	}
	return info
}

func writeSplit(w io.Writer, info splitInfo) {
	fmt.Fprintf(w, "%s\n", info.Identifier)
	fmt.Fprintf(w, "  words:  %s\n", strings.Join(info.Words, " | "))
	for _, p := range splitPolicies {
		fmt.Fprintf(w, "  %-7s %s\n", p.String()+":", info.Normalized[p.String()])
	}
	if len(info.Inconsistent) > 0 {
		fmt.Fprintf(w, "  inconsistent acronyms: %s\n", strings.Join(info.Inconsistent, ", "))
	}
}
