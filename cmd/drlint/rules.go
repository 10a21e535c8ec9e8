package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"drlint/internal/config"
	"drlint/internal/diag"
	"drlint/internal/rules"
	"drlint/internal/synth"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [rule-id]",
	Short: "List style rules or explain one",
	Long: `Without arguments, list every rule with its effective severity under the
resolved configuration. With a rule id, print its description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	rulesCmd.Flags().String("dir", ".", "directory used to find "+configFileHint)
}

type ruleInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Enabled  bool   `json:"enabled"`
	Fixable  bool   `json:"fixable"`
	Message  string `json:"message"`
	Help     string `json:"help,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	cfg, err := g.loadConfig(dir)
	if err != nil {
		return err
	}
	infos := collectRules(cfg)

	if len(args) == 1 {
		codes, err := parseRuleList(args)
		if err != nil {
			return err
		}
		for _, info := range infos {
			if info.ID == codes[0].ID() {
				infos = []ruleInfo{info}
				break
			}
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if len(args) == 1 {
			return enc.Encode(infos[0])
		}
		return enc.Encode(infos)
	case "pretty":
		if len(args) == 1 {
			explainRule(out, infos[0], g.useColor(os.Stdout))
			return nil
		}
		return listRules(out, infos)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func collectRules(cfg *config.Config) []ruleInfo {
	reg := rules.Default(cfg.RuleOptions())
	ds := diag.Descriptors()
	out := make([]ruleInfo, 0, len(ds))
	for _, d := range ds {
		_, enabled := reg.Lookup(d.Code)
		out = append(out, ruleInfo{
			ID:       d.Code.ID(),
			Title:    d.Title,
			Category: string(d.Category),
			Severity: reg.Severity(d.Code).String(),
			Enabled:  enabled,
			Fixable:  synth.HasFix(d.Code),
			Message:  d.Template,
			Help:     d.Help,
		})
	}
	return out
}

func listRules(w io.Writer, infos []ruleInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tSTATE\tFIX\tTITLE")
	for _, info := range infos {
		state := "on"
		if !info.Enabled {
			state = "off"
		}
		fixable := "-"
		if info.Fixable {
			fixable = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.ID, info.Severity, state, fixable, info.Title)
	}
	return tw.Flush()
}

func explainRule(w io.Writer, info ruleInfo, colored bool) {
	title := color.New(color.Bold)
	if colored {
		title.EnableColor()
	} else {
		title.DisableColor()
	}
	fmt.Fprintf(w, "%s %s\n", title.Sprint(info.ID), info.Title)
	fmt.Fprintf(w, "  category: %s\n", info.Category)
	state := "enabled"
	if !info.Enabled {
		state = "disabled"
	}
	fmt.Fprintf(w, "  severity: %s (%s)\n", info.Severity, state)
	fmt.Fprintf(w, "  message:  %s\n", info.Message)
	if info.Fixable {
		fmt.Fprintln(w, "  fix:      available")
	} else {
		fmt.Fprintln(w, "  fix:      none")
	}
	if info.Help != "" {
		fmt.Fprintln(w)
		for _, line := range strings.Split(strings.TrimSpace(info.Help), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
