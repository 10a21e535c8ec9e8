package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"drlint/internal/config"
	"drlint/internal/diag"
)

const configFileHint = config.FileName

type globalFlags struct {
	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
	configPath     string
}

func readGlobals(cmd *cobra.Command) (globalFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var g globalFlags
	var err error
	if g.color, err = pf.GetString("color"); err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch g.color {
	case "auto", "on", "off":
	default:
		return g, fmt.Errorf("invalid --color value %q (expected auto|on|off)", g.color)
	}
	if g.quiet, err = pf.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = pf.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.configPath, err = pf.GetString("config"); err != nil {
		return g, fmt.Errorf("failed to get config flag: %w", err)
	}
	return g, nil
}

func (g globalFlags) useColor(f *os.File) bool {
	return g.color == "on" || (g.color == "auto" && isTerminal(f))
}

// loadConfig resolves --config or the drlint.toml above target.
func (g globalFlags) loadConfig(target string) (*config.Config, error) {
	cfg, err := config.Resolve(g.configPath, target)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ruleIDs lists "DR0001".."DR0010" for suggestions.
func ruleIDs() []string {
	ds := diag.Descriptors()
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code.ID()
	}
	return out
}

// suggestRules returns up to three rule ids close to input, matching
// against "ID title" so both "DR007" and "readonly" find something.
func suggestRules(input string) []string {
	ds := diag.Descriptors()
	labels := make([]string, len(ds))
	for i, d := range ds {
		labels[i] = d.Code.ID() + " " + d.Title
	}
	matches := fuzzy.Find(strings.TrimSpace(input), labels)
	out := make([]string, 0, 3)
	for _, m := range matches {
		out = append(out, ds[m.Index].Code.ID())
		if len(out) == 3 {
			break
		}
	}
	return out
}

func unknownRuleError(id string) error {
	if s := suggestRules(id); len(s) > 0 {
		return fmt.Errorf("unknown rule %q; did you mean %s?", id, strings.Join(s, ", "))
	}
	return fmt.Errorf("unknown rule %q (known: %s)", id, strings.Join(ruleIDs(), ", "))
}

// parseRuleList accepts repeated or comma-separated rule ids.
func parseRuleList(values []string) ([]diag.Code, error) {
	var out []diag.Code
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			code, err := diag.ParseCode(id)
			if err != nil || !code.IsRule() || code == diag.RuleReserved {
				return nil, unknownRuleError(id)
			}
			out = append(out, code)
		}
	}
	return out, nil
}
