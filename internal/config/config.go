// Package config loads drlint.toml.
//
// The file is found by walking up from the analyzed path; an explicit path
// (the --config flag) wins. Without a file every default applies. Only keys
// that are present in the file override defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"drlint/internal/diag"
	"drlint/internal/lexical"
	"drlint/internal/rules"
	"drlint/internal/synth"
)

// FileName is the configuration file looked up by Find.
const FileName = "drlint.toml"

type fileConfig struct {
	Style  styleConfig  `toml:"style"`
	Rules  rulesConfig  `toml:"rules"`
	Naming namingConfig `toml:"naming"`
	Design designConfig `toml:"design"`
}

type styleConfig struct {
	// Indent is a number of spaces, "tab", or a literal whitespace string.
	Indent any `toml:"indent"`
}

type rulesConfig struct {
	Disable  []string          `toml:"disable"`
	Only     []string          `toml:"only"`
	Severity map[string]string `toml:"severity"`
}

type namingConfig struct {
	Acronyms   []string `toml:"acronyms"`
	Ignore     []string `toml:"ignore"`
	Dictionary string   `toml:"dictionary"`
	// CasePolicy is "either" (default) or "role".
	CasePolicy string `toml:"case_policy"`
}

type designConfig struct {
	ConfigurationBases []string `toml:"configuration_bases"`
}

// Config is the resolved configuration. It is immutable once loaded.
type Config struct {
	// Path is the file it was loaded from, empty for defaults.
	Path string
	// Indent is the indentation unit; empty detects it per file.
	Indent             string
	Disabled           []diag.Code
	Only               []diag.Code
	Severity           map[diag.Code]diag.Severity
	ConfigurationBases []string
	Dictionary         *lexical.Dictionary
	CasePolicy         rules.CasePolicy
	Hash               Digest
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{
		Severity:   make(map[diag.Code]diag.Severity),
		Dictionary: lexical.Default(),
	}
	c.Hash = c.digest()
	return c
}

// Find walks up from startDir to locate drlint.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads explicit when set, otherwise the file found from target,
// otherwise the defaults.
func Resolve(explicit, target string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads and validates one configuration file.
func Load(path string) (*Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	c := Default()
	c.Path = path

	if meta.IsDefined("style", "indent") {
		if c.Indent, err = parseIndent(fc.Style.Indent); err != nil {
			return nil, fmt.Errorf("%s: [style].indent: %w", path, err)
		}
	}
	if meta.IsDefined("rules", "disable") {
		if c.Disabled, err = parseCodes(fc.Rules.Disable); err != nil {
			return nil, fmt.Errorf("%s: [rules].disable: %w", path, err)
		}
	}
	if meta.IsDefined("rules", "only") {
		if c.Only, err = parseCodes(fc.Rules.Only); err != nil {
			return nil, fmt.Errorf("%s: [rules].only: %w", path, err)
		}
	}
	for id, level := range fc.Rules.Severity {
		code, err := ruleCode(id)
		if err != nil {
			return nil, fmt.Errorf("%s: [rules.severity]: %w", path, err)
		}
		switch strings.ToLower(strings.TrimSpace(level)) {
		case "off", "none":
			if !slices.Contains(c.Disabled, code) {
				c.Disabled = append(c.Disabled, code)
			}
			continue
		}
		sev, err := diag.ParseSeverity(level)
		if err != nil {
			return nil, fmt.Errorf("%s: [rules.severity].%s: %w", path, id, err)
		}
		c.Severity[code] = sev
	}
	slices.Sort(c.Disabled)

	if meta.IsDefined("naming", "dictionary") && fc.Naming.Dictionary != "" {
		dictPath := fc.Naming.Dictionary
		if !filepath.IsAbs(dictPath) {
			dictPath = filepath.Join(filepath.Dir(path), dictPath)
		}
		dict, err := lexical.LoadDictionaryFile(dictPath)
		if err != nil {
			return nil, fmt.Errorf("%s: [naming].dictionary: %w", path, err)
		}
		c.Dictionary = dict
	}
	if len(fc.Naming.Acronyms) > 0 || len(fc.Naming.Ignore) > 0 {
		c.Dictionary = c.Dictionary.Extend(fc.Naming.Acronyms, fc.Naming.Ignore)
	}
	if meta.IsDefined("naming", "case_policy") {
		if c.CasePolicy, err = rules.ParseCasePolicy(fc.Naming.CasePolicy); err != nil {
			return nil, fmt.Errorf("%s: [naming].case_policy: %w", path, err)
		}
	}
	if meta.IsDefined("design", "configuration_bases") {
		for _, b := range fc.Design.ConfigurationBases {
			if b = strings.TrimSpace(b); b != "" {
				c.ConfigurationBases = append(c.ConfigurationBases, b)
			}
		}
	}

	c.Hash = c.digest()
	return c, nil
}

func parseIndent(v any) (string, error) {
	switch x := v.(type) {
	case int64:
		if x < 1 || x > 16 {
			return "", fmt.Errorf("width %d out of range 1..16", x)
		}
		return strings.Repeat(" ", int(x)), nil
	case string:
		switch {
		case strings.EqualFold(x, "tab"):
			return "\t", nil
		case x == "":
			return "", nil
		}
		if n, err := strconv.Atoi(x); err == nil {
			return parseIndent(int64(n))
		}
		if strings.Trim(x, " \t") != "" {
			return "", fmt.Errorf("%q is not whitespace", x)
		}
		return x, nil
	}
	return "", fmt.Errorf("unsupported value %v", v)
}

func ruleCode(id string) (diag.Code, error) {
	code, err := diag.ParseCode(id)
	if err != nil {
		return diag.UnknownCode, err
	}
	if !code.IsRule() {
		return diag.UnknownCode, fmt.Errorf("%s is not a style rule", code.ID())
	}
	return code, nil
}

func parseCodes(ids []string) ([]diag.Code, error) {
	out := make([]diag.Code, 0, len(ids))
	for _, id := range ids {
		code, err := ruleCode(id)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, code) {
			out = append(out, code)
		}
	}
	slices.Sort(out)
	return out, nil
}

// RuleOptions converts c for rules.Default.
func (c *Config) RuleOptions() rules.Options {
	return rules.Options{
		Disabled:           slices.Clone(c.Disabled),
		Only:               slices.Clone(c.Only),
		Severity:           c.Severity,
		ConfigurationBases: slices.Clone(c.ConfigurationBases),
		Dictionary:         c.Dictionary,
		CasePolicy:         c.CasePolicy,
	}
}

// SynthOptions converts c for the fix synthesizer.
func (c *Config) SynthOptions() synth.Options {
	return synth.Options{Dict: c.Dictionary, CasePolicy: c.CasePolicy, Indent: c.Indent}
}
