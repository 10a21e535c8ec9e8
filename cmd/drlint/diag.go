package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drlint/internal/diag"
	"drlint/internal/diagfmt"
	"drlint/internal/driver"
	"drlint/internal/observ"
	"drlint/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <path>...",
	Short: "Report style violations",
	Long: `Diagnose C# files or directories and report style rule violations.
Directories are walked recursively; bin, obj and hidden directories are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions")
	diagCmd.Flags().Bool("preview", false, "show fix previews (implies --suggest)")
	diagCmd.Flags().String("path-mode", "auto", "path display (absolute|relative|basename|auto)")
	diagCmd.Flags().Bool("fullpath", false, "show absolute paths (same as --path-mode=absolute)")
	diagCmd.Flags().Bool("cache", false, "reuse results of unchanged files from the on-disk cache")
	diagCmd.Flags().StringSlice("rules", nil, "only run these rules (e.g. DR0001,DR0007)")
	diagCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

type diagFlags struct {
	format           string
	jobs             int
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	suggest          bool
	preview          bool
	pathMode         diagfmt.PathMode
	cache            bool
	rules            []diag.Code
	ui               uiMode
}

func readDiagFlags(cmd *cobra.Command) (diagFlags, error) {
	var f diagFlags
	var err error
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json", "sarif":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.noWarnings, err = flags.GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = flags.GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.preview, err = flags.GetBool("preview"); err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.preview {
		f.suggest = true
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	f.pathMode = diagfmt.ParsePathMode(pathMode)
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		f.pathMode = diagfmt.PathModeAbsolute
	}
	if f.cache, err = flags.GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	ruleArgs, err := flags.GetStringSlice("rules")
	if err != nil {
		return f, fmt.Errorf("failed to get rules flag: %w", err)
	}
	if f.rules, err = parseRuleList(ruleArgs); err != nil {
		return f, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	return f, nil
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	f, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := g.loadConfig(args[0])
	if err != nil {
		return err
	}

	opts := driver.Options{
		Config: cfg,
		Rules:  f.rules,
		Jobs:   f.jobs,
		Fixes:  f.suggest,
	}
	if g.timings {
		opts.Timer = observ.NewTimer()
	}
	if f.cache {
		cache, cacheErr := driver.OpenDiskCache("drlint")
		if cacheErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cache disabled: %v\n", cacheErr)
		} else {
			opts.Cache = cache
		}
	}

	ctx := cmd.Context()
	var res *driver.Result
	if f.format == "pretty" && shouldUseTUI(f.ui, g.quiet) {
		res, err = runWithUI("drlint diag", func(sink driver.ProgressSink) (*driver.Result, error) {
			o := opts
			o.Progress = sink
			return driver.Diagnose(ctx, args, o)
		})
	} else {
		res, err = driver.Diagnose(ctx, args, opts)
	}
	if err != nil {
		return err
	}

	bag := diag.NewBag(g.maxDiagnostics)
	for _, d := range res.Diagnostics(0) {
		if f.noWarnings && d.Severity == diag.SevWarning {
			continue
		}
		if f.warningsAsErrors && d.Severity == diag.SevWarning {
			d.Severity = diag.SevError
		}
		if !bag.Add(d) {
			break
		}
	}

	out := cmd.OutOrStdout()
	colored := g.useColor(os.Stdout)
	switch f.format {
	case "pretty":
		diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       colored,
			Context:     2,
			PathMode:    f.pathMode,
			ShowNotes:   f.withNotes,
			ShowFixes:   f.suggest,
			ShowPreview: f.preview,
		})
	case "short":
		err = diagfmt.Short(out, bag, res.FileSet, f.withNotes)
	case "json":
		err = diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         f.pathMode,
			IncludeNotes:     f.withNotes,
			IncludeFixes:     f.suggest,
			IncludePreviews:  f.preview,
		})
	case "sarif":
		err = diagfmt.Sarif(out, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "drlint",
			ToolVersion:    version.Version,
			InformationURI: "https://github.com/drlint/drlint",
			InvocationArgs: os.Args,
		})
	}
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	if !g.quiet && (f.format == "pretty" || f.format == "short") {
		diagfmt.Summary(errOut, bag, g.useColor(os.Stderr))
	}
	if n := res.Failures(); n > 0 {
		fmt.Fprintf(errOut, "warning: %d rule evaluation(s) failed; results may be incomplete\n", n)
	}
	if opts.Timer != nil {
		printTimings(cmd, f.format, opts.Timer)
	}

	if bag.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errReported
	}
	return nil
}

// printTimings writes the phase report to stderr, as JSON when the main
// output is machine-readable.
func printTimings(cmd *cobra.Command, format string, timer *observ.Timer) {
	w := cmd.ErrOrStderr()
	if format == "json" || format == "sarif" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(timer.Report()); err != nil {
			fmt.Fprintf(w, "timings: %v\n", err)
		}
		return
	}
	fmt.Fprint(w, strings.TrimRight(timer.Summary(), "\n")+"\n")
}
