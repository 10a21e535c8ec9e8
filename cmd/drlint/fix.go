package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"drlint/internal/diag"
	"drlint/internal/diagfmt"
	"drlint/internal/driver"
	"drlint/internal/fix"
	"drlint/internal/observ"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <path>...",
	Short: "Apply automatic fixes for style violations",
	Long: `Apply the fixes drlint can synthesize. Without a mode flag the single best
fix is applied; --all repeats diagnose and apply until nothing changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every safe fix, re-diagnosing between passes")
	fixCmd.Flags().Bool("once", false, "apply the first applicable fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with the given id")
	fixCmd.Flags().StringSlice("rule", nil, "only fix these rules (e.g. DR0004,DR0005)")
	fixCmd.Flags().Bool("heuristics", false, "also apply safe-with-heuristics fixes with --all")
	fixCmd.Flags().Bool("dry-run", false, "compute fixes without writing files")
	fixCmd.Flags().Bool("preview", false, "print a unified diff of the changes")
	fixCmd.Flags().Int("max-passes", driver.DefaultMaxPasses, "maximum diagnose/apply passes with --all")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	fixCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runFix(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	applyAll, err := flags.GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	applyOnce, err := flags.GetBool("once")
	if err != nil {
		return fmt.Errorf("failed to get once flag: %w", err)
	}
	targetID, err := flags.GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	ruleArgs, err := flags.GetStringSlice("rule")
	if err != nil {
		return fmt.Errorf("failed to get rule flag: %w", err)
	}
	codes, err := parseRuleList(ruleArgs)
	if err != nil {
		return err
	}
	heuristics, err := flags.GetBool("heuristics")
	if err != nil {
		return fmt.Errorf("failed to get heuristics flag: %w", err)
	}
	dryRun, err := flags.GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	preview, err := flags.GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	maxPasses, err := flags.GetInt("max-passes")
	if err != nil {
		return fmt.Errorf("failed to get max-passes flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	ui, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	mode, err := selectApplyMode(applyAll, applyOnce, targetID)
	if err != nil {
		return err
	}

	cfg, err := g.loadConfig(args[0])
	if err != nil {
		return err
	}
	opts := driver.FixOptions{
		Options: driver.Options{
			Config: cfg,
			Rules:  codes,
			Jobs:   jobs,
		},
		Mode:            mode,
		TargetID:        targetID,
		AllowHeuristics: heuristics,
		DryRun:          dryRun,
		MaxPasses:       maxPasses,
	}
	if g.timings {
		opts.Timer = observ.NewTimer()
	}

	ctx := cmd.Context()
	var res *driver.FixResult
	if shouldUseTUI(ui, g.quiet) {
		res, err = runWithUI("drlint fix", func(sink driver.ProgressSink) (*driver.FixResult, error) {
			o := opts
			o.Progress = sink
			return driver.FixAll(ctx, args, o)
		})
	} else {
		res, err = driver.FixAll(ctx, args, opts)
	}
	if err != nil {
		if errors.Is(err, driver.ErrNoFiles) {
			return fmt.Errorf("%w in %v", err, args)
		}
		return err
	}

	out := cmd.OutOrStdout()
	handleFixResult(out, res, dryRun, g.quiet)
	if preview && len(res.Changes) > 0 {
		fmt.Fprintln(out)
		if err := diagfmt.Preview(out, res.Changes, diagfmt.PreviewOpts{
			Color:   g.useColor(os.Stdout),
			Context: diagfmt.DefaultDiffContext,
		}); err != nil {
			return err
		}
	}
	if opts.Timer != nil {
		printTimings(cmd, "pretty", opts.Timer)
	}

	if mode == fix.ApplyModeID && len(res.Applied) == 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errReported
	}
	return nil
}

func selectApplyMode(all, once bool, id string) (fix.ApplyMode, error) {
	set := 0
	for _, on := range []bool{all, once, id != ""} {
		if on {
			set++
		}
	}
	if set > 1 {
		return 0, errors.New("--all, --once and --id are mutually exclusive")
	}
	switch {
	case all:
		return fix.ApplyModeAll, nil
	case id != "":
		return fix.ApplyModeID, nil
	default:
		return fix.ApplyModeOnce, nil
	}
}

func handleFixResult(w io.Writer, res *driver.FixResult, dryRun, quiet bool) {
	if len(res.Applied) == 0 {
		fmt.Fprintln(w, "No applicable fixes found.")
		printSkipped(w, res.Skipped)
		printRemaining(w, res)
		return
	}

	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	fmt.Fprintf(w, "%s %d fix(es) in %d pass(es):\n", verb, len(res.Applied), res.Passes)
	if !quiet {
		for _, applied := range res.Applied {
			fmt.Fprintf(w, "  - %s [%s] %s\n", applied.Title, applied.Code.ID(), applied.PrimaryPath)
		}
	}

	if len(res.Changes) > 0 {
		if dryRun {
			fmt.Fprintln(w, "Files that would change:")
		} else {
			fmt.Fprintln(w, "Updated files:")
		}
		for _, change := range res.Changes {
			fmt.Fprintf(w, "  - %s (%d edit(s))\n", change.Path, change.EditCount)
		}
		if fds, err := diagfmt.BuildPreview(res.Changes, diagfmt.DefaultDiffContext); err == nil {
			fmt.Fprintln(w, diagfmt.DiffStat(fds))
		}
	}

	printSkipped(w, res.Skipped)
	printRemaining(w, res)
}

// printRemaining lists what is still reported after the last pass, per rule.
func printRemaining(w io.Writer, res *driver.FixResult) {
	counts := res.Counts()
	if len(counts) == 0 {
		return
	}
	codes := make([]diag.Code, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	fmt.Fprintln(w, "Remaining diagnostics:")
	for _, code := range codes {
		fmt.Fprintf(w, "  %s: %d\n", code.ID(), counts[code])
	}
}

func printSkipped(w io.Writer, skipped []fix.SkippedFix) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintln(w, "Skipped fixes:")
	for _, s := range skipped {
		label := s.Title
		if label == "" {
			label = s.ID
		}
		fmt.Fprintf(w, "  - %s: %s\n", label, s.Reason)
	}
}
