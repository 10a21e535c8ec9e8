// Package diag defines the diagnostic model shared by the lexer, parser and
// style rules.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (DR0004,
//     SYN2001, ...). Hosts persist suppressions keyed by the string form, so
//     codes are never renumbered.
//   - Args: ordered message arguments; Message is the rule's template
//     rendered with them.
//   - Primary: the source.Span the finding points at, copied by value.
//   - Notes and Fixes: optional context and automated corrections.
//
// Diagnostics are produced once and never mutated afterwards.
//
// # Fix suggestions
//
// A Fix is data only: title, kind, applicability, preference, edits. When
// computing edits is expensive or depends on state that may change between
// diagnosis and application, producers attach a FixThunk instead and the fix
// engine calls MaterializeFixes right before applying. A thunk that detects a
// stale source returns an error and the fix is skipped.
//
// TextEdit spans are source coordinates; OldText is an optional guard checked
// by the edit applier before any byte is changed.
//
// # Emitting diagnostics
//
// Producers talk to a Reporter. BagReporter collects into a Bag, which
// supports sorting, deduplication and filtering. Rendering lives in
// internal/diagfmt and application of fixes in internal/fix.
package diag
