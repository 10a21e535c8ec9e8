// Package trace is drlint's event log: leveled begin/end spans and point
// events written as text or NDJSON.
//
// Enable it from the command line:
//
//	drlint diag --trace=- --trace-level=phase src/
//
// # Tracers
//
//   - Nop: zero-overhead, used when tracing is off
//   - StreamTracer: writes each event immediately
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits every scope up to its own granularity:
//
//   - LevelError: rule failures only
//   - LevelPhase: driver runs and phases (parse, index, rules, fix)
//   - LevelDetail: per-file work
//   - LevelDebug: per-rule events
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", 0)
//	defer span.End("")
package trace
