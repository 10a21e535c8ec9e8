package rules

import (
	"fmt"
	"slices"
	"strconv"

	"drlint/internal/diag"
	"drlint/internal/syntax"
	"drlint/internal/trace"
)

// Input is one file to evaluate.
type Input struct {
	Tree *syntax.Tree
	// Index resolves base types across files; nil indexes Tree alone.
	Index  *TypeIndex
	Tracer trace.Tracer
}

// Result holds the findings of one walk. Diagnostics are grouped by rule
// code and in source order within a rule.
type Result struct {
	Diagnostics []diag.Diagnostic
	// Failures counts node/rule pairs whose evaluator panicked.
	Failures int
}

// Walk visits every node in source order and runs the rules registered for
// its kind. A panicking evaluator drops only what it reported for that node.
func (r *Registry) Walk(in Input) Result {
	var res Result
	if in.Tree == nil || len(r.rules) == 0 {
		return res
	}
	tracer := in.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	index := in.Index
	if index == nil {
		index = NewTypeIndex(in.Tree)
	}

	perRule := make(map[diag.Code][]diag.Diagnostic, len(r.rules))
	ctx := &Context{Tree: in.Tree, Index: index, Dict: r.dict, markers: r.markers, policy: r.policy}
	in.Tree.Walk(func(id syntax.NodeID) bool {
		for _, rule := range r.byKind[in.Tree.Kind(id)] {
			ctx.rule, ctx.sev, ctx.out = rule, r.Severity(rule.Code()), ctx.out[:0]
			if !r.eval(ctx, rule, id, tracer) {
				res.Failures++
				continue
			}
			perRule[rule.Code()] = append(perRule[rule.Code()], ctx.out...)
		}
		return true
	})

	for _, rule := range r.rules {
		ds := perRule[rule.Code()]
		slices.SortStableFunc(ds, func(a, b diag.Diagnostic) int {
			return int(a.Primary.Start) - int(b.Primary.Start)
		})
		res.Diagnostics = append(res.Diagnostics, ds...)
	}
	return res
}

func (r *Registry) eval(ctx *Context, rule *Rule, id syntax.NodeID, tracer trace.Tracer) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			ok = false
			trace.Point(tracer, trace.ScopeRule, rule.Code().ID(), fmt.Sprint(p), true, map[string]string{
				"file": ctx.Tree.File.Path,
				"node": strconv.FormatUint(uint64(id), 10),
				"kind": ctx.Tree.Kind(id).String(),
			})
		}
	}()
	rule.Eval(ctx, id)
	return true
}
