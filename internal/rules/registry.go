package rules

import (
	"fmt"
	"slices"

	"drlint/internal/diag"
	"drlint/internal/lexical"
	"drlint/internal/syntax"
)

// Rule binds a descriptor to the node kinds it inspects.
type Rule struct {
	Descriptor diag.Descriptor
	Kinds      []syntax.Kind
	Eval       func(c *Context, id syntax.NodeID)
}

func (r *Rule) Code() diag.Code { return r.Descriptor.Code }

// DefaultConfigurationBases are the marker base types checked by DR0008.
var DefaultConfigurationBases = []string{"ManagerConfiguration", "ModuleConfiguration"}

// Options tune the default registry. The zero value enables every rule with
// its default severity and the built-in dictionary.
type Options struct {
	Disabled           []diag.Code
	Only               []diag.Code // when set, every other rule is off
	Severity           map[diag.Code]diag.Severity
	ConfigurationBases []string
	Dictionary         *lexical.Dictionary
	CasePolicy         CasePolicy
}

// Registry is the registration table. It is immutable after Default returns
// and safe for concurrent walks.
type Registry struct {
	rules    []*Rule
	byKind   map[syntax.Kind][]*Rule
	severity map[diag.Code]diag.Severity
	dict     *lexical.Dictionary
	markers  []string
	policy   CasePolicy
}

func NewRegistry(dict *lexical.Dictionary) *Registry {
	if dict == nil {
		dict = lexical.Default()
	}
	return &Registry{
		byKind:   make(map[syntax.Kind][]*Rule),
		severity: make(map[diag.Code]diag.Severity),
		dict:     dict,
		markers:  DefaultConfigurationBases,
	}
}

// Register adds a rule. Codes must be unique.
func (r *Registry) Register(rule Rule) error {
	code := rule.Code()
	if !code.IsRule() {
		return fmt.Errorf("register %s: not a rule code", code.ID())
	}
	if code == diag.RuleReserved {
		return fmt.Errorf("register %s: code is reserved", code.ID())
	}
	if _, ok := r.Lookup(code); ok {
		return fmt.Errorf("register %s: duplicate rule", code.ID())
	}
	if rule.Eval == nil || len(rule.Kinds) == 0 {
		return fmt.Errorf("register %s: rule needs kinds and an evaluator", code.ID())
	}
	rp := &rule
	r.rules = append(r.rules, rp)
	slices.SortFunc(r.rules, func(a, b *Rule) int { return int(a.Code()) - int(b.Code()) })
	for _, k := range rule.Kinds {
		r.byKind[k] = append(r.byKind[k], rp)
	}
	return nil
}

// Rules lists the registered rules ordered by code.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	for i, rp := range r.rules {
		out[i] = *rp
	}
	return out
}

func (r *Registry) Lookup(code diag.Code) (Rule, bool) {
	for _, rp := range r.rules {
		if rp.Code() == code {
			return *rp, true
		}
	}
	return Rule{}, false
}

// Severity is the effective severity of a rule.
func (r *Registry) Severity(code diag.Code) diag.Severity {
	if s, ok := r.severity[code]; ok {
		return s
	}
	if d, ok := diag.Describe(code); ok {
		return d.Default
	}
	return diag.SevWarning
}

// Dictionary returns the acronym dictionary the naming rules use.
func (r *Registry) Dictionary() *lexical.Dictionary { return r.dict }

// Markers returns the DR0008 configuration base names.
func (r *Registry) Markers() []string { return r.markers }

// CasePolicy returns the DR0010 policy.
func (r *Registry) CasePolicy() CasePolicy { return r.policy }

// Default builds the registry with every rule, then applies opts.
func Default(opts Options) *Registry {
	r := NewRegistry(opts.Dictionary)
	r.policy = opts.CasePolicy
	if len(opts.ConfigurationBases) > 0 {
		r.markers = slices.Clone(opts.ConfigurationBases)
	}
	for _, rule := range builtin() {
		code := rule.Code()
		if slices.Contains(opts.Disabled, code) {
			continue
		}
		if len(opts.Only) > 0 && !slices.Contains(opts.Only, code) {
			continue
		}
		if err := r.Register(rule); err != nil {
			panic(err) // builtin table is static
		}
	}
	for code, sev := range opts.Severity {
		r.severity[code] = sev
	}
	return r
}

func builtin() []Rule {
	return []Rule{
		nativeIntRule(),
		underscorePrefixRule(),
		bodyOnNewLineRule(),
		singleLineNoBlockRule(),
		multiLineNeedsBlockRule(),
		operatorAtLineEndRule(),
		configFieldReadonlyRule(),
		acronymCasingRule(),
		caseStyleRule(),
	}
}

func describe(code diag.Code) diag.Descriptor {
	d, ok := diag.Describe(code)
	if !ok {
		panic(fmt.Sprintf("no descriptor for %s", code.ID()))
	}
	return d
}
