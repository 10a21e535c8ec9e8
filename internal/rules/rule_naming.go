package rules

import (
	"strings"

	"drlint/internal/diag"
	"drlint/internal/lexical"
	"drlint/internal/syntax"
)

// DR0002: declared names starting with '_', fields and locals (through their
// declarators), parameters, methods, properties, classes and interfaces. The
// discard is exempt.
func underscorePrefixRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleUnderscorePrefix),
		Kinds: []syntax.Kind{
			syntax.Class, syntax.Interface, syntax.Method, syntax.Property,
			syntax.Declarator, syntax.Parameter,
		},
		Eval: func(c *Context, id syntax.NodeID) {
			name, role := Declaration(c.Tree, id)
			if name == syntax.NoToken || role == RoleNone {
				return
			}
			text := stripVerbatim(c.tok(name).Text)
			if !strings.HasPrefix(text, "_") || strings.Trim(text, "_") == "" {
				return
			}
			c.Report(c.tokSpan(name), text)
		},
	}
}

// DR0009: one finding per acronym with mixed casing.
func acronymCasingRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleAcronymCasing),
		Kinds:      declarationKinds,
		Eval: func(c *Context, id syntax.NodeID) {
			name, role := Declaration(c.Tree, id)
			if name == syntax.NoToken || role == RoleNone {
				return
			}
			for _, f := range lexical.FindInconsistent(c.Dict, stripVerbatim(c.tok(name).Text)) {
				c.Report(c.tokSpan(name), f.Text, f.Upper, f.Lower)
			}
		},
	}
}

// SuggestName re-cases name into style, keeping a verbatim '@'.
func SuggestName(dict *lexical.Dictionary, name string, style lexical.Style) string {
	s := style.Convert(dict, name)
	if strings.HasPrefix(name, "@") {
		s = "@" + s
	}
	return s
}

// DR0010: a name must be camelCase or PascalCase. With CaseByRole, locals,
// parameters and private fields must be camelCase and everything else
// PascalCase. Leading underscores belong to DR0002.
func caseStyleRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleIdentifierCaseStyle),
		Kinds:      declarationKinds,
		Eval: func(c *Context, id syntax.NodeID) {
			name, role := Declaration(c.Tree, id)
			if name == syntax.NoToken || role == RoleNone {
				return
			}
			text := c.tok(name).Text
			style := c.policy.StyleFor(role)
			if style.Matches(strings.TrimLeft(stripVerbatim(text), "_")) {
				return
			}
			suggestion := SuggestName(c.Dict, text, style)
			if suggestion == text || stripVerbatim(suggestion) == "" {
				return
			}
			c.Report(c.tokSpan(name), text, style.String(), suggestion)
		},
	}
}
