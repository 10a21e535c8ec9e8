package diag

import (
	"sort"
	"strconv"
	"strings"
)

// Category groups rules the way hosts present them.
type Category string

const (
	CategoryNaming      Category = "Naming"
	CategoryUsage       Category = "Usage"
	CategoryDesign      Category = "Design"
	CategoryPerformance Category = "Performance"
)

// Descriptor is the static metadata of a style rule.
type Descriptor struct {
	Code     Code
	Title    string
	Template string // {0}, {1}, ... are replaced by Diagnostic.Args
	Category Category
	Default  Severity
	Help     string
}

// Render substitutes args into the template. Missing args render as empty strings.
func (d Descriptor) Render(args []string) string {
	if len(args) == 0 || !strings.Contains(d.Template, "{") {
		return d.Template
	}
	pairs := make([]string, 0, 2*len(args))
	for i, a := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", a)
	}
	return strings.NewReplacer(pairs...).Replace(d.Template)
}

var descriptors = map[Code]Descriptor{
	RuleUseNativeInt: {
		Template: "Use 'nint' instead of '{0}'",
		Category: CategoryPerformance,
		Default:  SevError,
		Help:     "The nint keyword is the native-sized integer; IntPtr should only appear in interop signatures.",
	},
	RuleUnderscorePrefix: {
		Template: "Identifier '{0}' must not start with an underscore",
		Category: CategoryNaming,
		Default:  SevError,
		Help:     "Fields, locals, parameters, methods, properties, classes and interfaces are named without a leading underscore.",
	},
	RuleBodyOnNewLine: {
		Template: "The body of '{0}' must start on a new line",
		Category: CategoryUsage,
		Default:  SevError,
		Help:     "return, continue, break and goto may stay on the line of their construct; 'else if' is treated as one construct.",
	},
	RuleSingleLineNoBlock: {
		Template: "Braces around the single-line body of '{0}' are unnecessary",
		Category: CategoryUsage,
		Default:  SevError,
		Help:     "A block with exactly one simple, single-line statement and no lambda block is written without braces.",
	},
	RuleMultiLineNeedsBlock: {
		Template: "The multi-line body of '{0}' must be wrapped in braces",
		Category: CategoryUsage,
		Default:  SevWarning,
		Help:     "Nested control statements, multi-line statements and statements containing lambda blocks need braces. Chained using/lock/fixed statements are checked once, at the outermost link.",
	},
	RuleOperatorAtLineEnd: {
		Template: "Operator '{0}' must be placed at the end of the previous line",
		Category: CategoryUsage,
		Default:  SevWarning,
		Help:     "When a binary expression wraps, the operator ends the first line instead of starting the next one.",
	},
	RuleConfigFieldReadonly: {
		Template: "Field '{0}' of a {1} subclass must not be readonly",
		Category: CategoryDesign,
		Default:  SevWarning,
		Help:     "Configuration types are populated by a serializer, which cannot assign readonly fields.",
	},
	RuleAcronymCasing: {
		Template: "Acronym '{0}' must be written as '{1}' or '{2}'",
		Category: CategoryNaming,
		Default:  SevWarning,
		Help:     "Known acronyms are either fully upper or fully lower case inside an identifier.",
	},
	RuleIdentifierCaseStyle: {
		Template: "Identifier '{0}' must be {1} (suggested: '{2}')",
		Category: CategoryNaming,
		Default:  SevInfo,
		Help:     "Names are camelCase or PascalCase. With [naming] case_policy = \"role\", locals, parameters and private fields are camelCase and everything else PascalCase.",
	},
}

func init() {
	for code, d := range descriptors {
		d.Code = code
		d.Title = code.Title()
		descriptors[code] = d
	}
}

// Describe returns the descriptor registered for code.
func Describe(code Code) (Descriptor, bool) {
	d, ok := descriptors[code]
	return d, ok
}

// Descriptors lists every rule descriptor ordered by code.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
