package rules

import (
	"fmt"
	"slices"
	"strings"

	"drlint/internal/lexical"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

var declarationKinds = []syntax.Kind{
	syntax.Class, syntax.Struct, syntax.Interface, syntax.Enum, syntax.EnumMember,
	syntax.Method, syntax.Property, syntax.Parameter, syntax.Declarator,
}

// DeclRole says what a declared name is, for the case-style rule.
type DeclRole uint8

const (
	RoleNone DeclRole = iota
	RoleLocal
	RoleParameter
	RolePrivateField
	RoleField // non-private field, constant or event
	RoleMember
	RoleType
)

// Declaration returns the name token of a declaration node and its role.
// Unnamed declarations (operators, indexers) return NoToken.
func Declaration(t *syntax.Tree, id syntax.NodeID) (syntax.TokenID, DeclRole) {
	n := t.Node(id)
	if n == nil || n.Name == syntax.NoToken {
		return syntax.NoToken, RoleNone
	}
	switch n.Kind {
	case syntax.Class, syntax.Struct, syntax.Interface, syntax.Enum:
		return n.Name, RoleType
	case syntax.EnumMember, syntax.Method, syntax.Property:
		return n.Name, RoleMember
	case syntax.Parameter:
		// positional record parameters become properties
		if t.Kind(n.Parent).IsTypeDecl() {
			return n.Name, RoleMember
		}
		return n.Name, RoleParameter
	case syntax.Declarator:
		parent := t.Node(n.Parent)
		if parent != nil && parent.Kind == syntax.Field {
			return n.Name, fieldRole(t, n.Parent)
		}
		return n.Name, RoleLocal
	}
	return syntax.NoToken, RoleNone
}

func fieldRole(t *syntax.Tree, field syntax.NodeID) DeclRole {
	n := t.Node(field)
	if t.Kind(n.Parent) == syntax.Interface {
		return RoleField
	}
	for _, m := range n.Modifiers {
		switch t.Token(m).Kind {
		case token.KwPublic, token.KwProtected, token.KwInternal, token.KwConst, token.KwEvent:
			return RoleField
		}
	}
	return RolePrivateField
}

// ExpectedStyle maps a role to its case convention.
func (r DeclRole) ExpectedStyle() lexical.Style {
	switch r {
	case RoleLocal, RoleParameter, RolePrivateField:
		return lexical.StyleCamel
	}
	return lexical.StylePascal
}

// CasePolicy selects how DR0010 judges a name.
type CasePolicy uint8

const (
	// CaseEither accepts camelCase and PascalCase on any declaration.
	CaseEither CasePolicy = iota
	// CaseByRole requires the convention of the role (ExpectedStyle).
	CaseByRole
)

func (p CasePolicy) String() string {
	if p == CaseByRole {
		return "role"
	}
	return "either"
}

// ParseCasePolicy accepts "either" and "role".
func ParseCasePolicy(s string) (CasePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "either":
		return CaseEither, nil
	case "role":
		return CaseByRole, nil
	}
	return CaseEither, fmt.Errorf("unknown case policy %q (want \"either\" or \"role\")", s)
}

// StyleFor is the style a name with role must follow under p.
func (p CasePolicy) StyleFor(role DeclRole) lexical.Style {
	if p == CaseByRole {
		return role.ExpectedStyle()
	}
	return lexical.StyleEither
}

// HasModifier reports whether a node carries the modifier keyword kind.
func HasModifier(t *syntax.Tree, id syntax.NodeID, kind token.Kind) (syntax.TokenID, bool) {
	n := t.Node(id)
	if n == nil {
		return syntax.NoToken, false
	}
	i := slices.IndexFunc(n.Modifiers, func(m syntax.TokenID) bool { return t.Token(m).Kind == kind })
	if i < 0 {
		return syntax.NoToken, false
	}
	return n.Modifiers[i], true
}

func stripVerbatim(name string) string {
	return strings.TrimPrefix(name, "@")
}
