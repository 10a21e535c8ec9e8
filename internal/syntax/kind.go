package syntax

// Kind is the closed set of node kinds.
type Kind uint8

const (
	KindInvalid Kind = iota

	// declarations
	CompilationUnit
	Using
	Namespace
	Class
	Struct
	Interface
	Enum
	EnumMember
	Method
	Constructor
	Property
	Field
	Parameter
	LocalDecl
	Declarator

	// statements
	Block
	If
	Else
	For
	ForEach
	While
	Do
	UsingStmt
	Lock
	Fixed
	Switch
	Try
	Checked
	Unsafe
	Return
	Break
	Continue
	Goto
	Throw
	Yield
	ExprStmt
	Empty
	Labeled

	// expressions
	Binary
	Unary
	Assign
	Conditional
	Invocation
	MemberAccess
	ElementAccess
	Lambda
	AnonymousMethod
	ObjectCreation
	Paren
	Cast
	Literal
	Name
	TypeRef
	Initializer
	Other

	kindCount
)

var kindNames = [...]string{
	KindInvalid:     "Invalid",
	CompilationUnit: "CompilationUnit",
	Using:           "Using",
	Namespace:       "Namespace",
	Class:           "Class",
	Struct:          "Struct",
	Interface:       "Interface",
	Enum:            "Enum",
	EnumMember:      "EnumMember",
	Method:          "Method",
	Constructor:     "Constructor",
	Property:        "Property",
	Field:           "Field",
	Parameter:       "Parameter",
	LocalDecl:       "LocalDecl",
	Declarator:      "Declarator",
	Block:           "Block",
	If:              "If",
	Else:            "Else",
	For:             "For",
	ForEach:         "ForEach",
	While:           "While",
	Do:              "Do",
	UsingStmt:       "UsingStmt",
	Lock:            "Lock",
	Fixed:           "Fixed",
	Switch:          "Switch",
	Try:             "Try",
	Checked:         "Checked",
	Unsafe:          "Unsafe",
	Return:          "Return",
	Break:           "Break",
	Continue:        "Continue",
	Goto:            "Goto",
	Throw:           "Throw",
	Yield:           "Yield",
	ExprStmt:        "ExprStmt",
	Empty:           "Empty",
	Labeled:         "Labeled",
	Binary:          "Binary",
	Unary:           "Unary",
	Assign:          "Assign",
	Conditional:     "Conditional",
	Invocation:      "Invocation",
	MemberAccess:    "MemberAccess",
	ElementAccess:   "ElementAccess",
	Lambda:          "Lambda",
	AnonymousMethod: "AnonymousMethod",
	ObjectCreation:  "ObjectCreation",
	Paren:           "Paren",
	Cast:            "Cast",
	Literal:         "Literal",
	Name:            "Name",
	TypeRef:         "TypeRef",
	Initializer:     "Initializer",
	Other:           "Other",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Kinds lists every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := CompilationUnit; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind is the inverse of String.
func ParseKind(name string) (Kind, bool) {
	for k := CompilationUnit; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsBodyOwner reports whether k governs a single sub-statement in Body.
func (k Kind) IsBodyOwner() bool {
	switch k {
	case If, Else, For, ForEach, While, Do, UsingStmt, Lock, Fixed:
		return true
	}
	return false
}

// IsControl reports whether a statement of kind k is a control construct,
// i.e. not "simple" for brace checks.
func (k Kind) IsControl() bool {
	switch k {
	case If, Else, For, ForEach, While, Do, UsingStmt, Lock, Fixed,
		Switch, Try, Checked, Unsafe:
		return true
	}
	return false
}

// IsScopeAcquisition reports whether k acquires a scoped resource for its body.
func (k Kind) IsScopeAcquisition() bool {
	return k == UsingStmt || k == Lock || k == Fixed
}

// IsJump reports whether k may stay on the line of its governing construct.
func (k Kind) IsJump() bool {
	switch k {
	case Return, Break, Continue, Goto:
		return true
	}
	return false
}

// IsTypeDecl reports whether k declares a type.
func (k Kind) IsTypeDecl() bool {
	switch k {
	case Class, Struct, Interface, Enum:
		return true
	}
	return false
}

// IsStatement reports whether k is a statement kind.
func (k Kind) IsStatement() bool {
	return (k >= Block && k <= Labeled) || k == LocalDecl
}

// IsExpression reports whether k is an expression kind.
func (k Kind) IsExpression() bool {
	return k >= Binary && k < kindCount
}
