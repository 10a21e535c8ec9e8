package syntax

// NodeID addresses a node in Tree.Nodes; 0 is "no node".
type NodeID uint32

// TokenID addresses a token in Tree.Tokens; 0 is "no token".
type TokenID uint32

const (
	NoNode  NodeID  = 0
	NoToken TokenID = 0
)

// Node is one syntax node. Which slots are filled depends on Kind:
//
//	If             Keyword=if Close=')' Cond Body Else
//	Else           Keyword=else Body
//	For, ForEach, While, UsingStmt, Lock, Fixed
//	               Keyword Close=')' Body (Children: header parts)
//	Do             Keyword=do Body Cond
//	Block          First='{' Last='}' Children=statements
//	Binary         Left Op OpLast Right (OpLast differs from Op for ">>")
//	Assign         Left Op OpLast Right
//	Conditional    Cond Left Right
//	Unary, Cast    Op Expr
//	Invocation     Expr=callee Op='(' Close=')' Children=arguments
//	MemberAccess   Expr Name
//	Lambda         Body (Block or expression), Children=parameters
//	AnonymousMethod Keyword=delegate Body=Block
//	ExprStmt       Expr
//	Return, Throw, Yield
//	               Keyword Expr
//	Class, Struct, Interface, Enum
//	               Modifiers Keyword Name Bases Children=members
//	Method, Constructor, Property
//	               Modifiers Name Children=parameters and type Body or Expr
//	Field, LocalDecl
//	               Modifiers Children=TypeRef then Declarators
//	Declarator     Name Expr=initializer
//	Parameter      Modifiers Name Children=TypeRef Expr=default
//	EnumMember     Name Expr=value
//	TypeRef, Name  Name=the identifier
//
// Children lists every direct child in source order, including the ones
// reachable through role slots. First and Last bound the node's tokens
// inclusively.
type Node struct {
	Kind   Kind
	Parent NodeID
	First  TokenID
	Last   TokenID

	Children []NodeID

	Body  NodeID
	Else  NodeID
	Left  NodeID
	Right NodeID
	Cond  NodeID
	Expr  NodeID
	Block NodeID

	Keyword TokenID
	Op      TokenID
	OpLast  TokenID
	Close   TokenID
	Name    TokenID

	Modifiers []TokenID
	Bases     []string
}

// roleSlots returns the node ids referenced from role slots.
func (n *Node) roleSlots() [7]NodeID {
	return [...]NodeID{n.Cond, n.Left, n.Expr, n.Right, n.Block, n.Body, n.Else}
}
