package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input; it carries the file's final trivia.
	EOF

	// Ident represents an identifier, contextual keywords included.
	Ident
	IntLit
	RealLit
	CharLit
	// StringLit covers regular, verbatim (@"") and interpolated ($"") strings.
	StringLit

	keywordBegin
	KwAbstract
	KwAs
	KwBase
	KwBool
	KwBreak
	KwByte
	KwCase
	KwCatch
	KwChar
	KwChecked
	KwClass
	KwConst
	KwContinue
	KwDecimal
	KwDefault
	KwDelegate
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwEvent
	KwExplicit
	KwExtern
	KwFalse
	KwFinally
	KwFixed
	KwFloat
	KwFor
	KwForeach
	KwGoto
	KwIf
	KwImplicit
	KwIn
	KwInt
	KwInterface
	KwInternal
	KwIs
	KwLock
	KwLong
	KwNamespace
	KwNew
	KwNull
	KwObject
	KwOperator
	KwOut
	KwOverride
	KwParams
	KwPrivate
	KwProtected
	KwPublic
	KwReadonly
	KwRef
	KwReturn
	KwSbyte
	KwSealed
	KwShort
	KwSizeof
	KwStackalloc
	KwStatic
	KwString
	KwStruct
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwUint
	KwUlong
	KwUnchecked
	KwUnsafe
	KwUshort
	KwUsing
	KwVirtual
	KwVoid
	KwVolatile
	KwWhile
	keywordEnd

	Plus           // +
	Minus          // -
	Star           // *
	Slash          // /
	Percent        // %
	Assign         // =
	PlusAssign     // +=
	MinusAssign    // -=
	StarAssign     // *=
	SlashAssign    // /=
	PercentAssign  // %=
	AmpAssign      // &=
	PipeAssign     // |=
	CaretAssign    // ^=
	ShlAssign      // <<=
	QuestionAssign // ??=
	EqEq           // ==
	BangEq         // !=
	Lt             // <
	LtEq           // <=
	Gt             // > (never joined with a following '>')
	GtEq           // >=
	Shl            // <<
	Amp            // &
	Pipe           // |
	Caret          // ^
	AndAnd         // &&
	OrOr           // ||
	Bang           // !
	Tilde          // ~
	PlusPlus       // ++
	MinusMinus     // --
	Question       // ?
	QuestionQuestion
	QuestionDot // ?.
	Colon       // :
	ColonColon  // ::
	Semicolon   // ;
	Comma       // ,
	Dot         // .
	DotDot      // ..
	Arrow       // ->
	FatArrow    // =>
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
)

var kindNames = map[Kind]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Ident:            "Ident",
	IntLit:           "IntLit",
	RealLit:          "RealLit",
	CharLit:          "CharLit",
	StringLit:        "StringLit",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	Slash:            "/",
	Percent:          "%",
	Assign:           "=",
	PlusAssign:       "+=",
	MinusAssign:      "-=",
	StarAssign:       "*=",
	SlashAssign:      "/=",
	PercentAssign:    "%=",
	AmpAssign:        "&=",
	PipeAssign:       "|=",
	CaretAssign:      "^=",
	ShlAssign:        "<<=",
	QuestionAssign:   "??=",
	EqEq:             "==",
	BangEq:           "!=",
	Lt:               "<",
	LtEq:             "<=",
	Gt:               ">",
	GtEq:             ">=",
	Shl:              "<<",
	Amp:              "&",
	Pipe:             "|",
	Caret:            "^",
	AndAnd:           "&&",
	OrOr:             "||",
	Bang:             "!",
	Tilde:            "~",
	PlusPlus:         "++",
	MinusMinus:       "--",
	Question:         "?",
	QuestionQuestion: "??",
	QuestionDot:      "?.",
	Colon:            ":",
	ColonColon:       "::",
	Semicolon:        ";",
	Comma:            ",",
	Dot:              ".",
	DotDot:           "..",
	Arrow:            "->",
	FatArrow:         "=>",
	LParen:           "(",
	RParen:           ")",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k > keywordBegin && k < keywordEnd {
		return keywordText[k]
	}
	return "Unknown"
}
