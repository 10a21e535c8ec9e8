package diag

import (
	"fmt"
	"strconv"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Style rules. The numeric part is the persisted identifier.
	RuleUseNativeInt        Code = 1
	RuleUnderscorePrefix    Code = 2
	RuleReserved            Code = 3 // never emitted
	RuleBodyOnNewLine       Code = 4
	RuleSingleLineNoBlock   Code = 5
	RuleMultiLineNeedsBlock Code = 6
	RuleOperatorAtLineEnd   Code = 7
	RuleConfigFieldReadonly Code = 8
	RuleAcronymCasing       Code = 9
	RuleIdentifierCaseStyle Code = 10
	ruleLast                     = RuleIdentifierCaseStyle

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Парсерные
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectSemicolon   Code = 2003
	SynExpectIdentifier  Code = 2004
	SynExpectExpression  Code = 2005
	SynExpectStatement   Code = 2006
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	RuleUseNativeInt:            "Use native-sized integer keyword",
	RuleUnderscorePrefix:        "Identifier must not start with an underscore",
	RuleReserved:                "Reserved",
	RuleBodyOnNewLine:           "Control body must start on a new line",
	RuleSingleLineNoBlock:       "Single-line body must not use braces",
	RuleMultiLineNeedsBlock:     "Multi-line body must use braces",
	RuleOperatorAtLineEnd:       "Binary operator must end the previous line",
	RuleConfigFieldReadonly:     "Configuration fields must not be readonly",
	RuleAcronymCasing:           "Acronyms must use consistent casing",
	RuleIdentifierCaseStyle:     "Identifier must follow the case convention",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexUnterminatedChar:         "Unterminated character literal",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynExpectStatement:          "Expected statement",
}

// IsRule reports whether the code belongs to a style rule.
func (c Code) IsRule() bool {
	return c > UnknownCode && c <= ruleLast
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic > 0 && ic < 1000:
		return fmt.Sprintf("DR%04d", ic)
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode converts an identifier such as "DR0007" (or bare "7") back to a Code.
func ParseCode(id string) (Code, error) {
	s := strings.ToUpper(strings.TrimSpace(id))
	for _, prefix := range []string{"LEX", "SYN", "DR"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 0xFFFF {
		return UnknownCode, fmt.Errorf("invalid diagnostic code %q", id)
	}
	c := Code(n) // #nosec G115 -- range checked above
	if _, ok := codeDescription[c]; !ok {
		return UnknownCode, fmt.Errorf("unknown diagnostic code %q", id)
	}
	return c, nil
}
