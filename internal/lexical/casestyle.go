package lexical

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Style is the expected casing convention of a declaration.
type Style uint8

const (
	StyleCamel Style = iota
	StylePascal
	// StyleEither accepts both conventions; Convert prefers PascalCase.
	StyleEither
)

func (s Style) String() string {
	switch s {
	case StylePascal:
		return "PascalCase"
	case StyleEither:
		return "camelCase or PascalCase"
	}
	return "camelCase"
}

// Matches reports whether id follows s.
func (s Style) Matches(id string) bool {
	switch s {
	case StylePascal:
		return IsPascal(id)
	case StyleEither:
		return IsCamel(id) || IsPascal(id)
	}
	return IsCamel(id)
}

// Convert re-cases id into s.
func (s Style) Convert(d *Dictionary, id string) string {
	if s == StyleCamel {
		return ToCamel(d, id)
	}
	return ToPascal(d, id)
}

// IsConstant reports ALL_UPPER names such as MAX_VALUE.
func IsConstant(id string) bool {
	return strings.Contains(id, "_") && strings.ToUpper(id) == id && strings.IndexFunc(id, unicode.IsLetter) >= 0
}

// trivially compliant: too short, the discard, or a constant
func skipStyleCheck(id string) bool {
	return utf8.RuneCountInString(id) <= 1 || IsConstant(id)
}

// IsPascal reports whether id is PascalCase. Digits are neutral, so Vector3d
// and Int32 pass.
func IsPascal(id string) bool {
	id = strings.TrimPrefix(id, "@")
	if skipStyleCheck(id) {
		return true
	}
	if strings.Contains(id, "_") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(id)
	return unicode.IsUpper(r)
}

// IsCamel reports whether id is camelCase.
func IsCamel(id string) bool {
	id = strings.TrimPrefix(id, "@")
	if skipStyleCheck(id) {
		return true
	}
	if strings.Contains(id, "_") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(id)
	return !unicode.IsUpper(r)
}

// ToPascal converts id to PascalCase: leading underscores are dropped,
// all-upper input is lowered first, and '_' and '-' separate words.
func ToPascal(d *Dictionary, id string) string {
	return render(styleUnits(d, id), Pascal)
}

// ToCamel converts id to camelCase the same way as ToPascal.
func ToCamel(d *Dictionary, id string) string {
	return render(styleUnits(d, id), Camel)
}

func styleUnits(d *Dictionary, id string) []unit {
	id = strings.TrimLeft(strings.TrimPrefix(id, "@"), "_")
	if strings.IndexFunc(id, unicode.IsLower) < 0 {
		id = strings.ToLower(id)
	}
	var out []unit
	for _, part := range strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' }) {
		out = append(out, units(d, part)...)
	}
	return out
}
