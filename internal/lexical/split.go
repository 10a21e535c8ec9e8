package lexical

import "unicode"

type runeClass uint8

const (
	classLower runeClass = iota // lowercase and caseless letters
	classUpper
	classDigit
	classUnderscore
)

func classify(r rune) runeClass {
	switch {
	case r == '_':
		return classUnderscore
	case unicode.IsUpper(r) || unicode.IsTitle(r):
		return classUpper
	case unicode.IsDigit(r):
		return classDigit
	default:
		return classLower
	}
}

// SplitWords splits an identifier into words. Underscore runs come back as
// their own elements, so strings.Join(SplitWords(id), "") == id.
//
//	fooBar   -> foo Bar
//	XMLHttp  -> XML Http
//	MD5Hash  -> MD 5 Hash
//	_a_b     -> _ a _ b
func SplitWords(id string) []string {
	if id == "" {
		return nil
	}
	rs := []rune(id)
	if len(rs) == 1 {
		return []string{id}
	}
	var words []string
	start := 0
	for i := 1; i < len(rs); i++ {
		if isBoundary(rs, i) {
			words = append(words, string(rs[start:i]))
			start = i
		}
	}
	return append(words, string(rs[start:]))
}

// isBoundary reports whether a word starts at rs[i].
func isBoundary(rs []rune, i int) bool {
	prev, cur := classify(rs[i-1]), classify(rs[i])
	switch {
	case prev == classUnderscore || cur == classUnderscore:
		return prev != cur
	case prev == classDigit || cur == classDigit:
		return prev != cur
	case prev == classLower && cur == classUpper:
		return true
	case prev == classUpper && cur == classUpper:
		// UPPERUpperlower: the last upper letter opens the next word
		return i+1 < len(rs) && classify(rs[i+1]) == classLower
	}
	return false
}

func isSeparator(word string) bool {
	return word != "" && word[0] == '_'
}

func isDigits(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return word != ""
}
