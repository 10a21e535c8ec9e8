package lexical

import (
	"strings"
	"unicode/utf8"
)

// Finding is one acronym occurrence with mixed casing.
// Start and End are byte offsets into the identifier.
type Finding struct {
	Text  string
	Upper string
	Lower string
	Start int
	End   int
}

// Replace returns id with the finding's text replaced by form.
func (f Finding) Replace(id, form string) string {
	return id[:f.Start] + form + id[f.End:]
}

// match is a run of consecutive words equal to an acronym.
type match struct {
	first, last int // word indices, inclusive
	start, end  int // byte offsets
	canonical   string
}

// matchAcronyms finds acronym runs left to right, longest run first.
// Words inside ignored ranges never match.
func matchAcronyms(d *Dictionary, id string, words []string) []match {
	if d == nil || len(words) == 0 {
		return nil
	}
	offsets := make([]int, len(words)+1)
	for i, w := range words {
		offsets[i+1] = offsets[i] + len(w)
	}
	masked := d.Ignored(id)
	inMask := func(start, end int) bool {
		for _, m := range masked {
			if start < m[1] && m[0] < end {
				return true
			}
		}
		return false
	}

	var out []match
	for i := 0; i < len(words); {
		if isSeparator(words[i]) {
			i++
			continue
		}
		found := false
		for j := min(len(words), i+d.maxParts) - 1; j >= i; j-- {
			if containsSeparator(words[i : j+1]) {
				continue
			}
			text := id[offsets[i]:offsets[j+1]]
			canon, ok := d.Lookup(text)
			if !ok || inMask(offsets[i], offsets[j+1]) {
				continue
			}
			out = append(out, match{first: i, last: j, start: offsets[i], end: offsets[j+1], canonical: canon})
			i = j + 1
			found = true
			break
		}
		if !found {
			i++
		}
	}
	return out
}

func containsSeparator(words []string) bool {
	for _, w := range words {
		if isSeparator(w) {
			return true
		}
	}
	return false
}

// FindInconsistent reports every acronym in id whose casing is neither all
// upper nor all lower. "userId" yields Id; "userID" and "userid" yield nothing.
func FindInconsistent(d *Dictionary, id string) []Finding {
	if utf8.RuneCountInString(id) <= 1 {
		return nil
	}
	var out []Finding
	for _, m := range matchAcronyms(d, id, SplitWords(id)) {
		text := id[m.start:m.end]
		upper, lower := strings.ToUpper(text), strings.ToLower(text)
		if text == upper || text == lower {
			continue
		}
		out = append(out, Finding{
			Text:  text,
			Upper: strings.ToUpper(m.canonical),
			Lower: strings.ToLower(m.canonical),
			Start: m.start,
			End:   m.end,
		})
	}
	return out
}
