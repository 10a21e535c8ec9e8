package lexical

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Policy selects how Normalize re-cases an identifier.
type Policy uint8

const (
	// Upper writes every acronym fully upper and leaves other words alone.
	Upper Policy = iota
	// Lower writes every acronym fully lower and leaves other words alone.
	Lower
	// Pascal capitalizes the first word (acronyms fully upper).
	Pascal
	// Camel lowers the first word.
	Camel
)

var policyNames = [...]string{Upper: "upper", Lower: "lower", Pascal: "pascal", Camel: "camel"}

func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return "unknown"
}

type unitKind uint8

const (
	unitWord unitKind = iota
	unitAcronym
	unitSeparator
	unitDigits
)

type unit struct {
	kind unitKind
	text string
}

// units groups the words of id into acronym runs, plain words, separators
// and digit runs. All-upper words that are not themselves acronyms are split
// greedily into known acronyms when they decompose completely.
func units(d *Dictionary, id string) []unit {
	words := SplitWords(id)
	matches := matchAcronyms(d, id, words)
	out := make([]unit, 0, len(words))
	for i, mi := 0, 0; i < len(words); {
		if mi < len(matches) && matches[mi].first == i {
			m := matches[mi]
			out = append(out, unit{kind: unitAcronym, text: id[m.start:m.end]})
			i = m.last + 1
			mi++
			continue
		}
		w := words[i]
		i++
		switch {
		case isSeparator(w):
			out = append(out, unit{kind: unitSeparator, text: w})
		case isDigits(w):
			out = append(out, unit{kind: unitDigits, text: w})
		default:
			if pieces := decompose(d, w); pieces != nil {
				for _, p := range pieces {
					out = append(out, unit{kind: unitAcronym, text: p})
				}
				continue
			}
			out = append(out, unit{kind: unitWord, text: w})
		}
	}
	return out
}

// decompose splits an all-upper word into acronyms by greedy longest-prefix
// matching. It returns nil unless the whole word is covered.
func decompose(d *Dictionary, word string) []string {
	if d == nil || len(word) < 2 || strings.ToUpper(word) != word || strings.IndexFunc(word, unicode.IsLetter) < 0 {
		return nil
	}
	var pieces []string
	for rest := word; rest != ""; {
		n := 0
		for l := len(rest); l > 0; l-- {
			if _, ok := d.Lookup(rest[:l]); ok {
				n = l
				break
			}
		}
		if n == 0 {
			return nil
		}
		pieces = append(pieces, rest[:n])
		rest = rest[n:]
	}
	return pieces
}

// Normalize re-cases id under policy. Upper and Lower touch acronyms only.
// Pascal and Camel style the first word and force later acronyms upper:
//
//	Normalize(d, "XmlHttpId", Pascal) == "XMLHTTPID"
//	Normalize(d, "xmlHttpId", Camel)  == "xmlHTTPID"
//	Normalize(d, "parseXml", Camel)   == "parseXML"
//
// Underscore separators are preserved and digits are left as they are.
func Normalize(d *Dictionary, id string, policy Policy) string {
	if id == "" {
		return id
	}
	return render(units(d, id), policy)
}

func render(us []unit, policy Policy) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	first := true
	for _, u := range us {
		switch u.kind {
		case unitSeparator, unitDigits:
			b.WriteString(u.text)
			continue
		}
		switch policy {
		case Upper, Lower:
			switch {
			case u.kind != unitAcronym:
				b.WriteString(u.text)
			case policy == Upper:
				b.WriteString(upper.String(u.text))
			default:
				b.WriteString(lower.String(u.text))
			}
		case Camel:
			switch {
			case first:
				b.WriteString(lower.String(u.text))
			case u.kind == unitAcronym:
				b.WriteString(upper.String(u.text))
			default:
				b.WriteString(title.String(u.text))
			}
		default:
			if u.kind == unitAcronym {
				b.WriteString(upper.String(u.text))
			} else {
				b.WriteString(title.String(u.text))
			}
		}
		first = false
	}
	return b.String()
}
