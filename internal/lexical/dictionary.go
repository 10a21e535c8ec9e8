package lexical

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed acronyms.yaml
var defaultDictionaryYAML []byte

// Dictionary is an immutable, case-insensitive acronym set plus a list of
// ignored words.
type Dictionary struct {
	acronyms map[string]string // upper -> canonical
	ignored  []string
	maxParts int // longest acronym in SplitWords parts ("MD5" is two)
}

type dictionaryFile struct {
	Acronyms []string `yaml:"acronyms"`
	Ignore   []string `yaml:"ignore"`
}

var loadDefault = sync.OnceValues(func() (*Dictionary, error) {
	return ParseDictionary(defaultDictionaryYAML)
})

// Default returns the built-in dictionary.
func Default() *Dictionary {
	d, err := loadDefault()
	if err != nil {
		panic(fmt.Errorf("embedded acronym dictionary: %w", err))
	}
	return d
}

// ParseDictionary decodes the YAML form:
//
//	acronyms: [ID, URL]
//	ignore: [ImGui]
func ParseDictionary(data []byte) (*Dictionary, error) {
	var f dictionaryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	for i, a := range f.Acronyms {
		if strings.TrimSpace(a) == "" {
			return nil, fmt.Errorf("decode dictionary: empty acronym at index %d", i)
		}
	}
	return NewDictionary(f.Acronyms, f.Ignore), nil
}

// LoadDictionaryFile reads a dictionary YAML file.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func NewDictionary(acronyms, ignored []string) *Dictionary {
	d := &Dictionary{acronyms: make(map[string]string, len(acronyms))}
	d.add(acronyms, ignored)
	return d
}

// Extend returns a new dictionary with extra entries; d is not modified.
func (d *Dictionary) Extend(acronyms, ignored []string) *Dictionary {
	out := &Dictionary{
		acronyms: make(map[string]string, len(d.acronyms)+len(acronyms)),
		ignored:  slices.Clone(d.ignored),
		maxParts: d.maxParts,
	}
	for k, v := range d.acronyms {
		out.acronyms[k] = v
	}
	out.add(acronyms, ignored)
	return out
}

func (d *Dictionary) add(acronyms, ignored []string) {
	for _, a := range acronyms {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		d.acronyms[strings.ToUpper(a)] = a
		d.maxParts = max(d.maxParts, len(SplitWords(a)))
	}
	for _, w := range ignored {
		if w = strings.TrimSpace(w); w != "" && !slices.ContainsFunc(d.ignored, func(s string) bool { return strings.EqualFold(s, w) }) {
			d.ignored = append(d.ignored, w)
		}
	}
	if d.maxParts == 0 {
		d.maxParts = 1
	}
}

// Lookup returns the canonical form of word when it is a known acronym.
func (d *Dictionary) Lookup(word string) (string, bool) {
	if d == nil || word == "" {
		return "", false
	}
	c, ok := d.acronyms[strings.ToUpper(word)]
	return c, ok
}

// Acronyms lists the canonical forms, sorted.
func (d *Dictionary) Acronyms() []string {
	out := make([]string, 0, len(d.acronyms))
	for _, v := range d.acronyms {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// IgnoredWords lists the ignore entries in insertion order.
func (d *Dictionary) IgnoredWords() []string {
	return slices.Clone(d.ignored)
}

// Ignored returns the byte ranges of id covered by ignored words. A match
// must start and end on word boundaries.
func (d *Dictionary) Ignored(id string) [][2]int {
	if d == nil || len(d.ignored) == 0 {
		return nil
	}
	bounds := wordBoundaries(id)
	lower := strings.ToLower(id)
	var out [][2]int
	for _, w := range d.ignored {
		lw := strings.ToLower(w)
		for from := 0; from <= len(lower)-len(lw); {
			i := strings.Index(lower[from:], lw)
			if i < 0 {
				break
			}
			start, end := from+i, from+i+len(lw)
			if bounds[start] && bounds[end] {
				out = append(out, [2]int{start, end})
			}
			from = start + 1
		}
	}
	return out
}

// wordBoundaries marks the byte offsets of id where a word starts or ends.
func wordBoundaries(id string) map[int]bool {
	marks := map[int]bool{0: true, len(id): true}
	off := 0
	for _, w := range SplitWords(id) {
		off += len(w)
		marks[off] = true
	}
	return marks
}
