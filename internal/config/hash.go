package config

import (
	"crypto/sha256"
	"slices"
	"strings"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine builds a composite key: H( first || rest1 || rest2 ... ).
// Callers pass parts in a deterministic order.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// digest hashes everything that can change what rules report.
func (c *Config) digest() Digest {
	var b strings.Builder
	b.WriteString("indent=" + c.Indent + "\n")
	b.WriteString("case_policy=" + c.CasePolicy.String() + "\n")
	for _, code := range c.Disabled {
		b.WriteString("disable=" + code.ID() + "\n")
	}
	for _, code := range c.Only {
		b.WriteString("only=" + code.ID() + "\n")
	}
	sev := make([]string, 0, len(c.Severity))
	for code, s := range c.Severity {
		sev = append(sev, code.ID()+"="+s.String())
	}
	slices.Sort(sev)
	for _, s := range sev {
		b.WriteString("severity:" + s + "\n")
	}
	for _, m := range c.ConfigurationBases {
		b.WriteString("base=" + m + "\n")
	}
	if c.Dictionary != nil {
		for _, a := range c.Dictionary.Acronyms() {
			b.WriteString("acronym=" + a + "\n")
		}
		for _, w := range c.Dictionary.IgnoredWords() {
			b.WriteString("ignore=" + w + "\n")
		}
	}
	return sha256.Sum256([]byte(b.String()))
}
