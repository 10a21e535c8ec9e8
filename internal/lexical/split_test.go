package lexical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"x", []string{"x"}},
		{"fooBar", []string{"foo", "Bar"}},
		{"FooBar", []string{"Foo", "Bar"}},
		{"XMLHttp", []string{"XML", "Http"}},
		{"XMLHTTP", []string{"XMLHTTP"}},
		{"userID", []string{"user", "ID"}},
		{"MD5Hash", []string{"MD", "5", "Hash"}},
		{"vector3d", []string{"vector", "3", "d"}},
		{"_a_b", []string{"_", "a", "_", "b"}},
		{"MAX__VALUE", []string{"MAX", "__", "VALUE"}},
		{"getHTMLElement2", []string{"get", "HTML", "Element", "2"}},
		{"имяФайла", []string{"имя", "Файла"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitWords(tt.in), "SplitWords(%q)", tt.in)
	}
}

func TestSplitWordsRoundTrip(t *testing.T) {
	inputs := []string{
		"a", "ab", "_", "__x", "x__", "fooBarBaz", "ABCdef", "aB1cD2", "HTTPServer_v2",
		"_camel_Snake__Mixed99Case", "ÄpfelÖl", "ID", "iOS", "x1y2z3", "A_B_C",
	}
	for _, in := range inputs {
		assert.Equal(t, in, strings.Join(SplitWords(in), ""), "round trip of %q", in)
	}
}
