package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drlint/internal/diag"
	"drlint/internal/rules"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "names.yaml", "acronyms: [Gpu]\nignore: [ImGui]\n")
	path := write(t, dir, FileName, `
[style]
indent = 2

[rules]
disable = ["DR0001", "dr0001"]

[rules.severity]
DR0007 = "error"
DR0010 = "off"

[naming]
dictionary = "names.yaml"
acronyms = ["Html"]

[design]
configuration_bases = ["SettingsBase", " "]
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path)
	assert.Equal(t, "  ", c.Indent)
	assert.Equal(t, []diag.Code{diag.RuleUseNativeInt, diag.RuleIdentifierCaseStyle}, c.Disabled)
	assert.Equal(t, diag.SevError, c.Severity[diag.RuleOperatorAtLineEnd])
	assert.Equal(t, []string{"SettingsBase"}, c.ConfigurationBases)

	canon, ok := c.Dictionary.Lookup("GPU")
	assert.True(t, ok)
	assert.Equal(t, "Gpu", canon)
	_, ok = c.Dictionary.Lookup("html")
	assert.True(t, ok)
	_, ok = c.Dictionary.Lookup("xml")
	assert.False(t, ok, "a dictionary file replaces the built-in list")
	assert.Equal(t, []string{"ImGui"}, c.Dictionary.IgnoredWords())

	opts := c.RuleOptions()
	assert.Equal(t, c.Disabled, opts.Disabled)
	assert.Same(t, c.Dictionary, opts.Dictionary)
	assert.Equal(t, "  ", c.SynthOptions().Indent)
	assert.Equal(t, rules.CaseEither, opts.CasePolicy)
}

func TestLoadCasePolicy(t *testing.T) {
	path := write(t, t.TempDir(), FileName, "[naming]\ncase_policy = \"role\"\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, rules.CaseByRole, c.CasePolicy)
	assert.Equal(t, rules.CaseByRole, c.RuleOptions().CasePolicy)
	assert.Equal(t, rules.CaseByRole, c.SynthOptions().CasePolicy)
	assert.NotEqual(t, Default().Hash, c.Hash)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":       "[style\n",
		"unknown key":  "[style]\nwidth = 4\n",
		"bad code":     "[rules]\ndisable = [\"DR9999\"]\n",
		"not a rule":   "[rules]\ndisable = [\"SYN2001\"]\n",
		"bad severity": "[rules.severity]\nDR0004 = \"fatal\"\n",
		"bad indent":   "[style]\nindent = \"xx\"\n",
		"wide indent":  "[style]\nindent = 40\n",
		"missing dict": "[naming]\ndictionary = \"nope.yaml\"\n",
		"bad policy":   "[naming]\ncase_policy = \"strict\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := write(t, t.TempDir(), FileName, content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestParseIndent(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{int64(4), "    "},
		{"tab", "\t"},
		{"TAB", "\t"},
		{"3", "   "},
		{"\t", "\t"},
		{"", ""},
	}
	for _, tc := range cases {
		got, err := parseIndent(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestFindWalksUp(t *testing.T) {
	dir := t.TempDir()
	want := write(t, dir, FileName, "")
	src := write(t, dir, "src/app/Program.cs", "class P {}")

	got, ok, err := Find(filepath.Dir(src))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	got, ok, err = Find(src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	c, err := Resolve("", dir)
	require.NoError(t, err)
	assert.Empty(t, c.Path)
	assert.Equal(t, Default().Hash, c.Hash)

	explicit := write(t, t.TempDir(), "custom.toml", "[rules]\ndisable = [\"DR0004\"]\n")
	c, err = Resolve(explicit, dir)
	require.NoError(t, err)
	assert.Equal(t, explicit, c.Path)
	assert.Equal(t, []diag.Code{diag.RuleBodyOnNewLine}, c.Disabled)
}

func TestHashTracksRelevantSettings(t *testing.T) {
	dir := t.TempDir()
	a, err := Load(write(t, dir, "a.toml", "[rules]\ndisable = [\"DR0004\"]\n"))
	require.NoError(t, err)
	b, err := Load(write(t, dir, "b.toml", "[rules]\ndisable = [\"DR0004\"]\n"))
	require.NoError(t, err)
	c, err := Load(write(t, dir, "c.toml", "[rules]\ndisable = [\"DR0005\"]\n"))
	require.NoError(t, err)

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
	assert.NotEqual(t, Default().Hash, a.Hash)

	assert.Equal(t, Combine(a.Hash, b.Hash), Combine(b.Hash, a.Hash))
	assert.NotEqual(t, Combine(a.Hash, c.Hash), Combine(c.Hash, a.Hash))
}
