package version

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b") {
		t.Errorf("Version must be plain text, got %q", Version)
	}
}

func TestVersion_SemanticVersionFormat(t *testing.T) {
	re := regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
	if !re.MatchString(Version) {
		t.Errorf("Version %q is not a semantic version", Version)
	}
}

func TestLine(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version = "1.2.3"
	GitCommit = "abc123def4567890"
	BuildDate = "2024-01-15T10:30:00Z"
	if got, want := Line(false), "drlint 1.2.3 (abc123def456) built 2024-01-15T10:30:00Z"; got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}

	GitCommit, BuildDate = "", ""
	if got := Line(false); got != "drlint 1.2.3" {
		t.Errorf("Line() = %q", got)
	}
}

func TestColoredKeepsText(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = orig, origNoColor })

	color.NoColor = true
	Version = "0.4.1-rc.1"
	if got := Colored(); got != "0.4.1-rc.1" {
		t.Errorf("Colored() = %q", got)
	}
	Version = "dev"
	if got := Colored(); got != "dev" {
		t.Errorf("Colored() = %q", got)
	}
}
