package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"drlint/internal/diag"
	"drlint/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type SarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []SarifRun `json:"runs"`
}

type SarifRun struct {
	Tool        SarifTool         `json:"tool"`
	Invocations []SarifInvocation `json:"invocations,omitempty"`
	Results     []SarifResult     `json:"results"`
}

type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

type SarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []SarifRule `json:"rules,omitempty"`
}

type SarifRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name,omitempty"`
	ShortDescription     SarifMessage       `json:"shortDescription"`
	FullDescription      *SarifMessage      `json:"fullDescription,omitempty"`
	DefaultConfiguration *SarifRuleConfig   `json:"defaultConfiguration,omitempty"`
	Properties           map[string]any     `json:"properties,omitempty"`
	MessageStrings       map[string]SarifMS `json:"messageStrings,omitempty"`
}

type SarifRuleConfig struct {
	Level string `json:"level"`
}

type SarifMS struct {
	Text string `json:"text"`
}

type SarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type SarifMessage struct {
	Text string `json:"text"`
}

type SarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        *int            `json:"ruleIndex,omitempty"`
	Level            string          `json:"level"`
	Message          SarifMessage    `json:"message"`
	Locations        []SarifLocation `json:"locations,omitempty"`
	RelatedLocations []SarifLocation `json:"relatedLocations,omitempty"`
	Fixes            []SarifFix      `json:"fixes,omitempty"`
}

type SarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
	Message          *SarifMessage         `json:"message,omitempty"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           *SarifRegion          `json:"region,omitempty"`
}

type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

type SarifRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type SarifFix struct {
	Description     SarifMessage          `json:"description"`
	ArtifactChanges []SarifArtifactChange `json:"artifactChanges"`
}

type SarifArtifactChange struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Replacements     []SarifReplacement    `json:"replacements"`
}

type SarifReplacement struct {
	DeletedRegion   SarifRegion   `json:"deletedRegion"`
	InsertedContent *SarifMessage `json:"insertedContent,omitempty"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

// sarifRules lists every rule descriptor, then any other code that occurs in items.
func sarifRules(items []diag.Diagnostic) ([]SarifRule, map[diag.Code]int) {
	index := make(map[diag.Code]int)
	var out []SarifRule
	for _, d := range diag.Descriptors() {
		index[d.Code] = len(out)
		out = append(out, SarifRule{
			ID:                   d.Code.ID(),
			Name:                 d.Title,
			ShortDescription:     SarifMessage{Text: d.Title},
			FullDescription:      &SarifMessage{Text: d.Help},
			DefaultConfiguration: &SarifRuleConfig{Level: sarifLevel(d.Default)},
			Properties:           map[string]any{"category": string(d.Category)},
			MessageStrings:       map[string]SarifMS{"default": {Text: d.Template}},
		})
	}
	var extra []diag.Code
	for _, d := range items {
		if _, ok := index[d.Code]; !ok && !slices.Contains(extra, d.Code) {
			extra = append(extra, d.Code)
		}
	}
	slices.Sort(extra)
	for _, c := range extra {
		index[c] = len(out)
		out = append(out, SarifRule{ID: c.ID(), ShortDescription: SarifMessage{Text: c.Title()}})
	}
	return out, index
}

func sarifRegion(fs *source.FileSet, span source.Span) SarifRegion {
	start, end := fs.Resolve(span)
	return SarifRegion{
		StartLine:   start.Line,
		StartColumn: start.Col,
		EndLine:     end.Line,
		EndColumn:   end.Col,
		ByteOffset:  span.Start,
		ByteLength:  span.Len(),
	}
}

func sarifLocation(fs *source.FileSet, span source.Span) SarifLocation {
	region := sarifRegion(fs, span)
	return SarifLocation{PhysicalLocation: SarifPhysicalLocation{
		ArtifactLocation: SarifArtifactLocation{URI: displayPath(fs, span.File, PathModeRelative)},
		Region:           &region,
	}}
}

// BuildSarif assembles a single-run SARIF log. Fixes are resolved; a fix
// whose thunk fails is left out.
func BuildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) SarifLog {
	items := bag.Items()
	rules, index := sarifRules(items)
	run := SarifRun{
		Tool: SarifTool{Driver: SarifDriver{
			Name:           firstNonEmpty(meta.ToolName, "drlint"),
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		Results: make([]SarifResult, 0, len(items)),
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []SarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}

	ctx := diag.FixBuildContext{FileSet: fs}
	for _, d := range items {
		res := SarifResult{
			RuleID:  d.Code.ID(),
			Level:   sarifLevel(d.Severity),
			Message: SarifMessage{Text: d.Message},
		}
		if idx, ok := index[d.Code]; ok {
			res.RuleIndex = &idx
		}
		if fs.Get(d.Primary.File) != nil {
			res.Locations = []SarifLocation{sarifLocation(fs, d.Primary)}
		}
		for i, n := range d.Notes {
			if fs.Get(n.Span.File) == nil {
				continue
			}
			loc := sarifLocation(fs, n.Span)
			loc.ID = i + 1
			loc.Message = &SarifMessage{Text: n.Msg}
			res.RelatedLocations = append(res.RelatedLocations, loc)
		}
		for _, f := range orderedFixes(d.Fixes) {
			resolved, err := f.Resolve(ctx)
			if err != nil {
				continue
			}
			res.Fixes = append(res.Fixes, sarifFix(fs, resolved))
		}
		run.Results = append(run.Results, res)
	}

	return SarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []SarifRun{run}}
}

func sarifFix(fs *source.FileSet, f diag.Fix) SarifFix {
	out := SarifFix{Description: SarifMessage{Text: f.Title}}
	byFile := make(map[source.FileID]int)
	for _, e := range f.Edits {
		i, ok := byFile[e.Span.File]
		if !ok {
			i = len(out.ArtifactChanges)
			byFile[e.Span.File] = i
			out.ArtifactChanges = append(out.ArtifactChanges, SarifArtifactChange{
				ArtifactLocation: SarifArtifactLocation{URI: displayPath(fs, e.Span.File, PathModeRelative)},
			})
		}
		rep := SarifReplacement{DeletedRegion: sarifRegion(fs, e.Span)}
		if e.NewText != "" {
			rep.InsertedContent = &SarifMessage{Text: e.NewText}
		}
		out.ArtifactChanges[i].Replacements = append(out.ArtifactChanges[i].Replacements, rep)
	}
	return out
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildSarif(bag, fs, meta))
}
