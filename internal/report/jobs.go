package report

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/user/eer_plotter_go/internal/analysis"
	"github.com/user/eer_plotter_go/internal/parser"
)

// TitleMode selects where a chart's title comes from.
type TitleMode string

const (
	// TitleFixed uses Job.Title verbatim ("EER" when empty).
	TitleFixed TitleMode = "fixed"
	// TitleHeader uses the whole trimmed header line of the data file.
	TitleHeader TitleMode = "header"
	// TitleHeaderToken uses the first whitespace token of the header line.
	TitleHeaderToken TitleMode = "header-token"
)

const defaultTitle = "EER"

// ParseTitleMode validates a title mode name.
func ParseTitleMode(name string) (TitleMode, error) {
	switch mode := TitleMode(strings.ToLower(strings.TrimSpace(name))); mode {
	case TitleFixed, TitleHeader, TitleHeaderToken:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown title mode: %s", name)
	}
}

// Job describes how one data file becomes a chart: which columns to read, how to derive the
// plotted values and how to label and color the result.
type Job struct {
	Name       string
	Mapping    parser.ColumnMapping
	Derivation analysis.Derivation
	TitleMode  TitleMode
	Title      string
	XLabel     string
	YLabel     string
	Colors     []color.Color
	Normalize  bool
}

// Validate checks the mapping against the derivation rule and the title mode.
func (j Job) Validate() error {
	if err := j.Mapping.Validate(); err != nil {
		return fmt.Errorf("job %s: %w", j.Name, err)
	}
	if j.Derivation != analysis.Identity && len(j.Mapping.Y) != 2 {
		return fmt.Errorf("job %s: %s needs 2 y columns, got %d", j.Name, j.Derivation, len(j.Mapping.Y))
	}
	if _, err := ParseTitleMode(string(j.TitleMode)); err != nil {
		return fmt.Errorf("job %s: %w", j.Name, err)
	}
	return nil
}

// chartTitle resolves the title for a parsed table.
func (j Job) chartTitle(table *parser.Table) string {
	switch j.TitleMode {
	case TitleHeader:
		return strings.TrimSpace(table.Header)
	case TitleHeaderToken:
		return table.HeaderToken()
	default:
		if j.Title == "" {
			return defaultTitle
		}
		return j.Title
	}
}

// buildSpec assembles the immutable chart description for derived series.
func (j Job) buildSpec(table *parser.Table, series []analysis.Series) *ChartSpec {
	styled := make([]StyledSeries, len(series))
	for i, s := range series {
		styled[i] = StyledSeries{Series: s, Color: colorAt(j.Colors, i)}
	}
	return NewChartSpec(j.chartTitle(table), j.XLabel, j.YLabel, styled)
}

// Named presets reproduce the three plotting variants the tool grew out of.
const (
	PresetPair      = "pair"
	PresetEERAbs    = "eer-abs"
	PresetEERSigned = "eer-signed"
)

// DefaultPreset is used when no preset is configured.
const DefaultPreset = PresetEERAbs

var presets = map[string]Job{
	// Two columns plotted directly against the first, titled by the header's first word.
	PresetPair: {
		Mapping:    parser.ColumnMapping{X: 0, Y: []int{1, 2}},
		Derivation: analysis.Identity,
		TitleMode:  TitleHeaderToken,
		XLabel:     "X",
		YLabel:     "Y",
		Colors:     []color.Color{colorRed, colorBlue},
	},
	// |FRR - FAR| over the threshold k.
	PresetEERAbs: {
		Mapping:    parser.ColumnMapping{X: 0, Y: []int{1, 2}},
		Derivation: analysis.AbsoluteDifference,
		TitleMode:  TitleFixed,
		Title:      defaultTitle,
		XLabel:     "K",
		YLabel:     "Y",
		Colors:     []color.Color{colorRed},
	},
	// FRR - FAR over the threshold.
	PresetEERSigned: {
		Mapping:    parser.ColumnMapping{X: 0, Y: []int{1, 2}},
		Derivation: analysis.SignedDifference,
		TitleMode:  TitleFixed,
		Title:      defaultTitle,
		XLabel:     "X",
		YLabel:     "Y",
		Colors:     []color.Color{colorRed},
	},
}

// Preset returns a copy of the named job preset.
func Preset(name string) (Job, error) {
	if name == "" {
		name = DefaultPreset
	}
	job, ok := presets[name]
	if !ok {
		return Job{}, fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	job.Name = name
	job.Mapping.Y = append([]int(nil), job.Mapping.Y...)
	job.Colors = append([]color.Color(nil), job.Colors...)
	return job, nil
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
