package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/forest6511/hsimp/pkg/security"
	"github.com/forest6511/hsimp/pkg/strength"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

var (
	colorWarning     = color.New(color.FgRed, color.Bold).SprintFunc()
	colorNotice      = color.New(color.FgYellow).SprintFunc()
	colorAchievement = color.New(color.FgGreen).SprintFunc()
	colorEasterEgg   = color.New(color.FgMagenta).SprintFunc()
	colorTime        = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// checkReport is the structured output of the check command.
type checkReport struct {
	strength.Result `yaml:",inline"`
	Analysis        *analysisReport         `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Assessment      *security.SecurityScore `json:"assessment,omitempty" yaml:"assessment,omitempty"`
}

// analysisReport holds the figures behind the crack time.
type analysisReport struct {
	CharacterSets []string `json:"characterSets" yaml:"characterSets"`
	Alphabet      int      `json:"alphabet" yaml:"alphabet"`
	Length        int      `json:"length" yaml:"length"`
	Entropy       float64  `json:"entropy" yaml:"entropy"`
	Keyspace      string   `json:"keyspace" yaml:"keyspace"`
	Seconds       string   `json:"seconds" yaml:"seconds"`
	InDictionary  bool     `json:"inDictionary" yaml:"inDictionary"`
}

func newAnalysisReport(a strength.Analysis) *analysisReport {
	return &analysisReport{
		CharacterSets: a.CharacterSets,
		Alphabet:      a.Alphabet,
		Length:        a.Length,
		Entropy:       a.Entropy,
		Keyspace:      a.Keyspace,
		Seconds:       a.Seconds,
		InDictionary:  a.InDictionary,
	}
}

// validateFormat rejects formats the command cannot render.
func validateFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q (expected %s)", format, strings.Join(allowed, ", "))
}

// writeStructured renders v as JSON, YAML or TOML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// levelTag renders a level in its color.
func levelTag(l strength.Level) string {
	s := l.String()
	switch l {
	case strength.LevelWarning:
		return colorWarning(s)
	case strength.LevelNotice:
		return colorNotice(s)
	case strength.LevelAchievement:
		return colorAchievement(s)
	case strength.LevelEasterEgg:
		return colorEasterEgg(s)
	default:
		return s
	}
}

// writeCheckText renders a check report for a terminal.
func writeCheckText(w io.Writer, r *checkReport) {
	fmt.Fprintf(w, "Time to crack: %s\n", colorTime(r.Time))
	fmt.Fprintf(w, "Level:         %s\n", levelTag(r.Level))

	if len(r.Checks) > 0 {
		width := 0
		for _, c := range r.Checks {
			width = max(width, runewidth.StringWidth(c.Name))
		}
		fmt.Fprintln(w)
		for _, c := range r.Checks {
			fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(c.Name, width), levelTag(c.Level))
			fmt.Fprintf(w, "    %s\n", c.Message)
		}
	}

	if a := r.Analysis; a != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Analysis:")
		fmt.Fprintf(w, "  Length:         %d\n", a.Length)
		fmt.Fprintf(w, "  Character sets: %s\n", strings.Join(a.CharacterSets, ", "))
		fmt.Fprintf(w, "  Alphabet size:  %d\n", a.Alphabet)
		fmt.Fprintf(w, "  Entropy:        %.1f bits\n", a.Entropy)
		fmt.Fprintf(w, "  Keyspace:       %s\n", a.Keyspace)
		fmt.Fprintf(w, "  Seconds:        %s\n", a.Seconds)
		fmt.Fprintf(w, "  In dictionary:  %t\n", a.InDictionary)
	}

	if s := r.Assessment; s != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Second opinion: %s (%d/100)\n", s.Rating, s.Overall)
		fmt.Fprintf(w, "  Length:       %2d/25\n", s.Components.LengthScore)
		fmt.Fprintf(w, "  Guessability: %2d/25 (zxcvbn score %d, %s)\n", s.Components.GuessabilityScore, s.Estimate.Score, s.Estimate.CrackTime)
		fmt.Fprintf(w, "  Patterns:     %2d/25\n", s.Components.PatternScore)
		fmt.Fprintf(w, "  Dictionary:   %2d/25\n", s.Components.DictionaryScore)
		for _, sug := range s.Suggestions {
			fmt.Fprintf(w, "  - %s\n", sug)
		}
	}
}
