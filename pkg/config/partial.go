package config

import (
	"github.com/forest6511/hsimp/pkg/strength"
)

// Partial is a deep-partial override of strength.Config. A nil pointer or a
// nil slice means "not provided" and keeps the base value; a non-nil slice
// (even an empty one) replaces the base list wholesale.
type Partial struct {
	Calculation *PartialCalculation `json:"calculation,omitempty" yaml:"calculation,omitempty" toml:"calculation,omitempty"`
	Time        *PartialTime        `json:"time,omitempty" yaml:"time,omitempty" toml:"time,omitempty"`
	Checks      *PartialChecks      `json:"checks,omitempty" yaml:"checks,omitempty" toml:"checks,omitempty"`
}

// PartialCalculation overrides strength.Calculation.
type PartialCalculation struct {
	Calcs         *float64                `json:"calcs,omitempty" yaml:"calcs,omitempty" toml:"calcs,omitempty"`
	AverageCase   *bool                   `json:"averageCase,omitempty" yaml:"averageCase,omitempty" toml:"averageCase,omitempty"`
	CharacterSets []strength.CharacterSet `json:"characterSets,omitempty" yaml:"characterSets,omitempty" toml:"characterSets,omitempty"`
}

// PartialTime overrides strength.Time.
type PartialTime struct {
	Periods      []strength.Period      `json:"periods,omitempty" yaml:"periods,omitempty" toml:"periods,omitempty"`
	NamedNumbers []strength.NamedNumber `json:"namedNumbers,omitempty" yaml:"namedNumbers,omitempty" toml:"namedNumbers,omitempty"`
	Forever      *string                `json:"forever,omitempty" yaml:"forever,omitempty" toml:"forever,omitempty"`
	Instantly    *string                `json:"instantly,omitempty" yaml:"instantly,omitempty" toml:"instantly,omitempty"`
}

// PartialChecks overrides strength.Checks.
type PartialChecks struct {
	Dictionary     []string                 `json:"dictionary,omitempty" yaml:"dictionary,omitempty" toml:"dictionary,omitempty"`
	DictionaryMode *strength.DictionaryMode `json:"dictionaryMode,omitempty" yaml:"dictionaryMode,omitempty" toml:"dictionaryMode,omitempty"`
	Patterns       []strength.Pattern       `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty"`
	Messages       []strength.Message       `json:"messages,omitempty" yaml:"messages,omitempty" toml:"messages,omitempty"`
}

// Merge returns base with every provided field of p applied. Neither argument
// is modified and the result shares no slices with them.
func Merge(base strength.Config, p *Partial) strength.Config {
	out := clone(base)
	if p == nil {
		return out
	}

	if c := p.Calculation; c != nil {
		if c.Calcs != nil {
			out.Calculation.Calcs = *c.Calcs
		}
		if c.AverageCase != nil {
			out.Calculation.AverageCase = *c.AverageCase
		}
		if c.CharacterSets != nil {
			out.Calculation.CharacterSets = append([]strength.CharacterSet{}, c.CharacterSets...)
		}
	}

	if t := p.Time; t != nil {
		if t.Periods != nil {
			out.Time.Periods = append([]strength.Period{}, t.Periods...)
		}
		if t.NamedNumbers != nil {
			out.Time.NamedNumbers = append([]strength.NamedNumber{}, t.NamedNumbers...)
		}
		if t.Forever != nil {
			out.Time.Forever = *t.Forever
		}
		if t.Instantly != nil {
			out.Time.Instantly = *t.Instantly
		}
	}

	if c := p.Checks; c != nil {
		if c.Dictionary != nil {
			out.Checks.Dictionary = append([]string{}, c.Dictionary...)
		}
		if c.DictionaryMode != nil {
			out.Checks.DictionaryMode = *c.DictionaryMode
		}
		if c.Patterns != nil {
			out.Checks.Patterns = append([]strength.Pattern{}, c.Patterns...)
		}
		if c.Messages != nil {
			out.Checks.Messages = append([]strength.Message{}, c.Messages...)
		}
	}

	return out
}

// Overlay merges several partials in order; later ones win.
func Overlay(base strength.Config, partials ...*Partial) strength.Config {
	out := clone(base)
	for _, p := range partials {
		out = Merge(out, p)
	}
	return out
}

// Build merges p over the defaults and compiles the result.
func Build(p *Partial) (*strength.Engine, error) {
	return strength.New(Merge(Default(), p))
}

func clone(c strength.Config) strength.Config {
	out := c
	out.Calculation.CharacterSets = append([]strength.CharacterSet(nil), c.Calculation.CharacterSets...)
	out.Time.Periods = append([]strength.Period(nil), c.Time.Periods...)
	out.Time.NamedNumbers = append([]strength.NamedNumber(nil), c.Time.NamedNumbers...)
	out.Checks.Dictionary = append([]string(nil), c.Checks.Dictionary...)
	out.Checks.Patterns = append([]strength.Pattern(nil), c.Checks.Patterns...)
	out.Checks.Messages = append([]strength.Message(nil), c.Checks.Messages...)
	return out
}

// Ptr returns a pointer to v; handy when building a Partial in code.
func Ptr[T any](v T) *T {
	return &v
}
