package config

import (
	"errors"
	"testing"

	"github.com/forest6511/hsimp/pkg/strength"
)

func TestDefault_Builds(t *testing.T) {
	if _, err := strength.New(Default()); err != nil {
		t.Fatalf("built-in configuration is invalid: %v", err)
	}
	if len(DefaultDictionary()) == 0 {
		t.Error("embedded dictionary is empty")
	}
}

func TestDefault_ReturnsCopies(t *testing.T) {
	a := Default()
	a.Checks.Dictionary[0] = "mutated"
	a.Calculation.CharacterSets[0].Value = 1

	b := Default()
	if b.Checks.Dictionary[0] == "mutated" || b.Calculation.CharacterSets[0].Value == 1 {
		t.Error("Default() shares state between calls")
	}
}

func TestMerge(t *testing.T) {
	base := Default()

	tests := []struct {
		name  string
		p     *Partial
		check func(t *testing.T, got strength.Config)
	}{
		{
			name: "nil keeps defaults",
			p:    nil,
			check: func(t *testing.T, got strength.Config) {
				if got.Calculation.Calcs != DefaultCalcs || len(got.Time.Periods) != len(base.Time.Periods) {
					t.Errorf("Merge(nil) changed the base: %+v", got.Calculation)
				}
			},
		},
		{
			name: "scalar override keeps siblings",
			p:    &Partial{Calculation: &PartialCalculation{Calcs: Ptr(1e3)}},
			check: func(t *testing.T, got strength.Config) {
				if got.Calculation.Calcs != 1e3 {
					t.Errorf("Calcs = %v, want 1000", got.Calculation.Calcs)
				}
				if len(got.Calculation.CharacterSets) != len(base.Calculation.CharacterSets) {
					t.Error("character sets were dropped")
				}
			},
		},
		{
			name: "empty list replaces",
			p:    &Partial{Checks: &PartialChecks{Dictionary: []string{}}},
			check: func(t *testing.T, got strength.Config) {
				if got.Checks.Dictionary == nil || len(got.Checks.Dictionary) != 0 {
					t.Errorf("Dictionary = %v, want empty", got.Checks.Dictionary)
				}
				if len(got.Checks.Patterns) != len(base.Checks.Patterns) {
					t.Error("patterns were dropped")
				}
			},
		},
		{
			name: "strings",
			p:    &Partial{Time: &PartialTime{Forever: Ptr("a very long time"), Instantly: Ptr("")}},
			check: func(t *testing.T, got strength.Config) {
				if got.Time.Forever != "a very long time" || got.Time.Instantly != "" {
					t.Errorf("Time = %+v", got.Time)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Merge(base, tt.p))
		})
	}
}

func TestMerge_DoesNotAlias(t *testing.T) {
	base := Default()
	words := []string{"hunter2"}
	p := &Partial{Checks: &PartialChecks{Dictionary: words}}

	got := Merge(base, p)
	got.Checks.Dictionary[0] = "changed"
	got.Time.Periods[0].Singular = "changed"

	if words[0] != "hunter2" {
		t.Error("Merge() aliased the override slice")
	}
	if base.Time.Periods[0].Singular != "nanosecond" {
		t.Error("Merge() aliased the base slice")
	}
}

func TestOverlay_LaterWins(t *testing.T) {
	got := Overlay(Default(),
		&Partial{Calculation: &PartialCalculation{Calcs: Ptr(10.0)}},
		nil,
		&Partial{Calculation: &PartialCalculation{Calcs: Ptr(20.0), AverageCase: Ptr(true)}},
	)
	if got.Calculation.Calcs != 20 || !got.Calculation.AverageCase {
		t.Errorf("Overlay() = %+v", got.Calculation)
	}
}

func TestBuild_Invalid(t *testing.T) {
	_, err := Build(&Partial{Calculation: &PartialCalculation{Calcs: Ptr(-5.0)}})
	if !errors.Is(err, strength.ErrInvalidConfig) {
		t.Fatalf("Build() error = %v, want ErrInvalidConfig", err)
	}

	// Replacing patterns without messages breaks the join.
	_, err = Build(&Partial{Checks: &PartialChecks{
		Patterns: []strength.Pattern{{ID: "custom", Regex: "x", Level: strength.LevelNotice}},
	}})
	var cfgErr *strength.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "checks.patterns" {
		t.Errorf("Build() error = %v, want checks.patterns", err)
	}
}
