// Package hsimp answers "how secure is my password?": it merges caller
// overrides over the built-in configuration and delegates to the strength
// engine.
//
// Example:
//
//	res, err := hsimp.Evaluate("123", nil)
//	// res.Time == "24 nanoseconds", res.Level == "warning"
package hsimp

import (
	"fmt"
	"sync"

	"github.com/forest6511/hsimp/pkg/config"
	"github.com/forest6511/hsimp/pkg/strength"
)

// defaultEngine is compiled once and shared; the engine is read-only.
var defaultEngine = sync.OnceValues(func() (*strength.Engine, error) {
	return strength.New(config.Default())
})

// Default returns the engine built from the built-in configuration.
func Default() (*strength.Engine, error) {
	return defaultEngine()
}

// Evaluate checks password using the defaults merged with overrides.
// A nil overrides uses the shared default engine. The password is converted
// to Unicode NFC first, so composed and decomposed input give the same
// dictionary result.
func Evaluate(password string, overrides *config.Partial) (strength.Result, error) {
	engine, err := engineFor(overrides)
	if err != nil {
		return strength.Result{}, err
	}
	return engine.Evaluate(config.NormalizePassword(password)), nil
}

// EvaluateValue is Evaluate for dynamically typed input, e.g. values decoded
// from JSON. password must be a string; overrides may be nil, a
// map[string]any, a config.Partial or a *config.Partial. Anything else fails
// with strength.ErrInvalidArgument before any computation.
func EvaluateValue(password any, overrides any) (strength.Result, error) {
	pw, ok := password.(string)
	if !ok {
		return strength.Result{}, fmt.Errorf("%w: password must be a string, got %T", strength.ErrInvalidArgument, password)
	}
	p, err := config.FromValue(overrides)
	if err != nil {
		return strength.Result{}, err
	}
	return Evaluate(pw, p)
}

func engineFor(overrides *config.Partial) (*strength.Engine, error) {
	if overrides == nil {
		return Default()
	}
	return config.Build(overrides)
}
