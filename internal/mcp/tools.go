package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/forest6511/hsimp/pkg/audit"
	"github.com/forest6511/hsimp/pkg/config"
	"github.com/forest6511/hsimp/pkg/security"
	"github.com/forest6511/hsimp/pkg/strength"
)

var (
	// ErrRateLimited is returned when a client exceeds the policy rate limit.
	ErrRateLimited = errors.New("rate limit exceeded, retry later")

	// ErrOverridesDenied is returned when the policy forbids client overrides.
	ErrOverridesDenied = errors.New("calculation overrides are disabled by policy")

	// ErrPasswordTooLong is returned for passwords above max_password_length.
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
)

// PasswordStrengthInput represents input for password_strength tool.
type PasswordStrengthInput struct {
	Password    string   `json:"password" jsonschema:"the password to evaluate"`
	Calcs       *float64 `json:"calcs,omitempty" jsonschema:"guesses per second assumed for the attacker"`
	AverageCase *bool    `json:"average_case,omitempty" jsonschema:"assume the password is found half way through the keyspace"`
	UserInputs  []string `json:"user_inputs,omitempty" jsonschema:"words the password should not be built from, such as a user name"`
}

// CheckInfo is one matched check.
type CheckInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

// PasswordStrengthOutput represents output for password_strength tool.
type PasswordStrengthOutput struct {
	Time          string      `json:"time"`
	Level         string      `json:"level"`
	Checks        []CheckInfo `json:"checks"`
	Length        int         `json:"length"`
	CharacterSets []string    `json:"character_sets"`
	Entropy       float64     `json:"entropy"`
	InDictionary  bool        `json:"in_dictionary"`
	Rating        string      `json:"rating"`
	Score         int         `json:"score"`
	Suggestions   []string    `json:"suggestions"`
}

// StrengthRulesInput represents input for strength_rules tool.
type StrengthRulesInput struct{}

// RuleInfo describes one configured pattern check.
type RuleInfo struct {
	ID    string `json:"id"`
	Level string `json:"level"`
	Name  string `json:"name"`
}

// StrengthRulesOutput represents output for strength_rules tool.
type StrengthRulesOutput struct {
	Rules []RuleInfo `json:"rules"`
}

// handlePasswordStrength handles the password_strength tool call.
func (s *Server) handlePasswordStrength(ctx context.Context, _ *mcp.CallToolRequest, input PasswordStrengthInput) (*mcp.CallToolResult, PasswordStrengthOutput, error) {
	if !s.limiter.Allow() {
		s.logger.Warnw("rate limited", "tool", ToolPasswordStrength)
		s.record(audit.OpPasswordStrength, audit.ResultDenied, ErrRateLimited, nil)
		return nil, PasswordStrengthOutput{}, ErrRateLimited
	}

	if n := utf8.RuneCountInString(input.Password); s.policy.MaxPasswordLength > 0 && n > s.policy.MaxPasswordLength {
		err := fmt.Errorf("%w: %d characters (max %d)", ErrPasswordTooLong, n, s.policy.MaxPasswordLength)
		s.record(audit.OpPasswordStrength, audit.ResultError, err, nil)
		return nil, PasswordStrengthOutput{}, err
	}

	engine, err := s.engineFor(input)
	if err != nil {
		result := audit.ResultError
		if errors.Is(err, ErrOverridesDenied) {
			result = audit.ResultDenied
		}
		s.record(audit.OpPasswordStrength, result, err, nil)
		return nil, PasswordStrengthOutput{}, err
	}

	select {
	case s.evalSem <- struct{}{}:
		defer func() { <-s.evalSem }()
	case <-ctx.Done():
		return nil, PasswordStrengthOutput{}, ctx.Err()
	}

	password := config.NormalizePassword(input.Password)
	a := engine.Analyze(password)
	score := security.Score(password, a.Result, a.InDictionary, input.UserInputs)

	s.logger.Debugw("evaluated password",
		"level", a.Result.Level,
		"length", a.Length,
		"checks", len(a.Result.Checks),
	)
	s.record(audit.OpPasswordStrength, audit.ResultSuccess, nil, map[string]string{
		"level":     a.Result.Level.String(),
		"checks":    strconv.Itoa(len(a.Result.Checks)),
		"overrides": strconv.FormatBool(engine != s.engine),
	})

	output := PasswordStrengthOutput{
		Time:          a.Result.Time,
		Level:         a.Result.Level.String(),
		Checks:        make([]CheckInfo, 0, len(a.Result.Checks)),
		Length:        a.Length,
		CharacterSets: a.CharacterSets,
		Entropy:       a.Entropy,
		InDictionary:  a.InDictionary,
		Rating:        score.Rating.String(),
		Score:         score.Overall,
		Suggestions:   score.Suggestions,
	}
	for _, c := range a.Result.Checks {
		output.Checks = append(output.Checks, CheckInfo{
			Name:    c.Name,
			Message: c.Message,
			Level:   c.Level.String(),
		})
	}

	return nil, output, nil
}

// engineFor returns the shared engine, or a per-call engine when the client
// overrides the calculation.
func (s *Server) engineFor(input PasswordStrengthInput) (*strength.Engine, error) {
	if input.Calcs == nil && input.AverageCase == nil {
		return s.engine, nil
	}
	if !s.policy.OverridesAllowed() {
		return nil, ErrOverridesDenied
	}

	call := &config.Partial{Calculation: &config.PartialCalculation{
		Calcs:       input.Calcs,
		AverageCase: input.AverageCase,
	}}
	engine, err := strength.New(config.Overlay(config.Default(), s.base, call))
	if err != nil {
		return nil, fmt.Errorf("invalid override: %w", err)
	}
	return engine, nil
}

// handleStrengthRules handles the strength_rules tool call.
func (s *Server) handleStrengthRules(_ context.Context, _ *mcp.CallToolRequest, _ StrengthRulesInput) (*mcp.CallToolResult, StrengthRulesOutput, error) {
	if !s.limiter.Allow() {
		s.record(audit.OpStrengthRules, audit.ResultDenied, ErrRateLimited, nil)
		return nil, StrengthRulesOutput{}, ErrRateLimited
	}

	rules := s.engine.Rules()
	output := StrengthRulesOutput{
		Rules: make([]RuleInfo, 0, len(rules)),
	}
	for _, r := range rules {
		output.Rules = append(output.Rules, RuleInfo{
			ID:    r.ID,
			Level: r.Level.String(),
			Name:  r.Name,
		})
	}
	s.record(audit.OpStrengthRules, audit.ResultSuccess, nil, nil)
	return nil, output, nil
}
