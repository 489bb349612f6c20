package mcp

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Policy controls which tools the MCP server exposes and how hard clients may
// call them.
type Policy struct {
	Version       int      `yaml:"version"`
	DefaultAction string   `yaml:"default_action"`
	DeniedTools   []string `yaml:"denied_tools"`
	AllowedTools  []string `yaml:"allowed_tools"`
	// RateLimit is the sustained number of tool calls per second.
	RateLimit float64 `yaml:"rate_limit"`
	// Burst is the number of calls allowed at once above RateLimit.
	Burst int `yaml:"burst"`
	// MaxPasswordLength bounds the password accepted by password_strength,
	// in characters.
	MaxPasswordLength int `yaml:"max_password_length"`
	// AllowOverrides lets clients pass calcs and averageCase.
	AllowOverrides *bool `yaml:"allow_overrides"`
}

// PolicyFileName is the name of the policy file
const PolicyFileName = "mcp-policy.yaml"

// Policy action constants
const (
	ActionAllow = "allow"
	ActionDeny  = "deny"
)

// Defaults applied when the policy file is missing or leaves a value unset.
const (
	DefaultRateLimit         = 10.0
	DefaultBurst             = 20
	DefaultMaxPasswordLength = 4096
)

// maxPolicySize bounds the policy file.
const maxPolicySize = 1 << 20

// ErrPolicyNotFound is returned when no policy file exists
var ErrPolicyNotFound = errors.New("MCP policy file not found")

// ErrPolicyInsecure is returned when policy file has insecure permissions
var ErrPolicyInsecure = errors.New("MCP policy file has insecure permissions")

// ErrPolicySymlink is returned when policy file is a symlink
var ErrPolicySymlink = errors.New("MCP policy file is a symlink")

// ErrPolicyNotOwnedByUser is returned when policy file is not owned by current user
var ErrPolicyNotOwnedByUser = errors.New("MCP policy file not owned by current user")

// DefaultPolicy allows every tool with the default limits.
func DefaultPolicy() *Policy {
	allow := true
	return &Policy{
		Version:           1,
		DefaultAction:     ActionAllow,
		RateLimit:         DefaultRateLimit,
		Burst:             DefaultBurst,
		MaxPasswordLength: DefaultMaxPasswordLength,
		AllowOverrides:    &allow,
	}
}

// LoadPolicy loads the MCP policy from the configuration directory. The file
// is opened without following symlinks and must not be writable by group or
// others.
func LoadPolicy(dir string) (*Policy, error) {
	policyPath := filepath.Join(dir, PolicyFileName)

	f, err := openPolicyFile(policyPath)
	if err != nil {
		if errors.Is(err, ErrPolicyNotFound) || errors.Is(err, ErrPolicySymlink) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open policy file: %w", err)
	}
	defer f.Close()

	// fstat on the opened descriptor avoids TOCTOU
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat policy file: %w", err)
	}

	if err := checkFilePermissions(info); err != nil {
		return nil, err
	}
	if err := checkFileOwnership(info); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(io.LimitReader(f, maxPolicySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(content, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	if policy.DefaultAction == "" {
		policy.DefaultAction = ActionAllow
	}
	policy.applyDefaults()

	if err := policy.ValidatePolicy(); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (p *Policy) applyDefaults() {
	if p.RateLimit == 0 {
		p.RateLimit = DefaultRateLimit
	}
	if p.Burst == 0 {
		p.Burst = DefaultBurst
	}
	if p.MaxPasswordLength == 0 {
		p.MaxPasswordLength = DefaultMaxPasswordLength
	}
	if p.AllowOverrides == nil {
		allow := true
		p.AllowOverrides = &allow
	}
}

// IsToolAllowed checks if a tool may be called.
// Evaluation order:
// 1. denied_tools → deny
// 2. allowed_tools → allow
// 3. default_action
func (p *Policy) IsToolAllowed(tool string) (allowed bool, reason string) {
	for _, denied := range p.DeniedTools {
		if matchTool(tool, denied) {
			return false, fmt.Sprintf("tool '%s' matches denied pattern '%s'", tool, denied)
		}
	}

	for _, allowed := range p.AllowedTools {
		if matchTool(tool, allowed) {
			return true, ""
		}
	}

	if p.DefaultAction == ActionAllow {
		return true, ""
	}

	return false, fmt.Sprintf("tool '%s' not in allowed_tools list", tool)
}

// OverridesAllowed reports whether clients may change calcs or averageCase.
func (p *Policy) OverridesAllowed() bool {
	return p.AllowOverrides == nil || *p.AllowOverrides
}

// matchTool matches a tool name against an exact name or a glob.
func matchTool(tool, pattern string) bool {
	if tool == pattern {
		return true
	}
	matched, err := filepath.Match(pattern, tool)
	return err == nil && matched
}

// ValidatePolicy validates the policy configuration
func (p *Policy) ValidatePolicy() error {
	if p.Version != 1 {
		return fmt.Errorf("unsupported policy version: %d", p.Version)
	}

	if p.DefaultAction != ActionDeny && p.DefaultAction != ActionAllow {
		return fmt.Errorf("invalid default_action: %s (must be '%s' or '%s')", p.DefaultAction, ActionDeny, ActionAllow)
	}

	if p.RateLimit < 0 {
		return fmt.Errorf("invalid rate_limit: %v (must not be negative)", p.RateLimit)
	}
	if p.Burst < 0 {
		return fmt.Errorf("invalid burst: %d (must not be negative)", p.Burst)
	}
	if p.MaxPasswordLength < 0 {
		return fmt.Errorf("invalid max_password_length: %d (must not be negative)", p.MaxPasswordLength)
	}

	return nil
}
