package mcp

import (
	"testing"

	"github.com/forest6511/hsimp/pkg/config"
	"github.com/forest6511/hsimp/pkg/strength"
)

// testServer creates a server whose policy is read from an empty temp dir.
func testServer(t *testing.T, overrides *config.Partial) *Server {
	t.Helper()
	s, err := NewServer(&ServerOptions{
		ConfigDir: t.TempDir(),
		Overrides: overrides,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	return s
}

func TestNewServer_Defaults(t *testing.T) {
	s := testServer(t, nil)

	if s.policy.RateLimit != DefaultRateLimit || s.policy.Burst != DefaultBurst {
		t.Errorf("policy = %+v, want defaults", s.policy)
	}
	if cap(s.evalSem) != maxConcurrentEvaluations {
		t.Errorf("evalSem capacity = %d, want %d", cap(s.evalSem), maxConcurrentEvaluations)
	}
	if s.engine == nil || s.logger == nil || s.limiter == nil {
		t.Error("server not fully initialised")
	}
}

func TestNewServer_NilOptions(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := NewServer(nil); err != nil {
		t.Fatalf("NewServer(nil) error: %v", err)
	}
}

func TestNewServer_InvalidOverrides(t *testing.T) {
	_, err := NewServer(&ServerOptions{
		ConfigDir: t.TempDir(),
		Overrides: &config.Partial{Calculation: &config.PartialCalculation{Calcs: config.Ptr(0.0)}},
	})
	if err == nil {
		t.Fatal("expected error for invalid overrides")
	}
}

func TestNewServer_PolicyFromDir(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, dir, "version: 1\nrate_limit: 1\nburst: 1\nallow_overrides: false\n", 0600)

	s, err := NewServer(&ServerOptions{ConfigDir: dir})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	if s.policy.RateLimit != 1 || s.policy.OverridesAllowed() {
		t.Errorf("policy = %+v", s.policy)
	}
}

func TestNewServer_BrokenPolicyRunsRestricted(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, dir, "version: 7\n", 0600)

	s, err := NewServer(&ServerOptions{ConfigDir: dir})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	if s.policy.OverridesAllowed() {
		t.Error("broken policy should disable overrides")
	}
}

func TestNewServer_UsesOverrides(t *testing.T) {
	s := testServer(t, &config.Partial{
		Time: &config.PartialTime{Instantly: config.Ptr("right away")},
	})
	if got := s.engine.Evaluate("1"); got.Time != "right away" {
		t.Errorf("Evaluate() = %+v", got)
	}
	if got := s.engine.Evaluate("123"); got.Level != strength.LevelWarning {
		t.Errorf("Evaluate(123).Level = %q", got.Level)
	}
}
