// Package mcp implements the MCP (Model Context Protocol) server for hsimp.
// Agents submit a password and receive the verdict; the password itself is
// never echoed back or logged.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/forest6511/hsimp/pkg/audit"
	"github.com/forest6511/hsimp/pkg/config"
	"github.com/forest6511/hsimp/pkg/strength"
)

// maxConcurrentEvaluations is the maximum number of password_strength calls
// evaluated at once.
const maxConcurrentEvaluations = 5

// Tool names.
const (
	ToolPasswordStrength = "password_strength"
	ToolStrengthRules    = "strength_rules"
)

// Server represents the MCP server for hsimp.
type Server struct {
	server  *mcp.Server
	engine  *strength.Engine
	base    *config.Partial
	policy  *Policy
	limiter *rate.Limiter
	logger  *zap.SugaredLogger
	audit   *audit.Logger
	evalSem chan struct{} // Semaphore for limiting concurrent evaluations
}

// ServerOptions contains configuration options for the MCP server.
type ServerOptions struct {
	// ConfigDir holds the policy file. If empty, defaults to the XDG config
	// directory.
	ConfigDir string

	// Overrides are merged over the built-in configuration for every call.
	Overrides *config.Partial

	// Logger receives diagnostics. If nil, logging is disabled.
	Logger *zap.SugaredLogger

	// Version is reported to clients during initialization.
	Version string

	// Audit records every tool call. If nil, calls are not audited.
	Audit *audit.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(opts *ServerOptions) (*Server, error) {
	if opts == nil {
		opts = &ServerOptions{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}

	policy, err := LoadPolicy(configDir)
	switch {
	case err == nil:
		logger.Debugw("loaded MCP policy", "dir", configDir)
	case errors.Is(err, ErrPolicyNotFound):
		policy = DefaultPolicy()
	default:
		// Policy load failure is not fatal - client overrides are disabled
		logger.Warnw("failed to load MCP policy, running restricted", "error", err)
		policy = DefaultPolicy()
		deny := false
		policy.AllowOverrides = &deny
	}

	engine, err := config.Build(opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "hsimp",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server:  mcpServer,
		engine:  engine,
		base:    opts.Overrides,
		policy:  policy,
		limiter: rate.NewLimiter(rate.Limit(policy.RateLimit), policy.Burst),
		logger:  logger,
		audit:   opts.Audit,
		evalSem: make(chan struct{}, maxConcurrentEvaluations),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers the tools permitted by the policy.
func (s *Server) registerTools() {
	if ok, reason := s.policy.IsToolAllowed(ToolPasswordStrength); ok {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolPasswordStrength,
			Description: "Estimate how long a password would take to crack by brute force and report weaknesses such as short length, a single character class, dates or common passwords. The password is never echoed back.",
		}, s.handlePasswordStrength)
	} else {
		s.logger.Infow("tool disabled by policy", "tool", ToolPasswordStrength, "reason", reason)
	}

	if ok, reason := s.policy.IsToolAllowed(ToolStrengthRules); ok {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolStrengthRules,
			Description: "List the pattern checks the password_strength tool applies, in reporting order, with their ids, levels and names.",
		}, s.handleStrengthRules)
	} else {
		s.logger.Infow("tool disabled by policy", "tool", ToolStrengthRules, "reason", reason)
	}
}

// Run starts the MCP server using stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Infow("MCP server listening on stdio", "rate_limit", s.policy.RateLimit, "burst", s.policy.Burst)
	s.record(audit.OpServerStart, audit.ResultSuccess, nil, nil)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// record writes an audit event when auditing is enabled. Failures are logged
// and never fail the call.
func (s *Server) record(op, result string, callErr error, ctx map[string]string) {
	if s.audit == nil {
		return
	}
	var err error
	switch result {
	case audit.ResultError:
		err = s.audit.LogError(op, audit.SourceMCP, callErr)
	case audit.ResultDenied:
		err = s.audit.LogDenied(op, audit.SourceMCP, callErr.Error())
	default:
		err = s.audit.LogSuccess(op, audit.SourceMCP, ctx)
	}
	if err != nil {
		s.logger.Warnw("failed to write audit event", "op", op, "error", err)
	}
}
