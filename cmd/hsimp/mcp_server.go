package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forest6511/hsimp/internal/mcp"
	"github.com/forest6511/hsimp/pkg/audit"
)

var mcpServerAudit bool

func init() {
	rootCmd.AddCommand(mcpServerCmd)
	mcpServerCmd.Flags().BoolVar(&mcpServerAudit, "audit", false, "record tool calls in a tamper-evident audit log (never the passwords)")
}

// mcpServerCmd starts the MCP server for AI coding assistant integration
var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Start the MCP server for AI coding assistant integration",
	Long: `Start the MCP server that lets AI coding assistants check password strength.

The server implements the Model Context Protocol (MCP) over stdio transport.
Passwords sent to it are never echoed back or logged.

Available tools:
  - password_strength: Crack time, level, matched checks and a second-opinion score
  - strength_rules:    The pattern checks applied, in reporting order

Policy:
  Create $XDG_CONFIG_HOME/hsimp/mcp-policy.yaml to restrict tools, set the rate
  limit or forbid client overrides of calcs and average_case. The file must not
  be group or world writable.

Audit:
  With --audit every tool call is appended to an HMAC-chained log under
  $XDG_CONFIG_HOME/hsimp/audit. Records hold the tool, result and level only.
  Check it with "hsimp audit verify".

Example MCP configuration (~/.claude.json):
  {
    "mcpServers": {
      "hsimp": {
        "type": "stdio",
        "command": "/path/to/hsimp",
        "args": ["mcp-server"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer()
	},
}

func runMCPServer() error {
	opts := &mcp.ServerOptions{
		Overrides: overrides,
		Logger:    logger,
		Version:   version,
	}
	if mcpServerAudit {
		log, err := audit.Open(auditDir())
		if err != nil {
			return err
		}
		logger.Infow("auditing tool calls", "dir", log.Path())
		opts.Audit = log
	}

	server, err := mcp.NewServer(opts)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		// Don't report context canceled as an error
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
