package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forest6511/hsimp/pkg/audit"
	"github.com/forest6511/hsimp/pkg/config"
)

// errAuditTampered is returned when the audit chain does not verify.
var errAuditTampered = errors.New("audit log integrity check failed")

// Audit command flags
var (
	auditLimit int
	auditSince time.Duration
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditVerifyCmd)

	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum number of events to show")
	auditListCmd.Flags().DurationVar(&auditSince, "since", 0, "Show events from the last duration (e.g. 24h)")
}

// auditDir is where mcp-server --audit writes its log.
func auditDir() string {
	return filepath.Join(config.DefaultConfigDir(), "audit")
}

// openAuditLog opens an existing audit log without creating one.
func openAuditLog() (*audit.Logger, error) {
	dir := auditDir()
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no audit log at %s (start the MCP server with --audit)", dir)
		}
		return nil, err
	}
	return audit.Open(dir)
}

// auditCmd is the parent command for audit operations
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the MCP server audit log",
}

// auditListCmd lists audit log entries
var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit log entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openAuditLog()
		if err != nil {
			return err
		}

		var since time.Time
		if auditSince > 0 {
			since = time.Now().Add(-auditSince)
		}
		events, err := log.ListEvents(auditLimit, since)
		if err != nil {
			return fmt.Errorf("failed to list audit events: %w", err)
		}

		format := settings.GetString(keyOutput)
		if format != formatText {
			if err := validateFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}
			return writeStructured(cmd.OutOrStdout(), format, events)
		}
		writeAuditEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

// auditVerifyCmd verifies audit log integrity
var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify audit log HMAC chain integrity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openAuditLog()
		if err != nil {
			return err
		}
		result, err := log.Verify()
		if err != nil {
			return fmt.Errorf("failed to verify audit log: %w", err)
		}

		format := settings.GetString(keyOutput)
		if format != formatText {
			if err := validateFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}
			if err := writeStructured(cmd.OutOrStdout(), format, result); err != nil {
				return err
			}
		} else {
			writeVerifyResult(cmd.OutOrStdout(), result)
		}
		if !result.Valid {
			return errAuditTampered
		}
		return nil
	},
}

func writeAuditEvents(w io.Writer, events []audit.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No audit events found")
		return
	}
	for _, e := range events {
		// Format: TIMESTAMP OPERATION RESULT [DETAILS]
		line := fmt.Sprintf("%s %s %s", e.Timestamp, e.Operation, e.Result)
		if level := e.Context["level"]; level != "" {
			line += " level:" + level
		}
		if reason := e.Context["reason"]; reason != "" {
			line += " reason:" + reason
		}
		if e.Error != "" {
			line += " error:" + e.Error
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
}

func writeVerifyResult(w io.Writer, result *audit.VerifyResult) {
	if result.Valid {
		fmt.Fprintf(w, "%s Audit log verified: %d records, chain intact\n", colorAchievement("✓"), result.RecordsTotal)
		return
	}
	fmt.Fprintf(w, "%s Audit log verification FAILED\n", colorWarning("✗"))
	fmt.Fprintf(w, "  Records total: %d\n", result.RecordsTotal)
	fmt.Fprintf(w, "  Records verified: %d\n", result.RecordsVerified)
	fmt.Fprintln(w, "  Errors:")
	for _, e := range result.Errors {
		fmt.Fprintf(w, "    - %s\n", e)
	}
}
