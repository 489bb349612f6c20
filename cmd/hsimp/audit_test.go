package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/forest6511/hsimp/pkg/audit"
)

func TestWriteAuditEvents(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		writeAuditEvents(&buf, nil)
		if buf.String() != "No audit events found\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("details", func(t *testing.T) {
		var buf bytes.Buffer
		writeAuditEvents(&buf, []audit.Event{
			{Timestamp: "2026-01-02T03:04:05Z", Operation: audit.OpPasswordStrength, Result: audit.ResultSuccess, Context: map[string]string{"level": "warning"}},
			{Timestamp: "2026-01-02T03:04:06Z", Operation: audit.OpStrengthRules, Result: audit.ResultDenied, Context: map[string]string{"reason": "rate limited"}},
			{Timestamp: "2026-01-02T03:04:07Z", Operation: audit.OpPasswordStrength, Result: audit.ResultError, Error: "too long"},
		})
		want := "2026-01-02T03:04:05Z tool.password_strength success level:warning\n" +
			"2026-01-02T03:04:06Z tool.strength_rules denied reason:rate limited\n" +
			"2026-01-02T03:04:07Z tool.password_strength error error:too long\n" +
			"\nTotal: 3 events\n"
		if buf.String() != want {
			t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
		}
	})
}

func TestWriteVerifyResult(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	writeVerifyResult(&buf, &audit.VerifyResult{Valid: true, RecordsTotal: 4, RecordsVerified: 4})
	if buf.String() != "✓ Audit log verified: 4 records, chain intact\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	writeVerifyResult(&buf, &audit.VerifyResult{RecordsTotal: 2, RecordsVerified: 1, Errors: []string{"HMAC mismatch at record x"}})
	out := buf.String()
	for _, want := range []string{"✗ Audit log verification FAILED", "Records verified: 1", "    - HMAC mismatch at record x"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOpenAuditLog_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := openAuditLog(); err == nil || !strings.Contains(err.Error(), "--audit") {
		t.Errorf("openAuditLog() error = %v, want hint about --audit", err)
	}
}
