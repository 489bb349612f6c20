// Package audit records MCP tool calls in an HMAC-chained JSON Lines log so
// that edited or removed records can be detected. Passwords are never
// recorded; events carry only the verdict of a call.
package audit

import (
	"bufio"
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"
)

// MinAuditDiskSpace is the free space required before a record is written.
const MinAuditDiskSpace = 1024 * 1024

// Operation types
const (
	OpServerStart      = "server.start"
	OpPasswordStrength = "tool.password_strength"
	OpStrengthRules    = "tool.strength_rules"
)

// Sources
const (
	SourceCLI = "cli"
	SourceMCP = "mcp"
)

// Results
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDenied  = "denied"
)

const (
	genesisHash   = "genesis"
	keyFileName   = "audit.key"
	metaFileName  = "audit.meta"
	secretSize    = 32
	schemaVersion = 1
	hkdfInfo      = "hsimp-audit-log-v1"
)

// ErrKeyNotSet is returned when the logger has no HMAC key.
var ErrKeyNotSet = errors.New("audit: HMAC key not set")

// Event is a single audit record.
type Event struct {
	Version   int               `json:"v"`
	ID        string            `json:"id"`
	Timestamp string            `json:"ts"` // RFC 3339, nanosecond precision
	Operation string            `json:"op"`
	Source    string            `json:"source"`
	SessionID string            `json:"session"`
	Result    string            `json:"result"`
	Error     string            `json:"error,omitempty"`
	Context   map[string]string `json:"ctx,omitempty"`
	Chain     Chain             `json:"chain"`
}

// Chain links a record to its predecessor.
type Chain struct {
	Sequence int64  `json:"seq"`
	PrevHash string `json:"prev"`
	HMAC     string `json:"hmac"`
}

// chainState is persisted so a restarted server continues the chain.
type chainState struct {
	Sequence int64  `json:"seq"`
	PrevHash string `json:"prev"`
}

// Logger appends events to monthly files in its directory.
type Logger struct {
	path      string
	hmacKey   []byte
	mu        sync.Mutex
	sequence  int64
	prevHash  string
	sessionID string
}

// NewLogger creates a logger for dir without a key; SetHMACKey must be
// called before Log or Verify.
func NewLogger(dir string) *Logger {
	return &Logger{
		path:      dir,
		prevHash:  genesisHash,
		sessionID: randomHex(16),
	}
}

// Open creates dir if needed and keys the logger with the secret stored
// there, generating one on first use.
func Open(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("audit: failed to create directory: %w", err)
	}
	secret, err := loadOrCreateSecret(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, err
	}
	l := NewLogger(dir)
	if err := l.SetHMACKey(secret); err != nil {
		return nil, err
	}
	return l, nil
}

// SetHMACKey derives the chain key from secret with HKDF-SHA256 and loads
// the saved chain state.
func (l *Logger) SetHMACKey(secret []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo)), key); err != nil {
		return fmt.Errorf("audit: failed to derive HMAC key: %w", err)
	}
	l.hmacKey = key

	if err := l.loadChainState(); err != nil {
		// First run
		l.sequence = 0
		l.prevHash = genesisHash
	}
	return nil
}

// Path returns the audit log directory.
func (l *Logger) Path() string {
	return l.path
}

// Log records an event. ctx must not contain secrets.
func (l *Logger) Log(op, source, result, errMsg string, ctx map[string]string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hmacKey == nil {
		return ErrKeyNotSet
	}
	if err := os.MkdirAll(l.path, 0o700); err != nil {
		return fmt.Errorf("audit: failed to create directory: %w", err)
	}
	if err := l.checkDiskSpace(); err != nil {
		return err
	}

	now := time.Now().UTC()
	event := Event{
		Version:   schemaVersion,
		ID:        newID(now),
		Timestamp: now.Format(time.RFC3339Nano),
		Operation: op,
		Source:    source,
		SessionID: l.sessionID,
		Result:    result,
		Error:     errMsg,
		Context:   ctx,
		Chain: Chain{
			Sequence: l.sequence + 1,
			PrevHash: l.prevHash,
		},
	}
	event.Chain.HMAC = l.sign(&event)

	if err := l.writeEvent(now, &event); err != nil {
		return err
	}
	l.sequence = event.Chain.Sequence
	l.prevHash = event.Chain.HMAC
	return l.saveChainState()
}

// LogSuccess records a successful operation.
func (l *Logger) LogSuccess(op, source string, ctx map[string]string) error {
	return l.Log(op, source, ResultSuccess, "", ctx)
}

// LogError records a failed operation.
func (l *Logger) LogError(op, source string, err error) error {
	return l.Log(op, source, ResultError, err.Error(), nil)
}

// LogDenied records an operation refused by policy.
func (l *Logger) LogDenied(op, source, reason string) error {
	return l.Log(op, source, ResultDenied, "", map[string]string{"reason": reason})
}

// sign computes the HMAC over every field except the HMAC itself.
func (l *Logger) sign(e *Event) string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var ctx strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&ctx, "%s=%s|", k, e.Context[k])
	}

	mac := hmac.New(sha256.New, l.hmacKey)
	fmt.Fprintf(mac, "%d|%s|%s|%s|%s|%s|%s|%s|%s|%d|%s",
		e.Version, e.ID, e.Timestamp, e.Operation, e.Source, e.SessionID,
		e.Result, e.Error, ctx.String(), e.Chain.Sequence, e.Chain.PrevHash)
	return hex.EncodeToString(mac.Sum(nil))
}

// writeEvent appends event to the file for the month of ts.
func (l *Logger) writeEvent(ts time.Time, event *Event) error {
	path := filepath.Join(l.path, ts.Format("2006-01")+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("audit: failed to open log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: failed to marshal event: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("audit: failed to write event: %w", err)
	}
	return nil
}

func (l *Logger) loadChainState() error {
	data, err := os.ReadFile(filepath.Join(l.path, metaFileName))
	if err != nil {
		return err
	}
	var state chainState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	l.sequence = state.Sequence
	l.prevHash = state.PrevHash
	return nil
}

func (l *Logger) saveChainState() error {
	data, err := json.Marshal(chainState{Sequence: l.sequence, PrevHash: l.prevHash})
	if err != nil {
		return fmt.Errorf("audit: failed to marshal chain state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.path, metaFileName), data, 0o600); err != nil {
		return fmt.Errorf("audit: failed to save chain state: %w", err)
	}
	return nil
}

// VerifyResult contains the results of chain verification.
type VerifyResult struct {
	Valid           bool     `json:"valid" yaml:"valid"`
	RecordsTotal    int      `json:"records_total" yaml:"records_total"`
	RecordsVerified int      `json:"records_verified" yaml:"records_verified"`
	Errors          []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Verify checks sequence numbers, links and HMACs of every record.
func (l *Logger) Verify() (*VerifyResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hmacKey == nil {
		return nil, ErrKeyNotSet
	}

	events, err := l.readAll()
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{Valid: true}
	prev := genesisHash
	for i := range events {
		e := &events[i]
		result.RecordsTotal++
		ok := true

		if want := int64(i + 1); e.Chain.Sequence != want {
			ok = false
			result.Errors = append(result.Errors, fmt.Sprintf("sequence gap at record %s: expected %d, got %d", e.ID, want, e.Chain.Sequence))
		}
		if e.Chain.PrevHash != prev {
			ok = false
			result.Errors = append(result.Errors, fmt.Sprintf("chain broken at record %s", e.ID))
		}
		if !hmac.Equal([]byte(e.Chain.HMAC), []byte(l.sign(e))) {
			ok = false
			result.Errors = append(result.Errors, fmt.Sprintf("HMAC mismatch at record %s: possible tampering", e.ID))
		}

		if ok {
			result.RecordsVerified++
		} else {
			result.Valid = false
		}
		prev = e.Chain.HMAC
	}
	return result, nil
}

// ListEvents returns events after since (zero for all), keeping the most
// recent limit (0 for all).
func (l *Logger) ListEvents(limit int, since time.Time) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := l.readAll()
	if err != nil {
		return nil, err
	}

	if !since.IsZero() {
		filtered := events[:0]
		for _, e := range events {
			ts, err := time.Parse(time.RFC3339Nano, e.Timestamp)
			if err == nil && ts.After(since) {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}

// readAll reads every log file in chronological order.
func (l *Logger) readAll() ([]Event, error) {
	files, err := filepath.Glob(filepath.Join(l.path, "*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("audit: failed to list log files: %w", err)
	}
	// YYYY-MM names sort chronologically
	sort.Strings(files)

	var events []Event
	for _, file := range files {
		fe, err := readLogFile(file)
		if err != nil {
			return nil, fmt.Errorf("audit: failed to read %s: %w", file, err)
		}
		events = append(events, fe...)
	}
	return events, nil
}

func readLogFile(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var events []Event
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("failed to parse line: %w", err)
		}
		events = append(events, e)
	}
	return events, sc.Err()
}

// loadOrCreateSecret reads the chain secret, creating it with 0600
// permissions when missing.
func loadOrCreateSecret(path string) ([]byte, error) {
	secret, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(secret) != secretSize {
			return nil, fmt.Errorf("audit: key file %s is corrupt (%d bytes)", path, len(secret))
		}
		return secret, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("audit: failed to read key: %w", err)
	}

	secret = make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("audit: failed to generate key: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("audit: failed to create key: %w", err)
	}
	if _, err := f.Write(secret); err != nil {
		f.Close()
		return nil, fmt.Errorf("audit: failed to write key: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("audit: failed to write key: %w", err)
	}
	return secret, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("session-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// newID returns a time-sortable identifier: 48 bits of milliseconds followed
// by 80 random bits.
func newID(now time.Time) string {
	b := make([]byte, 16)
	ms := now.UnixMilli()
	for i := 5; i >= 0; i-- {
		b[i] = byte(ms)
		ms >>= 8
	}
	if _, err := rand.Read(b[6:]); err != nil {
		return fmt.Sprintf("%d", now.UnixNano())
	}
	return hex.EncodeToString(b)
}
