package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/forest6511/hsimp/pkg/config"
	"github.com/forest6511/hsimp/pkg/strength"
)

// Character set constants
const (
	charsetLowercase = "abcdefghijklmnopqrstuvwxyz"
	charsetUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsetDigits    = "0123456789"
	charsetSymbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	minPasswordLength     = 8
	maxPasswordLength     = 256
	defaultPasswordLength = 20
	defaultPasswordCount  = 1
	maxPasswordCount      = 100
	maxExcludeLength      = 256
)

// Generate command flags
var (
	generateLength      int
	generateCount       int
	generateNoSymbols   bool
	generateNoNumbers   bool
	generateNoUppercase bool
	generateNoLowercase bool
	generateExclude     string
	generateCopy        bool
	generateRate        bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&generateLength, "length", "l", defaultPasswordLength, "Password length (8-256)")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", defaultPasswordCount, "Number of passwords to generate (1-100)")
	generateCmd.Flags().BoolVar(&generateNoSymbols, "no-symbols", false, "Exclude symbols")
	generateCmd.Flags().BoolVar(&generateNoNumbers, "no-numbers", false, "Exclude numbers")
	generateCmd.Flags().BoolVar(&generateNoUppercase, "no-uppercase", false, "Exclude uppercase letters")
	generateCmd.Flags().BoolVar(&generateNoLowercase, "no-lowercase", false, "Exclude lowercase letters")
	generateCmd.Flags().StringVar(&generateExclude, "exclude", "", "Characters to exclude")
	generateCmd.Flags().BoolVarP(&generateCopy, "copy", "c", false, "Copy first password to clipboard (accessible to all processes)")
	generateCmd.Flags().BoolVarP(&generateRate, "rate", "r", false, "Show the crack time and level of each password")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate random passwords and rate them",
	Long: `Generate cryptographically secure random passwords.

With --rate every password is checked the same way as "hsimp check" and its
crack time and level are printed next to it. Structured output (-o json or
-o yaml) always includes the rating.

Examples:
  # Generate a 20-character password (default)
  hsimp generate

  # Generate 5 passwords without symbols and show how strong they are
  hsimp generate -n 5 --no-symbols --rate

  # Generate password excluding ambiguous characters
  hsimp generate --exclude "0O1lI"`,
	Args: cobra.NoArgs,
	RunE: executeGenerate,
}

// generatedPassword is one generated password with its verdict.
type generatedPassword struct {
	Password string         `json:"password" yaml:"password"`
	Time     string         `json:"time" yaml:"time"`
	Level    strength.Level `json:"level" yaml:"level"`
}

func executeGenerate(cmd *cobra.Command, args []string) error {
	format := settings.GetString(keyOutput)
	if err := validateFormat(format, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	// Validate flags
	if err := validateGenerateFlags(); err != nil {
		return err
	}

	// Build character set
	charset, err := buildCharset()
	if err != nil {
		return err
	}

	engine, err := strength.New(config.Merge(config.Default(), overrides))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	passwords, err := generatePasswords(engine, charset, generateLength, generateCount)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == formatText {
		writeGeneratedText(out, passwords, generateRate)
	} else if err := writeStructured(out, format, passwords); err != nil {
		return err
	}

	// Copy to clipboard if requested
	if generateCopy {
		if err := copyToClipboard(passwords[0].Password); err != nil {
			logger.Warnw("failed to copy to clipboard", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, "Password copied to clipboard")
		}
	}

	return nil
}

// generatePasswords generates count passwords and rates each with engine.
func generatePasswords(engine *strength.Engine, charset string, length, count int) ([]generatedPassword, error) {
	passwords := make([]generatedPassword, 0, count)
	for i := 0; i < count; i++ {
		password, err := generatePassword(charset, length)
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		res := engine.Evaluate(password)
		passwords = append(passwords, generatedPassword{
			Password: password,
			Time:     res.Time,
			Level:    res.Level,
		})
	}
	return passwords, nil
}

func writeGeneratedText(w io.Writer, passwords []generatedPassword, rate bool) {
	if !rate {
		for _, p := range passwords {
			fmt.Fprintln(w, p.Password)
		}
		return
	}
	width := 0
	for _, p := range passwords {
		width = max(width, runewidth.StringWidth(p.Password))
	}
	for _, p := range passwords {
		fmt.Fprintf(w, "%s  %s  %s\n", runewidth.FillRight(p.Password, width), colorTime(p.Time), levelTag(p.Level))
	}
}

// validateGenerateFlags validates the generate command flags
func validateGenerateFlags() error {
	if generateLength < minPasswordLength {
		return fmt.Errorf("password length must be at least %d characters", minPasswordLength)
	}
	if generateLength > maxPasswordLength {
		return fmt.Errorf("password length must be at most %d characters", maxPasswordLength)
	}
	if generateCount < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	if generateCount > maxPasswordCount {
		return fmt.Errorf("count must be at most %d", maxPasswordCount)
	}
	if len(generateExclude) > maxExcludeLength {
		return fmt.Errorf("exclude string must be at most %d characters", maxExcludeLength)
	}
	return nil
}

// buildCharset builds the character set based on flags
func buildCharset() (string, error) {
	var charset strings.Builder

	if !generateNoLowercase {
		charset.WriteString(charsetLowercase)
	}
	if !generateNoUppercase {
		charset.WriteString(charsetUppercase)
	}
	if !generateNoNumbers {
		charset.WriteString(charsetDigits)
	}
	if !generateNoSymbols {
		charset.WriteString(charsetSymbols)
	}

	result := removeChars(charset.String(), generateExclude)
	if result == "" {
		return "", fmt.Errorf("character set is empty: adjust flags to include at least one character type")
	}
	return result, nil
}

// removeChars removes specified characters from a string
func removeChars(s, chars string) string {
	if chars == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}

// generatePassword generates a cryptographically secure random password
func generatePassword(charset string, length int) (string, error) {
	charsetLen := big.NewInt(int64(len(charset)))
	password := make([]byte, length)

	for i := range password {
		idx, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		password[i] = charset[idx.Int64()]
	}

	return string(password), nil
}

// copyToClipboard copies text to the system clipboard
func copyToClipboard(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		// Try wl-copy, then xclip, then xsel
		switch {
		case lookPath("wl-copy"):
			cmd = exec.Command("wl-copy")
		case lookPath("xclip"):
			cmd = exec.Command("xclip", "-selection", "clipboard")
		case lookPath("xsel"):
			cmd = exec.Command("xsel", "--clipboard", "--input")
		default:
			return fmt.Errorf("clipboard tool not found: install wl-clipboard, xclip or xsel")
		}
	case "windows":
		cmd = exec.Command("clip")
	default:
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}

	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func lookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
