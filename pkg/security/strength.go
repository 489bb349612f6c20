// Package security provides a second opinion on password strength: a
// length-first rating and a zxcvbn estimate, combined into a 0-100 score.
package security

import (
	"unicode/utf8"

	"github.com/nbutton23/zxcvbn-go"
)

// PasswordStrength represents the strength rating of a password.
type PasswordStrength int

const (
	// PasswordWeak indicates an insecure password.
	PasswordWeak PasswordStrength = iota
	// PasswordFair indicates a minimally acceptable password.
	PasswordFair
	// PasswordGood indicates a good password.
	PasswordGood
	// PasswordStrong indicates a strong password.
	PasswordStrong
)

// String returns a human-readable representation of the password strength.
func (s PasswordStrength) String() string {
	switch s {
	case PasswordWeak:
		return "Weak"
	case PasswordFair:
		return "Fair"
	case PasswordGood:
		return "Good"
	case PasswordStrong:
		return "Strong"
	default:
		return "Unknown"
	}
}

// Points returns the score points for this strength level.
// Used in score components: Weak=0, Fair=8, Good=17, Strong=25.
func (s PasswordStrength) Points() int {
	switch s {
	case PasswordWeak:
		return 0
	case PasswordFair:
		return 8
	case PasswordGood:
		return 17
	case PasswordStrong:
		return 25
	default:
		return 0
	}
}

// MarshalText renders the rating by name in JSON and YAML output.
func (s PasswordStrength) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LengthStrength rates a human-chosen password by length alone, counted in
// characters. NIST SP 800-63B recommends:
// - Minimum 8 characters for user-chosen passwords
// - No composition rules
// - Screening against known compromised passwords (done by the dictionary check)
func LengthStrength(password string) PasswordStrength {
	length := utf8.RuneCountInString(password)

	switch {
	case length >= 20:
		return PasswordStrong
	case length >= 14:
		return PasswordGood
	case length >= 8:
		return PasswordFair
	default:
		return PasswordWeak
	}
}

// Estimate is the zxcvbn view of a password.
type Estimate struct {
	// Score runs from 0 (too guessable) to 4 (very unguessable).
	Score int `json:"score" yaml:"score"`
	// Entropy is the log2 of the guesses zxcvbn expects to need.
	Entropy float64 `json:"entropy" yaml:"entropy"`
	// CrackTime is zxcvbn's own rendering of the crack time.
	CrackTime string `json:"crackTime" yaml:"crackTime"`
}

// Strength maps the zxcvbn score onto the rating scale.
func (e Estimate) Strength() PasswordStrength {
	switch {
	case e.Score >= 4:
		return PasswordStrong
	case e.Score == 3:
		return PasswordGood
	case e.Score == 2:
		return PasswordFair
	default:
		return PasswordWeak
	}
}

// EstimateStrength runs zxcvbn against password. userInputs are words the
// password should not be built from, such as a user name.
func EstimateStrength(password string, userInputs []string) Estimate {
	if password == "" {
		return Estimate{CrackTime: "instant"}
	}
	m := zxcvbn.PasswordStrength(password, userInputs)
	return Estimate{
		Score:     m.Score,
		Entropy:   m.Entropy,
		CrackTime: m.CrackTimeDisplay,
	}
}
