package security

import (
	"github.com/forest6511/hsimp/pkg/strength"
)

// SecurityScore is the combined assessment of one password.
type SecurityScore struct {
	// Overall is the total score (0-100).
	Overall int `json:"overall" yaml:"overall"`
	// Rating summarises Overall on the Weak..Strong scale.
	Rating PasswordStrength `json:"rating" yaml:"rating"`
	// Components breaks down the score into categories.
	Components ScoreComponents `json:"components" yaml:"components"`
	// Estimate is the raw zxcvbn result.
	Estimate Estimate `json:"zxcvbn" yaml:"zxcvbn"`
	// Issues lists the weaknesses found by the pattern checks.
	Issues []SecurityIssue `json:"issues" yaml:"issues"`
	// Suggestions provides actionable recommendations.
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
}

// ScoreComponents breaks down the score into categories.
// Each component contributes up to 25 points (total: 100).
type ScoreComponents struct {
	// LengthScore is based on the length-first rating (0-25).
	LengthScore int `json:"length" yaml:"length"`
	// GuessabilityScore is based on the zxcvbn score (0-25).
	GuessabilityScore int `json:"guessability" yaml:"guessability"`
	// PatternScore is based on the most severe check (0-25).
	PatternScore int `json:"patterns" yaml:"patterns"`
	// DictionaryScore is 25 unless the password is a known common password.
	DictionaryScore int `json:"dictionary" yaml:"dictionary"`
}

// Severity indicates the urgency of a security issue.
type Severity string

const (
	// SeverityCritical requires immediate attention.
	SeverityCritical Severity = "critical"
	// SeverityWarning should be addressed soon.
	SeverityWarning Severity = "warning"
	// SeverityInfo is informational only.
	SeverityInfo Severity = "info"
)

// SecurityIssue is a weakness reported by a check.
type SecurityIssue struct {
	// Severity indicates urgency.
	Severity Severity `json:"severity" yaml:"severity"`
	// Name is the check name, e.g. "Length: Very short".
	Name string `json:"name" yaml:"name"`
	// Description explains the issue.
	Description string `json:"description" yaml:"description"`
}

// Suggestions keyed by the condition that triggers them.
const (
	suggestLength     = "Use a longer password; a passphrase of several random words is easy to remember"
	suggestCommon     = "Do not use a common password; it is among the first guesses an attacker tries"
	suggestVariety    = "Mix letters, numbers and symbols, or make the password much longer"
	suggestPredictive = "Avoid keyboard runs, dates and words followed by a few digits"
)

// Score combines the engine result with the length rating and zxcvbn.
// inDictionary reports whether the engine found password in its dictionary.
// The password is only used for the length and zxcvbn estimates.
func Score(password string, res strength.Result, inDictionary bool, userInputs []string) *SecurityScore {
	lengthRating := LengthStrength(password)
	est := EstimateStrength(password, userInputs)

	components := ScoreComponents{
		LengthScore:       lengthRating.Points(),
		GuessabilityScore: est.Strength().Points(),
		PatternScore:      patternPoints(res.Level),
		DictionaryScore:   25,
	}
	if inDictionary {
		components.DictionaryScore = 0
	}

	overall := components.LengthScore + components.GuessabilityScore +
		components.PatternScore + components.DictionaryScore

	issues := issuesFromChecks(res.Checks)
	return &SecurityScore{
		Overall:     overall,
		Rating:      ratingFor(overall, inDictionary),
		Components:  components,
		Estimate:    est,
		Issues:      issues,
		Suggestions: generateSuggestions(lengthRating, est, issues, inDictionary),
	}
}

// patternPoints maps the aggregate level to points; achievements and easter
// eggs do not lower the score.
func patternPoints(level strength.Level) int {
	switch level {
	case strength.LevelWarning:
		return 0
	case strength.LevelNotice:
		return 12
	default:
		return 25
	}
}

// ratingFor converts a 0-100 score to a rating. A dictionary hit is always Weak.
func ratingFor(overall int, inDictionary bool) PasswordStrength {
	switch {
	case inDictionary:
		return PasswordWeak
	case overall >= 90:
		return PasswordStrong
	case overall >= 70:
		return PasswordGood
	case overall >= 45:
		return PasswordFair
	default:
		return PasswordWeak
	}
}

func issuesFromChecks(checks []strength.Check) []SecurityIssue {
	issues := make([]SecurityIssue, 0, len(checks))
	for _, c := range checks {
		var sev Severity
		switch c.Level {
		case strength.LevelWarning:
			sev = SeverityCritical
		case strength.LevelNotice:
			sev = SeverityWarning
		default:
			continue
		}
		issues = append(issues, SecurityIssue{
			Severity:    sev,
			Name:        c.Name,
			Description: c.Message,
		})
	}
	return issues
}

// generateSuggestions creates actionable recommendations based on the findings.
func generateSuggestions(lengthRating PasswordStrength, est Estimate, issues []SecurityIssue, inDictionary bool) []string {
	suggestions := make([]string, 0, 4)

	if inDictionary {
		suggestions = append(suggestions, suggestCommon)
	}
	if lengthRating <= PasswordFair {
		suggestions = append(suggestions, suggestLength)
	}
	if est.Score < 3 && len(issues) > 0 {
		suggestions = append(suggestions, suggestPredictive)
	}
	for _, issue := range issues {
		if issue.Severity == SeverityCritical && lengthRating > PasswordWeak {
			suggestions = append(suggestions, suggestVariety)
			break
		}
	}

	return suggestions
}
