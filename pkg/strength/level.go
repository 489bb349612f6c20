// Package strength estimates how long a password would survive a brute-force
// attack and flags structural weaknesses with ordered, regex-based checks.
package strength

import "fmt"

// Level is the severity attached to a matched check.
type Level string

const (
	// LevelWarning marks a serious weakness.
	LevelWarning Level = "warning"
	// LevelNotice marks a minor weakness.
	LevelNotice Level = "notice"
	// LevelAchievement marks a trait that improves the password.
	LevelAchievement Level = "achievement"
	// LevelEasterEgg is informational only.
	LevelEasterEgg Level = "easter-egg"
	// LevelNone is reported when no check matched. It is never valid on a pattern.
	LevelNone Level = "none"
)

// Severity ranks levels from most concerning (4) to no finding at all (0).
// Unknown levels rank below LevelNone.
func (l Level) Severity() int {
	switch l {
	case LevelWarning:
		return 4
	case LevelNotice:
		return 3
	case LevelAchievement:
		return 2
	case LevelEasterEgg:
		return 1
	case LevelNone:
		return 0
	default:
		return -1
	}
}

// Valid reports whether l may be attached to a pattern.
func (l Level) Valid() bool {
	return l.Severity() > 0
}

// String returns the level name.
func (l Level) String() string {
	return string(l)
}

// ParseLevel converts a configuration string into a pattern level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q (expected warning, notice, achievement or easter-egg)", s)
	}
	return l, nil
}

// HighestLevel returns the most severe level among checks, or LevelNone when
// checks is empty.
func HighestLevel(checks []Check) Level {
	highest := LevelNone
	for _, c := range checks {
		if c.Level.Severity() > highest.Severity() {
			highest = c.Level
		}
	}
	return highest
}
