package strength

import (
	"regexp"
)

type compiledSet struct {
	set CharacterSet
	re  *regexp.Regexp
}

// Classifier determines which character sets a password draws from.
type Classifier struct {
	sets []compiledSet
}

// NewClassifier compiles the character set expressions.
func NewClassifier(sets []CharacterSet) (*Classifier, error) {
	c := &Classifier{sets: make([]compiledSet, 0, len(sets))}
	for i, s := range sets {
		if s.Name == "" {
			return nil, configErr("calculation.characterSets", i, "name is empty")
		}
		if s.Value <= 0 {
			return nil, configErr("calculation.characterSets", i, "value must be positive, got %d", s.Value)
		}
		if s.Matches == "" {
			return nil, configErr("calculation.characterSets", i, "matches is empty")
		}
		re, err := regexp.Compile(s.Matches)
		if err != nil {
			return nil, configErr("calculation.characterSets", i, "invalid matches expression: %v", err)
		}
		c.sets = append(c.sets, compiledSet{set: s, re: re})
	}
	return c, nil
}

// Classify returns, in configured order, every set with at least one
// character present in password.
func (c *Classifier) Classify(password string) []CharacterSet {
	var matched []CharacterSet
	if password == "" {
		return matched
	}
	for _, cs := range c.sets {
		if cs.re.MatchString(password) {
			matched = append(matched, cs.set)
		}
	}
	return matched
}

// AlphabetSize sums the values of the given sets.
func AlphabetSize(sets []CharacterSet) int {
	size := 0
	for _, s := range sets {
		size += s.Value
	}
	return size
}
