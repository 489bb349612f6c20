// Package config assembles engine configuration from built-in defaults and
// partial overrides read from maps, YAML, TOML or JSON documents.
package config

import (
	_ "embed"
	"strings"

	"github.com/forest6511/hsimp/pkg/strength"
)

// DefaultCalcs is the guess rate of a fast offline attacker.
const DefaultCalcs = 40e9

//go:embed dictionary.txt
var dictionaryRaw string

// defaultDictionary is parsed once from the embedded list.
var defaultDictionary = parseDictionary(dictionaryRaw)

func parseDictionary(raw string) []string {
	lines := strings.Split(raw, "\n")
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		word := strings.TrimRight(line, "\r")
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	return words
}

// Default returns a fresh copy of the built-in configuration.
func Default() strength.Config {
	return strength.Config{
		Calculation: strength.Calculation{
			Calcs:         DefaultCalcs,
			CharacterSets: DefaultCharacterSets(),
		},
		Time: strength.Time{
			Periods:      DefaultPeriods(),
			NamedNumbers: DefaultNamedNumbers(),
			Forever:      "Forever",
			Instantly:    "Instantly",
		},
		Checks: strength.Checks{
			Dictionary:     DefaultDictionary(),
			DictionaryMode: strength.DictionaryAugment,
			Patterns:       DefaultPatterns(),
			Messages:       DefaultMessages(),
		},
	}
}

// DefaultDictionary returns a copy of the embedded common-password list.
func DefaultDictionary() []string {
	return append([]string(nil), defaultDictionary...)
}

// DefaultCharacterSets returns the built-in character classes.
func DefaultCharacterSets() []strength.CharacterSet {
	return []strength.CharacterSet{
		{Name: "ASCII Lowercase", Matches: `[a-z]`, Value: 26},
		{Name: "ASCII Uppercase", Matches: `[A-Z]`, Value: 26},
		{Name: "ASCII Numbers", Matches: `[0-9]`, Value: 10},
		{Name: "ASCII Top Row Symbols", Matches: `[!@£#$%^&*()\-_=+]`, Value: 15},
		{Name: "ASCII Other Symbols", Matches: `[?/.>,<\x60~\\|"';:\]}\[{\s]`, Value: 19},
		{Name: "Unicode Latin 1 Supplement", Matches: `[\x{00A1}-\x{00FF}]`, Value: 94},
		{Name: "Unicode Latin Extended A", Matches: `[\x{0100}-\x{017F}]`, Value: 128},
		{Name: "Unicode Latin Extended B", Matches: `[\x{0180}-\x{024F}]`, Value: 208},
		{Name: "Unicode Latin Extended C", Matches: `[\x{2C60}-\x{2C7F}]`, Value: 32},
		{Name: "Unicode Latin Extended D", Matches: `[\x{A720}-\x{A7FF}]`, Value: 224},
		{Name: "Unicode Greek", Matches: `[\x{0370}-\x{03FF}]`, Value: 144},
		{Name: "Unicode Cyrillic Uppercase", Matches: `[\x{0410}-\x{042F}]`, Value: 32},
		{Name: "Unicode Cyrillic Lowercase", Matches: `[\x{0430}-\x{044F}]`, Value: 32},
		{Name: "Unicode CJK Unified Ideographs", Matches: `[\x{4E00}-\x{9FFF}]`, Value: 20992},
	}
}

// DefaultPeriods returns the unit ladder from nanoseconds to millennia.
func DefaultPeriods() []strength.Period {
	return []strength.Period{
		{Singular: "nanosecond", Plural: "nanoseconds", Seconds: 1e-9},
		{Singular: "microsecond", Plural: "microseconds", Seconds: 1e-6},
		{Singular: "millisecond", Plural: "milliseconds", Seconds: 1e-3},
		{Singular: "second", Plural: "seconds", Seconds: 1},
		{Singular: "minute", Plural: "minutes", Seconds: 60},
		{Singular: "hour", Plural: "hours", Seconds: 3600},
		{Singular: "day", Plural: "days", Seconds: 86400},
		{Singular: "week", Plural: "weeks", Seconds: 604800},
		{Singular: "month", Plural: "months", Seconds: 2629800},
		{Singular: "year", Plural: "years", Seconds: 31557600},
		{Singular: "century", Plural: "centuries", Seconds: 3155760000},
		{Singular: "millennium", Plural: "millennia", Seconds: 31557600000},
	}
}

// DefaultNamedNumbers returns short-scale names from thousand to vigintillion.
func DefaultNamedNumbers() []strength.NamedNumber {
	return []strength.NamedNumber{
		{Name: "thousand", Value: 1e3},
		{Name: "million", Value: 1e6},
		{Name: "billion", Value: 1e9},
		{Name: "trillion", Value: 1e12},
		{Name: "quadrillion", Value: 1e15},
		{Name: "quintillion", Value: 1e18},
		{Name: "sextillion", Value: 1e21},
		{Name: "septillion", Value: 1e24},
		{Name: "octillion", Value: 1e27},
		{Name: "nonillion", Value: 1e30},
		{Name: "decillion", Value: 1e33},
		{Name: "undecillion", Value: 1e36},
		{Name: "duodecillion", Value: 1e39},
		{Name: "tredecillion", Value: 1e42},
		{Name: "quattuordecillion", Value: 1e45},
		{Name: "quindecillion", Value: 1e48},
		{Name: "sexdecillion", Value: 1e51},
		{Name: "septendecillion", Value: 1e54},
		{Name: "octodecillion", Value: 1e57},
		{Name: "novemdecillion", Value: 1e60},
		{Name: "vigintillion", Value: 1e63},
	}
}

// Pattern ids of the built-in checks.
const (
	PatternLengthVeryShort = "length-very-short"
	PatternLengthShort     = "length-short"
	PatternLengthLong      = "length-long"
	PatternJustNumbers     = "variety-just-numbers"
	PatternJustLetters     = "variety-just-letters"
	PatternNonStandard     = "variety-non-standard"
	PatternTelephoneOrDate = "telephone-or-date"
	PatternWordAndNumber   = "word-and-number"
	PatternCommonSequence  = "common-sequence"
	PatternPasswordChecker = "easter-egg-checker"
	PatternCorrectHorse    = "easter-egg-correct-horse"
)

// DefaultPatterns returns the built-in checks in reporting order.
func DefaultPatterns() []strength.Pattern {
	return []strength.Pattern{
		{Level: strength.LevelWarning, ID: PatternLengthVeryShort, Regex: `^.{1,6}$`},
		{Level: strength.LevelNotice, ID: PatternLengthShort, Regex: `^.{7,9}$`},
		{Level: strength.LevelAchievement, ID: PatternLengthLong, Regex: `^.{16,}$`},
		{Level: strength.LevelWarning, ID: PatternJustNumbers, Regex: `^[0-9]+$`},
		{Level: strength.LevelNotice, ID: PatternJustLetters, Regex: `^[A-Za-z]+$`},
		{Level: strength.LevelAchievement, ID: PatternNonStandard, Regex: `[^\x00-\x7F]`},
		{Level: strength.LevelWarning, ID: PatternTelephoneOrDate, Regex: `^[0-9\s()+./\-]+$`},
		{Level: strength.LevelNotice, ID: PatternWordAndNumber, Regex: `^[A-Za-z]+[0-9]{1,4}[!?.]?$`},
		{Level: strength.LevelNotice, ID: PatternCommonSequence, Regex: `(?i)(qwert|werty|asdfg|zxcvb|12345|23456|34567|45678|56789|98765|abcde)`},
		{Level: strength.LevelEasterEgg, ID: PatternPasswordChecker, Regex: `(?i)^how\s*secure\s*is\s*my\s*password$`},
		{Level: strength.LevelEasterEgg, ID: PatternCorrectHorse, Regex: `(?i)correct\s*horse\s*battery\s*staple`},
	}
}

// DefaultMessages returns the text for every built-in pattern plus the
// dictionary check.
func DefaultMessages() []strength.Message {
	return []strength.Message{
		{
			ID:      strength.DictionaryMessageID,
			Name:    "Common Password",
			Message: "Your password is very commonly used. It would be cracked almost instantly.",
		},
		{
			ID:      PatternLengthVeryShort,
			Name:    "Length: Very short",
			Message: "Your password is very short. The longer a password is the more secure it will be.",
		},
		{
			ID:      PatternLengthShort,
			Name:    "Length: Short",
			Message: "Your password is quite short. The longer a password is the more secure it will be.",
		},
		{
			ID:      PatternLengthLong,
			Name:    "Length: Long",
			Message: "Your password is over sixteen characters long. It should be pretty safe.",
		},
		{
			ID:      PatternJustNumbers,
			Name:    "Character Variety: Just Numbers",
			Message: "Your password only contains numbers. This reduces the number of possible combinations dramatically.",
		},
		{
			ID:      PatternJustLetters,
			Name:    "Character Variety: Just Letters",
			Message: "Your password only contains letters. Adding numbers and symbols can make your password more secure.",
		},
		{
			ID:      PatternNonStandard,
			Name:    "Character Variety: Non-Standard Character",
			Message: "Your password contains a non-standard character. That should make it more secure.",
		},
		{
			ID:      PatternTelephoneOrDate,
			Name:    "Possibly a Telephone Number / Date",
			Message: "Your password looks like it might be a telephone number or a date. If it is and it has personal significance then it might be very easy for someone to guess.",
		},
		{
			ID:      PatternWordAndNumber,
			Name:    "Possibly a Word and a Number",
			Message: "Your password looks like it might be a word followed by a few numbers. This is a very common pattern and would be tried early on.",
		},
		{
			ID:      PatternCommonSequence,
			Name:    "Common Sequence",
			Message: "Your password contains a common keyboard or alphabet sequence. Attackers try these first.",
		},
		{
			ID:      PatternPasswordChecker,
			Name:    "Nice Try",
			Message: "Your password is the name of a password checker. Nice try.",
		},
		{
			ID:      PatternCorrectHorse,
			Name:    "Correct Horse Battery Staple",
			Message: "Your password is the example from a well-known comic. Everyone who has read it knows this one.",
		},
	}
}
