package strength

// CharacterSet is a named class of characters and the alphabet size it
// contributes when a password contains at least one of them.
type CharacterSet struct {
	// Name is a human-readable label, e.g. "ASCII Lowercase".
	Name string `json:"name" yaml:"name" toml:"name"`
	// Matches is an RE2 expression matching a single member of the set.
	Matches string `json:"matches" yaml:"matches" toml:"matches"`
	// Value is the number of characters in the set.
	Value int `json:"value" yaml:"value" toml:"value"`
}

// Period is one rung of the unit ladder used to render durations.
type Period struct {
	Singular string  `json:"singular" yaml:"singular" toml:"singular"`
	Plural   string  `json:"plural" yaml:"plural" toml:"plural"`
	Seconds  float64 `json:"seconds" yaml:"seconds" toml:"seconds"`
}

// NamedNumber names a large magnitude, e.g. {"million", 1e6}.
type NamedNumber struct {
	Name  string  `json:"name" yaml:"name" toml:"name"`
	Value float64 `json:"value" yaml:"value" toml:"value"`
}

// Pattern is a regex heuristic evaluated against the whole password.
type Pattern struct {
	Level Level  `json:"level" yaml:"level" toml:"level"`
	ID    string `json:"id" yaml:"id" toml:"id"`
	Regex string `json:"regex" yaml:"regex" toml:"regex"`
}

// Message holds the text reported when the pattern with the same ID matches.
type Message struct {
	ID      string `json:"id" yaml:"id" toml:"id"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	Message string `json:"message" yaml:"message" toml:"message"`
}

// DictionaryMode controls whether pattern checks still run for passwords
// found in the dictionary.
type DictionaryMode string

const (
	// DictionaryAugment reports the dictionary hit followed by all matching patterns.
	DictionaryAugment DictionaryMode = "augment"
	// DictionarySuppress reports only the dictionary hit.
	DictionarySuppress DictionaryMode = "suppress"
)

// DictionaryMessageID is the message id used for the dictionary check.
const DictionaryMessageID = "dictionary"

// Calculation configures the brute-force model.
type Calculation struct {
	// Calcs is the number of guesses per second.
	Calcs float64 `json:"calcs" yaml:"calcs" toml:"calcs"`
	// AverageCase halves the keyspace (an attacker finds the password half way
	// through on average). Off by default.
	AverageCase bool `json:"averageCase" yaml:"averageCase" toml:"averageCase"`
	// CharacterSets are checked independently; matched values are summed.
	CharacterSets []CharacterSet `json:"characterSets" yaml:"characterSets" toml:"characterSets"`
}

// Time configures how durations are rendered.
type Time struct {
	// Periods must be ordered by strictly increasing Seconds.
	Periods []Period `json:"periods" yaml:"periods" toml:"periods"`
	// NamedNumbers must be ordered by strictly increasing Value.
	NamedNumbers []NamedNumber `json:"namedNumbers" yaml:"namedNumbers" toml:"namedNumbers"`
	Forever      string        `json:"forever" yaml:"forever" toml:"forever"`
	Instantly    string        `json:"instantly" yaml:"instantly" toml:"instantly"`
}

// Checks configures the rule engine.
type Checks struct {
	// Dictionary lists passwords judged to be cracked instantly.
	Dictionary     []string       `json:"dictionary" yaml:"dictionary" toml:"dictionary"`
	DictionaryMode DictionaryMode `json:"dictionaryMode" yaml:"dictionaryMode" toml:"dictionaryMode"`
	// Patterns are evaluated, and reported, in this order.
	Patterns []Pattern `json:"patterns" yaml:"patterns" toml:"patterns"`
	Messages []Message `json:"messages" yaml:"messages" toml:"messages"`
}

// Config is the complete engine configuration.
type Config struct {
	Calculation Calculation `json:"calculation" yaml:"calculation" toml:"calculation"`
	Time        Time        `json:"time" yaml:"time" toml:"time"`
	Checks      Checks      `json:"checks" yaml:"checks" toml:"checks"`
}

// Check is a matched pattern joined with its message.
type Check struct {
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
	Level   Level  `json:"level" yaml:"level"`
}

// Result is the verdict for one password.
type Result struct {
	// Time is the rendered crack time, e.g. "24 nanoseconds".
	Time string `json:"time" yaml:"time"`
	// Level is the most severe level among Checks.
	Level  Level   `json:"level" yaml:"level"`
	Checks []Check `json:"checks" yaml:"checks"`
}
