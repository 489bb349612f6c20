package strength

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// Engine evaluates passwords against a validated configuration. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	calcs       float64
	averageCase bool
	classifier  *Classifier
	clock       *Clock
	rules       *RuleSet
}

// Analysis is the intermediate data behind a Result. It never contains the
// password itself.
type Analysis struct {
	Result        Result   `json:"result" yaml:"result"`
	CharacterSets []string `json:"characterSets" yaml:"characterSets"`
	Alphabet      int      `json:"alphabet" yaml:"alphabet"`
	Length        int      `json:"length" yaml:"length"`
	Entropy       float64  `json:"entropy" yaml:"entropy"`
	Keyspace      string   `json:"keyspace" yaml:"keyspace"`
	Seconds       string   `json:"seconds" yaml:"seconds"`
	InDictionary  bool     `json:"inDictionary" yaml:"inDictionary"`
}

// New validates cfg and compiles it into an Engine. Validation failures are
// returned as *ConfigError.
func New(cfg Config) (*Engine, error) {
	calcs := cfg.Calculation.Calcs
	if !(calcs > 0) || math.IsInf(calcs, 0) {
		return nil, configErr("calculation.calcs", -1, "must be positive and finite, got %v", calcs)
	}

	classifier, err := NewClassifier(cfg.Calculation.CharacterSets)
	if err != nil {
		return nil, err
	}
	clock, err := NewClock(cfg.Time)
	if err != nil {
		return nil, err
	}
	rules, err := NewRuleSet(cfg.Checks)
	if err != nil {
		return nil, err
	}

	return &Engine{
		calcs:       calcs,
		averageCase: cfg.Calculation.AverageCase,
		classifier:  classifier,
		clock:       clock,
		rules:       rules,
	}, nil
}

// Evaluate returns the crack time, severity level and matched checks.
func (e *Engine) Evaluate(password string) Result {
	return e.Analyze(password).Result
}

// Analyze evaluates password and returns the intermediate figures as well.
func (e *Engine) Analyze(password string) Analysis {
	sets := e.classifier.Classify(password)
	alphabet := AlphabetSize(sets)
	length := utf8.RuneCountInString(password)
	keyspace := Keyspace(alphabet, length)
	seconds := SecondsToCrack(keyspace, e.calcs, e.averageCase)

	checks, inDictionary := e.rules.Match(password)

	var crackTime string
	if inDictionary {
		crackTime = e.clock.instantly
	} else {
		crackTime = e.clock.Format(seconds)
	}

	names := make([]string, 0, len(sets))
	for _, s := range sets {
		names = append(names, s.Name)
	}

	return Analysis{
		Result: Result{
			Time:   crackTime,
			Level:  HighestLevel(checks),
			Checks: checks,
		},
		CharacterSets: names,
		Alphabet:      alphabet,
		Length:        length,
		Entropy:       Entropy(alphabet, length),
		Keyspace:      keyspace.Text('g', 6),
		Seconds:       strconv.FormatFloat(seconds, 'g', 6, 64),
		InDictionary:  inDictionary,
	}
}

// Rules exposes the compiled rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules.Rules()
}
