package strength_test

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/forest6511/hsimp/pkg/config"
	"github.com/forest6511/hsimp/pkg/strength"
)

func newDefaultEngine(t *testing.T) *strength.Engine {
	t.Helper()
	e, err := strength.New(config.Default())
	if err != nil {
		t.Fatalf("New(Default()) error: %v", err)
	}
	return e
}

func names(checks []strength.Check) []string {
	out := make([]string, 0, len(checks))
	for _, c := range checks {
		out = append(out, c.Name)
	}
	return out
}

func TestEngine_Evaluate(t *testing.T) {
	e := newDefaultEngine(t)

	tests := []struct {
		name     string
		password string
		time     string
		level    strength.Level
		checks   []string
	}{
		{
			name:     "three digits",
			password: "123",
			time:     "24 nanoseconds",
			level:    strength.LevelWarning,
			checks: []string{
				"Length: Very short",
				"Character Variety: Just Numbers",
				"Possibly a Telephone Number / Date",
			},
		},
		{
			name:     "single digit",
			password: "7",
			time:     "Instantly",
			level:    strength.LevelWarning,
			checks: []string{
				"Length: Very short",
				"Character Variety: Just Numbers",
				"Possibly a Telephone Number / Date",
			},
		},
		{
			name:     "empty",
			password: "",
			time:     "Instantly",
			level:    strength.LevelNone,
			checks:   []string{},
		},
		{
			name:     "dictionary word",
			password: "password",
			time:     "Instantly",
			level:    strength.LevelWarning,
			checks: []string{
				"Common Password",
				"Length: Short",
				"Character Variety: Just Letters",
			},
		},
		{
			name:     "mixed without findings",
			password: "Tr0ub4dor&3x",
			level:    strength.LevelNone,
			checks:   []string{},
		},
		{
			name:     "very long",
			password: strings.Repeat("aB3$", 100),
			time:     "Forever",
			level:    strength.LevelAchievement,
			checks:   []string{"Length: Long"},
		},
		{
			name:     "word and number",
			password: "monkey12",
			level:    strength.LevelNotice,
			checks: []string{
				"Length: Short",
				"Possibly a Word and a Number",
			},
		},
		{
			name:     "easter egg",
			password: "How Secure Is My Password",
			level:    strength.LevelAchievement,
			checks: []string{
				"Length: Long",
				"Nice Try",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Evaluate(tt.password)
			if tt.time != "" && res.Time != tt.time {
				t.Errorf("Time = %q, want %q", res.Time, tt.time)
			}
			if res.Level != tt.level {
				t.Errorf("Level = %q, want %q", res.Level, tt.level)
			}
			if res.Checks == nil {
				t.Fatal("Checks is nil")
			}
			got := names(res.Checks)
			if strings.Join(got, "|") != strings.Join(tt.checks, "|") {
				t.Errorf("Checks = %v, want %v", got, tt.checks)
			}
		})
	}
}

func TestEngine_ScenarioMessages(t *testing.T) {
	res := newDefaultEngine(t).Evaluate("123")
	want := []strength.Check{
		{
			Name:    "Length: Very short",
			Message: "Your password is very short. The longer a password is the more secure it will be.",
			Level:   strength.LevelWarning,
		},
		{
			Name:    "Character Variety: Just Numbers",
			Message: "Your password only contains numbers. This reduces the number of possible combinations dramatically.",
			Level:   strength.LevelWarning,
		},
		{
			Name:    "Possibly a Telephone Number / Date",
			Message: "Your password looks like it might be a telephone number or a date. If it is and it has personal significance then it might be very easy for someone to guess.",
			Level:   strength.LevelWarning,
		},
	}
	if len(res.Checks) != len(want) {
		t.Fatalf("got %d checks, want %d", len(res.Checks), len(want))
	}
	for i := range want {
		if res.Checks[i] != want[i] {
			t.Errorf("Checks[%d] = %+v, want %+v", i, res.Checks[i], want[i])
		}
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e := newDefaultEngine(t)
	inputs := []string{"", "123", "password", "correct horse battery staple", "пароль2024"}

	var wg sync.WaitGroup
	for _, pw := range inputs {
		want := e.Evaluate(pw)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got := e.Evaluate(pw)
				if got.Time != want.Time || got.Level != want.Level ||
					strings.Join(names(got.Checks), "|") != strings.Join(names(want.Checks), "|") {
					t.Errorf("Evaluate(%q) not deterministic: %+v vs %+v", pw, got, want)
				}
			}()
		}
	}
	wg.Wait()
}

func TestEngine_CheckOrderFollowsPatterns(t *testing.T) {
	e := newDefaultEngine(t)
	order := make(map[string]int)
	for i, r := range e.Rules() {
		order[r.Name] = i
	}

	for _, pw := range []string{"123", "qwerty123", "abcdefghijklmnopqrstu", "2024-01-01", "Ünïcödé12345"} {
		last := -1
		for _, c := range e.Evaluate(pw).Checks {
			idx, ok := order[c.Name]
			if !ok {
				continue // dictionary check
			}
			if idx <= last {
				t.Errorf("Evaluate(%q): check %q out of pattern order", pw, c.Name)
			}
			last = idx
		}
	}
}

func TestEngine_LevelIsMostSevere(t *testing.T) {
	e := newDefaultEngine(t)
	for _, pw := range []string{"a", "abcdefgh", "Ünïcödé-passphrase!", "qwertyuiop", "0123 456 789"} {
		res := e.Evaluate(pw)
		max := strength.LevelNone
		for _, c := range res.Checks {
			if c.Level.Severity() > max.Severity() {
				max = c.Level
			}
		}
		if res.Level != max {
			t.Errorf("Evaluate(%q).Level = %q, want %q", pw, res.Level, max)
		}
	}
}

func TestEngine_SecondsMonotonicInLength(t *testing.T) {
	e := newDefaultEngine(t)
	prev := -1.0
	for n := 1; n <= 60; n++ {
		a := e.Analyze(strings.Repeat("x", n))
		s, err := strconv.ParseFloat(a.Seconds, 64)
		if err != nil {
			t.Fatalf("ParseFloat(%q): %v", a.Seconds, err)
		}
		if s < prev {
			t.Fatalf("seconds decreased at length %d: %v < %v", n, s, prev)
		}
		prev = s
	}
}

func TestEngine_Analyze(t *testing.T) {
	e := newDefaultEngine(t)

	a := e.Analyze("Zx9!")
	if a.Length != 4 || a.Alphabet != 26+26+10+15 {
		t.Errorf("Analyze() length=%d alphabet=%d", a.Length, a.Alphabet)
	}
	if len(a.CharacterSets) != 4 {
		t.Errorf("Analyze() sets = %v", a.CharacterSets)
	}
	if a.InDictionary {
		t.Error("Analyze() reported dictionary hit")
	}

	// Length counts characters, not bytes.
	if got := e.Analyze("пароль").Length; got != 6 {
		t.Errorf("Analyze(пароль).Length = %d, want 6", got)
	}

	huge := e.Analyze(strings.Repeat("aB3$", 100))
	if huge.Seconds != "+Inf" {
		t.Errorf("Seconds = %q, want +Inf", huge.Seconds)
	}
	if math.IsNaN(huge.Entropy) || huge.Entropy <= 0 {
		t.Errorf("Entropy = %v", huge.Entropy)
	}
}

func TestEngine_CustomDictionary(t *testing.T) {
	e, err := config.Build(&config.Partial{
		Checks: &config.PartialChecks{Dictionary: []string{"Xk9#mQ2!vLp7"}},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	res := e.Evaluate("Xk9#mQ2!vLp7")
	if res.Time != "Instantly" || res.Level != strength.LevelWarning {
		t.Errorf("Evaluate() = %+v", res)
	}
	if len(res.Checks) == 0 || res.Checks[0].Name != "Common Password" {
		t.Errorf("Checks = %v", names(res.Checks))
	}

	// The replaced list no longer contains the built-in words.
	if got := e.Evaluate("password"); got.Time == "Instantly" {
		t.Errorf("Evaluate(password) = %+v, want a computed time", got)
	}
}

func TestEngine_DictionarySuppress(t *testing.T) {
	mode := strength.DictionarySuppress
	e, err := config.Build(&config.Partial{
		Checks: &config.PartialChecks{DictionaryMode: &mode},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	res := e.Evaluate("password")
	if strings.Join(names(res.Checks), "|") != "Common Password" {
		t.Errorf("Checks = %v, want only the dictionary check", names(res.Checks))
	}
}

func TestNew_InvalidCalcs(t *testing.T) {
	for _, calcs := range []float64{0, -1, math.Inf(1), math.NaN()} {
		cfg := config.Default()
		cfg.Calculation.Calcs = calcs
		_, err := strength.New(cfg)
		if !errors.Is(err, strength.ErrInvalidConfig) {
			t.Errorf("New(calcs=%v) error = %v, want ErrInvalidConfig", calcs, err)
		}
	}
}

func TestEngine_AverageCaseHalvesTime(t *testing.T) {
	full := newDefaultEngine(t).Analyze("abcd1234")
	avg, err := config.Build(&config.Partial{
		Calculation: &config.PartialCalculation{AverageCase: config.Ptr(true)},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	half := avg.Analyze("abcd1234")

	f, _ := strconv.ParseFloat(full.Seconds, 64)
	h, _ := strconv.ParseFloat(half.Seconds, 64)
	if math.Abs(f/2-h)/h > 1e-5 {
		t.Errorf("average-case seconds = %v, want half of %v", h, f)
	}
}
