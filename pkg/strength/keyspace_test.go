package strength

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestClassifier_Classify(t *testing.T) {
	c, err := NewClassifier([]CharacterSet{
		{Name: "lower", Matches: `[a-z]`, Value: 26},
		{Name: "upper", Matches: `[A-Z]`, Value: 26},
		{Name: "digits", Matches: `[0-9]`, Value: 10},
		{Name: "cyrillic", Matches: `[\x{0430}-\x{044F}]`, Value: 32},
	})
	if err != nil {
		t.Fatalf("NewClassifier() error: %v", err)
	}

	tests := []struct {
		password string
		want     []string
		alphabet int
	}{
		{"", nil, 0},
		{"123", []string{"digits"}, 10},
		{"abc", []string{"lower"}, 26},
		{"Z1a", []string{"lower", "upper", "digits"}, 62},
		{"пароль", []string{"cyrillic"}, 32},
		{"!!!", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			sets := c.Classify(tt.password)
			if len(sets) != len(tt.want) {
				t.Fatalf("Classify(%q) matched %d sets, want %d", tt.password, len(sets), len(tt.want))
			}
			for i, s := range sets {
				if s.Name != tt.want[i] {
					t.Errorf("Classify(%q)[%d] = %q, want %q", tt.password, i, s.Name, tt.want[i])
				}
			}
			if got := AlphabetSize(sets); got != tt.alphabet {
				t.Errorf("AlphabetSize() = %d, want %d", got, tt.alphabet)
			}
		})
	}
}

func TestNewClassifier_Invalid(t *testing.T) {
	tests := []struct {
		name string
		set  CharacterSet
	}{
		{"zero value", CharacterSet{Name: "x", Matches: `x`, Value: 0}},
		{"negative value", CharacterSet{Name: "x", Matches: `x`, Value: -4}},
		{"empty name", CharacterSet{Matches: `x`, Value: 1}},
		{"empty expression", CharacterSet{Name: "x", Value: 1}},
		{"bad expression", CharacterSet{Name: "x", Matches: `[a-`, Value: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier([]CharacterSet{tt.set})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != "calculation.characterSets" || cfgErr.Index != 0 {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestKeyspace(t *testing.T) {
	tests := []struct {
		alphabet int
		length   int
		want     float64
	}{
		{10, 3, 1000},
		{26, 1, 26},
		{62, 8, 218340105584896},
		{0, 5, 1},
		{26, 0, 1},
		{0, 0, 1},
	}

	for _, tt := range tests {
		got, _ := Keyspace(tt.alphabet, tt.length).Float64()
		if got != tt.want {
			t.Errorf("Keyspace(%d, %d) = %v, want %v", tt.alphabet, tt.length, got, tt.want)
		}
	}
}

func TestKeyspace_LongPasswordsDoNotWrap(t *testing.T) {
	exact := new(big.Int).Exp(big.NewInt(95), big.NewInt(64), nil)
	want, _ := new(big.Float).SetInt(exact).Float64()
	got, _ := Keyspace(95, 64).Float64()
	if math.Abs(got-want)/want > 1e-12 {
		t.Errorf("Keyspace(95, 64) = %v, want %v", got, want)
	}

	huge := Keyspace(1000, 1<<30)
	if !huge.IsInf() {
		t.Errorf("Keyspace(1000, 2^30) = %v, want +Inf", huge)
	}
}

func TestKeyspace_MonotonicInLength(t *testing.T) {
	prev := Keyspace(62, 0)
	for length := 1; length <= 200; length++ {
		cur := Keyspace(62, length)
		if cur.Cmp(prev) < 0 {
			t.Fatalf("Keyspace(62, %d) < Keyspace(62, %d)", length, length-1)
		}
		prev = cur
	}
}

func TestSecondsToCrack(t *testing.T) {
	if got := SecondsToCrack(Keyspace(10, 3), 40e9, false); got != 1000/40e9 {
		t.Errorf("SecondsToCrack(1000) = %v, want %v", got, 1000/40e9)
	}
	if got := SecondsToCrack(Keyspace(10, 3), 40e9, true); got != 500/40e9 {
		t.Errorf("SecondsToCrack(1000, average) = %v, want %v", got, 500/40e9)
	}
	if got := SecondsToCrack(Keyspace(1000, 1<<30), 40e9, false); !math.IsInf(got, 1) {
		t.Errorf("SecondsToCrack(huge) = %v, want +Inf", got)
	}
}

func TestEntropy(t *testing.T) {
	if got := Entropy(0, 10); got != 0 {
		t.Errorf("Entropy(0, 10) = %v, want 0", got)
	}
	if got := Entropy(16, 4); got != 16 {
		t.Errorf("Entropy(16, 4) = %v, want 16", got)
	}
}
