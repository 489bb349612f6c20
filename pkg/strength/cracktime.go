package strength

import (
	"math"
	"strconv"
	"strings"
)

// MagnitudeCeiling is the smallest displayed coefficient treated as "forever"
// once no larger period or named number is available to absorb it.
const MagnitudeCeiling = 1000

// Clock renders a number of seconds as a natural-language duration.
type Clock struct {
	periods   []Period
	named     []NamedNumber
	forever   string
	instantly string
}

// NewClock validates the period and named-number ladders.
func NewClock(t Time) (*Clock, error) {
	if len(t.Periods) == 0 {
		return nil, configErr("time.periods", -1, "at least one period is required")
	}
	for i, p := range t.Periods {
		if p.Singular == "" || p.Plural == "" {
			return nil, configErr("time.periods", i, "singular and plural names are required")
		}
		if !(p.Seconds > 0) || math.IsInf(p.Seconds, 0) {
			return nil, configErr("time.periods", i, "seconds must be positive and finite, got %v", p.Seconds)
		}
		if i > 0 && p.Seconds <= t.Periods[i-1].Seconds {
			return nil, configErr("time.periods", i, "seconds must be strictly increasing (%v after %v)", p.Seconds, t.Periods[i-1].Seconds)
		}
	}
	for i, n := range t.NamedNumbers {
		if n.Name == "" {
			return nil, configErr("time.namedNumbers", i, "name is empty")
		}
		if !(n.Value > 0) || math.IsInf(n.Value, 0) {
			return nil, configErr("time.namedNumbers", i, "value must be positive and finite, got %v", n.Value)
		}
		if i > 0 && n.Value <= t.NamedNumbers[i-1].Value {
			return nil, configErr("time.namedNumbers", i, "value must be strictly increasing (%v after %v)", n.Value, t.NamedNumbers[i-1].Value)
		}
	}

	return &Clock{
		periods:   append([]Period(nil), t.Periods...),
		named:     append([]NamedNumber(nil), t.NamedNumbers...),
		forever:   t.Forever,
		instantly: t.Instantly,
	}, nil
}

// Format renders seconds using the largest period that fits, prefixed by the
// largest fitting named number. The displayed coefficient is truncated, so a
// rendered value is never below 1.
func (c *Clock) Format(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 1) {
		return c.forever
	}
	if seconds < c.periods[0].Seconds {
		return c.instantly
	}

	pi := len(c.periods) - 1
	for pi > 0 && c.periods[pi].Seconds > seconds {
		pi--
	}
	period := c.periods[pi]
	coef := seconds / period.Seconds

	ni := len(c.named) - 1
	for ni >= 0 && c.named[ni].Value > coef {
		ni--
	}
	if ni >= 0 {
		coef /= c.named[ni].Value
	}

	whole := math.Floor(coef)
	topPeriod := pi == len(c.periods)-1
	topNamed := ni == len(c.named)-1
	if topPeriod && topNamed && whole >= MagnitudeCeiling {
		return c.forever
	}

	var b strings.Builder
	b.WriteString(strconv.FormatFloat(whole, 'f', 0, 64))
	b.WriteByte(' ')
	if ni >= 0 {
		b.WriteString(c.named[ni].Name)
		b.WriteByte(' ')
	}
	// "1 thousand years": only a bare count of one is singular.
	if ni < 0 && whole == 1 {
		b.WriteString(period.Singular)
	} else {
		b.WriteString(period.Plural)
	}
	return b.String()
}
