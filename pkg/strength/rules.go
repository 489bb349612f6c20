package strength

import (
	"regexp"
)

// Rule is a pattern joined with its message, compiled once.
type Rule struct {
	ID      string
	Level   Level
	Name    string
	Message string
	re      *regexp.Regexp
}

// Check returns the check reported when the rule matches.
func (r Rule) Check() Check {
	return Check{Name: r.Name, Message: r.Message, Level: r.Level}
}

// RuleSet evaluates the dictionary and the ordered rules.
type RuleSet struct {
	rules      []Rule
	dictionary map[string]struct{}
	dictCheck  Check
	mode       DictionaryMode
}

// NewRuleSet joins patterns with messages by id and compiles the expressions.
func NewRuleSet(c Checks) (*RuleSet, error) {
	messages := make(map[string]Message, len(c.Messages))
	for i, m := range c.Messages {
		if m.ID == "" {
			return nil, configErr("checks.messages", i, "id is empty")
		}
		if _, dup := messages[m.ID]; dup {
			return nil, configErr("checks.messages", i, "duplicate id %q", m.ID)
		}
		messages[m.ID] = m
	}

	mode := c.DictionaryMode
	switch mode {
	case "":
		mode = DictionaryAugment
	case DictionaryAugment, DictionarySuppress:
	default:
		return nil, configErr("checks.dictionaryMode", -1, "unknown mode %q (expected augment or suppress)", mode)
	}

	rs := &RuleSet{
		rules:      make([]Rule, 0, len(c.Patterns)),
		dictionary: make(map[string]struct{}, len(c.Dictionary)),
		mode:       mode,
	}

	seen := make(map[string]bool, len(c.Patterns))
	for i, p := range c.Patterns {
		if p.ID == "" {
			return nil, configErr("checks.patterns", i, "id is empty")
		}
		if seen[p.ID] {
			return nil, configErr("checks.patterns", i, "duplicate id %q", p.ID)
		}
		seen[p.ID] = true
		if !p.Level.Valid() {
			return nil, configErr("checks.patterns", i, "unknown level %q", p.Level)
		}
		msg, ok := messages[p.ID]
		if !ok {
			return nil, configErr("checks.patterns", i, "no message with id %q", p.ID)
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, configErr("checks.patterns", i, "invalid regex: %v", err)
		}
		rs.rules = append(rs.rules, Rule{
			ID:      p.ID,
			Level:   p.Level,
			Name:    msg.Name,
			Message: msg.Message,
			re:      re,
		})
	}

	for _, word := range c.Dictionary {
		rs.dictionary[word] = struct{}{}
	}
	if len(rs.dictionary) > 0 {
		msg, ok := messages[DictionaryMessageID]
		if !ok {
			return nil, configErr("checks.messages", -1, "dictionary is configured but no message has id %q", DictionaryMessageID)
		}
		rs.dictCheck = Check{Name: msg.Name, Message: msg.Message, Level: LevelWarning}
	}

	return rs, nil
}

// Rules returns the compiled rules in evaluation order.
func (rs *RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// InDictionary reports an exact, case-sensitive dictionary hit.
func (rs *RuleSet) InDictionary(password string) bool {
	_, ok := rs.dictionary[password]
	return ok
}

// Match returns the checks for password in configured order. A dictionary hit
// is reported first; in suppress mode it is the only check.
func (rs *RuleSet) Match(password string) (checks []Check, inDictionary bool) {
	checks = make([]Check, 0, 4)
	if rs.InDictionary(password) {
		inDictionary = true
		checks = append(checks, rs.dictCheck)
		if rs.mode == DictionarySuppress {
			return checks, true
		}
	}
	for _, r := range rs.rules {
		if r.re.MatchString(password) {
			checks = append(checks, r.Check())
		}
	}
	return checks, inDictionary
}
