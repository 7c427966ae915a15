package models

// RuleType enumerates what a rule does when its source pattern matches.
type RuleType string

const (
	RuleTypeRedirect  RuleType = "redirect"
	RuleTypeSetCookie RuleType = "setCookie"
)

// Valid reports whether t is one of the known rule types.
func (t RuleType) Valid() bool {
	return t == RuleTypeRedirect || t == RuleTypeSetCookie
}

// Rule is a user-authored redirect or cookie-injection rule. The JSON shape is
// the export/import file format.
type Rule struct {
	Title       string   `json:"title" yaml:"title" example:"Local API"`
	Source      string   `json:"source" yaml:"source" example:"https://api.example.com/*" binding:"required"` // Wildcard pattern, '*' matches one or more characters.
	Target      string   `json:"target" yaml:"target" example:"http://localhost:3000/*"`                      // Redirect destination; each '*' refers to the matching '*' in source.
	CookieValue string   `json:"cookieValue" yaml:"cookieValue" example:"session=dev"`                        // Literal Cookie header value for setCookie rules.
	Enabled     bool     `json:"enabled" yaml:"enabled" example:"true"`
	Type        RuleType `json:"type" yaml:"type" example:"redirect" enum:"redirect,setCookie"`
}

// DisplayTitle is the title shown in listings and used for name sorting.
func (r Rule) DisplayTitle() string {
	if r.Title == "" {
		return UntitledRule
	}
	return r.Title
}

// UntitledRule is displayed for rules without a title.
const UntitledRule = "Untitled Rule"

// NewBlankRule returns the rule created by an empty "add" action.
func NewBlankRule() Rule {
	return Rule{Type: RuleTypeRedirect, Enabled: true}
}

// RulePatch carries a field-level edit. Nil fields are left untouched.
type RulePatch struct {
	Title       *string   `json:"title,omitempty"`
	Source      *string   `json:"source,omitempty"`
	Target      *string   `json:"target,omitempty"`
	CookieValue *string   `json:"cookieValue,omitempty"`
	Enabled     *bool     `json:"enabled,omitempty"`
	Type        *RuleType `json:"type,omitempty"`
}

// Apply returns r with the patch's non-nil fields applied.
func (p RulePatch) Apply(r Rule) Rule {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Source != nil {
		r.Source = *p.Source
	}
	if p.Target != nil {
		r.Target = *p.Target
	}
	if p.CookieValue != nil {
		r.CookieValue = *p.CookieValue
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	return r
}

// CountEnabled returns how many rules have Enabled set.
func CountEnabled(rules []Rule) int {
	n := 0
	for _, r := range rules {
		if r.Enabled {
			n++
		}
	}
	return n
}
