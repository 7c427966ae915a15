package core

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"sort"
	"strings"
	"sync"
	"time"

	"redirectly/logger"
	"redirectly/models"

	"github.com/armon/go-radix"
)

// ErrBatchRejected is returned (wrapped) when UpdateDynamicRules refuses a
// batch. The installed set is unchanged in that case.
var ErrBatchRejected = errors.New("directive batch rejected")

// Request is a live request as the engine evaluates it.
type Request struct {
	URL       string
	Type      models.ResourceType
	TabID     string
	RequestID string
}

// Match is the directive that applies to a request.
type Match struct {
	Directive models.Directive
	// RedirectURL is the expanded substitution for redirect actions.
	RedirectURL string
}

type compiledDirective struct {
	directive models.Directive
	re        *regexp.Regexp
	types     map[models.ResourceType]bool
}

// ruleSet is immutable once built.
type ruleSet struct {
	directives []compiledDirective // ascending by (priority desc, id asc)
	// prefixes indexes directives by the lower-cased literal text their
	// regex must start with. Directives without one sit under "".
	prefixes *radix.Tree
}

// Engine holds the installed filtering directives and evaluates requests
// against them.
type Engine struct {
	mu      sync.RWMutex
	set     *ruleSet
	metrics *Metrics

	listenerMu sync.Mutex
	listeners  []func(models.MatchInfo)
}

// NewEngine returns an engine with no directives. metrics may be nil.
func NewEngine(metrics *Metrics) *Engine {
	set, _ := compileSet(nil)
	return &Engine{set: set, metrics: metrics}
}

// OnRuleMatched registers fn to be called for every request a directive
// matched.
func (e *Engine) OnRuleMatched(fn func(models.MatchInfo)) {
	e.listenerMu.Lock()
	e.listeners = append(e.listeners, fn)
	e.listenerMu.Unlock()
}

// GetDynamicRules returns a copy of the installed directives ordered by id.
func (e *Engine) GetDynamicRules() []models.Directive {
	e.mu.RLock()
	set := e.set
	e.mu.RUnlock()

	out := make([]models.Directive, 0, len(set.directives))
	for _, cd := range set.directives {
		out = append(out, cd.directive)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateDynamicRules removes the directives with the given ids and adds the
// new ones in a single step. The resulting set is validated as a whole; on any
// problem nothing changes and an error wrapping ErrBatchRejected is returned.
func (e *Engine) UpdateDynamicRules(removeIDs []int, add []models.Directive) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	remove := make(map[int]bool, len(removeIDs))
	for _, id := range removeIDs {
		remove[id] = true
	}

	next := make([]models.Directive, 0, len(e.set.directives)+len(add))
	for _, cd := range e.set.directives {
		if !remove[cd.directive.ID] {
			next = append(next, cd.directive)
		}
	}
	next = append(next, add...)

	set, err := compileSet(next)
	if err != nil {
		e.recordUpdate("rejected")
		return fmt.Errorf("%w: %v", ErrBatchRejected, err)
	}
	e.set = set
	e.recordUpdate("applied")
	if e.metrics != nil {
		e.metrics.InstalledDirectives.Set(float64(len(set.directives)))
	}
	logger.Debug("UpdateDynamicRules: removed %d, added %d, installed %d", len(removeIDs), len(add), len(set.directives))
	return nil
}

func (e *Engine) recordUpdate(result string) {
	if e.metrics != nil {
		e.metrics.DirectiveUpdates.WithLabelValues(result).Inc()
	}
}

// Evaluate returns the directive that applies to req, if any. The highest
// priority wins; ties go to the lowest id. Matches are reported to the
// OnRuleMatched listeners.
func (e *Engine) Evaluate(req Request) (*Match, bool) {
	e.mu.RLock()
	set := e.set
	e.mu.RUnlock()

	if req.Type == "" {
		req.Type = models.ResourceOther
	}
	best := -1
	set.prefixes.WalkPath(strings.ToLower(req.URL), func(_ string, v interface{}) bool {
		for _, pos := range v.([]int) {
			if best != -1 && pos >= best {
				break
			}
			cd := set.directives[pos]
			if !cd.types[req.Type] || !cd.re.MatchString(req.URL) {
				continue
			}
			best = pos
			break
		}
		return false
	})
	if best == -1 {
		return nil, false
	}

	cd := set.directives[best]
	m := &Match{Directive: cd.directive}
	if cd.directive.Action.Type == models.ActionRedirect {
		m.RedirectURL = ExpandSubstitution(cd.directive.Action.Redirect.RegexSubstitution, cd.re.FindStringSubmatch(req.URL))
	}

	if e.metrics != nil {
		e.metrics.RuleMatches.WithLabelValues(string(cd.directive.Action.Type)).Inc()
	}
	e.notify(models.MatchInfo{
		RuleID:      cd.directive.ID,
		TabID:       req.TabID,
		URL:         req.URL,
		Type:        req.Type,
		RequestID:   req.RequestID,
		Timestamp:   time.Now(),
		Action:      cd.directive.Action.Type,
		RedirectURL: m.RedirectURL,
	})
	return m, true
}

func (e *Engine) notify(info models.MatchInfo) {
	e.listenerMu.Lock()
	fns := append([]func(models.MatchInfo){}, e.listeners...)
	e.listenerMu.Unlock()
	for _, fn := range fns {
		fn(info)
	}
}

func compileSet(directives []models.Directive) (*ruleSet, error) {
	set := &ruleSet{
		directives: make([]compiledDirective, 0, len(directives)),
		prefixes:   radix.New(),
	}

	seen := make(map[int]bool, len(directives))
	for _, d := range directives {
		if d.ID < 1 {
			return nil, fmt.Errorf("directive id %d must be positive", d.ID)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate directive id %d", d.ID)
		}
		seen[d.ID] = true

		cd, err := compileDirective(d)
		if err != nil {
			return nil, fmt.Errorf("directive %d: %w", d.ID, err)
		}
		set.directives = append(set.directives, cd)
	}

	sort.SliceStable(set.directives, func(i, j int) bool {
		a, b := set.directives[i].directive, set.directives[j].directive
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})

	for pos, cd := range set.directives {
		prefix := literalPrefix(cd.directive.Condition.RegexFilter)
		var positions []int
		if v, ok := set.prefixes.Get(prefix); ok {
			positions = v.([]int)
		}
		set.prefixes.Insert(prefix, append(positions, pos))
	}
	return set, nil
}

func compileDirective(d models.Directive) (compiledDirective, error) {
	cd := compiledDirective{directive: d, types: map[models.ResourceType]bool{}}

	switch d.Action.Type {
	case models.ActionRedirect:
		if d.Action.Redirect == nil {
			return cd, errors.New("redirect action without redirect details")
		}
	case models.ActionModifyHeaders:
		if len(d.Action.RequestHeaders) == 0 {
			return cd, errors.New("modifyHeaders action without request headers")
		}
		for _, h := range d.Action.RequestHeaders {
			if h.Header == "" {
				return cd, errors.New("modifyHeaders action with empty header name")
			}
		}
	default:
		return cd, fmt.Errorf("unsupported action type %q", d.Action.Type)
	}

	expr := d.Condition.RegexFilter
	if !d.Condition.IsURLFilterCaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return cd, fmt.Errorf("invalid regexFilter: %w", err)
	}
	cd.re = re

	types := d.Condition.ResourceTypes
	if len(types) == 0 {
		types = models.AllResourceTypes
	}
	for _, t := range types {
		cd.types[t] = true
	}
	return cd, nil
}

// literalPrefix returns the lower-cased literal text every match of an
// anchored regex starts with, or "" when there is none.
func literalPrefix(expr string) string {
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return ""
	}
	re = re.Simplify()
	if re.Op != syntax.OpConcat || len(re.Sub) < 2 || re.Sub[0].Op != syntax.OpBeginText {
		return ""
	}
	var b strings.Builder
	for _, sub := range re.Sub[1:] {
		if sub.Op != syntax.OpLiteral {
			break
		}
		b.WriteString(string(sub.Rune))
	}
	return strings.ToLower(b.String())
}
