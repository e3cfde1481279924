// Package router implements rule-based classified-task-to-queue mapping.
// Grounded on the teacher's scheduler.MatchEvent (criteria matching against
// a filter/payload) and scheduler.ScheduleEntry (priority-ordered,
// id-keyed entries), generalized from event triggers to routing rules.
package router

import (
	"regexp"
	"sort"
	"sync"

	"github.com/dohr-michael/ozzie-core/internal/classifier"
	"github.com/dohr-michael/ozzie-core/internal/core"
)

// Match describes the criteria a Rule evaluates against a ClassifiedTask.
// A rule matches if ANY set criterion matches.
type Match struct {
	Actions   []string
	Pattern   *regexp.Regexp
	Condition func(classifier.ClassifiedTask) bool
}

// Rule associates matching ClassifiedTasks with a target queue.
type Rule struct {
	ID       string
	Priority int
	Match    Match
	Target   string
}

func (r Rule) matches(task classifier.ClassifiedTask) bool {
	for _, a := range r.Match.Actions {
		if a == task.Action {
			return true
		}
	}
	if r.Match.Pattern != nil && r.Match.Pattern.MatchString(task.Action) {
		return true
	}
	if r.Match.Condition != nil && r.Match.Condition(task) {
		return true
	}
	return false
}

// Router holds routing rules and an optional default queue fallback.
type Router struct {
	mu           sync.RWMutex
	rules        map[string]*Rule
	defaultQueue string
}

// New creates an empty Router with no default queue.
func New() *Router {
	return &Router{rules: make(map[string]*Rule)}
}

// AddRule registers a new rule. At least one match criterion is required.
func (r *Router) AddRule(rule Rule) (*Rule, error) {
	if len(rule.Match.Actions) == 0 && rule.Match.Pattern == nil && rule.Match.Condition == nil {
		return nil, core.New("router.addRule", core.KindValidation, nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := rule
	r.rules[rule.ID] = &stored
	return &stored, nil
}

// RemoveRule deletes a rule by id.
func (r *Router) RemoveRule(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[id]; !ok {
		return core.New("router.removeRule", core.KindNotFound, nil)
	}
	delete(r.rules, id)
	return nil
}

// UpdateRule replaces the stored rule with the same id.
func (r *Router) UpdateRule(id string, delta func(Rule) Rule) (*Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rules[id]
	if !ok {
		return nil, core.New("router.updateRule", core.KindNotFound, nil)
	}

	updated := delta(*existing)
	updated.ID = id
	r.rules[id] = &updated
	return &updated, nil
}

// ListRules returns all rules, sorted by descending priority.
func (r *Router) ListRules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		result = append(result, *rule)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Priority > result[j].Priority })
	return result
}

// SetDefaultQueue sets the fallback queue used when no rule matches.
func (r *Router) SetDefaultQueue(queue string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultQueue = queue
}

// Route evaluates rules in descending priority and returns the first
// match's target, or the default queue (possibly empty) if none match.
func (r *Router) Route(task classifier.ClassifiedTask) string {
	for _, rule := range r.ListRules() {
		if rule.matches(task) {
			return rule.Target
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultQueue
}
