package eligibility

import "fmt"

// Checker runs a fixed rule battery for one eligibility gate and keeps the
// per-rule result map for audit surfacing. A checker is built per evaluation
// and not shared across requests.
type Checker struct {
	rules   []Rule
	results map[string]bool
}

// NewChecker creates a checker over the given rule battery
func NewChecker(rules []Rule) *Checker {
	return &Checker{rules: rules}
}

// NewAutomatedChecker creates the checker for the automated sole-to-joint gate
func NewAutomatedChecker() *Checker {
	return NewChecker(AutomatedRules())
}

// Evaluate runs every rule against the context and returns the logical AND of
// the outcomes. Rules are independent; all of them run even after a failure so
// the result map is complete. A rule error (malformed precondition) aborts the
// evaluation.
func (c *Checker) Evaluate(ctx *Context) (bool, error) {
	c.results = make(map[string]bool, len(c.rules))

	overall := true
	for _, rule := range c.rules {
		ok, err := rule.Evaluate(ctx)
		if err != nil {
			return false, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		c.results[rule.ID] = ok
		if !ok {
			overall = false
		}
	}

	return overall, nil
}

// Results returns a copy of the per-rule outcomes of the last Evaluate call
func (c *Checker) Results() map[string]bool {
	out := make(map[string]bool, len(c.results))
	for id, ok := range c.results {
		out[id] = ok
	}
	return out
}
