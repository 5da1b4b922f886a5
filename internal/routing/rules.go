package routing

import (
	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
)

// Rule is one eligibility predicate: whether a realization is usable for
// a specific query. Rules must be pure and side-effect free; the chain
// may short-circuit, so a rule can never rely on having been called.
type Rule func(r *meta.Realization, qc *query.Context) bool

// ReadyRule admits only realizations marked ready for query use.
func ReadyRule(r *meta.Realization, _ *query.Context) bool {
	return r.Ready
}

// ColumnCoverageRule admits realizations that physically cover every
// column the query references.
func ColumnCoverageRule(r *meta.Realization, qc *query.Context) bool {
	return r.CoversAll(qc.Columns)
}

// NewBlackoutRule rejects realizations on a deny-list, e.g. excluded by
// configuration or demoted after repeated failures.
func NewBlackoutRule(denied []string) Rule {
	set := make(map[string]struct{}, len(denied))
	for _, name := range denied {
		set[name] = struct{}{}
	}
	return func(r *meta.Realization, _ *query.Context) bool {
		_, blocked := set[r.Name]
		return !blocked
	}
}

// Chain is an ordered conjunction of rules. Appending new rules is fine;
// reordering existing ones is not - evaluation order is part of the
// chain's observable behavior only for efficiency, never for correctness.
type Chain []Rule

// DefaultChain returns the standard eligibility chain: readiness, then
// column coverage. Deny rules are appended by configuration.
func DefaultChain() Chain {
	return Chain{ReadyRule, ColumnCoverageRule}
}

// Append returns a new chain with extra rules after the existing ones.
// The receiver is not modified.
func (c Chain) Append(rules ...Rule) Chain {
	out := make(Chain, 0, len(c)+len(rules))
	out = append(out, c...)
	out = append(out, rules...)
	return out
}

// Eligible reports whether the realization passes every rule.
// Evaluation short-circuits on the first failure.
func (c Chain) Eligible(r *meta.Realization, qc *query.Context) bool {
	for _, rule := range c {
		if !rule(r, qc) {
			return false
		}
	}
	return true
}

// Filter returns the realizations that pass the chain, preserving input
// order.
func (c Chain) Filter(rs []*meta.Realization, qc *query.Context) []*meta.Realization {
	var out []*meta.Realization
	for _, r := range rs {
		if c.Eligible(r, qc) {
			out = append(out, r)
		}
	}
	return out
}
