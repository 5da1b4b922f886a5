package selector

import (
	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
	"github.com/cubera-io/cubera/internal/routing"
)

// LowestCost picks the cheapest eligible realization: lowest
// (priority, weight), ties broken by name. Deterministic for identical
// candidate sets regardless of input order.
type LowestCost struct{}

// Select implements routing.Selector.
func (LowestCost) Select(_ *query.Context, candidates []*meta.Realization) *meta.Realization {
	var best *meta.Realization
	var bestCost routing.Cost
	for _, r := range candidates {
		cost := routing.CostOf(r)
		switch {
		case best == nil:
			best, bestCost = r, cost
		case cost.Less(bestCost):
			best, bestCost = r, cost
		case cost.Compare(bestCost) == 0 && r.Name < best.Name:
			best = r
		}
	}
	return best
}
