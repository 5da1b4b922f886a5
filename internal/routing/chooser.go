package routing

import (
	"io"
	"log/slog"
	"sort"

	"github.com/cubera-io/cubera/internal/catalog"
	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
)

// Selector picks one realization for a bound query context, or nil to
// decline the whole model. From the chooser's point of view it is a pure
// function; any internal heuristics are opaque. Candidates arrive
// non-empty and sorted by (cost, name) so deterministic selectors stay
// deterministic.
type Selector interface {
	Select(qc *query.Context, candidates []*meta.Realization) *meta.Realization
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(qc *query.Context, candidates []*meta.Realization) *meta.Realization

// Select implements Selector.
func (f SelectorFunc) Select(qc *query.Context, candidates []*meta.Realization) *meta.Realization {
	return f(qc, candidates)
}

// Resolution is a successful routing outcome: the chosen model and
// realization plus the committed alias mapping.
type Resolution struct {
	Model       *meta.DataModel
	Realization *meta.Realization
	Mapping     AliasMapping
}

// Chooser orchestrates realization selection. A Chooser is stateless
// across queries and safe for concurrent use; all per-query state lives
// on the stack of one Route call.
type Chooser struct {
	selector Selector
	rules    Chain
	logger   *slog.Logger
}

// Option configures a Chooser.
type Option func(*Chooser)

// WithRules appends eligibility rules after the default chain
// (readiness, column coverage). Existing rules are never reordered.
func WithRules(rules ...Rule) Option {
	return func(c *Chooser) {
		c.rules = c.rules.Append(rules...)
	}
}

// WithBlackout appends a deny rule for the named realizations.
func WithBlackout(names ...string) Option {
	return func(c *Chooser) {
		if len(names) > 0 {
			c.rules = c.rules.Append(NewBlackoutRule(names))
		}
	}
}

// WithLogger sets the logger for routing decisions. The default discards
// everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chooser) {
		c.logger = l
	}
}

// NewChooser creates a Chooser delegating final picks to the selector.
func NewChooser(selector Selector, opts ...Option) *Chooser {
	c := &Chooser{
		selector: selector,
		rules:    DefaultChain(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// candidate is one model group: the model, all its realizations anchored
// on the query's table, and the group's ranking cost.
type candidate struct {
	model        *meta.DataModel
	realizations []*meta.Realization // sorted by (cost, name)
	cost         Cost
}

// Route selects a realization for the query against the snapshot.
// On success the resolution is also written onto the query context.
func (c *Chooser) Route(qc *query.Context, snap *catalog.Snapshot) (*Resolution, error) {
	res, _, err := c.RouteWithTrace(qc, snap)
	return res, err
}

// RouteWithTrace is Route plus the ordered attempt trace, for diagnostics
// and reproducibility assertions. The trace is returned on failure too.
func (c *Chooser) RouteWithTrace(qc *query.Context, snap *catalog.Snapshot) (*Resolution, *Trace, error) {
	trace := &Trace{QueryID: qc.ID, Snapshot: snap.Fingerprint()}

	queryGraph, err := buildQueryGraph(qc)
	if err != nil {
		return nil, trace, err
	}

	candidates := c.orderedCandidates(qc, snap)
	if len(candidates) == 0 {
		return nil, trace, newNoModelFoundError(qc)
	}

	for _, cand := range candidates {
		mapping, ok := Match(queryGraph, cand.model)
		if !ok {
			trace.record(ModelAttempt{Model: cand.model.Name(), Cost: cand.cost, Outcome: OutcomeNoMatch})
			continue
		}

		chosen, eligible, err := c.tryModel(qc, cand, mapping)
		if err != nil {
			return nil, trace, err
		}
		if chosen == nil {
			c.logger.Info("give up on model, no suitable realization",
				"query", qc.ID, "model", cand.model.Name())
			trace.record(ModelAttempt{
				Model:    cand.model.Name(),
				Cost:     cand.cost,
				Eligible: eligible,
				Outcome:  OutcomeRejected,
			})
			continue
		}

		c.logger.Info("selected realization",
			"query", qc.ID, "model", cand.model.Name(), "realization", chosen.Name)
		trace.record(ModelAttempt{
			Model:       cand.model.Name(),
			Cost:        cand.cost,
			Eligible:    eligible,
			Outcome:     OutcomeSelected,
			Realization: chosen.Name,
		})

		mapping = mapping.clone()
		qc.Resolution = &query.Resolution{
			Model:       cand.model.Name(),
			Realization: chosen.Name,
			AliasMap:    mapping,
		}
		return &Resolution{Model: cand.model, Realization: chosen, Mapping: mapping}, trace, nil
	}

	return nil, trace, newNoRealizationFoundError(qc)
}

// tryModel binds the model onto the query context and asks the selector
// for a realization. It reports the pick and the eligible-candidate
// count. The binding commits only on a pick; every other exit path, the
// selector panicking included, releases it so the next attempt sees the
// context exactly as this one found it.
func (c *Chooser) tryModel(qc *query.Context, cand candidate, mapping AliasMapping) (*meta.Realization, int, error) {
	bound, err := bindModel(qc, cand.model, mapping)
	if err != nil {
		return nil, 0, err
	}
	defer bound.release()

	eligible := c.rules.Filter(cand.realizations, qc)
	if len(eligible) == 0 {
		return nil, 0, nil
	}

	chosen := c.selector.Select(qc, eligible)
	if chosen == nil {
		return nil, len(eligible), nil
	}

	bound.commit()
	return chosen, len(eligible), nil
}

// orderedCandidates groups the anchor table's realizations by owning
// model and orders the groups by cheapest eligible realization cost,
// then model name. A cheap realization that fails eligibility must not
// pull its model ahead of one whose eligible realization is genuinely
// cheaper. Groups with nothing eligible rank by their cheapest
// realization overall and stay in the list: the bound attempt (and its
// rollback) is still observable. Built fresh per query - readiness and
// column needs vary per query, so nothing here may be cached.
func (c *Chooser) orderedCandidates(qc *query.Context, snap *catalog.Snapshot) []candidate {
	groups := make(map[string]*candidate)
	for _, r := range snap.RealizationsForTable(qc.FirstScan.Table) {
		model, ok := snap.Model(r.ModelName)
		if !ok {
			continue
		}
		g, seen := groups[r.ModelName]
		if !seen {
			g = &candidate{model: model}
			groups[r.ModelName] = g
		}
		g.realizations = append(g.realizations, r)
	}

	ordered := make([]candidate, 0, len(groups))
	for _, g := range groups {
		sort.Slice(g.realizations, func(a, b int) bool {
			ca, cb := CostOf(g.realizations[a]), CostOf(g.realizations[b])
			if cmp := ca.Compare(cb); cmp != 0 {
				return cmp < 0
			}
			return g.realizations[a].Name < g.realizations[b].Name
		})
		g.cost = c.groupCost(qc, g.realizations)
		ordered = append(ordered, *g)
	}
	sort.Slice(ordered, func(a, b int) bool {
		if cmp := ordered[a].cost.Compare(ordered[b].cost); cmp != 0 {
			return cmp < 0
		}
		return ordered[a].model.Name() < ordered[b].model.Name()
	})
	return ordered
}

// groupCost is the rank cost of one model group: the cheapest realization
// passing the eligibility chain, falling back to the cheapest overall
// when nothing passes. The realizations must already be cost-sorted.
func (c *Chooser) groupCost(qc *query.Context, realizations []*meta.Realization) Cost {
	if eligible := c.rules.Filter(realizations, qc); len(eligible) > 0 {
		return CostOf(eligible[0])
	}
	return CostOf(realizations[0])
}

// SelectRealizations routes every context in order against the same
// snapshot, stopping at the first failure. Contexts routed before the
// failure keep their resolutions.
func (c *Chooser) SelectRealizations(qcs []*query.Context, snap *catalog.Snapshot) error {
	for _, qc := range qcs {
		if _, err := c.Route(qc, snap); err != nil {
			return err
		}
	}
	return nil
}
