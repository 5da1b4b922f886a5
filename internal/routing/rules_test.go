package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
	"github.com/cubera-io/cubera/internal/testutil"
)

func TestReadyRule(t *testing.T) {
	qc := testutil.SalesQuery("q1")
	assert.True(t, ReadyRule(&meta.Realization{Ready: true}, qc))
	assert.False(t, ReadyRule(&meta.Realization{}, qc))
}

func TestColumnCoverageRule(t *testing.T) {
	r := testutil.SalesRealization("cube1", "sales_model")

	covered := testutil.SalesQuery("q1")
	assert.True(t, ColumnCoverageRule(r, covered))

	uncovered := testutil.SalesQuery("q2")
	uncovered.Columns = append(uncovered.Columns, testutil.Col("DEFAULT.SALES", "QTY"))
	assert.False(t, ColumnCoverageRule(r, uncovered))
}

func TestBlackoutRule(t *testing.T) {
	rule := NewBlackoutRule([]string{"cube_bad"})
	qc := testutil.SalesQuery("q1")

	assert.False(t, rule(&meta.Realization{Name: "cube_bad"}, qc))
	assert.True(t, rule(&meta.Realization{Name: "cube_good"}, qc))
}

func TestChainShortCircuits(t *testing.T) {
	var calls []string
	fail := func(name string) Rule {
		return func(*meta.Realization, *query.Context) bool {
			calls = append(calls, name)
			return false
		}
	}
	pass := func(name string) Rule {
		return func(*meta.Realization, *query.Context) bool {
			calls = append(calls, name)
			return true
		}
	}

	chain := Chain{pass("a"), fail("b"), pass("c")}
	assert.False(t, chain.Eligible(&meta.Realization{}, nil))
	assert.Equal(t, []string{"a", "b"}, calls, "rules after the first failure must not run")
}

func TestChainAppendDoesNotMutate(t *testing.T) {
	base := DefaultChain()
	extended := base.Append(NewBlackoutRule([]string{"x"}))

	assert.Len(t, base, 2)
	assert.Len(t, extended, 3)
}

func TestChainFilter(t *testing.T) {
	ready := testutil.SalesRealization("cube_ready", "m")
	stale := testutil.SalesRealization("cube_stale", "m")
	stale.Ready = false

	qc := testutil.SalesQuery("q1")
	got := DefaultChain().Filter([]*meta.Realization{stale, ready}, qc)
	assert.Equal(t, []*meta.Realization{ready}, got)
}
