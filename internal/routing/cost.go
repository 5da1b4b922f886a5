package routing

import (
	"fmt"

	"github.com/cubera-io/cubera/internal/meta"
)

// Cost weights. A realization with fewer dimensions, measures, and inner
// joins is a closer pre-aggregation and therefore cheaper to scan.
const (
	WeightMeasure   = 1
	WeightDimension = 10
	WeightInnerJoin = 100
)

// Cost ranks a realization: kind priority first, then a weight derived
// from the realization's shape. Ordered lexicographically, lower is
// better. The pair forms a strict weak ordering; callers break remaining
// ties by name.
type Cost struct {
	Priority int `json:"priority"`
	Weight   int `json:"weight"`
}

// String returns "(priority,weight)" for diagnostics.
func (c Cost) String() string {
	return fmt.Sprintf("(%d,%d)", c.Priority, c.Weight)
}

// Compare returns -1, 0, or 1 ordering c against o. Priority always
// dominates weight.
func (c Cost) Compare(o Cost) int {
	switch {
	case c.Priority != o.Priority:
		if c.Priority < o.Priority {
			return -1
		}
		return 1
	case c.Weight != o.Weight:
		if c.Weight < o.Weight {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Less reports whether c orders strictly before o.
func (c Cost) Less(o Cost) bool {
	return c.Compare(o) < 0
}

// CostOf computes a realization's cost. Priority comes from the static
// kind table; weight is a fixed linear combination of the realization's
// dimension count, measure count, and its owning model's inner-join count.
func CostOf(r *meta.Realization) Cost {
	return Cost{
		Priority: meta.KindPriority(r.Kind),
		Weight: r.Dimensions*WeightDimension +
			r.Measures*WeightMeasure +
			r.InnerJoins*WeightInnerJoin,
	}
}
