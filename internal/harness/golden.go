package harness

import (
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/routing"
)

// TraceSnapshot captures the routing behavior pinned by a golden file:
// the attempt sequence, the resolution, and the failure code if any.
//
// The catalog snapshot fingerprint is deliberately excluded. It hashes
// the defs content, so editing a comment in a defs file would churn
// every golden without any routing behavior changing.
type TraceSnapshot struct {
	Scenario   string
	QueryID    string
	Attempts   []routing.ModelAttempt
	Resolution *routing.Resolution
	ErrorCode  string
}

// newTraceSnapshot builds the snapshot for a scenario result.
func newTraceSnapshot(result *Result) TraceSnapshot {
	s := TraceSnapshot{
		Scenario:   result.Scenario,
		QueryID:    result.Trace.QueryID,
		Attempts:   result.Trace.Attempts,
		Resolution: result.Resolution,
	}
	var re *routing.RouteError
	if errors.As(result.RouteErr, &re) {
		s.ErrorCode = string(re.Code)
	}
	return s
}

// toCanonicalMap converts the snapshot to the map shape canonical JSON
// accepts.
func (s TraceSnapshot) toCanonicalMap() map[string]any {
	attempts := make([]any, len(s.Attempts))
	for i, a := range s.Attempts {
		attempt := map[string]any{
			"model":    a.Model,
			"cost":     map[string]any{"priority": a.Cost.Priority, "weight": a.Cost.Weight},
			"eligible": a.Eligible,
			"outcome":  string(a.Outcome),
		}
		if a.Realization != "" {
			attempt["realization"] = a.Realization
		}
		attempts[i] = attempt
	}

	result := map[string]any{
		"scenario": s.Scenario,
		"query_id": s.QueryID,
		"attempts": attempts,
	}
	if s.Resolution != nil {
		aliasMap := make(map[string]any, len(s.Resolution.Mapping))
		for q, m := range s.Resolution.Mapping {
			aliasMap[q] = m
		}
		result["resolution"] = map[string]any{
			"model":       s.Resolution.Model.Name(),
			"realization": s.Resolution.Realization.Name,
			"alias_map":   aliasMap,
		}
	}
	if s.ErrorCode != "" {
		result["error"] = s.ErrorCode
	}
	return result
}

// RunWithGolden executes a scenario, verifies its expectation, and
// compares the trace against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if err := Verify(scenario, result); err != nil {
		return err
	}

	traceJSON, err := meta.MarshalCanonical(newTraceSnapshot(result).toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)
	return nil
}
