package routing

// AttemptOutcome classifies one model attempt in a route trace.
type AttemptOutcome string

const (
	// OutcomeNoMatch means the graph matcher found no alias mapping.
	OutcomeNoMatch AttemptOutcome = "no_structural_match"

	// OutcomeRejected means the model matched and was bound, but the
	// selector declined every eligible realization (possibly because
	// there were none). The binding was rolled back.
	OutcomeRejected AttemptOutcome = "rejected_by_selector"

	// OutcomeSelected means the model matched and the selector picked a
	// realization. The binding was committed.
	OutcomeSelected AttemptOutcome = "selected"
)

// ModelAttempt records one model tried during routing.
type ModelAttempt struct {
	Model       string         `json:"model"`
	Cost        Cost           `json:"cost"`
	Eligible    int            `json:"eligible"` // eligible realizations offered to the selector; 0 when unmatched
	Outcome     AttemptOutcome `json:"outcome"`
	Realization string         `json:"realization,omitempty"` // set when outcome is selected
}

// Trace is the ordered record of one routing run: which models were
// attempted, in what order, and how each attempt ended. Identical queries
// against identical catalog snapshots produce identical traces.
type Trace struct {
	QueryID  string         `json:"query_id"`
	Snapshot string         `json:"snapshot"` // catalog snapshot fingerprint
	Attempts []ModelAttempt `json:"attempts"`
}

func (t *Trace) record(a ModelAttempt) {
	t.Attempts = append(t.Attempts, a)
}

// AttemptedModels returns the model names in attempt order.
func (t *Trace) AttemptedModels() []string {
	names := make([]string, len(t.Attempts))
	for i, a := range t.Attempts {
		names[i] = a.Model
	}
	return names
}
