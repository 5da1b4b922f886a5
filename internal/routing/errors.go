package routing

import (
	"errors"
	"fmt"

	"github.com/cubera-io/cubera/internal/query"
)

// RouteError represents a failed routing outcome.
//
// Routing errors are terminal for the query:
//   - Malformed query graph: join count inconsistent with table count
//   - No model found: nothing in the catalog anchors on the query's table
//   - No realization found: candidates existed but none was usable
//   - Binding conflict: a matched model's schema could not be applied
//
// Matcher misses and selector rejections are NOT errors; they drive retry
// over the next candidate model and only exhaustion surfaces here.
type RouteError struct {
	// Code identifies the error category.
	Code RouteErrorCode

	// Message is a human-readable description.
	Message string

	// Query describes the query's table/join shape for diagnostics.
	Query string

	// Model identifies the model involved, for binding conflicts.
	Model string
}

// RouteErrorCode categorizes routing errors.
type RouteErrorCode string

const (
	// ErrCodeMalformedQueryGraph indicates the query's join count is
	// inconsistent with its table count (hanging tables). Never retried.
	ErrCodeMalformedQueryGraph RouteErrorCode = "MALFORMED_QUERY_GRAPH"

	// ErrCodeNoModelFound indicates no registered model anchors on the
	// query's first table, or no candidate realizations exist at all.
	ErrCodeNoModelFound RouteErrorCode = "NO_MODEL_FOUND"

	// ErrCodeNoRealizationFound indicates every candidate model was tried
	// and none yielded a usable realization.
	ErrCodeNoRealizationFound RouteErrorCode = "NO_REALIZATION_FOUND"

	// ErrCodeBindingConflict indicates a matched model's canonical schema
	// could not be applied to the query context. This is a defect in the
	// catalog or the upstream compiler, not an expected runtime condition.
	ErrCodeBindingConflict RouteErrorCode = "BINDING_CONFLICT"
)

// Error implements the error interface.
func (e *RouteError) Error() string {
	switch {
	case e.Model != "" && e.Query != "":
		return fmt.Sprintf("%s: %s (model=%s, query=%s)", e.Code, e.Message, e.Model, e.Query)
	case e.Query != "":
		return fmt.Sprintf("%s: %s (query=%s)", e.Code, e.Message, e.Query)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsMalformedQueryGraph reports whether err is a malformed-graph error.
// Uses errors.As to handle wrapped errors.
func IsMalformedQueryGraph(err error) bool {
	return hasCode(err, ErrCodeMalformedQueryGraph)
}

// IsNoModelFound reports whether err is a no-model-found error.
func IsNoModelFound(err error) bool {
	return hasCode(err, ErrCodeNoModelFound)
}

// IsNoRealizationFound reports whether err is a no-realization-found error.
func IsNoRealizationFound(err error) bool {
	return hasCode(err, ErrCodeNoRealizationFound)
}

// IsBindingConflict reports whether err is a binding-conflict error.
func IsBindingConflict(err error) bool {
	return hasCode(err, ErrCodeBindingConflict)
}

func hasCode(err error, code RouteErrorCode) bool {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// newMalformedQueryGraphError creates a RouteError for a structurally
// broken query graph.
func newMalformedQueryGraphError(qc *query.Context, reason string) *RouteError {
	return &RouteError{
		Code:    ErrCodeMalformedQueryGraph,
		Message: "please adjust the sequence of join tables: " + reason,
		Query:   qc.Describe(),
	}
}

// newNoModelFoundError creates a RouteError for an anchor table no model
// covers.
func newNoModelFoundError(qc *query.Context) *RouteError {
	return &RouteError{
		Code:    ErrCodeNoModelFound,
		Message: "no model found for query",
		Query:   qc.Describe(),
	}
}

// newNoRealizationFoundError creates a RouteError for exhausted candidates.
func newNoRealizationFoundError(qc *query.Context) *RouteError {
	return &RouteError{
		Code:    ErrCodeNoRealizationFound,
		Message: "no realization found for query",
		Query:   qc.Describe(),
	}
}

// newBindingConflictError creates a RouteError for a schema that could not
// be applied.
func newBindingConflictError(qc *query.Context, model string, reason string) *RouteError {
	return &RouteError{
		Code:    ErrCodeBindingConflict,
		Message: reason,
		Query:   qc.Describe(),
		Model:   model,
	}
}
