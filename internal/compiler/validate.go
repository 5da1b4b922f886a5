package compiler

import (
	"fmt"
	"strings"

	"github.com/cubera-io/cubera/internal/meta"
)

// Validation error codes (E200-E299)
const (
	// Model errors (E201-E209)
	ErrModelFactUnknown = "E201" // fact alias not among the model's tables
	ErrDuplicateAlias   = "E202" // duplicate table alias within a model
	ErrJoinUnknownAlias = "E203" // join references an alias not in the model
	ErrJoinGraphShape   = "E204" // join edges do not form a tree rooted at the fact
	ErrDuplicateModel   = "E205" // duplicate model name
	ErrInvalidJoinKind  = "E206" // join kind is not inner or left
	ErrJoinNoKeys       = "E207" // join has no key pairs
	ErrFactMarkedLookup = "E208" // fact table flagged as lookup

	// Realization errors (E210-E219)
	ErrDanglingModelRef     = "E210" // realization references an unknown model
	ErrInvalidKind          = "E211" // realization kind not recognized
	ErrNegativeCount        = "E212" // dimension or measure count below zero
	ErrDuplicateRealization = "E213" // duplicate realization name
	ErrMalformedColumnRef   = "E214" // column reference not TABLE.COLUMN shaped
)

// ValidationError represents one catalog definition violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors aggregates violations into a single error value.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e), strings.Join(msgs, "; "))
}

// Validate checks cross-entity rules over a whole catalog definition.
// Returns all errors found (does not fail-fast).
func Validate(d *CatalogDef) []ValidationError {
	var errs []ValidationError

	modelNames := make(map[string]bool)
	for i, m := range d.Models {
		if modelNames[m.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("model[%d].name", i),
				Message: fmt.Sprintf("duplicate model name: %q", m.Name),
				Code:    ErrDuplicateModel,
			})
		}
		modelNames[m.Name] = true
		errs = append(errs, validateModel(m)...)
	}

	realizationNames := make(map[string]bool)
	for i, r := range d.Realizations {
		if realizationNames[r.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("realization[%d].name", i),
				Message: fmt.Sprintf("duplicate realization name: %q", r.Name),
				Code:    ErrDuplicateRealization,
			})
		}
		realizationNames[r.Name] = true

		if !modelNames[r.Model] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("realization.%s.model", r.Name),
				Message: fmt.Sprintf("unknown model %q", r.Model),
				Code:    ErrDanglingModelRef,
			})
		}
		errs = append(errs, validateRealization(r)...)
	}

	return errs
}

// validateModel checks one model definition in isolation.
func validateModel(m *ModelDef) []ValidationError {
	var errs []ValidationError
	field := func(suffix string) string { return fmt.Sprintf("model.%s.%s", m.Name, suffix) }

	aliases := make(map[string]*TableDef, len(m.Tables))
	for i := range m.Tables {
		t := &m.Tables[i]
		if _, dup := aliases[t.Alias]; dup {
			errs = append(errs, ValidationError{
				Field:   field("tables." + t.Alias),
				Message: fmt.Sprintf("duplicate table alias %q", t.Alias),
				Code:    ErrDuplicateAlias,
			})
			continue
		}
		aliases[t.Alias] = t
	}

	fact, ok := aliases[m.Fact]
	switch {
	case !ok:
		errs = append(errs, ValidationError{
			Field:   field("fact"),
			Message: fmt.Sprintf("fact alias %q is not a declared table", m.Fact),
			Code:    ErrModelFactUnknown,
		})
	case fact.Lookup:
		errs = append(errs, ValidationError{
			Field:   field("tables." + m.Fact),
			Message: "fact table cannot be a lookup table",
			Code:    ErrFactMarkedLookup,
		})
	}

	for i, j := range m.Joins {
		jf := field(fmt.Sprintf("joins[%d]", i))
		if !meta.ValidJoinKind(meta.JoinKind(j.Kind)) {
			errs = append(errs, ValidationError{
				Field:   jf + ".kind",
				Message: fmt.Sprintf("invalid join kind %q, must be %q or %q", j.Kind, meta.JoinInner, meta.JoinLeft),
				Code:    ErrInvalidJoinKind,
			})
		}
		if len(j.Keys) == 0 {
			errs = append(errs, ValidationError{
				Field:   jf + ".on",
				Message: "join requires at least one key pair",
				Code:    ErrJoinNoKeys,
			})
		}
		for _, alias := range []string{j.Child, j.Parent} {
			if _, known := aliases[alias]; !known {
				errs = append(errs, ValidationError{
					Field:   jf,
					Message: fmt.Sprintf("join references unknown alias %q", alias),
					Code:    ErrJoinUnknownAlias,
				})
			}
		}
	}

	errs = append(errs, validateJoinShape(m, aliases)...)
	return errs
}

// validateJoinShape checks that join edges form a tree rooted at the
// fact table: every non-fact table has exactly one incoming edge and is
// reachable from the fact without cycles.
func validateJoinShape(m *ModelDef, aliases map[string]*TableDef) []ValidationError {
	if _, ok := aliases[m.Fact]; !ok {
		return nil // already reported as ErrModelFactUnknown
	}

	var errs []ValidationError
	field := fmt.Sprintf("model.%s.joins", m.Name)

	// parent → children over declared edges
	children := make(map[string][]string)
	incoming := make(map[string]int)
	for _, j := range m.Joins {
		children[j.Parent] = append(children[j.Parent], j.Child)
		incoming[j.Child]++
	}

	for alias := range aliases {
		switch {
		case alias == m.Fact && incoming[alias] > 0:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("fact table %q cannot be a join child", alias),
				Code:    ErrJoinGraphShape,
			})
		case alias != m.Fact && incoming[alias] != 1:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("table %q needs exactly one join to a parent, has %d", alias, incoming[alias]),
				Code:    ErrJoinGraphShape,
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	// With incoming degrees correct, any unreachable table sits on a
	// cycle detached from the fact.
	reached := make(map[string]bool)
	stack := []string{m.Fact}
	for len(stack) > 0 {
		alias := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[alias] {
			continue
		}
		reached[alias] = true
		stack = append(stack, children[alias]...)
	}
	for alias := range aliases {
		if !reached[alias] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("table %q is not reachable from the fact table (join cycle)", alias),
				Code:    ErrJoinGraphShape,
			})
		}
	}

	return errs
}

// validateRealization checks one realization definition in isolation.
func validateRealization(r *RealizationDef) []ValidationError {
	var errs []ValidationError
	field := func(suffix string) string { return fmt.Sprintf("realization.%s.%s", r.Name, suffix) }

	if !meta.ValidRealizationKind(meta.RealizationKind(r.Kind)) {
		errs = append(errs, ValidationError{
			Field:   field("kind"),
			Message: fmt.Sprintf("invalid realization kind %q", r.Kind),
			Code:    ErrInvalidKind,
		})
	}

	if r.Dimensions < 0 || r.Measures < 0 {
		errs = append(errs, ValidationError{
			Field:   field("dimensions"),
			Message: "dimension and measure counts cannot be negative",
			Code:    ErrNegativeCount,
		})
	}

	for i, col := range r.Columns {
		if _, err := meta.ParseColumnID(col); err != nil {
			errs = append(errs, ValidationError{
				Field:   field(fmt.Sprintf("columns[%d]", i)),
				Message: fmt.Sprintf("malformed column reference %q", col),
				Code:    ErrMalformedColumnRef,
			})
		}
	}

	return errs
}
