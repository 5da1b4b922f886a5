package query

import (
	"fmt"
	"strings"

	"github.com/cubera-io/cubera/internal/meta"
)

// TableScan is one table access in the query plan. Alias and Table are
// fixed at construction; RowType carries the column metadata downstream
// planning sees and is the only field routing may rewrite.
type TableScan struct {
	Alias   string            // query-local alias, unique within the query
	Table   string            // physical table identity
	RowType []meta.ColumnMeta // current column metadata, mutable via binding
}

// CloneRowType returns a deep copy of the scan's current row type.
func (s *TableScan) CloneRowType() []meta.ColumnMeta {
	if s.RowType == nil {
		return nil
	}
	cols := make([]meta.ColumnMeta, len(s.RowType))
	copy(cols, s.RowType)
	return cols
}

// Resolution records the outcome of realization routing for a query.
type Resolution struct {
	Model       string            `json:"model"`
	Realization string            `json:"realization"`
	AliasMap    map[string]string `json:"alias_map"` // query alias -> model alias
}

// Context is one query's compilation context, exclusively owned by that
// query. It is handed to routing read-mostly: only scan row types and the
// Resolution field are written during selection.
type Context struct {
	// ID correlates log lines and traces for one routing attempt.
	ID string

	// Project scopes catalog lookups.
	Project string

	// FirstScan is the anchor: the first table scanned by the query.
	// Candidate models must have this physical table as their fact table
	// (or expose it as a standalone lookup for single-table queries).
	FirstScan *TableScan

	// Scans lists every table scan, FirstScan included.
	Scans []*TableScan

	// Joins are the query's join edges in plan order, child joined
	// toward the anchor.
	Joins []meta.JoinDesc

	// Columns is the set of physical columns the query references.
	Columns []meta.ColumnID

	// Resolution is set by routing on success, nil before and on failure.
	Resolution *Resolution
}

// ScanByAlias returns the scan with the given alias, if any.
func (c *Context) ScanByAlias(alias string) (*TableScan, bool) {
	for _, s := range c.Scans {
		if s.Alias == alias {
			return s, true
		}
	}
	return nil, false
}

// Describe returns the query's table/join shape for diagnostics, in the
// form "SCAN:TABLE, join..., join...".
func (c *Context) Describe() string {
	var b strings.Builder
	if c.FirstScan != nil {
		b.WriteString(c.FirstScan.Alias)
		b.WriteString(":")
		b.WriteString(c.FirstScan.Table)
	}
	for _, j := range c.Joins {
		b.WriteString(", ")
		b.WriteString(j.String())
	}
	return b.String()
}

// Validate checks structural consistency that must hold before routing:
// a first scan present and part of the scan set, unique aliases, and
// join edges referencing known aliases. The join-count invariant is the
// routing layer's concern, not checked here.
func (c *Context) Validate() error {
	if c.FirstScan == nil {
		return fmt.Errorf("query context has no first table scan")
	}
	seen := make(map[string]bool, len(c.Scans))
	firstPresent := false
	for _, s := range c.Scans {
		if s.Alias == "" {
			return fmt.Errorf("table scan of %q has empty alias", s.Table)
		}
		if seen[s.Alias] {
			return fmt.Errorf("duplicate scan alias %q", s.Alias)
		}
		seen[s.Alias] = true
		if s == c.FirstScan {
			firstPresent = true
		}
	}
	if !firstPresent {
		return fmt.Errorf("first scan %q not in scan set", c.FirstScan.Alias)
	}
	for _, j := range c.Joins {
		if !seen[j.ChildAlias] {
			return fmt.Errorf("join %s: unknown child alias %q", j, j.ChildAlias)
		}
		if !seen[j.ParentAlias] {
			return fmt.Errorf("join %s: unknown parent alias %q", j, j.ParentAlias)
		}
	}
	return nil
}
