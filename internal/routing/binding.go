package routing

import (
	"fmt"
	"strings"

	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
)

// boundModel is one scoped application of a model's canonical schema onto
// a query context's table scans. It snapshots every scan's row type
// before rewriting anything, so release restores the exact pre-bind state
// no matter where binding or selection stopped.
type boundModel struct {
	qc       *query.Context
	saved    [][]meta.ColumnMeta // parallel to qc.Scans
	released bool
}

// bindModel rewrites each scan's column metadata to the model's canonical
// schema, translating query aliases through the mapping. Downstream
// planning must see columns named and typed as the model defines them,
// not as the original SQL aliased them.
//
// Column names are resolved case-insensitively against the model table's
// canonical schema; the canonical spelling and type win. A column the
// model table does not declare is a binding conflict - the catalog and
// the matcher disagree, which is a defect, so the error aborts the whole
// routing rather than skipping the model.
//
// On error the context is already restored; only a nil error hands the
// caller a binding to release.
func bindModel(qc *query.Context, model *meta.DataModel, mapping AliasMapping) (*boundModel, error) {
	b := &boundModel{
		qc:    qc,
		saved: make([][]meta.ColumnMeta, len(qc.Scans)),
	}
	for i, scan := range qc.Scans {
		b.saved[i] = scan.CloneRowType()
	}

	for _, scan := range qc.Scans {
		modelAlias, ok := mapping[scan.Alias]
		if !ok {
			b.release()
			return nil, newBindingConflictError(qc, model.Name(),
				fmt.Sprintf("scan alias %q missing from alias mapping", scan.Alias))
		}
		table, ok := model.TableByAlias(modelAlias)
		if !ok {
			b.release()
			return nil, newBindingConflictError(qc, model.Name(),
				fmt.Sprintf("alias mapping targets unknown model alias %q", modelAlias))
		}

		rewritten := make([]meta.ColumnMeta, len(scan.RowType))
		for j, col := range scan.RowType {
			canonical, ok := canonicalColumn(table, col.Name)
			if !ok {
				b.release()
				return nil, newBindingConflictError(qc, model.Name(),
					fmt.Sprintf("column %q of scan %q not in canonical schema of %s", col.Name, scan.Alias, table.Ref))
			}
			rewritten[j] = canonical
		}
		scan.RowType = rewritten
	}

	return b, nil
}

// canonicalColumn resolves a scan column name against a model table's
// canonical schema, ignoring case.
func canonicalColumn(t meta.ModelTable, name string) (meta.ColumnMeta, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return meta.ColumnMeta{}, false
}

// release restores every scan's pre-bind row type. Idempotent: a second
// release is a no-op, so a deferred release after an explicit one is safe.
func (b *boundModel) release() {
	if b.released {
		return
	}
	b.released = true
	for i, scan := range b.qc.Scans {
		scan.RowType = b.saved[i]
	}
}

// commit makes the binding permanent: the saved row types are dropped and
// release becomes a no-op.
func (b *boundModel) commit() {
	b.released = true
}
