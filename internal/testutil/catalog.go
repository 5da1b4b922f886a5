// Package testutil provides builders for catalog and query fixtures used
// across routing, harness, and CLI tests.
package testutil

import (
	"fmt"

	"github.com/cubera-io/cubera/internal/catalog"
	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
)

// Col builds a ColumnID.
func Col(table, column string) meta.ColumnID {
	return meta.ColumnID{Table: table, Column: column}
}

// Cols builds column metadata from name/type pairs:
// Cols("ID", "bigint", "NAME", "varchar(256)").
func Cols(pairs ...string) []meta.ColumnMeta {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("Cols: odd argument count %d", len(pairs)))
	}
	out := make([]meta.ColumnMeta, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, meta.ColumnMeta{Name: pairs[i], Type: pairs[i+1]})
	}
	return out
}

// InnerJoin builds an inner-join edge with one key pair.
func InnerJoin(child, parent, childCol, parentCol string) meta.JoinDesc {
	return meta.JoinDesc{
		Kind:        meta.JoinInner,
		ChildAlias:  child,
		ParentAlias: parent,
		Keys:        []meta.JoinKey{{ChildColumn: childCol, ParentColumn: parentCol}},
	}
}

// LeftJoin builds a left-join edge with one key pair.
func LeftJoin(child, parent, childCol, parentCol string) meta.JoinDesc {
	return meta.JoinDesc{
		Kind:        meta.JoinLeft,
		ChildAlias:  child,
		ParentAlias: parent,
		Keys:        []meta.JoinKey{{ChildColumn: childCol, ParentColumn: parentCol}},
	}
}

// MustModel builds a DataModel or panics. Test fixtures are static; a
// broken fixture is a bug in the test, not a condition to handle.
func MustModel(name string, fact meta.TableRef, tables []meta.ModelTable, joins []meta.JoinDesc) *meta.DataModel {
	m, err := meta.NewDataModel(name, fact, tables, joins)
	if err != nil {
		panic(fmt.Sprintf("MustModel(%s): %v", name, err))
	}
	return m
}

// MustSnapshot builds a catalog snapshot or panics.
func MustSnapshot(models []*meta.DataModel, realizations []*meta.Realization) *catalog.Snapshot {
	snap, err := catalog.Build(models, realizations)
	if err != nil {
		panic(fmt.Sprintf("MustSnapshot: %v", err))
	}
	return snap
}

// Scan builds a table scan.
func Scan(alias, table string, cols ...meta.ColumnMeta) *query.TableScan {
	return &query.TableScan{Alias: alias, Table: table, RowType: cols}
}

// Context assembles a query context. The first scan is the anchor.
func Context(id string, scans []*query.TableScan, joins []meta.JoinDesc, columns []meta.ColumnID) *query.Context {
	if len(scans) == 0 {
		panic("Context: no scans")
	}
	return &query.Context{
		ID:        id,
		Project:   "default",
		FirstScan: scans[0],
		Scans:     scans,
		Joins:     joins,
		Columns:   columns,
	}
}

// SalesFact is the fact table shared by the demo fixtures.
var SalesFact = meta.TableRef{Alias: "SALES", Table: "DEFAULT.SALES"}

// SalesModel builds the demo star model: SALES fact, SELLER lookup
// joined inner, CAL lookup joined left.
func SalesModel(name string) *meta.DataModel {
	return MustModel(name, SalesFact,
		[]meta.ModelTable{
			{Ref: SalesFact, Columns: Cols(
				"PART_DT", "date",
				"SELLER_ID", "bigint",
				"PRICE", "decimal(19,4)",
				"QTY", "bigint",
			)},
			{Ref: meta.TableRef{Alias: "SELLER", Table: "DEFAULT.SELLER"}, Lookup: true,
				Columns: Cols("ID", "bigint", "NAME", "varchar(256)")},
			{Ref: meta.TableRef{Alias: "CAL", Table: "DEFAULT.CAL_DT"}, Lookup: true,
				Columns: Cols("CAL_DT", "date", "WEEK", "integer")},
		},
		[]meta.JoinDesc{
			InnerJoin("SELLER", "SALES", "ID", "SELLER_ID"),
			LeftJoin("CAL", "SALES", "CAL_DT", "PART_DT"),
		})
}

// SalesRealization builds a ready cube realization covering the demo
// model's fact and seller columns.
func SalesRealization(name, model string) *meta.Realization {
	return &meta.Realization{
		Name:      name,
		ModelName: model,
		Kind:      meta.KindCube,
		Ready:     true,
		Columns: []meta.ColumnID{
			Col("DEFAULT.SALES", "PART_DT"),
			Col("DEFAULT.SALES", "SELLER_ID"),
			Col("DEFAULT.SALES", "PRICE"),
			Col("DEFAULT.SELLER", "ID"),
			Col("DEFAULT.SELLER", "NAME"),
		},
		Dimensions: 3,
		Measures:   1,
	}
}

// SalesQuery builds the demo two-table query: SALES inner join SELLER,
// referencing PART_DT, PRICE, and NAME.
func SalesQuery(id string) *query.Context {
	fact := Scan("S", "DEFAULT.SALES", Cols("PART_DT", "date", "SELLER_ID", "bigint", "PRICE", "decimal(19,4)")...)
	dim := Scan("U", "DEFAULT.SELLER", Cols("ID", "bigint", "NAME", "varchar(256)")...)
	return Context(id,
		[]*query.TableScan{fact, dim},
		[]meta.JoinDesc{InnerJoin("U", "S", "ID", "SELLER_ID")},
		[]meta.ColumnID{
			Col("DEFAULT.SALES", "PART_DT"),
			Col("DEFAULT.SALES", "PRICE"),
			Col("DEFAULT.SELLER", "NAME"),
		})
}
