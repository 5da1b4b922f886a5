// Package compiler turns CUE catalog definitions into model and
// realization metadata.
//
// A catalog definition file declares data models and the realizations
// built over them:
//
//	model: sales_model: {
//		fact: "SALES"
//		tables: {
//			SALES: {
//				table: "DEFAULT.SALES"
//				columns: {PART_DT: "date", SELLER_ID: "bigint"}
//			}
//			SELLER: {
//				table:  "DEFAULT.SELLER"
//				lookup: true
//				columns: {ID: "bigint", NAME: "varchar(256)"}
//			}
//		}
//		joins: [
//			{kind: "inner", child: "SELLER", parent: "SALES", on: [{child: "ID", parent: "SELLER_ID"}]},
//		]
//	}
//
//	realization: cube1: {
//		model:      "sales_model"
//		kind:       "cube"
//		ready:      true
//		dimensions: 3
//		measures:   1
//		columns: ["DEFAULT.SALES.PART_DT", "DEFAULT.SALES.SELLER_ID"]
//	}
//
// Compilation is two-phase. CompileCatalog parses CUE values into raw
// definition structs, reporting shape problems with source positions.
// Validate then checks cross-entity rules over the whole definition set
// (dangling references, duplicate names, join graph shape) and reports
// every violation rather than stopping at the first. Build converts a
// validated definition into meta objects ready for a catalog snapshot.
package compiler
