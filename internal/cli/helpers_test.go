package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const salesDefsCUE = `
package catalog

model: sales_model: {
	fact: "SALES"
	tables: {
		SALES: {
			table: "DEFAULT.SALES"
			columns: {PART_DT: "date", SELLER_ID: "bigint", PRICE: "decimal(19,4)"}
		}
		SELLER: {
			table:  "DEFAULT.SELLER"
			lookup: true
			columns: {ID: "bigint", NAME: "varchar(256)"}
		}
	}
	joins: [
		{kind: "inner", child: "SELLER", parent: "SALES", on: [{child: "ID", parent: "SELLER_ID"}]},
	]
}

realization: cube1: {
	model:      "sales_model"
	kind:       "cube"
	ready:      true
	dimensions: 3
	measures:   1
	columns: ["DEFAULT.SALES.PART_DT", "DEFAULT.SALES.SELLER_ID", "DEFAULT.SELLER.NAME"]
}
`

const salesQueryYAML = `
project: default
queries:
  - id: q1
    scans:
      - alias: S
        table: DEFAULT.SALES
        columns:
          - {name: PART_DT, type: date}
          - {name: SELLER_ID, type: bigint}
      - alias: U
        table: DEFAULT.SELLER
        columns:
          - {name: ID, type: bigint}
          - {name: NAME, type: varchar(256)}
    joins:
      - kind: inner
        child: U
        parent: S
        on:
          - {child: ID, parent: SELLER_ID}
    columns:
      - DEFAULT.SALES.PART_DT
      - DEFAULT.SELLER.NAME
`

// writeDefsDir writes the sales catalog fixture as a CUE package in a
// fresh temp directory.
func writeDefsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "sales.cue"), []byte(salesDefsCUE), 0644)
	require.NoError(t, err)
	return dir
}

// writeFile writes content to name inside a fresh temp directory and
// returns the full path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// importSalesCatalog imports the sales fixture into a store at dbPath.
func importSalesCatalog(t *testing.T, dbPath string) {
	t.Helper()
	defsDir := writeDefsDir(t)

	cmd := NewImportCommand(&RootOptions{Format: "text"})
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{defsDir, "--db", dbPath})
	require.NoError(t, cmd.Execute())
}
