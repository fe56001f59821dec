package optimizer

import (
	"testing"

	"github.com/kasuganosora/logicalplan/pkg/expression"
)

func TestNewLogicalDataSourceInvariants(t *testing.T) {
	expectPanic(t, "nil table info", func() {
		NewLogicalDataSource(nil)
	})
	expectPanic(t, "unnamed table", func() {
		NewLogicalDataSource(&TableInfo{})
	})
}

func TestLogicalDataSourceSchema(t *testing.T) {
	table := projectionTestTable()

	schema := table.ColumnExpressions()
	if len(schema) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(schema))
	}
	names := []string{"id", "name", "age"}
	for i, want := range names {
		if schema[i].Name != want {
			t.Errorf("column %d: name = %q, want %q", i, schema[i].Name, want)
		}
		if schema[i].Origin != expression.ColumnOrigin(table) {
			t.Errorf("column %d must be bound to its own node", i)
		}
		if schema[i].ColumnID != i {
			t.Errorf("column %d: ColumnID = %d", i, schema[i].ColumnID)
		}
	}

	// Stable identities: repeated calls return the same expressions.
	again := table.ColumnExpressions()
	for i := range schema {
		if schema[i] != again[i] {
			t.Errorf("column %d: expression identity must be stable", i)
		}
	}
}

func TestLogicalDataSourceColumnLookup(t *testing.T) {
	table := projectionTestTable()

	col, ok := table.Column("name")
	if !ok || col.Name != "name" {
		t.Error("expected to find column name")
	}
	if _, ok := table.Column("missing"); ok {
		t.Error("unknown column must not resolve")
	}

	resolved, ok := table.ResolveColumn("age")
	if !ok || resolved != column(t, table, "age") {
		t.Error("ResolveColumn must return the stored expression")
	}
}

func TestLogicalDataSourceNullabilityAndConstraints(t *testing.T) {
	table := projectionTestTable()

	wantNullable := []bool{false, false, true}
	for i, want := range wantNullable {
		if got := table.IsColumnNullable(i); got != want {
			t.Errorf("column %d: nullable = %v, want %v", i, got, want)
		}
	}

	constraints := table.Constraints()
	if len(constraints) != 1 {
		t.Fatalf("expected 1 declared constraint, got %d", len(constraints))
	}
	if !HasUniqueConstraint(table, []*expression.Expression{column(t, table, "id")}) {
		t.Error("the primary key column is a unique key")
	}
	if HasUniqueConstraint(table, []*expression.Expression{column(t, table, "name")}) {
		t.Error("a non-key column is not a unique key")
	}
	// A superset of a key is still unique.
	if !HasUniqueConstraint(table, []*expression.Expression{
		column(t, table, "name"), column(t, table, "id"),
	}) {
		t.Error("a superset of a unique key is unique")
	}
}

func TestLogicalDataSourceRowCount(t *testing.T) {
	table := NewLogicalDataSource(&TableInfo{
		Name:     "t",
		Columns:  []ColumnInfo{{Name: "a", Type: "int"}},
		RowCount: 100,
	})
	if table.RowCount() != 100 {
		t.Errorf("RowCount = %d, want 100", table.RowCount())
	}
	table.SetStatistics(&Statistics{RowCount: 250})
	if table.RowCount() != 250 {
		t.Errorf("RowCount = %d, want collected 250", table.RowCount())
	}
}

func TestLogicalDataSourceShallowOps(t *testing.T) {
	table := projectionTestTable()
	other := projectionTestTable()
	different := NewLogicalDataSource(&TableInfo{
		Name:    "orders",
		Columns: []ColumnInfo{{Name: "id", Type: "int", Primary: true}},
	})

	if !table.ShallowEquals(other, NodeMapping{}) {
		t.Error("data sources over the same table must compare equal")
	}
	if table.ShallowEquals(different, NodeMapping{}) {
		t.Error("data sources over different tables must not compare equal")
	}
	if table.ShallowHash() != other.ShallowHash() {
		t.Error("same table, same hash")
	}
	if table.ShallowHash() == different.ShallowHash() {
		t.Error("different tables should hash differently")
	}

	copied := table.ShallowCopy(NodeMapping{}).(*LogicalDataSource)
	if copied == table {
		t.Fatal("copy must be a new node")
	}
	if copied.ColumnExpressions()[0] == table.ColumnExpressions()[0] {
		t.Error("the copy owns fresh column expressions bound to itself")
	}
	if !table.ShallowEquals(copied, NodeMapping{}) {
		t.Error("copy must shallow-equal the original")
	}
}
