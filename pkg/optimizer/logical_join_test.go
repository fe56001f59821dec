package optimizer

import (
	"testing"

	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// joinTestTables builds the standard fixture: t1(id PRIMARY, v) and
// t2(id UNIQUE, w), all columns non-nullable.
func joinTestTables() (*LogicalDataSource, *LogicalDataSource) {
	left := NewLogicalDataSource(&TableInfo{
		Name: "t1",
		Columns: []ColumnInfo{
			{Name: "id", Type: "int", Primary: true},
			{Name: "v", Type: "int"},
		},
	})
	right := NewLogicalDataSource(&TableInfo{
		Name: "t2",
		Columns: []ColumnInfo{
			{Name: "id", Type: "int", Unique: true},
			{Name: "w", Type: "int"},
		},
	})
	return left, right
}

func column(t *testing.T, ds *LogicalDataSource, name string) *expression.Expression {
	t.Helper()
	col, ok := ds.Column(name)
	if !ok {
		t.Fatalf("column %s not found in %s", name, ds.Table())
	}
	return col
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestNewLogicalJoinInvariants(t *testing.T) {
	left, right := joinTestTables()
	predicate := expression.NewEquals(column(t, left, "id"), column(t, right, "id"))

	nonCross := []JoinType{
		InnerJoin, LeftOuterJoin, RightOuterJoin, FullOuterJoin,
		SemiJoin, AntiJoinNullAsTrue, AntiJoinNullAsFalse,
	}
	for _, joinType := range nonCross {
		expectPanic(t, joinType.String()+" without predicates", func() {
			NewLogicalJoin(joinType, left, right)
		})
	}

	expectPanic(t, "cross join with predicate", func() {
		NewLogicalJoin(CrossJoin, left, right, predicate)
	})

	// Valid constructions do not panic.
	NewLogicalJoin(CrossJoin, left, right)
	NewLogicalJoin(InnerJoin, left, right, predicate)
}

func TestLogicalJoinColumnExpressions(t *testing.T) {
	left, right := joinTestTables()
	predicate := expression.NewEquals(column(t, left, "id"), column(t, right, "id"))

	tests := []struct {
		joinType JoinType
		want     int
	}{
		{InnerJoin, 4},
		{LeftOuterJoin, 4},
		{RightOuterJoin, 4},
		{FullOuterJoin, 4},
		{SemiJoin, 2},
		{AntiJoinNullAsTrue, 2},
		{AntiJoinNullAsFalse, 2},
	}
	for _, tt := range tests {
		join := NewLogicalJoin(tt.joinType, left, right, predicate)
		got := join.ColumnExpressions()
		if len(got) != tt.want {
			t.Errorf("%s: expected %d output columns, got %d", tt.joinType, tt.want, len(got))
		}
		if got[0] != column(t, left, "id") {
			t.Errorf("%s: output must start with the left input's schema", tt.joinType)
		}
	}

	cross := NewLogicalJoin(CrossJoin, left, right)
	if len(cross.ColumnExpressions()) != 4 {
		t.Errorf("cross join: expected 4 output columns, got %d", len(cross.ColumnExpressions()))
	}
}

func TestLogicalJoinColumnExpressionsRequiresInputs(t *testing.T) {
	left, right := joinTestTables()
	predicate := expression.NewEquals(column(t, left, "id"), column(t, right, "id"))

	join := NewLogicalJoin(InnerJoin, left, nil, predicate)
	expectPanic(t, "missing right input", func() { join.ColumnExpressions() })
	expectPanic(t, "missing right input nullability", func() { join.IsColumnNullable(0) })
}

func TestLogicalJoinNullability(t *testing.T) {
	// left: [a, b] non-nullable; right: [c] non-nullable.
	left := NewLogicalDataSource(&TableInfo{
		Name: "l",
		Columns: []ColumnInfo{
			{Name: "a", Type: "int"},
			{Name: "b", Type: "int"},
		},
	})
	right := NewLogicalDataSource(&TableInfo{
		Name:    "r",
		Columns: []ColumnInfo{{Name: "c", Type: "int"}},
	})
	predicate := expression.NewEquals(column(t, left, "a"), column(t, right, "c"))

	tests := []struct {
		joinType JoinType
		want     []bool
	}{
		{InnerJoin, []bool{false, false, false}},
		{LeftOuterJoin, []bool{false, false, true}},
		{RightOuterJoin, []bool{true, true, false}},
		{FullOuterJoin, []bool{true, true, true}},
	}
	for _, tt := range tests {
		join := NewLogicalJoin(tt.joinType, left, right, predicate)
		for position, want := range tt.want {
			if got := join.IsColumnNullable(position); got != want {
				t.Errorf("%s: position %d nullable = %v, want %v", tt.joinType, position, got, want)
			}
		}
	}

	cross := NewLogicalJoin(CrossJoin, left, right)
	for position := 0; position < 3; position++ {
		if cross.IsColumnNullable(position) {
			t.Errorf("cross join: position %d should inherit non-nullable inputs", position)
		}
	}
}

func TestLogicalJoinConstraints(t *testing.T) {
	left, right := joinTestTables()

	bothUnique := expression.NewEquals(column(t, left, "id"), column(t, right, "id"))
	leftUnique := expression.NewEquals(column(t, left, "id"), column(t, right, "w"))
	rightUnique := expression.NewEquals(column(t, left, "v"), column(t, right, "id"))
	neitherUnique := expression.NewEquals(column(t, left, "v"), column(t, right, "w"))

	t.Run("inner both unique unions both sides", func(t *testing.T) {
		join := NewLogicalJoin(InnerJoin, left, right, bothUnique)
		constraints := join.Constraints()
		if len(constraints) != 2 {
			t.Fatalf("expected union of 2 constraints, got %d", len(constraints))
		}
		if !constraints[0].CoveredBy([]*expression.Expression{column(t, left, "id")}) {
			t.Error("left key constraint missing from union")
		}
		if !constraints[1].CoveredBy([]*expression.Expression{column(t, right, "id")}) {
			t.Error("right key constraint missing from union")
		}
	})

	t.Run("inner left unique forwards right constraints", func(t *testing.T) {
		join := NewLogicalJoin(InnerJoin, left, right, leftUnique)
		constraints := join.Constraints()
		if len(constraints) != 1 {
			t.Fatalf("expected 1 constraint, got %d", len(constraints))
		}
		if !constraints[0].CoveredBy([]*expression.Expression{column(t, right, "id")}) {
			t.Error("expected the right input's key constraint")
		}
	})

	t.Run("inner right unique forwards left constraints", func(t *testing.T) {
		join := NewLogicalJoin(InnerJoin, left, right, rightUnique)
		constraints := join.Constraints()
		if len(constraints) != 1 {
			t.Fatalf("expected 1 constraint, got %d", len(constraints))
		}
		if !constraints[0].CoveredBy([]*expression.Expression{column(t, left, "id")}) {
			t.Error("expected the left input's key constraint")
		}
	})

	t.Run("inner neither unique yields nothing", func(t *testing.T) {
		join := NewLogicalJoin(InnerJoin, left, right, neitherUnique)
		if len(join.Constraints()) != 0 {
			t.Error("expected no constraints")
		}
	})

	t.Run("outer joins yield nothing", func(t *testing.T) {
		for _, joinType := range []JoinType{LeftOuterJoin, RightOuterJoin, FullOuterJoin} {
			join := NewLogicalJoin(joinType, left, right, bothUnique)
			if len(join.Constraints()) != 0 {
				t.Errorf("%s: expected no constraints", joinType)
			}
		}
	})

	t.Run("cross join yields nothing", func(t *testing.T) {
		join := NewLogicalJoin(CrossJoin, left, right)
		if len(join.Constraints()) != 0 {
			t.Error("expected no constraints")
		}
	})

	t.Run("anti joins yield nothing", func(t *testing.T) {
		for _, joinType := range []JoinType{AntiJoinNullAsTrue, AntiJoinNullAsFalse} {
			join := NewLogicalJoin(joinType, left, right, bothUnique)
			if len(join.Constraints()) != 0 {
				t.Errorf("%s: expected no constraints", joinType)
			}
		}
	})

	t.Run("semi join forwards left constraints", func(t *testing.T) {
		join := NewLogicalJoin(SemiJoin, left, right, neitherUnique)
		constraints := join.Constraints()
		if len(constraints) != 1 {
			t.Fatalf("expected the left input's constraints, got %d", len(constraints))
		}
		if !constraints[0].CoveredBy([]*expression.Expression{column(t, left, "id")}) {
			t.Error("expected the left input's key constraint")
		}
	})

	t.Run("multiple predicates yield nothing", func(t *testing.T) {
		join := NewLogicalJoin(InnerJoin, left, right, bothUnique, neitherUnique)
		if len(join.Constraints()) != 0 {
			t.Error("expected no constraints for a multi-predicate join")
		}
	})

	t.Run("non-equi predicate yields nothing", func(t *testing.T) {
		lessThan := expression.NewOperator(expression.OpLessThan,
			column(t, left, "id"), column(t, right, "id"))
		join := NewLogicalJoin(InnerJoin, left, right, lessThan)
		if len(join.Constraints()) != 0 {
			t.Error("expected no constraints for a non-equi join")
		}
	})
}

func TestLogicalJoinShallowHash(t *testing.T) {
	left, right := joinTestTables()
	idEquals := expression.NewEquals(column(t, left, "id"), column(t, right, "id"))
	vEquals := expression.NewEquals(column(t, left, "v"), column(t, right, "w"))

	a := NewLogicalJoin(InnerJoin, left, right, idEquals)
	b := NewLogicalJoin(InnerJoin, left, right, vEquals)
	c := NewLogicalJoin(LeftOuterJoin, left, right, idEquals)

	if a.ShallowHash() != b.ShallowHash() {
		t.Error("hash must depend on the join type only, not on predicates")
	}
	if a.ShallowHash() == c.ShallowHash() {
		t.Error("different join types should hash differently")
	}
}

func TestLogicalJoinShallowEquals(t *testing.T) {
	left, right := joinTestTables()
	idEquals := expression.NewEquals(column(t, left, "id"), column(t, right, "id"))
	vEquals := expression.NewEquals(column(t, left, "v"), column(t, right, "w"))

	a := NewLogicalJoin(InnerJoin, left, right, idEquals)
	b := NewLogicalJoin(InnerJoin, left, right, idEquals)
	differentType := NewLogicalJoin(LeftOuterJoin, left, right, idEquals)
	differentPredicate := NewLogicalJoin(InnerJoin, left, right, vEquals)
	differentLength := NewLogicalJoin(InnerJoin, left, right, idEquals, vEquals)

	if !a.ShallowEquals(b, NodeMapping{}) {
		t.Error("structurally equal joins must compare equal")
	}
	if a.ShallowHash() != b.ShallowHash() {
		t.Error("equal joins must share a hash")
	}
	if a.ShallowEquals(differentType, NodeMapping{}) {
		t.Error("different join types must not compare equal")
	}
	if a.ShallowEquals(differentPredicate, NodeMapping{}) {
		t.Error("different predicates must not compare equal")
	}
	if a.ShallowEquals(differentLength, NodeMapping{}) {
		t.Error("different predicate list lengths must not compare equal")
	}
	if a.ShallowEquals(NewLogicalProjection(left, column(t, left, "id")), NodeMapping{}) {
		t.Error("different node types must not compare equal")
	}
}

func TestLogicalJoinShallowCopyRoundTrip(t *testing.T) {
	left, right := joinTestTables()
	predicate := expression.NewEquals(column(t, left, "id"), column(t, right, "id"))
	join := NewLogicalJoin(InnerJoin, left, right, predicate)

	copied, mapping := CopyPlan(join)
	if !join.ShallowEquals(copied, mapping) {
		t.Error("copy must shallow-equal the original under the copy mapping")
	}
	if !PlansEqual(join, copied) {
		t.Error("copied plan must equal the original")
	}
	if copied.(*LogicalJoin).JoinPredicates()[0] == predicate {
		t.Error("copied predicates must be new expression instances")
	}

	cross := NewLogicalJoin(CrossJoin, left, right)
	crossCopy, crossMapping := CopyPlan(cross)
	if !cross.ShallowEquals(crossCopy, crossMapping) {
		t.Error("cross join copy must shallow-equal the original")
	}
}

func TestLogicalJoinDescription(t *testing.T) {
	left, right := joinTestTables()
	predicate := expression.NewEquals(column(t, left, "id"), column(t, right, "id"))
	join := NewLogicalJoin(InnerJoin, left, right, predicate)

	want := "[Join] Mode: INNER JOIN [id = id]"
	if got := join.Description(DescriptionShort); got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
	if got := join.Explain(); got != want {
		t.Errorf("Explain = %q, want %q", got, want)
	}
}
