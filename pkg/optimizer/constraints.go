package optimizer

import (
	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// Constraint is a set of expressions that jointly identify a unique key over
// a node's current output rows.
type Constraint struct {
	Columns []*expression.Expression
}

// NewConstraint 创建唯一性约束
func NewConstraint(columns ...*expression.Expression) Constraint {
	return Constraint{Columns: columns}
}

// CoveredBy reports whether every column of the constraint appears in exprs.
// A row set that is unique on the constraint's columns is also unique on any
// superset of them.
func (c Constraint) CoveredBy(exprs []*expression.Expression) bool {
	for _, col := range c.Columns {
		found := false
		for _, e := range exprs {
			if col.Equal(e, nil) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ConstraintSet 节点输出的唯一性约束集合
type ConstraintSet []Constraint

// Union returns a new set containing the constraints of both sets.
func (s ConstraintSet) Union(other ConstraintSet) ConstraintSet {
	merged := make(ConstraintSet, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return merged
}

// HasUniqueConstraint reports whether the given expression set is a proven
// unique key of the node's output: true iff some constraint of the node is
// covered by exprs.
func HasUniqueConstraint(p LogicalPlan, exprs []*expression.Expression) bool {
	for _, c := range p.Constraints() {
		if c.CoveredBy(exprs) {
			return true
		}
	}
	return false
}
