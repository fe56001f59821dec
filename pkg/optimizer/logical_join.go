package optimizer

import (
	"fmt"
	"strings"

	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// LogicalJoin 逻辑连接
//
// Join semantics live here: output schema concatenation, nullability across
// outer joins, and the propagation of uniqueness constraints. A wrong "unique"
// claim makes the optimizer rewrite queries into silently wrong results, so
// the constraint procedure only answers when the answer is provably sound.
type LogicalJoin struct {
	basePlan
	joinType JoinType
}

// NewLogicalJoin 创建逻辑连接
//
// Cross joins take no predicate; every other join type requires at least one.
// Violations are programming errors and panic.
func NewLogicalJoin(joinType JoinType, left, right LogicalPlan, predicates ...*expression.Expression) *LogicalJoin {
	if joinType == CrossJoin {
		if len(predicates) > 0 {
			panic("optimizer: cross joins take no predicate")
		}
	} else if len(predicates) == 0 {
		panic(fmt.Sprintf("optimizer: %s requires at least one predicate", joinType))
	}

	p := &LogicalJoin{
		basePlan: newBasePlan(JoinNodeType, predicates),
		joinType: joinType,
	}
	p.SetInputs(left, right)
	return p
}

// GetJoinType 返回连接类型
func (p *LogicalJoin) GetJoinType() JoinType {
	return p.joinType
}

// JoinPredicates 返回连接条件
func (p *LogicalJoin) JoinPredicates() []*expression.Expression {
	return p.nodeExpressions
}

// outputsBothInputs reports whether the join's output carries the right
// input's columns. Semi and anti joins use the right side only for filtering.
func (p *LogicalJoin) outputsBothInputs() bool {
	return p.joinType != SemiJoin && p.joinType != AntiJoinNullAsTrue && p.joinType != AntiJoinNullAsFalse
}

// ColumnExpressions 返回输出列表达式
//
// Recomputed on every request; the join never caches its schema.
func (p *LogicalJoin) ColumnExpressions() []*expression.Expression {
	left, right := p.mustBoth()

	leftExprs := left.ColumnExpressions()
	if !p.outputsBothInputs() {
		out := make([]*expression.Expression, len(leftExprs))
		copy(out, leftExprs)
		return out
	}

	rightExprs := right.ColumnExpressions()
	out := make([]*expression.Expression, 0, len(leftExprs)+len(rightExprs))
	out = append(out, leftExprs...)
	out = append(out, rightExprs...)
	return out
}

// IsColumnNullable 返回指定位置的输出列是否可能为 NULL
//
// Outer joins null-pad the non-matching side; otherwise nullability is
// inherited from the owning input.
func (p *LogicalJoin) IsColumnNullable(position int) bool {
	left, right := p.mustBoth()

	leftColumnCount := len(left.ColumnExpressions())
	fromLeftInput := position < leftColumnCount

	if p.joinType == LeftOuterJoin && !fromLeftInput {
		return true
	}
	if p.joinType == RightOuterJoin && fromLeftInput {
		return true
	}
	if p.joinType == FullOuterJoin {
		return true
	}

	if fromLeftInput {
		return left.IsColumnNullable(position)
	}
	return right.IsColumnNullable(position - leftColumnCount)
}

// Constraints 返回连接输出的唯一性约束
func (p *LogicalJoin) Constraints() ConstraintSet {
	// The semi join outputs the left input without adding rows or columns;
	// tuples may only be filtered out, so the left constraints survive.
	if p.joinType == SemiJoin {
		return p.mustLeft().Constraints()
	}

	// No guarantees for cross or multi-predicate joins.
	if len(p.nodeExpressions) != 1 {
		return ConstraintSet{}
	}

	// No guarantees for non-equi joins.
	predicate := p.nodeExpressions[0]
	if !predicate.IsEquality() {
		return ConstraintSet{}
	}

	left, right := p.mustBoth()
	leftOperandUnique := HasUniqueConstraint(left, []*expression.Expression{predicate.Left})
	rightOperandUnique := HasUniqueConstraint(right, []*expression.Expression{predicate.Right})

	switch p.joinType {
	case InnerJoin:
		switch {
		case leftOperandUnique && rightOperandUnique:
			// One-to-one join: the constraints of both sides remain valid.
			return left.Constraints().Union(right.Constraints())
		case leftOperandUnique:
			// Uniqueness on the left prevents duplication of right records.
			return right.Constraints()
		case rightOperandUnique:
			// Uniqueness on the right prevents duplication of left records.
			return left.Constraints()
		default:
			return ConstraintSet{}
		}
	case LeftOuterJoin:
		// Null-padded rows for unmatched left tuples invalidate the right
		// input's constraints.
		// TODO forward the left input's constraints when applicable
		return ConstraintSet{}
	case RightOuterJoin:
		// TODO forward the right input's constraints when applicable
		return ConstraintSet{}
	case FullOuterJoin:
		// Might produce NULLs in every output column; discard everything.
		return ConstraintSet{}
	case CrossJoin:
		return ConstraintSet{}
	case SemiJoin:
		panic("optimizer: semi join constraints should already be handled")
	case AntiJoinNullAsTrue:
		// ?
		return ConstraintSet{}
	case AntiJoinNullAsFalse:
		// ?
		return ConstraintSet{}
	}
	panic(fmt.Sprintf("optimizer: unhandled join type %d", int(p.joinType)))
}

// Description 返回计划说明
func (p *LogicalJoin) Description(mode DescriptionMode) string {
	var sb strings.Builder
	sb.WriteString("[Join] Mode: ")
	sb.WriteString(p.joinType.String())
	for _, predicate := range p.nodeExpressions {
		sb.WriteString(" [")
		sb.WriteString(predicate.String())
		sb.WriteString("]")
	}
	return sb.String()
}

// Explain 返回计划说明
func (p *LogicalJoin) Explain() string {
	return p.Description(DescriptionShort)
}

// ShallowHash 返回节点的粗粒度哈希
//
// Only the join type contributes. Predicate equality is never part of the
// hash; callers must confirm candidates with ShallowEquals.
func (p *LogicalJoin) ShallowHash() uint64 {
	return shallowHash(JoinNodeType, byte(p.joinType))
}

// ShallowCopy 创建当前节点的浅拷贝
func (p *LogicalJoin) ShallowCopy(mapping NodeMapping) LogicalPlan {
	if len(p.nodeExpressions) > 0 {
		return NewLogicalJoin(p.joinType, nil, nil, expression.RemapAll(p.nodeExpressions, mapping)...)
	}
	return NewLogicalJoin(p.joinType, nil, nil)
}

// ShallowEquals 判断两个节点的自身字段是否等价
func (p *LogicalJoin) ShallowEquals(other LogicalPlan, mapping NodeMapping) bool {
	join, ok := other.(*LogicalJoin)
	if !ok {
		return false
	}
	if p.joinType != join.joinType {
		return false
	}
	return expression.Equals(p.nodeExpressions, join.nodeExpressions, mapping)
}
