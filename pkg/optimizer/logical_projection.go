package optimizer

import (
	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// LogicalProjection 逻辑投影
//
// The stored expression list is the output schema, in order, including
// computed columns.
type LogicalProjection struct {
	basePlan
}

// NewLogicalProjection 创建逻辑投影
func NewLogicalProjection(input LogicalPlan, exprs ...*expression.Expression) *LogicalProjection {
	if len(exprs) == 0 {
		panic("optimizer: projections require at least one expression")
	}
	p := &LogicalProjection{
		basePlan: newBasePlan(ProjectionNodeType, exprs),
	}
	p.SetInputs(input, nil)
	return p
}

// Expressions 返回投影表达式
func (p *LogicalProjection) Expressions() []*expression.Expression {
	return p.nodeExpressions
}

// ColumnExpressions 返回输出列表达式
func (p *LogicalProjection) ColumnExpressions() []*expression.Expression {
	out := make([]*expression.Expression, len(p.nodeExpressions))
	copy(out, p.nodeExpressions)
	return out
}

// IsColumnNullable 返回指定位置的输出列是否可能为 NULL
//
// Direct column references delegate to the producing node; other expressions
// report their own nullability (nullable iff any operand read is nullable).
func (p *LogicalProjection) IsColumnNullable(position int) bool {
	return p.nodeExpressions[position].Nullable()
}

// Constraints 返回投影输出的唯一性约束
//
// A projection neither adds nor removes rows, so an input constraint stays
// valid as long as every one of its key columns is still projected.
func (p *LogicalProjection) Constraints() ConstraintSet {
	input := p.mustLeft()
	out := ConstraintSet{}
	for _, c := range input.Constraints() {
		if c.CoveredBy(p.nodeExpressions) {
			out = append(out, c)
		}
	}
	return out
}

// Description 返回计划说明
func (p *LogicalProjection) Description(mode DescriptionMode) string {
	return "[Projection] " + expression.DescribeAll(p.nodeExpressions)
}

// Explain 返回计划说明
func (p *LogicalProjection) Explain() string {
	return p.Description(DescriptionShort)
}

// ShallowHash 返回节点的粗粒度哈希
func (p *LogicalProjection) ShallowHash() uint64 {
	return shallowHash(ProjectionNodeType)
}

// ShallowCopy 创建当前节点的浅拷贝
func (p *LogicalProjection) ShallowCopy(mapping NodeMapping) LogicalPlan {
	return NewLogicalProjection(nil, expression.RemapAll(p.nodeExpressions, mapping)...)
}

// ShallowEquals 判断两个节点的自身字段是否等价
func (p *LogicalProjection) ShallowEquals(other LogicalPlan, mapping NodeMapping) bool {
	projection, ok := other.(*LogicalProjection)
	if !ok {
		return false
	}
	return expression.Equals(p.nodeExpressions, projection.nodeExpressions, mapping)
}
