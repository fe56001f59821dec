package optimizer

import (
	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// LogicalSelection 逻辑过滤（选择）
//
// Filters rows; never adds rows or columns, so schema, nullability and
// constraints all pass through from the input.
type LogicalSelection struct {
	basePlan
}

// NewLogicalSelection 创建逻辑过滤
func NewLogicalSelection(input LogicalPlan, conditions ...*expression.Expression) *LogicalSelection {
	if len(conditions) == 0 {
		panic("optimizer: selections require at least one condition")
	}
	p := &LogicalSelection{
		basePlan: newBasePlan(SelectionNodeType, conditions),
	}
	p.SetInputs(input, nil)
	return p
}

// Conditions 返回过滤条件
func (p *LogicalSelection) Conditions() []*expression.Expression {
	return p.nodeExpressions
}

// ColumnExpressions 返回输出列表达式
func (p *LogicalSelection) ColumnExpressions() []*expression.Expression {
	return p.mustLeft().ColumnExpressions()
}

// IsColumnNullable 返回指定位置的输出列是否可能为 NULL
func (p *LogicalSelection) IsColumnNullable(position int) bool {
	return p.mustLeft().IsColumnNullable(position)
}

// Constraints 返回过滤输出的唯一性约束
//
// Removing rows can never break a uniqueness guarantee.
func (p *LogicalSelection) Constraints() ConstraintSet {
	return p.mustLeft().Constraints()
}

// Description 返回计划说明
func (p *LogicalSelection) Description(mode DescriptionMode) string {
	return "[Selection] " + expression.DescribeAll(p.nodeExpressions)
}

// Explain 返回计划说明
func (p *LogicalSelection) Explain() string {
	return p.Description(DescriptionShort)
}

// ShallowHash 返回节点的粗粒度哈希
func (p *LogicalSelection) ShallowHash() uint64 {
	return shallowHash(SelectionNodeType)
}

// ShallowCopy 创建当前节点的浅拷贝
func (p *LogicalSelection) ShallowCopy(mapping NodeMapping) LogicalPlan {
	return NewLogicalSelection(nil, expression.RemapAll(p.nodeExpressions, mapping)...)
}

// ShallowEquals 判断两个节点的自身字段是否等价
func (p *LogicalSelection) ShallowEquals(other LogicalPlan, mapping NodeMapping) bool {
	selection, ok := other.(*LogicalSelection)
	if !ok {
		return false
	}
	return expression.Equals(p.nodeExpressions, selection.nodeExpressions, mapping)
}
