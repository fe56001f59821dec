package optimizer

import (
	"fmt"

	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// LogicalDataSource 逻辑数据源（表扫描）
//
// The leaf of a plan: a stored table with declared column metadata. It is the
// source of truth for nullability and uniqueness; everything above it only
// derives.
type LogicalDataSource struct {
	basePlan
	tableInfo *TableInfo
	columns   []*expression.Expression
	stats     *Statistics
}

// NewLogicalDataSource 创建逻辑数据源
//
// The node's column expressions are created once, bound to the node itself,
// so that predicates and constraints built on top of it share stable
// references.
func NewLogicalDataSource(tableInfo *TableInfo) *LogicalDataSource {
	if tableInfo == nil || tableInfo.Name == "" {
		panic("optimizer: data sources require table metadata")
	}
	p := &LogicalDataSource{
		basePlan:  newBasePlan(DataSourceNodeType, nil),
		tableInfo: tableInfo,
	}
	p.columns = make([]*expression.Expression, len(tableInfo.Columns))
	for i, col := range tableInfo.Columns {
		p.columns[i] = expression.NewColumn(p, i, col.Name)
	}
	return p
}

// Table 返回表名
func (p *LogicalDataSource) Table() string {
	return p.tableInfo.Name
}

// TableInfo 返回表信息
func (p *LogicalDataSource) TableInfo() *TableInfo {
	return p.tableInfo
}

// Column returns the column expression with the given name.
func (p *LogicalDataSource) Column(name string) (*expression.Expression, bool) {
	for _, col := range p.columns {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// ResolveColumn implements the column lookup used by the SQL adapter.
func (p *LogicalDataSource) ResolveColumn(name string) (*expression.Expression, bool) {
	return p.Column(name)
}

// ColumnExpressions 返回输出列表达式
func (p *LogicalDataSource) ColumnExpressions() []*expression.Expression {
	out := make([]*expression.Expression, len(p.columns))
	copy(out, p.columns)
	return out
}

// IsColumnNullable 返回指定位置的输出列是否可能为 NULL
func (p *LogicalDataSource) IsColumnNullable(position int) bool {
	return p.tableInfo.Columns[position].Nullable
}

// Constraints 返回声明的唯一性约束
func (p *LogicalDataSource) Constraints() ConstraintSet {
	out := ConstraintSet{}
	for i, col := range p.tableInfo.Columns {
		if col.Primary || col.Unique {
			out = append(out, NewConstraint(p.columns[i]))
		}
	}
	return out
}

// SetStatistics 设置统计信息
func (p *LogicalDataSource) SetStatistics(stats *Statistics) {
	p.stats = stats
}

// RowCount 返回预估行数
func (p *LogicalDataSource) RowCount() int64 {
	if p.stats != nil {
		return p.stats.RowCount
	}
	return p.tableInfo.RowCount
}

// Description 返回计划说明
func (p *LogicalDataSource) Description(mode DescriptionMode) string {
	if mode == DescriptionDetailed {
		return fmt.Sprintf("[DataSource] %s (%d columns)", p.tableInfo.Name, len(p.columns))
	}
	return "[DataSource] " + p.tableInfo.Name
}

// Explain 返回计划说明
func (p *LogicalDataSource) Explain() string {
	return p.Description(DescriptionShort)
}

// ShallowHash 返回节点的粗粒度哈希
func (p *LogicalDataSource) ShallowHash() uint64 {
	return shallowHash(DataSourceNodeType, []byte(p.tableInfo.Name)...)
}

// ShallowCopy 创建当前节点的浅拷贝
//
// The copy owns fresh column expressions bound to itself; expressions of the
// original rebind to them through the node mapping.
func (p *LogicalDataSource) ShallowCopy(mapping NodeMapping) LogicalPlan {
	return NewLogicalDataSource(p.tableInfo)
}

// ShallowEquals 判断两个节点的自身字段是否等价
func (p *LogicalDataSource) ShallowEquals(other LogicalPlan, mapping NodeMapping) bool {
	ds, ok := other.(*LogicalDataSource)
	if !ok {
		return false
	}
	return p.tableInfo.Name == ds.tableInfo.Name
}
