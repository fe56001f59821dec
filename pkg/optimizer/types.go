package optimizer

import (
	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// LogicalPlan 逻辑计划节点接口
//
// A logical plan is a DAG of operator nodes: every node has up to two inputs
// ("left"/"right") and an operator-specific ordered list of expressions (join
// predicates, projected expressions, ...). A node may be referenced by several
// parents at once; once shared it must be treated as read-only, and rewrites
// obtain their own copy through ShallowCopy/CopyPlan instead of mutating in
// place.
type LogicalPlan interface {
	// Type 返回节点类型
	Type() NodeType

	// LeftInput / RightInput 获取输入节点（可能为 nil）
	LeftInput() LogicalPlan
	RightInput() LogicalPlan

	// SetInputs 设置输入节点
	SetInputs(left, right LogicalPlan)

	// ColumnExpressions 返回输出列表达式
	//
	// The output schema is recomputed on every call. Keeping no cache keeps
	// the plan code simple; a cached schema would have to be invalidated on
	// every input-link change, which is fragile under shared DAG nodes.
	ColumnExpressions() []*expression.Expression

	// IsColumnNullable 返回指定位置的输出列是否可能为 NULL
	IsColumnNullable(position int) bool

	// Constraints returns the unique-key facts the node can currently prove
	// about its output. Derived on demand from the inputs, never stored.
	Constraints() ConstraintSet

	// NodeExpressions 返回节点自身的表达式列表（连接条件、投影表达式等）
	NodeExpressions() []*expression.Expression

	// Description 返回计划说明
	Description(mode DescriptionMode) string

	// Explain 返回计划说明（短格式）
	Explain() string

	// ShallowHash is a coarse, node-type-scoped bucketing key. Collisions are
	// expected; two nodes are the same plan fragment only if ShallowEquals
	// confirms it.
	ShallowHash() uint64

	// ShallowCopy 创建当前节点的浅拷贝
	//
	// The copy's expressions are rewritten through mapping so references to
	// inputs bind to the copies recorded there. Inputs themselves are not
	// copied; see CopyPlan for whole-subplan duplication.
	ShallowCopy(mapping NodeMapping) LogicalPlan

	// ShallowEquals 判断两个节点的自身字段是否等价
	//
	// Expressions are compared through mapping, so nodes built over
	// differently-instanced but corresponding subplans can compare equal.
	ShallowEquals(other LogicalPlan, mapping NodeMapping) bool
}

// NodeType 节点类型
type NodeType int

const (
	DataSourceNodeType NodeType = iota
	SelectionNodeType
	JoinNodeType
	ProjectionNodeType
)

// String 返回 NodeType 的字符串表示
func (nt NodeType) String() string {
	switch nt {
	case DataSourceNodeType:
		return "DataSource"
	case SelectionNodeType:
		return "Selection"
	case JoinNodeType:
		return "Join"
	case ProjectionNodeType:
		return "Projection"
	default:
		return "UNKNOWN"
	}
}

// DescriptionMode 计划描述的详细程度
type DescriptionMode int

const (
	DescriptionShort DescriptionMode = iota
	DescriptionDetailed
)

// JoinType 连接类型
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
	SemiJoin
	AntiJoinNullAsTrue
	AntiJoinNullAsFalse
)

// String 返回 JoinType 的字符串表示
func (jt JoinType) String() string {
	switch jt {
	case InnerJoin:
		return "INNER JOIN"
	case LeftOuterJoin:
		return "LEFT OUTER JOIN"
	case RightOuterJoin:
		return "RIGHT OUTER JOIN"
	case FullOuterJoin:
		return "FULL OUTER JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	case SemiJoin:
		return "SEMI JOIN"
	case AntiJoinNullAsTrue:
		return "ANTI JOIN (NULL AS TRUE)"
	case AntiJoinNullAsFalse:
		return "ANTI JOIN (NULL AS FALSE)"
	default:
		return "UNKNOWN"
	}
}

// ColumnInfo 列信息
type ColumnInfo struct {
	Name     string
	Type     string
	Nullable bool
	Primary  bool
	Unique   bool
}

// TableInfo 表信息
type TableInfo struct {
	Name     string
	Columns  []ColumnInfo
	RowCount int64
}

// Statistics 统计信息（简化版）
type Statistics struct {
	RowCount   int64
	UniqueKeys int64
	NullCount  int64
}
