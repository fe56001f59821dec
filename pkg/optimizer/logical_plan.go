package optimizer

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// basePlan holds what every node has: the DAG linkage and the node's own
// expression list. Concrete nodes embed it and add their semantics.
type basePlan struct {
	nodeType        NodeType
	left            LogicalPlan
	right           LogicalPlan
	nodeExpressions []*expression.Expression
}

func newBasePlan(nodeType NodeType, exprs []*expression.Expression) basePlan {
	return basePlan{
		nodeType:        nodeType,
		nodeExpressions: exprs,
	}
}

// Type 返回节点类型
func (p *basePlan) Type() NodeType {
	return p.nodeType
}

// LeftInput 获取左输入
func (p *basePlan) LeftInput() LogicalPlan {
	return p.left
}

// RightInput 获取右输入
func (p *basePlan) RightInput() LogicalPlan {
	return p.right
}

// SetInputs 设置输入节点
func (p *basePlan) SetInputs(left, right LogicalPlan) {
	p.left = left
	p.right = right
}

// NodeExpressions 返回节点自身的表达式列表
func (p *basePlan) NodeExpressions() []*expression.Expression {
	return p.nodeExpressions
}

// mustLeft returns the left input or panics. Querying a node whose required
// inputs are missing is a programming error in the caller, not a recoverable
// condition.
func (p *basePlan) mustLeft() LogicalPlan {
	if p.left == nil {
		panic(fmt.Sprintf("optimizer: %s node queried without a left input", p.nodeType))
	}
	return p.left
}

// mustBoth returns both inputs or panics.
func (p *basePlan) mustBoth() (LogicalPlan, LogicalPlan) {
	if p.left == nil || p.right == nil {
		panic(fmt.Sprintf("optimizer: %s node queried without both inputs", p.nodeType))
	}
	return p.left, p.right
}

// shallowHash hashes the node type plus any operator-specific tag bytes.
// Deliberately coarse: expressions never contribute, so the hash only narrows
// candidates and ShallowEquals settles the rest.
func shallowHash(nodeType NodeType, extra ...byte) uint64 {
	buf := make([]byte, 0, 1+len(extra))
	buf = append(buf, byte(nodeType))
	buf = append(buf, extra...)
	return xxhash.Sum64(buf)
}
