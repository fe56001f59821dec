package optimizer

import (
	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// NodeMapping 原始节点到拷贝节点的映射
//
// Shared with pkg/expression so that remapping a node's expressions and
// remapping the DAG itself go through the same translation table. The empty
// mapping is the identity mapping.
type NodeMapping = expression.NodeMapping

// CopyPlan duplicates a whole subplan. Inputs are copied before their parents
// so that, by the time a node is shallow-copied, the mapping already records
// the copies its expressions must rebind to. Nodes shared by several parents
// are copied exactly once and the copy is shared the same way.
//
// The returned mapping translates every node of the original subplan to its
// copy; the original is never mutated.
func CopyPlan(root LogicalPlan) (LogicalPlan, NodeMapping) {
	mapping := NodeMapping{}
	copied := copyPlan(root, mapping)
	debugf("CopyPlan: copied %d nodes\n", len(mapping))
	return copied, mapping
}

func copyPlan(node LogicalPlan, mapping NodeMapping) LogicalPlan {
	if node == nil {
		return nil
	}
	if copied, ok := mapping[node]; ok {
		return copied.(LogicalPlan)
	}

	left := copyPlan(node.LeftInput(), mapping)
	right := copyPlan(node.RightInput(), mapping)

	copied := node.ShallowCopy(mapping)
	copied.SetInputs(left, right)
	mapping[node] = copied
	return copied
}

// PlansEqual reports whether two plans are structurally equal: same shape,
// and every pair of corresponding nodes shallow-equal under the mapping built
// from the parallel traversal.
func PlansEqual(a, b LogicalPlan) bool {
	return plansEqual(a, b, NodeMapping{})
}

func plansEqual(a, b LogicalPlan, mapping NodeMapping) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if mapped, ok := mapping[a]; ok {
		// Shared node: it must correspond to the same counterpart everywhere.
		return mapped == ColumnOriginOf(b)
	}
	if !plansEqual(a.LeftInput(), b.LeftInput(), mapping) {
		return false
	}
	if !plansEqual(a.RightInput(), b.RightInput(), mapping) {
		return false
	}
	mapping[a] = b
	return a.ShallowEquals(b, mapping)
}

// ColumnOriginOf adapts a plan node to the expression layer's origin type.
// Every LogicalPlan already satisfies expression.ColumnOrigin; this exists for
// call sites that need the conversion to be explicit.
func ColumnOriginOf(p LogicalPlan) expression.ColumnOrigin {
	return p
}
