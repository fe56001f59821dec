package expression

import (
	"fmt"
	"strings"
)

// ColumnOrigin is the plan node a column expression reads from. Plan nodes in
// pkg/optimizer satisfy this interface; the expression layer only needs to ask
// the origin about nullability and to use it as a stable identity when a
// subplan is copied.
type ColumnOrigin interface {
	IsColumnNullable(position int) bool
}

// NodeMapping translates original plan nodes to their copies. It is built
// incrementally while a subplan is duplicated, and passed explicitly through
// every Remap/Equal call. A node absent from the mapping translates to itself,
// so the empty mapping is the identity mapping.
type NodeMapping map[ColumnOrigin]ColumnOrigin

// Resolve returns the copy recorded for origin, or origin itself if there is
// no entry.
func (m NodeMapping) Resolve(origin ColumnOrigin) ColumnOrigin {
	if m == nil {
		return origin
	}
	if mapped, ok := m[origin]; ok {
		return mapped
	}
	return origin
}

// ExprType 表达式类型
type ExprType string

const (
	ExprTypeColumn   ExprType = "COLUMN"
	ExprTypeValue    ExprType = "VALUE"
	ExprTypeOperator ExprType = "OPERATOR"
)

// Comparison and logical operators. TiDB's parser reports lowercase opcode
// names ("eq", "lt", ...); pkg/parser normalizes them to these.
const (
	OpEquals         = "="
	OpNotEquals      = "!="
	OpLessThan       = "<"
	OpLessThanEquals = "<="
	OpGreaterThan    = ">"
	OpGreaterEquals  = ">="
	OpLike           = "LIKE"
	OpBetween        = "BETWEEN"
	OpAnd            = "AND"
	OpOr             = "OR"
)

// Expression is one node of a scalar/predicate tree.
//
// COLUMN expressions are bound to the plan node that produces them (Origin)
// and the position of the column in that node's output. Literal values are
// restricted to comparable scalars (int64, float64, string, bool, nil).
type Expression struct {
	Type ExprType

	// COLUMN
	Origin   ColumnOrigin
	ColumnID int
	Name     string

	// VALUE
	Value interface{}

	// OPERATOR
	Operator string
	Left     *Expression
	Right    *Expression
}

// NewColumn 创建列引用表达式
func NewColumn(origin ColumnOrigin, columnID int, name string) *Expression {
	return &Expression{
		Type:     ExprTypeColumn,
		Origin:   origin,
		ColumnID: columnID,
		Name:     name,
	}
}

// NewValue 创建字面量表达式
func NewValue(value interface{}) *Expression {
	return &Expression{
		Type:  ExprTypeValue,
		Value: value,
	}
}

// NewOperator 创建二元运算表达式
func NewOperator(operator string, left, right *Expression) *Expression {
	return &Expression{
		Type:     ExprTypeOperator,
		Operator: operator,
		Left:     left,
		Right:    right,
	}
}

// NewEquals creates a binary equality predicate.
func NewEquals(left, right *Expression) *Expression {
	return NewOperator(OpEquals, left, right)
}

// IsEquality reports whether the expression is a simple binary equality
// predicate. The join constraint procedure only reasons about these.
func (e *Expression) IsEquality() bool {
	return e.Type == ExprTypeOperator && e.Operator == OpEquals && e.Left != nil && e.Right != nil
}

// Nullable reports whether the expression may evaluate to NULL for the row
// population of its origin. Columns delegate to the producing node; an
// operator is nullable if any operand it reads is nullable.
func (e *Expression) Nullable() bool {
	switch e.Type {
	case ExprTypeColumn:
		return e.Origin.IsColumnNullable(e.ColumnID)
	case ExprTypeValue:
		return e.Value == nil
	case ExprTypeOperator:
		if e.Left != nil && e.Left.Nullable() {
			return true
		}
		if e.Right != nil && e.Right.Nullable() {
			return true
		}
		return false
	}
	panic(fmt.Sprintf("expression: unhandled expression type %q", e.Type))
}

// Equal reports structural equality once both expressions are interpreted
// through mapping: a column of this tree matches a column of other if it is
// bound to the node that mapping records as the counterpart of its own origin.
// Pass nil (or an empty mapping) to compare within the same plan.
func (e *Expression) Equal(other *Expression, mapping NodeMapping) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Type != other.Type {
		return false
	}
	switch e.Type {
	case ExprTypeColumn:
		return mapping.Resolve(e.Origin) == other.Origin && e.ColumnID == other.ColumnID
	case ExprTypeValue:
		return e.Value == other.Value
	case ExprTypeOperator:
		return e.Operator == other.Operator &&
			e.Left.Equal(other.Left, mapping) &&
			e.Right.Equal(other.Right, mapping)
	}
	panic(fmt.Sprintf("expression: unhandled expression type %q", e.Type))
}

// Remap returns a copy of the expression with every column origin translated
// through mapping. The receiver is never mutated; shared subtrees are copied.
func (e *Expression) Remap(mapping NodeMapping) *Expression {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Type == ExprTypeColumn {
		clone.Origin = mapping.Resolve(e.Origin)
		return &clone
	}
	clone.Left = e.Left.Remap(mapping)
	clone.Right = e.Right.Remap(mapping)
	return &clone
}

// String 返回表达式的可读描述
func (e *Expression) String() string {
	switch e.Type {
	case ExprTypeColumn:
		return e.Name
	case ExprTypeValue:
		if e.Value == nil {
			return "NULL"
		}
		if s, ok := e.Value.(string); ok {
			return "'" + s + "'"
		}
		return fmt.Sprintf("%v", e.Value)
	case ExprTypeOperator:
		return e.Left.String() + " " + e.Operator + " " + e.Right.String()
	}
	return "?"
}

// Equals reports ordered, mapping-aware equality of two expression lists.
// Lists of different length are unequal.
func Equals(a, b []*Expression, mapping NodeMapping) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i], mapping) {
			return false
		}
	}
	return true
}

// RemapAll remaps every expression of a list, preserving order.
func RemapAll(exprs []*Expression, mapping NodeMapping) []*Expression {
	if exprs == nil {
		return nil
	}
	remapped := make([]*Expression, len(exprs))
	for i, e := range exprs {
		remapped[i] = e.Remap(mapping)
	}
	return remapped
}

// DescribeAll renders an expression list as "a, b, c".
func DescribeAll(exprs []*Expression) string {
	var sb strings.Builder
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}
