package cost

import (
	"fmt"
	"sort"

	"github.com/spf13/cast"

	"github.com/kasuganosora/logicalplan/pkg/expression"
	"github.com/kasuganosora/logicalplan/pkg/optimizer"
)

// Features is the serialization contract of one plan node's cost features:
// a generic map for storage and debugging, and a float map for the downstream
// cost model.
type Features interface {
	// Serialize returns feature name -> generic value.
	Serialize() map[string]interface{}

	// ToCostModelFeatures returns feature name -> float. Categorical values
	// that have no numeric reading are omitted.
	ToCostModelFeatures() map[string]float64

	// FeatureNames returns the sorted feature names.
	FeatureNames() []string
}

// TableScanFeatures describe a data source node.
type TableScanFeatures struct {
	TableName   string
	RowCount    int64
	ColumnCount int
}

// Serialize 序列化特征
func (f TableScanFeatures) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"table_name":   f.TableName,
		"row_count":    f.RowCount,
		"column_count": f.ColumnCount,
	}
}

// ToCostModelFeatures 返回数值特征
func (f TableScanFeatures) ToCostModelFeatures() map[string]float64 {
	return toFloats(f.Serialize())
}

// FeatureNames 返回特征名称
func (f TableScanFeatures) FeatureNames() []string {
	return names(f.Serialize())
}

// SelectionFeatures describe a selection node.
type SelectionFeatures struct {
	ConditionCount    int
	OutputColumnCount int
}

// Serialize 序列化特征
func (f SelectionFeatures) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"condition_count":     f.ConditionCount,
		"output_column_count": f.OutputColumnCount,
	}
}

// ToCostModelFeatures 返回数值特征
func (f SelectionFeatures) ToCostModelFeatures() map[string]float64 {
	return toFloats(f.Serialize())
}

// FeatureNames 返回特征名称
func (f SelectionFeatures) FeatureNames() []string {
	return names(f.Serialize())
}

// JoinFeatures describe a join node.
type JoinFeatures struct {
	JoinType            string
	PredicateCount      int
	LeftColumnCount     int
	RightColumnCount    int
	OutputColumnCount   int
	NullableColumnCount int
	ConstraintCount     int
}

// Serialize 序列化特征
func (f JoinFeatures) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"join_type":             f.JoinType,
		"predicate_count":       f.PredicateCount,
		"left_column_count":     f.LeftColumnCount,
		"right_column_count":    f.RightColumnCount,
		"output_column_count":   f.OutputColumnCount,
		"nullable_column_count": f.NullableColumnCount,
		"constraint_count":      f.ConstraintCount,
	}
}

// ToCostModelFeatures 返回数值特征
func (f JoinFeatures) ToCostModelFeatures() map[string]float64 {
	return toFloats(f.Serialize())
}

// FeatureNames 返回特征名称
func (f JoinFeatures) FeatureNames() []string {
	return names(f.Serialize())
}

// ProjectionFeatures describe a projection node.
type ProjectionFeatures struct {
	ExpressionCount int
	ComputedCount   int
	NullableCount   int
}

// Serialize 序列化特征
func (f ProjectionFeatures) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"expression_count": f.ExpressionCount,
		"computed_count":   f.ComputedCount,
		"nullable_count":   f.NullableCount,
	}
}

// ToCostModelFeatures 返回数值特征
func (f ProjectionFeatures) ToCostModelFeatures() map[string]float64 {
	return toFloats(f.Serialize())
}

// FeatureNames 返回特征名称
func (f ProjectionFeatures) FeatureNames() []string {
	return names(f.Serialize())
}

// ExtractFeatures derives the feature vector of a single plan node.
func ExtractFeatures(node optimizer.LogicalPlan) (Features, error) {
	switch n := node.(type) {
	case *optimizer.LogicalDataSource:
		return TableScanFeatures{
			TableName:   n.Table(),
			RowCount:    n.RowCount(),
			ColumnCount: len(n.ColumnExpressions()),
		}, nil

	case *optimizer.LogicalSelection:
		return SelectionFeatures{
			ConditionCount:    len(n.Conditions()),
			OutputColumnCount: len(n.ColumnExpressions()),
		}, nil

	case *optimizer.LogicalJoin:
		output := n.ColumnExpressions()
		nullable := 0
		for i := range output {
			if n.IsColumnNullable(i) {
				nullable++
			}
		}
		return JoinFeatures{
			JoinType:            n.GetJoinType().String(),
			PredicateCount:      len(n.JoinPredicates()),
			LeftColumnCount:     len(n.LeftInput().ColumnExpressions()),
			RightColumnCount:    len(n.RightInput().ColumnExpressions()),
			OutputColumnCount:   len(output),
			NullableColumnCount: nullable,
			ConstraintCount:     len(n.Constraints()),
		}, nil

	case *optimizer.LogicalProjection:
		computed := 0
		nullable := 0
		for i, e := range n.Expressions() {
			if e.Type != expression.ExprTypeColumn {
				computed++
			}
			if n.IsColumnNullable(i) {
				nullable++
			}
		}
		return ProjectionFeatures{
			ExpressionCount: len(n.Expressions()),
			ComputedCount:   computed,
			NullableCount:   nullable,
		}, nil
	}

	return nil, fmt.Errorf("cost: no feature extraction for node type %s", node.Type())
}

func toFloats(serialized map[string]interface{}) map[string]float64 {
	floats := make(map[string]float64, len(serialized))
	for name, value := range serialized {
		f, err := cast.ToFloat64E(value)
		if err != nil {
			continue // categorical feature, storage only
		}
		floats[name] = f
	}
	return floats
}

func names(serialized map[string]interface{}) []string {
	out := make([]string, 0, len(serialized))
	for name := range serialized {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
