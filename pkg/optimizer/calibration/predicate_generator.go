package calibration

import (
	"fmt"
	"strings"

	"github.com/kasuganosora/logicalplan/pkg/expression"
	"github.com/kasuganosora/logicalplan/pkg/optimizer"
)

// GeneratorContext is what every predicate generator receives: the table to
// scan, the calibration column specifications, and the grid point to hit.
type GeneratorContext struct {
	Table         *optimizer.LogicalDataSource
	Columns       []ColumnSpecification
	Configuration PredicateConfiguration
}

// PredicateGenerator synthesizes one predicate expression for a grid point.
// Generators return nil when the table has no suitable columns; the caller
// skips the grid point.
type PredicateGenerator func(ctx GeneratorContext) *expression.Expression

// BetweenValueValue generates "column BETWEEN lower AND upper".
func BetweenValueValue(ctx GeneratorContext) *expression.Expression {
	column := findColumn(ctx, 0)
	if column == nil {
		return nil
	}
	lower := valueFor(ctx.Configuration, ctx.Configuration.Selectivity/2)
	upper := valueFor(ctx.Configuration, ctx.Configuration.Selectivity)
	return expression.NewOperator(expression.OpBetween, column,
		expression.NewOperator(expression.OpAnd, lower, upper))
}

// BetweenColumnColumn generates "column BETWEEN column2 AND column3".
func BetweenColumnColumn(ctx GeneratorContext) *expression.Expression {
	first := findColumn(ctx, 0)
	second := findColumn(ctx, 1)
	third := findColumn(ctx, 2)
	if first == nil || second == nil || third == nil {
		return nil
	}
	return expression.NewOperator(expression.OpBetween, first,
		expression.NewOperator(expression.OpAnd, second, third))
}

// ColumnValue generates "column <= value" with the value placed at the
// configured selectivity of the column domain.
func ColumnValue(ctx GeneratorContext) *expression.Expression {
	column := findColumn(ctx, 0)
	if column == nil {
		return nil
	}
	return expression.NewOperator(expression.OpLessThanEquals, column,
		valueFor(ctx.Configuration, ctx.Configuration.Selectivity))
}

// ColumnColumn generates "column > column2" over two columns of the
// configured data type.
func ColumnColumn(ctx GeneratorContext) *expression.Expression {
	first := findColumn(ctx, 0)
	second := findColumn(ctx, 1)
	if first == nil || second == nil {
		return nil
	}
	return expression.NewOperator(expression.OpGreaterThan, first, second)
}

// Like generates "column LIKE 'prefix%'"; string columns only.
func Like(ctx GeneratorContext) *expression.Expression {
	if ctx.Configuration.DataType != DataTypeString {
		return nil
	}
	column := findColumn(ctx, 0)
	if column == nil {
		return nil
	}
	prefix := stringBoundary(ctx.Configuration.Selectivity)
	return expression.NewOperator(expression.OpLike, column, expression.NewValue(prefix+"%"))
}

// EquiOnStrings generates "column = 'value'"; string columns only.
func EquiOnStrings(ctx GeneratorContext) *expression.Expression {
	if ctx.Configuration.DataType != DataTypeString {
		return nil
	}
	column := findColumn(ctx, 0)
	if column == nil {
		return nil
	}
	return expression.NewEquals(column, expression.NewValue(stringBoundary(ctx.Configuration.Selectivity)))
}

// Or generates the disjunction of two column-value predicates, each carrying
// half the configured selectivity.
func Or(ctx GeneratorContext) *expression.Expression {
	column := findColumn(ctx, 0)
	if column == nil {
		return nil
	}
	half := ctx.Configuration.Selectivity / 2
	left := expression.NewOperator(expression.OpLessThanEquals, column, valueFor(ctx.Configuration, half))
	right := expression.NewOperator(expression.OpGreaterEquals, column, valueFor(ctx.Configuration, 1-half))
	return expression.NewOperator(expression.OpOr, left, right)
}

// findColumn returns the table's column expression for the skip-th column
// specification matching the configured data type and first encoding.
func findColumn(ctx GeneratorContext, skip int) *expression.Expression {
	matched := 0
	for _, spec := range ctx.Columns {
		if spec.DataType != ctx.Configuration.DataType {
			continue
		}
		if ctx.Configuration.FirstEncoding != "" && spec.Encoding != ctx.Configuration.FirstEncoding {
			continue
		}
		if matched == skip {
			column, ok := ctx.Table.Column(spec.Name)
			if !ok {
				return nil
			}
			return column
		}
		matched++
	}
	return nil
}

// valueFor places a literal at the given fraction of the column domain. The
// calibration tables fill int columns with [0, RowCount), float columns with
// [0, 1), and string columns with uppercase-letter prefixes, so the boundary
// value is a pure function of selectivity.
func valueFor(conf PredicateConfiguration, fraction float64) *expression.Expression {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	switch conf.DataType {
	case DataTypeInt:
		return expression.NewValue(int64(fraction * float64(conf.RowCount)))
	case DataTypeFloat:
		return expression.NewValue(fraction)
	case DataTypeString:
		return expression.NewValue(stringBoundary(fraction))
	}
	panic(fmt.Sprintf("calibration: unhandled data type %q", conf.DataType))
}

// stringBoundary maps a fraction onto the 'A'..'Z' prefix domain.
func stringBoundary(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction >= 1 {
		fraction = 0.999
	}
	letter := byte('A' + int(fraction*26))
	return strings.Repeat(string(letter), 2)
}
