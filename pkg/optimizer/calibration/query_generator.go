package calibration

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kasuganosora/logicalplan/pkg/expression"
	"github.com/kasuganosora/logicalplan/pkg/optimizer"
)

// CalibrationQuery is one generated workload entry. The ID correlates the
// plan with measured runtimes and serialized features downstream.
type CalibrationQuery struct {
	ID   string
	Root optimizer.LogicalPlan
	SQL  string
}

// GeneratePredicates runs the generator for the grid point and wraps each
// produced predicate into a selection node over the table. Grid points the
// generator cannot serve yield an empty slice, not an error.
func GeneratePredicates(generator PredicateGenerator, columns []ColumnSpecification,
	table *optimizer.LogicalDataSource, conf PredicateConfiguration) []*optimizer.LogicalSelection {

	predicate := generator(GeneratorContext{
		Table:         table,
		Columns:       columns,
		Configuration: conf,
	})
	if predicate == nil {
		return nil
	}
	return []*optimizer.LogicalSelection{optimizer.NewLogicalSelection(table, predicate)}
}

// GenerateQueries builds a calibration query per generator: a projection of
// all table columns over the generated selection, rendered to SQL alongside
// the plan.
func GenerateQueries(generators []PredicateGenerator, columns []ColumnSpecification,
	table *optimizer.LogicalDataSource, conf PredicateConfiguration) []CalibrationQuery {

	queries := make([]CalibrationQuery, 0, len(generators))
	for _, generator := range generators {
		selections := GeneratePredicates(generator, columns, table, conf)
		for _, selection := range selections {
			projection := optimizer.NewLogicalProjection(selection, table.ColumnExpressions()...)
			queries = append(queries, CalibrationQuery{
				ID:   uuid.New().String(),
				Root: projection,
				SQL:  renderSQL(projection, selection, table),
			})
		}
	}
	return queries
}

// DefaultGenerators is the interchangeable functor set.
func DefaultGenerators() []PredicateGenerator {
	return []PredicateGenerator{
		BetweenValueValue,
		BetweenColumnColumn,
		ColumnValue,
		ColumnColumn,
		Like,
		EquiOnStrings,
		Or,
	}
}

func renderSQL(projection *optimizer.LogicalProjection, selection *optimizer.LogicalSelection,
	table *optimizer.LogicalDataSource) string {

	return fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		expression.DescribeAll(projection.Expressions()),
		table.Table(),
		expression.DescribeAll(selection.Conditions()))
}
