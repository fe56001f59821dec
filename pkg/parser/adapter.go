package parser

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"github.com/kasuganosora/logicalplan/pkg/expression"
)

// ColumnResolver binds a column name to the expression that produces it.
// *optimizer.LogicalDataSource implements it.
type ColumnResolver interface {
	ResolveColumn(name string) (*expression.Expression, bool)
}

// SQLAdapter SQL 解析适配器
//
// Wraps the TiDB parser and converts predicate ASTs into the expression model,
// binding column references through a ColumnResolver. Parse failures and
// unsupported constructs are ordinary errors: the input is user text, not an
// optimizer invariant.
type SQLAdapter struct {
	parser *parser.Parser
}

// NewSQLAdapter 创建 SQL 适配器
func NewSQLAdapter() *SQLAdapter {
	return &SQLAdapter{
		parser: parser.New(),
	}
}

// ParseWhere parses a full SELECT statement and converts its WHERE clause.
func (a *SQLAdapter) ParseWhere(sql string, resolver ColumnResolver) (*expression.Expression, error) {
	stmtNodes, _, err := a.parser.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("parse SQL failed: %w", err)
	}
	if len(stmtNodes) == 0 {
		return nil, fmt.Errorf("no statements found")
	}

	stmt, ok := stmtNodes[0].(*ast.SelectStmt)
	if !ok {
		return nil, fmt.Errorf("expected a SELECT statement, got %T", stmtNodes[0])
	}
	if stmt.Where == nil {
		return nil, fmt.Errorf("statement has no WHERE clause")
	}
	return a.convertExpression(stmt.Where, resolver)
}

// ParsePredicate parses a bare predicate ("a = b AND c < 3") by wrapping it
// into a SELECT statement.
func (a *SQLAdapter) ParsePredicate(predicate string, resolver ColumnResolver) (*expression.Expression, error) {
	return a.ParseWhere("SELECT * FROM t WHERE "+predicate, resolver)
}

// convertExpression 转换表达式
func (a *SQLAdapter) convertExpression(node ast.ExprNode, resolver ColumnResolver) (*expression.Expression, error) {
	switch n := node.(type) {
	case *ast.BinaryOperationExpr:
		operator, err := normalizeOperator(n.Op.String())
		if err != nil {
			return nil, err
		}
		left, err := a.convertExpression(n.L, resolver)
		if err != nil {
			return nil, err
		}
		right, err := a.convertExpression(n.R, resolver)
		if err != nil {
			return nil, err
		}
		return expression.NewOperator(operator, left, right), nil

	case *ast.ColumnNameExpr:
		name := n.Name.Name.String()
		column, ok := resolver.ResolveColumn(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		return column, nil

	case ast.ValueExpr:
		return expression.NewValue(n.GetValue()), nil

	case *ast.PatternLikeOrIlikeExpr:
		if n.Not {
			return nil, fmt.Errorf("NOT LIKE is not supported")
		}
		left, err := a.convertExpression(n.Expr, resolver)
		if err != nil {
			return nil, err
		}
		pattern, err := a.convertExpression(n.Pattern, resolver)
		if err != nil {
			return nil, err
		}
		return expression.NewOperator(expression.OpLike, left, pattern), nil

	case *ast.BetweenExpr:
		if n.Not {
			return nil, fmt.Errorf("NOT BETWEEN is not supported")
		}
		column, err := a.convertExpression(n.Expr, resolver)
		if err != nil {
			return nil, err
		}
		lower, err := a.convertExpression(n.Left, resolver)
		if err != nil {
			return nil, err
		}
		upper, err := a.convertExpression(n.Right, resolver)
		if err != nil {
			return nil, err
		}
		// column BETWEEN a AND b carries its bounds as an AND pair.
		return expression.NewOperator(expression.OpBetween, column,
			expression.NewOperator(expression.OpAnd, lower, upper)), nil

	case *ast.ParenthesesExpr:
		return a.convertExpression(n.Expr, resolver)

	default:
		return nil, fmt.Errorf("unsupported expression node %T", node)
	}
}

// normalizeOperator maps TiDB's lowercase opcode names ("eq", "lt", ...) to
// the expression model's canonical operator strings.
func normalizeOperator(op string) (string, error) {
	switch op {
	case "eq", "==", "=":
		return expression.OpEquals, nil
	case "ne", "!=", "<>":
		return expression.OpNotEquals, nil
	case "lt", "<":
		return expression.OpLessThan, nil
	case "le", "<=":
		return expression.OpLessThanEquals, nil
	case "gt", ">":
		return expression.OpGreaterThan, nil
	case "ge", ">=":
		return expression.OpGreaterEquals, nil
	case "and", "&&":
		return expression.OpAnd, nil
	case "or", "||":
		return expression.OpOr, nil
	default:
		return "", fmt.Errorf("unsupported operator %q", op)
	}
}
