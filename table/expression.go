package table

import (
	"fmt"
	"slices"
	"strings"
)

// ExprOp represents an expression operator.
type ExprOp int

const (
	OpAnd ExprOp = iota
	OpOr
	OpNot
	OpEq
	OpNotEq
	OpLt
	OpLte
	OpGt
	OpGte
	OpIn
	OpNotIn
	OpIsMissing
	OpNotMissing
	OpStartsWith
)

// String returns the string representation of the operator.
func (op ExprOp) String() string {
	switch op {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	case OpEq:
		return "="
	case OpNotEq:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT IN"
	case OpIsMissing:
		return "IS MISSING"
	case OpNotMissing:
		return "IS NOT MISSING"
	case OpStartsWith:
		return "STARTS WITH"
	default:
		return "UNKNOWN"
	}
}

// Expression is a row predicate used by Filter.
type Expression struct {
	Op       ExprOp
	Column   string
	Value    any
	Values   []any
	Children []*Expression
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	if e == nil {
		return "nil"
	}

	switch e.Op {
	case OpAnd, OpOr:
		parts := make([]string, len(e.Children))
		for i, child := range e.Children {
			parts[i] = child.String()
		}
		return "(" + strings.Join(parts, " "+e.Op.String()+" ") + ")"
	case OpNot:
		if len(e.Children) > 0 {
			return fmt.Sprintf("NOT %s", e.Children[0].String())
		}
		return "NOT nil"
	case OpIn, OpNotIn:
		return fmt.Sprintf("%s %s %v", e.Column, e.Op.String(), e.Values)
	case OpIsMissing, OpNotMissing:
		return fmt.Sprintf("%s %s", e.Column, e.Op.String())
	default:
		return fmt.Sprintf("%s %s %v", e.Column, e.Op.String(), e.Value)
	}
}

// Columns returns the columns referenced by the expression, sorted and
// without duplicates.
func (e *Expression) Columns() []string {
	if e == nil {
		return nil
	}

	var columns []string
	e.collectColumns(&columns)
	slices.Sort(columns)
	return slices.Compact(columns)
}

func (e *Expression) collectColumns(columns *[]string) {
	if e.Column != "" {
		*columns = append(*columns, e.Column)
	}
	for _, child := range e.Children {
		child.collectColumns(columns)
	}
}

// ExprBuilder helps build filter expressions.
type ExprBuilder struct {
	column string
}

// Col creates a new expression builder for the given column.
func Col(name string) *ExprBuilder {
	return &ExprBuilder{column: name}
}

func (b *ExprBuilder) compare(op ExprOp, value any) *Expression {
	return &Expression{Op: op, Column: b.column, Value: value}
}

// Eq creates an equality expression.
func (b *ExprBuilder) Eq(value any) *Expression { return b.compare(OpEq, value) }

// NotEq creates a not-equal expression.
func (b *ExprBuilder) NotEq(value any) *Expression { return b.compare(OpNotEq, value) }

// Lt creates a less-than expression.
func (b *ExprBuilder) Lt(value any) *Expression { return b.compare(OpLt, value) }

// Lte creates a less-than-or-equal expression.
func (b *ExprBuilder) Lte(value any) *Expression { return b.compare(OpLte, value) }

// Gt creates a greater-than expression.
func (b *ExprBuilder) Gt(value any) *Expression { return b.compare(OpGt, value) }

// Gte creates a greater-than-or-equal expression.
func (b *ExprBuilder) Gte(value any) *Expression { return b.compare(OpGte, value) }

// StartsWith matches string values with the given prefix.
func (b *ExprBuilder) StartsWith(prefix string) *Expression {
	return b.compare(OpStartsWith, prefix)
}

// In creates an IN expression.
func (b *ExprBuilder) In(values ...any) *Expression {
	return &Expression{Op: OpIn, Column: b.column, Values: values}
}

// NotIn creates a NOT IN expression.
func (b *ExprBuilder) NotIn(values ...any) *Expression {
	return &Expression{Op: OpNotIn, Column: b.column, Values: values}
}

// IsMissing matches nulls and NaN values.
func (b *ExprBuilder) IsMissing() *Expression {
	return &Expression{Op: OpIsMissing, Column: b.column}
}

// IsNotMissing matches observed values.
func (b *ExprBuilder) IsNotMissing() *Expression {
	return &Expression{Op: OpNotMissing, Column: b.column}
}

// And combines expressions with AND.
func And(exprs ...*Expression) *Expression {
	return &Expression{Op: OpAnd, Children: exprs}
}

// Or combines expressions with OR.
func Or(exprs ...*Expression) *Expression {
	return &Expression{Op: OpOr, Children: exprs}
}

// Not negates an expression.
func Not(expr *Expression) *Expression {
	return &Expression{Op: OpNot, Children: []*Expression{expr}}
}

// Between creates a BETWEEN expression (column >= lower AND column <= upper).
func Between(column string, lower, upper any) *Expression {
	return And(
		Col(column).Gte(lower),
		Col(column).Lte(upper),
	)
}

// NoneMissing matches rows where every named column is observed.
func NoneMissing(columns ...string) *Expression {
	exprs := make([]*Expression, len(columns))
	for i, name := range columns {
		exprs[i] = Col(name).IsNotMissing()
	}
	return And(exprs...)
}
