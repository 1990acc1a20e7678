package queryir

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// It returns a reference to the implicit top-level range variable.
func It() Node {
	return &EntityRangeVariableReference{Name: ImplicitRangeVariable}
}

// Var returns a reference to a named range variable.
func Var(name string) Node {
	return &EntityRangeVariableReference{Name: name}
}

// Property returns a structural property access on the implicit range
// variable, or a nested access chain when given several names:
//
//	Property("Address", "City") // $it/Address/City
func Property(names ...string) Node {
	return PropertyOf(It(), names...)
}

// PropertyOf returns a structural property access chain rooted at source.
func PropertyOf(source Node, names ...string) Node {
	node := source
	for _, name := range names {
		node = &SingleValuePropertyAccess{Source: node, Property: name}
	}
	return node
}

// Collection returns a collection property access on source.
func Collection(source Node, name string) Node {
	return &CollectionPropertyAccess{Source: source, Property: name}
}

// Binary returns a binary operator node.
func Binary(op BinaryOperatorKind, left, right Node) Node {
	return &BinaryOperator{Op: op, Left: left, Right: right}
}

func And(left, right Node) Node { return Binary(OpAnd, left, right) }

func Or(left, right Node) Node { return Binary(OpOr, left, right) }

func Eq(left, right Node) Node { return Binary(OpEqual, left, right) }

// Not returns the logical negation of operand.
func Not(operand Node) Node {
	return &UnaryOperator{Op: OpNot, Operand: operand}
}

// Negate returns the arithmetic negation of operand.
func Negate(operand Node) Node {
	return &UnaryOperator{Op: OpNegate, Operand: operand}
}

// AnyOf returns an any() quantifier over source binding rangeVar in body.
func AnyOf(source Node, rangeVar string, body Node) Node {
	return &Any{Source: source, RangeVariable: rangeVar, Body: body}
}

// AllOf returns an all() quantifier over source binding rangeVar in body.
func AllOf(source Node, rangeVar string, body Node) Node {
	return &All{Source: source, RangeVariable: rangeVar, Body: body}
}

// Func returns an unbound single-value function call.
func Func(name string, args ...Node) Node {
	return &SingleValueFunctionCall{Call: Call{Name: name, Parameters: args}}
}

// Null returns the null literal.
func Null() Node {
	return &Constant{LiteralText: "null"}
}

// StringValue returns a string literal. LiteralText carries the quoted
// form with embedded quotes doubled.
func StringValue(s string) Node {
	return &Constant{
		Value:       s,
		LiteralText: "'" + strings.ReplaceAll(s, "'", "''") + "'",
		Type:        String,
	}
}

// IntValue returns an Edm.Int32 literal.
func IntValue(v int32) Node {
	return &Constant{Value: v, LiteralText: strconv.FormatInt(int64(v), 10), Type: Int32}
}

// BoolValue returns a boolean literal.
func BoolValue(v bool) Node {
	return &Constant{Value: v, LiteralText: strconv.FormatBool(v), Type: Boolean}
}

// GUIDValue returns a GUID literal in its canonical lowercase form.
func GUIDValue(id uuid.UUID) Node {
	return &Constant{Value: id, LiteralText: id.String(), Type: Guid}
}

// Literal returns a constant whose text is kept exactly as written.
// Use it for dates, date-time offsets and numbers whose lexical form matters.
func Literal(text string, typ TypeRef) Node {
	return &Constant{Value: text, LiteralText: text, Type: typ}
}

// EnumLiteral returns an enum-typed constant holding raw.
func EnumLiteral(typ TypeRef, raw string) Node {
	return &Constant{
		Value:       EnumValue{TypeName: typ.Name, Value: raw},
		LiteralText: typ.Name + "'" + raw + "'",
		Type:        typ,
	}
}

// Asc returns an ascending order key.
func Asc(expr Node) *OrderBy {
	return &OrderBy{Expression: expr, Direction: Ascending}
}

// Desc returns a descending order key.
func Desc(expr Node) *OrderBy {
	return &OrderBy{Expression: expr, Direction: Descending}
}

// Then appends next to the end of the chain starting at o and returns o.
func (o *OrderBy) Then(next *OrderBy) *OrderBy {
	last := o
	for last.ThenBy != nil {
		last = last.ThenBy
	}
	last.ThenBy = next
	return o
}
