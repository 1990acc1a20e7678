package querysql

import (
	"strconv"
	"strings"

	"github.com/roach88/odatasql/internal/dialect"
	"github.com/roach88/odatasql/internal/queryir"
)

// Fragment is the translation of one node.
//
// Joins holds the JOIN clauses introduced by any/all quantifiers under the
// node, in the order they were allocated. Text is the predicate or
// expression text with those joins removed.
type Fragment struct {
	Joins []string
	Text  string
}

// visitContext is the per-pass state threaded down the recursion.
//
// inQuantifier is set for the source and body of an any/all and stays set
// for every node below them; it makes range variable access render the
// current join alias. joinSource is set only while the source of an any/all
// is translated, and is the only state in which an access on the implicit
// range variable allocates a join. search changes the casing of the NOT
// token.
type visitContext struct {
	search       bool
	inQuantifier bool
	joinSource   bool
}

func (c visitContext) quantified() visitContext {
	c.inQuantifier = true
	c.joinSource = false
	return c
}

func (c visitContext) quantifierSource() visitContext {
	c = c.quantified()
	c.joinSource = true
	return c
}

// Visitor translates expression trees into dialect text.
//
// A Visitor holds no pass state of its own, but its Formatter allocates
// join aliases, so a Visitor belongs to one translation.
type Visitor struct {
	formatter dialect.Formatter
}

// NewVisitor returns a Visitor that produces text through formatter.
func NewVisitor(formatter dialect.Formatter) *Visitor {
	return &Visitor{formatter: formatter}
}

// Translate translates node outside of any quantifier.
func (v *Visitor) Translate(node queryir.Node) (Fragment, error) {
	return v.visit(visitContext{}, node)
}

// TranslateSearch translates a search expression. It differs from Translate
// only in rendering NOT in lower case.
func (v *Visitor) TranslateSearch(node queryir.Node) (string, error) {
	frag, err := v.visit(visitContext{search: true}, node)
	if err != nil {
		return "", err
	}
	return frag.Text, nil
}

// TranslateOrderBy flattens an order-by chain to "expr ASC, expr DESC, ...",
// primary key first.
func (v *Visitor) TranslateOrderBy(orderBy *queryir.OrderBy) (string, error) {
	return v.orderBy(orderBy, "")
}

func (v *Visitor) orderBy(orderBy *queryir.OrderBy, prev string) (string, error) {
	frag, err := v.visit(visitContext{}, orderBy.Expression)
	if err != nil {
		return "", err
	}
	if len(frag.Joins) > 0 {
		return "", newError(ErrCodeInvalidQuantifier, orderBy.Expression, "order key cannot introduce a join")
	}

	direction := dialect.KeywordAsc
	if orderBy.Direction == queryir.Descending {
		direction = dialect.KeywordDesc
	}

	expr := frag.Text + " " + direction
	if prev != "" {
		expr = prev + ", " + expr
	}

	if orderBy.ThenBy != nil {
		return v.orderBy(orderBy.ThenBy, expr)
	}
	return expr, nil
}

// TranslateLevels renders a $levels value.
func TranslateLevels(levels queryir.Levels) string {
	if levels.Max {
		return dialect.KeywordMax
	}
	return strconv.FormatInt(levels.Level, 10)
}

// visit dispatches on the closed set of node variants.
func (v *Visitor) visit(ctx visitContext, node queryir.Node) (Fragment, error) {
	switch n := node.(type) {
	case *queryir.Any:
		return v.quantifier(ctx, n, n.Source, n.Body)
	case *queryir.All:
		return v.quantifier(ctx, n, n.Source, n.Body)
	case *queryir.BinaryOperator:
		return v.binary(ctx, n)
	case *queryir.UnaryOperator:
		return v.unary(ctx, n)
	case *queryir.SingleValuePropertyAccess, *queryir.CollectionPropertyAccess,
		*queryir.SingleValueOpenPropertyAccess, *queryir.CollectionOpenPropertyAccess,
		*queryir.SingleNavigation, *queryir.CollectionNavigation,
		*queryir.SingleEntityCast, *queryir.EntityCollectionCast,
		*queryir.SingleValueCast, *queryir.CollectionPropertyCast:
		a := n.(queryir.Accessor)
		return v.access(ctx, a.AccessSource(), a.Segment())
	case *queryir.EntityRangeVariableReference:
		return Fragment{Text: rangeVariable(n.Name)}, nil
	case *queryir.NonentityRangeVariableReference:
		return Fragment{Text: rangeVariable(n.Name)}, nil
	case *queryir.Constant:
		return Fragment{Text: v.constant(n)}, nil
	case *queryir.Convert:
		return v.visit(ctx, n.Source)
	case *queryir.SingleValueFunctionCall:
		return v.call(ctx, n.Call)
	case *queryir.SingleEntityFunctionCall:
		return v.call(ctx, n.Call)
	case *queryir.CollectionFunctionCall:
		return v.call(ctx, n.Call)
	case *queryir.EntityCollectionFunctionCall:
		return v.call(ctx, n.Call)
	case *queryir.NamedFunctionParameter:
		value, err := v.visit(ctx, n.Value)
		if err != nil {
			return Fragment{}, err
		}
		return Fragment{Joins: value.Joins, Text: n.Name + "=" + value.Text}, nil
	case *queryir.ParameterAlias:
		return Fragment{Text: n.Alias}, nil
	case *queryir.SearchTerm:
		return Fragment{Text: n.Text}, nil
	case nil:
		return Fragment{}, newError(ErrCodeUnsupportedNode, nil, "missing node")
	default:
		return Fragment{}, newError(ErrCodeUnsupportedNode, node, "no translation for node type %T", node)
	}
}

// quantifier moves the join produced by the source out of the text and
// translates the body against the new alias.
func (v *Visitor) quantifier(ctx visitContext, node, source, body queryir.Node) (Fragment, error) {
	src, err := v.visit(ctx.quantifierSource(), source)
	if err != nil {
		return Fragment{}, err
	}
	if !v.formatter.IsJoinClause(src.Text) {
		return Fragment{}, newError(ErrCodeInvalidQuantifier, node,
			"quantifier source %q does not start a join", src.Text)
	}

	b, err := v.visit(ctx.quantified(), body)
	if err != nil {
		return Fragment{}, err
	}

	joins := append(append(src.Joins, src.Text), b.Joins...)
	return Fragment{Joins: joins, Text: b.Text}, nil
}

func (v *Visitor) binary(ctx visitContext, node *queryir.BinaryOperator) (Fragment, error) {
	token, ok := binaryOperatorTokens[node.Op]
	if !ok {
		return Fragment{}, newError(ErrCodeUnsupportedOperator, node, "no dialect token for operator %s", node.Op)
	}
	precedence, _ := binaryPrecedence(node.Op)

	left, err := v.visit(ctx, node.Left)
	if err != nil {
		return Fragment{}, err
	}
	if needsParens(node.Left, precedence) {
		left.Text = "(" + left.Text + ")"
	}

	right, err := v.visit(ctx, node.Right)
	if err != nil {
		return Fragment{}, err
	}
	if needsParens(node.Right, precedence) {
		right.Text = "(" + right.Text + ")"
	}

	return Fragment{
		Joins: append(left.Joins, right.Joins...),
		Text:  left.Text + " " + token + " " + right.Text,
	}, nil
}

// needsParens reports whether operand, seen through any Convert wrappers,
// is a binary operator that binds less tightly than precedence.
func needsParens(operand queryir.Node, precedence int) bool {
	b, ok := effectiveOperand(operand).(*queryir.BinaryOperator)
	if !ok {
		return false
	}
	p, known := binaryPrecedence(b.Op)
	return !known || p < precedence
}

func effectiveOperand(node queryir.Node) queryir.Node {
	for {
		c, ok := node.(*queryir.Convert)
		if !ok || c == nil {
			return node
		}
		node = c.Source
	}
}

func (v *Visitor) unary(ctx visitContext, node *queryir.UnaryOperator) (Fragment, error) {
	var token string
	switch node.Op {
	case queryir.OpNegate:
		token = dialect.SymbolNegate
	case queryir.OpNot:
		token = dialect.KeywordNot
		if ctx.search {
			token = dialect.SearchNot
		}
	default:
		return Fragment{}, newError(ErrCodeUnsupportedOperator, node, "no dialect token for operator %s", node.Op)
	}

	operand, err := v.visit(ctx, node.Operand)
	if err != nil {
		return Fragment{}, err
	}

	switch node.Operand.(type) {
	case *queryir.Constant, *queryir.SearchTerm:
		operand.Text = token + " " + operand.Text
	default:
		operand.Text = token + "(" + operand.Text + ")"
	}
	return operand, nil
}

// access renders one path segment on top of source.
func (v *Visitor) access(ctx visitContext, source queryir.Node, name string) (Fragment, error) {
	src, err := v.visit(ctx, source)
	if err != nil {
		return Fragment{}, err
	}

	switch {
	case src.Text == "" && ctx.joinSource:
		src.Text = v.formatter.JoinClause(name)
	case src.Text == "":
		src.Text = v.formatter.FieldName(name)
	case ctx.inQuantifier:
		src.Text = v.formatter.JoinMember(src.Text, name)
	default:
		src.Text = v.formatter.Source(src.Text, name)
	}
	return src, nil
}

// rangeVariable renders the implicit range variable as no prefix at all.
func rangeVariable(name string) string {
	if name == queryir.ImplicitRangeVariable {
		return ""
	}
	return name
}

func (v *Visitor) constant(node *queryir.Constant) string {
	if node.Value == nil {
		return dialect.KeywordNull
	}

	switch {
	case node.Type.IsEnum():
		raw := node.LiteralText
		switch val := node.Value.(type) {
		case queryir.EnumValue:
			raw = val.Value
		case string:
			raw = val
		}
		return v.formatter.EnumLiteral(node.Type, raw)
	case node.Type.IsGuid(), node.Type.IsTemporal():
		return "'" + node.LiteralText + "'"
	default:
		return node.LiteralText
	}
}

func (v *Visitor) call(ctx visitContext, call queryir.Call) (Fragment, error) {
	var frag Fragment
	name := call.Name
	if call.Source != nil {
		prefixed, err := v.access(ctx, call.Source, name)
		if err != nil {
			return Fragment{}, err
		}
		frag.Joins = prefixed.Joins
		name = prefixed.Text
	}

	args := make([]string, 0, len(call.Parameters))
	for _, param := range call.Parameters {
		arg, err := v.visit(ctx, param)
		if err != nil {
			return Fragment{}, err
		}
		frag.Joins = append(frag.Joins, arg.Joins...)
		args = append(args, arg.Text)
	}

	frag.Text = v.formatter.FunctionName(name) + "(" + strings.Join(args, ",") + ")"
	if name == dialect.FuncTrim {
		frag.Text += ")"
	}
	return frag, nil
}
