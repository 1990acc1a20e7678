package queryir

// ImplicitRangeVariable is the reserved name of the range variable that
// stands for the current top-level item.
const ImplicitRangeVariable = "$it"

// Node is an expression node of a parsed query.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	queryNode() // Marker method - seals interface to this package
}

// Accessor is implemented by the nodes that extend a source node by exactly
// one path segment: property access, navigation and type casts.
//
// For casts the segment is the qualified name of the target type.
type Accessor interface {
	Node
	AccessSource() Node
	Segment() string
}

// BinaryOperatorKind identifies a binary operator.
type BinaryOperatorKind int

// Binary operators, in the order of the URL query convention.
const (
	OpOr BinaryOperatorKind = iota + 1
	OpAnd
	OpEqual
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpHas
)

var binaryOperatorNames = map[BinaryOperatorKind]string{
	OpOr:                 "or",
	OpAnd:                "and",
	OpEqual:              "eq",
	OpNotEqual:           "ne",
	OpGreaterThan:        "gt",
	OpGreaterThanOrEqual: "ge",
	OpLessThan:           "lt",
	OpLessThanOrEqual:    "le",
	OpAdd:                "add",
	OpSubtract:           "sub",
	OpMultiply:           "mul",
	OpDivide:             "div",
	OpModulo:             "mod",
	OpHas:                "has",
}

// String returns the URL query keyword of the operator.
func (k BinaryOperatorKind) String() string {
	if s, ok := binaryOperatorNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseBinaryOperator returns the operator for a URL query keyword.
func ParseBinaryOperator(s string) (BinaryOperatorKind, bool) {
	for k, name := range binaryOperatorNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// UnaryOperatorKind identifies a unary operator.
type UnaryOperatorKind int

const (
	OpNegate UnaryOperatorKind = iota + 1
	OpNot
)

// String returns the URL query keyword of the operator.
func (k UnaryOperatorKind) String() string {
	switch k {
	case OpNegate:
		return "negate"
	case OpNot:
		return "not"
	default:
		return "unknown"
	}
}

// BinaryOperator applies Op to Left and Right.
type BinaryOperator struct {
	Op    BinaryOperatorKind
	Left  Node
	Right Node
}

func (*BinaryOperator) queryNode() {}

// UnaryOperator applies Op to Operand.
type UnaryOperator struct {
	Op      UnaryOperatorKind
	Operand Node
}

func (*UnaryOperator) queryNode() {}

// Any is true when Body holds for at least one element of Source.
// RangeVariable names the element inside Body.
type Any struct {
	Source        Node
	RangeVariable string
	Body          Node
}

func (*Any) queryNode() {}

// All is true when Body holds for every element of Source.
type All struct {
	Source        Node
	RangeVariable string
	Body          Node
}

func (*All) queryNode() {}

// SingleValuePropertyAccess reads a structural property.
type SingleValuePropertyAccess struct {
	Source   Node
	Property string
}

func (*SingleValuePropertyAccess) queryNode() {}

func (n *SingleValuePropertyAccess) AccessSource() Node { return n.Source }
func (n *SingleValuePropertyAccess) Segment() string    { return n.Property }

// CollectionPropertyAccess reads a collection-valued structural property.
type CollectionPropertyAccess struct {
	Source   Node
	Property string
}

func (*CollectionPropertyAccess) queryNode() {}

func (n *CollectionPropertyAccess) AccessSource() Node { return n.Source }
func (n *CollectionPropertyAccess) Segment() string    { return n.Property }

// SingleValueOpenPropertyAccess reads a dynamic property of an open type.
type SingleValueOpenPropertyAccess struct {
	Source Node
	Name   string
}

func (*SingleValueOpenPropertyAccess) queryNode() {}

func (n *SingleValueOpenPropertyAccess) AccessSource() Node { return n.Source }
func (n *SingleValueOpenPropertyAccess) Segment() string    { return n.Name }

// CollectionOpenPropertyAccess reads a collection-valued dynamic property.
type CollectionOpenPropertyAccess struct {
	Source Node
	Name   string
}

func (*CollectionOpenPropertyAccess) queryNode() {}

func (n *CollectionOpenPropertyAccess) AccessSource() Node { return n.Source }
func (n *CollectionOpenPropertyAccess) Segment() string    { return n.Name }

// SingleNavigation follows a single-valued navigation property.
type SingleNavigation struct {
	Source             Node
	NavigationProperty string
}

func (*SingleNavigation) queryNode() {}

func (n *SingleNavigation) AccessSource() Node { return n.Source }
func (n *SingleNavigation) Segment() string    { return n.NavigationProperty }

// CollectionNavigation follows a collection-valued navigation property.
type CollectionNavigation struct {
	Source             Node
	NavigationProperty string
}

func (*CollectionNavigation) queryNode() {}

func (n *CollectionNavigation) AccessSource() Node { return n.Source }
func (n *CollectionNavigation) Segment() string    { return n.NavigationProperty }

// SingleEntityCast casts a single entity to a derived type.
type SingleEntityCast struct {
	Source Node
	Type   TypeRef
}

func (*SingleEntityCast) queryNode() {}

func (n *SingleEntityCast) AccessSource() Node { return n.Source }
func (n *SingleEntityCast) Segment() string    { return n.Type.QualifiedName() }

// EntityCollectionCast casts every entity of a collection to a derived type.
type EntityCollectionCast struct {
	Source Node
	Type   TypeRef
}

func (*EntityCollectionCast) queryNode() {}

func (n *EntityCollectionCast) AccessSource() Node { return n.Source }
func (n *EntityCollectionCast) Segment() string    { return n.Type.QualifiedName() }

// SingleValueCast casts a single value.
type SingleValueCast struct {
	Source Node
	Type   TypeRef
}

func (*SingleValueCast) queryNode() {}

func (n *SingleValueCast) AccessSource() Node { return n.Source }
func (n *SingleValueCast) Segment() string    { return n.Type.QualifiedName() }

// CollectionPropertyCast casts every element of a collection property.
type CollectionPropertyCast struct {
	Source Node
	Type   TypeRef
}

func (*CollectionPropertyCast) queryNode() {}

func (n *CollectionPropertyCast) AccessSource() Node { return n.Source }
func (n *CollectionPropertyCast) Segment() string    { return n.Type.QualifiedName() }

// EntityRangeVariableReference refers to an entity-typed range variable.
type EntityRangeVariableReference struct {
	Name string
}

func (*EntityRangeVariableReference) queryNode() {}

// NonentityRangeVariableReference refers to a range variable over
// primitive or complex values.
type NonentityRangeVariableReference struct {
	Name string
}

func (*NonentityRangeVariableReference) queryNode() {}

// Constant is a literal.
//
// Value is nil for the null literal and an EnumValue for enum literals.
// LiteralText is the literal exactly as it appeared in the query text.
type Constant struct {
	Value       any
	LiteralText string
	Type        TypeRef
}

func (*Constant) queryNode() {}

// EnumValue is the value of an enum-typed constant. Value holds the
// underlying integer as text, or a member name when the front end could not
// resolve one.
type EnumValue struct {
	TypeName string
	Value    string
}

// Convert is an implicit type conversion inserted by the front end.
type Convert struct {
	Source Node
	Type   TypeRef
}

func (*Convert) queryNode() {}

// Call holds the parts shared by the function-call variants.
// Source is nil unless the function is bound to a value.
type Call struct {
	Name       string
	Source     Node
	Parameters []Node
}

// SingleValueFunctionCall returns a single primitive value.
type SingleValueFunctionCall struct{ Call }

func (*SingleValueFunctionCall) queryNode() {}

// SingleEntityFunctionCall returns a single entity.
type SingleEntityFunctionCall struct{ Call }

func (*SingleEntityFunctionCall) queryNode() {}

// CollectionFunctionCall returns a collection of values.
type CollectionFunctionCall struct{ Call }

func (*CollectionFunctionCall) queryNode() {}

// EntityCollectionFunctionCall returns a collection of entities.
type EntityCollectionFunctionCall struct{ Call }

func (*EntityCollectionFunctionCall) queryNode() {}

// NamedFunctionParameter is a name=value function argument.
type NamedFunctionParameter struct {
	Name  string
	Value Node
}

func (*NamedFunctionParameter) queryNode() {}

// ParameterAlias refers to a parameter alias such as @p1.
type ParameterAlias struct {
	Alias string
}

func (*ParameterAlias) queryNode() {}

// SearchTerm is a free-text term of a search expression.
type SearchTerm struct {
	Text string
}

func (*SearchTerm) queryNode() {}

// Direction is the sort direction of an order key.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// OrderBy is one key of an order-by chain. ThenBy links the next key.
type OrderBy struct {
	Expression Node
	Direction  Direction
	ThenBy     *OrderBy
}

// Levels is a parsed $levels option.
type Levels struct {
	Max   bool
	Level int64
}

// Query holds the parsed options of one request. Every field is optional:
// a nil tree, an empty Select or a non-positive Top means "absent".
type Query struct {
	Filter  Node
	OrderBy *OrderBy
	Search  Node
	Select  string // raw comma-separated field list
	Top     int
}
