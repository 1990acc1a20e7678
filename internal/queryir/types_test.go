package queryir

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_SealedSwitch(t *testing.T) {
	nodes := []Node{
		&BinaryOperator{}, &UnaryOperator{}, &Any{}, &All{},
		&SingleValuePropertyAccess{}, &CollectionPropertyAccess{},
		&SingleValueOpenPropertyAccess{}, &CollectionOpenPropertyAccess{},
		&SingleNavigation{}, &CollectionNavigation{},
		&SingleEntityCast{}, &EntityCollectionCast{}, &SingleValueCast{}, &CollectionPropertyCast{},
		&EntityRangeVariableReference{}, &NonentityRangeVariableReference{},
		&Constant{}, &Convert{},
		&SingleValueFunctionCall{}, &SingleEntityFunctionCall{},
		&CollectionFunctionCall{}, &EntityCollectionFunctionCall{},
		&NamedFunctionParameter{}, &ParameterAlias{}, &SearchTerm{},
	}

	for _, n := range nodes {
		assert.NotNil(t, n)
	}
	assert.Len(t, nodes, 25)
}

func TestAccessor_Segments(t *testing.T) {
	customer := EntityType("Sales.Customer")

	testCases := []struct {
		name    string
		node    Accessor
		segment string
	}{
		{"property", &SingleValuePropertyAccess{Source: It(), Property: "Name"}, "Name"},
		{"collection property", &CollectionPropertyAccess{Source: It(), Property: "Tags"}, "Tags"},
		{"open property", &SingleValueOpenPropertyAccess{Source: It(), Name: "Extra"}, "Extra"},
		{"open collection", &CollectionOpenPropertyAccess{Source: It(), Name: "Bag"}, "Bag"},
		{"navigation", &SingleNavigation{Source: It(), NavigationProperty: "Owner"}, "Owner"},
		{"collection navigation", &CollectionNavigation{Source: It(), NavigationProperty: "Orders"}, "Orders"},
		{"entity cast", &SingleEntityCast{Source: It(), Type: customer}, "Sales.Customer"},
		{"collection cast", &EntityCollectionCast{Source: It(), Type: customer}, "Sales.Customer"},
		{"value cast", &SingleValueCast{Source: It(), Type: String}, "Edm.String"},
		{"property cast", &CollectionPropertyCast{Source: It(), Type: CollectionOf(String)}, "Collection(Edm.String)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.segment, tc.node.Segment())
			assert.Equal(t, It(), tc.node.AccessSource())
		})
	}
}

func TestProperty_Chain(t *testing.T) {
	node := Property("Address", "City")

	city, ok := node.(*SingleValuePropertyAccess)
	require.True(t, ok)
	assert.Equal(t, "City", city.Property)

	address, ok := city.Source.(*SingleValuePropertyAccess)
	require.True(t, ok)
	assert.Equal(t, "Address", address.Property)

	it, ok := address.Source.(*EntityRangeVariableReference)
	require.True(t, ok)
	assert.Equal(t, ImplicitRangeVariable, it.Name)
}

func TestBinaryOperatorKind_RoundTrip(t *testing.T) {
	for op := OpOr; op <= OpHas; op++ {
		parsed, ok := ParseBinaryOperator(op.String())
		require.True(t, ok, "operator %d", op)
		assert.Equal(t, op, parsed)
	}

	_, ok := ParseBinaryOperator("xor")
	assert.False(t, ok)
	assert.Equal(t, "unknown", BinaryOperatorKind(99).String())
}

func TestEnumLiteral(t *testing.T) {
	color := EnumType("Sales.Color", false,
		EnumMember{Name: "Red", Value: 1},
		EnumMember{Name: "Green", Value: 2},
		EnumMember{Name: "Blue", Value: 4},
	)
	flags := color
	flags.IsFlags = true

	assert.Equal(t, "Green", color.EnumLiteral(2))
	assert.Equal(t, "3", color.EnumLiteral(3), "non-flags enums never combine")
	assert.Equal(t, "Red, Blue", flags.EnumLiteral(5))
	assert.Equal(t, "9", flags.EnumLiteral(9), "unknown bits fall back to the number")
	assert.Equal(t, "0", flags.EnumLiteral(0))
}

func TestTypeRef_Predicates(t *testing.T) {
	assert.True(t, Guid.IsGuid())
	assert.True(t, Date.IsTemporal())
	assert.True(t, DateTimeOffset.IsTemporal())
	assert.False(t, TimeOfDay.IsTemporal())
	assert.True(t, EnumType("X.E", false).IsEnum())
	assert.Equal(t, "Collection(Sales.Address)", CollectionOf(ComplexType("Sales.Address")).QualifiedName())
}

func TestLiteralBuilders(t *testing.T) {
	s := StringValue("O'Neil").(*Constant)
	assert.Equal(t, "'O''Neil'", s.LiteralText)
	assert.Equal(t, KindString, s.Type.Kind)

	id := uuid.MustParse("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	g := GUIDValue(id).(*Constant)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", g.LiteralText)

	n := Null().(*Constant)
	assert.Nil(t, n.Value)

	e := EnumLiteral(EnumType("Sales.Color", false), "2").(*Constant)
	assert.Equal(t, EnumValue{TypeName: "Sales.Color", Value: "2"}, e.Value)
	assert.Equal(t, "Sales.Color'2'", e.LiteralText)
}

func TestOrderBy_Then(t *testing.T) {
	chain := Asc(Property("Name")).Then(Desc(Property("Age"))).Then(Asc(Property("Id")))

	require.NotNil(t, chain.ThenBy)
	require.NotNil(t, chain.ThenBy.ThenBy)
	assert.Equal(t, Ascending, chain.Direction)
	assert.Equal(t, Descending, chain.ThenBy.Direction)
	assert.Nil(t, chain.ThenBy.ThenBy.ThenBy)
	assert.Equal(t, "desc", chain.ThenBy.Direction.String())
}
