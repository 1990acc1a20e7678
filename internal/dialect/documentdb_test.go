package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/odatasql/internal/queryir"
)

func TestDocumentDB_FieldName(t *testing.T) {
	d := NewDocumentDB()

	assert.Equal(t, "c.Name", d.FieldName("Name"))
	assert.Equal(t, "c.Name", d.FieldName(" Name "))
	assert.Equal(t, "c", d.Root())
}

func TestDocumentDB_Source(t *testing.T) {
	d := NewDocumentDB()

	testCases := []struct {
		source string
		name   string
		want   string
	}{
		{"c.Address", "City", "c.Address.City"},
		{"Address", "City", "c.Address.City"},
		{" c.Address ", " City", "c.Address.City"},
		{"cx", "City", "c.cx.City"},
	}

	for _, tc := range testCases {
		t.Run(tc.source+"/"+tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, d.Source(tc.source, tc.name))
		})
	}
}

func TestDocumentDB_EnumLiteral(t *testing.T) {
	d := NewDocumentDB()
	color := queryir.EnumType("Sales.Color", false,
		queryir.EnumMember{Name: "Red", Value: 1},
		queryir.EnumMember{Name: "Green", Value: 2},
	)

	assert.Equal(t, "'Green'", d.EnumLiteral(color, "2"))
	assert.Equal(t, "'7'", d.EnumLiteral(color, "7"))
	assert.Equal(t, "Green", d.EnumLiteral(color, "Green"), "non-integer values pass through unquoted")
}

func TestDocumentDB_FunctionName(t *testing.T) {
	d := NewDocumentDB()

	testCases := map[string]string{
		"toupper":    "UPPER",
		"tolower":    "LOWER",
		"indexof":    "INDEX_OF",
		"trim":       "LTRIM(RTRIM",
		"contains":   "CONTAINS",
		"startswith": "STARTSWITH",
		"c.Name.foo": "C.NAME.FOO",
	}

	for name, want := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, d.FunctionName(name))
		})
	}
}

func TestDocumentDB_JoinAliasSequence(t *testing.T) {
	d := NewDocumentDB()

	assert.Equal(t, "JOIN a IN c.Items", d.JoinClause("Items"))
	assert.Equal(t, "a.Price", d.JoinMember("i", "Price"))
	assert.Equal(t, "a.Qty", d.JoinMember("i", "Qty"), "members never allocate")

	assert.Equal(t, "JOIN b IN c.Tags", d.JoinClause("Tags"))
	assert.Equal(t, "JOIN d IN c.Notes", d.JoinClause("Notes"), "the root token is never used as an alias")
	assert.Equal(t, "d.Text", d.JoinMember("n", "Text"))
}

func TestDocumentDB_Reset(t *testing.T) {
	d := NewDocumentDB()
	d.JoinClause("Items")
	d.JoinClause("Tags")

	d.Reset()

	assert.Equal(t, "JOIN a IN c.Items", d.JoinClause("Items"))
}

func TestDocumentDB_IndependentInstances(t *testing.T) {
	first := DocumentDBFactory()
	second := DocumentDBFactory()

	first.JoinClause("Items")
	first.JoinClause("Tags")

	assert.Equal(t, "JOIN a IN c.Items", second.JoinClause("Items"))
}

func TestDocumentDB_JoinTrimsNames(t *testing.T) {
	d := NewDocumentDB()

	assert.Equal(t, "a.Price", d.JoinMember("i", "Price"), "member before any join uses the first alias")
	assert.Equal(t, "JOIN a IN c.Items", d.JoinClause(" Items "))
	assert.Equal(t, "a.Price", d.JoinMember("i", "\tPrice "))
	assert.Equal(t, "c.Name", d.FieldName(" Name"))
}

func TestDocumentDB_IsJoinClause(t *testing.T) {
	d := NewDocumentDB()

	assert.True(t, d.IsJoinClause(d.JoinClause("Items")))
	assert.False(t, d.IsJoinClause("c.JOINED"))
	assert.False(t, d.IsJoinClause("a.Price"))
}

func TestAliasName(t *testing.T) {
	assert.Equal(t, "a", aliasName(0))
	assert.Equal(t, "z", aliasName(25))
	assert.Equal(t, "aa", aliasName(26))
	assert.Equal(t, "az", aliasName(51))
	assert.Equal(t, "ba", aliasName(52))
}

func TestDocumentDB_AliasesPastZ(t *testing.T) {
	d := NewDocumentDB()

	var last string
	for i := 0; i < 26; i++ {
		last = d.JoinClause("x")
	}

	// 26 aliases: a..z minus c is 25, so the 26th is aa.
	assert.Equal(t, "JOIN aa IN c.x", last)
}
