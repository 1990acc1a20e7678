package querysql

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/odatasql/internal/dialect"
	q "github.com/roach88/odatasql/internal/queryir"
)

func newTestTranslator(opts ...Option) *Translator {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewTranslator(opts...)
}

func TestTranslate_Clauses(t *testing.T) {
	nameIsX := q.Eq(q.Property("Name"), q.StringValue("x"))
	byNameThenAge := func() *q.OrderBy {
		return q.Asc(q.Property("Name")).Then(q.Desc(q.Property("Age")))
	}

	testCases := []struct {
		name  string
		query *q.Query
		opts  Options
		extra string
		want  string
	}{
		{
			name:  "no clauses",
			query: &q.Query{Filter: nameIsX, OrderBy: byNameThenAge(), Top: 3},
			opts:  0,
			want:  "",
		},
		{
			name:  "nil query",
			query: nil,
			opts:  WhereClause | OrderByClause,
			want:  "",
		},
		{
			name:  "extra predicate without filter",
			query: &q.Query{},
			opts:  WhereClause,
			extra: "c.tenant = 't1'",
			want:  "WHERE c.tenant = 't1'",
		},
		{
			name:  "filter only",
			query: &q.Query{Filter: nameIsX},
			opts:  WhereClause,
			want:  "WHERE c.Name = 'x'",
		},
		{
			name:  "extra predicate comes first",
			query: &q.Query{Filter: nameIsX},
			opts:  WhereClause,
			extra: "c.tenant = 't1'",
			want:  "WHERE c.tenant = 't1' AND c.Name = 'x'",
		},
		{
			name:  "select star",
			query: &q.Query{},
			opts:  SelectClause,
			want:  "SELECT * FROM c",
		},
		{
			name:  "select and where",
			query: &q.Query{Filter: nameIsX},
			opts:  AllClauses,
			want:  "SELECT * FROM c WHERE c.Name = 'x'",
		},
		{
			name:  "top",
			query: &q.Query{Top: 10},
			opts:  AllClauses,
			want:  "SELECT TOP 10 * FROM c",
		},
		{
			name:  "non-positive top is ignored",
			query: &q.Query{Top: -1},
			opts:  AllClauses,
			want:  "SELECT * FROM c",
		},
		{
			name:  "top needs its flag",
			query: &q.Query{Top: 10},
			opts:  SelectClause,
			want:  "SELECT * FROM c",
		},
		{
			name:  "top needs select",
			query: &q.Query{Top: 10},
			opts:  TopClause | WhereClause,
			want:  "",
		},
		{
			name:  "select list",
			query: &q.Query{Select: "Name, Age ,Address"},
			opts:  SelectClause,
			want:  "SELECT c.Name, c.Age, c.Address FROM c",
		},
		{
			name:  "empty select entries are dropped",
			query: &q.Query{Select: " , "},
			opts:  SelectClause,
			want:  "SELECT * FROM c",
		},
		{
			name:  "order by only",
			query: &q.Query{OrderBy: byNameThenAge()},
			opts:  OrderByClause,
			want:  "ORDER BY c.Name ASC, c.Age DESC",
		},
		{
			name:  "select and order by",
			query: &q.Query{OrderBy: byNameThenAge()},
			opts:  AllClauses,
			want:  "SELECT * FROM c ORDER BY c.Name ASC, c.Age DESC",
		},
		{
			name:  "join selects the root value",
			query: &q.Query{Filter: priceIs(5)},
			opts:  AllClauses,
			want:  "SELECT VALUE c FROM c JOIN a IN c.Items WHERE a.Price = 5",
		},
		{
			name:  "join without select",
			query: &q.Query{Filter: priceIs(5)},
			opts:  WhereClause,
			want:  "JOIN a IN c.Items WHERE a.Price = 5",
		},
		{
			name:  "join is not detected without where",
			query: &q.Query{Filter: priceIs(5)},
			opts:  SelectClause,
			want:  "SELECT * FROM c",
		},
		{
			name:  "join with extra predicate",
			query: &q.Query{Filter: priceIs(5)},
			opts:  AllClauses,
			extra: "c.tenant = 't1'",
			want:  "SELECT VALUE c FROM c JOIN a IN c.Items WHERE c.tenant = 't1' AND a.Price = 5",
		},
		{
			name: "everything",
			query: &q.Query{
				Filter:  q.And(q.Eq(q.Property("Status"), q.StringValue("open")), priceIs(5)),
				OrderBy: q.Asc(q.Property("Name")),
				Select:  "Name",
				Top:     5,
			},
			opts: AllClauses,
			want: "SELECT TOP 5 c.Name FROM c JOIN a IN c.Items WHERE c.Status = 'open' AND a.Price = 5 ORDER BY c.Name ASC",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, err := newTestTranslator().Translate(tc.query, tc.opts, tc.extra)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sql)
		})
	}
}

func TestTranslate_FailureReturnsNoText(t *testing.T) {
	query := &q.Query{
		Filter: q.Binary(q.OpHas, q.Property("Flags"), q.IntValue(1)),
	}

	sql, err := newTestTranslator().Translate(query, AllClauses, "c.tenant = 't1'")
	require.Error(t, err)
	assert.Empty(t, sql)
	assert.True(t, IsUnsupported(err))
	assert.Contains(t, err.Error(), "translate filter")
	assert.Contains(t, err.Error(), "has")
}

func TestTranslate_OrderByFailure(t *testing.T) {
	query := &q.Query{OrderBy: q.Asc(&q.SearchTerm{Text: "x"}).Then(q.Desc(nil))}

	sql, err := newTestTranslator().Translate(query, AllClauses, "")
	require.Error(t, err)
	assert.Empty(t, sql)
	assert.Contains(t, err.Error(), "translate orderby")
}

func TestTranslate_QuantifierBodyComparesRootField(t *testing.T) {
	filter := q.AnyOf(q.Collection(q.It(), "Items"), "i",
		q.Eq(q.PropertyOf(q.Var("i"), "Owner"), q.Property("Name")))

	sql, err := newTestTranslator().Translate(&q.Query{Filter: filter}, AllClauses, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT VALUE c FROM c JOIN a IN c.Items WHERE a.Owner = c.Name", sql)
}

func TestTranslate_AliasesRestartPerCall(t *testing.T) {
	tr := newTestTranslator()
	query := &q.Query{Filter: q.And(priceIs(1), priceIs(2))}

	first, err := tr.Translate(query, WhereClause, "")
	require.NoError(t, err)
	second, err := tr.Translate(query, WhereClause, "")
	require.NoError(t, err)

	assert.Equal(t, "JOIN a IN c.Items JOIN b IN c.Items WHERE a.Price = 1 AND b.Price = 2", first)
	assert.Equal(t, first, second)
}

func TestTranslate_Concurrent(t *testing.T) {
	tr := newTestTranslator()
	query := &q.Query{Filter: priceIs(7)}
	want := "SELECT VALUE c FROM c JOIN a IN c.Items WHERE a.Price = 7"

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sql, err := tr.Translate(query, AllClauses, "")
			if err == nil {
				results[i] = sql
			}
		}(i)
	}
	wg.Wait()

	for _, sql := range results {
		assert.Equal(t, want, sql)
	}
}

func TestTranslate_FormatterFactory(t *testing.T) {
	calls := 0
	factory := func() dialect.Formatter {
		calls++
		return dialect.NewDocumentDBWithRoot("r")
	}
	tr := newTestTranslator(WithFormatterFactory(factory))

	sql, err := tr.Translate(&q.Query{Filter: q.Eq(q.Property("Name"), q.StringValue("x"))}, AllClauses, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM r WHERE r.Name = 'x'", sql)

	_, err = tr.Translate(&q.Query{}, AllClauses, "")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "one formatter per call")
}

func TestTranslator_TranslateSearch(t *testing.T) {
	tr := newTestTranslator()

	text, err := tr.TranslateSearch(q.And(&q.SearchTerm{Text: "blue"}, q.Not(&q.SearchTerm{Text: "red"})))
	require.NoError(t, err)
	assert.Equal(t, "blue AND not red", text)

	_, err = tr.TranslateSearch(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translate search")
}

func TestTranslate_PackageLevel(t *testing.T) {
	sql, err := Translate(&q.Query{Top: 1}, AllClauses, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT TOP 1 * FROM c", sql)
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]string{"select", " WHERE "})
	require.NoError(t, err)
	assert.Equal(t, SelectClause|WhereClause, opts)
	assert.Equal(t, "select,where", opts.String())

	opts, err = ParseOptions([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, AllClauses, opts)
	assert.Equal(t, "select,where,orderby,top", opts.String())

	_, err = ParseOptions([]string{"groupby"})
	require.Error(t, err)
}

func TestOptions_Has(t *testing.T) {
	opts := SelectClause | TopClause

	assert.True(t, opts.Has(SelectClause))
	assert.True(t, opts.Has(SelectClause|TopClause))
	assert.False(t, opts.Has(WhereClause))
	assert.False(t, opts.Has(AllClauses))
}
