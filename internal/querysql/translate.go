package querysql

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/odatasql/internal/dialect"
	"github.com/roach88/odatasql/internal/queryir"
)

// Options selects the clauses Translate emits.
type Options uint8

const (
	SelectClause Options = 1 << iota
	WhereClause
	OrderByClause
	TopClause

	AllClauses = SelectClause | WhereClause | OrderByClause | TopClause
)

var optionNames = []struct {
	flag Options
	name string
}{
	{SelectClause, "select"},
	{WhereClause, "where"},
	{OrderByClause, "orderby"},
	{TopClause, "top"},
}

// Has reports whether every clause in flag is selected.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

// String returns the selected clause names joined by commas.
func (o Options) String() string {
	var names []string
	for _, opt := range optionNames {
		if o.Has(opt.flag) {
			names = append(names, opt.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseOptions parses clause names ("select", "where", "orderby", "top",
// "all") into Options.
func ParseOptions(names []string) (Options, error) {
	var o Options
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "all" {
			o |= AllClauses
			continue
		}
		found := false
		for _, opt := range optionNames {
			if opt.name == name {
				o |= opt.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown clause %q", raw)
		}
	}
	return o, nil
}

// Translator assembles dialect statements from parsed queries.
//
// A Translator is safe for concurrent use: every Translate call builds its
// own Formatter and Visitor, so join aliases always start from the first
// alias and never leak between calls.
type Translator struct {
	newFormatter dialect.Factory
	logger       *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithFormatterFactory sets the factory that creates one Formatter per
// Translate call.
func WithFormatterFactory(factory dialect.Factory) Option {
	return func(t *Translator) {
		t.newFormatter = factory
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// NewTranslator creates a Translator for the DocumentDB dialect unless
// WithFormatterFactory says otherwise.
func NewTranslator(opts ...Option) *Translator {
	t := &Translator{
		newFormatter: dialect.DocumentDBFactory,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate renders the clauses of query selected by opts as one statement:
//
//	SELECT [TOP n] fields FROM c [JOIN ...] [WHERE [extra AND] filter] [ORDER BY ...]
//
// extraWhere is an optional caller-supplied predicate, AND-combined ahead of
// the translated filter. Absent clauses contribute nothing; a nil query or
// a query with no options yields only what opts and extraWhere require.
func (t *Translator) Translate(query *queryir.Query, opts Options, extraWhere string) (string, error) {
	if query == nil {
		query = &queryir.Query{}
	}

	formatter := t.newFormatter()
	visitor := NewVisitor(formatter)

	var joins []string
	var whereClause string
	if opts.Has(WhereClause) {
		var filter Fragment
		if query.Filter != nil {
			var err error
			filter, err = visitor.Translate(query.Filter)
			if err != nil {
				return "", fmt.Errorf("translate filter: %w", err)
			}
		}
		joins = filter.Joins
		whereClause = buildWhere(joins, extraWhere, filter.Text)
	}

	var selectClause string
	if opts.Has(SelectClause) {
		selectClause = buildSelect(formatter, query, opts, len(joins) > 0)
	}

	var orderByClause string
	if opts.Has(OrderByClause) && query.OrderBy != nil {
		keys, err := visitor.TranslateOrderBy(query.OrderBy)
		if err != nil {
			return "", fmt.Errorf("translate orderby: %w", err)
		}
		orderByClause = dialect.KeywordOrderBy + " " + keys
	}

	sql := joinClauses(selectClause, whereClause, orderByClause)

	t.logger.Debug("translated query",
		"clauses", opts.String(),
		"joins", len(joins),
		"length", len(sql))

	return sql, nil
}

// TranslateSearch translates a search expression with a fresh Formatter.
func (t *Translator) TranslateSearch(search queryir.Node) (string, error) {
	text, err := NewVisitor(t.newFormatter()).TranslateSearch(search)
	if err != nil {
		return "", fmt.Errorf("translate search: %w", err)
	}
	return text, nil
}

// Translate translates query with a default Translator.
func Translate(query *queryir.Query, opts Options, extraWhere string) (string, error) {
	return NewTranslator().Translate(query, opts, extraWhere)
}

// buildWhere renders "[JOIN ...] [WHERE [extra AND] predicate]".
func buildWhere(joins []string, extra, predicate string) string {
	switch {
	case extra != "" && predicate != "":
		predicate = extra + " " + dialect.KeywordAnd + " " + predicate
	case extra != "":
		predicate = extra
	}

	var where string
	if predicate != "" {
		where = dialect.KeywordWhere + " " + predicate
	}

	return joinClauses(strings.Join(joins, " "), where)
}

// buildSelect renders "SELECT [TOP n] fields FROM root".
func buildSelect(formatter dialect.Formatter, query *queryir.Query, opts Options, hasJoin bool) string {
	var top string
	if opts.Has(TopClause) && query.Top > 0 {
		top = dialect.KeywordTop + " " + strconv.Itoa(query.Top) + " "
	}

	fields := selectFields(formatter, query.Select)
	if fields == "" {
		fields = "*"
		if hasJoin {
			// Joined rows are tuples; select the root document itself.
			fields = dialect.KeywordValue + " " + formatter.Root()
		}
	}

	return dialect.KeywordSelect + " " + top + fields + " " + dialect.KeywordFrom + " " + formatter.Root()
}

// selectFields rewrites a raw "a, b" select list as "c.a, c.b".
func selectFields(formatter dialect.Formatter, raw string) string {
	var fields []string
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		fields = append(fields, formatter.FieldName(field))
	}
	return strings.Join(fields, ", ")
}

// joinClauses joins the non-empty clauses with single spaces.
func joinClauses(clauses ...string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
