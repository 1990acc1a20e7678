// Package querydoc reads query documents: YAML or CUE files that describe an
// already-parsed query (filter tree, order keys, select list, top) together
// with the clauses to emit and an optional extra predicate.
//
// Documents stand in for the query-language front end. They describe trees
// node by node; nothing here parses URL query syntax.
//
// A filter is written as nested single-key maps:
//
//	filter:
//	  and:
//	    - eq: [{property: Status}, {string: open}]
//	    - any:
//	        source: {collection: Items}
//	        var: i
//	        body:
//	          gt: [{property: {of: {var: i}, name: Price}}, {int: 5}]
package querydoc

import (
	"github.com/roach88/odatasql/internal/queryir"
	"github.com/roach88/odatasql/internal/querysql"
)

// Document is one query document.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string `yaml:"-" json:"-"`

	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Clauses     []string   `yaml:"clauses,omitempty" json:"clauses,omitempty"`
	Where       string     `yaml:"where,omitempty" json:"where,omitempty"`
	Select      string     `yaml:"select,omitempty" json:"select,omitempty"`
	Top         int        `yaml:"top,omitempty" json:"top,omitempty"`
	Filter      any        `yaml:"filter,omitempty" json:"filter,omitempty"`
	Search      any        `yaml:"search,omitempty" json:"search,omitempty"`
	OrderBy     []OrderKey `yaml:"orderby,omitempty" json:"orderby,omitempty"`

	// Levels is "max" or a non-negative integer.
	Levels any `yaml:"levels,omitempty" json:"levels,omitempty"`
}

// OrderKey is one order-by key; exactly one of Asc and Desc is set.
type OrderKey struct {
	Asc  any `yaml:"asc,omitempty" json:"asc,omitempty"`
	Desc any `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// Options returns the clauses to emit. No clauses means all of them.
func (d *Document) Options() (querysql.Options, error) {
	if len(d.Clauses) == 0 {
		return querysql.AllClauses, nil
	}
	opts, err := querysql.ParseOptions(d.Clauses)
	if err != nil {
		return 0, fieldError("clauses", "%v", err)
	}
	return opts, nil
}

// LevelsOption returns the parsed levels option, or nil when absent.
func (d *Document) LevelsOption() (*queryir.Levels, error) {
	switch v := d.Levels.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "max" {
			return &queryir.Levels{Max: true}, nil
		}
		return nil, fieldError("levels", "expected \"max\" or an integer, got %q", v)
	default:
		n, err := intArg(v, "levels")
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fieldError("levels", "levels must not be negative")
		}
		return &queryir.Levels{Level: n}, nil
	}
}

// Query builds the parsed query the document describes.
func (d *Document) Query() (*queryir.Query, error) {
	q := &queryir.Query{
		Select: d.Select,
		Top:    d.Top,
	}

	if d.Filter != nil {
		filter, err := BuildNode(d.Filter, "filter")
		if err != nil {
			return nil, err
		}
		q.Filter = filter
	}

	if d.Search != nil {
		search, err := BuildNode(d.Search, "search")
		if err != nil {
			return nil, err
		}
		q.Search = search
	}

	var last *queryir.OrderBy
	for i, key := range d.OrderBy {
		field := indexField("orderby", i)
		var next *queryir.OrderBy
		switch {
		case key.Asc != nil && key.Desc != nil:
			return nil, fieldError(field, "asc and desc are mutually exclusive")
		case key.Asc != nil:
			expr, err := BuildNode(key.Asc, field+".asc")
			if err != nil {
				return nil, err
			}
			next = queryir.Asc(expr)
		case key.Desc != nil:
			expr, err := BuildNode(key.Desc, field+".desc")
			if err != nil {
				return nil, err
			}
			next = queryir.Desc(expr)
		default:
			return nil, fieldError(field, "asc or desc is required")
		}

		if last == nil {
			q.OrderBy = next
		} else {
			last.ThenBy = next
		}
		last = next
	}

	return q, nil
}

// Rendered is the translation of a whole document. Search and Levels are
// empty when the document has none.
type Rendered struct {
	Name   string `json:"name"`
	SQL    string `json:"sql"`
	Search string `json:"search,omitempty"`
	Levels string `json:"levels,omitempty"`
}

// Render translates the statement, the search expression and the levels
// option of the document.
func (d *Document) Render(t *querysql.Translator) (*Rendered, error) {
	opts, err := d.Options()
	if err != nil {
		return nil, err
	}
	q, err := d.Query()
	if err != nil {
		return nil, err
	}
	levels, err := d.LevelsOption()
	if err != nil {
		return nil, err
	}

	out := &Rendered{Name: d.Name}
	if out.SQL, err = t.Translate(q, opts, d.Where); err != nil {
		return nil, err
	}
	if q.Search != nil {
		if out.Search, err = t.TranslateSearch(q.Search); err != nil {
			return nil, err
		}
	}
	if levels != nil {
		out.Levels = querysql.TranslateLevels(*levels)
	}
	return out, nil
}
