package dialect

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/odatasql/internal/queryir"
)

// Keywords and symbols of the document SQL dialect.
const (
	RootToken = "c"

	KeywordSelect  = "SELECT"
	KeywordTop     = "TOP"
	KeywordValue   = "VALUE"
	KeywordFrom    = "FROM"
	KeywordJoin    = "JOIN"
	KeywordIn      = "IN"
	KeywordWhere   = "WHERE"
	KeywordOrderBy = "ORDER BY"
	KeywordAsc     = "ASC"
	KeywordDesc    = "DESC"
	KeywordAnd     = "AND"
	KeywordOr      = "OR"
	KeywordNot     = "NOT"
	KeywordNull    = "null"
	SearchNot      = "not"
	KeywordMax     = "max"

	SymbolNegate = "-"
)

// Query function names with a dedicated dialect token.
const (
	FuncToUpper = "toupper"
	FuncToLower = "tolower"
	FuncIndexOf = "indexof"
	FuncTrim    = "trim"
)

var functionTokens = map[string]string{
	FuncToUpper: "UPPER",
	FuncToLower: "LOWER",
	FuncIndexOf: "INDEX_OF",
	// trim has no single-function equivalent; the caller closes the extra
	// parenthesis.
	FuncTrim: "LTRIM(RTRIM",
}

// DocumentDB formats queries for the document database SQL dialect, where
// every field is reached through the implicit alias of the root document
// and nested collections need explicit JOIN clauses.
type DocumentDB struct {
	root  string
	upper cases.Caser

	// aliases counts allocated join aliases; zero means none yet.
	aliases int
}

// NewDocumentDB returns a formatter rooted at RootToken.
func NewDocumentDB() *DocumentDB {
	return NewDocumentDBWithRoot(RootToken)
}

// NewDocumentDBWithRoot returns a formatter rooted at root.
func NewDocumentDBWithRoot(root string) *DocumentDB {
	return &DocumentDB{
		root:  root,
		upper: cases.Upper(language.Und),
	}
}

// DocumentDBFactory is the Factory for the default DocumentDB formatter.
func DocumentDBFactory() Formatter {
	return NewDocumentDB()
}

// Root returns the token every field path starts from.
func (d *DocumentDB) Root() string { return d.root }

// FieldName trims name and prefixes it with the root token.
func (d *DocumentDB) FieldName(name string) string {
	return d.root + "." + strings.TrimSpace(name)
}

// Source joins source and name with a dot. A source that already starts
// with the root token is not prefixed a second time.
func (d *DocumentDB) Source(source, name string) string {
	path := strings.TrimSpace(source) + "." + strings.TrimSpace(name)
	if strings.HasPrefix(path, d.root+".") {
		return path
	}
	return d.root + "." + path
}

// EnumLiteral quotes the member name for integer values and returns any
// other raw text unquoted.
func (d *DocumentDB) EnumLiteral(typ queryir.TypeRef, raw string) string {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw
	}
	return "'" + typ.EnumLiteral(v) + "'"
}

// FunctionName maps toupper, tolower, indexof and trim to their dialect
// tokens and upper-cases every other name.
func (d *DocumentDB) FunctionName(name string) string {
	if token, ok := functionTokens[name]; ok {
		return token
	}
	return d.upper.String(name)
}

// JoinClause allocates the next alias, skipping the root token, and joins
// it over the trimmed collection name.
func (d *DocumentDB) JoinClause(collection string) string {
	d.aliases++
	return KeywordJoin + " " + d.currentAlias() + " " + KeywordIn + " " + d.root + "." + strings.TrimSpace(collection)
}

// JoinMember ignores source and resolves the trimmed name against the
// latest alias. Called before any JoinClause it resolves against the first
// alias, "a".
func (d *DocumentDB) JoinMember(source, name string) string {
	return d.currentAlias() + "." + strings.TrimSpace(name)
}

// IsJoinClause reports whether text starts with the JOIN keyword.
func (d *DocumentDB) IsJoinClause(text string) bool {
	return strings.HasPrefix(text, KeywordJoin+" ")
}

// Reset forgets every allocated alias so the formatter can serve a new,
// unrelated translation.
func (d *DocumentDB) Reset() {
	d.aliases = 0
}

// currentAlias returns the most recently allocated alias. Aliases run
// a, b, d, ... z, aa, ab, ... skipping the root token.
func (d *DocumentDB) currentAlias() string {
	n := 0
	var alias string
	for i := 0; n < d.aliases; i++ {
		alias = aliasName(i)
		if alias != d.root {
			n++
		}
	}
	if alias == "" {
		// JoinMember before any JoinClause: resolve against the first alias
		// so the text stays stable.
		return aliasName(0)
	}
	return alias
}

// aliasName returns the i-th name of the sequence a..z, aa..az, ba...
func aliasName(i int) string {
	var b []byte
	for i++; i > 0; i = (i - 1) / 26 {
		b = append([]byte{byte('a' + (i-1)%26)}, b...)
	}
	return string(b)
}
