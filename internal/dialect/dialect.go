// Package dialect maps abstract query tokens to the text of a document SQL
// dialect: field references, join clauses, function names and enum literals.
//
// A Formatter is a policy object owned by a single translation. It carries
// one piece of mutable state, the join-alias counter, so a fresh Formatter
// must be created for every independent translation. Sharing one across
// concurrent translations interleaves alias numbering.
package dialect

import "github.com/roach88/odatasql/internal/queryir"

// Formatter produces dialect-specific text for the translator.
type Formatter interface {
	// Root returns the token that names the queried document, e.g. "c".
	Root() string

	// FieldName returns a root-prefixed field reference: "c.name".
	FieldName(name string) string

	// Source returns the dotted path source.name, prefixed with the root
	// token unless source is already rooted.
	Source(source, name string) string

	// EnumLiteral renders an enum constant. Integer values become the quoted
	// member name; anything else is passed through unchanged.
	EnumLiteral(typ queryir.TypeRef, raw string) string

	// FunctionName maps a query function name to the dialect function token.
	FunctionName(name string) string

	// JoinClause allocates the next alias and returns a join over the
	// root-level collection: "JOIN a IN c.items".
	JoinClause(collection string) string

	// JoinMember returns name resolved against the most recently allocated
	// alias: "a.name". It never allocates.
	JoinMember(source, name string) string

	// IsJoinClause reports whether text was produced by JoinClause.
	IsJoinClause(text string) bool
}

// Factory creates a fresh Formatter for one translation.
type Factory func() Formatter
