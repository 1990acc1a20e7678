// Package queryir provides the already-parsed query expression tree consumed
// by the document SQL translator.
//
// The tree is produced by an external query-language front end (the
// filter/select/orderby/top options of a URL query) after it has been bound
// against an entity model. This package only describes the result; it never
// parses query text and never validates a tree against a schema.
//
// ARCHITECTURE:
//
//	[URL query text] → [front end + model] → [queryir tree] → [querysql] → dialect text
//
// SEALED INTERFACE:
//
// Node is a sealed interface using the marker method pattern. Only types in
// this package implement it, so translators can switch over the closed set
// of variants and treat anything else as an unsupported node:
//
//	switch n := node.(type) {
//	case *BinaryOperator:
//	    // ...
//	case *Constant:
//	    // ...
//	default:
//	    // unsupported
//	}
//
// Variants fall into a few families:
//   - Operators: BinaryOperator, UnaryOperator
//   - Quantifiers: Any, All (each binds a named range variable over a collection)
//   - Path segments: property access (structural, open, navigation; single and
//     collection) and the four type casts. All of them implement Accessor.
//   - Range variables: EntityRangeVariableReference, NonentityRangeVariableReference
//   - Leaves: Constant, ParameterAlias, SearchTerm
//   - Calls: four function-call variants plus NamedFunctionParameter
//   - Convert: a transparent type-conversion wrapper
//
// OWNERSHIP:
//
// Trees are immutable once built. Every node has exactly one parent; the
// translator never shares or mutates nodes, so the same tree may be
// translated concurrently by independent translators.
package queryir
