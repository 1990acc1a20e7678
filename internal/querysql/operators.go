package querysql

import (
	"github.com/roach88/odatasql/internal/dialect"
	"github.com/roach88/odatasql/internal/queryir"
)

// binaryOperatorTokens maps operators to dialect text. has is deliberately
// absent: the dialect has no flags test.
var binaryOperatorTokens = map[queryir.BinaryOperatorKind]string{
	queryir.OpOr:                 dialect.KeywordOr,
	queryir.OpAnd:                dialect.KeywordAnd,
	queryir.OpEqual:              "=",
	queryir.OpNotEqual:           "!=",
	queryir.OpGreaterThan:        ">",
	queryir.OpGreaterThanOrEqual: ">=",
	queryir.OpLessThan:           "<",
	queryir.OpLessThanOrEqual:    "<=",
	queryir.OpAdd:                "+",
	queryir.OpSubtract:           "-",
	queryir.OpMultiply:           "*",
	queryir.OpDivide:             "/",
	queryir.OpModulo:             "%",
}

// binaryPrecedence returns how tightly op binds, from or (1) to has (6).
func binaryPrecedence(op queryir.BinaryOperatorKind) (int, bool) {
	switch op {
	case queryir.OpOr:
		return 1, true
	case queryir.OpAnd:
		return 2, true
	case queryir.OpEqual, queryir.OpNotEqual,
		queryir.OpGreaterThan, queryir.OpGreaterThanOrEqual,
		queryir.OpLessThan, queryir.OpLessThanOrEqual:
		return 3, true
	case queryir.OpAdd, queryir.OpSubtract:
		return 4, true
	case queryir.OpMultiply, queryir.OpDivide, queryir.OpModulo:
		return 5, true
	case queryir.OpHas:
		return 6, true
	default:
		return -1, false
	}
}
