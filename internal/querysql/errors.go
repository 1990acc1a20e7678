package querysql

import (
	"errors"
	"fmt"

	"github.com/roach88/odatasql/internal/queryir"
)

// TranslateError reports a tree the translator has no rule for.
//
// Translation errors are raised at the offending node and are never
// recovered locally: the whole Translate call fails and no partial query
// text is returned. Retrying reproduces the same error.
type TranslateError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Node is the offending node, if any.
	Node queryir.Node
}

// ErrorCode categorizes translation errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedNode indicates a node variant with no translation rule.
	ErrCodeUnsupportedNode ErrorCode = "UNSUPPORTED_NODE"

	// ErrCodeUnsupportedOperator indicates an operator with no dialect token.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"

	// ErrCodeInvalidQuantifier indicates an any/all whose source does not
	// start a join, or a join outside of a filter.
	ErrCodeInvalidQuantifier ErrorCode = "INVALID_QUANTIFIER"
)

func (e *TranslateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, node queryir.Node, format string, args ...any) *TranslateError {
	return &TranslateError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}

// IsUnsupported returns true if the error is an unsupported node or
// operator error. Uses errors.As to handle wrapped errors.
func IsUnsupported(err error) bool {
	var te *TranslateError
	if errors.As(err, &te) {
		return te.Code == ErrCodeUnsupportedNode || te.Code == ErrCodeUnsupportedOperator
	}
	return false
}

// IsInvalidQuantifier returns true if the error is an invalid quantifier
// error. Uses errors.As to handle wrapped errors.
func IsInvalidQuantifier(err error) bool {
	var te *TranslateError
	if errors.As(err, &te) {
		return te.Code == ErrCodeInvalidQuantifier
	}
	return false
}
