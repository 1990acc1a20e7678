package querydoc

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// DocumentError reports an invalid query document.
//
// Field is the dotted path of the offending element, e.g.
// "filter.and[1].any.source". Pos is set for CUE documents when the
// error can be traced back to the source file.
type DocumentError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *DocumentError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(field, format string, args ...any) *DocumentError {
	return &DocumentError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// formatCUEError converts a CUE error into a DocumentError, keeping the
// position of the first error when CUE reports one.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &DocumentError{Field: "cue", Message: err.Error()}
	}

	firstErr := errs[0]
	docErr := &DocumentError{Field: "cue", Message: firstErr.Error()}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		docErr.Pos = positions[0]
	}
	return docErr
}
