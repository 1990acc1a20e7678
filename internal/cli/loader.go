package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/odatasql/internal/querydoc"
	"github.com/roach88/odatasql/internal/querysql"
)

// LoadMode controls how errors are handled during document loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the documents loaded from the command arguments.
type LoadResult struct {
	Documents []*querydoc.Document
	FileCount int // Number of document files found
}

// LoadError represents an error that occurred while loading or translating
// a query document.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Detail returns the message prefixed with the file it concerns.
func (e *LoadError) Detail() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Path != "" {
		return e.Path + ": " + e.Message
	}
	return e.Message
}

// LoadDocuments loads query documents from files and directories.
// Directories contribute every .yaml, .yml and .cue file directly inside
// them. A nil result means nothing could be loaded at all.
func LoadDocuments(paths []string, mode LoadMode) (*LoadResult, []error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, []error{&LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("path not found: %s", path)}}
		}
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("error accessing path: %v", err)}}
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		found, err := querydoc.FindDocuments(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Path: path, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: "no query documents found"}}
	}

	result := &LoadResult{FileCount: len(files)}
	var errs []error
	for _, f := range files {
		doc, err := querydoc.LoadFile(f)
		if err != nil {
			errs = append(errs, convertDocumentError(err, f))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Documents = append(result.Documents, doc)
	}

	return result, errs
}

// convertDocumentError converts a querydoc or querysql error to a LoadError
// with position info.
func convertDocumentError(err error, path string) *LoadError {
	var docErr *querydoc.DocumentError
	if errors.As(err, &docErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(docErr.Field),
			Path:    path,
			Message: fmt.Sprintf("%s: %s", docErr.Field, docErr.Message),
			Pos:     docErr.Pos,
		}
	}

	var translateErr *querysql.TranslateError
	if errors.As(err, &translateErr) {
		return &LoadError{
			Code:    MapTranslateErrorToCode(translateErr.Code),
			Path:    path,
			Message: err.Error(),
		}
	}

	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Path:    path,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No query documents found
	ErrCodeLoadFailed  = "E004" // Document could not be parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error

	// Document errors
	ErrCodeDocumentName = "E101" // Missing or empty name
	ErrCodeInvalidNode  = "E102" // Malformed filter, search or order key node
	ErrCodeInvalidOpts  = "E103" // Unknown clause or bad levels/top value
	ErrCodeSchema       = "E104" // CUE syntax error or schema violation

	// Translation errors
	ErrCodeUnsupportedNode     = "E201" // Node variant with no translation
	ErrCodeUnsupportedOperator = "E202" // Operator with no dialect token
	ErrCodeInvalidQuantifier   = "E203" // any/all over something that is not a join
)

// MapFieldToErrorCode maps a document error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "name":
		return ErrCodeDocumentName
	case field == "clauses", field == "levels", field == "top":
		return ErrCodeInvalidOpts
	case field == "cue":
		return ErrCodeSchema
	case hasFieldPrefix(field, "filter"), hasFieldPrefix(field, "search"), hasFieldPrefix(field, "orderby"):
		return ErrCodeInvalidNode
	default:
		return ErrCodeGeneric
	}
}

// MapTranslateErrorToCode maps a translation error code to a CLI error code.
func MapTranslateErrorToCode(code querysql.ErrorCode) string {
	switch code {
	case querysql.ErrCodeUnsupportedNode:
		return ErrCodeUnsupportedNode
	case querysql.ErrCodeUnsupportedOperator:
		return ErrCodeUnsupportedOperator
	case querysql.ErrCodeInvalidQuantifier:
		return ErrCodeInvalidQuantifier
	default:
		return ErrCodeGeneric
	}
}

func hasFieldPrefix(field, prefix string) bool {
	if len(field) < len(prefix) || field[:len(prefix)] != prefix {
		return false
	}
	return len(field) == len(prefix) || field[len(prefix)] == '.' || field[len(prefix)] == '['
}
