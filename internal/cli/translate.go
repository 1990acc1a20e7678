package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/odatasql/internal/querydoc"
	"github.com/roach88/odatasql/internal/querysql"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	Clauses []string // overrides the clauses of every document
	Where   string   // overrides the extra predicate of every document
	Output  string   // output file path
}

// TranslateResult holds the translated documents.
type TranslateResult struct {
	Queries []querydoc.Rendered `json:"queries"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate <document>...",
		Short: "Translate query documents to document SQL",
		Long: `Translate query documents to document SQL statements.

Each argument is a .yaml, .yml or .cue query document, or a directory of
them. A document describes an already-parsed query: its filter tree, order
keys, select list and top count, plus the clauses to emit.

Example:
  odatasql translate ./queries/open_orders.yaml
  odatasql translate --clauses where --where "c.tenant = 't1'" ./queries
  odatasql translate --format json -o out.json ./queries`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Clauses, "clauses", nil, "clauses to emit (select,where,orderby,top|all)")
	cmd.Flags().StringVar(&opts.Where, "where", "", "extra predicate AND-combined ahead of each filter")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runTranslate(opts *TranslateOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	logger := formatter.Logger()

	if cmd.Flags().Changed("clauses") {
		if _, err := querysql.ParseOptions(opts.Clauses); err != nil {
			return outputTranslateError(formatter, ErrCodeInvalidOpts, err.Error(), nil)
		}
	}

	loadResult, loadErrors := LoadDocuments(paths, LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputTranslateError(formatter, loadErr.Code, loadErr.Detail(), nil)
		}
		return outputTranslateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d query document(s)", loadResult.FileCount)

	translator := querysql.NewTranslator(querysql.WithLogger(logger))
	result := &TranslateResult{}
	for _, doc := range loadResult.Documents {
		if cmd.Flags().Changed("clauses") {
			doc.Clauses = opts.Clauses
		}
		if cmd.Flags().Changed("where") {
			doc.Where = opts.Where
		}

		logger.Debug("translating document", "name", doc.Name, "path", doc.Path)
		out, err := doc.Render(translator)
		if err != nil {
			loadErr := convertDocumentError(err, doc.Path)
			_ = formatter.Error(loadErr.Code, loadErr.Detail(), nil)
			// A document the translator rejects is a failure, not a usage error
			return WrapExitError(ExitFailure, fmt.Sprintf("%s: %s", loadErr.Code, doc.Name), err)
		}
		result.Queries = append(result.Queries, *out)
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputTranslateError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputTranslateSuccess(formatter, result, opts.Output)
}

// outputTranslateSuccess prints one block per document in text mode:
//
//	-- name
//	SELECT ...
//	-- search: ...
//	-- levels: ...
func outputTranslateSuccess(formatter *OutputFormatter, result *TranslateResult, outputFile string) error {
	if formatter.Format == FormatJSON {
		return formatter.Success(result)
	}

	for _, q := range result.Queries {
		fmt.Fprintf(formatter.Writer, "-- %s\n", q.Name)
		fmt.Fprintln(formatter.Writer, q.SQL)
		if q.Search != "" {
			fmt.Fprintf(formatter.Writer, "-- search: %s\n", q.Search)
		}
		if q.Levels != "" {
			fmt.Fprintf(formatter.Writer, "-- levels: %s\n", q.Levels)
		}
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote %d query(ies) to %s\n", len(result.Queries), outputFile)
	}

	return nil
}

// outputTranslateError outputs a single command error.
func outputTranslateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// writeResultToFile writes the translated documents as indented JSON.
func writeResultToFile(result *TranslateResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
