package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// Output formats accepted by --format.
const (
	FormatText = "text" // one "-- name" block per translated document
	FormatJSON = "json" // a single CLIResponse envelope
)

// RootOptions holds the flags shared by translate and validate.
type RootOptions struct {
	Verbose bool   // debug-level translator logs and progress lines on stderr
	Format  string // FormatText or FormatJSON
}

// ValidFormats lists the values --format accepts.
var ValidFormats = []string{FormatText, FormatJSON}

// NewRootCommand creates the root command for the odatasql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "odatasql",
		Short: "odatasql - OData query trees to document SQL",
		Long:  "Translate already-parsed OData query options into document database SQL.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log each document and translation to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format for queries and errors (text|json)")

	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}
