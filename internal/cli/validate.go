package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tmengine/internal/tmdoc"
)

// DocumentError is a validation error located in a document file.
type DocumentError struct {
	File string `json:"file"`
	tmdoc.ValidationError
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool            `json:"valid"`
	Documents int             `json:"documents"`
	Errors    []DocumentError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <doc>...",
		Short: "Validate topic map documents without importing them",
		Long: `Validate topic map documents without building a map.

Checks that every document decodes, that its IRIs are well formed, that
every topic reference names a topic of the document and that no topic
reifies more than one construct. All problems are reported, not just
the first.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var errs []DocumentError
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		errs = append(errs, ValidateDocument(path)...)
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	return outputValidateSuccess(formatter, len(paths))
}

// ValidateDocument loads and validates the document at path. A document
// that cannot be loaded yields a single error.
func ValidateDocument(path string) []DocumentError {
	docs, err := loadDocuments([]string{path})
	if err != nil {
		ve := tmdoc.ValidationError{Field: "document", Message: err.Error(), Code: ErrCodeGeneric}
		var loadErr *tmdoc.LoadError
		if errors.As(err, &loadErr) {
			ve.Message = loadErr.Message
			ve.Code = loadErr.Code
		}
		return []DocumentError{{File: path, ValidationError: ve}}
	}

	var errs []DocumentError
	for _, ve := range tmdoc.Validate(docs[0]) {
		errs = append(errs, DocumentError{File: path, ValidationError: ve})
	}
	return errs
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, documents int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Documents: documents})
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d document(s) valid\n", documents)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []DocumentError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	file := ""
	for _, err := range errs {
		if err.File != file {
			fmt.Fprintln(formatter.Writer, err.File)
			file = err.File
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
