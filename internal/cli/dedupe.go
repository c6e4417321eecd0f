package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tmengine/internal/tm"
)

// DedupeOptions holds flags for the dedupe command.
type DedupeOptions struct {
	*RootOptions
	Out string
}

// DedupeResult reports the duplicates removed from a document.
type DedupeResult struct {
	MapIRI  string         `json:"map_iri"`
	Removed int            `json:"removed"`
	ByKind  map[string]int `json:"by_kind,omitempty"`
	Topics  int            `json:"topics"`
	Out     string         `json:"out,omitempty"`
}

// NewDedupeCommand creates the dedupe command.
func NewDedupeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DedupeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dedupe <doc>",
		Short: "Remove duplicate statements from a document",
		Long: `Import a document and remove every duplicate construct.

Two names, occurrences, variants, roles or associations are duplicates
when their parent, type, value, datatype, player and scope agree. The
surviving construct absorbs the item identifiers, reifier and children
of the removed one.

Duplicates found while the document is imported are counted too.

Examples:
  tmengine dedupe opera.yaml
  tmengine dedupe opera.yaml --out opera.clean.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedupe(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the cleaned document to this file (.json, .yaml)")

	return cmd
}

func runDedupe(opts *DedupeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	docs, err := loadDocuments([]string{path})
	if err != nil {
		return reportError(formatter, err)
	}
	m := newMap(opts.RootOptions, docs)

	result := DedupeResult{ByKind: make(map[string]int)}
	unsubscribe := m.Bus().Subscribe(tm.EventDuplicateRemoved, func(e tm.Event) error {
		if c, ok := e.Old.(tm.Construct); ok {
			result.ByKind[c.Kind().String()]++
		}
		result.Removed++
		return nil
	})
	defer unsubscribe()

	if err := importDocuments(opts.RootOptions, m, []string{path}, docs); err != nil {
		return reportError(formatter, err)
	}
	if _, err := m.RemoveDuplicates(); err != nil {
		return reportError(formatter, err)
	}

	result.MapIRI = m.IRI()
	result.Topics = m.TopicCount()

	if opts.Out != "" {
		if err := writeDocument(opts.Out, m); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		result.Out = opts.Out
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ Removed %d duplicate(s)\n", result.Removed)
	for _, kind := range []string{"name", "occurrence", "variant", "association", "role"} {
		if n := result.ByKind[kind]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", kind, n)
		}
	}
	if opts.Out != "" {
		fmt.Fprintf(w, "  written to %s\n", opts.Out)
	}
	return nil
}
