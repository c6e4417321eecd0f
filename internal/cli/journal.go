package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Database string
}

// JournalResult reports a journaled import.
type JournalResult struct {
	MapIRI    string `json:"map_iri"`
	Documents int    `json:"documents"`
	Events    int    `json:"events"`
	Topics    int    `json:"topics"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal <doc>...",
		Short: "Import documents while journaling every change",
		Long: `Import documents into one map with a change journal attached.

Every change notification dispatched while the documents are merged is
written to the database before the change is applied. A failed import
leaves its compensating notifications in the journal too.

Use the trace command to read the journal back.

Examples:
  tmengine journal opera.yaml composers.yaml --db ./tm.db
  tmengine trace --db ./tm.db --map file:///work/opera.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runJournal(opts *JournalOptions, paths []string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	docs, err := loadDocuments(paths)
	if err != nil {
		return reportError(formatter, err)
	}

	st, err := openStore(opts.RootOptions, opts.Database, false)
	if err != nil {
		return err
	}
	defer st.Close()

	m := newMap(opts.RootOptions, docs)
	j := st.Attach(ctx, m)
	defer j.Detach()

	if err := importDocuments(opts.RootOptions, m, paths, docs); err != nil {
		opts.Logger().Warn("import failed", "journaled", j.Count(), "error", err)
		return reportError(formatter, err)
	}
	opts.Logger().Info("journal written", "map", m.IRI(), "events", j.Count())

	result := JournalResult{
		MapIRI:    m.IRI(),
		Documents: len(docs),
		Events:    j.Count(),
		Topics:    m.TopicCount(),
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Journaled %d event(s) for %s\n", result.Events, result.MapIRI)
	return nil
}
