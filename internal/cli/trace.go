package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tmengine/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	MapIRI   string
	Kind     string // optional - filter to one event kind
}

// TraceResult holds the journal of one map.
type TraceResult struct {
	MapIRI string              `json:"map_iri"`
	Events []store.EventRecord `json:"events"`
	Stats  TraceStats          `json:"stats"`
}

// TraceStats holds summary statistics for the journal.
type TraceStats struct {
	TotalEvents int            `json:"total_events"`
	ByKind      map[string]int `json:"by_kind"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the journal of a map",
		Long: `Print the change journal written for a map.

Events are listed in the order they were dispatched. Each line shows the
sequence number, the event kind, the source construct and the old and
new values.

Examples:
  tmengine trace --db ./tm.db --map file:///work/opera.yaml
  tmengine trace --db ./tm.db --map file:///work/opera.yaml --kind topics-merged
  tmengine trace --db ./tm.db --map file:///work/opera.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.MapIRI, "map", "", "base IRI of the map (required)")
	_ = cmd.MarkFlagRequired("map")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one event kind")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts.RootOptions, opts.Database, true)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ReadEvents(ctx, opts.MapIRI)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	result := TraceResult{
		MapIRI: opts.MapIRI,
		Events: filterEvents(records, opts.Kind),
		Stats:  TraceStats{ByKind: make(map[string]int)},
	}
	for _, rec := range result.Events {
		result.Stats.ByKind[rec.Kind]++
	}
	result.Stats.TotalEvents = len(result.Events)

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputTraceText(cmd, result)
}

// filterEvents keeps the records of one kind. An empty kind keeps all.
func filterEvents(records []store.EventRecord, kind string) []store.EventRecord {
	if kind == "" {
		return records
	}
	filtered := []store.EventRecord{}
	for _, rec := range records {
		if rec.Kind == kind {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	if len(result.Events) == 0 {
		fmt.Fprintf(w, "No events found for map: %s\n", result.MapIRI)
		return nil
	}

	fmt.Fprintf(w, "Journal of %s\n\n", result.MapIRI)
	for _, rec := range result.Events {
		fmt.Fprintf(w, "[%d] %-18s %s#%d", rec.Seq, rec.Kind, rec.SourceKind, rec.SourceID)
		if rec.Old != "" {
			fmt.Fprintf(w, " old=%s", rec.Old)
		}
		if rec.New != "" {
			fmt.Fprintf(w, " new=%s", rec.New)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n%d event(s)\n", result.Stats.TotalEvents)
	return nil
}
