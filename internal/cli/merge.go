package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tmengine/internal/harness"
	"github.com/roach88/tmengine/internal/tm"
	"github.com/roach88/tmengine/internal/tmdoc"
)

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	*RootOptions
	Out   string // export path; the summary is printed when empty
	Stats bool   // report engine metrics
}

// MergeResult is the outcome of a merge.
type MergeResult struct {
	MapIRI       string             `json:"map_iri"`
	Documents    int                `json:"documents"`
	Topics       int                `json:"topics"`
	Associations int                `json:"associations"`
	Hash         string             `json:"hash"`
	Out          string             `json:"out,omitempty"`
	Document     *tmdoc.Document    `json:"document,omitempty"`
	Stats        map[string]float64 `json:"stats,omitempty"`
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "merge <doc>...",
		Short: "Merge topic map documents into one map",
		Long: `Import every document, in order, into one topic map.

Topics sharing a subject identifier, subject locator or item identifier
are merged and duplicate statements are removed. The first document
supplies the base IRI of the result.

Documents may be YAML (.yaml, .yml), JSON (.json) or CUE (.cue).

Examples:
  tmengine merge opera.yaml composers.yaml
  tmengine merge opera.yaml composers.yaml --out merged.json
  tmengine merge opera.yaml --stats --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the merged document to this file (.json, .yaml)")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "report engine metrics")

	return cmd
}

func runMerge(opts *MergeOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	docs, err := loadDocuments(paths)
	if err != nil {
		return reportError(formatter, err)
	}
	m := newMap(opts.RootOptions, docs)

	var stats *statsRecorder
	if opts.Stats {
		if stats, err = newStatsRecorder(m); err != nil {
			return WrapExitError(ExitCommandError, "failed to set up metrics", err)
		}
		defer stats.Close()
	}

	if err := importDocuments(opts.RootOptions, m, paths, docs); err != nil {
		return reportError(formatter, err)
	}
	formatter.VerboseLog("Merged %d document(s): %d topics, %d associations", len(docs), m.TopicCount(), m.AssociationCount())

	result, err := newMergeResult(m, len(docs))
	if err != nil {
		return reportError(formatter, err)
	}
	if stats != nil {
		if result.Stats, err = stats.Snapshot(); err != nil {
			return reportError(formatter, err)
		}
	}

	if opts.Out != "" {
		if err := writeDocument(opts.Out, m); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		result.Out = opts.Out
	}

	if opts.Format == "json" {
		if opts.Out == "" {
			result.Document = tmdoc.Export(m)
		}
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	if opts.Out != "" {
		fmt.Fprintf(w, "✓ Merged %d document(s) into %s (%d topics, %d associations)\n",
			result.Documents, opts.Out, result.Topics, result.Associations)
	} else {
		fmt.Fprint(w, harness.Summarize("merged", m))
	}
	if result.Stats != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, formatStats(result.Stats))
	}
	return nil
}

func newMergeResult(m *tm.TopicMap, documents int) (MergeResult, error) {
	hash, err := tmdoc.Hash(tmdoc.Export(m))
	if err != nil {
		return MergeResult{}, err
	}
	return MergeResult{
		MapIRI:       m.IRI(),
		Documents:    documents,
		Topics:       m.TopicCount(),
		Associations: m.AssociationCount(),
		Hash:         hash,
	}, nil
}
