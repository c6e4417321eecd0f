package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tmengine/internal/harness"
	"github.com/roach88/tmengine/internal/index"
	"github.com/roach88/tmengine/internal/tm"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Type  string // list the constructs typed by this topic
	Theme string // list the constructs scoped by this topic
}

// UsageEntry counts the constructs using a topic as type or theme.
type UsageEntry struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// ConstructEntry is one construct found through an index.
type ConstructEntry struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// IndexResult is the output of the index command.
type IndexResult struct {
	Types         []UsageEntry     `json:"types"`
	Themes        []UsageEntry     `json:"themes"`
	Unconstrained int              `json:"unconstrained"`
	Identities    map[string]int   `json:"identities"`
	Statements    int              `json:"statements"`
	Signatures    int              `json:"signatures"`
	Constructs    []ConstructEntry `json:"constructs,omitempty"`
	Consistent    bool             `json:"consistent"`
	Problems      []string         `json:"problems,omitempty"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index <doc>...",
		Short: "Show the type, scope and identity indexes of merged documents",
		Long: `Import documents with the type, scope and identity indexes attached.

The indexes are kept current from change notifications while the
documents are merged. Afterwards the identity index is checked against
the map; any disagreement is a failure.

--type and --theme list the constructs typed or scoped by one topic.

Examples:
  tmengine index opera.yaml composers.yaml
  tmengine index opera.yaml --theme sid:italian
  tmengine index opera.yaml composers.yaml --type sid:born-in --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "list constructs typed by this topic")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "list constructs scoped by this topic")

	return cmd
}

func runIndex(opts *IndexOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	docs, err := loadDocuments(paths)
	if err != nil {
		return reportError(formatter, err)
	}
	m := newMap(opts.RootOptions, docs)

	types := index.NewTypeInstanceIndex(m)
	defer types.Close()
	scopes := index.NewScopedIndex(m)
	defer scopes.Close()
	identities := index.NewIdentityIndex(m)
	defer identities.Close()
	sigs := index.NewSignatureCache(m)
	defer sigs.Close()

	if err := importDocuments(opts.RootOptions, m, paths, docs); err != nil {
		return reportError(formatter, err)
	}

	result := IndexResult{
		Unconstrained: len(scopes.Unconstrained()),
		Identities: map[string]int{
			tm.SubjectIdentifier.String(): identities.Len(tm.SubjectIdentifier),
			tm.SubjectLocator.String():    identities.Len(tm.SubjectLocator),
			tm.ItemIdentifier.String():    identities.Len(tm.ItemIdentifier),
		},
		Problems: identities.Verify(),
	}
	result.Consistent = len(result.Problems) == 0
	if result.Statements, result.Signatures, err = countSignatures(m, sigs); err != nil {
		return reportError(formatter, err)
	}
	for _, t := range types.Types() {
		result.Types = append(result.Types, UsageEntry{Topic: harness.TopicRef(t), Count: len(types.Typed(t))})
	}
	for _, t := range scopes.Themes() {
		result.Themes = append(result.Themes, UsageEntry{Topic: harness.TopicRef(t), Count: len(scopes.Scoped(t))})
	}

	var listed []tm.Construct
	if opts.Type != "" {
		t, err := harness.ResolveTopic(m, topicRef(opts.Type))
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitFailure, "type topic not found", err)
		}
		listed = append(listed, types.Typed(t)...)
	}
	if opts.Theme != "" {
		t, err := harness.ResolveTopic(m, topicRef(opts.Theme))
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitFailure, "theme topic not found", err)
		}
		listed = append(listed, scopes.Scoped(t)...)
	}
	for _, c := range listed {
		label, err := tm.Atomify(c)
		if err != nil {
			return reportError(formatter, err)
		}
		result.Constructs = append(result.Constructs, ConstructEntry{Kind: c.Kind().String(), Label: label})
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputIndexText(cmd, result, opts.Type != "" || opts.Theme != "")
	}

	if !result.Consistent {
		return NewExitError(ExitFailure, fmt.Sprintf("identity index disagrees with the map on %d identity(s)", len(result.Problems)))
	}
	return nil
}

// countSignatures returns the number of names, occurrences and
// associations in m and the number of distinct signatures among them.
// Signatures are compared within the same parent.
func countSignatures(m *tm.TopicMap, sigs *index.SignatureCache) (statements, distinct int, err error) {
	var constructs []tm.Construct
	for _, t := range m.Topics() {
		for _, n := range t.Names() {
			constructs = append(constructs, n)
		}
		for _, o := range t.Occurrences() {
			constructs = append(constructs, o)
		}
	}
	for _, a := range m.Associations() {
		constructs = append(constructs, a)
	}

	seen := make(map[string]struct{}, len(constructs))
	for _, c := range constructs {
		sig, err := sigs.Signature(c)
		if err != nil {
			return 0, 0, err
		}
		seen[fmt.Sprintf("%s|%d|%s", c.Kind(), c.Parent().ID(), sig)] = struct{}{}
	}
	return len(constructs), len(seen), nil
}

func outputIndexText(cmd *cobra.Command, result IndexResult, listing bool) {
	w := cmd.OutOrStdout()

	if listing {
		for _, c := range result.Constructs {
			fmt.Fprintf(w, "%s %q\n", c.Kind, c.Label)
		}
		return
	}

	fmt.Fprintln(w, "types")
	for _, u := range result.Types {
		fmt.Fprintf(w, "  %s %d\n", u.Topic, u.Count)
	}
	fmt.Fprintln(w, "themes")
	for _, u := range result.Themes {
		fmt.Fprintf(w, "  %s %d\n", u.Topic, u.Count)
	}
	fmt.Fprintf(w, "unconstrained %d\n", result.Unconstrained)
	fmt.Fprintf(w, "identities sid=%d slo=%d iid=%d\n",
		result.Identities["sid"], result.Identities["slo"], result.Identities["iid"])
	fmt.Fprintf(w, "statements %d signatures %d\n", result.Statements, result.Signatures)

	if result.Consistent {
		fmt.Fprintln(w, "✓ identity index consistent")
		return
	}
	fmt.Fprintln(w, "✗ identity index inconsistent")
	for _, p := range result.Problems {
		fmt.Fprintf(w, "  %s\n", p)
	}
}
