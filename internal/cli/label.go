package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tmengine/internal/harness"
	"github.com/roach88/tmengine/internal/tm"
)

// LabelOptions holds flags for the label command.
type LabelOptions struct {
	*RootOptions
	Scope []string // context themes
}

// LabelResult is the label of one topic.
type LabelResult struct {
	Topic string   `json:"topic"`
	Scope []string `json:"scope,omitempty"`
	Label string   `json:"label"`
}

// NewLabelCommand creates the label command.
func NewLabelCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LabelOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "label <doc> <topic>",
		Short: "Print the display label of a topic",
		Long: `Import a document and print the label of one topic.

The topic is a subject identifier, or a reference of the form sid:IRI,
slo:IRI or iid:IRI. Relative IRIs resolve against the document base.
Each --scope names a theme of the context; names in exactly that scope
are preferred.

Examples:
  tmengine label opera.yaml http://example.org/tosca
  tmengine label opera.yaml sid:tosca --scope sid:italian`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabel(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Scope, "scope", nil, "context theme (repeatable)")

	return cmd
}

func runLabel(opts *LabelOptions, path, ref string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, err := buildMap(opts.RootOptions, []string{path})
	if err != nil {
		return reportError(formatter, err)
	}

	t, err := harness.ResolveTopic(m, topicRef(ref))
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitFailure, "topic not found", err)
	}

	refs := make([]string, len(opts.Scope))
	for i, s := range opts.Scope {
		refs[i] = topicRef(s)
	}
	ctx, err := harness.ResolveTopics(m, refs)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitFailure, "scope topic not found", err)
	}

	label, err := tm.Atomify(t, ctx...)
	if err != nil {
		return reportError(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(LabelResult{Topic: ref, Scope: opts.Scope, Label: label})
	}
	fmt.Fprintln(cmd.OutOrStdout(), label)
	return nil
}

// topicRef reads a bare IRI as a subject identifier reference.
func topicRef(ref string) string {
	prefix, _, ok := strings.Cut(ref, ":")
	if ok {
		if _, known := tm.ParseIdentityKind(prefix); known {
			return ref
		}
	}
	return "sid:" + ref
}
