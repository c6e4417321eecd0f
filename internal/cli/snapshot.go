package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tmengine/internal/harness"
	"github.com/roach88/tmengine/internal/store"
	"github.com/roach88/tmengine/internal/tm"
	"github.com/roach88/tmengine/internal/tmdoc"
)

// SnapshotOptions holds flags for the snapshot commands.
type SnapshotOptions struct {
	*RootOptions
	Database string
	Out      string
	Hash     string // list only snapshots with this document hash
}

// SnapshotList is the output of snapshot list.
type SnapshotList struct {
	Snapshots []store.Snapshot `json:"snapshots"`
}

// NewSnapshotCommand creates the snapshot command and its subcommands.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Persist and restore topic maps",
		Long: `Save merged topic maps to a SQLite database and restore them.

Snapshots are stored as canonical JSON under a name, together with
their content hash. Loading verifies the hash.

Examples:
  tmengine snapshot save opera --db ./tm.db opera.yaml composers.yaml
  tmengine snapshot list --db ./tm.db
  tmengine snapshot list --db ./tm.db --hash <hash>
  tmengine snapshot load opera --db ./tm.db --out opera.json
  tmengine snapshot delete opera --db ./tm.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	save := &cobra.Command{
		Use:           "save <name> <doc>...",
		Short:         "Merge documents and store the result",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotSave(opts, args[0], args[1:], cmd)
		},
	}

	load := &cobra.Command{
		Use:           "load <name>",
		Short:         "Restore a stored snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotLoad(opts, args[0], cmd)
		},
	}
	load.Flags().StringVarP(&opts.Out, "out", "o", "", "write the restored document to this file (.json, .yaml)")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List stored snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotList(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.Hash, "hash", "", "list only snapshots whose document has this hash")

	del := &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a stored snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotDelete(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(save, load, list, del)
	return cmd
}

// openStore opens the database at path. With mustExist, a missing file
// is a command error instead of a new empty database.
func openStore(opts *RootOptions, path string, mustExist bool) (*store.Store, error) {
	if mustExist {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
		}
	}
	opts.Logger().Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func runSnapshotSave(opts *SnapshotOptions, name string, paths []string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, err := buildMap(opts.RootOptions, paths)
	if err != nil {
		return reportError(formatter, err)
	}

	st, err := openStore(opts.RootOptions, opts.Database, false)
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := st.SaveSnapshot(ctx, name, tmdoc.Export(m))
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to save snapshot", err)
	}
	opts.Logger().Info("snapshot saved", "name", snap.Name, "hash", snap.Hash, "seq", snap.Seq)

	if opts.Format == "json" {
		return formatter.Success(snap)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved snapshot %s (%d topics, %d associations)\n", snap.Name, m.TopicCount(), m.AssociationCount())
	fmt.Fprintf(cmd.OutOrStdout(), "  hash %s\n", snap.Hash)
	return nil
}

func runSnapshotLoad(opts *SnapshotOptions, name string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts.RootOptions, opts.Database, true)
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := st.LoadSnapshot(ctx, name)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return WrapExitError(ExitFailure, "snapshot not found", err)
		}
		return WrapExitError(ExitCommandError, "failed to load snapshot", err)
	}

	m := tm.New(tm.WithIRI(doc.Base), tm.WithLogger(opts.Logger()))
	if err := tmdoc.Import(m, doc); err != nil {
		return reportError(formatter, err)
	}

	if opts.Out != "" {
		if err := writeDocument(opts.Out, m); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if opts.Format == "json" {
		result, err := newMergeResult(m, 1)
		if err != nil {
			return reportError(formatter, err)
		}
		result.Out = opts.Out
		if opts.Out == "" {
			result.Document = doc
		}
		return formatter.Success(result)
	}

	if opts.Out != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored snapshot %s into %s\n", name, opts.Out)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), harness.Summarize(name, m))
	return nil
}

func runSnapshotList(opts *SnapshotOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts.RootOptions, opts.Database, true)
	if err != nil {
		return err
	}
	defer st.Close()

	var snaps []store.Snapshot
	if opts.Hash != "" {
		snaps, err = st.SnapshotsByHash(ctx, opts.Hash)
	} else {
		snaps, err = st.ListSnapshots(ctx)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list snapshots", err)
	}

	if opts.Format == "json" {
		return formatter.Success(SnapshotList{Snapshots: snaps})
	}

	w := cmd.OutOrStdout()
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots found.")
		return nil
	}
	for _, s := range snaps {
		fmt.Fprintf(w, "%-4d %-24s %s\n", s.Seq, s.Name, s.Hash)
	}
	return nil
}

func runSnapshotDelete(opts *SnapshotOptions, name string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts.RootOptions, opts.Database, true)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteSnapshot(ctx, name); err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return WrapExitError(ExitFailure, "snapshot not found", err)
		}
		return WrapExitError(ExitCommandError, "failed to delete snapshot", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]string{"deleted": name})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted snapshot %s\n", name)
	return nil
}
