package cli

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tmengine/internal/tm"
	"github.com/roach88/tmengine/internal/tmdoc"
)

// CLIError codes raised by the commands themselves. Invalid documents
// report the E2xx codes of tmdoc instead.
const (
	ErrCodeGeneric     = "E001" // anything without a more specific code
	ErrCodeNotFound    = "E005" // document, topic or theme does not exist
	ErrCodeWriteFailed = "E007" // --out could not be written
	ErrCodeMergeFailed = "E008" // tm.Error from import, merge or dedupe
	ErrCodeStore       = "E009" // snapshot or journal database error
)

// loadDocuments reads every document at paths. A document without a base
// is given the file IRI of its path, so relative references stay stable
// across runs.
func loadDocuments(paths []string) ([]*tmdoc.Document, error) {
	docs := make([]*tmdoc.Document, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, &tmdoc.LoadError{Path: path, Code: ErrCodeNotFound, Message: "document not found"}
			}
			return nil, &tmdoc.LoadError{Path: path, Code: ErrCodeNotFound, Message: err.Error()}
		}

		doc, err := tmdoc.Load(path)
		if err != nil {
			return nil, err
		}
		if doc.Base == "" {
			base, err := fileIRI(path)
			if err != nil {
				return nil, &tmdoc.LoadError{Path: path, Code: ErrCodeGeneric, Message: err.Error()}
			}
			doc.Base = base
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// fileIRI returns the absolute file IRI of path.
func fileIRI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// newMap creates an empty map with the base of the first document.
func newMap(opts *RootOptions, docs []*tmdoc.Document) *tm.TopicMap {
	var base string
	if len(docs) > 0 {
		base = docs[0].Base
	}
	return tm.New(tm.WithIRI(base), tm.WithLogger(opts.Logger()))
}

// importDocuments imports docs into m in order. The first failing
// document stops the import; documents imported before it stay merged.
func importDocuments(opts *RootOptions, m *tm.TopicMap, paths []string, docs []*tmdoc.Document) error {
	for i, doc := range docs {
		opts.Logger().Debug("importing document",
			"path", paths[i],
			"topics", len(doc.Topics),
			"associations", len(doc.Associations))
		if err := tmdoc.Import(m, doc); err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
	}
	opts.Logger().Debug("import complete",
		"topics", m.TopicCount(),
		"associations", m.AssociationCount())
	return nil
}

// buildMap loads the documents at paths and merges them into one map.
func buildMap(opts *RootOptions, paths []string) (*tm.TopicMap, error) {
	docs, err := loadDocuments(paths)
	if err != nil {
		return nil, err
	}
	m := newMap(opts, docs)
	if err := importDocuments(opts, m, paths, docs); err != nil {
		return nil, err
	}
	return m, nil
}

// writeDocument exports m to path. The extension selects the encoding:
// .json writes canonical JSON, .yaml and .yml write YAML.
func writeDocument(path string, m *tm.TopicMap) error {
	doc := tmdoc.Export(m)

	format, ok := tmdoc.FormatOf(path)
	if !ok || format == tmdoc.FormatCUE {
		return fmt.Errorf("unsupported output format: %s", filepath.Ext(path))
	}

	var data []byte
	var err error
	switch format {
	case tmdoc.FormatJSON:
		data, err = tmdoc.Canonical(doc)
	case tmdoc.FormatYAML:
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// reportError writes err through formatter and returns the matching
// ExitError. Invalid documents and refused merges are failures (exit 1);
// unreadable inputs are command errors (exit 2).
func reportError(formatter *OutputFormatter, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return exitErr
	}

	var verrs tmdoc.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		_ = formatter.Error(verrs[0].Code, err.Error(), verrs)
		return WrapExitError(ExitFailure, fmt.Sprintf("invalid document (%d error(s))", len(verrs)), err)
	}

	var loadErr *tmdoc.LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load document", err)
	}

	var tmErr *tm.Error
	if errors.As(err, &tmErr) {
		_ = formatter.Error(ErrCodeMergeFailed, err.Error(), map[string]any{
			"class":   string(tmErr.Code),
			"details": tmErr.Details,
		})
		return WrapExitError(ExitFailure, "merge failed", err)
	}

	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitFailure, "command failed", err)
}

// newFormatter returns the formatter for cmd output.
func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}
}
