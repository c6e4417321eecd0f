package tmdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// Load error codes (E210-E219)
const (
	ErrCodeRead          = "E210" // file could not be read
	ErrCodeFormat        = "E211" // unsupported file extension
	ErrCodeDecode        = "E212" // malformed document
	ErrCodeEmptyDocument = "E213" // no document in input
)

// Format identifies a document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".cue":
		return FormatCUE, true
	}
	return "", false
}

// LoadError represents a failure to read or decode a document.
type LoadError struct {
	Path    string
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads the document at path. The extension selects the decoder.
// The document is not validated.
func Load(path string) (*Document, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, &LoadError{Path: path, Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported extension %q", filepath.Ext(path))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Code: ErrCodeRead, Message: err.Error()}
	}

	doc, err := parse(data, format, path)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse decodes a document from data.
func Parse(data []byte, format Format) (*Document, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, filename string) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &LoadError{Code: ErrCodeEmptyDocument, Message: "document is empty"}
	}

	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &LoadError{Code: ErrCodeEmptyDocument, Message: "document is empty"}
			}
			return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error()}
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error()}
		}
	case FormatCUE:
		if err := decodeCUE(data, filename, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported format %q", format)}
	}
	return &doc, nil
}

// decodeCUE evaluates a CUE source and decodes the resulting concrete
// value. Field names follow the JSON tags.
func decodeCUE(data []byte, filename string, doc *Document) error {
	ctx := cuecontext.New()

	var opts []cue.BuildOption
	if filename != "" {
		opts = append(opts, cue.Filename(filename))
	}
	v := ctx.CompileBytes(data, opts...)
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	if err := v.Decode(doc); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeDecode, Message: err.Error()}
	}

	// Return first error with position info
	first := errs[0]
	le := &LoadError{Code: ErrCodeDecode, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
