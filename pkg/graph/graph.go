package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/depscope/pkg/errors"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a tree to indented JSON bytes.
func MarshalTree(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTreeFile writes a tree to a JSON file.
func WriteTreeFile(t *Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteTree(t, f)
}

// WriteTree writes a tree as indented JSON.
func WriteTree(t *Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode tree")
	}
	return nil
}

// ReadTreeFile reads a JSON tree from path.
// A missing file yields an ErrCodeFileNotFound error.
func ReadTreeFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadTree(f)
}

// ReadTree decodes a JSON tree. Only syntax errors are reported; edges that
// reference unknown nodes are kept as-is.
func ReadTree(r io.Reader) (*Tree, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode tree")
	}
	return &t, nil
}
