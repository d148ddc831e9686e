package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
)

// File stores the document as a single JSON file, the same shape the
// backup export produces.
type File struct {
	path string
}

// OpenFile returns a File store at path. The file is created on first save.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &File{path: path}, nil
}

// Path returns the document path.
func (f *File) Path() string { return f.path }

// Close is a no-op.
func (f *File) Close() error { return nil }

// Load reads the document, returning a fresh one if the file is missing.
func (f *File) Load(_ context.Context) (model.Document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewDocument(), nil
		}
		return model.Document{}, fmt.Errorf("reading %s: %w", f.path, err)
	}
	doc, err := ledger.Decode(bytes.NewReader(data), ledger.NewID, time.Now())
	if err != nil {
		return model.Document{}, fmt.Errorf("decoding %s: %w", f.path, err)
	}
	return doc, nil
}

// Save writes the document to a temp file and renames it into place.
func (f *File) Save(ctx context.Context, doc model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := ledger.Encode(&buf, doc); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".fintrack-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}
