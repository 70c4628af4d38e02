// Package storage persists task lists to files.
package storage

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"task-manager/internal/codec"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// Format names a persistence encoding.
type Format string

const (
	FormatText   Format = "text"
	FormatBinary Format = "binary"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatBinary, FormatSQLite:
		return f, nil
	default:
		return "", errors.NewInvalidInputError("format", s, "must be one of text, binary, sqlite")
	}
}

// Store loads and saves a whole task list.
type Store interface {
	Load(ctx context.Context, sink codec.Sink) error
	Save(ctx context.Context, tasks iter.Seq[*domain.Task]) error
	Location() string
}

// FileStore keeps tasks in a single file encoded as text or binary.
type FileStore struct {
	Path   string
	Format Format
}

// NewFileStore returns a store for path. Only text and binary formats are file based.
func NewFileStore(path string, format Format) (*FileStore, error) {
	if format != FormatText && format != FormatBinary {
		return nil, errors.NewInvalidInputError("format", string(format), "file store supports text and binary")
	}
	return &FileStore{Path: path, Format: format}, nil
}

// Location returns the file path.
func (s *FileStore) Location() string {
	return s.Path
}

// Load decodes the file into sink. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context, sink codec.Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.NewIOError("open "+s.Path, err)
	}
	defer f.Close()

	return Decode(f, s.Format, sink)
}

// Decode reads a stream in a file format into sink.
func Decode(r io.Reader, format Format, sink codec.Sink) error {
	switch format {
	case FormatText:
		return codec.ReadText(r, sink)
	case FormatBinary:
		return codec.ReadBinary(r, sink)
	default:
		return errors.NewInvalidInputError("format", string(format), "streams are text or binary")
	}
}

// Encode writes tasks to w in a file format.
func Encode(w io.Writer, format Format, tasks iter.Seq[*domain.Task]) error {
	switch format {
	case FormatText:
		return codec.WriteText(w, tasks)
	case FormatBinary:
		return codec.WriteBinary(w, tasks)
	default:
		return errors.NewInvalidInputError("format", string(format), "streams are text or binary")
	}
}

// Save encodes tasks into a temporary file next to Path and renames it into
// place, so readers never observe a partially written list.
func (s *FileStore) Save(ctx context.Context, tasks iter.Seq[*domain.Task]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIOError("create "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return errors.NewIOError("create temporary file", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, s.Format, tasks); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.NewIOError("close temporary file", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return errors.NewIOError(fmt.Sprintf("replace %s", s.Path), err)
	}
	return nil
}
