package sqlite

import (
	"context"
	"iter"
	"slices"

	"task-manager/internal/codec"
	"task-manager/internal/domain"
)

// Store persists a whole task list in a SQLite database.
type Store struct {
	repo Repository
	path string
}

// NewStore opens (and migrates) the database at path.
func NewStore(path string) (*Store, error) {
	repo, err := New(path)
	if err != nil {
		return nil, err
	}
	return &Store{repo: repo, path: path}, nil
}

// NewStoreWithRepository wraps an existing repository.
func NewStoreWithRepository(repo Repository, path string) *Store {
	return &Store{repo: repo, path: path}
}

// Load adds the stored tasks to sink in list order.
func (s *Store) Load(ctx context.Context, sink codec.Sink) error {
	records, err := s.repo.ListTasks(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		task, err := ToDomain(rec)
		if err != nil {
			return err
		}
		if err := sink.Add(task); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the stored tasks with tasks.
func (s *Store) Save(ctx context.Context, tasks iter.Seq[*domain.Task]) error {
	return s.repo.ReplaceAll(ctx, ToRecords(slices.Collect(tasks)))
}

// Location returns the database path.
func (s *Store) Location() string {
	return s.path
}

// Close releases the database.
func (s *Store) Close() error {
	return s.repo.Close()
}
