package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"task-manager/internal/errors"
	"task-manager/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations
type Repository interface {
	// Create operations
	CreateTask(ctx context.Context, task *TaskRecord) error

	// Read operations
	GetTask(ctx context.Context, id int64) (*TaskRecord, error)
	ListTasks(ctx context.Context) ([]*TaskRecord, error)
	SearchTasks(ctx context.Context, opts SearchOptions) ([]*TaskRecord, error)

	// Update operations
	UpdateTask(ctx context.Context, task *TaskRecord) error
	ReplaceAll(ctx context.Context, tasks []*TaskRecord) error

	// Delete operations
	DeleteTask(ctx context.Context, id int64) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: opens a separate database.
		db.SetMaxOpenConns(1)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const insertTask = `
	INSERT INTO tasks (position, title, active, kind, at_ms, start_ms, end_ms, interval_seconds)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func insertArgs(task *TaskRecord) []any {
	return []any{
		task.Position,
		task.Title,
		task.Active,
		task.Kind,
		FormatInstantPtrForDB(task.At),
		FormatInstantPtrForDB(task.Start),
		FormatInstantPtrForDB(task.End),
		task.IntervalSeconds,
	}
}

// CreateTask inserts a task. A zero Position appends it after the existing tasks.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *TaskRecord) error {
	if task.Position == 0 {
		var next sql.NullInt64
		if err := r.db.QueryRowContext(ctx, `SELECT MAX(position) + 1 FROM tasks`).Scan(&next); err != nil {
			return dbError("next task position", err)
		}
		task.Position = int(next.Int64)
	}

	id, err := insertReturningID(ctx, r.db, insertTask, insertArgs(task)...)
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*TaskRecord, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return queryOne(ctx, r.db, id, query, ScanTask, id)
}

// ListTasks retrieves all tasks in list order
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*TaskRecord, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY position ASC, id ASC`
	return queryAll(ctx, r.db, query, ScanTasks)
}

// SearchTasks retrieves the tasks matching opts in list order
func (r *SQLiteRepository) SearchTasks(ctx context.Context, opts SearchOptions) ([]*TaskRecord, error) {
	var conditions []string
	var args []any

	if opts.TitleContains != nil && *opts.TitleContains != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+*opts.TitleContains+"%")
	}
	if opts.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}
	if opts.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, *opts.Kind)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY position ASC, id ASC"

	return queryAll(ctx, r.db, query, ScanTasks, args...)
}

// UpdateTask updates an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *TaskRecord) error {
	query := `
	UPDATE tasks
	SET position = ?, title = ?, active = ?, kind = ?, at_ms = ?, start_ms = ?, end_ms = ?, interval_seconds = ?
	WHERE id = ?`

	args := append(insertArgs(task), task.ID)
	return execOnTask(ctx, r.db, task.ID, query, args...)
}

// ReplaceAll atomically replaces every stored task with tasks, numbering positions in slice order.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, tasks []*TaskRecord) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return dbError("clear tasks", err)
		}
		for i, task := range tasks {
			task.Position = i
			id, err := insertReturningID(ctx, tx, insertTask, insertArgs(task)...)
			if err != nil {
				return err
			}
			task.ID = id
		}
		return nil
	})
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = ?`
	return execOnTask(ctx, r.db, id, query, id)
}
