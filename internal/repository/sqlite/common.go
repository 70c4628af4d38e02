package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"

	"task-manager/internal/errors"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func dbError(operation string, err error) error {
	return errors.NewDatabaseError(operation, err)
}

func taskNotFound(id int64) error {
	return errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
}

// insertReturningID runs an INSERT and returns the rowid it created.
func insertReturningID(ctx context.Context, db execer, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dbError("insert task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbError("read inserted id", err)
	}
	return id, nil
}

// execOnTask runs a statement that must touch the row with the given id.
func execOnTask(ctx context.Context, db execer, id int64, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbError("execute statement", err)
	}
	return expectAffected(res, id)
}

// expectAffected fails with not found when res touched no rows.
func expectAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	switch {
	case err != nil:
		return dbError("count affected rows", err)
	case n == 0:
		return taskNotFound(id)
	}
	return nil
}

func queryOne[T any](ctx context.Context, db *sql.DB, id int64, query string, scan func(Scanner) (*T, error), args ...any) (*T, error) {
	v, err := scan(db.QueryRowContext(ctx, query, args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, taskNotFound(id)
	}
	if err != nil {
		return nil, dbError("scan task", err)
	}
	return v, nil
}

func queryAll[T any](ctx context.Context, db *sql.DB, query string, scan func(Rows) ([]*T, error), args ...any) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("query tasks", err)
	}
	defer rows.Close()

	out, err := scan(rows)
	if err != nil {
		return nil, dbError("scan tasks", err)
	}
	return out, nil
}

// inTx runs fn in a transaction that commits only when fn returns nil.
func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return dbError("commit transaction", err)
	}
	return nil
}
