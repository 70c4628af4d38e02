package migrations

import (
	"database/sql"
	"fmt"

	"task-manager/internal/logging"
)

func init() {
	registerStep(3, "compact_task_positions", compactTaskPositions)
}

// compactTaskPositions renumbers task positions to 0..n-1. Rows written
// before positions were maintained may share a position or leave gaps;
// ties keep insertion order.
func compactTaskPositions(tx *sql.Tx) error {
	ids, err := orderedTaskIDs(tx)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("UPDATE tasks SET position = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("prepare position update: %w", err)
	}
	defer stmt.Close()

	for position, id := range ids {
		if _, err := stmt.Exec(position, id); err != nil {
			return fmt.Errorf("renumber task %d: %w", id, err)
		}
	}

	logging.Debugf("renumbered %d task positions", len(ids))
	return nil
}

func orderedTaskIDs(tx *sql.Tx) ([]int64, error) {
	rows, err := tx.Query("SELECT id FROM tasks ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("query task ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
