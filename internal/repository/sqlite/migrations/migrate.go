package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"task-manager/internal/logging"
)

//go:embed *.up.sql
var scripts embed.FS

const ledgerDDL = `
CREATE TABLE IF NOT EXISTS migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	dirty BOOLEAN DEFAULT FALSE
)`

// step is one schema change, either an embedded NNNNNN_name.up.sql script
// or a Go function registered from init.
type step struct {
	version int
	name    string
	apply   func(*sql.Tx) error
}

var goSteps []step

func registerStep(version int, name string, apply func(*sql.Tx) error) {
	goSteps = append(goSteps, step{version: version, name: name, apply: apply})
}

// RunMigrations brings db up to the newest schema. A step that fails is
// recorded as dirty and every later run refuses to start until it is
// repaired by hand.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(ledgerDDL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	ledger, err := readLedger(db)
	if err != nil {
		return fmt.Errorf("failed to read migrations table: %w", err)
	}
	if dirty := ledger.dirty(); len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state, failed migration(s): %v", dirty)
	}

	steps, err := pendingSteps(ledger)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	for _, s := range steps {
		logging.Debugf("applying migration %d %s", s.version, s.name)
		if err := s.run(db); err != nil {
			markDirty(db, s.version)
			return fmt.Errorf("failed to apply migration %d %s: %w", s.version, s.name, err)
		}
	}
	return nil
}

// ledger maps each recorded version to its dirty flag.
type ledger map[int]bool

func readLedger(db *sql.DB) (ledger, error) {
	rows, err := db.Query("SELECT version, dirty FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	l := ledger{}
	for rows.Next() {
		var version int
		var dirty bool
		if err := rows.Scan(&version, &dirty); err != nil {
			return nil, err
		}
		l[version] = dirty
	}
	return l, rows.Err()
}

func (l ledger) dirty() []int {
	var out []int
	for version, dirty := range l {
		if dirty {
			out = append(out, version)
		}
	}
	sort.Ints(out)
	return out
}

// pendingSteps returns the steps missing from l in version order.
func pendingSteps(l ledger) ([]step, error) {
	names, err := fs.Glob(scripts, "*.up.sql")
	if err != nil {
		return nil, err
	}

	var steps []step
	for _, file := range names {
		version, name, ok := parseScriptName(file)
		if !ok {
			continue
		}
		body, err := scripts.ReadFile(file)
		if err != nil {
			return nil, err
		}
		script := string(body)
		steps = append(steps, step{version: version, name: name, apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(script)
			return err
		}})
	}
	steps = append(steps, goSteps...)

	pending := steps[:0]
	for _, s := range steps {
		if _, done := l[s.version]; !done {
			pending = append(pending, s)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })
	return pending, nil
}

func (s step) run(db *sql.DB) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.apply(tx); err != nil {
		return err
	}
	if _, err = tx.Exec("INSERT INTO migrations (version) VALUES (?)", s.version); err != nil {
		return err
	}
	return tx.Commit()
}

func markDirty(db *sql.DB, version int) {
	_, err := db.Exec(`INSERT INTO migrations (version, dirty) VALUES (?, TRUE)
		ON CONFLICT(version) DO UPDATE SET dirty = TRUE`, version)
	if err != nil {
		logging.Debugf("could not mark migration %d dirty: %v", version, err)
	}
}

// parseScriptName splits "000002_add_index.up.sql" into 2 and "add_index".
func parseScriptName(file string) (int, string, bool) {
	prefix, rest, found := strings.Cut(strings.TrimSuffix(file, ".up.sql"), "_")
	if !found {
		return 0, "", false
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", false
	}
	return version, rest, true
}
