package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Removed is a task line that was deleted from one of the lists.
type Removed struct {
	ID        string
	List      string
	Line      string
	RemovedAt time.Time
}

// Trash keeps every removed task line in a SQLite database.
type Trash struct {
	db  *sql.DB
	now func() time.Time
}

func Open(dbPath string) (*Trash, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	t := &Trash{db: db, now: time.Now}
	if err := t.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

func (t *Trash) Close() error {
	if t.db == nil {
		return nil
	}
	return t.db.Close()
}

func (t *Trash) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS removed_tasks (
	id TEXT PRIMARY KEY,
	list TEXT NOT NULL,
	line TEXT NOT NULL,
	removed_at TEXT NOT NULL
);`
	if _, err := t.db.Exec(ddl); err != nil {
		return err
	}
	return t.ensureColumns()
}

func (t *Trash) ensureColumns() error {
	required := map[string]string{
		"list": "ALTER TABLE removed_tasks ADD COLUMN list TEXT NOT NULL DEFAULT 'pending';",
	}
	existing := map[string]struct{}{}
	rows, err := t.db.Query(`PRAGMA table_info(removed_tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := t.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Archive stores a removed task line and returns its record.
func (t *Trash) Archive(list, line string) (Removed, error) {
	r := Removed{
		ID:        uuid.NewString(),
		List:      list,
		Line:      line,
		RemovedAt: t.now().UTC().Truncate(time.Second),
	}
	_, err := t.db.Exec(`INSERT INTO removed_tasks (id, list, line, removed_at) VALUES (?, ?, ?, ?);`,
		r.ID, r.List, r.Line, r.RemovedAt.Format(time.RFC3339))
	if err != nil {
		return Removed{}, err
	}
	return r, nil
}

// List returns removed tasks, newest first.
func (t *Trash) List() ([]Removed, error) {
	rows, err := t.db.Query(`SELECT id, list, line, removed_at FROM removed_tasks ORDER BY removed_at DESC, rowid DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Removed
	for rows.Next() {
		var r Removed
		var removedStr string
		if err := rows.Scan(&r.ID, &r.List, &r.Line, &removedStr); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339, removedStr); err == nil {
			r.RemovedAt = parsed
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Purge deletes every removed task and reports how many were dropped.
func (t *Trash) Purge() (int64, error) {
	res, err := t.db.Exec(`DELETE FROM removed_tasks;`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
