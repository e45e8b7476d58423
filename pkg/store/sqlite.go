package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	errs "github.com/matzehuels/genogram/pkg/errors"
	"github.com/matzehuels/genogram/pkg/family"
)

const schema = `
	CREATE TABLE IF NOT EXISTS families (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		people INTEGER NOT NULL,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_families_updated ON families(updated_at);
`

// SQLiteStore keeps families as canonical JSON in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "create store directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open %s", path)
	}
	db.SetMaxOpenConns(1) // single writer

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id string, fam *family.Family) (string, error) {
	id, err := prepare(id, fam)
	if err != nil {
		return "", err
	}
	data, err := family.Marshal(fam)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeStorage, err, "encode family %s", id)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO families (id, name, people, data, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			people = excluded.people,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		id, fam.Name, len(fam.People), data, time.Now().UnixMilli())
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeStorage, err, "save family %s", id)
	}
	return id, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	var (
		data    []byte
		updated int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT data, updated_at FROM families WHERE id = ?`, id).Scan(&data, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "load family %s", id)
	}
	fam, err := family.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode family %s", id)
	}
	return &Record{ID: id, Family: fam, UpdatedAt: time.UnixMilli(updated)}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, people, updated_at FROM families ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list families")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.People, &updated); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "scan family")
		}
		sum.UpdatedAt = time.UnixMilli(updated)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list families")
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete family %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
