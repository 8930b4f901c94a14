// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's database/sql package.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/students-demo/students-api/internal/apperrors"
	"github.com/students-demo/students-api/internal/types"

	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name  TEXT    NOT NULL,
		last_name   TEXT    NOT NULL,
		department  TEXT    NOT NULL,
		level       INTEGER NOT NULL
	)
`

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB, a connection pool that is safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the students table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// sql.Open only validates the DSN; the first real connection happens on
	// the first query.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// SQLite allows a single writer; one connection avoids "database is
	// locked" under concurrent requests and keeps ":memory:" databases
	// from splitting across connections.
	db.SetMaxOpenConns(1)

	// CREATE TABLE IF NOT EXISTS is idempotent, so this runs on every start.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll returns all student rows as a slice, ordered by id.
//
// Query returns a cursor (*sql.Rows); rows.Next() advances it and we Scan
// each row inside the loop. rows.Close() releases the connection.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) FindAll(ctx context.Context) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, first_name, last_name, department, level FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("FindAll: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindAll: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty table encodes as [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("FindAll: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindAll: rows iteration: %w", err)
	}

	return students, nil
}

// FindByID fetches exactly one student row matched by primary key.
func (s *SQLite) FindByID(ctx context.Context, id int64) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, first_name, last_name, department, level FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("FindByID: prepare: %w", err)
	}
	defer stmt.Close()

	// QueryRow never returns nil; a missing row surfaces as sql.ErrNoRows
	// from Scan.
	student, err := scanStudent(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, apperrors.NewNotFoundError(id)
		}
		return types.Student{}, fmt.Errorf("FindByID: scan: %w", err)
	}

	return student, nil
}

// ExistsByID reports whether a row with the given id is stored.
func (s *SQLite) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.Db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM students WHERE id = ?)", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ExistsByID: scan: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Save inserts a new row when st.ID is zero, otherwise it updates the row
// with that id. The returned student is what the database now holds.
//
// Prepared statements with ? placeholders send values separately from the
// SQL text, so user input is never parsed as SQL.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Save(ctx context.Context, st types.Student) (types.Student, error) {
	if st.IsNew() {
		return s.insert(ctx, st)
	}
	return s.update(ctx, st)
}

func (s *SQLite) insert(ctx context.Context, st types.Student) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (first_name, last_name, department, level) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: prepare insert: %w", err)
	}
	defer stmt.Close()

	// Argument order matches the ? order in the SQL.
	result, err := stmt.ExecContext(ctx, st.FirstName, st.LastName, st.Department, st.LevelValue())
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: exec insert: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: last insert id: %w", err)
	}

	return s.FindByID(ctx, lastID)
}

func (s *SQLite) update(ctx context.Context, st types.Student) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE students SET first_name = ?, last_name = ?, department = ?, level = ? WHERE id = ?",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: prepare update: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, st.FirstName, st.LastName, st.Department, st.LevelValue(), st.ID)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: exec update: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: rows affected: %w", err)
	}
	if n == 0 {
		return types.Student{}, apperrors.NewNotFoundError(st.ID)
	}

	// Re-fetch so we return exactly what is stored.
	return s.FindByID(ctx, st.ID)
}

// DeleteByID removes a student row by primary key.
func (s *SQLite) DeleteByID(ctx context.Context, id int64) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteByID: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteByID: rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(id)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (types.Student, error) {
	var (
		student types.Student
		level   int
	)
	// Scan order must match the SELECT column order.
	if err := row.Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Department,
		&level,
	); err != nil {
		return types.Student{}, err
	}
	student.Level = &level
	return student, nil
}
