// Package postgres implements storage.Storage on PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/students-demo/students-api/internal/apperrors"
	"github.com/students-demo/students-api/internal/types"
)

const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id          BIGSERIAL PRIMARY KEY,
		first_name  TEXT    NOT NULL,
		last_name   TEXT    NOT NULL,
		department  TEXT    NOT NULL,
		level       INTEGER NOT NULL
	)`

// Postgres holds a pgxpool.Pool, which is safe for concurrent use.
type Postgres struct {
	Pool *pgxpool.Pool
}

// New connects to dsn, checks the connection, and creates the students
// table if needed.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

func (p *Postgres) FindAll(ctx context.Context) ([]types.Student, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT id, first_name, last_name, department, level FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("FindAll: query: %w", err)
	}

	students, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (types.Student, error) {
		return scanStudent(r)
	})
	if err != nil {
		return nil, fmt.Errorf("FindAll: collect rows: %w", err)
	}
	if students == nil {
		students = make([]types.Student, 0)
	}
	return students, nil
}

func (p *Postgres) FindByID(ctx context.Context, id int64) (types.Student, error) {
	row := p.Pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, department, level FROM students WHERE id = $1`, id)

	student, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, apperrors.NewNotFoundError(id)
		}
		return types.Student{}, fmt.Errorf("FindByID: scan: %w", err)
	}
	return student, nil
}

func (p *Postgres) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := p.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ExistsByID: scan: %w", err)
	}
	return exists, nil
}

// Save inserts when st.ID is zero and updates otherwise. Both paths use
// RETURNING so the caller gets the stored row back in one round trip.
func (p *Postgres) Save(ctx context.Context, st types.Student) (types.Student, error) {
	if st.IsNew() {
		row := p.Pool.QueryRow(ctx,
			`INSERT INTO students (first_name, last_name, department, level)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, first_name, last_name, department, level`,
			st.FirstName, st.LastName, st.Department, st.LevelValue())
		saved, err := scanStudent(row)
		if err != nil {
			return types.Student{}, fmt.Errorf("Save: insert: %w", err)
		}
		return saved, nil
	}

	row := p.Pool.QueryRow(ctx,
		`UPDATE students SET first_name = $1, last_name = $2, department = $3, level = $4
		 WHERE id = $5
		 RETURNING id, first_name, last_name, department, level`,
		st.FirstName, st.LastName, st.Department, st.LevelValue(), st.ID)
	saved, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, apperrors.NewNotFoundError(st.ID)
		}
		return types.Student{}, fmt.Errorf("Save: update: %w", err)
	}
	return saved, nil
}

func (p *Postgres) DeleteByID(ctx context.Context, id int64) error {
	tag, err := p.Pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteByID: exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(id)
	}
	return nil
}

func scanStudent(row pgx.Row) (types.Student, error) {
	var (
		s     types.Student
		level int32
	)
	if err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Department, &level); err != nil {
		return types.Student{}, err
	}
	l := int(level)
	s.Level = &l
	return s, nil
}
