// Package postgres implements the record store on PostgreSQL via pgx.
package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/db"
)

// DBTX is the part of pgx shared by the pool and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// statementBuilder renders squirrel queries with $n placeholders
var statementBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type scanner interface {
	Scan(dest ...any) error
}

var _ repositories.Store = (*Store)(nil)

// Store is the relational repositories.Store backed by pgx.
type Store struct {
	db DBTX
}

// NewStore creates a store on top of a connection pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// Students returns the student repository
func (s *Store) Students() repositories.StudentRepository {
	return NewStudentRepository(s.db)
}

// Courses returns the course repository
func (s *Store) Courses() repositories.CourseRepository {
	return NewCourseRepository(s.db)
}

// Enrollments returns the enrollment repository
func (s *Store) Enrollments() repositories.EnrollmentRepository {
	return NewEnrollmentRepository(s.db)
}

// WithTx runs fn in a transaction. Nested calls become savepoints.
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	return db.RunInTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		return fn(&Store{db: tx})
	})
}
