// Package inmem implements the record store in process memory. It backs
// the test suite and the "memory" database driver.
package inmem

import (
	"context"
	"sync"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
)

type tables struct {
	students    map[int64]models.Student
	courses     map[int64]models.Course
	enrollments map[int64]models.Enrollment

	studentSeq    int64
	courseSeq     int64
	enrollmentSeq int64
}

func newTables() *tables {
	return &tables{
		students:    make(map[int64]models.Student),
		courses:     make(map[int64]models.Course),
		enrollments: make(map[int64]models.Enrollment),
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		students:      make(map[int64]models.Student, len(t.students)),
		courses:       make(map[int64]models.Course, len(t.courses)),
		enrollments:   make(map[int64]models.Enrollment, len(t.enrollments)),
		studentSeq:    t.studentSeq,
		courseSeq:     t.courseSeq,
		enrollmentSeq: t.enrollmentSeq,
	}
	for id, s := range t.students {
		c.students[id] = s
	}
	for id, co := range t.courses {
		c.courses[id] = co
	}
	for id, e := range t.enrollments {
		c.enrollments[id] = e
	}
	return c
}

type memDB struct {
	mu   sync.RWMutex
	data *tables
}

// Store is an in-memory repositories.Store. The zero value is not usable;
// call NewStore.
type Store struct {
	db *memDB

	// tx is set inside WithTx. The store lock is then held by the
	// enclosing call, so operations on tx do not lock again.
	tx *tables
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{db: &memDB{data: newTables()}}
}

// Students returns the student repository
func (s *Store) Students() repositories.StudentRepository {
	return &studentRepository{store: s}
}

// Courses returns the course repository
func (s *Store) Courses() repositories.CourseRepository {
	return &courseRepository{store: s}
}

// Enrollments returns the enrollment repository
func (s *Store) Enrollments() repositories.EnrollmentRepository {
	return &enrollmentRepository{store: s}
}

// WithTx runs fn against a private copy of the tables and publishes the
// copy only when fn succeeds. Writers are serialized for the duration of
// fn, so fn must only use the store it is given.
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.tx != nil {
		nested := s.tx.clone()
		if err := fn(&Store{db: s.db, tx: nested}); err != nil {
			return err
		}
		*s.tx = *nested
		return nil
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	work := s.db.data.clone()
	if err := fn(&Store{db: s.db, tx: work}); err != nil {
		return err
	}
	s.db.data = work
	return nil
}

func (s *Store) read(fn func(t *tables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return fn(s.db.data)
}

// write applies fn under the write lock. fn must check everything it
// needs before it mutates t.
func (s *Store) write(fn func(t *tables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.data)
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
