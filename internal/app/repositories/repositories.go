package repositories

import (
	"context"

	"github.com/yigit/studentrecords/internal/app/models"
)

// StudentFilter selects students by exact field values. Empty fields are ignored.
type StudentFilter struct {
	RollNumber string
	FirstName  string
	LastName   string
}

// CourseFilter selects courses by exact field values. Empty fields are ignored.
type CourseFilter struct {
	CourseCode string
	CourseName string
}

// StudentRepository stores students.
type StudentRepository interface {
	// Create inserts the student and sets StudentID. A taken roll number
	// yields apperrors.ErrRollNumberTaken and leaves the store unchanged.
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Filter(ctx context.Context, filter StudentFilter) ([]*models.Student, error)
	// Update replaces every field of an existing student.
	Update(ctx context.Context, student *models.Student) error
	// Delete removes the student and all of its enrollments atomically.
	Delete(ctx context.Context, id int64) error
}

// CourseRepository stores courses.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Course, error)
	Filter(ctx context.Context, filter CourseFilter) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	// Delete removes the course and all of its enrollments atomically.
	Delete(ctx context.Context, id int64) error
}

// EnrollmentRepository stores student/course links.
type EnrollmentRepository interface {
	// Create checks that both the student and the course exist and that
	// the pair is not already enrolled before inserting.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error)
	Exists(ctx context.Context, studentID, courseID int64) (bool, error)
	DeleteByStudentAndCourse(ctx context.Context, studentID, courseID int64) error
	DeleteByStudent(ctx context.Context, studentID int64) (int64, error)
	DeleteByCourse(ctx context.Context, courseID int64) (int64, error)
}

// Store is the record store. WithTx runs fn against a Store whose
// operations commit together or not at all.
type Store interface {
	Students() StudentRepository
	Courses() CourseRepository
	Enrollments() EnrollmentRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
