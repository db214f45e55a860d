package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

// Postgres foreign_key_violation
const foreignKeyViolation = "23503"

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db DBTX
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create links a student to a course. Both must exist and the pair must
// not be enrolled yet.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var studentExists, courseExists, pairExists bool
		err := tx.QueryRow(ctx, `
			SELECT
				EXISTS(SELECT 1 FROM student WHERE student_id = $1),
				EXISTS(SELECT 1 FROM course WHERE course_id = $2),
				EXISTS(SELECT 1 FROM enrollment WHERE student_id = $1 AND course_id = $2)`,
			enrollment.StudentID, enrollment.CourseID,
		).Scan(&studentExists, &courseExists, &pairExists)
		if err != nil {
			return fmt.Errorf("failed to check enrollment references: %w", err)
		}

		switch {
		case !studentExists:
			return apperrors.ErrEnrollmentStudentMissing
		case !courseExists:
			return apperrors.ErrEnrollmentCourseMissing
		case pairExists:
			return apperrors.ErrEnrollmentExists
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO enrollment (student_id, course_id)
			VALUES ($1, $2)
			RETURNING enrollment_id`,
			enrollment.StudentID, enrollment.CourseID,
		).Scan(&enrollment.EnrollmentID)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "enrollment_student_course_key") {
				return apperrors.ErrEnrollmentExists
			}
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
				if pgErr.ConstraintName == "enrollment_course_id_fkey" {
					return apperrors.ErrEnrollmentCourseMissing
				}
				return apperrors.ErrEnrollmentStudentMissing
			}
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return nil
	})
}

// ListByStudent returns a student's enrollments ordered by ID
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	return r.list(ctx, `WHERE student_id = $1`, studentID)
}

// ListByCourse returns a course's enrollments ordered by ID
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	return r.list(ctx, `WHERE course_id = $1`, courseID)
}

// Exists reports whether the student is enrolled in the course
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollment WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return exists, nil
}

// DeleteByStudentAndCourse removes one enrollment
func (r *EnrollmentRepository) DeleteByStudentAndCourse(ctx context.Context, studentID, courseID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM enrollment WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// DeleteByStudent removes every enrollment of a student and returns how many were removed
func (r *EnrollmentRepository) DeleteByStudent(ctx context.Context, studentID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollment WHERE student_id = $1`, studentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete student enrollments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByCourse removes every enrollment of a course and returns how many were removed
func (r *EnrollmentRepository) DeleteByCourse(ctx context.Context, courseID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollment WHERE course_id = $1`, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete course enrollments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *EnrollmentRepository) list(ctx context.Context, where string, arg int64) ([]*models.Enrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT enrollment_id, student_id, course_id FROM enrollment `+where+` ORDER BY enrollment_id`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.EnrollmentID, &e.StudentID, &e.CourseID); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}

	return enrollments, nil
}
