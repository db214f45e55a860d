package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

const courseColumns = "course_id, course_code, course_name, course_description"

// CourseRepository handles course database operations
type CourseRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db, sb: statementBuilder}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	taken, err := r.codeTaken(ctx, course.CourseCode, 0)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrCourseCodeTaken
	}

	query := `
		INSERT INTO course (course_code, course_name, course_description)
		VALUES ($1, $2, $3)
		RETURNING course_id`

	err = r.db.QueryRow(ctx, query, course.CourseCode, course.CourseName, course.CourseDescription).Scan(&course.CourseID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "course_course_code_key") {
			return apperrors.ErrCourseCodeTaken
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course WHERE course_id = $1`

	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course by ID: %w", err)
	}

	return course, nil
}

// GetByCode retrieves a course by its code
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course WHERE course_code = $1`

	course, err := scanCourse(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course by code: %w", err)
	}

	return course, nil
}

// List returns every course ordered by ID
func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	return r.Filter(ctx, repositories.CourseFilter{})
}

// ListByIDs returns the courses with the given IDs, ordered by ID.
// Unknown IDs are skipped.
func (r *CourseRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}
	return r.selectCourses(ctx, squirrel.Eq{"course_id": ids})
}

// Filter returns courses matching every non-empty field of the filter
func (r *CourseRepository) Filter(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, error) {
	where := squirrel.Eq{}
	if filter.CourseCode != "" {
		where["course_code"] = filter.CourseCode
	}
	if filter.CourseName != "" {
		where["course_name"] = filter.CourseName
	}
	return r.selectCourses(ctx, where)
}

func (r *CourseRepository) selectCourses(ctx context.Context, where squirrel.Eq) ([]*models.Course, error) {
	query := r.sb.Select(courseColumns).From("course").OrderBy("course_id")
	if len(where) > 0 {
		query = query.Where(where)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return collectCourses(rows)
}

// Update replaces all fields of an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	taken, err := r.codeTaken(ctx, course.CourseCode, course.CourseID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrCourseCodeTaken
	}

	query := `
		UPDATE course
		SET course_code = $1, course_name = $2, course_description = $3
		WHERE course_id = $4`

	tag, err := r.db.Exec(ctx, query, course.CourseCode, course.CourseName, course.CourseDescription, course.CourseID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "course_course_code_key") {
			return apperrors.ErrCourseCodeTaken
		}
		return fmt.Errorf("failed to update course: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course together with its enrollments
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM enrollment WHERE course_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete course enrollments: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM course WHERE course_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
}

func (r *CourseRepository) codeTaken(ctx context.Context, code string, exceptID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM course WHERE course_code = $1 AND course_id <> $2)`,
		code, exceptID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course code: %w", err)
	}
	return exists, nil
}

func collectCourses(rows pgx.Rows) ([]*models.Course, error) {
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

func scanCourse(row scanner) (*models.Course, error) {
	var course models.Course
	if err := row.Scan(&course.CourseID, &course.CourseCode, &course.CourseName, &course.CourseDescription); err != nil {
		return nil, err
	}
	return &course, nil
}
