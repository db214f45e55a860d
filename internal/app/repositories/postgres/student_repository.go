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

const studentColumns = "student_id, roll_number, first_name, last_name"

// StudentRepository handles student database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db, sb: statementBuilder}
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	taken, err := r.rollNumberTaken(ctx, student.RollNumber, 0)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrRollNumberTaken
	}

	query := `
		INSERT INTO student (roll_number, first_name, last_name)
		VALUES ($1, $2, $3)
		RETURNING student_id`

	err = r.db.QueryRow(ctx, query, student.RollNumber, student.FirstName, student.LastName).Scan(&student.StudentID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "student_roll_number_key") {
			return apperrors.ErrRollNumberTaken
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM student WHERE student_id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student by ID: %w", err)
	}

	return student, nil
}

// GetByRollNumber retrieves a student by roll number
func (r *StudentRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM student WHERE roll_number = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, rollNumber))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student by roll number: %w", err)
	}

	return student, nil
}

// List returns every student ordered by ID
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	return r.Filter(ctx, repositories.StudentFilter{})
}

// Filter returns students matching every non-empty field of the filter
func (r *StudentRepository) Filter(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, error) {
	query := r.sb.Select(studentColumns).From("student").OrderBy("student_id")

	where := squirrel.Eq{}
	if filter.RollNumber != "" {
		where["roll_number"] = filter.RollNumber
	}
	if filter.FirstName != "" {
		where["first_name"] = filter.FirstName
	}
	if filter.LastName != "" {
		where["last_name"] = filter.LastName
	}
	if len(where) > 0 {
		query = query.Where(where)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// Update replaces all fields of an existing student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	taken, err := r.rollNumberTaken(ctx, student.RollNumber, student.StudentID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrRollNumberTaken
	}

	query := `
		UPDATE student
		SET roll_number = $1, first_name = $2, last_name = $3
		WHERE student_id = $4`

	tag, err := r.db.Exec(ctx, query, student.RollNumber, student.FirstName, student.LastName, student.StudentID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "student_roll_number_key") {
			return apperrors.ErrRollNumberTaken
		}
		return fmt.Errorf("failed to update student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student together with its enrollments
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM enrollment WHERE student_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete student enrollments: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM student WHERE student_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}
		return nil
	})
}

// rollNumberTaken reports whether another student (not exceptID) uses rollNumber
func (r *StudentRepository) rollNumberTaken(ctx context.Context, rollNumber string, exceptID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student WHERE roll_number = $1 AND student_id <> $2)`,
		rollNumber, exceptID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check roll number: %w", err)
	}
	return exists, nil
}

func scanStudent(row scanner) (*models.Student, error) {
	var student models.Student
	if err := row.Scan(&student.StudentID, &student.RollNumber, &student.FirstName, &student.LastName); err != nil {
		return nil, err
	}
	return &student, nil
}
