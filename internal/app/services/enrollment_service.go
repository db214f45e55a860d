package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// EnrollmentService handles student/course links
type EnrollmentService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store repositories.Store, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:  store,
		logger: logger,
	}
}

// ListForStudent returns the enrollments of a student. An unknown student
// is a referential error; a student without courses is not found.
func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	return listForStudent(ctx, s.store, studentID)
}

// Enroll links a student to a course and returns all of the student's
// enrollments. A nil course ID is treated as an unknown course.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID int64, courseID *int64) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := requireStudent(ctx, tx, studentID); err != nil {
			return err
		}
		if courseID == nil {
			return apperrors.ErrEnrollmentCourseMissing
		}

		if err := tx.Enrollments().Create(ctx, &models.Enrollment{StudentID: studentID, CourseID: *courseID}); err != nil {
			return err
		}

		var err error
		enrollments, err = listForStudent(ctx, tx, studentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("student_id", studentID).Int64("course_id", *courseID).Msg("Student enrolled")
	return enrollments, nil
}

// Withdraw removes the enrollment of one student in one course
func (s *EnrollmentService) Withdraw(ctx context.Context, studentID, courseID int64) error {
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := requireStudent(ctx, tx, studentID); err != nil {
			return err
		}
		if _, err := tx.Courses().GetByID(ctx, courseID); err != nil {
			if apperrors.Is(err, apperrors.ErrResourceNotFound) {
				return apperrors.ErrEnrollmentCourseMissing
			}
			return err
		}
		return tx.Enrollments().DeleteByStudentAndCourse(ctx, studentID, courseID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("student_id", studentID).Int64("course_id", courseID).Msg("Student withdrawn")
	return nil
}

func requireStudent(ctx context.Context, store repositories.Store, studentID int64) error {
	if _, err := store.Students().GetByID(ctx, studentID); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.ErrEnrollmentStudentMissing
		}
		return err
	}
	return nil
}

func listForStudent(ctx context.Context, store repositories.Store, studentID int64) ([]*models.Enrollment, error) {
	if err := requireStudent(ctx, store, studentID); err != nil {
		return nil, err
	}

	enrollments, err := store.Enrollments().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return enrollments, nil
}
