package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// StudentService handles student operations
type StudentService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(store repositories.Store, logger zerolog.Logger) *StudentService {
	return &StudentService{
		store:  store,
		logger: logger,
	}
}

// Create validates and stores a new student
func (s *StudentService) Create(ctx context.Context, req dto.StudentRequest) (*models.Student, error) {
	return s.CreateWithCourses(ctx, req, nil)
}

// CreateWithCourses stores a new student and enrolls it in the given
// courses. Either everything is stored or nothing is.
func (s *StudentService) CreateWithCourses(ctx context.Context, req dto.StudentRequest, courseIDs []int64) (*models.Student, error) {
	if errs := validation.ValidateStudent(req.Fields()); errs.HasErrors() {
		s.logger.Debug().Str("code", errs[0].Code).Msg("Student validation failed")
		return nil, errs.First()
	}

	student := req.ToModel()
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.Students().Create(ctx, student); err != nil {
			return err
		}
		return enrollAll(ctx, tx, student.StudentID, courseIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("student_id", student.StudentID).Int("courses", len(courseIDs)).Msg("Student created")
	return student, nil
}

// Get retrieves a student by ID
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	return s.store.Students().GetByID(ctx, id)
}

// List retrieves all students
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	students, err := s.store.Students().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// Update replaces every field of an existing student. A missing student
// is reported before any validation failure.
func (s *StudentService) Update(ctx context.Context, id int64, req dto.StudentRequest) (*models.Student, error) {
	var updated *models.Student
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Students().GetByID(ctx, id); err != nil {
			return err
		}

		if errs := validation.ValidateStudent(req.Fields()); errs.HasErrors() {
			return errs.First()
		}

		updated = req.ToModel()
		updated.StudentID = id
		return tx.Students().Update(ctx, updated)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("student_id", id).Msg("Student updated")
	return updated, nil
}

// UpdateProfile changes the names of a student and replaces its course
// set in one transaction. The roll number is kept.
func (s *StudentService) UpdateProfile(ctx context.Context, id int64, req dto.StudentRequest, courseIDs []int64) (*models.Student, error) {
	var updated *models.Student
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Students().GetByID(ctx, id)
		if err != nil {
			return err
		}

		req.RollNumber = &current.RollNumber
		if errs := validation.ValidateStudent(req.Fields()); errs.HasErrors() {
			return errs.First()
		}

		updated = req.ToModel()
		updated.StudentID = id
		if err := tx.Students().Update(ctx, updated); err != nil {
			return err
		}

		if _, err := tx.Enrollments().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		return enrollAll(ctx, tx, id, courseIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("student_id", id).Int("courses", len(courseIDs)).Msg("Student profile updated")
	return updated, nil
}

// Delete removes a student and its enrollments
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Students().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("student_id", id).Msg("Student deleted")
	return nil
}

// Details returns a student with the courses it is enrolled in
func (s *StudentService) Details(ctx context.Context, id int64) (*models.StudentDetails, error) {
	student, err := s.store.Students().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.store.Enrollments().ListByStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}

	ids := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}

	courses, err := s.store.Courses().ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}

	return &models.StudentDetails{Student: student, Courses: courses}, nil
}

func enrollAll(ctx context.Context, tx repositories.Store, studentID int64, courseIDs []int64) error {
	for _, courseID := range uniqueIDs(courseIDs) {
		if err := tx.Enrollments().Create(ctx, &models.Enrollment{StudentID: studentID, CourseID: courseID}); err != nil {
			return err
		}
	}
	return nil
}
