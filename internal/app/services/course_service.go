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

// CourseService handles course operations
type CourseService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store repositories.Store, logger zerolog.Logger) *CourseService {
	return &CourseService{
		store:  store,
		logger: logger,
	}
}

// Create validates and stores a new course
func (s *CourseService) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	if errs := validation.ValidateCourse(req.Fields()); errs.HasErrors() {
		s.logger.Debug().Str("code", errs[0].Code).Msg("Course validation failed")
		return nil, errs.First()
	}

	course := req.ToModel()
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		return tx.Courses().Create(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("course_id", course.CourseID).Str("course_code", course.CourseCode).Msg("Course created")
	return course, nil
}

// Get retrieves a course by ID
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	return s.store.Courses().GetByID(ctx, id)
}

// List retrieves all courses
func (s *CourseService) List(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.store.Courses().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// Update replaces every field of an existing course
func (s *CourseService) Update(ctx context.Context, id int64, req dto.CourseRequest) (*models.Course, error) {
	var updated *models.Course
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Courses().GetByID(ctx, id); err != nil {
			return err
		}

		if errs := validation.ValidateCourse(req.Fields()); errs.HasErrors() {
			return errs.First()
		}

		updated = req.ToModel()
		updated.CourseID = id
		return tx.Courses().Update(ctx, updated)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("course_id", id).Msg("Course updated")
	return updated, nil
}

// Delete removes a course and its enrollments
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Courses().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("course_id", id).Msg("Course deleted")
	return nil
}
