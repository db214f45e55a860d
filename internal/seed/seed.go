package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// DefaultCourses are the courses offered before anyone edits the catalogue.
var DefaultCourses = []models.Course{
	{CourseCode: "CSE01", CourseName: "MAD 1", CourseDescription: describe("Modern Application Development - 1")},
	{CourseCode: "CSE02", CourseName: "DBMS", CourseDescription: describe("Database management Systems")},
	{CourseCode: "CSE03", CourseName: "PDSA", CourseDescription: describe("Programming, Data Structures and Algorithms using Python")},
	{CourseCode: "BST13", CourseName: "BDM", CourseDescription: describe("Business Data Management")},
}

func describe(s string) *string { return &s }

// CreateDefaultData creates the default courses that don't exist yet.
// Existing courses are left untouched; other failures are collected and
// returned together.
func CreateDefaultData(ctx context.Context, store repositories.Store, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default courses...")

	var finalErr error
	created := 0
	for _, c := range DefaultCourses {
		course := c
		err := store.Courses().Create(ctx, &course)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrConflict):
			lgr.Debug().Str("course_code", course.CourseCode).Msg("Default course already exists")
		default:
			lgr.Error().Err(err).Str("course_code", course.CourseCode).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("created", created).Msg("Default courses checked")
	return finalErr
}
