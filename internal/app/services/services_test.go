package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/repositories/inmem"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func strp(s string) *string { return &s }

func codeOf(err error) string {
	code, _, _ := apperrors.CodeOf(err)
	return code
}

type fixture struct {
	store       repositories.Store
	students    *StudentService
	courses     *CourseService
	enrollments *EnrollmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inmem.NewStore()
	return &fixture{
		store:       store,
		students:    NewStudentService(store, zerolog.Nop()),
		courses:     NewCourseService(store, zerolog.Nop()),
		enrollments: NewEnrollmentService(store, zerolog.Nop()),
	}
}

func (f *fixture) course(t *testing.T, code, name string) int64 {
	t.Helper()
	c, err := f.courses.Create(context.Background(), dto.CourseRequest{CourseCode: strp(code), CourseName: strp(name)})
	require.NoError(t, err)
	return c.CourseID
}

func (f *fixture) student(t *testing.T, roll, first string) int64 {
	t.Helper()
	s, err := f.students.Create(context.Background(), dto.StudentRequest{RollNumber: strp(roll), FirstName: strp(first)})
	require.NoError(t, err)
	return s.StudentID
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 5}, uniqueIDs([]int64{5, 1, 2, 5, 1}))
	assert.Empty(t, uniqueIDs(nil))
}
