package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

func TestStudentCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.students.Create(ctx, dto.StudentRequest{RollNumber: strp("MAD-01"), FirstName: strp("Asha"), LastName: strp("Rao")})
	require.NoError(t, err)
	assert.NotZero(t, s.StudentID)

	got, err := f.students.Get(ctx, s.StudentID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestStudentCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.StudentRequest
		code string
	}{
		{"numeric first name", dto.StudentRequest{RollNumber: strp("R1"), FirstName: strp("123")}, validation.CodeStudentFirstNameRequired},
		{"missing first name", dto.StudentRequest{RollNumber: strp("R1")}, validation.CodeStudentFirstNameRequired},
		{"numeric roll number", dto.StudentRequest{RollNumber: strp("42"), FirstName: strp("Asha")}, validation.CodeStudentRollNumberRequired},
		{"numeric last name", dto.StudentRequest{RollNumber: strp("R1"), FirstName: strp("Asha"), LastName: strp("7")}, validation.CodeStudentLastNameInvalid},
		{"first failure wins", dto.StudentRequest{}, validation.CodeStudentFirstNameRequired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.students.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Equal(t, tc.code, codeOf(err))

			all, err := f.students.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestStudentCreateDuplicateRollNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "R1", "Asha")

	_, err := f.students.Create(ctx, dto.StudentRequest{RollNumber: strp("R1"), FirstName: strp("Ben")})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, apperrors.CodeStudentRollNumberTaken, codeOf(err))

	all, err := f.students.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Asha", all[0].FirstName)
}

func TestStudentCreateWithCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mad := f.course(t, "CSE01", "MAD")
	dbms := f.course(t, "CSE02", "DBMS")

	s, err := f.students.CreateWithCourses(ctx, dto.StudentRequest{RollNumber: strp("R1"), FirstName: strp("Asha")}, []int64{dbms, mad, dbms})
	require.NoError(t, err)

	details, err := f.students.Details(ctx, s.StudentID)
	require.NoError(t, err)
	require.Len(t, details.Courses, 2)
	assert.Equal(t, "CSE01", details.Courses[0].CourseCode)
	assert.Equal(t, "CSE02", details.Courses[1].CourseCode)
}

func TestStudentCreateWithUnknownCourseStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mad := f.course(t, "CSE01", "MAD")

	_, err := f.students.CreateWithCourses(ctx, dto.StudentRequest{RollNumber: strp("R1"), FirstName: strp("Asha")}, []int64{mad, mad + 100})
	assert.ErrorIs(t, err, apperrors.ErrReferential)

	all, err := f.students.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	rows, err := f.store.Enrollments().ListByCourse(ctx, mad)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStudentUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.student(t, "R1", "Asha")
	f.student(t, "R2", "Ben")

	_, err := f.students.Update(ctx, id+100, dto.StudentRequest{})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, "missing student is reported before validation")

	_, err = f.students.Update(ctx, id, dto.StudentRequest{RollNumber: strp("R1"), FirstName: strp("99")})
	assert.Equal(t, validation.CodeStudentFirstNameRequired, codeOf(err))

	_, err = f.students.Update(ctx, id, dto.StudentRequest{RollNumber: strp("R2"), FirstName: strp("Asha")})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	updated, err := f.students.Update(ctx, id, dto.StudentRequest{RollNumber: strp("R3"), FirstName: strp("Asha"), LastName: strp("Rao")})
	require.NoError(t, err)
	assert.Equal(t, "R3", updated.RollNumber)

	got, err := f.students.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rao", *got.LastName)
}

func TestStudentUpdateProfileReplacesCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mad := f.course(t, "CSE01", "MAD")
	dbms := f.course(t, "CSE02", "DBMS")
	pdsa := f.course(t, "CSE03", "PDSA")

	s, err := f.students.CreateWithCourses(ctx, dto.StudentRequest{RollNumber: strp("R1"), FirstName: strp("Asha")}, []int64{mad, dbms})
	require.NoError(t, err)

	updated, err := f.students.UpdateProfile(ctx, s.StudentID, dto.StudentRequest{RollNumber: strp("ignored"), FirstName: strp("Asha"), LastName: strp("Rao")}, []int64{pdsa})
	require.NoError(t, err)
	assert.Equal(t, "R1", updated.RollNumber)

	details, err := f.students.Details(ctx, s.StudentID)
	require.NoError(t, err)
	require.Len(t, details.Courses, 1)
	assert.Equal(t, pdsa, details.Courses[0].CourseID)
	assert.Equal(t, "Rao", *details.Student.LastName)

	_, err = f.students.UpdateProfile(ctx, s.StudentID, dto.StudentRequest{FirstName: strp("Asha")}, []int64{mad, pdsa + 100})
	assert.ErrorIs(t, err, apperrors.ErrReferential)

	details, err = f.students.Details(ctx, s.StudentID)
	require.NoError(t, err)
	require.Len(t, details.Courses, 1, "failed update leaves enrollments untouched")
	assert.Equal(t, "Rao", *details.Student.LastName)
}

func TestStudentDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mad := f.course(t, "CSE01", "MAD")
	s, err := f.students.CreateWithCourses(ctx, dto.StudentRequest{RollNumber: strp("R1"), FirstName: strp("Asha")}, []int64{mad})
	require.NoError(t, err)

	require.NoError(t, f.students.Delete(ctx, s.StudentID))

	rows, err := f.store.Enrollments().ListByCourse(ctx, mad)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, f.students.Delete(ctx, s.StudentID), apperrors.ErrResourceNotFound)
	_, err = f.students.Details(ctx, s.StudentID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
