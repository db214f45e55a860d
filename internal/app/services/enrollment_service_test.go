package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func TestEnrollmentListForStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.enrollments.ListForStudent(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrReferential)
	assert.Equal(t, apperrors.CodeEnrollmentStudent, codeOf(err))

	s := f.student(t, "R1", "Asha")
	_, err = f.enrollments.ListForStudent(ctx, s)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestEnroll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.student(t, "R1", "Asha")
	mad := f.course(t, "CSE01", "MAD")
	dbms := f.course(t, "CSE02", "DBMS")
	missing := dbms + 100

	_, err := f.enrollments.Enroll(ctx, s+100, &mad)
	assert.Equal(t, apperrors.CodeEnrollmentStudent, codeOf(err), "student is checked first")

	_, err = f.enrollments.Enroll(ctx, s, nil)
	assert.Equal(t, apperrors.CodeEnrollmentCourse, codeOf(err))

	_, err = f.enrollments.Enroll(ctx, s, &missing)
	assert.Equal(t, apperrors.CodeEnrollmentCourse, codeOf(err))

	rows, err := f.enrollments.Enroll(ctx, s, &mad)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = f.enrollments.Enroll(ctx, s, &dbms)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, mad, rows[0].CourseID)
	assert.Equal(t, dbms, rows[1].CourseID)

	_, err = f.enrollments.Enroll(ctx, s, &mad)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.student(t, "R1", "Asha")
	b := f.student(t, "R2", "Ben")
	mad := f.course(t, "CSE01", "MAD")
	dbms := f.course(t, "CSE02", "DBMS")
	for _, pair := range [][2]int64{{a, mad}, {a, dbms}, {b, mad}} {
		c := pair[1]
		_, err := f.enrollments.Enroll(ctx, pair[0], &c)
		require.NoError(t, err)
	}

	assert.Equal(t, apperrors.CodeEnrollmentStudent, codeOf(f.enrollments.Withdraw(ctx, b+100, mad)))
	assert.Equal(t, apperrors.CodeEnrollmentCourse, codeOf(f.enrollments.Withdraw(ctx, a, dbms+100)))

	require.NoError(t, f.enrollments.Withdraw(ctx, a, mad))
	assert.Equal(t, apperrors.CodeEnrollmentNotFound, codeOf(f.enrollments.Withdraw(ctx, a, mad)))

	rows, err := f.enrollments.ListForStudent(ctx, a)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, dbms, rows[0].CourseID)

	rows, err = f.enrollments.ListForStudent(ctx, b)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "other students keep their enrollment")
}
