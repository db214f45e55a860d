// Package storetest holds the behaviour every repositories.Store
// implementation must share. Backends call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// NewStoreFunc returns an empty store for one subtest.
type NewStoreFunc func(t *testing.T) repositories.Store

func strPtr(s string) *string { return &s }

// Run executes the store contract against fresh stores from newStore.
func Run(t *testing.T, newStore NewStoreFunc) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store repositories.Store)
	}{
		{"CreateAndGetStudent", testCreateAndGetStudent},
		{"DuplicateRollNumber", testDuplicateRollNumber},
		{"UpdateStudent", testUpdateStudent},
		{"DeleteStudentCascades", testDeleteStudentCascades},
		{"CourseLifecycle", testCourseLifecycle},
		{"DeleteCourseCascades", testDeleteCourseCascades},
		{"EnrollmentReferences", testEnrollmentReferences},
		{"WithdrawExactPair", testWithdrawExactPair},
		{"Filter", testFilter},
		{"TransactionRollback", testTransactionRollback},
		{"TransactionCommit", testTransactionCommit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func createStudent(t *testing.T, store repositories.Store, roll, first string) *models.Student {
	t.Helper()
	s := &models.Student{RollNumber: roll, FirstName: first}
	require.NoError(t, store.Students().Create(context.Background(), s))
	return s
}

func createCourse(t *testing.T, store repositories.Store, code, name string) *models.Course {
	t.Helper()
	c := &models.Course{CourseCode: code, CourseName: name}
	require.NoError(t, store.Courses().Create(context.Background(), c))
	return c
}

func enroll(t *testing.T, store repositories.Store, studentID, courseID int64) {
	t.Helper()
	require.NoError(t, store.Enrollments().Create(context.Background(),
		&models.Enrollment{StudentID: studentID, CourseID: courseID}))
}

func testCreateAndGetStudent(t *testing.T, store repositories.Store) {
	ctx := context.Background()

	first := &models.Student{RollNumber: "MAD-01", FirstName: "Asha", LastName: strPtr("Rao")}
	second := &models.Student{RollNumber: "MAD-02", FirstName: "Ben"}
	require.NoError(t, store.Students().Create(ctx, first))
	require.NoError(t, store.Students().Create(ctx, second))

	assert.NotZero(t, first.StudentID)
	assert.NotEqual(t, first.StudentID, second.StudentID)

	got, err := store.Students().GetByID(ctx, first.StudentID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = store.Students().GetByID(ctx, second.StudentID)
	require.NoError(t, err)
	assert.Nil(t, got.LastName)

	byRoll, err := store.Students().GetByRollNumber(ctx, "MAD-02")
	require.NoError(t, err)
	assert.Equal(t, second.StudentID, byRoll.StudentID)

	_, err = store.Students().GetByID(ctx, second.StudentID+100)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func testDuplicateRollNumber(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	createStudent(t, store, "R1", "Asha")

	dup := &models.Student{RollNumber: "R1", FirstName: "Other"}
	err := store.Students().Create(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, apperrors.CodeStudentRollNumberTaken, codeOf(err))
	assert.Zero(t, dup.StudentID)

	all, err := store.Students().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Asha", all[0].FirstName)
}

func testUpdateStudent(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createStudent(t, store, "R1", "Asha")
	createStudent(t, store, "R2", "Ben")

	a.FirstName = "Asha Updated"
	a.LastName = strPtr("Rao")
	require.NoError(t, store.Students().Update(ctx, a))

	got, err := store.Students().GetByID(ctx, a.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Updated", got.FirstName)
	assert.Equal(t, "Rao", *got.LastName)

	a.RollNumber = "R2"
	assert.ErrorIs(t, store.Students().Update(ctx, a), apperrors.ErrConflict)

	missing := &models.Student{StudentID: a.StudentID + 100, RollNumber: "R9", FirstName: "X"}
	assert.ErrorIs(t, store.Students().Update(ctx, missing), apperrors.ErrResourceNotFound)
}

func testDeleteStudentCascades(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	s := createStudent(t, store, "R1", "Asha")
	other := createStudent(t, store, "R2", "Ben")
	c1 := createCourse(t, store, "CSE01", "MAD")
	c2 := createCourse(t, store, "CSE02", "DBMS")
	enroll(t, store, s.StudentID, c1.CourseID)
	enroll(t, store, s.StudentID, c2.CourseID)
	enroll(t, store, other.StudentID, c1.CourseID)

	require.NoError(t, store.Students().Delete(ctx, s.StudentID))

	_, err := store.Students().GetByID(ctx, s.StudentID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	left, err := store.Enrollments().ListByStudent(ctx, s.StudentID)
	require.NoError(t, err)
	assert.Empty(t, left)

	byCourse, err := store.Enrollments().ListByCourse(ctx, c1.CourseID)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, other.StudentID, byCourse[0].StudentID)

	assert.ErrorIs(t, store.Students().Delete(ctx, s.StudentID), apperrors.ErrResourceNotFound)
}

func testCourseLifecycle(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	c := &models.Course{CourseCode: "CSE01", CourseName: "MAD 1", CourseDescription: strPtr("App dev")}
	require.NoError(t, store.Courses().Create(ctx, c))

	err := store.Courses().Create(ctx, &models.Course{CourseCode: "CSE01", CourseName: "Other"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, apperrors.CodeCourseCodeTaken, codeOf(err))

	got, err := store.Courses().GetByCode(ctx, "CSE01")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	c.CourseName = "MAD 2"
	c.CourseDescription = nil
	require.NoError(t, store.Courses().Update(ctx, c))
	got, err = store.Courses().GetByID(ctx, c.CourseID)
	require.NoError(t, err)
	assert.Equal(t, "MAD 2", got.CourseName)
	assert.Nil(t, got.CourseDescription)

	c2 := createCourse(t, store, "CSE02", "DBMS")
	byIDs, err := store.Courses().ListByIDs(ctx, []int64{c2.CourseID, c.CourseID, c2.CourseID + 100})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, c.CourseID, byIDs[0].CourseID)

	_, err = store.Courses().GetByID(ctx, c2.CourseID+100)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, store.Courses().Delete(ctx, c2.CourseID+100), apperrors.ErrResourceNotFound)
}

func testDeleteCourseCascades(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	s := createStudent(t, store, "R1", "Asha")
	c1 := createCourse(t, store, "CSE01", "MAD")
	c2 := createCourse(t, store, "CSE02", "DBMS")
	enroll(t, store, s.StudentID, c1.CourseID)
	enroll(t, store, s.StudentID, c2.CourseID)

	require.NoError(t, store.Courses().Delete(ctx, c1.CourseID))

	left, err := store.Enrollments().ListByStudent(ctx, s.StudentID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, c2.CourseID, left[0].CourseID)
}

func testEnrollmentReferences(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	s := createStudent(t, store, "R1", "Asha")
	c := createCourse(t, store, "CSE01", "MAD")

	err := store.Enrollments().Create(ctx, &models.Enrollment{StudentID: s.StudentID, CourseID: c.CourseID + 100})
	assert.ErrorIs(t, err, apperrors.ErrReferential)
	assert.Equal(t, apperrors.CodeEnrollmentCourse, codeOf(err))

	err = store.Enrollments().Create(ctx, &models.Enrollment{StudentID: s.StudentID + 100, CourseID: c.CourseID})
	assert.ErrorIs(t, err, apperrors.ErrReferential)
	assert.Equal(t, apperrors.CodeEnrollmentStudent, codeOf(err))

	rows, err := store.Enrollments().ListByStudent(ctx, s.StudentID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	e := &models.Enrollment{StudentID: s.StudentID, CourseID: c.CourseID}
	require.NoError(t, store.Enrollments().Create(ctx, e))
	assert.NotZero(t, e.EnrollmentID)

	err = store.Enrollments().Create(ctx, &models.Enrollment{StudentID: s.StudentID, CourseID: c.CourseID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	exists, err := store.Enrollments().Exists(ctx, s.StudentID, c.CourseID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func testWithdrawExactPair(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createStudent(t, store, "R1", "Asha")
	b := createStudent(t, store, "R2", "Ben")
	c1 := createCourse(t, store, "CSE01", "MAD")
	c2 := createCourse(t, store, "CSE02", "DBMS")
	enroll(t, store, a.StudentID, c1.CourseID)
	enroll(t, store, a.StudentID, c2.CourseID)
	enroll(t, store, b.StudentID, c1.CourseID)

	require.NoError(t, store.Enrollments().DeleteByStudentAndCourse(ctx, a.StudentID, c1.CourseID))
	assert.ErrorIs(t, store.Enrollments().DeleteByStudentAndCourse(ctx, a.StudentID, c1.CourseID), apperrors.ErrResourceNotFound)

	aRows, err := store.Enrollments().ListByStudent(ctx, a.StudentID)
	require.NoError(t, err)
	require.Len(t, aRows, 1)
	assert.Equal(t, c2.CourseID, aRows[0].CourseID)

	bRows, err := store.Enrollments().ListByStudent(ctx, b.StudentID)
	require.NoError(t, err)
	assert.Len(t, bRows, 1)

	n, err := store.Enrollments().DeleteByCourse(ctx, c1.CourseID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.Enrollments().DeleteByStudent(ctx, a.StudentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func testFilter(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	createStudent(t, store, "R1", "Asha")
	createStudent(t, store, "R2", "Ben")
	createStudent(t, store, "R3", "Asha")

	ashas, err := store.Students().Filter(ctx, repositories.StudentFilter{FirstName: "Asha"})
	require.NoError(t, err)
	require.Len(t, ashas, 2)
	assert.Equal(t, "R1", ashas[0].RollNumber)
	assert.Equal(t, "R3", ashas[1].RollNumber)

	none, err := store.Students().Filter(ctx, repositories.StudentFilter{FirstName: "Asha", RollNumber: "R2"})
	require.NoError(t, err)
	assert.Empty(t, none)

	createCourse(t, store, "CSE01", "MAD")
	courses, err := store.Courses().Filter(ctx, repositories.CourseFilter{CourseName: "MAD"})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func testTransactionRollback(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx repositories.Store) error {
		s := &models.Student{RollNumber: "R1", FirstName: "Asha"}
		if err := tx.Students().Create(ctx, s); err != nil {
			return err
		}
		return tx.Enrollments().Create(ctx, &models.Enrollment{StudentID: s.StudentID, CourseID: 999})
	})
	assert.ErrorIs(t, err, apperrors.ErrReferential)

	err = store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.Students().Create(ctx, &models.Student{RollNumber: "R2", FirstName: "Ben"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := store.Students().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testTransactionCommit(t *testing.T, store repositories.Store) {
	ctx := context.Background()

	var studentID int64
	err := store.WithTx(ctx, func(tx repositories.Store) error {
		c := &models.Course{CourseCode: "CSE01", CourseName: "MAD"}
		if err := tx.Courses().Create(ctx, c); err != nil {
			return err
		}
		s := &models.Student{RollNumber: "R1", FirstName: "Asha"}
		if err := tx.Students().Create(ctx, s); err != nil {
			return err
		}
		studentID = s.StudentID

		// A failing nested unit leaves the outer one intact.
		nestedErr := tx.WithTx(ctx, func(inner repositories.Store) error {
			if err := inner.Students().Create(ctx, &models.Student{RollNumber: "R2", FirstName: "Ben"}); err != nil {
				return err
			}
			return errors.New("discard")
		})
		if nestedErr == nil {
			return errors.New("nested transaction should fail")
		}

		return tx.Enrollments().Create(ctx, &models.Enrollment{StudentID: s.StudentID, CourseID: c.CourseID})
	})
	require.NoError(t, err)

	students, err := store.Students().List(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "R1", students[0].RollNumber)

	rows, err := store.Enrollments().ListByStudent(ctx, studentID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func codeOf(err error) string {
	code, _, _ := apperrors.CodeOf(err)
	return code
}
