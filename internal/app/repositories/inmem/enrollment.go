package inmem

import (
	"context"
	"sort"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

type enrollmentRepository struct {
	store *Store
}

func findEnrollment(t *tables, studentID, courseID int64) (int64, bool) {
	for id, e := range t.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return id, true
		}
	}
	return 0, false
}

func (repo *enrollmentRepository) Create(_ context.Context, enrollment *models.Enrollment) error {
	return repo.store.write(func(t *tables) error {
		if _, ok := t.students[enrollment.StudentID]; !ok {
			return apperrors.ErrEnrollmentStudentMissing
		}
		if _, ok := t.courses[enrollment.CourseID]; !ok {
			return apperrors.ErrEnrollmentCourseMissing
		}
		if _, ok := findEnrollment(t, enrollment.StudentID, enrollment.CourseID); ok {
			return apperrors.ErrEnrollmentExists
		}
		t.enrollmentSeq++
		enrollment.EnrollmentID = t.enrollmentSeq
		t.enrollments[enrollment.EnrollmentID] = *enrollment
		return nil
	})
}

func (repo *enrollmentRepository) list(match func(models.Enrollment) bool) ([]*models.Enrollment, error) {
	enrollments := []*models.Enrollment{}
	err := repo.store.read(func(t *tables) error {
		for _, e := range t.enrollments {
			if match(e) {
				e := e
				enrollments = append(enrollments, &e)
			}
		}
		return nil
	})
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].EnrollmentID < enrollments[j].EnrollmentID })
	return enrollments, err
}

func (repo *enrollmentRepository) ListByStudent(_ context.Context, studentID int64) ([]*models.Enrollment, error) {
	return repo.list(func(e models.Enrollment) bool { return e.StudentID == studentID })
}

func (repo *enrollmentRepository) ListByCourse(_ context.Context, courseID int64) ([]*models.Enrollment, error) {
	return repo.list(func(e models.Enrollment) bool { return e.CourseID == courseID })
}

func (repo *enrollmentRepository) Exists(_ context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	err := repo.store.read(func(t *tables) error {
		_, exists = findEnrollment(t, studentID, courseID)
		return nil
	})
	return exists, err
}

func (repo *enrollmentRepository) DeleteByStudentAndCourse(_ context.Context, studentID, courseID int64) error {
	return repo.store.write(func(t *tables) error {
		id, ok := findEnrollment(t, studentID, courseID)
		if !ok {
			return apperrors.ErrEnrollmentNotFound
		}
		delete(t.enrollments, id)
		return nil
	})
}

func (repo *enrollmentRepository) deleteWhere(match func(models.Enrollment) bool) (int64, error) {
	var removed int64
	err := repo.store.write(func(t *tables) error {
		for id, e := range t.enrollments {
			if match(e) {
				delete(t.enrollments, id)
				removed++
			}
		}
		return nil
	})
	return removed, err
}

func (repo *enrollmentRepository) DeleteByStudent(_ context.Context, studentID int64) (int64, error) {
	return repo.deleteWhere(func(e models.Enrollment) bool { return e.StudentID == studentID })
}

func (repo *enrollmentRepository) DeleteByCourse(_ context.Context, courseID int64) (int64, error) {
	return repo.deleteWhere(func(e models.Enrollment) bool { return e.CourseID == courseID })
}
