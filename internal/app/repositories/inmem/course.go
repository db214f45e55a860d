package inmem

import (
	"context"
	"sort"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

type courseRepository struct {
	store *Store
}

func cloneCourse(c models.Course) *models.Course {
	c.CourseDescription = copyString(c.CourseDescription)
	return &c
}

func courseCodeTaken(t *tables, code string, exceptID int64) bool {
	for id, c := range t.courses {
		if id != exceptID && c.CourseCode == code {
			return true
		}
	}
	return false
}

func sortCourses(courses []*models.Course) {
	sort.Slice(courses, func(i, j int) bool { return courses[i].CourseID < courses[j].CourseID })
}

func (repo *courseRepository) Create(_ context.Context, course *models.Course) error {
	return repo.store.write(func(t *tables) error {
		if courseCodeTaken(t, course.CourseCode, 0) {
			return apperrors.ErrCourseCodeTaken
		}
		t.courseSeq++
		course.CourseID = t.courseSeq
		t.courses[course.CourseID] = *cloneCourse(*course)
		return nil
	})
}

func (repo *courseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	var found *models.Course
	err := repo.store.read(func(t *tables) error {
		c, ok := t.courses[id]
		if !ok {
			return apperrors.ErrCourseNotFound
		}
		found = cloneCourse(c)
		return nil
	})
	return found, err
}

func (repo *courseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	matches, err := repo.Filter(ctx, repositories.CourseFilter{CourseCode: code})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.ErrCourseNotFound
	}
	return matches[0], nil
}

func (repo *courseRepository) List(ctx context.Context) ([]*models.Course, error) {
	return repo.Filter(ctx, repositories.CourseFilter{})
}

func (repo *courseRepository) ListByIDs(_ context.Context, ids []int64) ([]*models.Course, error) {
	courses := []*models.Course{}
	err := repo.store.read(func(t *tables) error {
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			if c, ok := t.courses[id]; ok && !seen[id] {
				seen[id] = true
				courses = append(courses, cloneCourse(c))
			}
		}
		return nil
	})
	sortCourses(courses)
	return courses, err
}

func (repo *courseRepository) Filter(_ context.Context, filter repositories.CourseFilter) ([]*models.Course, error) {
	courses := []*models.Course{}
	err := repo.store.read(func(t *tables) error {
		for _, c := range t.courses {
			if filter.CourseCode != "" && c.CourseCode != filter.CourseCode {
				continue
			}
			if filter.CourseName != "" && c.CourseName != filter.CourseName {
				continue
			}
			courses = append(courses, cloneCourse(c))
		}
		return nil
	})
	sortCourses(courses)
	return courses, err
}

func (repo *courseRepository) Update(_ context.Context, course *models.Course) error {
	return repo.store.write(func(t *tables) error {
		if _, ok := t.courses[course.CourseID]; !ok {
			return apperrors.ErrCourseNotFound
		}
		if courseCodeTaken(t, course.CourseCode, course.CourseID) {
			return apperrors.ErrCourseCodeTaken
		}
		t.courses[course.CourseID] = *cloneCourse(*course)
		return nil
	})
}

func (repo *courseRepository) Delete(_ context.Context, id int64) error {
	return repo.store.write(func(t *tables) error {
		if _, ok := t.courses[id]; !ok {
			return apperrors.ErrCourseNotFound
		}
		for eid, e := range t.enrollments {
			if e.CourseID == id {
				delete(t.enrollments, eid)
			}
		}
		delete(t.courses, id)
		return nil
	})
}
