package inmem

import (
	"context"
	"sort"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

type studentRepository struct {
	store *Store
}

func cloneStudent(s models.Student) *models.Student {
	s.LastName = copyString(s.LastName)
	return &s
}

func rollNumberTaken(t *tables, rollNumber string, exceptID int64) bool {
	for id, s := range t.students {
		if id != exceptID && s.RollNumber == rollNumber {
			return true
		}
	}
	return false
}

func (repo *studentRepository) Create(_ context.Context, student *models.Student) error {
	return repo.store.write(func(t *tables) error {
		if rollNumberTaken(t, student.RollNumber, 0) {
			return apperrors.ErrRollNumberTaken
		}
		t.studentSeq++
		student.StudentID = t.studentSeq
		t.students[student.StudentID] = *cloneStudent(*student)
		return nil
	})
}

func (repo *studentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	var found *models.Student
	err := repo.store.read(func(t *tables) error {
		s, ok := t.students[id]
		if !ok {
			return apperrors.ErrStudentNotFound
		}
		found = cloneStudent(s)
		return nil
	})
	return found, err
}

func (repo *studentRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	matches, err := repo.Filter(ctx, repositories.StudentFilter{RollNumber: rollNumber})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	return matches[0], nil
}

func (repo *studentRepository) List(ctx context.Context) ([]*models.Student, error) {
	return repo.Filter(ctx, repositories.StudentFilter{})
}

func (repo *studentRepository) Filter(_ context.Context, filter repositories.StudentFilter) ([]*models.Student, error) {
	students := []*models.Student{}
	err := repo.store.read(func(t *tables) error {
		for _, s := range t.students {
			if filter.RollNumber != "" && s.RollNumber != filter.RollNumber {
				continue
			}
			if filter.FirstName != "" && s.FirstName != filter.FirstName {
				continue
			}
			if filter.LastName != "" && (s.LastName == nil || *s.LastName != filter.LastName) {
				continue
			}
			students = append(students, cloneStudent(s))
		}
		return nil
	})
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
	return students, err
}

func (repo *studentRepository) Update(_ context.Context, student *models.Student) error {
	return repo.store.write(func(t *tables) error {
		if _, ok := t.students[student.StudentID]; !ok {
			return apperrors.ErrStudentNotFound
		}
		if rollNumberTaken(t, student.RollNumber, student.StudentID) {
			return apperrors.ErrRollNumberTaken
		}
		t.students[student.StudentID] = *cloneStudent(*student)
		return nil
	})
}

func (repo *studentRepository) Delete(_ context.Context, id int64) error {
	return repo.store.write(func(t *tables) error {
		if _, ok := t.students[id]; !ok {
			return apperrors.ErrStudentNotFound
		}
		for eid, e := range t.enrollments {
			if e.StudentID == id {
				delete(t.enrollments, eid)
			}
		}
		delete(t.students, id)
		return nil
	})
}
