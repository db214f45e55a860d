package marks

import (
	"fmt"
	"strings"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// StudentSummary is the result of a student lookup.
type StudentSummary struct {
	StudentID  string   `json:"student_id"`
	Rows       []Record `json:"rows"`
	TotalMarks int      `json:"total_marks"`
}

// CourseSummary is the result of a course lookup. Values are full
// precision; rounding is left to whoever renders them.
type CourseSummary struct {
	CourseID string    `json:"course_id"`
	Rows     []Record  `json:"rows"`
	Count    int       `json:"count"`
	Average  float64   `json:"average_marks"`
	Maximum  float64   `json:"maximum_marks"`
	Marks    []float64 `json:"marks"`
}

// ForStudent selects the rows of one student and totals their marks.
// The float sum is truncated to an integer. No match yields ErrNoData.
func ForStudent(records []Record, studentID string) (StudentSummary, error) {
	key := strings.TrimSpace(studentID)
	summary := StudentSummary{StudentID: key}

	var sum float64
	for _, r := range records {
		if r.StudentID == key {
			summary.Rows = append(summary.Rows, r)
			sum += r.Marks
		}
	}
	if len(summary.Rows) == 0 {
		return summary, fmt.Errorf("student %q: %w", key, apperrors.ErrNoData)
	}

	summary.TotalMarks = int(sum)
	return summary, nil
}

// ForCourse selects the rows of one course and computes average and
// maximum marks. No match yields ErrNoData with a zero average.
func ForCourse(records []Record, courseID string) (CourseSummary, error) {
	key := strings.TrimSpace(courseID)
	summary := CourseSummary{CourseID: key}

	var sum float64
	for _, r := range records {
		if r.CourseID != key {
			continue
		}
		if len(summary.Rows) == 0 || r.Marks > summary.Maximum {
			summary.Maximum = r.Marks
		}
		summary.Rows = append(summary.Rows, r)
		summary.Marks = append(summary.Marks, r.Marks)
		sum += r.Marks
	}

	summary.Count = len(summary.Rows)
	if summary.Count == 0 {
		return summary, fmt.Errorf("course %q: %w", key, apperrors.ErrNoData)
	}

	summary.Average = sum / float64(summary.Count)
	return summary, nil
}
