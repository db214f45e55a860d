package validation

import (
	"strings"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Marks query kinds as posted by the marks form.
const (
	QueryStudent = "student_id"
	QueryCourse  = "course_id"
)

// Marks query codes
const (
	CodeMarksQueryInvalid  = "MARKS_QUERY_INVALID"
	CodeMarksStudentPrefix = "MARKS_STUDENT_PREFIX_INVALID"
	CodeMarksCoursePrefix  = "MARKS_COURSE_PREFIX_INVALID"
)

const (
	studentIDPrefix = "1"
	courseIDPrefix  = "2"
)

// ValidateMarksQuery checks a marks form lookup. The value must be a
// non-empty digit string. Student ids must start with "1" and course ids
// with "2"; the convention only holds for single-digit sequence numbers.
func ValidateMarksQuery(kind, value string) error {
	value = strings.TrimSpace(value)
	if !IsNumeric(value) {
		return apperrors.NewValidationError(CodeMarksQueryInvalid, "ID value must be a number")
	}

	switch kind {
	case QueryStudent:
		if !strings.HasPrefix(value, studentIDPrefix) {
			return apperrors.NewValidationError(CodeMarksStudentPrefix, "Student ID must start with "+studentIDPrefix)
		}
	case QueryCourse:
		if !strings.HasPrefix(value, courseIDPrefix) {
			return apperrors.NewValidationError(CodeMarksCoursePrefix, "Course ID must start with "+courseIDPrefix)
		}
	default:
		return apperrors.NewValidationError(CodeMarksQueryInvalid, "Unknown ID type "+kind)
	}
	return nil
}
