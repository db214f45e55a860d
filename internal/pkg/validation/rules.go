package validation

import (
	"unicode"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Field validation codes
const (
	CodeStudentFirstNameRequired  = "STUDENT_FIRSTNAME_REQUIRED"
	CodeStudentRollNumberRequired = "STUDENT_ROLLNUMBER_REQUIRED"
	CodeStudentLastNameInvalid    = "STUDENT_LASTNAME_INVALID"
	CodeCourseNameRequired        = "COURSE_NAME_REQUIRED"
	CodeCourseCodeRequired        = "COURSE_CODE_REQUIRED"
	CodeCourseDescriptionInvalid  = "COURSE_DESCRIPTION_INVALID"
)

// FieldError is a single failed rule.
type FieldError struct {
	Code    string `json:"error_code"`
	Field   string `json:"field"`
	Message string `json:"error_message"`
}

// Errors is the ordered list of failed rules for one request.
type Errors []FieldError

// HasErrors checks if any rule failed
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// First returns the first failure as an application error, or nil.
func (e Errors) First() error {
	if len(e) == 0 {
		return nil
	}
	return apperrors.NewValidationError(e[0].Code, e[0].Message)
}

// TextRule checks a text field. A nil Value means the field was absent.
type TextRule struct {
	Field    string
	Value    *string
	Required bool
	Code     string
	Message  string
}

// Required builds a rule for a mandatory text field
func Required(field string, value *string, code, message string) TextRule {
	return TextRule{Field: field, Value: value, Required: true, Code: code, Message: message}
}

// Optional builds a rule for a text field that may be omitted
func Optional(field string, value *string, code, message string) TextRule {
	return TextRule{Field: field, Value: value, Code: code, Message: message}
}

// Validate reports whether the value passes the rule.
// Required: present, non-empty and not all digits.
// Optional: when present, not all digits.
func (r TextRule) Validate() bool {
	if r.Value == nil {
		return !r.Required
	}
	if r.Required && *r.Value == "" {
		return false
	}
	return !IsNumeric(*r.Value)
}

// Check runs the rules in order and collects every failure.
func Check(rules ...TextRule) Errors {
	var errs Errors
	for _, r := range rules {
		if !r.Validate() {
			errs = append(errs, FieldError{Code: r.Code, Field: r.Field, Message: r.Message})
		}
	}
	return errs
}

// IsNumeric reports whether s is non-empty and made only of digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// StudentFields are the user-supplied student attributes.
type StudentFields struct {
	RollNumber *string
	FirstName  *string
	LastName   *string
}

// ValidateStudent applies the student rules in the historical order:
// first name, roll number, last name.
func ValidateStudent(f StudentFields) Errors {
	return Check(
		Required("first_name", f.FirstName, CodeStudentFirstNameRequired, "First Name is required and should be string."),
		Required("roll_number", f.RollNumber, CodeStudentRollNumberRequired, "Roll Number is required and should be string."),
		Optional("last_name", f.LastName, CodeStudentLastNameInvalid, "Last Name should be string."),
	)
}

// CourseFields are the user-supplied course attributes.
type CourseFields struct {
	CourseCode        *string
	CourseName        *string
	CourseDescription *string
}

// ValidateCourse applies the course rules: name, code, description.
func ValidateCourse(f CourseFields) Errors {
	return Check(
		Required("course_name", f.CourseName, CodeCourseNameRequired, "Course Name is required and should be string."),
		Required("course_code", f.CourseCode, CodeCourseCodeRequired, "Course Code is required and should be string."),
		Optional("course_description", f.CourseDescription, CodeCourseDescriptionInvalid, "Course Description should be string."),
	)
}
