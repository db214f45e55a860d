package apperrors

import "errors"

// Error categories. Every domain error wraps exactly one of these so
// callers can branch with errors.Is.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrReferential      = errors.New("referenced resource does not exist")
	ErrNoData           = errors.New("no matching data")
	ErrBadRequest       = errors.New("bad request")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Error codes exposed in the JSON error envelope.
const (
	CodeStudentNotFound        = "STUDENT_NOT_FOUND"
	CodeStudentRollNumberTaken = "STUDENT_ROLLNUMBER_EXISTS"
	CodeCourseNotFound         = "COURSE_NOT_FOUND"
	CodeCourseCodeTaken        = "COURSE_CODE_EXISTS"
	CodeEnrollmentNotFound     = "ENROLLMENT_NOT_FOUND"
	CodeEnrollmentExists       = "ENROLLMENT_EXISTS"
	CodeEnrollmentStudent      = "ENROLLMENT_STUDENT_NOT_FOUND"
	CodeEnrollmentCourse       = "ENROLLMENT_COURSE_NOT_FOUND"
	CodeBadRequest             = "BAD_REQUEST"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeNotFound               = "NOT_FOUND"
	CodeNoData                 = "NO_DATA"
	CodeConflict               = "CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInternal               = "INTERNAL_ERROR"
)

// Student errors
var (
	ErrStudentNotFound = NewResourceNotFoundError(CodeStudentNotFound, "Student not found")
	ErrRollNumberTaken = NewConflictError(CodeStudentRollNumberTaken, "Roll Number already exists")
)

// Course errors
var (
	ErrCourseNotFound  = NewResourceNotFoundError(CodeCourseNotFound, "Course not found")
	ErrCourseCodeTaken = NewConflictError(CodeCourseCodeTaken, "Course Code already exists")
)

// Enrollment errors
var (
	ErrEnrollmentNotFound       = NewResourceNotFoundError(CodeEnrollmentNotFound, "Enrollment not found")
	ErrEnrollmentExists         = NewConflictError(CodeEnrollmentExists, "Student is already enrolled in this course")
	ErrEnrollmentStudentMissing = NewReferentialError(CodeEnrollmentStudent, "Student does not exist")
	ErrEnrollmentCourseMissing  = NewReferentialError(CodeEnrollmentCourse, "Course does not exist")
)

// NewResourceNotFoundError creates a not-found error with a stable code
func NewResourceNotFoundError(code, message string) *CustomError {
	return &CustomError{Err: ErrResourceNotFound, Code: code, Message: message}
}

// NewConflictError creates a unique-key conflict error
func NewConflictError(code, message string) *CustomError {
	return &CustomError{Err: ErrConflict, Code: code, Message: message}
}

// NewValidationError creates a field validation error
func NewValidationError(code, message string) *CustomError {
	return &CustomError{Err: ErrValidationFailed, Code: code, Message: message}
}

// NewReferentialError creates an error for a reference to a missing entity
func NewReferentialError(code, message string) *CustomError {
	return &CustomError{Err: ErrReferential, Code: code, Message: message}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) *CustomError {
	return &CustomError{Err: ErrBadRequest, Code: CodeBadRequest, Message: message}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error carrying extra context.
// Package-level errors are shared, so they are never mutated in place.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	cp := *e
	cp.Details = details
	return &cp
}

// CodeOf extracts the code and message of the outermost CustomError in the chain.
func CodeOf(err error) (code, message string, ok bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code, ce.Message, true
	}
	return "", "", false
}
