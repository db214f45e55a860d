package dto

// EnrollmentRequest is the body of an enrollment call
type EnrollmentRequest struct {
	CourseID *int64 `json:"course_id"`
}
