package models

// Course represents a course students can enroll in.
type Course struct {
	CourseID          int64   `json:"course_id"`
	CourseCode        string  `json:"course_code"`
	CourseName        string  `json:"course_name"`
	CourseDescription *string `json:"course_description"`
}
