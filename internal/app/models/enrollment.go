package models

// Enrollment links one student to one course.
type Enrollment struct {
	EnrollmentID int64 `json:"enrollment_id"`
	StudentID    int64 `json:"student_id"`
	CourseID     int64 `json:"course_id"`
}

// StudentDetails is a student together with the courses they take.
type StudentDetails struct {
	Student *Student  `json:"student"`
	Courses []*Course `json:"courses"`
}
