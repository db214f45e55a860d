package models

// Student is a person enrolled in the program.
type Student struct {
	StudentID  int64   `json:"student_id"`
	RollNumber string  `json:"roll_number"`
	FirstName  string  `json:"first_name"`
	LastName   *string `json:"last_name"`
}
