package dto

import (
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// StudentRequest is the body of student create and update calls.
// Pointers distinguish an absent field from an empty one.
type StudentRequest struct {
	RollNumber *string `json:"roll_number"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
}

// Fields returns the request as validation input
func (r StudentRequest) Fields() validation.StudentFields {
	return validation.StudentFields{
		RollNumber: r.RollNumber,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
	}
}

// ToModel converts a validated request into a student
func (r StudentRequest) ToModel() *models.Student {
	s := &models.Student{LastName: r.LastName}
	if r.RollNumber != nil {
		s.RollNumber = *r.RollNumber
	}
	if r.FirstName != nil {
		s.FirstName = *r.FirstName
	}
	return s
}

// StudentForm is the student form of the web pages. Course IDs come from
// the "courses" checkboxes.
type StudentForm struct {
	RollNumber string  `form:"roll"`
	FirstName  string  `form:"f_name"`
	LastName   string  `form:"l_name"`
	CourseIDs  []int64 `form:"courses"`
}

// Request converts the form into an API style request. An empty last
// name means no last name.
func (f StudentForm) Request() StudentRequest {
	req := StudentRequest{RollNumber: &f.RollNumber, FirstName: &f.FirstName}
	if f.LastName != "" {
		req.LastName = &f.LastName
	}
	return req
}
