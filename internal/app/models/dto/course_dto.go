package dto

import (
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// CourseRequest is the body of course create and update calls
type CourseRequest struct {
	CourseCode        *string `json:"course_code"`
	CourseName        *string `json:"course_name"`
	CourseDescription *string `json:"course_description"`
}

// Fields returns the request as validation input
func (r CourseRequest) Fields() validation.CourseFields {
	return validation.CourseFields{
		CourseCode:        r.CourseCode,
		CourseName:        r.CourseName,
		CourseDescription: r.CourseDescription,
	}
}

// ToModel converts a validated request into a course
func (r CourseRequest) ToModel() *models.Course {
	c := &models.Course{CourseDescription: r.CourseDescription}
	if r.CourseCode != nil {
		c.CourseCode = *r.CourseCode
	}
	if r.CourseName != nil {
		c.CourseName = *r.CourseName
	}
	return c
}
