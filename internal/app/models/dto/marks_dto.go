package dto

// MarksQuery is the marks form submission. ID selects the kind of
// lookup ("student_id" or "course_id").
type MarksQuery struct {
	Kind  string `form:"ID"`
	Value string `form:"id_value"`
}
