package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// WebController serves the HTML student pages
type WebController struct {
	studentService *services.StudentService
	courseService  *services.CourseService
	logger         zerolog.Logger
}

// NewWebController creates a new WebController
func NewWebController(studentService *services.StudentService, courseService *services.CourseService, logger zerolog.Logger) *WebController {
	return &WebController{
		studentService: studentService,
		courseService:  courseService,
		logger:         logger,
	}
}

// Index lists all students
func (c *WebController) Index(ctx *gin.Context) {
	students, err := c.studentService.List(ctx.Request.Context())
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "index.html", gin.H{"Students": students})
}

// CreateForm shows the empty student form
func (c *WebController) CreateForm(ctx *gin.Context) {
	c.renderForm(ctx, http.StatusOK, nil, nil, "")
}

// Create stores the submitted student and its courses
func (c *WebController) Create(ctx *gin.Context) {
	var form dto.StudentForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderError(ctx, apperrors.NewBadRequestError("Invalid form data"))
		return
	}

	_, err := c.studentService.CreateWithCourses(ctx.Request.Context(), form.Request(), form.CourseIDs)
	switch {
	case err == nil:
		ctx.Redirect(http.StatusFound, "/")
	case apperrors.Is(err, apperrors.ErrConflict):
		c.renderMessage(ctx, http.StatusConflict, "Student already exists", "A student with this roll number already exists.", "/student/create")
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrReferential):
		_, message, _ := apperrors.CodeOf(err)
		c.renderForm(ctx, http.StatusBadRequest, nil, selected(form.CourseIDs), message)
	default:
		c.renderError(ctx, err)
	}
}

// Details shows a student and its courses
func (c *WebController) Details(ctx *gin.Context) {
	id, ok := c.studentID(ctx)
	if !ok {
		return
	}

	details, err := c.studentService.Details(ctx.Request.Context(), id)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "student_details.html", gin.H{"Details": details})
}

// UpdateForm shows the student form filled with the current values
func (c *WebController) UpdateForm(ctx *gin.Context) {
	id, ok := c.studentID(ctx)
	if !ok {
		return
	}

	details, err := c.studentService.Details(ctx.Request.Context(), id)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	ids := make([]int64, 0, len(details.Courses))
	for _, course := range details.Courses {
		ids = append(ids, course.CourseID)
	}
	c.renderForm(ctx, http.StatusOK, details.Student, selected(ids), "")
}

// Update changes the names and the course set of a student
func (c *WebController) Update(ctx *gin.Context) {
	id, ok := c.studentID(ctx)
	if !ok {
		return
	}

	var form dto.StudentForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderError(ctx, apperrors.NewBadRequestError("Invalid form data"))
		return
	}

	_, err := c.studentService.UpdateProfile(ctx.Request.Context(), id, form.Request(), form.CourseIDs)
	switch {
	case err == nil:
		ctx.Redirect(http.StatusFound, "/")
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrReferential):
		current, getErr := c.studentService.Get(ctx.Request.Context(), id)
		if getErr != nil {
			c.renderError(ctx, getErr)
			return
		}
		_, message, _ := apperrors.CodeOf(err)
		c.renderForm(ctx, http.StatusBadRequest, current, selected(form.CourseIDs), message)
	default:
		c.renderError(ctx, err)
	}
}

// Delete removes a student and returns to the list
func (c *WebController) Delete(ctx *gin.Context) {
	id, ok := c.studentID(ctx)
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		c.renderError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

func (c *WebController) studentID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("student_id"), 10, 64)
	if err != nil || id <= 0 {
		c.renderError(ctx, apperrors.ErrStudentNotFound)
		return 0, false
	}
	return id, true
}

func (c *WebController) renderForm(ctx *gin.Context, status int, student *models.Student, chosen map[int64]bool, message string) {
	courses, err := c.courseService.List(ctx.Request.Context())
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	action := "/student/create"
	if student != nil {
		action = fmt.Sprintf("/student/%d/update", student.StudentID)
	}

	ctx.HTML(status, "student_form.html", gin.H{
		"Action":   action,
		"Student":  student,
		"Courses":  courses,
		"Selected": chosen,
		"Error":    message,
	})
}

func (c *WebController) renderMessage(ctx *gin.Context, status int, title, message, backURL string) {
	ctx.HTML(status, "message.html", gin.H{"Title": title, "Message": message, "BackURL": backURL})
}

// renderError shows an error page. Unexpected errors are logged with their
// cause and hidden from the visitor.
func (c *WebController) renderError(ctx *gin.Context, err error) {
	status, _, message := middleware.ClassifyError(err)
	if status >= http.StatusInternalServerError {
		c.logger.Error().Err(err).Str("path", ctx.Request.URL.Path).Msg("Unexpected error while rendering page")
	}
	c.renderMessage(ctx, status, http.StatusText(status), message, "/")
}

func selected(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
