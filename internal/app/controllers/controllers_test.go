package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories/inmem"
	"github.com/yigit/studentrecords/internal/app/routes"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/app/views"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/filestorage"
)

const marksCSV = `Student id, Course id, Marks
1001, 2001, 56
1002, 2001, 67
1001, 2002, 78
1003, 2001, 64
`

func init() {
	gin.SetMode(gin.TestMode)
}

type authSetup struct {
	username string
	password string
}

func newRouter(t *testing.T, withAuth *authSetup) *gin.Engine {
	t.Helper()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(marksCSV), 0o644))
	images, err := filestorage.NewLocalStorage(filepath.Join(dir, "static"), "/static")
	require.NoError(t, err)

	store := inmem.NewStore()
	lgr := zerolog.Nop()
	studentService := services.NewStudentService(store, lgr)
	courseService := services.NewCourseService(store, lgr)

	var (
		authController *controllers.AuthController
		authMiddleware *middleware.AuthMiddleware
	)
	if withAuth != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(withAuth.password), bcrypt.MinCost)
		require.NoError(t, err)
		jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Minute, TokenIssuer: "test"})
		authController = controllers.NewAuthController(services.NewAuthService(withAuth.username, string(hash), jwtService, lgr), lgr)
		authMiddleware = middleware.NewAuthMiddleware(jwtService, withAuth.username, string(hash))
	}

	router := gin.New()
	tmpl, err := views.Templates()
	require.NoError(t, err)
	router.SetHTMLTemplate(tmpl)

	routes.SetupRouter(router,
		authController,
		controllers.NewStudentController(studentService),
		controllers.NewCourseController(courseService),
		controllers.NewEnrollmentController(services.NewEnrollmentService(store, lgr)),
		controllers.NewWebController(studentService, courseService, lgr),
		controllers.NewMarksController(services.NewMarksService(csvPath, 5, images, lgr), lgr),
		authMiddleware,
	)
	return router
}

func doJSON(router *gin.Engine, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ErrorCode
}

func TestCourseAPI(t *testing.T) {
	router := newRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/api/course", `{"course_code":"CSE01","course_name":"MAD 1","course_description":"Apps"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))
	assert.Equal(t, int64(1), course.CourseID)
	assert.Equal(t, "CSE01", course.CourseCode)

	w = doJSON(router, http.MethodPost, "/api/course", `{"course_code":"CSE01","course_name":"Other"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "COURSE_CODE_EXISTS", errorCode(t, w))

	w = doJSON(router, http.MethodPost, "/api/course", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "COURSE_NAME_REQUIRED", errorCode(t, w))

	w = doJSON(router, http.MethodPost, "/api/course", `{"course_code":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, w))

	w = doJSON(router, http.MethodPut, "/api/course/1", `{"course_code":"CSE01","course_name":"MAD I"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"course_name":"MAD I"`)

	w = doJSON(router, http.MethodPut, "/api/course/99", `{"course_code":"X","course_name":"Y"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "COURSE_NOT_FOUND", errorCode(t, w))

	w = doGet(router, "/api/course/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))

	w = doGet(router, "/api/course")
	require.Equal(t, http.StatusOK, w.Code)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	assert.Len(t, courses, 1)

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodDelete, "/api/course/1", "").Code)
	w = doGet(router, "/api/course/1")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "COURSE_NOT_FOUND", errorCode(t, w))
}

func TestStudentAPI(t *testing.T) {
	router := newRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/api/student", `{"roll_number":"MAD001","first_name":"Ada"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"last_name":null`)

	w = doJSON(router, http.MethodPost, "/api/student", `{"roll_number":"MAD001","first_name":"Bob"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "STUDENT_ROLLNUMBER_EXISTS", errorCode(t, w))

	w = doJSON(router, http.MethodPost, "/api/student", `{"roll_number":"MAD002","first_name":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "STUDENT_FIRSTNAME_REQUIRED", errorCode(t, w))

	w = doJSON(router, http.MethodPut, "/api/student/1", `{"roll_number":"MAD001","first_name":"Ada","last_name":"Lovelace"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"last_name":"Lovelace"`)

	w = doGet(router, "/api/student/1")
	require.Equal(t, http.StatusOK, w.Code)
	var student models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &student))
	assert.Equal(t, "MAD001", student.RollNumber)

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodDelete, "/api/student/1", "").Code)
	w = doJSON(router, http.MethodDelete, "/api/student/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "STUDENT_NOT_FOUND", errorCode(t, w))
}

func TestEnrollmentAPI(t *testing.T) {
	router := newRouter(t, nil)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/course", `{"course_code":"CSE01","course_name":"MAD 1"}`).Code)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/student", `{"roll_number":"MAD001","first_name":"Ada"}`).Code)

	w := doGet(router, "/api/student/1/course")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ENROLLMENT_NOT_FOUND", errorCode(t, w))

	w = doJSON(router, http.MethodPost, "/api/student/1/course", `{"course_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var enrollments []models.Enrollment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enrollments))
	require.Len(t, enrollments, 1)
	assert.Equal(t, int64(1), enrollments[0].CourseID)

	w = doJSON(router, http.MethodPost, "/api/student/1/course", `{"course_id":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ENROLLMENT_EXISTS", errorCode(t, w))

	w = doJSON(router, http.MethodPost, "/api/student/1/course", `{"course_id":99}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ENROLLMENT_COURSE_NOT_FOUND", errorCode(t, w))

	w = doJSON(router, http.MethodPost, "/api/student/7/course", `{"course_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ENROLLMENT_STUDENT_NOT_FOUND", errorCode(t, w))

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodDelete, "/api/student/1/course/1", "").Code)

	w = doJSON(router, http.MethodDelete, "/api/student/1/course/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ENROLLMENT_NOT_FOUND", errorCode(t, w))
}

func TestMutatingRoutesRequireTokenWhenAuthEnabled(t *testing.T) {
	router := newRouter(t, &authSetup{username: "admin", password: "s3cret"})

	w := doJSON(router, http.MethodPost, "/api/course", `{"course_code":"CSE01","course_name":"MAD 1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/api/course").Code)

	w = doJSON(router, http.MethodPost, "/api/auth/token", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))

	w = doJSON(router, http.MethodPost, "/api/auth/token", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, "Bearer", token.TokenType)

	w = doJSON(router, http.MethodPost, "/api/course", `{"course_code":"CSE01","course_name":"MAD 1"}`,
		"Authorization", "Bearer "+token.AccessToken)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestEditingPagesRequireAdminWhenAuthEnabled(t *testing.T) {
	router := newRouter(t, &authSetup{username: "admin", password: "s3cret"})

	form := url.Values{"roll_number": {"MAD001"}, "first_name": {"Ada"}}
	assert.Equal(t, http.StatusUnauthorized, doForm(router, "/student/create", form).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "/student/create").Code)
	assert.Equal(t, "ENROLLMENT_STUDENT_NOT_FOUND", errorCode(t, doGet(router, "/api/student/1/course")))

	req := httptest.NewRequest(http.MethodPost, "/student/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("admin", "s3cret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	assert.Equal(t, http.StatusUnauthorized, doGet(router, "/student/1/delete").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "/student/1/update").Code)
	assert.Equal(t, http.StatusUnauthorized, doForm(router, "/student/1/update", url.Values{"first_name": {"Eve"}}).Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/student/1").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/api/student/1").Code)
}

func TestTokenRouteAbsentWithoutAuth(t *testing.T) {
	router := newRouter(t, nil)
	w := doJSON(router, http.MethodPost, "/api/auth/token", `{"username":"admin","password":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentPages(t *testing.T) {
	router := newRouter(t, nil)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/course", `{"course_code":"CSE01","course_name":"MAD 1"}`).Code)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/course", `{"course_code":"CSE02","course_name":"DBMS"}`).Code)

	w := doGet(router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No student found")

	w = doGet(router, "/student/create")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="2"`)

	w = doForm(router, "/student/create", url.Values{"roll": {"MAD001"}, "f_name": {"Ada"}, "courses": {"2"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = doForm(router, "/student/create", url.Values{"roll": {"MAD001"}, "f_name": {"Bob"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Student already exists")

	w = doForm(router, "/student/create", url.Values{"roll": {"MAD002"}, "f_name": {"42"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "First Name is required and should be string.")

	w = doGet(router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MAD001")

	w = doGet(router, "/student/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DBMS")
	assert.NotContains(t, w.Body.String(), "MAD 1")

	w = doGet(router, "/student/1/update")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="2" checked`)

	w = doForm(router, "/student/1/update", url.Values{"f_name": {"Ada"}, "l_name": {"Lovelace"}, "courses": {"1"}})
	require.Equal(t, http.StatusFound, w.Code)

	w = doGet(router, "/student/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lovelace")
	assert.Contains(t, w.Body.String(), "MAD 1")
	assert.NotContains(t, w.Body.String(), "DBMS")

	w = doGet(router, "/student/1/delete")
	require.Equal(t, http.StatusFound, w.Code)

	assert.Equal(t, http.StatusNotFound, doGet(router, "/student/1").Code)
	assert.Equal(t, http.StatusNotFound, doGet(router, "/student/abc").Code)
}

func TestMarksForm(t *testing.T) {
	router := newRouter(t, nil)

	w := doGet(router, "/marks")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="id_value"`)

	w = doForm(router, "/marks", url.Values{"ID": {"student_id"}, "id_value": {"1001"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<td>134</td>")
	assert.Contains(t, w.Body.String(), `href="/marks"`)

	w = doForm(router, "/marks", url.Values{"ID": {"course_id"}, "id_value": {"2001"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<td>62.3333")
	assert.Contains(t, w.Body.String(), `src="/static/hist-2001.png"`)

	w = doForm(router, "/marks", url.Values{"ID": {"student_id"}, "id_value": {"2001"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Student ID must start with 1")

	w = doForm(router, "/marks", url.Values{"ID": {"course_id"}, "id_value": {"2999"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No marks found for this ID")
}

func TestPing(t *testing.T) {
	w := doGet(newRouter(t, nil), "/ping")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&body))
	assert.Equal(t, "pong", body["message"])
}
