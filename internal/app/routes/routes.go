package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/middleware"
)

// SetupRouter configures all application routes. With a nil
// authMiddleware the mutating API routes and the editing pages are public.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	webController *controllers.WebController,
	marksController *controllers.MarksController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// --- HTML pages ---
	router.GET("/", webController.Index)
	router.GET("/student/:student_id", webController.Details)

	editing := router.Group("/student")
	if authMiddleware != nil {
		editing.Use(authMiddleware.AdminBasicAuth())
	}
	{
		editing.GET("/create", webController.CreateForm)
		editing.POST("/create", webController.Create)
		editing.GET("/:student_id/update", webController.UpdateForm)
		editing.POST("/:student_id/update", webController.Update)
		editing.GET("/:student_id/delete", webController.Delete)
	}

	router.GET("/marks", marksController.Form)
	router.POST("/marks", marksController.Lookup)

	// --- JSON API ---
	api := router.Group("/api")

	if authController != nil {
		api.POST("/auth/token", authController.Token)
	}

	// Read routes are always public
	api.GET("/course", courseController.List)
	api.GET("/course/:course_id", courseController.Get)
	api.GET("/student", studentController.List)
	api.GET("/student/:student_id", studentController.Get)
	api.GET("/student/:student_id/course", enrollmentController.List)

	writes := api.Group("")
	if authMiddleware != nil {
		writes.Use(authMiddleware.JWTAuth())
	}
	{
		writes.POST("/course", courseController.Create)
		writes.PUT("/course/:course_id", courseController.Update)
		writes.DELETE("/course/:course_id", courseController.Delete)

		writes.POST("/student", studentController.Create)
		writes.PUT("/student/:student_id", studentController.Update)
		writes.DELETE("/student/:student_id", studentController.Delete)

		writes.POST("/student/:student_id/course", enrollmentController.Create)
		writes.DELETE("/student/:student_id/course/:course_id", enrollmentController.Delete)
	}
}
