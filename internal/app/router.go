package app

import (
	"miniudemy_backend/docs"
	"miniudemy_backend/internal/middleware"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	a.registerAuthRoutes(api, c)
	a.registerCourseRoutes(api, c)
	a.registerLessonRoutes(api, c)
	a.registerEnrollmentRoutes(api, c)
}

func (a *App) registerAuthRoutes(api *gin.RouterGroup, c *controllers) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)

		authorized := auth.Group("")
		authorized.Use(middleware.AuthMiddleware(a.services.auth))
		{
			authorized.GET("/me", c.auth.Me)
			authorized.POST("/logout", c.auth.Logout)
		}
	}
}

func (a *App) registerCourseRoutes(api *gin.RouterGroup, c *controllers) {
	courses := api.Group("/courses")
	{
		courses.GET("", c.course.ListCourses)
		courses.GET("/categories/all", c.course.ListCategories)
		courses.GET("/:id", middleware.TryAuthMiddleware(a.services.auth), c.course.GetCourse)
		courses.GET("/:id/rating", c.review.CourseRating)

		// 讲师接口
		instructor := courses.Group("")
		instructor.Use(middleware.AuthMiddleware(a.services.auth), middleware.RoleMiddleware(model.Instructor))
		{
			instructor.GET("/instructor/my-courses", c.course.MyCourses)
			instructor.POST("", c.course.CreateCourse)
			instructor.PUT("/:id", c.course.UpdateCourse)
			instructor.DELETE("/:id", c.course.DeleteCourse)
		}
	}
}

func (a *App) registerLessonRoutes(api *gin.RouterGroup, c *controllers) {
	lessons := api.Group("/lessons")
	{
		lessons.GET("/course/:courseId", c.lesson.ListByCourse)
		lessons.GET("/:id", middleware.TryAuthMiddleware(a.services.auth), c.lesson.GetLesson)

		instructor := lessons.Group("")
		instructor.Use(middleware.AuthMiddleware(a.services.auth), middleware.RoleMiddleware(model.Instructor))
		{
			instructor.POST("", c.lesson.CreateLesson)
			instructor.PUT("/:id", c.lesson.UpdateLesson)
			instructor.DELETE("/:id", c.lesson.DeleteLesson)
			instructor.POST("/:id/video", c.lesson.UploadVideo)
		}
	}
}

func (a *App) registerEnrollmentRoutes(api *gin.RouterGroup, c *controllers) {
	enrollments := api.Group("/enrollments")
	enrollments.Use(middleware.AuthMiddleware(a.services.auth))
	{
		enrollments.POST("", c.enrollment.Enroll)
		enrollments.GET("/my", c.enrollment.MyEnrollments)
		enrollments.POST("/progress", c.enrollment.RecordProgress)
		enrollments.POST("/review", c.review.SubmitReview)
	}
}
