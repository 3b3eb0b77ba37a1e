package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/http/handlers"
	"github.com/rskala/campusbridge-backend/internal/http/middleware"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	CORSOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	HealthHandler    *handlers.HealthHandler
	PortalHandler    *handlers.PortalHandler
	GuardiansHandler *handlers.GuardiansHandler
	StudentsHandler  *handlers.StudentsHandler
	UsersHandler     *handlers.UsersHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api/v1")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Guardian portal, self-scoped through the access guard.
	parent := api.Group("/parent")
	parent.Use(cfg.AuthMiddleware.RequireRole(string(identity.RoleParent)))
	{
		parent.GET("/dashboard", cfg.PortalHandler.GetDashboard)
		parent.GET("/students", cfg.PortalHandler.ListStudents)
		parent.GET("/students/:id/schedule", cfg.PortalHandler.GetStudentSchedule)
		parent.GET("/students/:id/attendance", cfg.PortalHandler.GetStudentAttendance)
		parent.GET("/students/:id/grades", cfg.PortalHandler.GetStudentGrades)
		parent.GET("/students/:id/invoices", cfg.PortalHandler.GetStudentInvoices)
	}

	// Staff administration.
	admin := api.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireRole(string(identity.RoleAdmin), string(identity.RoleHumanResources)))
	{
		admin.POST("/guardians", cfg.GuardiansHandler.Create)
		admin.GET("/guardians", cfg.GuardiansHandler.Search)
		admin.GET("/guardians/:id", cfg.GuardiansHandler.Get)
		admin.PATCH("/guardians/:id", cfg.GuardiansHandler.Update)
		admin.GET("/guardians/:id/links", cfg.GuardiansHandler.ListLinks)
		admin.POST("/guardians/:id/links/:studentId", cfg.GuardiansHandler.LinkStudent)
		admin.PATCH("/guardians/:id/links/:studentId", cfg.GuardiansHandler.UpdateLink)
		admin.DELETE("/guardians/:id/links/:studentId", cfg.GuardiansHandler.UnlinkStudent)

		admin.POST("/students", cfg.StudentsHandler.Create)
		admin.POST("/students/profiles", cfg.StudentsHandler.CreateProfile)
		admin.GET("/students/:id", cfg.StudentsHandler.Get)
		admin.PATCH("/students/:id", cfg.StudentsHandler.Update)
		admin.DELETE("/students/:id", cfg.StudentsHandler.Delete)
		admin.GET("/students/:id/links", cfg.StudentsHandler.ListLinks)
		admin.GET("/students/:id/guardians", cfg.GuardiansHandler.ListForStudent)

		admin.GET("/users", cfg.UsersHandler.Search)
		admin.GET("/users/:id", cfg.UsersHandler.Get)
		admin.PATCH("/users/:id", cfg.UsersHandler.Update)
	}

	return router
}
