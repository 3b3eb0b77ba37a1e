package app

import (
	"github.com/gin-gonic/gin"

	"github.com/rskala/campusbridge-backend/internal/platform/logger"
	"github.com/rskala/campusbridge-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, hs Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:              log,
		CORSOrigins:      cfg.CORSOrigins,
		AuthMiddleware:   mw.Auth,
		HealthHandler:    hs.Health,
		PortalHandler:    hs.Portal,
		GuardiansHandler: hs.Guardians,
		StudentsHandler:  hs.Students,
		UsersHandler:     hs.Users,
	})
}
