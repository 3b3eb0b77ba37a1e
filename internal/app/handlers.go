package app

import (
	"github.com/rskala/campusbridge-backend/internal/http/handlers"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Portal    *handlers.PortalHandler
	Guardians *handlers.GuardiansHandler
	Students  *handlers.StudentsHandler
	Users     *handlers.UsersHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    handlers.NewHealthHandler(),
		Portal:    handlers.NewPortalHandler(svcs.Portal, log),
		Guardians: handlers.NewGuardiansHandler(svcs.Guardians, log),
		Students:  handlers.NewStudentsHandler(svcs.Students, log),
		Users:     handlers.NewUsersHandler(svcs.Users, log),
	}
}
