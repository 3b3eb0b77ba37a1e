package app

import (
	"gorm.io/gorm"

	"github.com/rskala/campusbridge-backend/internal/data/tx"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
	"github.com/rskala/campusbridge-backend/internal/services"
)

type Services struct {
	Access       *services.AccessGuard
	Provisioning *services.ProvisioningService
	Guardians    *services.GuardiansService
	Students     *services.StudentsService
	Users        *services.UsersService
	Portal       *services.PortalService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) Services {
	log.Info("Wiring services...")
	runner := tx.NewRunner(db)

	access := services.NewAccessGuard(repos.Guardian, repos.Link, log)
	provisioning := services.NewProvisioningService(
		runner, repos.User, repos.Guardian, repos.Link, repos.Student, cfg.BcryptCost, log)

	return Services{
		Access:       access,
		Provisioning: provisioning,
		Guardians: services.NewGuardiansService(
			runner, provisioning, repos.User, repos.Guardian, repos.Link, repos.Student, cfg.BcryptCost, log),
		Students: services.NewStudentsService(
			runner, provisioning, repos.User, repos.Student, repos.Link, log),
		Users: services.NewUsersService(repos.User, cfg.BcryptCost, log),
		Portal: services.NewPortalService(
			repos.Guardian, repos.Link, access,
			repos.Schedule, repos.Attendance, repos.Grade, repos.Invoice, log),
	}
}
