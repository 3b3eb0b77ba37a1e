package app

import (
	"gorm.io/gorm"

	attendancerepo "github.com/rskala/campusbridge-backend/internal/data/repos/attendance"
	billingrepo "github.com/rskala/campusbridge-backend/internal/data/repos/billing"
	gradingrepo "github.com/rskala/campusbridge-backend/internal/data/repos/grading"
	guardianrepo "github.com/rskala/campusbridge-backend/internal/data/repos/guardian"
	identityrepo "github.com/rskala/campusbridge-backend/internal/data/repos/identity"
	schoolrepo "github.com/rskala/campusbridge-backend/internal/data/repos/school"
	studentrepo "github.com/rskala/campusbridge-backend/internal/data/repos/student"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type Repos struct {
	User       identityrepo.UserRepo
	Guardian   guardianrepo.GuardianRepo
	Link       guardianrepo.LinkRepo
	Student    studentrepo.StudentRepo
	Schedule   schoolrepo.ScheduleRepo
	Attendance attendancerepo.AttendanceRepo
	Grade      gradingrepo.GradeRepo
	Invoice    billingrepo.InvoiceRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       identityrepo.NewUserRepo(db, log),
		Guardian:   guardianrepo.NewGuardianRepo(db, log),
		Link:       guardianrepo.NewLinkRepo(db, log),
		Student:    studentrepo.NewStudentRepo(db, log),
		Schedule:   schoolrepo.NewScheduleRepo(db, log),
		Attendance: attendancerepo.NewAttendanceRepo(db, log),
		Grade:      gradingrepo.NewGradeRepo(db, log),
		Invoice:    billingrepo.NewInvoiceRepo(db, log),
	}
}
