package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	attdom "github.com/rskala/campusbridge-backend/internal/domain/attendance"
	billdom "github.com/rskala/campusbridge-backend/internal/domain/billing"
	gradedom "github.com/rskala/campusbridge-backend/internal/domain/grading"
	guardiandom "github.com/rskala/campusbridge-backend/internal/domain/guardian"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	schooldom "github.com/rskala/campusbridge-backend/internal/domain/school"
	studentdom "github.com/rskala/campusbridge-backend/internal/domain/student"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

// DB opens the integration database named by TEST_POSTGRES_DSN and migrates
// the schema. Tests calling it are skipped when the variable is unset, so
// the suite stays runnable without a database.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping database test")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := migrateAll(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// Tx hands the test a transaction that is rolled back on cleanup, keeping
// the shared test database clean between cases.
func Tx(t *testing.T) *gorm.DB {
	t.Helper()
	tx := DB(t).Begin()
	if tx.Error != nil {
		t.Fatalf("begin test transaction: %v", tx.Error)
	}
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new test logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func migrateAll(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&identity.User{},
		&guardiandom.Guardian{},
		&studentdom.Student{},
		&guardiandom.GuardianStudentLink{},
		&schooldom.Subject{},
		&schooldom.Room{},
		&schooldom.ClassSection{},
		&schooldom.Enrollment{},
		&schooldom.Session{},
		&attdom.Record{},
		&gradedom.Assignment{},
		&gradedom.Grade{},
		&billdom.Invoice{},
		&billdom.InvoiceLine{},
		&billdom.Payment{},
	)
}
