package db

import (
	"fmt"

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

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c Config) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg Config, log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	serviceLog.Info("Connecting to Postgres...", "host", cfg.Host, "database", cfg.Name)
	gdb, err := gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
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
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
