package app

import (
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/rskala/campusbridge-backend/internal/db"
	"github.com/rskala/campusbridge-backend/internal/platform/envutil"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	LogMode     string
	JWTSecret   string
	BcryptCost  int
	CORSOrigins []string
	Postgres    db.Config
}

func LoadConfig(log *logger.Logger) Config {
	// Optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Debug(".env loaded")
	}

	return Config{
		Port:       envutil.String("PORT", "8080"),
		LogMode:    envutil.String("LOG_MODE", "development"),
		JWTSecret:  envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		BcryptCost: envutil.Int("BCRYPT_COST", bcrypt.DefaultCost),
		CORSOrigins: envutil.List("CORS_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
		Postgres: db.Config{
			Host:     envutil.String("POSTGRES_HOST", "localhost"),
			Port:     envutil.String("POSTGRES_PORT", "5432"),
			User:     envutil.String("POSTGRES_USER", "postgres"),
			Password: envutil.String("POSTGRES_PASSWORD", ""),
			Name:     envutil.String("POSTGRES_NAME", "campusbridge"),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		},
	}
}
