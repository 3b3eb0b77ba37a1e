package app

import (
	"github.com/rskala/campusbridge-backend/internal/http/middleware"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	return Middleware{
		Auth: middleware.NewAuthMiddleware(cfg.JWTSecret, log),
	}
}
