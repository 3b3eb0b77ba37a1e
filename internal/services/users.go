package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	identityrepo "github.com/rskala/campusbridge-backend/internal/data/repos/identity"
	types "github.com/rskala/campusbridge-backend/internal/domain"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
	"github.com/rskala/campusbridge-backend/internal/pkg/ctxutil"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type UpdateUserInput struct {
	DisplayName *string
	Password    *string
	Status      *string
	Phone       *string
	Metadata    map[string]any
}

// UsersService is the thin identity directory surface for staff tooling.
// Accounts with role profiles are normally managed through the guardian and
// student services; this one covers the rest.
type UsersService struct {
	users      identityrepo.UserRepo
	bcryptCost int
	log        *logger.Logger
}

func NewUsersService(users identityrepo.UserRepo, bcryptCost int, baseLog *logger.Logger) *UsersService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UsersService{
		users:      users,
		bcryptCost: bcryptCost,
		log:        baseLog.With("service", "UsersService"),
	}
}

func (s *UsersService) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	user, err := s.users.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}
	return user, nil
}

func (s *UsersService) Search(ctx context.Context, filters identityrepo.SearchUsersFilters) (pagination.Paged[*types.User], error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	p := pagination.Normalize(filters.Page, filters.Limit)
	items, total, err := s.users.Search(dbc, filters)
	if err != nil {
		return pagination.Paged[*types.User]{}, err
	}
	return pagination.BuildPaged(items, total, p.Page, p.Limit), nil
}

func (s *UsersService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}

	existing, err := s.users.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("user")
	}

	patch := identityrepo.UserPatch{
		DisplayName: in.DisplayName,
		Phone:       in.Phone,
		Metadata:    in.Metadata,
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		patch.PasswordHash = &h
	}
	if in.Status != nil {
		status, err := identity.NormalizeStatus(*in.Status)
		if err != nil {
			return nil, apperr.InvalidState(err.Error())
		}
		patch.Status = &status
	}
	return s.users.Update(dbc, id, patch)
}
