package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	guardianrepo "github.com/rskala/campusbridge-backend/internal/data/repos/guardian"
	identityrepo "github.com/rskala/campusbridge-backend/internal/data/repos/identity"
	studentrepo "github.com/rskala/campusbridge-backend/internal/data/repos/student"
	"github.com/rskala/campusbridge-backend/internal/data/tx"
	types "github.com/rskala/campusbridge-backend/internal/domain"
	guardiandom "github.com/rskala/campusbridge-backend/internal/domain/guardian"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
	"github.com/rskala/campusbridge-backend/internal/pkg/ctxutil"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

// UpdateGuardianInput patches the guardian profile and, optionally, fields of
// the underlying account. Nil means leave unchanged.
type UpdateGuardianInput struct {
	Phone          *string
	SecondaryEmail *string
	Address        *string
	Notes          *string
	Metadata       map[string]any

	DisplayName *string
	Password    *string
	Status      *string
}

type LinkStudentInput struct {
	Relationship string
	IsPrimary    bool
	Status       string
}

type UpdateLinkInput struct {
	Relationship *string
	IsPrimary    *bool
	Status       *string
	Metadata     map[string]any
}

type GuardiansService struct {
	runner       tx.Runner
	provisioning *ProvisioningService
	users        identityrepo.UserRepo
	guardians    guardianrepo.GuardianRepo
	links        guardianrepo.LinkRepo
	students     studentrepo.StudentRepo
	bcryptCost   int
	log          *logger.Logger
}

func NewGuardiansService(
	runner tx.Runner,
	provisioning *ProvisioningService,
	users identityrepo.UserRepo,
	guardians guardianrepo.GuardianRepo,
	links guardianrepo.LinkRepo,
	students studentrepo.StudentRepo,
	bcryptCost int,
	baseLog *logger.Logger,
) *GuardiansService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &GuardiansService{
		runner:       runner,
		provisioning: provisioning,
		users:        users,
		guardians:    guardians,
		links:        links,
		students:     students,
		bcryptCost:   bcryptCost,
		log:          baseLog.With("service", "GuardiansService"),
	}
}

// Create provisions a new guardian account end to end.
func (s *GuardiansService) Create(ctx context.Context, in IdentityInput, profile GuardianProfileInput, links []StudentLinkInput) (*types.Guardian, error) {
	return s.provisioning.ProvisionGuardian(ctx, in, profile, links)
}

func (s *GuardiansService) FindByID(ctx context.Context, id uuid.UUID, withLinks bool) (*types.Guardian, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	g, err := s.guardians.GetByID(dbc, id, guardianrepo.QueryOptions{WithLinks: withLinks})
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("guardian")
	}
	return g, nil
}

func (s *GuardiansService) FindByUserID(ctx context.Context, userID uuid.UUID, withLinks bool) (*types.Guardian, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	g, err := s.guardians.GetByUserID(dbc, userID, guardianrepo.QueryOptions{WithLinks: withLinks})
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("guardian")
	}
	return g, nil
}

func (s *GuardiansService) Search(ctx context.Context, filters guardianrepo.SearchGuardiansFilters) (pagination.Paged[*types.Guardian], error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	p := pagination.Normalize(filters.Page, filters.Limit)
	items, total, err := s.guardians.Search(dbc, filters)
	if err != nil {
		return pagination.Paged[*types.Guardian]{}, err
	}
	return pagination.BuildPaged(items, total, p.Page, p.Limit), nil
}

// Update patches the profile and, when identity fields are present, the
// account, in one transaction. A new password is re-hashed here; the plain
// text never reaches the repo layer.
func (s *GuardiansService) Update(ctx context.Context, id uuid.UUID, in UpdateGuardianInput) (*types.Guardian, error) {
	ctx = ctxutil.Default(ctx)

	var updated *types.Guardian
	err := s.runner.WithTransaction(ctx, func(dbc dbctx.Context) error {
		g, err := s.guardians.GetByID(dbc, id, guardianrepo.QueryOptions{})
		if err != nil {
			return err
		}
		if g == nil {
			return apperr.NotFound("guardian")
		}

		userPatch := identityrepo.UserPatch{DisplayName: in.DisplayName}
		if in.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.bcryptCost)
			if err != nil {
				return err
			}
			h := string(hash)
			userPatch.PasswordHash = &h
		}
		if in.Status != nil {
			status, err := identity.NormalizeStatus(*in.Status)
			if err != nil {
				return apperr.InvalidState(err.Error())
			}
			userPatch.Status = &status
		}
		if userPatch.DisplayName != nil || userPatch.PasswordHash != nil || userPatch.Status != nil {
			if _, err := s.users.Update(dbc, g.UserID, userPatch); err != nil {
				return err
			}
		}

		updated, err = s.guardians.Update(dbc, id, guardianrepo.GuardianPatch{
			Phone:          in.Phone,
			SecondaryEmail: in.SecondaryEmail,
			Address:        in.Address,
			Notes:          in.Notes,
			Metadata:       in.Metadata,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// LinkStudent creates or refreshes the link between the guardian and the
// student. A repeated request for the same pair updates the row in place
// rather than failing.
func (s *GuardiansService) LinkStudent(ctx context.Context, guardianID, studentID uuid.UUID, in LinkStudentInput) (*types.GuardianStudentLink, error) {
	ctx = ctxutil.Default(ctx)

	attrs, err := linkAttrs(in.Relationship, in.IsPrimary, in.Status)
	if err != nil {
		return nil, err
	}

	var link *types.GuardianStudentLink
	err = s.runner.WithTransaction(ctx, func(dbc dbctx.Context) error {
		g, err := s.guardians.GetByID(dbc, guardianID, guardianrepo.QueryOptions{})
		if err != nil {
			return err
		}
		if g == nil {
			return apperr.NotFound("guardian")
		}
		st, err := s.students.GetByID(dbc, studentID)
		if err != nil {
			return err
		}
		if st == nil {
			return apperr.NotFound("student")
		}
		link, err = s.links.Upsert(dbc, guardianID, studentID, attrs)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("student linked", "guardian_id", guardianID, "student_id", studentID, "status", link.Status)
	return link, nil
}

func (s *GuardiansService) UpdateLink(ctx context.Context, guardianID, studentID uuid.UUID, in UpdateLinkInput) (*types.GuardianStudentLink, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}

	patch := guardianrepo.LinkPatch{
		Relationship: in.Relationship,
		IsPrimary:    in.IsPrimary,
		Metadata:     in.Metadata,
	}
	if in.Status != nil {
		st, err := guardiandom.NormalizeLinkStatus(*in.Status)
		if err != nil {
			return nil, apperr.InvalidState(err.Error())
		}
		patch.Status = &st
	}
	return s.links.UpdateByPair(dbc, guardianID, studentID, patch)
}

// UnlinkStudent revokes the link. Revoking an already revoked link succeeds
// without moving the revocation timestamp; a pair that was never linked is
// not found.
func (s *GuardiansService) UnlinkStudent(ctx context.Context, guardianID, studentID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}

	link, err := s.links.GetByPair(dbc, guardianID, studentID)
	if err != nil {
		return err
	}
	if link == nil {
		return apperr.NotFound("guardian-student link")
	}
	if err := s.links.RevokeByPair(dbc, guardianID, studentID); err != nil {
		return err
	}
	s.log.Info("student unlinked", "guardian_id", guardianID, "student_id", studentID)
	return nil
}

func (s *GuardiansService) ListLinks(ctx context.Context, guardianID uuid.UUID, onlyActive bool) ([]*types.GuardianStudentLink, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	return s.links.ListForGuardian(dbc, guardianID, guardianrepo.ListLinksOptions{OnlyActive: onlyActive})
}

// ListGuardiansForStudent is the reverse lookup used by staff views.
func (s *GuardiansService) ListGuardiansForStudent(ctx context.Context, studentID uuid.UUID, page, limit int) (pagination.Paged[*types.Guardian], error) {
	return s.Search(ctx, guardianrepo.SearchGuardiansFilters{
		StudentID: studentID,
		Page:      page,
		Limit:     limit,
	})
}
