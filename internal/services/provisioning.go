package services

import (
	"context"
	"time"

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
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

// IdentityInput is the account half of a provisioning request.
type IdentityInput struct {
	Email       string
	Handle      string
	DisplayName string
	Password    string
	Role        string
	Status      string
	Phone       string
	BirthDate   *time.Time
	Metadata    map[string]any
}

type GuardianProfileInput struct {
	Phone          string
	SecondaryEmail string
	Address        string
	Notes          string
	Metadata       map[string]any
}

type StudentProfileInput struct {
	Code     *string
	Metadata map[string]any
}

// StudentLinkInput names a student to link a new guardian to.
type StudentLinkInput struct {
	StudentID    uuid.UUID
	Relationship string
	IsPrimary    bool
	Status       string
}

// GuardianLinkInput names a guardian to link a new student to.
type GuardianLinkInput struct {
	GuardianID   uuid.UUID
	Relationship string
	IsPrimary    bool
	Status       string
}

// ProvisioningService creates an account plus its role profile plus its
// initial links as one unit. Everything runs inside a single database
// transaction: if any step fails, nothing is kept, so no compensation or
// cleanup path exists.
type ProvisioningService struct {
	runner     tx.Runner
	users      identityrepo.UserRepo
	guardians  guardianrepo.GuardianRepo
	links      guardianrepo.LinkRepo
	students   studentrepo.StudentRepo
	bcryptCost int
	log        *logger.Logger
}

func NewProvisioningService(
	runner tx.Runner,
	users identityrepo.UserRepo,
	guardians guardianrepo.GuardianRepo,
	links guardianrepo.LinkRepo,
	students studentrepo.StudentRepo,
	bcryptCost int,
	baseLog *logger.Logger,
) *ProvisioningService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &ProvisioningService{
		runner:     runner,
		users:      users,
		guardians:  guardians,
		links:      links,
		students:   students,
		bcryptCost: bcryptCost,
		log:        baseLog.With("service", "ProvisioningService"),
	}
}

// ProvisionGuardian creates a PARENT account, its guardian profile and the
// initial student links atomically.
func (s *ProvisioningService) ProvisionGuardian(ctx context.Context, in IdentityInput, profile GuardianProfileInput, links []StudentLinkInput) (*types.Guardian, error) {
	ctx = ctxutil.Default(ctx)

	user, err := s.buildUser(in, identity.RoleParent)
	if err != nil {
		return nil, err
	}

	var created *types.Guardian
	err = s.runner.WithTransaction(ctx, func(dbc dbctx.Context) error {
		if err := s.checkIdentityFree(dbc, in); err != nil {
			return err
		}
		if _, err := s.users.Create(dbc, user); err != nil {
			return err
		}

		g := &types.Guardian{
			UserID:         user.ID,
			Phone:          profile.Phone,
			SecondaryEmail: profile.SecondaryEmail,
			Address:        profile.Address,
			Notes:          profile.Notes,
			Metadata:       profile.Metadata,
		}
		if _, err := s.guardians.Create(dbc, g); err != nil {
			return err
		}

		for _, l := range links {
			attrs, err := linkAttrs(l.Relationship, l.IsPrimary, l.Status)
			if err != nil {
				return err
			}
			student, err := s.students.GetByID(dbc, l.StudentID)
			if err != nil {
				return err
			}
			if student == nil {
				return apperr.NotFound("student")
			}
			if _, err := s.links.Upsert(dbc, g.ID, l.StudentID, attrs); err != nil {
				return err
			}
		}

		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("guardian provisioned", "guardian_user_id", user.ID, "links", len(links))
	created.User = user
	return created, nil
}

// ProvisionStudent creates a STUDENT account, its student profile and the
// initial guardian links atomically.
func (s *ProvisioningService) ProvisionStudent(ctx context.Context, in IdentityInput, profile StudentProfileInput, links []GuardianLinkInput) (*types.Student, error) {
	ctx = ctxutil.Default(ctx)

	user, err := s.buildUser(in, identity.RoleStudent)
	if err != nil {
		return nil, err
	}

	var created *types.Student
	err = s.runner.WithTransaction(ctx, func(dbc dbctx.Context) error {
		if err := s.checkIdentityFree(dbc, in); err != nil {
			return err
		}
		if profile.Code != nil {
			taken, err := s.students.CodeExists(dbc, *profile.Code)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("code")
			}
		}
		if _, err := s.users.Create(dbc, user); err != nil {
			return err
		}

		st := &types.Student{
			UserID:   user.ID,
			Code:     profile.Code,
			Metadata: profile.Metadata,
		}
		if err := s.students.Create(dbc, st); err != nil {
			return err
		}

		for _, l := range links {
			attrs, err := linkAttrs(l.Relationship, l.IsPrimary, l.Status)
			if err != nil {
				return err
			}
			g, err := s.guardians.GetByID(dbc, l.GuardianID, guardianrepo.QueryOptions{})
			if err != nil {
				return err
			}
			if g == nil {
				return apperr.NotFound("guardian")
			}
			if _, err := s.links.Upsert(dbc, l.GuardianID, st.ID, attrs); err != nil {
				return err
			}
		}

		created = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("student provisioned", "student_user_id", user.ID, "links", len(links))
	created.User = user
	return created, nil
}

// buildUser validates the identity input against the expected role and
// hashes the password. Pure apart from bcrypt; runs before the transaction
// opens so invalid input never costs a connection.
func (s *ProvisioningService) buildUser(in IdentityInput, want identity.Role) (*types.User, error) {
	role, err := identity.NormalizeRole(in.Role)
	if err != nil {
		return nil, apperr.InvalidState(err.Error())
	}
	if role != want {
		return nil, apperr.InvalidState("role " + string(role) + " cannot carry a " + string(want) + " profile")
	}
	status, err := identity.NormalizeStatus(in.Status)
	if err != nil {
		return nil, apperr.InvalidState(err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	return &types.User{
		ID:           uuid.New(),
		Email:        in.Email,
		Handle:       in.Handle,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
		Phone:        in.Phone,
		BirthDate:    in.BirthDate,
		Metadata:     in.Metadata,
	}, nil
}

func (s *ProvisioningService) checkIdentityFree(dbc dbctx.Context, in IdentityInput) error {
	taken, err := s.users.EmailExists(dbc, in.Email)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("email")
	}
	taken, err = s.users.HandleExists(dbc, in.Handle)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("handle")
	}
	return nil
}

// linkAttrs maps caller input onto the repo shape. An empty relationship is
// treated as omitted so a re-link does not wipe the stored value.
func linkAttrs(relationship string, isPrimary bool, status string) (guardianrepo.LinkAttrs, error) {
	st, err := guardiandom.NormalizeLinkStatus(status)
	if err != nil {
		return guardianrepo.LinkAttrs{}, apperr.InvalidState(err.Error())
	}
	attrs := guardianrepo.LinkAttrs{
		IsPrimary: &isPrimary,
		Status:    st,
	}
	if relationship != "" {
		attrs.Relationship = &relationship
	}
	return attrs, nil
}
