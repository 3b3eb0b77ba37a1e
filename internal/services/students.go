package services

import (
	"context"

	"github.com/google/uuid"

	guardianrepo "github.com/rskala/campusbridge-backend/internal/data/repos/guardian"
	identityrepo "github.com/rskala/campusbridge-backend/internal/data/repos/identity"
	studentrepo "github.com/rskala/campusbridge-backend/internal/data/repos/student"
	"github.com/rskala/campusbridge-backend/internal/data/tx"
	types "github.com/rskala/campusbridge-backend/internal/domain"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
	"github.com/rskala/campusbridge-backend/internal/pkg/ctxutil"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type StudentsService struct {
	runner       tx.Runner
	provisioning *ProvisioningService
	users        identityrepo.UserRepo
	students     studentrepo.StudentRepo
	links        guardianrepo.LinkRepo
	log          *logger.Logger
}

func NewStudentsService(
	runner tx.Runner,
	provisioning *ProvisioningService,
	users identityrepo.UserRepo,
	students studentrepo.StudentRepo,
	links guardianrepo.LinkRepo,
	baseLog *logger.Logger,
) *StudentsService {
	return &StudentsService{
		runner:       runner,
		provisioning: provisioning,
		users:        users,
		students:     students,
		links:        links,
		log:          baseLog.With("service", "StudentsService"),
	}
}

// Create provisions a new student account end to end.
func (s *StudentsService) Create(ctx context.Context, in IdentityInput, profile StudentProfileInput, links []GuardianLinkInput) (*types.Student, error) {
	return s.provisioning.ProvisionStudent(ctx, in, profile, links)
}

// CreateProfile attaches a student profile to an existing account. The
// account must carry the STUDENT role and have no profile yet.
func (s *StudentsService) CreateProfile(ctx context.Context, userID uuid.UUID, profile StudentProfileInput) (*types.Student, error) {
	ctx = ctxutil.Default(ctx)

	var created *types.Student
	err := s.runner.WithTransaction(ctx, func(dbc dbctx.Context) error {
		user, err := s.users.GetByID(dbc, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound("user")
		}
		if user.Role != identity.RoleStudent {
			return apperr.InvalidState("role " + string(user.Role) + " cannot carry a STUDENT profile")
		}
		exists, err := s.students.UserIDExists(dbc, userID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("user_id")
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
		created = &types.Student{
			UserID:   userID,
			Code:     profile.Code,
			Metadata: profile.Metadata,
		}
		return s.students.Create(dbc, created)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("student profile created", "student_user_id", userID)
	return created, nil
}

func (s *StudentsService) GetByID(ctx context.Context, id uuid.UUID) (*types.Student, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	st, err := s.students.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperr.NotFound("student")
	}
	return st, nil
}

func (s *StudentsService) GetByUserID(ctx context.Context, userID uuid.UUID) (*types.Student, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	st, err := s.students.GetByUserID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperr.NotFound("student")
	}
	return st, nil
}

// ListGuardianLinks returns the student's links, newest first.
func (s *StudentsService) ListGuardianLinks(ctx context.Context, studentID uuid.UUID, onlyActive bool) ([]*types.GuardianStudentLink, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	return s.links.ListForStudent(dbc, studentID, guardianrepo.ListLinksOptions{OnlyActive: onlyActive})
}

func (s *StudentsService) UpdateProfile(ctx context.Context, id uuid.UUID, patch studentrepo.StudentPatch) (*types.Student, error) {
	ctx = ctxutil.Default(ctx)

	var updated *types.Student
	err := s.runner.WithTransaction(ctx, func(dbc dbctx.Context) error {
		st, err := s.students.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if st == nil {
			return apperr.NotFound("student")
		}
		if patch.Code != nil && (st.Code == nil || *patch.Code != *st.Code) {
			taken, err := s.students.CodeExists(dbc, *patch.Code)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("code")
			}
		}
		updated, err = s.students.Update(dbc, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProfile revokes every guardian link, then removes the profile. The
// account itself stays; only the student standing is withdrawn.
func (s *StudentsService) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.Default(ctx)

	err := s.runner.WithTransaction(ctx, func(dbc dbctx.Context) error {
		st, err := s.students.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if st == nil {
			return apperr.NotFound("student")
		}
		links, err := s.links.ListForStudent(dbc, id, guardianrepo.ListLinksOptions{})
		if err != nil {
			return err
		}
		for _, l := range links {
			if err := s.links.RevokeByPair(dbc, l.GuardianID, id); err != nil {
				return err
			}
		}
		return s.students.DeleteByUserID(dbc, st.UserID)
	})
	if err != nil {
		return err
	}
	s.log.Info("student profile deleted", "student_id", id)
	return nil
}
