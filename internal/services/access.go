package services

import (
	"context"

	"github.com/google/uuid"

	guardianrepo "github.com/rskala/campusbridge-backend/internal/data/repos/guardian"
	types "github.com/rskala/campusbridge-backend/internal/domain"
	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
	"github.com/rskala/campusbridge-backend/internal/pkg/ctxutil"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

// AccessGuard decides whether a guardian may read a student's records. The
// rule is deliberately narrow: any link between the pair that has not been
// revoked grants access, nothing else does.
type AccessGuard struct {
	guardians guardianrepo.GuardianRepo
	links     guardianrepo.LinkRepo
	log       *logger.Logger
}

func NewAccessGuard(guardians guardianrepo.GuardianRepo, links guardianrepo.LinkRepo, baseLog *logger.Logger) *AccessGuard {
	return &AccessGuard{
		guardians: guardians,
		links:     links,
		log:       baseLog.With("service", "AccessGuard"),
	}
}

// ResolveGuardian maps an authenticated user to its guardian profile.
// Missing profile reads as access denied, not as a distinct error: the
// caller simply has no guardian standing.
func (a *AccessGuard) ResolveGuardian(ctx context.Context, guardianUserID uuid.UUID) (*types.Guardian, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	g, err := a.guardians.GetByUserID(dbc, guardianUserID, guardianrepo.QueryOptions{})
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.AccessDenied("guardian profile")
	}
	return g, nil
}

// Assert returns nil when the guardian holds a non-revoked link to the
// student, apperr.ErrAccessDenied otherwise. The HTTP layer renders denial
// the same as not-found so callers cannot probe for student existence.
func (a *AccessGuard) Assert(ctx context.Context, guardianID, studentID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	link, err := a.links.GetByPair(dbc, guardianID, studentID)
	if err != nil {
		return err
	}
	if link == nil || !link.Status.GrantsAccess() {
		a.log.Debug("student access denied", "guardian_id", guardianID, "student_id", studentID)
		return apperr.AccessDenied("student records")
	}
	return nil
}

// AssertForUser resolves the guardian profile for the user and asserts
// access in one step.
func (a *AccessGuard) AssertForUser(ctx context.Context, guardianUserID, studentID uuid.UUID) (*types.Guardian, error) {
	g, err := a.ResolveGuardian(ctx, guardianUserID)
	if err != nil {
		return nil, err
	}
	if err := a.Assert(ctx, g.ID, studentID); err != nil {
		return nil, err
	}
	return g, nil
}
