package guardian

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rskala/campusbridge-backend/internal/domain"
	guardiandom "github.com/rskala/campusbridge-backend/internal/domain/guardian"
	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

// LinkAttrs is the caller-supplied shape of a link on upsert. Status defaults
// to active when empty; nil fields leave an existing link's value in place.
type LinkAttrs struct {
	Relationship *string
	IsPrimary    *bool
	Status       guardiandom.LinkStatus
	Metadata     map[string]any
}

// LinkPatch updates an existing link; nil fields are left untouched.
type LinkPatch struct {
	Relationship *string
	IsPrimary    *bool
	Status       *guardiandom.LinkStatus
	Metadata     map[string]any
}

type ListLinksOptions struct {
	// OnlyActive restricts to status active, excluding invited, inactive
	// and revoked links.
	OnlyActive bool
}

type LinkRepo interface {
	Upsert(dbc dbctx.Context, guardianID, studentID uuid.UUID, attrs LinkAttrs) (*types.GuardianStudentLink, error)
	UpdateByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID, patch LinkPatch) (*types.GuardianStudentLink, error)
	RevokeByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID) error
	GetByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID) (*types.GuardianStudentLink, error)
	ListForGuardian(dbc dbctx.Context, guardianID uuid.UUID, opts ListLinksOptions) ([]*types.GuardianStudentLink, error)
	ListForStudent(dbc dbctx.Context, studentID uuid.UUID, opts ListLinksOptions) ([]*types.GuardianStudentLink, error)
	// PurgeByPair hard-deletes the row. Administrative only; the normal
	// lifecycle ends at revoked.
	PurgeByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID) error
}

type linkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return &linkRepo{db: db, log: baseLog.With("repo", "LinkRepo")}
}

func (r *linkRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *linkRepo) Upsert(dbc dbctx.Context, guardianID, studentID uuid.UUID, attrs LinkAttrs) (*types.GuardianStudentLink, error) {
	status := attrs.Status
	if status == "" {
		status = guardiandom.LinkActive
	}
	now := time.Now().UTC()

	existing, err := r.GetByPair(dbc, guardianID, studentID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		link := &types.GuardianStudentLink{
			ID:         uuid.New(),
			GuardianID: guardianID,
			StudentID:  studentID,
			Status:     status,
			LinkedAt:   now,
			Metadata:   attrs.Metadata,
		}
		if attrs.Relationship != nil {
			link.Relationship = *attrs.Relationship
		}
		if attrs.IsPrimary != nil {
			link.IsPrimary = *attrs.IsPrimary
		}
		if status == guardiandom.LinkInvited {
			link.InvitedAt = &now
		}
		if status == guardiandom.LinkRevoked {
			link.RevokedAt = &now
		}
		if err := r.handle(dbc).Create(link).Error; err != nil {
			return nil, err
		}
		return link, nil
	}

	if attrs.Relationship != nil {
		existing.Relationship = *attrs.Relationship
	}
	if attrs.IsPrimary != nil {
		existing.IsPrimary = *attrs.IsPrimary
	}
	if attrs.Metadata != nil {
		existing.Metadata = attrs.Metadata
	}
	r.applyStatus(existing, status, now)
	if err := r.handle(dbc).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *linkRepo) UpdateByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID, patch LinkPatch) (*types.GuardianStudentLink, error) {
	existing, err := r.GetByPair(dbc, guardianID, studentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("guardian-student link")
	}

	if patch.Relationship != nil {
		existing.Relationship = *patch.Relationship
	}
	if patch.IsPrimary != nil {
		existing.IsPrimary = *patch.IsPrimary
	}
	if patch.Metadata != nil {
		existing.Metadata = patch.Metadata
	}
	if patch.Status != nil {
		r.applyStatus(existing, *patch.Status, time.Now().UTC())
	}
	if err := r.handle(dbc).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// applyStatus moves the link to the target status and keeps the revoked_at
// stamp consistent: set exactly when revoked, cleared by any other
// transition. A link already revoked keeps its original stamp.
func (r *linkRepo) applyStatus(link *types.GuardianStudentLink, status guardiandom.LinkStatus, now time.Time) {
	if status == guardiandom.LinkRevoked {
		if link.Status != guardiandom.LinkRevoked || link.RevokedAt == nil {
			link.RevokedAt = &now
		}
	} else {
		link.RevokedAt = nil
	}
	if status == guardiandom.LinkInvited && link.InvitedAt == nil {
		link.InvitedAt = &now
	}
	link.Status = status
}

func (r *linkRepo) RevokeByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID) error {
	// Single-row conditional update; already-revoked rows are left alone so
	// revoked_at stays stable across repeated calls.
	return r.handle(dbc).
		Model(&types.GuardianStudentLink{}).
		Where("guardian_id = ? AND student_id = ? AND status <> ?", guardianID, studentID, guardiandom.LinkRevoked).
		Updates(map[string]any{
			"status":     guardiandom.LinkRevoked,
			"revoked_at": time.Now().UTC(),
		}).Error
}

func (r *linkRepo) GetByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID) (*types.GuardianStudentLink, error) {
	var link types.GuardianStudentLink
	err := r.handle(dbc).
		Where("guardian_id = ? AND student_id = ?", guardianID, studentID).
		Take(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepo) ListForGuardian(dbc dbctx.Context, guardianID uuid.UUID, opts ListLinksOptions) ([]*types.GuardianStudentLink, error) {
	q := r.handle(dbc).
		Preload("Student").
		Preload("Student.User").
		Where("guardian_id = ?", guardianID)
	if opts.OnlyActive {
		q = q.Where("status = ?", guardiandom.LinkActive)
	}
	var links []*types.GuardianStudentLink
	if err := q.Order("linked_at DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *linkRepo) ListForStudent(dbc dbctx.Context, studentID uuid.UUID, opts ListLinksOptions) ([]*types.GuardianStudentLink, error) {
	q := r.handle(dbc).Where("student_id = ?", studentID)
	if opts.OnlyActive {
		q = q.Where("status = ?", guardiandom.LinkActive)
	}
	var links []*types.GuardianStudentLink
	if err := q.Order("linked_at DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *linkRepo) PurgeByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID) error {
	return r.handle(dbc).
		Where("guardian_id = ? AND student_id = ?", guardianID, studentID).
		Delete(&types.GuardianStudentLink{}).Error
}
