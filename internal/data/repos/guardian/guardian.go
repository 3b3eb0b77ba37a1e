package guardian

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rskala/campusbridge-backend/internal/domain"
	guardiandom "github.com/rskala/campusbridge-backend/internal/domain/guardian"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type QueryOptions struct {
	// WithLinks preloads the guardian's non-revoked links (newest first)
	// together with each student and its account.
	WithLinks bool
}

type GuardianPatch struct {
	Phone          *string
	SecondaryEmail *string
	Address        *string
	Notes          *string
	Metadata       map[string]any
}

type SearchGuardiansFilters struct {
	Query     string
	StudentID uuid.UUID
	Status    identity.Status
	Page      int
	Limit     int
}

type GuardianRepo interface {
	Create(dbc dbctx.Context, g *types.Guardian) (*types.Guardian, error)
	GetByID(dbc dbctx.Context, id uuid.UUID, opts QueryOptions) (*types.Guardian, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID, opts QueryOptions) (*types.Guardian, error)
	UserIDExists(dbc dbctx.Context, userID uuid.UUID) (bool, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch GuardianPatch) (*types.Guardian, error)
	Search(dbc dbctx.Context, filters SearchGuardiansFilters) ([]*types.Guardian, int64, error)
}

type guardianRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGuardianRepo(db *gorm.DB, baseLog *logger.Logger) GuardianRepo {
	return &guardianRepo{db: db, log: baseLog.With("repo", "GuardianRepo")}
}

func (r *guardianRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func withLinkPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Where("status <> ?", guardiandom.LinkRevoked).Order("linked_at DESC")
		}).
		Preload("Links.Student").
		Preload("Links.Student.User")
}

func (r *guardianRepo) Create(dbc dbctx.Context, g *types.Guardian) (*types.Guardian, error) {
	if err := r.handle(dbc).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (r *guardianRepo) GetByID(dbc dbctx.Context, id uuid.UUID, opts QueryOptions) (*types.Guardian, error) {
	q := r.handle(dbc).Preload("User")
	if opts.WithLinks {
		q = withLinkPreloads(q)
	}
	var g types.Guardian
	err := q.Where("id = ?", id).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *guardianRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID, opts QueryOptions) (*types.Guardian, error) {
	q := r.handle(dbc).Preload("User")
	if opts.WithLinks {
		q = withLinkPreloads(q)
	}
	var g types.Guardian
	err := q.Where("user_id = ?", userID).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *guardianRepo) UserIDExists(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.handle(dbc).
		Model(&types.Guardian{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *guardianRepo) Update(dbc dbctx.Context, id uuid.UUID, patch GuardianPatch) (*types.Guardian, error) {
	updates := map[string]any{}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.SecondaryEmail != nil {
		updates["secondary_email"] = *patch.SecondaryEmail
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.Metadata != nil {
		updates["metadata"] = patch.Metadata
	}
	if len(updates) > 0 {
		if err := r.handle(dbc).
			Model(&types.Guardian{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(dbc, id, QueryOptions{WithLinks: true})
}

func (r *guardianRepo) Search(dbc dbctx.Context, filters SearchGuardiansFilters) ([]*types.Guardian, int64, error) {
	scoped := func() *gorm.DB {
		q := r.handle(dbc).
			Model(&types.Guardian{}).
			Joins("JOIN app_user ON app_user.id = guardian.user_id")
		if filters.Query != "" {
			needle := "%" + filters.Query + "%"
			q = q.Where("app_user.email ILIKE ? OR app_user.display_name ILIKE ? OR guardian.phone ILIKE ?", needle, needle, needle)
		}
		if filters.StudentID != uuid.Nil {
			q = q.Where(
				"EXISTS (SELECT 1 FROM guardian_student_link l WHERE l.guardian_id = guardian.id AND l.student_id = ? AND l.status <> 'revoked')",
				filters.StudentID,
			)
		}
		if filters.Status != "" {
			q = q.Where("app_user.status = ?", filters.Status)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := pagination.Normalize(filters.Page, filters.Limit)
	var guardians []*types.Guardian
	if err := scoped().
		Preload("User").
		Order("guardian.created_at DESC").
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&guardians).Error; err != nil {
		return nil, 0, err
	}
	return guardians, total, nil
}
