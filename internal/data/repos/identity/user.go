package identity

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rskala/campusbridge-backend/internal/domain"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type SearchUsersFilters struct {
	Query  string
	Role   identity.Role
	Status identity.Status
	Page   int
	Limit  int
}

type UserPatch struct {
	DisplayName  *string
	PasswordHash *string
	Status       *identity.Status
	Phone        *string
	Metadata     map[string]any
}

type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) (*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	GetByHandle(dbc dbctx.Context, handle string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	HandleExists(dbc dbctx.Context, handle string) (bool, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch UserPatch) (*types.User, error)
	Search(dbc dbctx.Context, filters SearchUsersFilters) ([]*types.User, int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *userRepo) Create(dbc dbctx.Context, user *types.User) (*types.User, error) {
	if err := r.handle(dbc).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	var user types.User
	err := r.handle(dbc).Where("id = ?", id).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	var user types.User
	err := r.handle(dbc).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByHandle(dbc dbctx.Context, handle string) (*types.User, error) {
	var user types.User
	err := r.handle(dbc).Where("handle = ?", handle).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := r.handle(dbc).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) HandleExists(dbc dbctx.Context, handle string) (bool, error) {
	var count int64
	if err := r.handle(dbc).
		Model(&types.User{}).
		Where("handle = ?", handle).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) Update(dbc dbctx.Context, id uuid.UUID, patch UserPatch) (*types.User, error) {
	updates := map[string]any{}
	if patch.DisplayName != nil {
		updates["display_name"] = *patch.DisplayName
	}
	if patch.PasswordHash != nil {
		updates["password_hash"] = *patch.PasswordHash
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Metadata != nil {
		updates["metadata"] = patch.Metadata
	}
	if len(updates) > 0 {
		if err := r.handle(dbc).
			Model(&types.User{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(dbc, id)
}

func (r *userRepo) Search(dbc dbctx.Context, filters SearchUsersFilters) ([]*types.User, int64, error) {
	scoped := func() *gorm.DB {
		q := r.handle(dbc).Model(&types.User{})
		if filters.Query != "" {
			needle := "%" + filters.Query + "%"
			q = q.Where("email ILIKE ? OR handle ILIKE ? OR display_name ILIKE ?", needle, needle, needle)
		}
		if filters.Role != "" {
			q = q.Where("role = ?", filters.Role)
		}
		if filters.Status != "" {
			q = q.Where("status = ?", filters.Status)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := pagination.Normalize(filters.Page, filters.Limit)
	var users []*types.User
	if err := scoped().
		Order("created_at DESC").
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.handle(dbc).Where("id = ?", id).Delete(&types.User{}).Error
}
