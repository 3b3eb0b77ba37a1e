package student

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rskala/campusbridge-backend/internal/domain"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type StudentPatch struct {
	Code     *string
	Metadata map[string]any
}

type StudentRepo interface {
	Create(dbc dbctx.Context, s *types.Student) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Student, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Student, error)
	CodeExists(dbc dbctx.Context, code string) (bool, error)
	UserIDExists(dbc dbctx.Context, userID uuid.UUID) (bool, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch StudentPatch) (*types.Student, error)
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{db: db, log: baseLog.With("repo", "StudentRepo")}
}

func (r *studentRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *studentRepo) Create(dbc dbctx.Context, s *types.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.handle(dbc).Create(s).Error
}

func (r *studentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Student, error) {
	var s types.Student
	err := r.handle(dbc).Preload("User").Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Student, error) {
	var s types.Student
	err := r.handle(dbc).Preload("User").Where("user_id = ?", userID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) CodeExists(dbc dbctx.Context, code string) (bool, error) {
	var count int64
	err := r.handle(dbc).
		Model(&types.Student{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *studentRepo) UserIDExists(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.handle(dbc).
		Model(&types.Student{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *studentRepo) Update(dbc dbctx.Context, id uuid.UUID, patch StudentPatch) (*types.Student, error) {
	updates := map[string]any{}
	if patch.Code != nil {
		updates["code"] = *patch.Code
	}
	if patch.Metadata != nil {
		updates["metadata"] = patch.Metadata
	}
	if len(updates) > 0 {
		err := r.handle(dbc).
			Model(&types.Student{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return r.GetByID(dbc, id)
}

func (r *studentRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	return r.handle(dbc).
		Where("user_id = ?", userID).
		Delete(&types.Student{}).Error
}
