package grading

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	gradedom "github.com/rskala/campusbridge-backend/internal/domain/grading"
	"github.com/rskala/campusbridge-backend/internal/domain/portal"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type GradeRepo interface {
	ListForStudent(dbc dbctx.Context, studentID uuid.UUID, subjectID *uuid.UUID, page, limit int) ([]portal.GradeSummary, int64, error)
	LatestForStudent(dbc dbctx.Context, studentID uuid.UUID, limit int) ([]portal.GradeSummary, error)
}

type gradeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGradeRepo(db *gorm.DB, baseLog *logger.Logger) GradeRepo {
	return &gradeRepo{db: db, log: baseLog.With("repo", "GradeRepo")}
}

func (r *gradeRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *gradeRepo) baseQuery(dbc dbctx.Context, studentID uuid.UUID) *gorm.DB {
	return r.handle(dbc).
		Model(&gradedom.Grade{}).
		Select(`grade.id AS grade_id,
			grade.assignment_id,
			assignment.title AS assignment_title,
			grade.score,
			grade.max_score,
			grade.graded_at,
			subject.name AS subject_name,
			class_section.name AS class_section_name`).
		Joins("JOIN assignment ON assignment.id = grade.assignment_id").
		Joins("JOIN subject ON subject.id = assignment.subject_id").
		Joins("JOIN class_section ON class_section.id = assignment.class_section_id").
		Where("grade.student_id = ?", studentID)
}

func (r *gradeRepo) ListForStudent(dbc dbctx.Context, studentID uuid.UUID, subjectID *uuid.UUID, page, limit int) ([]portal.GradeSummary, int64, error) {
	params := pagination.Normalize(page, limit)

	scoped := func() *gorm.DB {
		q := r.handle(dbc).
			Model(&gradedom.Grade{}).
			Joins("JOIN assignment ON assignment.id = grade.assignment_id").
			Where("grade.student_id = ?", studentID)
		if subjectID != nil {
			q = q.Where("assignment.subject_id = ?", *subjectID)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.baseQuery(dbc, studentID)
	if subjectID != nil {
		q = q.Where("assignment.subject_id = ?", *subjectID)
	}

	var out []portal.GradeSummary
	err := q.Order("grade.graded_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *gradeRepo) LatestForStudent(dbc dbctx.Context, studentID uuid.UUID, limit int) ([]portal.GradeSummary, error) {
	var out []portal.GradeSummary
	q := r.baseQuery(dbc, studentID).Order("grade.graded_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
