package school

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rskala/campusbridge-backend/internal/domain/portal"
	schooldom "github.com/rskala/campusbridge-backend/internal/domain/school"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

// ScheduleRepo reads the scheduling subsystem's rows into portal views. This
// package never writes session or enrollment rows.
type ScheduleRepo interface {
	ListClassSections(dbc dbctx.Context, studentID uuid.UUID) ([]portal.ClassSectionSummary, error)
	ListUpcomingSessions(dbc dbctx.Context, studentID uuid.UUID, from time.Time, limit int) ([]portal.ScheduleItem, error)
	ListSessions(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time, limit int) ([]portal.ScheduleItem, error)
}

type scheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	return &scheduleRepo{db: db, log: baseLog.With("repo", "ScheduleRepo")}
}

func (r *scheduleRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *scheduleRepo) ListClassSections(dbc dbctx.Context, studentID uuid.UUID) ([]portal.ClassSectionSummary, error) {
	var out []portal.ClassSectionSummary
	err := r.handle(dbc).
		Model(&schooldom.ClassSection{}).
		Select("class_section.id, class_section.code, class_section.name").
		Joins("JOIN enrollment ON enrollment.class_section_id = class_section.id").
		Where("enrollment.student_id = ? AND enrollment.status = ?", studentID, schooldom.EnrollmentActive).
		Order("class_section.code ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scheduleRepo) sessionQuery(dbc dbctx.Context, studentID uuid.UUID) *gorm.DB {
	return r.handle(dbc).
		Model(&schooldom.Session{}).
		Select(`session.id AS session_id,
			session.class_section_id,
			session.subject_id,
			subject.name AS subject_name,
			class_section.name AS class_section_name,
			COALESCE(teacher.display_name, '') AS teacher_name,
			COALESCE(room.name, '') AS room_name,
			session.starts_at,
			session.ends_at`).
		Joins("JOIN enrollment ON enrollment.class_section_id = session.class_section_id").
		Joins("JOIN subject ON subject.id = session.subject_id").
		Joins("JOIN class_section ON class_section.id = session.class_section_id").
		Joins("LEFT JOIN app_user AS teacher ON teacher.id = session.teacher_user_id").
		Joins("LEFT JOIN room ON room.id = session.room_id").
		Where("enrollment.student_id = ? AND enrollment.status = ?", studentID, schooldom.EnrollmentActive)
}

func (r *scheduleRepo) ListUpcomingSessions(dbc dbctx.Context, studentID uuid.UUID, from time.Time, limit int) ([]portal.ScheduleItem, error) {
	var out []portal.ScheduleItem
	q := r.sessionQuery(dbc, studentID).
		Where("session.starts_at >= ?", from).
		Order("session.starts_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListSessions applies each time bound only when it is supplied, so an
// unbounded call returns the full history.
func (r *scheduleRepo) ListSessions(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time, limit int) ([]portal.ScheduleItem, error) {
	q := r.sessionQuery(dbc, studentID)
	if from != nil {
		q = q.Where("session.starts_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("session.starts_at < ?", *to)
	}
	q = q.Order("session.starts_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []portal.ScheduleItem
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
