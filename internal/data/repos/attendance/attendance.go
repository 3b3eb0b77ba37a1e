package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attdom "github.com/rskala/campusbridge-backend/internal/domain/attendance"
	"github.com/rskala/campusbridge-backend/internal/domain/portal"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type AttendanceRepo interface {
	ListForStudent(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time, page, limit int) ([]portal.AttendanceEntry, int64, error)
	TallyForStudent(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time) (portal.AttendanceTally, error)
}

type attendanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) AttendanceRepo {
	return &attendanceRepo{db: db, log: baseLog.With("repo", "AttendanceRepo")}
}

func (r *attendanceRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *attendanceRepo) ListForStudent(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time, page, limit int) ([]portal.AttendanceEntry, int64, error) {
	params := pagination.Normalize(page, limit)

	scoped := func() *gorm.DB {
		q := r.handle(dbc).
			Model(&attdom.Record{}).
			Where("attendance_record.student_id = ?", studentID)
		if from != nil {
			q = q.Where("attendance_record.recorded_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("attendance_record.recorded_at < ?", *to)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []portal.AttendanceEntry
	err := scoped().
		Select(`attendance_record.id,
			attendance_record.status,
			attendance_record.note,
			attendance_record.recorded_at,
			attendance_record.session_id,
			session.starts_at AS session_starts_at,
			session.ends_at AS session_ends_at,
			subject.name AS subject_name,
			class_section.name AS class_section_name`).
		Joins("JOIN session ON session.id = attendance_record.session_id").
		Joins("JOIN subject ON subject.id = session.subject_id").
		Joins("JOIN class_section ON class_section.id = session.class_section_id").
		Order("attendance_record.recorded_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *attendanceRepo) TallyForStudent(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time) (portal.AttendanceTally, error) {
	q := r.handle(dbc).
		Model(&attdom.Record{}).
		Select("status, COUNT(*) AS n").
		Where("student_id = ?", studentID)
	if from != nil {
		q = q.Where("recorded_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("recorded_at < ?", *to)
	}

	var rows []struct {
		Status attdom.RecordStatus
		N      int64
	}
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return portal.AttendanceTally{}, err
	}

	var tally portal.AttendanceTally
	for _, row := range rows {
		switch row.Status {
		case attdom.StatusPresent:
			tally.Present = row.N
		case attdom.StatusAbsent:
			tally.Absent = row.N
		case attdom.StatusLate:
			tally.Late = row.N
		}
		tally.Total += row.N
	}
	return tally, nil
}
