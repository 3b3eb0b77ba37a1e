package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	billingrepo "github.com/rskala/campusbridge-backend/internal/data/repos/billing"
	guardianrepo "github.com/rskala/campusbridge-backend/internal/data/repos/guardian"
	types "github.com/rskala/campusbridge-backend/internal/domain"
	billdom "github.com/rskala/campusbridge-backend/internal/domain/billing"
	"github.com/rskala/campusbridge-backend/internal/domain/portal"
	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
	"github.com/rskala/campusbridge-backend/internal/pkg/ctxutil"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

const (
	dashboardUpcomingLimit = 5
	dashboardGradesLimit   = 5
	dashboardConcurrency   = 4
)

// Directory interfaces over the collaborator subsystems' tables. The portal
// only ever reads through these; scheduling, marking and invoicing stay with
// their owners.

type ScheduleDirectory interface {
	ListClassSections(dbc dbctx.Context, studentID uuid.UUID) ([]portal.ClassSectionSummary, error)
	ListUpcomingSessions(dbc dbctx.Context, studentID uuid.UUID, from time.Time, limit int) ([]portal.ScheduleItem, error)
	ListSessions(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time, limit int) ([]portal.ScheduleItem, error)
}

type AttendanceDirectory interface {
	ListForStudent(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time, page, limit int) ([]portal.AttendanceEntry, int64, error)
	TallyForStudent(dbc dbctx.Context, studentID uuid.UUID, from, to *time.Time) (portal.AttendanceTally, error)
}

type GradeDirectory interface {
	ListForStudent(dbc dbctx.Context, studentID uuid.UUID, subjectID *uuid.UUID, page, limit int) ([]portal.GradeSummary, int64, error)
	LatestForStudent(dbc dbctx.Context, studentID uuid.UUID, limit int) ([]portal.GradeSummary, error)
}

type BillingDirectory interface {
	ListForStudent(dbc dbctx.Context, studentID uuid.UUID, filters ListInvoicesQuery) ([]*types.Invoice, int64, error)
	SumOutstanding(dbc dbctx.Context, studentID uuid.UUID) (int64, error)
}

// ListInvoicesQuery is the billing repo's filter shape; aliased so the
// directory interface stays structurally satisfied by the repo.
type ListInvoicesQuery = billingrepo.ListInvoicesFilters

// AttendanceReport pairs the paged records with the running tally for the
// same window.
type AttendanceReport struct {
	Records pagination.Paged[portal.AttendanceEntry] `json:"records"`
	Tally   portal.AttendanceTally                   `json:"tally"`
}

// PortalService assembles the guardian-facing read views. The dashboard is
// lenient: a failed collaborator fetch degrades that learner's card to
// empty values. The per-student detail endpoints are strict and surface
// collaborator failures as upstream errors.
type PortalService struct {
	guardians  guardianrepo.GuardianRepo
	links      guardianrepo.LinkRepo
	access     *AccessGuard
	schedule   ScheduleDirectory
	attendance AttendanceDirectory
	grades     GradeDirectory
	billing    BillingDirectory
	log        *logger.Logger
}

func NewPortalService(
	guardians guardianrepo.GuardianRepo,
	links guardianrepo.LinkRepo,
	access *AccessGuard,
	schedule ScheduleDirectory,
	attendance AttendanceDirectory,
	grades GradeDirectory,
	billing BillingDirectory,
	baseLog *logger.Logger,
) *PortalService {
	return &PortalService{
		guardians:  guardians,
		links:      links,
		access:     access,
		schedule:   schedule,
		attendance: attendance,
		grades:     grades,
		billing:    billing,
		log:        baseLog.With("service", "PortalService"),
	}
}

// GetDashboard builds the whole-family overview for the authenticated
// guardian. Learner cards keep link order (newest link first) regardless of
// which fetch finishes when.
func (s *PortalService) GetDashboard(ctx context.Context, guardianUserID uuid.UUID) (*portal.DashboardOverview, error) {
	ctx = ctxutil.Default(ctx)
	dbc := dbctx.Context{Ctx: ctx}

	g, err := s.guardians.GetByUserID(dbc, guardianUserID, guardianrepo.QueryOptions{WithLinks: true})
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("guardian profile")
	}

	overview := &portal.DashboardOverview{
		GuardianID: g.ID,
		Students:   make([]portal.LearnerOverview, len(g.Links)),
	}
	if g.User != nil {
		overview.DisplayName = g.User.DisplayName
	}

	now := time.Now().UTC()
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(dashboardConcurrency)
	for i := range g.Links {
		grp.Go(func() error {
			overview.Students[i] = s.learnerOverview(gctx, g.Links[i], now)
			return nil
		})
	}
	// Goroutines never return errors; failures degrade in place.
	_ = grp.Wait()

	return overview, nil
}

// learnerOverview fills one student card. Each sub-fetch that fails is
// logged and leaves its slot empty rather than failing the dashboard.
func (s *PortalService) learnerOverview(ctx context.Context, link types.GuardianStudentLink, now time.Time) portal.LearnerOverview {
	dbc := dbctx.Context{Ctx: ctx}
	out := portal.LearnerOverview{Student: studentSummary(link)}

	sections, err := s.schedule.ListClassSections(dbc, link.StudentID)
	if err != nil {
		s.degrade("class sections", link.StudentID, err)
	} else {
		out.Student.ClassSections = sections
	}
	if out.Student.ClassSections == nil {
		out.Student.ClassSections = []portal.ClassSectionSummary{}
	}

	sessions, err := s.schedule.ListUpcomingSessions(dbc, link.StudentID, now, dashboardUpcomingLimit)
	if err != nil {
		s.degrade("schedule", link.StudentID, err)
		sessions = nil
	}
	if sessions == nil {
		sessions = []portal.ScheduleItem{}
	}
	out.UpcomingSessions = sessions

	grades, err := s.grades.LatestForStudent(dbc, link.StudentID, dashboardGradesLimit)
	if err != nil {
		s.degrade("grades", link.StudentID, err)
		grades = nil
	}
	if grades == nil {
		grades = []portal.GradeSummary{}
	}
	out.LatestGrades = grades

	tally, err := s.attendance.TallyForStudent(dbc, link.StudentID, nil, nil)
	if err != nil {
		s.degrade("attendance tally", link.StudentID, err)
		tally = portal.AttendanceTally{}
	}
	out.Attendance = tally

	outstanding, err := s.billing.SumOutstanding(dbc, link.StudentID)
	if err != nil {
		s.degrade("outstanding balance", link.StudentID, err)
		outstanding = 0
	}
	out.OutstandingAmount = outstanding

	return out
}

func (s *PortalService) degrade(what string, studentID uuid.UUID, err error) {
	s.log.Warn("dashboard sub-fetch degraded", "fetch", what, "student_id", studentID, "error", err)
}

// ListLinkedStudents returns the guardian's non-revoked students, newest
// link first.
func (s *PortalService) ListLinkedStudents(ctx context.Context, guardianUserID uuid.UUID) ([]portal.StudentSummary, error) {
	ctx = ctxutil.Default(ctx)
	dbc := dbctx.Context{Ctx: ctx}

	g, err := s.guardians.GetByUserID(dbc, guardianUserID, guardianrepo.QueryOptions{WithLinks: true})
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("guardian profile")
	}

	out := make([]portal.StudentSummary, 0, len(g.Links))
	for _, link := range g.Links {
		summary := studentSummary(link)
		sections, err := s.schedule.ListClassSections(dbc, link.StudentID)
		if err != nil {
			return nil, apperr.Upstream("schedule", err)
		}
		if sections == nil {
			sections = []portal.ClassSectionSummary{}
		}
		summary.ClassSections = sections
		out = append(out, summary)
	}
	return out, nil
}

// GetStudentSchedule lists the student's sessions, ascending by start time.
// Both bounds are optional; an omitted bound leaves that side open, so past
// sessions stay reachable.
func (s *PortalService) GetStudentSchedule(ctx context.Context, guardianUserID, studentID uuid.UUID, from, to *time.Time, limit int) ([]portal.ScheduleItem, error) {
	ctx = ctxutil.Default(ctx)
	if _, err := s.access.AssertForUser(ctx, guardianUserID, studentID); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	items, err := s.schedule.ListSessions(dbc, studentID, from, to, limit)
	if err != nil {
		return nil, apperr.Upstream("schedule", err)
	}
	if items == nil {
		items = []portal.ScheduleItem{}
	}
	return items, nil
}

func (s *PortalService) GetStudentAttendance(ctx context.Context, guardianUserID, studentID uuid.UUID, from, to *time.Time, page, limit int) (*AttendanceReport, error) {
	ctx = ctxutil.Default(ctx)
	if _, err := s.access.AssertForUser(ctx, guardianUserID, studentID); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	p := pagination.Normalize(page, limit)
	entries, total, err := s.attendance.ListForStudent(dbc, studentID, from, to, p.Page, p.Limit)
	if err != nil {
		return nil, apperr.Upstream("attendance", err)
	}
	tally, err := s.attendance.TallyForStudent(dbc, studentID, from, to)
	if err != nil {
		return nil, apperr.Upstream("attendance", err)
	}
	return &AttendanceReport{
		Records: pagination.BuildPaged(entries, total, p.Page, p.Limit),
		Tally:   tally,
	}, nil
}

func (s *PortalService) GetStudentGrades(ctx context.Context, guardianUserID, studentID uuid.UUID, subjectID *uuid.UUID, page, limit int) (pagination.Paged[portal.GradeSummary], error) {
	ctx = ctxutil.Default(ctx)
	if _, err := s.access.AssertForUser(ctx, guardianUserID, studentID); err != nil {
		return pagination.Paged[portal.GradeSummary]{}, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	p := pagination.Normalize(page, limit)
	grades, total, err := s.grades.ListForStudent(dbc, studentID, subjectID, p.Page, p.Limit)
	if err != nil {
		return pagination.Paged[portal.GradeSummary]{}, apperr.Upstream("grading", err)
	}
	return pagination.BuildPaged(grades, total, p.Page, p.Limit), nil
}

func (s *PortalService) GetStudentInvoices(ctx context.Context, guardianUserID, studentID uuid.UUID, status *billdom.InvoiceStatus, page, limit int) (pagination.Paged[portal.InvoiceSummary], error) {
	ctx = ctxutil.Default(ctx)
	if _, err := s.access.AssertForUser(ctx, guardianUserID, studentID); err != nil {
		return pagination.Paged[portal.InvoiceSummary]{}, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	p := pagination.Normalize(page, limit)
	invoices, total, err := s.billing.ListForStudent(dbc, studentID, ListInvoicesQuery{
		Status: status,
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		return pagination.Paged[portal.InvoiceSummary]{}, apperr.Upstream("billing", err)
	}

	views := make([]portal.InvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, invoiceSummary(inv))
	}
	return pagination.BuildPaged(views, total, p.Page, p.Limit), nil
}

func studentSummary(link types.GuardianStudentLink) portal.StudentSummary {
	summary := portal.StudentSummary{
		StudentID:     link.StudentID,
		Relationship:  link.Relationship,
		IsPrimary:     link.IsPrimary,
		LinkStatus:    link.Status,
		ClassSections: []portal.ClassSectionSummary{},
	}
	if link.Student != nil {
		if link.Student.Code != nil {
			summary.StudentCode = *link.Student.Code
		}
		if link.Student.User != nil {
			summary.DisplayName = link.Student.User.DisplayName
			summary.Email = link.Student.User.Email
			summary.AccountStatus = link.Student.User.Status
		}
	}
	return summary
}

func invoiceSummary(inv *types.Invoice) portal.InvoiceSummary {
	out := portal.InvoiceSummary{
		InvoiceID:         inv.ID,
		Period:            inv.Period,
		Status:            inv.Status,
		TotalAmount:       inv.TotalAmount,
		OutstandingAmount: inv.OutstandingAmount,
		IssuedAt:          inv.IssuedAt,
		DueDate:           inv.DueDate,
		Lines:             make([]portal.InvoiceLineView, 0, len(inv.Lines)),
		Payments:          make([]portal.PaymentView, 0, len(inv.Payments)),
	}
	for _, line := range inv.Lines {
		out.Lines = append(out.Lines, portal.InvoiceLineView{
			Item:      line.Item,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	for _, p := range inv.Payments {
		out.Payments = append(out.Payments, portal.PaymentView{
			Amount: p.Amount,
			Method: p.Method,
			PaidAt: p.PaidAt,
			TxRef:  p.TxRef,
		})
	}
	return out
}
