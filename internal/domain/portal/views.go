package portal

import (
	"time"

	"github.com/google/uuid"

	"github.com/rskala/campusbridge-backend/internal/domain/attendance"
	"github.com/rskala/campusbridge-backend/internal/domain/billing"
	"github.com/rskala/campusbridge-backend/internal/domain/guardian"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
)

// Read models assembled for the guardian portal. Computed on read, never
// persisted.

type ClassSectionSummary struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

type StudentSummary struct {
	StudentID     uuid.UUID             `json:"student_id"`
	StudentCode   string                `json:"student_code,omitempty"`
	DisplayName   string                `json:"display_name"`
	Email         string                `json:"email"`
	Relationship  string                `json:"relationship,omitempty"`
	IsPrimary     bool                  `json:"is_primary"`
	LinkStatus    guardian.LinkStatus   `json:"link_status"`
	AccountStatus identity.Status       `json:"account_status"`
	ClassSections []ClassSectionSummary `json:"class_sections"`
}

type ScheduleItem struct {
	SessionID        uuid.UUID `json:"session_id"`
	ClassSectionID   uuid.UUID `json:"class_section_id"`
	SubjectID        uuid.UUID `json:"subject_id"`
	SubjectName      string    `json:"subject_name"`
	ClassSectionName string    `json:"class_section_name"`
	TeacherName      string    `json:"teacher_name,omitempty"`
	RoomName         string    `json:"room_name,omitempty"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
}

type AttendanceEntry struct {
	ID               uuid.UUID               `json:"id"`
	Status           attendance.RecordStatus `json:"status"`
	Note             string                  `json:"note,omitempty"`
	RecordedAt       time.Time               `json:"recorded_at"`
	SessionID        uuid.UUID               `json:"session_id"`
	SessionStartsAt  time.Time               `json:"session_starts_at"`
	SessionEndsAt    time.Time               `json:"session_ends_at"`
	SubjectName      string                  `json:"subject_name"`
	ClassSectionName string                  `json:"class_section_name"`
}

type AttendanceTally struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
	Total   int64 `json:"total"`
}

type GradeSummary struct {
	GradeID          uuid.UUID `json:"grade_id"`
	AssignmentID     uuid.UUID `json:"assignment_id"`
	AssignmentTitle  string    `json:"assignment_title"`
	Score            float64   `json:"score"`
	MaxScore         float64   `json:"max_score"`
	GradedAt         time.Time `json:"graded_at"`
	SubjectName      string    `json:"subject_name"`
	ClassSectionName string    `json:"class_section_name"`
}

type InvoiceLineView struct {
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

type PaymentView struct {
	Amount int64     `json:"amount"`
	Method string    `json:"method"`
	PaidAt time.Time `json:"paid_at"`
	TxRef  string    `json:"tx_ref,omitempty"`
}

type InvoiceSummary struct {
	InvoiceID         uuid.UUID             `json:"invoice_id"`
	Period            string                `json:"period"`
	Status            billing.InvoiceStatus `json:"status"`
	TotalAmount       int64                 `json:"total_amount"`
	OutstandingAmount int64                 `json:"outstanding_amount"`
	IssuedAt          time.Time             `json:"issued_at"`
	DueDate           *time.Time            `json:"due_date,omitempty"`
	Lines             []InvoiceLineView     `json:"lines"`
	Payments          []PaymentView         `json:"payments"`
}

// LearnerOverview is one student's slice of the dashboard.
type LearnerOverview struct {
	Student           StudentSummary  `json:"student"`
	UpcomingSessions  []ScheduleItem  `json:"upcoming_sessions"`
	LatestGrades      []GradeSummary  `json:"latest_grades"`
	Attendance        AttendanceTally `json:"attendance"`
	OutstandingAmount int64           `json:"outstanding_amount"`
}

type DashboardOverview struct {
	GuardianID  uuid.UUID         `json:"guardian_id"`
	DisplayName string            `json:"display_name"`
	Students    []LearnerOverview `json:"students"`
}
