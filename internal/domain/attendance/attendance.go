package attendance

import (
	"time"

	"github.com/google/uuid"
)

type RecordStatus string

const (
	StatusPresent RecordStatus = "present"
	StatusAbsent  RecordStatus = "absent"
	StatusLate    RecordStatus = "late"
)

// Record is one attendance mark for a student in a session. Written by the
// attendance subsystem; read here for guardian-facing views.
type Record struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:ux_session_student;column:session_id" json:"session_id"`
	StudentID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:ux_session_student;index;column:student_id" json:"student_id"`
	Status     RecordStatus `gorm:"not null;column:status" json:"status"`
	Note       string       `gorm:"column:note" json:"note,omitempty"`
	RecordedAt time.Time    `gorm:"not null;index;column:recorded_at" json:"recorded_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Record) TableName() string { return "attendance_record" }
