package school

import (
	"time"

	"github.com/google/uuid"
)

// Rows owned by the curriculum/classroom/scheduling subsystems. This core
// only reads them to build guardian-facing views; creating and scheduling
// stay with their owners.

type Subject struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code string    `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name string    `gorm:"not null;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Subject) TableName() string { return "subject" }

type Room struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name     string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Capacity int       `gorm:"column:capacity" json:"capacity,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Room) TableName() string { return "room" }

type ClassSection struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code string    `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name string    `gorm:"not null;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ClassSection) TableName() string { return "class_section" }

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentWithdrawn EnrollmentStatus = "withdrawn"
)

type Enrollment struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClassSectionID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:ux_section_student;column:class_section_id" json:"class_section_id"`
	StudentID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:ux_section_student;column:student_id" json:"student_id"`
	Status         EnrollmentStatus `gorm:"not null;default:'active';column:status" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

type Session struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClassSectionID uuid.UUID  `gorm:"type:uuid;not null;index;column:class_section_id" json:"class_section_id"`
	SubjectID      uuid.UUID  `gorm:"type:uuid;not null;column:subject_id" json:"subject_id"`
	TeacherUserID  *uuid.UUID `gorm:"type:uuid;column:teacher_user_id" json:"teacher_user_id,omitempty"`
	RoomID         *uuid.UUID `gorm:"type:uuid;column:room_id" json:"room_id,omitempty"`
	StartsAt       time.Time  `gorm:"not null;index;column:starts_at" json:"starts_at"`
	EndsAt         time.Time  `gorm:"not null;column:ends_at" json:"ends_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Session) TableName() string { return "session" }
