package grading

import (
	"time"

	"github.com/google/uuid"
)

type Assignment struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title          string     `gorm:"not null;column:title" json:"title"`
	SubjectID      uuid.UUID  `gorm:"type:uuid;not null;column:subject_id" json:"subject_id"`
	ClassSectionID uuid.UUID  `gorm:"type:uuid;not null;column:class_section_id" json:"class_section_id"`
	DueAt          *time.Time `gorm:"column:due_at" json:"due_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Assignment) TableName() string { return "assignment" }

type Grade struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_assignment_student;column:assignment_id" json:"assignment_id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_assignment_student;index;column:student_id" json:"student_id"`
	Score        float64   `gorm:"not null;column:score" json:"score"`
	MaxScore     float64   `gorm:"not null;column:max_score" json:"max_score"`
	GradedAt     time.Time `gorm:"not null;index;column:graded_at" json:"graded_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Grade) TableName() string { return "grade" }
