package guardian

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rskala/campusbridge-backend/internal/domain/student"
)

// LinkStatus is the lifecycle of a guardian-student relationship link.
// Revoked is terminal for read access; an explicit update may re-activate the
// link, which clears revoked_at.
type LinkStatus string

const (
	LinkInvited  LinkStatus = "invited"
	LinkActive   LinkStatus = "active"
	LinkInactive LinkStatus = "inactive"
	LinkRevoked  LinkStatus = "revoked"
)

func NormalizeLinkStatus(raw string) (LinkStatus, error) {
	s := LinkStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case LinkInvited, LinkActive, LinkInactive, LinkRevoked:
		return s, nil
	case "":
		return LinkActive, nil
	}
	return "", fmt.Errorf("unknown link status %q", raw)
}

// GrantsAccess reports whether a link in this status lets the guardian read
// the student's records. Invited and inactive links still grant access so a
// newly invited guardian can see enough to accept.
func (s LinkStatus) GrantsAccess() bool { return s != LinkRevoked }

// GuardianStudentLink connects one guardian to one student. At most one link
// per pair, enforced by the composite unique index; a second link request
// updates the existing row.
type GuardianStudentLink struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuardianID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:ux_guardian_student;column:guardian_id" json:"guardian_id"`
	StudentID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:ux_guardian_student;column:student_id" json:"student_id"`
	Relationship string            `gorm:"column:relationship" json:"relationship,omitempty"`
	IsPrimary    bool              `gorm:"not null;default:false;column:is_primary" json:"is_primary"`
	Status       LinkStatus        `gorm:"not null;default:'active';column:status" json:"status"`
	InvitedAt    *time.Time        `gorm:"column:invited_at" json:"invited_at,omitempty"`
	LinkedAt     time.Time         `gorm:"not null;default:now();column:linked_at" json:"linked_at"`
	RevokedAt    *time.Time        `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Student *student.Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (GuardianStudentLink) TableName() string { return "guardian_student_link" }
