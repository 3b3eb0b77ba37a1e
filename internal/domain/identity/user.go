package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Role is the closed set of role tags an account can carry. Historical rows
// stored the tag in several shapes (lowercase, padded); NormalizeRole is the
// single place those are folded back into the enumeration.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleTeacher        Role = "TEACHER"
	RoleStudent        Role = "STUDENT"
	RoleParent         Role = "PARENT"
	RoleHumanResources Role = "HUMAN_RESOURCES"
)

// NormalizeRole folds a stored or caller-supplied role tag into the closed
// enumeration. Unknown tags are rejected rather than passed through.
func NormalizeRole(raw string) (Role, error) {
	tag := Role(strings.ToUpper(strings.TrimSpace(raw)))
	switch tag {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent, RoleHumanResources:
		return tag, nil
	}
	return "", fmt.Errorf("unknown role tag %q", raw)
}

// Status is the account lifecycle status.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusInvited  Status = "invited"
)

func NormalizeStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusActive, StatusInactive, StatusInvited:
		return s, nil
	case "":
		return StatusActive, nil
	}
	return "", fmt.Errorf("unknown account status %q", raw)
}

// User is an account in the identity directory. Owned here; role profiles
// (guardian, student) reference it one-to-one.
type User struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string            `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Handle       string            `gorm:"uniqueIndex;not null;column:handle" json:"handle"`
	DisplayName  string            `gorm:"not null;column:display_name" json:"display_name"`
	PasswordHash string            `gorm:"not null;column:password_hash" json:"-"`
	Role         Role              `gorm:"not null;column:role" json:"role"`
	Status       Status            `gorm:"not null;default:'active';column:status" json:"status"`
	Phone        string            `gorm:"column:phone" json:"phone,omitempty"`
	BirthDate    *time.Time        `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "app_user" }
