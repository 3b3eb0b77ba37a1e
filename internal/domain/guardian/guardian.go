package guardian

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rskala/campusbridge-backend/internal/domain/identity"
)

// Guardian is the role profile for a PARENT identity. At most one per user,
// enforced by the unique index on user_id.
type Guardian struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	Phone          string            `gorm:"column:phone" json:"phone,omitempty"`
	SecondaryEmail string            `gorm:"column:secondary_email" json:"secondary_email,omitempty"`
	Address        string            `gorm:"column:address" json:"address,omitempty"`
	Notes          string            `gorm:"column:notes" json:"notes,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	User  *identity.User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Links []GuardianStudentLink `gorm:"foreignKey:GuardianID" json:"links,omitempty"`
}

func (Guardian) TableName() string { return "guardian" }
