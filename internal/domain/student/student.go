package student

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rskala/campusbridge-backend/internal/domain/identity"
)

// Student is the role profile for a STUDENT identity, one per user. Code is
// the optional human-readable student number.
type Student struct {
	ID       uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	Code     *string           `gorm:"uniqueIndex;column:code" json:"code,omitempty"`
	Metadata datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	User *identity.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Student) TableName() string { return "student" }
