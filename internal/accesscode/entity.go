package accesscode

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Kind string

const (
	KindCourse Kind = "course"
	KindTest   Kind = "test"
)

var AllKinds = []Kind{
	KindCourse,
	KindTest,
}

func (k Kind) IsValid() bool {
	for _, v := range AllKinds {
		if k == v {
			return true
		}
	}
	return false
}

// AccessCode is a one-time code handed out by an administrator. Payload holds
// coursePayload or testPayload depending on Kind.
type AccessCode struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string         `gorm:"size:6;uniqueIndex;not null" json:"code"`
	Kind       Kind           `gorm:"size:16;not null" json:"kind"`
	Payload    datatypes.JSON `json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
	RedeemedBy *uuid.UUID     `gorm:"type:uuid;index" json:"redeemed_by,omitempty"`
	Redeemer   *user.User     `gorm:"foreignKey:RedeemedBy;constraint:OnDelete:SET NULL" json:"-"`
	RedeemedAt *time.Time     `json:"redeemed_at,omitempty"`
}

func (c *AccessCode) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type coursePayload struct {
	CourseID uuid.UUID `json:"course_id"`
}

type testPayload struct {
	Day   int    `json:"day"`
	Token string `json:"token"`
}

func Models() []any {
	return []any{&AccessCode{}}
}
