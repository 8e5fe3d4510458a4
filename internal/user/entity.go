package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:10;uniqueIndex;not null" json:"name"`
}

type User struct {
	ID                          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email                       string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FirstName                   string    `gorm:"size:64;not null" json:"first_name"`
	LastName                    string    `gorm:"size:64;not null" json:"last_name"`
	PasswordHash                string    `gorm:"size:128" json:"-"`
	RoleID                      uint      `gorm:"not null" json:"-"`
	Role                        Role      `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT" json:"role"`
	IsSuperuser                 bool      `gorm:"not null" json:"is_superuser"`
	EncryptedGoogleRefreshToken string    `gorm:"type:text" json:"-"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	User           User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProfilePicture string    `gorm:"size:512" json:"profile_picture"`
	TrialLimit     time.Time `gorm:"not null" json:"test_limit"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Models lists the tables owned by this package in migration order.
func Models() []any {
	return []any{&Role{}, &User{}, &Profile{}}
}
