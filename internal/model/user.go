package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:member" json:"role"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Profile           *Profile           `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	EducationDetails  []EducationDetail  `gorm:"constraint:OnDelete:CASCADE" json:"education_details,omitempty"`
	EmploymentDetails []EmploymentDetail `gorm:"constraint:OnDelete:CASCADE" json:"employment_details,omitempty"`
	FamilyMembers     []FamilyMember     `gorm:"constraint:OnDelete:CASCADE" json:"family_members,omitempty"`
	Skills            []Skill            `gorm:"constraint:OnDelete:CASCADE" json:"skills,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Profile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	PhotoKey      *string   `gorm:"size:255" json:"photo_key,omitempty"`
	DOB           *string   `gorm:"size:20" json:"dob,omitempty"`
	Gender        *string   `gorm:"size:20" json:"gender,omitempty"`
	Village       *string   `gorm:"size:100" json:"village,omitempty"`
	Mandal        *string   `gorm:"size:100" json:"mandal,omitempty"`
	District      *string   `gorm:"size:100" json:"district,omitempty"`
	Pincode       *string   `gorm:"size:10" json:"pincode,omitempty"`
	Caste         *string   `gorm:"size:50" json:"caste,omitempty"`
	Subcaste      *string   `gorm:"size:50" json:"subcaste,omitempty"`
	MaritalStatus *string   `gorm:"size:20" json:"marital_status,omitempty"`
	NativePlace   *string   `gorm:"size:100" json:"native_place,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
