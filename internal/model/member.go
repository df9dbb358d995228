package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The composite unique indexes below mirror each entity's natural key.
// They are the final backstop against duplicate inserts racing past the
// pre-insert existence check.

type FamilyMember struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_family_natural" json:"user_id"`
	Name       string    `gorm:"size:100;not null;uniqueIndex:idx_family_natural" json:"name"`
	Relation   string    `gorm:"size:50;not null;uniqueIndex:idx_family_natural" json:"relation"`
	Education  string    `gorm:"size:100" json:"education"`
	Profession string    `gorm:"size:100" json:"profession"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *FamilyMember) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type EducationDetail struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_education_natural" json:"user_id"`
	Degree        string    `gorm:"size:100;not null;uniqueIndex:idx_education_natural" json:"degree"`
	Institution   string    `gorm:"size:150;not null;uniqueIndex:idx_education_natural" json:"institution"`
	YearOfPassing string    `gorm:"size:10;not null;uniqueIndex:idx_education_natural" json:"year_of_passing"`
	Grade         string    `gorm:"size:20" json:"grade"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *EducationDetail) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type EmploymentDetail struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_employment_natural" json:"user_id"`
	CompanyName       string    `gorm:"size:150;not null;uniqueIndex:idx_employment_natural" json:"company_name"`
	Role              string    `gorm:"size:100;not null;uniqueIndex:idx_employment_natural" json:"role"`
	YearsOfExperience string    `gorm:"size:20" json:"years_of_experience"`
	CurrentlyWorking  bool      `gorm:"not null;default:false" json:"currently_working"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *EmploymentDetail) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type Skill struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_skill_natural" json:"user_id"`
	SkillName  string    `gorm:"size:100;not null;uniqueIndex:idx_skill_natural" json:"skill_name"`
	EndorsedBy string    `gorm:"size:100" json:"endorsed_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
