package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationStatusApplied     = "applied"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusRejected    = "rejected"
)

type Job struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostedBy       *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_job_natural" json:"posted_by"`
	Title          string     `gorm:"size:150;not null;uniqueIndex:idx_job_natural" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	SkillsRequired string     `gorm:"size:255" json:"skills_required"`
	JobType        string     `gorm:"size:30;not null" json:"job_type"`
	SalaryRange    string     `gorm:"size:50" json:"salary_range"`
	Location       string     `gorm:"size:100;uniqueIndex:idx_job_natural" json:"location"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

type JobApplication struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_natural" json:"job_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_natural" json:"user_id"`
	Status    string    `gorm:"size:20;not null;default:applied" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
