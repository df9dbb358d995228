package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BulkUploadLog is the append-only audit record written once per upload
// invocation. failure_count includes skipped duplicates; total_records
// always equals success_count + failure_count.
type BulkUploadLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UploadedBy   uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	TotalRecords int       `gorm:"not null" json:"total_records"`
	SuccessCount int       `gorm:"not null" json:"success_count"`
	FailureCount int       `gorm:"not null" json:"failure_count"`
	UploadTime   time.Time `gorm:"autoCreateTime" json:"upload_time"`
}

func (l *BulkUploadLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
