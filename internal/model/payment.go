package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payment_natural" json:"user_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	PaymentMethod string    `gorm:"size:30;not null" json:"payment_method"`
	PaymentStatus string    `gorm:"size:20;not null;default:pending" json:"payment_status"`
	TransactionID string    `gorm:"size:100;not null;uniqueIndex:idx_payment_natural" json:"transaction_id"`
	PaymentTime   time.Time `gorm:"autoCreateTime" json:"payment_time"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
