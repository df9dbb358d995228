package dto

import (
	"github.com/dream-society/unity-nest/internal/model"
)

type CreateJobInput struct {
	Title          string `json:"title" binding:"required,max=150"`
	Description    string `json:"description"`
	SkillsRequired string `json:"skills_required"`
	JobType        string `json:"job_type" binding:"required,oneof=full_time part_time contract internship"`
	SalaryRange    string `json:"salary_range"`
	Location       string `json:"location"`
}

type JobFilter struct {
	JobType  string `form:"job_type"`
	Location string `form:"location"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type JobListResponse struct {
	Jobs       []model.Job    `json:"jobs"`
	Pagination PaginationMeta `json:"pagination"`
}

type RecordPaymentInput struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	PaymentStatus string  `json:"payment_status" binding:"omitempty,oneof=pending completed failed"`
	TransactionID string  `json:"transaction_id" binding:"required"`
}
