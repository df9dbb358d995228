package dto

import (
	"github.com/dream-society/unity-nest/internal/bulkimport"
	"github.com/dream-society/unity-nest/internal/model"
)

type AnalyticsResponse struct {
	TotalMembers      int64   `json:"total_members"`
	NewMembersLast30d int64   `json:"new_members_last_30d"`
	TotalJobs         int64   `json:"total_jobs"`
	TotalApplications int64   `json:"total_applications"`
	PaymentsCollected float64 `json:"payments_collected"`
}

type BulkUploadResponse struct {
	Message string                `json:"message"`
	Log     *model.BulkUploadLog  `json:"log,omitempty"`
	Success int                   `json:"success"`
	Failure int                   `json:"failure"`
	Skipped int                   `json:"skipped"`
	Errors  []bulkimport.RowError `json:"errors"`
}

type ReindexResponse struct {
	Message string `json:"message"`
	Indexed int    `json:"indexed"`
}
