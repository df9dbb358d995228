package bulkimport

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LogStore persists and lists the per-batch audit rows.
type LogStore interface {
	CreateLog(ctx context.Context, entry *model.BulkUploadLog) error
	ListLogs(ctx context.Context) ([]model.BulkUploadLog, error)
}

// Service orchestrates one upload: parse the file, run the matching
// import handler, and always write exactly one BulkUploadLog row.
type Service struct {
	store     Store
	composite CompositeStore
	logs      LogStore
	hashCost  int
}

func NewService(store Store, composite CompositeStore, logs LogStore) *Service {
	return &Service{
		store:     store,
		composite: composite,
		logs:      logs,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Run imports a batch for one of the eight entity kinds.
func (s *Service) Run(ctx context.Context, uploadedBy uuid.UUID, filename string, data []byte, entity EntityType) (*Summary, *model.BulkUploadLog, error) {
	records, err := Parse(data, filename)
	if err != nil {
		return nil, nil, err
	}

	sum, err := ImportRecords(ctx, s.store, entity, records)
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.writeLog(ctx, uploadedBy, filename, len(records), sum)
	if err != nil {
		return sum, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"entity":   entity,
		"filename": filename,
		"total":    len(records),
		"success":  sum.Success,
		"failure":  sum.Failure,
		"skipped":  sum.Skipped,
	}).Info("bulk upload processed")

	return sum, entry, nil
}

// RunCompositeUsers imports rows that each carry a user plus nested
// profile, education, employment and family sub-records. Only .csv and
// .xlsx files are accepted in this mode.
func (s *Service) RunCompositeUsers(ctx context.Context, uploadedBy uuid.UUID, filename string, data []byte) (*Summary, *model.BulkUploadLog, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrUnsupportedFormat, ext)
	}

	records, err := Parse(data, filename)
	if err != nil {
		return nil, nil, err
	}

	sum := ImportCompositeUsers(ctx, s.composite, records, s.hashCost)

	entry, err := s.writeLog(ctx, uploadedBy, filename, len(records), sum)
	if err != nil {
		return sum, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"filename": filename,
		"total":    len(records),
		"success":  sum.Success,
		"failure":  sum.Failure,
		"skipped":  sum.Skipped,
	}).Info("bulk user upload processed")

	return sum, entry, nil
}

// Logs returns all upload audit rows, most recent first.
func (s *Service) Logs(ctx context.Context) ([]model.BulkUploadLog, error) {
	return s.logs.ListLogs(ctx)
}

// writeLog records the batch outcome. Skipped duplicates are folded into
// failure_count; total_records = success_count + failure_count holds.
func (s *Service) writeLog(ctx context.Context, uploadedBy uuid.UUID, filename string, total int, sum *Summary) (*model.BulkUploadLog, error) {
	entry := &model.BulkUploadLog{
		UploadedBy:   uploadedBy,
		Filename:     filepath.Base(filename),
		TotalRecords: total,
		SuccessCount: sum.Success,
		FailureCount: sum.Failure + sum.Skipped,
	}
	if err := s.logs.CreateLog(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
