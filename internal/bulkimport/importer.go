package bulkimport

import (
	"context"
	"errors"
	"fmt"

	"github.com/dream-society/unity-nest/pkg/apperror"
)

// Store is the persistence collaborator of the generic import loop.
// Implementations must return apperror.ErrDuplicate (possibly wrapped)
// from Insert when the backing store rejects the row with a unique
// constraint violation; the importer counts those as skipped, treating
// the constraint as the authoritative dedup signal.
type Store interface {
	// ExistsAll reports whether a stored row matches every key field.
	ExistsAll(ctx context.Context, entity EntityType, key map[string]string) (bool, error)
	// ExistsAny reports whether a stored row matches any one key field.
	ExistsAny(ctx context.Context, entity EntityType, key map[string]string) (bool, error)
	// Insert persists one record.
	Insert(ctx context.Context, entity EntityType, rec Record) error
}

// RowError describes one rejected record. Fields carries enough of the
// natural key to locate the source row without reopening the file; Row
// is 1-based and excludes the header.
type RowError struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
	Error  string            `json:"error"`
}

// Summary is the outcome of one batch. Success + Failure + Skipped
// always equals the number of parsed records.
type Summary struct {
	Success int        `json:"success"`
	Failure int        `json:"failure"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors"`
}

func (s *Summary) Total() int {
	return s.Success + s.Failure + s.Skipped
}

// ImportRecords runs the generic per-entity import: validate required
// fields, check the natural key against existing rows, insert. Records
// are processed strictly in file order and one bad row never aborts the
// batch; Errors preserves row order.
func ImportRecords(ctx context.Context, store Store, entity EntityType, records []Record) (*Summary, error) {
	cfg, ok := entityConfigs[entity]
	if !ok {
		return nil, fmt.Errorf("%w: invalid or missing model type %q", apperror.ErrBadRequest, entity)
	}

	sum := &Summary{}
	for i, rec := range records {
		row := i + 1

		if missing(rec, cfg.required) {
			sum.Failure++
			sum.Errors = append(sum.Errors, RowError{
				Row:    row,
				Fields: cfg.identifyingFields(rec),
				Error:  "Missing required fields",
			})
			continue
		}

		key := dedupKey(rec, cfg.dedup)
		var (
			exists bool
			err    error
		)
		if cfg.mode == matchAny {
			exists, err = store.ExistsAny(ctx, entity, key)
		} else {
			exists, err = store.ExistsAll(ctx, entity, key)
		}
		if err != nil {
			sum.Failure++
			sum.Errors = append(sum.Errors, RowError{
				Row:    row,
				Fields: cfg.identifyingFields(rec),
				Error:  err.Error(),
			})
			continue
		}
		if exists {
			sum.Skipped++
			sum.Errors = append(sum.Errors, RowError{
				Row:    row,
				Fields: cfg.identifyingFields(rec),
				Error:  cfg.duplicateMessage(),
			})
			continue
		}

		if err := store.Insert(ctx, entity, rec); err != nil {
			if errors.Is(err, apperror.ErrDuplicate) {
				// Lost a dedup race with a concurrent writer; the unique
				// constraint has the final word.
				sum.Skipped++
				sum.Errors = append(sum.Errors, RowError{
					Row:    row,
					Fields: cfg.identifyingFields(rec),
					Error:  cfg.duplicateMessage(),
				})
			} else {
				sum.Failure++
				sum.Errors = append(sum.Errors, RowError{
					Row:    row,
					Fields: cfg.identifyingFields(rec),
					Error:  err.Error(),
				})
			}
			continue
		}

		sum.Success++
	}

	return sum, nil
}

func missing(rec Record, required []string) bool {
	for _, f := range required {
		if rec[f] == "" {
			return true
		}
	}
	return false
}

func dedupKey(rec Record, fields []string) map[string]string {
	key := make(map[string]string, len(fields))
	for _, f := range fields {
		key[f] = rec[f]
	}
	return key
}
