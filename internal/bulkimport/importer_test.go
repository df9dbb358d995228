package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps inserted records in memory so intra-batch dedup works
// the same way it does against the real database.
type fakeStore struct {
	rows   map[EntityType][]Record
	failOn func(rec Record) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[EntityType][]Record)}
}

func (s *fakeStore) ExistsAll(_ context.Context, entity EntityType, key map[string]string) (bool, error) {
	for _, rec := range s.rows[entity] {
		match := true
		for f, v := range key {
			if rec[f] != v {
				match = false
				break
			}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ExistsAny(_ context.Context, entity EntityType, key map[string]string) (bool, error) {
	for _, rec := range s.rows[entity] {
		for f, v := range key {
			if v != "" && rec[f] == v {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *fakeStore) Insert(_ context.Context, entity EntityType, rec Record) error {
	if s.failOn != nil {
		if err := s.failOn(rec); err != nil {
			return err
		}
	}
	s.rows[entity] = append(s.rows[entity], rec)
	return nil
}

func userRecord(name, email, phone string) Record {
	return Record{"full_name": name, "email": email, "phone": phone, "password": "secret123"}
}

func TestImportRecordsExampleScenario(t *testing.T) {
	// Row 1 valid and new, row 2 missing phone, row 3 duplicates row 1's
	// email: expect success=1, failure=1, skipped=1 with errors in row order.
	store := newFakeStore()
	records := []Record{
		userRecord("Asha Rao", "asha@example.com", "9000000001"),
		userRecord("Ravi Kumar", "ravi@example.com", ""),
		userRecord("Asha Clone", "asha@example.com", "9000000003"),
	}

	sum, err := ImportRecords(context.Background(), store, EntityUsers, records)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Success)
	assert.Equal(t, 1, sum.Failure)
	assert.Equal(t, 1, sum.Skipped)

	require.Len(t, sum.Errors, 2)
	assert.Equal(t, 2, sum.Errors[0].Row)
	assert.Equal(t, "Missing required fields", sum.Errors[0].Error)
	assert.Equal(t, 3, sum.Errors[1].Row)
	assert.Equal(t, "Duplicate (email/phone)", sum.Errors[1].Error)
	assert.Equal(t, "asha@example.com", sum.Errors[1].Fields["email"])
}

func TestImportRecordsAccountingInvariant(t *testing.T) {
	store := newFakeStore()
	store.failOn = func(rec Record) error {
		if rec["skill_name"] == "boom" {
			return errors.New("value too long for column")
		}
		return nil
	}

	records := []Record{
		{"user_id": "u-1", "skill_name": "go"},
		{"user_id": "u-1", "skill_name": ""},
		{"user_id": "u-1", "skill_name": "boom"},
		{"user_id": "u-1", "skill_name": "go"},
		{"user_id": "u-2", "skill_name": "sql"},
	}

	sum, err := ImportRecords(context.Background(), store, EntitySkills, records)
	require.NoError(t, err)

	assert.Equal(t, len(records), sum.Total())
	assert.Equal(t, 2, sum.Success)
	assert.Equal(t, 2, sum.Failure)
	assert.Equal(t, 1, sum.Skipped)
}

func TestImportRecordsPartialFailureIsolation(t *testing.T) {
	store := newFakeStore()
	store.failOn = func(rec Record) error {
		if rec["email"] == "bad@example.com" {
			return errors.New("null value in column violates not-null constraint")
		}
		return nil
	}

	records := []Record{
		userRecord("A", "a@example.com", "9000000001"),
		userRecord("B", "bad@example.com", "9000000002"),
		userRecord("C", "c@example.com", "9000000003"),
	}

	sum, err := ImportRecords(context.Background(), store, EntityUsers, records)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Success)
	assert.Equal(t, 1, sum.Failure)
	require.Len(t, sum.Errors, 1)
	assert.Contains(t, sum.Errors[0].Error, "not-null constraint")
}

func TestImportRecordsIdempotentRerun(t *testing.T) {
	store := newFakeStore()
	records := []Record{
		userRecord("A", "a@example.com", "9000000001"),
		userRecord("B", "b@example.com", "9000000002"),
		userRecord("C", "c@example.com", "9000000003"),
	}

	first, err := ImportRecords(context.Background(), store, EntityUsers, records)
	require.NoError(t, err)
	require.Equal(t, 3, first.Success)

	second, err := ImportRecords(context.Background(), store, EntityUsers, records)
	require.NoError(t, err)

	assert.Equal(t, 0, second.Success)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, 0, second.Failure)
}

func TestImportRecordsConstraintViolationCountsSkipped(t *testing.T) {
	// The pre-insert check passed but the unique constraint fired: the
	// store's verdict wins and the row is skipped, not failed.
	store := newFakeStore()
	store.failOn = func(rec Record) error {
		return fmt.Errorf("%w: duplicated key", apperror.ErrDuplicate)
	}

	sum, err := ImportRecords(context.Background(), store, EntityUsers, []Record{
		userRecord("A", "a@example.com", "9000000001"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Success)
	assert.Equal(t, 1, sum.Skipped)
	require.Len(t, sum.Errors, 1)
	assert.Equal(t, "Duplicate (email/phone)", sum.Errors[0].Error)
}

func TestImportRecordsUnknownEntity(t *testing.T) {
	_, err := ImportRecords(context.Background(), newFakeStore(), EntityType("aliens"), nil)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "known entity", input: "education_details"},
		{name: "composite mode is not a generic entity", input: "composite_users", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntityType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, EntityType(tt.input), got)
		})
	}
}
