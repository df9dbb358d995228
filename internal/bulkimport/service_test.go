package bulkimport

import (
	"context"
	"testing"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogStore struct {
	entries []model.BulkUploadLog
}

func (s *fakeLogStore) CreateLog(_ context.Context, entry *model.BulkUploadLog) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeLogStore) ListLogs(_ context.Context) ([]model.BulkUploadLog, error) {
	out := make([]model.BulkUploadLog, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func TestServiceRunWritesOneLogRow(t *testing.T) {
	logs := &fakeLogStore{}
	svc := NewService(newFakeStore(), &fakeCompositeStore{}, logs)
	admin := uuid.New()

	data := []byte("user_id,skill_name\n" +
		uuid.NewString() + ",go\n" +
		",missing-user\n")

	sum, entry, err := svc.Run(context.Background(), admin, "skills.csv", data, EntitySkills)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Success)
	assert.Equal(t, 1, sum.Failure)

	require.NotNil(t, entry)
	require.Len(t, logs.entries, 1)
	assert.Equal(t, admin, entry.UploadedBy)
	assert.Equal(t, "skills.csv", entry.Filename)
	assert.Equal(t, 2, entry.TotalRecords)
	assert.Equal(t, entry.TotalRecords, entry.SuccessCount+entry.FailureCount)
}

func TestServiceRunFoldsSkippedIntoFailureCount(t *testing.T) {
	logs := &fakeLogStore{}
	store := newFakeStore()
	svc := NewService(store, &fakeCompositeStore{}, logs)

	data := []byte("full_name,email,phone,password\n" +
		"Asha,asha@example.com,9000000001,pw123456\n" +
		"Asha Again,asha@example.com,9000000002,pw123456\n")

	sum, entry, err := svc.Run(context.Background(), uuid.New(), "users.csv", data, EntityUsers)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Success)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, entry.SuccessCount)
	assert.Equal(t, 1, entry.FailureCount)
}

func TestServiceRunRejectsUnknownExtensionBeforeLogging(t *testing.T) {
	logs := &fakeLogStore{}
	svc := NewService(newFakeStore(), &fakeCompositeStore{}, logs)

	_, _, err := svc.Run(context.Background(), uuid.New(), "skills.txt", []byte("x"), EntitySkills)

	assert.ErrorIs(t, err, apperror.ErrUnsupportedFormat)
	assert.Empty(t, logs.entries)
}

func TestServiceCompositeRejectsJSON(t *testing.T) {
	logs := &fakeLogStore{}
	svc := NewService(newFakeStore(), &fakeCompositeStore{}, logs)

	_, _, err := svc.RunCompositeUsers(context.Background(), uuid.New(), "users.json", []byte("[]"))

	assert.ErrorIs(t, err, apperror.ErrUnsupportedFormat)
	assert.Empty(t, logs.entries)
}

func TestServiceCompositeWritesLog(t *testing.T) {
	logs := &fakeLogStore{}
	svc := NewService(newFakeStore(), &fakeCompositeStore{}, logs)

	data := []byte("full_name,email,phone,password\n" +
		"Asha,asha@example.com,9000000001,pw123456\n")

	sum, entry, err := svc.RunCompositeUsers(context.Background(), uuid.New(), "users.csv", data)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Success)
	assert.Equal(t, 1, entry.TotalRecords)
	assert.Equal(t, 1, entry.SuccessCount)
	assert.Equal(t, 0, entry.FailureCount)
	require.Len(t, logs.entries, 1)
}
