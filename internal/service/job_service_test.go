package service

import (
	"context"
	"testing"

	"github.com/dream-society/unity-nest/internal/dto"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/internal/repository"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeJobRepo struct {
	jobs map[uuid.UUID]*model.Job
	apps []model.JobApplication
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*model.Job)}
}

func (f *fakeJobRepo) Create(_ context.Context, job *model.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (f *fakeJobRepo) List(_ context.Context, _ repository.JobFilter) ([]model.Job, int64, error) {
	var out []model.Job
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.jobs)), nil
}

func (f *fakeJobRepo) CreateApplication(_ context.Context, app *model.JobApplication) error {
	for _, existing := range f.apps {
		if existing.JobID == app.JobID && existing.UserID == app.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	f.apps = append(f.apps, *app)
	return nil
}

func (f *fakeJobRepo) ApplicationExists(_ context.Context, jobID, userID uuid.UUID) (bool, error) {
	for _, app := range f.apps {
		if app.JobID == jobID && app.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeJobRepo) ListApplications(_ context.Context, jobID uuid.UUID) ([]model.JobApplication, error) {
	var out []model.JobApplication
	for _, app := range f.apps {
		if app.JobID == jobID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) CountApplications(_ context.Context) (int64, error) {
	return int64(len(f.apps)), nil
}

func TestApplyOncePerJob(t *testing.T) {
	repo := newFakeJobRepo()
	svc := NewJobService(repo)

	poster := uuid.New()
	job, err := svc.CreateJob(context.Background(), poster, dto.CreateJobInput{
		Title:   "Backend Engineer",
		JobType: "full_time",
	})
	require.NoError(t, err)

	applicant := uuid.New()

	app, err := svc.Apply(context.Background(), job.ID, applicant)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApplied, app.Status)

	_, err = svc.Apply(context.Background(), job.ID, applicant)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
}

func TestApplyUnknownJob(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())

	_, err := svc.Apply(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListApplicationsVisibility(t *testing.T) {
	repo := newFakeJobRepo()
	svc := NewJobService(repo)

	poster := uuid.New()
	job, err := svc.CreateJob(context.Background(), poster, dto.CreateJobInput{
		Title:   "Data Analyst",
		JobType: "contract",
	})
	require.NoError(t, err)

	applicant := uuid.New()
	_, err = svc.Apply(context.Background(), job.ID, applicant)
	require.NoError(t, err)

	// The poster sees applicants.
	apps, err := svc.ListApplications(context.Background(), job.ID, poster, model.RoleMember)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	// A random member does not.
	_, err = svc.ListApplications(context.Background(), job.ID, uuid.New(), model.RoleMember)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// An admin does.
	apps, err = svc.ListApplications(context.Background(), job.ID, uuid.New(), model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}
