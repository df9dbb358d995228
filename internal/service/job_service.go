package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dream-society/unity-nest/internal/dto"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/internal/repository"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobService interface {
	CreateJob(ctx context.Context, postedBy uuid.UUID, input dto.CreateJobInput) (*model.Job, error)
	ListJobs(ctx context.Context, filter dto.JobFilter) (*dto.JobListResponse, error)
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
	Apply(ctx context.Context, jobID, userID uuid.UUID) (*model.JobApplication, error)
	ListApplications(ctx context.Context, jobID, requesterID uuid.UUID, requesterRole string) ([]model.JobApplication, error)
}

type jobService struct {
	repo repository.JobRepository
}

func NewJobService(repo repository.JobRepository) JobService {
	return &jobService{repo: repo}
}

func (s *jobService) CreateJob(ctx context.Context, postedBy uuid.UUID, input dto.CreateJobInput) (*model.Job, error) {
	job := &model.Job{
		PostedBy:       &postedBy,
		Title:          input.Title,
		Description:    input.Description,
		SkillsRequired: input.SkillsRequired,
		JobType:        input.JobType,
		SalaryRange:    input.SalaryRange,
		Location:       input.Location,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: an identical job posting already exists", apperror.ErrDuplicate)
		}
		return nil, err
	}

	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, filter dto.JobFilter) (*dto.JobListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	jobs, total, err := s.repo.List(ctx, repository.JobFilter{
		JobType:  filter.JobType,
		Location: filter.Location,
		Search:   filter.Search,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	if jobs == nil {
		jobs = []model.Job{}
	}

	return &dto.JobListResponse{
		Jobs: jobs,
		Pagination: dto.PaginationMeta{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	}, nil
}

func (s *jobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return job, nil
}

func (s *jobService) Apply(ctx context.Context, jobID, userID uuid.UUID) (*model.JobApplication, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ApplicationExists(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: you have already applied to this job", apperror.ErrDuplicate)
	}

	app := &model.JobApplication{
		JobID:  jobID,
		UserID: userID,
		Status: model.ApplicationStatusApplied,
	}

	if err := s.repo.CreateApplication(ctx, app); err != nil {
		// The unique index is the authoritative guard against a racing
		// duplicate application.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: you have already applied to this job", apperror.ErrDuplicate)
		}
		return nil, err
	}

	return app, nil
}

func (s *jobService) ListApplications(ctx context.Context, jobID, requesterID uuid.UUID, requesterRole string) ([]model.JobApplication, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Only the poster and privileged roles may see applicants.
	isPoster := job.PostedBy != nil && *job.PostedBy == requesterID
	if !isPoster && requesterRole != model.RoleAdmin && requesterRole != model.RoleModerator {
		return nil, apperror.ErrForbidden
	}

	apps, err := s.repo.ListApplications(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []model.JobApplication{}
	}
	return apps, nil
}
