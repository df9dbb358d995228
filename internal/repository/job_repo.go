package repository

import (
	"context"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobFilter struct {
	JobType  string
	Location string
	Search   string
	Page     int
	Limit    int
}

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, filter JobFilter) ([]model.Job, int64, error)
	Count(ctx context.Context) (int64, error)
	CreateApplication(ctx context.Context, app *model.JobApplication) error
	ApplicationExists(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	ListApplications(ctx context.Context, jobID uuid.UUID) ([]model.JobApplication, error)
	CountApplications(ctx context.Context) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]model.Job, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Job{})

	if filter.JobType != "" {
		tx = tx.Where("job_type = ?", filter.JobType)
	}
	if filter.Location != "" {
		tx = tx.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		tx = tx.Where("title ILIKE ? OR skills_required ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []model.Job
	if err := tx.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Job{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *jobRepository) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *jobRepository) ApplicationExists(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.JobApplication{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *jobRepository) ListApplications(ctx context.Context, jobID uuid.UUID) ([]model.JobApplication, error) {
	var apps []model.JobApplication
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *jobRepository) CountApplications(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.JobApplication{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
