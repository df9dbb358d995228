package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dream-society/unity-nest/internal/dto"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/internal/repository"
	"github.com/dream-society/unity-nest/pkg/apperror"
)

type AdminService interface {
	Analytics(ctx context.Context) (*dto.AnalyticsResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]model.User, *dto.PaginationMeta, error)
	ReindexMembers(ctx context.Context) (int, error)
}

type adminService struct {
	users    repository.UserRepository
	jobs     repository.JobRepository
	payments repository.PaymentRepository
	search   MemberSearch
}

func NewAdminService(users repository.UserRepository, jobs repository.JobRepository, payments repository.PaymentRepository, search MemberSearch) AdminService {
	return &adminService{
		users:    users,
		jobs:     jobs,
		payments: payments,
		search:   search,
	}
}

func (s *adminService) Analytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	totalMembers, err := s.users.CountByRole(ctx, model.RoleMember)
	if err != nil {
		return nil, err
	}

	newMembers, err := s.users.CountCreatedSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	totalJobs, err := s.jobs.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalApps, err := s.jobs.CountApplications(ctx)
	if err != nil {
		return nil, err
	}

	collected, err := s.payments.TotalCompleted(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.AnalyticsResponse{
		TotalMembers:      totalMembers,
		NewMembersLast30d: newMembers,
		TotalJobs:         totalJobs,
		TotalApplications: totalApps,
		PaymentsCollected: collected,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context, page, limit int) ([]model.User, *dto.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	users, total, err := s.users.ListAll(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, &dto.PaginationMeta{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *adminService) ReindexMembers(ctx context.Context) (int, error) {
	if s.search == nil {
		return 0, fmt.Errorf("%w: search backend is not configured", apperror.ErrInternal)
	}

	members, err := s.users.FindAllMembers(ctx)
	if err != nil {
		return 0, err
	}

	return s.search.ReindexAll(members)
}
