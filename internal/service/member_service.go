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
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultPageSize   = 20
	maxPageSize       = 100
	searchResultLimit = 200
)

type MemberService interface {
	ListMembers(ctx context.Context, filter dto.MemberFilter) (*dto.MemberListResponse, error)
	GetUser(ctx context.Context, requesterID uuid.UUID, requesterRole string, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, requesterID uuid.UUID, requesterRole string, id uuid.UUID, input dto.UpdateUserInput) (*model.User, error)
}

type memberService struct {
	repo   repository.UserRepository
	search MemberSearch
}

func NewMemberService(repo repository.UserRepository, search MemberSearch) MemberService {
	return &memberService{repo: repo, search: search}
}

func (s *memberService) ListMembers(ctx context.Context, filter dto.MemberFilter) (*dto.MemberListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	repoFilter := repository.MemberFilter{
		Search: filter.Search,
		SortBy: filter.SortBy,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}

	// Prefer the search index for free-text queries; fall back to the
	// SQL ILIKE filter when the index is unavailable.
	if filter.Search != "" && s.search != nil {
		ids, err := s.search.Search(filter.Search, searchResultLimit)
		if err != nil {
			logrus.WithError(err).Warn("member search index unavailable, falling back to SQL")
		} else if len(ids) == 0 {
			return &dto.MemberListResponse{
				Members:    []dto.MemberCard{},
				Pagination: dto.PaginationMeta{Page: filter.Page, Limit: filter.Limit},
			}, nil
		} else {
			repoFilter.IDs = ids
		}
	}

	users, total, err := s.repo.ListMembers(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	cards := make([]dto.MemberCard, 0, len(users))
	for i := range users {
		cards = append(cards, memberCard(&users[i]))
	}

	return &dto.MemberListResponse{
		Members: cards,
		Pagination: dto.PaginationMeta{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	}, nil
}

func (s *memberService) GetUser(ctx context.Context, requesterID uuid.UUID, requesterRole string, id uuid.UUID) (*model.User, error) {
	if err := authorizeUserAccess(requesterID, requesterRole, id); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *memberService) UpdateUser(ctx context.Context, requesterID uuid.UUID, requesterRole string, id uuid.UUID, input dto.UpdateUserInput) (*model.User, error) {
	if err := authorizeUserAccess(requesterID, requesterRole, id); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if input.Email != nil || input.Phone != nil {
		email := user.Email
		if input.Email != nil {
			email = *input.Email
		}
		phone := user.Phone
		if input.Phone != nil {
			phone = *input.Phone
		}

		taken, err := s.repo.EmailOrPhoneTaken(ctx, email, phone, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email or phone already in use", apperror.ErrInvalidInput)
		}

		user.Email = email
		user.Phone = phone
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	// Only privileged callers may change roles.
	if input.Role != nil && (requesterRole == model.RoleAdmin || requesterRole == model.RoleModerator) {
		user.Role = *input.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexMember(user); err != nil {
			logrus.WithError(err).Warn("failed to reindex updated member")
		}
	}

	user.PasswordHash = ""
	return user, nil
}

func authorizeUserAccess(requesterID uuid.UUID, requesterRole string, target uuid.UUID) error {
	if requesterID == target {
		return nil
	}
	if requesterRole == model.RoleAdmin || requesterRole == model.RoleModerator {
		return nil
	}
	return apperror.ErrForbidden
}

func memberCard(user *model.User) dto.MemberCard {
	card := dto.MemberCard{
		ID:         user.ID,
		Name:       user.FullName,
		Email:      user.Email,
		Phone:      user.Phone,
		JoinedDate: user.CreatedAt.Format("2006-01-02"),
	}

	if p := user.Profile; p != nil {
		card.Village = deref(p.Village)
		card.District = deref(p.District)
		card.NativePlace = deref(p.NativePlace)
		switch {
		case card.District != "":
			card.Location = card.District
		case deref(p.Mandal) != "":
			card.Location = deref(p.Mandal)
		default:
			card.Location = card.Village
		}
	}

	if len(user.EmploymentDetails) > 0 {
		latest := user.EmploymentDetails[0]
		card.Title = latest.Role
		card.Company = latest.CompanyName
		card.CurrentlyWorking = latest.CurrentlyWorking
	}

	if len(user.EducationDetails) > 0 {
		latest := user.EducationDetails[0]
		card.Education = latest.Degree
		card.Institution = latest.Institution
		card.YearOfPassing = latest.YearOfPassing
	}

	return card
}
