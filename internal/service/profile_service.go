package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dream-society/unity-nest/internal/dto"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/internal/repository"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/dream-society/unity-nest/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	photoFolder    = "profile-photos"
	photoURLExpiry = 15 * time.Minute
	maxPhotoSize   = 5 << 20
)

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*model.User, error)
	UploadPhoto(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string, size int64) (string, error)
	PhotoURL(ctx context.Context, userID uuid.UUID) (string, error)
	DeletePhoto(ctx context.Context, userID uuid.UUID) error
}

type profileService struct {
	users     repository.UserRepository
	members   repository.MemberRepository
	storage   storage.ObjectStorage
	search    MemberSearch
	sanitizer *bluemonday.Policy
}

func NewProfileService(users repository.UserRepository, members repository.MemberRepository, store storage.ObjectStorage, search MemberSearch) ProfileService {
	return &profileService{
		users:     users,
		members:   members,
		storage:   store,
		search:    search,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: user.ID}
	}

	s.applyProfileFields(profile, input)

	if err := s.members.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	if input.Education != nil {
		rows := make([]model.EducationDetail, 0, len(*input.Education))
		for _, e := range *input.Education {
			rows = append(rows, model.EducationDetail{
				Degree:        s.clean(e.Degree),
				Institution:   s.clean(e.Institution),
				YearOfPassing: s.clean(e.YearOfPassing),
				Grade:         s.clean(e.Grade),
			})
		}
		if err := s.members.ReplaceEducation(ctx, userID, rows); err != nil {
			return nil, err
		}
	}

	if input.Employment != nil {
		rows := make([]model.EmploymentDetail, 0, len(*input.Employment))
		for _, e := range *input.Employment {
			rows = append(rows, model.EmploymentDetail{
				CompanyName:       s.clean(e.CompanyName),
				Role:              s.clean(e.Role),
				YearsOfExperience: s.clean(e.YearsOfExperience),
				CurrentlyWorking:  e.CurrentlyWorking,
			})
		}
		if err := s.members.ReplaceEmployment(ctx, userID, rows); err != nil {
			return nil, err
		}
	}

	if input.Family != nil {
		rows := make([]model.FamilyMember, 0, len(*input.Family))
		for _, f := range *input.Family {
			rows = append(rows, model.FamilyMember{
				Name:       s.clean(f.Name),
				Relation:   s.clean(f.Relation),
				Education:  s.clean(f.Education),
				Profession: s.clean(f.Profession),
			})
		}
		if err := s.members.ReplaceFamily(ctx, userID, rows); err != nil {
			return nil, err
		}
	}

	if input.Skills != nil {
		rows := make([]model.Skill, 0, len(*input.Skills))
		for _, sk := range *input.Skills {
			rows = append(rows, model.Skill{
				SkillName:  s.clean(sk.SkillName),
				EndorsedBy: s.clean(sk.EndorsedBy),
			})
		}
		if err := s.members.ReplaceSkills(ctx, userID, rows); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexMember(updated); err != nil {
			logrus.WithError(err).Warn("failed to reindex member after profile update")
		}
	}

	updated.PasswordHash = ""
	return updated, nil
}

func (s *profileService) applyProfileFields(profile *model.Profile, input dto.UpdateProfileInput) {
	set := func(dst **string, src *string) {
		if src != nil {
			v := s.clean(*src)
			*dst = &v
		}
	}

	set(&profile.DOB, input.DOB)
	set(&profile.Gender, input.Gender)
	set(&profile.Village, input.Village)
	set(&profile.Mandal, input.Mandal)
	set(&profile.District, input.District)
	set(&profile.Pincode, input.Pincode)
	set(&profile.Caste, input.Caste)
	set(&profile.Subcaste, input.Subcaste)
	set(&profile.MaritalStatus, input.MaritalStatus)
	set(&profile.NativePlace, input.NativePlace)
}

// clean strips any markup from free-text profile fields.
func (s *profileService) clean(v string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(v))
}

func (s *profileService) UploadPhoto(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string, size int64) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("%w: photo storage is not configured", apperror.ErrInternal)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedPhotoExts[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", apperror.ErrInvalidInput, ext)
	}
	if size > maxPhotoSize {
		return "", fmt.Errorf("%w: image exceeds 5MB limit", apperror.ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return "", err
	}

	key, err := s.storage.Upload(ctx, r, photoFolder, fileName)
	if err != nil {
		return "", err
	}

	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: user.ID}
	}

	oldKey := deref(profile.PhotoKey)
	profile.PhotoKey = &key

	if err := s.members.UpsertProfile(ctx, profile); err != nil {
		return "", err
	}

	if oldKey != "" && oldKey != key {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			logrus.WithError(err).WithField("key", oldKey).Warn("failed to delete previous profile photo")
		}
	}

	return s.storage.PresignedURL(ctx, key, photoURLExpiry)
}

func (s *profileService) PhotoURL(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("%w: photo storage is not configured", apperror.ErrInternal)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return "", err
	}

	if user.Profile == nil || deref(user.Profile.PhotoKey) == "" {
		return "", fmt.Errorf("%w: no profile photo uploaded", apperror.ErrNotFound)
	}

	return s.storage.PresignedURL(ctx, deref(user.Profile.PhotoKey), photoURLExpiry)
}

func (s *profileService) DeletePhoto(ctx context.Context, userID uuid.UUID) error {
	if s.storage == nil {
		return fmt.Errorf("%w: photo storage is not configured", apperror.ErrInternal)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return err
	}

	if user.Profile == nil || deref(user.Profile.PhotoKey) == "" {
		return fmt.Errorf("%w: no profile photo uploaded", apperror.ErrNotFound)
	}

	key := deref(user.Profile.PhotoKey)
	user.Profile.PhotoKey = nil

	if err := s.members.UpsertProfile(ctx, user.Profile); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to delete profile photo object")
	}

	return nil
}
