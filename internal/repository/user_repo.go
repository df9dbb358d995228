package repository

import (
	"context"
	"time"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberFilter narrows the member directory listing. IDs, when set,
// restricts results to a search backend's hits while keeping SQL
// pagination and sorting.
type MemberFilter struct {
	Search string
	SortBy string
	Page   int
	Limit  int
	IDs    []uuid.UUID
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User, profile *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailOrPhoneTaken(ctx context.Context, email, phone string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, user *model.User) error
	ListMembers(ctx context.Context, filter MemberFilter) ([]model.User, int64, error)
	ListAll(ctx context.Context, page, limit int) ([]model.User, int64, error)
	FindAllMembers(ctx context.Context) ([]model.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User, profile *model.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if profile != nil {
			profile.UserID = user.ID
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("EducationDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("EmploymentDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("FamilyMembers").
		Preload("Skills").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) EmailOrPhoneTaken(ctx context.Context, email, phone string, exclude uuid.UUID) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR phone = ?", email, phone)
	if exclude != uuid.Nil {
		tx = tx.Where("id <> ?", exclude)
	}
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) ListMembers(ctx context.Context, filter MemberFilter) ([]model.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", model.RoleMember)

	if len(filter.IDs) > 0 {
		tx = tx.Where("id IN ?", filter.IDs)
	} else if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		tx = tx.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.SortBy {
	case "name":
		tx = tx.Order("full_name ASC")
	default:
		tx = tx.Order("created_at DESC")
	}

	var users []model.User
	if err := tx.
		Preload("Profile").
		Preload("EducationDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("EmploymentDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) ListAll(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	if err := tx.
		Preload("Profile").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) FindAllMembers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("role = ?", model.RoleMember).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
