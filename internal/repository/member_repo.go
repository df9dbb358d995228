package repository

import (
	"context"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRepository manages the nested detail rows hanging off a user.
// Updates are replace-style: the caller sends the full desired set and
// the old rows are swapped out in one transaction.
type MemberRepository interface {
	UpsertProfile(ctx context.Context, profile *model.Profile) error
	ReplaceEducation(ctx context.Context, userID uuid.UUID, rows []model.EducationDetail) error
	ReplaceEmployment(ctx context.Context, userID uuid.UUID, rows []model.EmploymentDetail) error
	ReplaceFamily(ctx context.Context, userID uuid.UUID, rows []model.FamilyMember) error
	ReplaceSkills(ctx context.Context, userID uuid.UUID, rows []model.Skill) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) UpsertProfile(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *memberRepository) ReplaceEducation(ctx context.Context, userID uuid.UUID, rows []model.EducationDetail) error {
	return replaceRows(r.db.WithContext(ctx), userID, &model.EducationDetail{}, len(rows), func(tx *gorm.DB) error {
		for i := range rows {
			rows[i].UserID = userID
		}
		return tx.Create(&rows).Error
	})
}

func (r *memberRepository) ReplaceEmployment(ctx context.Context, userID uuid.UUID, rows []model.EmploymentDetail) error {
	return replaceRows(r.db.WithContext(ctx), userID, &model.EmploymentDetail{}, len(rows), func(tx *gorm.DB) error {
		for i := range rows {
			rows[i].UserID = userID
		}
		return tx.Create(&rows).Error
	})
}

func (r *memberRepository) ReplaceFamily(ctx context.Context, userID uuid.UUID, rows []model.FamilyMember) error {
	return replaceRows(r.db.WithContext(ctx), userID, &model.FamilyMember{}, len(rows), func(tx *gorm.DB) error {
		for i := range rows {
			rows[i].UserID = userID
		}
		return tx.Create(&rows).Error
	})
}

func (r *memberRepository) ReplaceSkills(ctx context.Context, userID uuid.UUID, rows []model.Skill) error {
	return replaceRows(r.db.WithContext(ctx), userID, &model.Skill{}, len(rows), func(tx *gorm.DB) error {
		for i := range rows {
			rows[i].UserID = userID
		}
		return tx.Create(&rows).Error
	})
}

func replaceRows(db *gorm.DB, userID uuid.UUID, target any, count int, create func(tx *gorm.DB) error) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(target).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		return create(tx)
	})
}
