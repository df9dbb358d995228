package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GormStore implements Store, CompositeStore and LogStore on the
// application database.
type GormStore struct {
	db       *gorm.DB
	hashCost int
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, hashCost: bcrypt.DefaultCost}
}

func (s *GormStore) ExistsAll(ctx context.Context, entity EntityType, key map[string]string) (bool, error) {
	query, err := normalizeKey(key)
	if err != nil {
		return false, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(modelFor(entity)).Where(query).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) ExistsAny(ctx context.Context, entity EntityType, key map[string]string) (bool, error) {
	query, err := normalizeKey(key)
	if err != nil {
		return false, err
	}

	tx := s.db.WithContext(ctx).Model(modelFor(entity))
	first := true
	for field, value := range query {
		cond := fmt.Sprintf("%s = ?", field)
		if first {
			tx = tx.Where(cond, value)
			first = false
		} else {
			tx = tx.Or(cond, value)
		}
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) Insert(ctx context.Context, entity EntityType, rec Record) error {
	row, err := s.buildRow(entity, rec)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

func (s *GormStore) UserExists(ctx context.Context, email, phone string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR phone = ?", email, phone).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateCompositeUser commits the user and all nested rows in one
// transaction so a failing sub-record never leaves a partial user behind.
func (s *GormStore) CreateCompositeUser(ctx context.Context, cu *CompositeUser) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cu.User).Error; err != nil {
			return err
		}

		cu.Profile.UserID = cu.User.ID
		if err := tx.Create(&cu.Profile).Error; err != nil {
			return err
		}

		for i := range cu.Education {
			cu.Education[i].UserID = cu.User.ID
			if err := tx.Create(&cu.Education[i]).Error; err != nil {
				return err
			}
		}
		for i := range cu.Employment {
			cu.Employment[i].UserID = cu.User.ID
			if err := tx.Create(&cu.Employment[i]).Error; err != nil {
				return err
			}
		}
		for i := range cu.Family {
			cu.Family[i].UserID = cu.User.ID
			if err := tx.Create(&cu.Family[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})

	return translateDuplicate(err)
}

func (s *GormStore) CreateLog(ctx context.Context, entry *model.BulkUploadLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) ListLogs(ctx context.Context) ([]model.BulkUploadLog, error) {
	var logs []model.BulkUploadLog
	if err := s.db.WithContext(ctx).
		Order("upload_time DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// buildRow maps a parsed record onto the entity's gorm model. Coercion
// failures (bad UUID, non-numeric amount) are data errors reported for
// that row only.
func (s *GormStore) buildRow(entity EntityType, rec Record) (any, error) {
	switch entity {
	case EntityUsers:
		hash, err := bcrypt.GenerateFromPassword([]byte(rec["password"]), s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %v", err)
		}
		return &model.User{
			FullName:     rec["full_name"],
			Email:        rec["email"],
			Phone:        rec["phone"],
			PasswordHash: string(hash),
			Role:         model.RoleMember,
			IsVerified:   true,
		}, nil

	case EntityFamilyMembers:
		userID, err := parseUUID("user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		return &model.FamilyMember{
			UserID:     userID,
			Name:       rec["name"],
			Relation:   rec["relation"],
			Education:  rec["education"],
			Profession: rec["profession"],
		}, nil

	case EntityEducationDetails:
		userID, err := parseUUID("user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		return &model.EducationDetail{
			UserID:        userID,
			Degree:        rec["degree"],
			Institution:   rec["institution"],
			YearOfPassing: rec["year_of_passing"],
			Grade:         rec["grade"],
		}, nil

	case EntityEmploymentDetails:
		userID, err := parseUUID("user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		return &model.EmploymentDetail{
			UserID:            userID,
			CompanyName:       rec["company_name"],
			Role:              rec["role"],
			YearsOfExperience: rec["years_of_experience"],
			CurrentlyWorking:  strings.EqualFold(rec["currently_working"], "true"),
		}, nil

	case EntitySkills:
		userID, err := parseUUID("user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		return &model.Skill{
			UserID:     userID,
			SkillName:  rec["skill_name"],
			EndorsedBy: rec["endorsed_by"],
		}, nil

	case EntityJobs:
		var postedBy *uuid.UUID
		if rec["posted_by"] != "" {
			id, err := parseUUID("posted_by", rec["posted_by"])
			if err != nil {
				return nil, err
			}
			postedBy = &id
		}
		return &model.Job{
			PostedBy:       postedBy,
			Title:          rec["title"],
			Description:    rec["description"],
			SkillsRequired: rec["skills_required"],
			JobType:        rec["job_type"],
			SalaryRange:    rec["salary_range"],
			Location:       rec["location"],
		}, nil

	case EntityJobApplications:
		jobID, err := parseUUID("job_id", rec["job_id"])
		if err != nil {
			return nil, err
		}
		userID, err := parseUUID("user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		status := rec["status"]
		if status == "" {
			status = model.ApplicationStatusApplied
		}
		return &model.JobApplication{
			JobID:  jobID,
			UserID: userID,
			Status: status,
		}, nil

	case EntityPayments:
		userID, err := parseUUID("user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		amount, err := strconv.ParseFloat(rec["amount"], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q", rec["amount"])
		}
		status := rec["payment_status"]
		if status == "" {
			status = model.PaymentStatusPending
		}
		return &model.Payment{
			UserID:        userID,
			Amount:        amount,
			PaymentMethod: rec["payment_method"],
			PaymentStatus: status,
			TransactionID: rec["transaction_id"],
		}, nil
	}

	return nil, fmt.Errorf("%w: invalid or missing model type %q", apperror.ErrBadRequest, entity)
}

func modelFor(entity EntityType) any {
	switch entity {
	case EntityUsers:
		return &model.User{}
	case EntityFamilyMembers:
		return &model.FamilyMember{}
	case EntityEducationDetails:
		return &model.EducationDetail{}
	case EntityEmploymentDetails:
		return &model.EmploymentDetail{}
	case EntitySkills:
		return &model.Skill{}
	case EntityJobs:
		return &model.Job{}
	case EntityJobApplications:
		return &model.JobApplication{}
	case EntityPayments:
		return &model.Payment{}
	}
	return nil
}

// normalizeKey converts dedup key values into query arguments, parsing
// id fields into UUIDs so postgres compares them with the right type.
// An empty id value becomes nil so the query reads IS NULL instead of
// comparing a uuid column against ''.
func normalizeKey(key map[string]string) (map[string]any, error) {
	query := make(map[string]any, len(key))
	for field, value := range key {
		if isUUIDField(field) {
			if value == "" {
				query[field] = nil
				continue
			}
			id, err := parseUUID(field, value)
			if err != nil {
				return nil, err
			}
			query[field] = id
			continue
		}
		query[field] = value
	}
	return query, nil
}

func isUUIDField(field string) bool {
	return strings.HasSuffix(field, "_id") || field == "posted_by"
}

func parseUUID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q", field, value)
	}
	return id, nil
}

func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", apperror.ErrDuplicate, err)
	}
	return err
}
