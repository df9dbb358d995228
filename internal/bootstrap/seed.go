package bootstrap

import (
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.FamilyMember{},
		&model.EducationDetail{},
		&model.EmploymentDetail{},
		&model.Skill{},
		&model.Job{},
		&model.JobApplication{},
		&model.Payment{},
		&model.BulkUploadLog{},
	)
}

// SeedAdminUser creates a development admin account if none exists.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@unitynest.org").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logrus.Info("admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		FullName:     "Administrator",
		Email:        "admin@unitynest.org",
		Phone:        "0000000000",
		PasswordHash: string(hashedPasswordBytes),
		Role:         model.RoleAdmin,
		IsVerified:   true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	adminProfile := model.Profile{UserID: adminUser.ID}
	if err := db.Create(&adminProfile).Error; err != nil {
		return err
	}

	logrus.WithField("email", adminUser.Email).Info("admin user seeded")
	return nil
}
