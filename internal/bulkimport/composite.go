package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

// maxNestedRecords caps how many education/employment/family sub-records
// one input row may carry, via the _1.._3 column suffixes.
const maxNestedRecords = 3

// CompositeUser is a user plus all nested rows built from one input row.
type CompositeUser struct {
	User       model.User
	Profile    model.Profile
	Education  []model.EducationDetail
	Employment []model.EmploymentDetail
	Family     []model.FamilyMember
}

// CompositeStore persists composite users. CreateCompositeUser must be
// atomic: either the user and every nested row commit, or none do.
type CompositeStore interface {
	UserExists(ctx context.Context, email, phone string) (bool, error)
	CreateCompositeUser(ctx context.Context, cu *CompositeUser) error
}

var compositeIdentify = []string{"email", "phone"}

// ImportCompositeUsers imports rows that each describe a user together
// with profile, education, employment and family sub-records. hashCost
// is the bcrypt cost for the stored password hash.
//
// Duplicates are counted as skipped, matching the generic handlers: a
// pre-existing user is a no-op, not a data error.
func ImportCompositeUsers(ctx context.Context, store CompositeStore, records []Record, hashCost int) *Summary {
	sum := &Summary{}
	for i, rec := range records {
		row := i + 1
		fields := map[string]string{"email": rec["email"], "phone": rec["phone"]}

		if rec["full_name"] == "" || rec["email"] == "" || rec["phone"] == "" || rec["password"] == "" {
			sum.Failure++
			sum.Errors = append(sum.Errors, RowError{Row: row, Fields: fields, Error: "Missing required user fields"})
			continue
		}

		exists, err := store.UserExists(ctx, rec["email"], rec["phone"])
		if err != nil {
			sum.Failure++
			sum.Errors = append(sum.Errors, RowError{Row: row, Fields: fields, Error: err.Error()})
			continue
		}
		if exists {
			sum.Skipped++
			sum.Errors = append(sum.Errors, RowError{Row: row, Fields: fields, Error: "Duplicate (email/phone)"})
			continue
		}

		cu, err := buildCompositeUser(rec, hashCost)
		if err != nil {
			sum.Failure++
			sum.Errors = append(sum.Errors, RowError{Row: row, Fields: fields, Error: err.Error()})
			continue
		}

		if err := store.CreateCompositeUser(ctx, cu); err != nil {
			if errors.Is(err, apperror.ErrDuplicate) {
				sum.Skipped++
				sum.Errors = append(sum.Errors, RowError{Row: row, Fields: fields, Error: "Duplicate (email/phone)"})
			} else {
				sum.Failure++
				sum.Errors = append(sum.Errors, RowError{Row: row, Fields: fields, Error: err.Error()})
			}
			continue
		}

		sum.Success++
	}

	return sum
}

func buildCompositeUser(rec Record, hashCost int) (*CompositeUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rec["password"]), hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	cu := &CompositeUser{
		User: model.User{
			FullName:     rec["full_name"],
			Email:        rec["email"],
			Phone:        rec["phone"],
			PasswordHash: string(hash),
			Role:         model.RoleMember,
			IsVerified:   true,
		},
		Profile: model.Profile{
			PhotoKey:      optional(rec["photo_url"]),
			DOB:           optional(rec["dob"]),
			Gender:        optional(rec["gender"]),
			Village:       optional(rec["village"]),
			Mandal:        optional(rec["mandal"]),
			District:      optional(rec["district"]),
			Pincode:       optional(rec["pincode"]),
			Caste:         optional(rec["caste"]),
			Subcaste:      optional(rec["subcaste"]),
			MaritalStatus: optional(rec["marital_status"]),
			NativePlace:   optional(rec["native_place"]),
		},
	}

	for i := 1; i <= maxNestedRecords; i++ {
		degree := rec[suffixed("education_degree", i)]
		institution := rec[suffixed("education_institution", i)]
		year := rec[suffixed("education_year_of_passing", i)]
		if degree != "" && institution != "" && year != "" {
			cu.Education = append(cu.Education, model.EducationDetail{
				Degree:        degree,
				Institution:   institution,
				YearOfPassing: year,
				Grade:         rec[suffixed("education_grade", i)],
			})
		}
	}

	for i := 1; i <= maxNestedRecords; i++ {
		company := rec[suffixed("employment_company_name", i)]
		role := rec[suffixed("employment_role", i)]
		if company != "" && role != "" {
			cu.Employment = append(cu.Employment, model.EmploymentDetail{
				CompanyName:       company,
				Role:              role,
				YearsOfExperience: rec[suffixed("employment_years_of_experience", i)],
				CurrentlyWorking:  strings.EqualFold(rec[suffixed("employment_currently_working", i)], "true"),
			})
		}
	}

	for i := 1; i <= maxNestedRecords; i++ {
		name := rec[suffixed("family_name", i)]
		relation := rec[suffixed("family_relation", i)]
		if name != "" && relation != "" {
			cu.Family = append(cu.Family, model.FamilyMember{
				Name:       name,
				Relation:   relation,
				Education:  rec[suffixed("family_education", i)],
				Profession: rec[suffixed("family_profession", i)],
			})
		}
	}

	return cu, nil
}

func suffixed(prefix string, i int) string {
	return fmt.Sprintf("%s_%d", prefix, i)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
