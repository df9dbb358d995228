package bulkimport

import (
	"context"
	"errors"
	"testing"

	"github.com/dream-society/unity-nest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeCompositeStore struct {
	created []CompositeUser
	failErr error
}

func (s *fakeCompositeStore) UserExists(_ context.Context, email, phone string) (bool, error) {
	for _, cu := range s.created {
		if cu.User.Email == email || cu.User.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeCompositeStore) CreateCompositeUser(_ context.Context, cu *CompositeUser) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.created = append(s.created, *cu)
	return nil
}

func compositeRecord() Record {
	return Record{
		"full_name": "Asha Rao",
		"email":     "asha@example.com",
		"phone":     "9000000001",
		"password":  "secret123",
		"village":   "Kondapur",
		"district":  "Hyderabad",

		"education_degree_1":          "BTech",
		"education_institution_1":     "JNTU",
		"education_year_of_passing_1": "2015",
		"education_grade_1":           "A",
		// degree_2 intentionally empty: no second sub-record.
		"education_institution_2": "Osmania",

		"employment_company_name_1":      "Acme",
		"employment_role_1":              "Engineer",
		"employment_currently_working_1": "TRUE",

		"family_name_1":     "Lakshmi",
		"family_relation_1": "mother",
	}
}

func TestImportCompositeUsersBuildsNestedRecords(t *testing.T) {
	store := &fakeCompositeStore{}

	sum := ImportCompositeUsers(context.Background(), store, []Record{compositeRecord()}, bcrypt.MinCost)

	assert.Equal(t, 1, sum.Success)
	assert.Equal(t, 0, sum.Failure)
	assert.Equal(t, 0, sum.Skipped)
	require.Len(t, store.created, 1)

	cu := store.created[0]
	assert.Equal(t, model.RoleMember, cu.User.Role)
	assert.True(t, cu.User.IsVerified)
	require.NotNil(t, cu.Profile.Village)
	assert.Equal(t, "Kondapur", *cu.Profile.Village)

	// A filled _2 institution without a degree must not produce a second row.
	require.Len(t, cu.Education, 1)
	assert.Equal(t, "BTech", cu.Education[0].Degree)
	assert.Equal(t, "2015", cu.Education[0].YearOfPassing)

	require.Len(t, cu.Employment, 1)
	assert.True(t, cu.Employment[0].CurrentlyWorking)

	require.Len(t, cu.Family, 1)
	assert.Equal(t, "mother", cu.Family[0].Relation)
}

func TestImportCompositeUsersHashesPassword(t *testing.T) {
	store := &fakeCompositeStore{}

	sum := ImportCompositeUsers(context.Background(), store, []Record{compositeRecord()}, bcrypt.MinCost)
	require.Equal(t, 1, sum.Success)

	hash := store.created[0].User.PasswordHash
	assert.NotEqual(t, "secret123", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")))
}

func TestImportCompositeUsersMissingRequired(t *testing.T) {
	store := &fakeCompositeStore{}
	rec := compositeRecord()
	delete(rec, "password")

	sum := ImportCompositeUsers(context.Background(), store, []Record{rec}, bcrypt.MinCost)

	assert.Equal(t, 1, sum.Failure)
	require.Len(t, sum.Errors, 1)
	assert.Equal(t, "Missing required user fields", sum.Errors[0].Error)
	assert.Empty(t, store.created)
}

func TestImportCompositeUsersDuplicateSkipped(t *testing.T) {
	store := &fakeCompositeStore{}
	first := ImportCompositeUsers(context.Background(), store, []Record{compositeRecord()}, bcrypt.MinCost)
	require.Equal(t, 1, first.Success)

	second := ImportCompositeUsers(context.Background(), store, []Record{compositeRecord()}, bcrypt.MinCost)

	assert.Equal(t, 0, second.Success)
	assert.Equal(t, 1, second.Skipped)
	require.Len(t, second.Errors, 1)
	assert.Equal(t, "Duplicate (email/phone)", second.Errors[0].Error)
}

func TestImportCompositeUsersAtomicFailure(t *testing.T) {
	// A failing sub-record fails the whole row and persists nothing.
	store := &fakeCompositeStore{failErr: errors.New("value too long for column")}

	sum := ImportCompositeUsers(context.Background(), store, []Record{compositeRecord()}, bcrypt.MinCost)

	assert.Equal(t, 1, sum.Failure)
	assert.Equal(t, 0, sum.Success)
	assert.Empty(t, store.created)
	assert.Equal(t, 1, sum.Total())
}
