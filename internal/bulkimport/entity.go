package bulkimport

import (
	"fmt"
	"strings"

	"github.com/dream-society/unity-nest/pkg/apperror"
)

// EntityType names one of the importable collections. The values match
// the `entity_type` form field accepted by the bulk upload endpoint.
type EntityType string

const (
	EntityUsers             EntityType = "users"
	EntityFamilyMembers     EntityType = "family_members"
	EntityEducationDetails  EntityType = "education_details"
	EntityEmploymentDetails EntityType = "employment_details"
	EntitySkills            EntityType = "skills"
	EntityJobs              EntityType = "jobs"
	EntityJobApplications   EntityType = "job_applications"
	EntityPayments          EntityType = "payments"
)

type dedupMode int

const (
	// matchAll: an existing row matching every dedup field is a duplicate.
	matchAll dedupMode = iota
	// matchAny: an existing row matching any one dedup field is a duplicate
	// (users: email OR phone).
	matchAny
)

// entityConfig is the per-entity declarative configuration driving the
// generic import loop. required gates validation, dedup defines the
// natural key, identify picks the fields echoed back in row errors.
type entityConfig struct {
	required []string
	dedup    []string
	mode     dedupMode
	identify []string
}

var entityConfigs = map[EntityType]entityConfig{
	EntityUsers: {
		required: []string{"full_name", "email", "phone", "password"},
		dedup:    []string{"email", "phone"},
		mode:     matchAny,
		identify: []string{"email", "phone"},
	},
	EntityFamilyMembers: {
		required: []string{"user_id", "name", "relation"},
		dedup:    []string{"user_id", "name", "relation"},
		identify: []string{"user_id", "name"},
	},
	EntityEducationDetails: {
		required: []string{"user_id", "degree", "institution", "year_of_passing"},
		dedup:    []string{"user_id", "degree", "institution", "year_of_passing"},
		identify: []string{"user_id", "degree"},
	},
	EntityEmploymentDetails: {
		required: []string{"user_id", "company_name", "role"},
		dedup:    []string{"user_id", "company_name", "role"},
		identify: []string{"user_id", "company_name"},
	},
	EntitySkills: {
		required: []string{"user_id", "skill_name"},
		dedup:    []string{"user_id", "skill_name"},
		identify: []string{"user_id", "skill_name"},
	},
	EntityJobs: {
		required: []string{"title", "job_type"},
		dedup:    []string{"title", "posted_by", "location"},
		identify: []string{"title"},
	},
	EntityJobApplications: {
		required: []string{"job_id", "user_id"},
		dedup:    []string{"job_id", "user_id"},
		identify: []string{"job_id", "user_id"},
	},
	EntityPayments: {
		required: []string{"user_id", "amount", "payment_method"},
		dedup:    []string{"user_id", "transaction_id"},
		identify: []string{"user_id", "transaction_id"},
	},
}

// ParseEntityType validates the entity name supplied by the caller.
func ParseEntityType(s string) (EntityType, error) {
	entity := EntityType(s)
	if _, ok := entityConfigs[entity]; !ok {
		return "", fmt.Errorf("%w: invalid or missing model type %q", apperror.ErrBadRequest, s)
	}
	return entity, nil
}

func (c entityConfig) duplicateMessage() string {
	return fmt.Sprintf("Duplicate (%s)", strings.Join(c.dedup, "/"))
}

func (c entityConfig) identifyingFields(rec Record) map[string]string {
	fields := make(map[string]string, len(c.identify))
	for _, f := range c.identify {
		fields[f] = rec[f]
	}
	return fields
}
