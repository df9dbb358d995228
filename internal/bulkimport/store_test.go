package bulkimport

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeyParsesIDFields(t *testing.T) {
	userID := uuid.New()

	query, err := normalizeKey(map[string]string{
		"user_id":    userID.String(),
		"skill_name": "Go",
	})
	require.NoError(t, err)

	assert.Equal(t, userID, query["user_id"])
	assert.Equal(t, "Go", query["skill_name"])
}

func TestNormalizeKeyEmptyPosterIsNull(t *testing.T) {
	// Jobs without a poster must dedup on posted_by IS NULL, not on a
	// uuid column compared against ''.
	query, err := normalizeKey(map[string]string{
		"title":     "Backend Engineer",
		"posted_by": "",
		"location":  "Hyderabad",
	})
	require.NoError(t, err)

	val, ok := query["posted_by"]
	require.True(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, "Backend Engineer", query["title"])
}

func TestNormalizeKeyRejectsBadUUID(t *testing.T) {
	_, err := normalizeKey(map[string]string{"user_id": "not-a-uuid"})
	assert.Error(t, err)
}
