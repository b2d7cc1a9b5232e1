package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "village/pkg/domain"
)

func TestDecode(t *testing.T) {
	identityID := id.IdentityID(uuid.New())
	eventID := uuid.New()
	value, err := json.Marshal(payload{
		ID:           eventID.String(),
		Category:     "compliance",
		Timestamp:    "2025-03-01T10:00:00Z",
		IdentityID:   identityID.String(),
		Action:       "onboarding_completed",
		Intent:       "seeking",
		VettingTypes: []string{"host", "care_needs"},
		RequestID:    "req-1",
	})
	require.NoError(t, err)

	event, err := Decode(value)
	require.NoError(t, err)
	assert.Equal(t, eventID, event.ID)
	assert.Equal(t, identityID, event.IdentityID)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), event.Timestamp)
	assert.Equal(t, []string{"host", "care_needs"}, event.VettingTypes)
	assert.Equal(t, "req-1", event.RequestID)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"identity_id":"nope"}`))
	assert.Error(t, err)
}
