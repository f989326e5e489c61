package response

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wolontariat-api/internal/domain"
)

func marshalToMap(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return decoded
}

func TestNewParticipationResponse(t *testing.T) {
	now := time.Now()

	t.Run("minor volunteer carries the flag", func(t *testing.T) {
		age := 16
		p := domain.Participation{
			OfferID:     1,
			VolunteerID: 10,
			Status:      domain.StatusApplied,
			AppliedAt:   now,
			Volunteer:   &domain.User{ID: 10, Username: "ala", Age: &age, Role: domain.RoleVolunteer},
		}

		decoded := marshalToMap(t, NewParticipationResponse(p))

		volunteer, ok := decoded["volunteer"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, volunteer["minor"])
	})

	t.Run("adult volunteer carries an explicit false", func(t *testing.T) {
		age := 30
		p := domain.Participation{
			OfferID:     1,
			VolunteerID: 10,
			Status:      domain.StatusConfirmed,
			AppliedAt:   now,
			Volunteer:   &domain.User{ID: 10, Username: "ala", Age: &age, Role: domain.RoleVolunteer},
		}

		decoded := marshalToMap(t, NewParticipationResponse(p))

		volunteer, ok := decoded["volunteer"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, false, volunteer["minor"])
	})

	t.Run("unknown age omits the flag", func(t *testing.T) {
		p := domain.Participation{
			OfferID:     1,
			VolunteerID: 10,
			Status:      domain.StatusApplied,
			AppliedAt:   now,
			Volunteer:   &domain.User{ID: 10, Username: "ala", Role: domain.RoleVolunteer},
		}

		decoded := marshalToMap(t, NewParticipationResponse(p))

		volunteer, ok := decoded["volunteer"].(map[string]interface{})
		require.True(t, ok)
		assert.NotContains(t, volunteer, "minor")
	})

	t.Run("without a volunteer the key is absent", func(t *testing.T) {
		p := domain.Participation{OfferID: 1, VolunteerID: 10, Status: domain.StatusApplied, AppliedAt: now}

		decoded := marshalToMap(t, NewParticipationResponse(p))

		assert.NotContains(t, decoded, "volunteer")
	})
}

func TestNewOfferResponse(t *testing.T) {
	age := 15
	offer := domain.Offer{
		ID:       1,
		Title:    "pomoc przy zbiorce",
		Capacity: 2,
		Participations: []domain.Participation{
			{
				OfferID:     1,
				VolunteerID: 10,
				Status:      domain.StatusApplied,
				Volunteer:   &domain.User{ID: 10, Username: "ala", Age: &age, Role: domain.RoleVolunteer},
			},
		},
	}

	decoded := marshalToMap(t, NewOfferResponse(offer))

	participations, ok := decoded["participations"].([]interface{})
	require.True(t, ok)
	require.Len(t, participations, 1)

	participation, ok := participations[0].(map[string]interface{})
	require.True(t, ok)
	volunteer, ok := participation["volunteer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, volunteer["minor"])
}
