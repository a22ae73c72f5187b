package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingPatchDistinguishesAbsentAndNull(t *testing.T) {
	var patch ListingPatch
	err := json.Unmarshal([]byte(`{"title":"Loft","amenities":null,"price":1200.5}`), &patch)
	require.NoError(t, err)

	assert.True(t, patch.Title.Set)
	assert.Equal(t, "Loft", patch.Title.Value)

	assert.True(t, patch.Amenities.Set)
	assert.True(t, patch.Amenities.Null)

	assert.True(t, patch.Price.Set)
	assert.Equal(t, 1200.5, patch.Price.Value)

	assert.False(t, patch.Description.Set)
	assert.False(t, patch.Status.Set)
}

func TestDateTimeLayouts(t *testing.T) {
	cases := map[string]time.Time{
		`"2025-06-01"`:                time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		`"2025-06-01T10:30:00"`:       time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		`"2025-06-01T10:30:00Z"`:      time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		`"2025-06-01T10:30:00+00:00"`: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		var d DateTime
		require.NoError(t, json.Unmarshal([]byte(raw), &d), raw)
		assert.True(t, want.Equal(d.Time), raw)
	}

	var d DateTime
	assert.Error(t, json.Unmarshal([]byte(`"next week"`), &d))
}

func TestValidListingStatus(t *testing.T) {
	assert.True(t, ValidListingStatus("rented"))
	assert.False(t, ValidListingStatus("archived"))
}
