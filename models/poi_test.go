package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() RawRecord {
	return RawRecord{
		ID:       "lib-001",
		Name:     "川崎図書館",
		Category: "図書館",
		Ward:     "川崎区",
		Address:  "川崎市川崎区富士見1-1-1",
		Location: &Coordinates{Latitude: 35.5308, Longitude: 139.7029},
		Hours:    map[string]string{HoursWeekday: "09:30-19:00"},
	}
}

func TestNewPointOfInterestValid(t *testing.T) {
	poi, err := NewPointOfInterest(validRaw())

	require.NoError(t, err)
	assert.Equal(t, "lib-001", poi.ID)
	assert.Equal(t, "川崎図書館", poi.Name)
	assert.Equal(t, "図書館", poi.Category)
	assert.Equal(t, "川崎区", poi.Ward)
	assert.Equal(t, 35.5308, poi.Coordinates.Latitude)
	assert.Equal(t, "09:30-19:00", poi.Hours[HoursWeekday])
	assert.Nil(t, poi.DistanceKm)
}

func TestNewPointOfInterestRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawRecord)
	}{
		{"empty id", func(r *RawRecord) { r.ID = "  " }},
		{"empty name", func(r *RawRecord) { r.Name = "" }},
		{"unknown category", func(r *RawRecord) { r.Category = "温泉" }},
		{"missing ward", func(r *RawRecord) { r.Ward = "" }},
		{"unknown ward", func(r *RawRecord) { r.Ward = "港北区" }},
		{"missing coordinates", func(r *RawRecord) { r.Location = nil }},
		{"latitude too high", func(r *RawRecord) { r.Location.Latitude = 90.1 }},
		{"latitude too low", func(r *RawRecord) { r.Location.Latitude = -90.1 }},
		{"longitude too high", func(r *RawRecord) { r.Location.Longitude = 180.1 }},
		{"longitude too low", func(r *RawRecord) { r.Location.Longitude = -180.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			poi, err := NewPointOfInterest(raw)

			assert.Nil(t, poi, "a failed construction must not yield an entity")
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
		})
	}
}

func TestNewPointsOfInterestSkipsInvalidRecords(t *testing.T) {
	bad := validRaw()
	bad.Ward = ""
	worse := validRaw()
	worse.Location = nil

	pois, skipped := NewPointsOfInterest([]RawRecord{validRaw(), bad, worse})

	assert.Len(t, pois, 1)
	assert.Equal(t, 2, skipped)
}

func TestLightProjection(t *testing.T) {
	poi, err := NewPointOfInterest(validRaw())
	require.NoError(t, err)

	d := 0.25
	poi.DistanceKm = &d
	view := poi.Light()

	assert.Equal(t, "lib-001", view.ID)
	assert.Equal(t, "09:30-19:00", view.Hours)
	assert.Equal(t, "250m", view.Distance)
}

func TestDetailProjectionComputesStatus(t *testing.T) {
	poi, err := NewPointOfInterest(validRaw())
	require.NoError(t, err)

	view := poi.Detail(at(monday, 10, 0))
	assert.Equal(t, StatusOpen, view.OpenStatus)
	assert.Empty(t, view.Distance)

	view = poi.Detail(at(sunday, 10, 0))
	assert.Equal(t, StatusUnknown, view.OpenStatus)
}
