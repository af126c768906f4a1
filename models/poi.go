package models

import (
	"fmt"
	"log"
	"strings"
	"time"

	"kawasaki_site/utils"
)

// Wildcard value accepted by filters for ward and category.
const (
	WardAll     = "all"
	CategoryAll = "all"
)

// Wards are the administrative partitions of the dataset. Every record
// belongs to exactly one; the data source stores one partition per ward.
var Wards = []string{
	"川崎区",
	"幸区",
	"中原区",
	"高津区",
	"宮前区",
	"多摩区",
	"麻生区",
}

// Categories is the closed set of facility types served by the finder.
var Categories = []string{
	"図書館",
	"市民館",
	"スポーツセンター",
	"公園",
	"博物館",
	"プール",
}

var (
	wardSet     = toSet(Wards)
	categorySet = toSet(Categories)
)

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// IsValidWard reports whether ward is a member of the closed ward set.
func IsValidWard(ward string) bool {
	_, ok := wardSet[ward]
	return ok
}

// IsValidCategory reports whether category is a member of the closed
// category set.
func IsValidCategory(category string) bool {
	_, ok := categorySet[category]
	return ok
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// RawRecord is the shape a data source delivers before validation.
type RawRecord struct {
	ID              string            `json:"id" bson:"_id"`
	Name            string            `json:"name" bson:"name"`
	Category        string            `json:"category" bson:"category"`
	Ward            string            `json:"ward" bson:"ward"`
	Address         string            `json:"address,omitempty" bson:"address,omitempty"`
	InstallLocation string            `json:"install_location,omitempty" bson:"install_location,omitempty"`
	Description     string            `json:"description,omitempty" bson:"description,omitempty"`
	Location        *Coordinates      `json:"location,omitempty" bson:"location,omitempty"`
	Hours           map[string]string `json:"hours,omitempty" bson:"hours,omitempty"`
	Access          string            `json:"access,omitempty" bson:"access,omitempty"`
	Facilities      []string          `json:"facilities,omitempty" bson:"facilities,omitempty"`
	Notes           string            `json:"notes,omitempty" bson:"notes,omitempty"`
	Updated         string            `json:"updated,omitempty" bson:"updated,omitempty"`
}

// PointOfInterest is a validated facility record. Instances are
// immutable once constructed except for DistanceKm, which is a
// per-request view attribute and never part of a stored value.
type PointOfInterest struct {
	ID              string
	Name            string
	Category        string
	Ward            string
	Address         string
	InstallLocation string
	Description     string
	AccessNotes     string
	Facilities      []string
	Coordinates     Coordinates
	Hours           OperatingHours
	Updated         string

	// DistanceKm is computed transiently from the caller's location.
	DistanceKm *float64
}

// NewPointOfInterest validates a raw record and constructs the entity.
// A record that fails any check yields a ValidationError and no entity.
func NewPointOfInterest(raw RawRecord) (*PointOfInterest, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "must not be empty"}
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if !IsValidCategory(raw.Category) {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", raw.Category)}
	}

	if !IsValidWard(raw.Ward) {
		return nil, &ValidationError{Field: "ward", Reason: fmt.Sprintf("unknown ward %q", raw.Ward)}
	}

	if raw.Location == nil {
		return nil, &ValidationError{Field: "location", Reason: "coordinates are required"}
	}
	if raw.Location.Latitude < -90 || raw.Location.Latitude > 90 {
		return nil, &ValidationError{Field: "location", Reason: "latitude out of range"}
	}
	if raw.Location.Longitude < -180 || raw.Location.Longitude > 180 {
		return nil, &ValidationError{Field: "location", Reason: "longitude out of range"}
	}

	return &PointOfInterest{
		ID:              id,
		Name:            name,
		Category:        raw.Category,
		Ward:            raw.Ward,
		Address:         strings.TrimSpace(raw.Address),
		InstallLocation: strings.TrimSpace(raw.InstallLocation),
		Description:     strings.TrimSpace(raw.Description),
		AccessNotes:     strings.TrimSpace(raw.Access),
		Facilities:      raw.Facilities,
		Coordinates:     *raw.Location,
		Hours:           OperatingHours(raw.Hours),
		Updated:         raw.Updated,
	}, nil
}

// NewPointsOfInterest constructs every valid record in the batch. An
// invalid record never aborts the batch: it is logged, skipped, and
// counted.
func NewPointsOfInterest(raws []RawRecord) ([]PointOfInterest, int) {
	pois := make([]PointOfInterest, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		poi, err := NewPointOfInterest(raw)
		if err != nil {
			log.Printf("Skipping facility record %q: %v", raw.ID, err)
			skipped++
			continue
		}
		pois = append(pois, *poi)
	}
	return pois, skipped
}

// FacilityLight is the reduced projection used by list, search and
// nearby responses.
type FacilityLight struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Ward       string      `json:"ward"`
	Address    string      `json:"address,omitempty"`
	Location   Coordinates `json:"location"`
	Hours      string      `json:"hours,omitempty"`
	DistanceKm *float64    `json:"distance_km,omitempty"`
	Distance   string      `json:"distance,omitempty"`
}

// FacilityDetail is the full projection, including computed open status
// and a formatted distance when the caller supplied a location.
type FacilityDetail struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	Ward            string         `json:"ward"`
	Address         string         `json:"address,omitempty"`
	InstallLocation string         `json:"install_location,omitempty"`
	Description     string         `json:"description,omitempty"`
	AccessNotes     string         `json:"access,omitempty"`
	Facilities      []string       `json:"facilities,omitempty"`
	Location        Coordinates    `json:"location"`
	Hours           OperatingHours `json:"hours,omitempty"`
	OpenStatus      OpenStatus     `json:"open_status"`
	DistanceKm      *float64       `json:"distance_km,omitempty"`
	Distance        string         `json:"distance,omitempty"`
	Updated         string         `json:"updated,omitempty"`
}

// Light returns the reduced projection.
func (p PointOfInterest) Light() FacilityLight {
	view := FacilityLight{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Ward:       p.Ward,
		Address:    p.Address,
		Location:   p.Coordinates,
		Hours:      p.Hours.Summary(),
		DistanceKm: p.DistanceKm,
	}
	if p.DistanceKm != nil {
		view.Distance = utils.FormatDistance(*p.DistanceKm)
	}
	return view
}

// Detail returns the full projection with open status evaluated at the
// given instant.
func (p PointOfInterest) Detail(at time.Time) FacilityDetail {
	view := FacilityDetail{
		ID:              p.ID,
		Name:            p.Name,
		Category:        p.Category,
		Ward:            p.Ward,
		Address:         p.Address,
		InstallLocation: p.InstallLocation,
		Description:     p.Description,
		AccessNotes:     p.AccessNotes,
		Facilities:      p.Facilities,
		Location:        p.Coordinates,
		Hours:           p.Hours,
		OpenStatus:      p.Hours.StatusAt(at),
		DistanceKm:      p.DistanceKm,
		Updated:         p.Updated,
	}
	if p.DistanceKm != nil {
		view.Distance = utils.FormatDistance(*p.DistanceKm)
	}
	return view
}
