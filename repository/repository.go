package repository

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"kawasaki_site/models"
	"kawasaki_site/utils"
)

// FacilityRepository merges the per-ward partitions of a Source into a
// queryable collection. Entities are reconstructed and revalidated on
// every read; nothing is mutated in place.
type FacilityRepository struct {
	source Source
}

// NewFacilityRepository wraps a data source.
func NewFacilityRepository(source Source) *FacilityRepository {
	return &FacilityRepository{source: source}
}

// List loads the partition(s) named by the criteria ward (all of them
// for the wildcard), validates the records, and applies the category
// filter. Invalid records are skipped and counted, never fatal.
func (r *FacilityRepository) List(ctx context.Context, criteria models.FilterCriteria) ([]models.PointOfInterest, error) {
	pois, err := r.loadWards(ctx, criteria.Ward)
	if err != nil {
		return nil, err
	}

	if criteria.Category == models.CategoryAll {
		return pois, nil
	}
	filtered := make([]models.PointOfInterest, 0, len(pois))
	for _, poi := range pois {
		if poi.Category == criteria.Category {
			filtered = append(filtered, poi)
		}
	}
	return filtered, nil
}

// GetByID scans every partition for the identifier. The dataset carries
// no cross-partition index, so this is a plain scan.
func (r *FacilityRepository) GetByID(ctx context.Context, id string) (*models.PointOfInterest, error) {
	for _, ward := range models.Wards {
		raws, err := r.source.LoadWard(ctx, ward)
		if err != nil {
			return nil, err
		}
		pois, _ := models.NewPointsOfInterest(raws)
		for i := range pois {
			if pois[i].ID == id {
				return &pois[i], nil
			}
		}
	}
	return nil, &models.NotFoundError{ID: id}
}

// Search matches term case-insensitively against name, address,
// category, ward and description across all partitions. Terms shorter
// than two characters are a usage error, not an empty result.
func (r *FacilityRepository) Search(ctx context.Context, term string) ([]models.PointOfInterest, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < 2 {
		return nil, &models.UsageError{Message: "search term must be at least 2 characters"}
	}

	pois, err := r.loadWards(ctx, models.WardAll)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matched := make([]models.PointOfInterest, 0)
	for _, poi := range pois {
		if matchesTerm(poi, needle) {
			matched = append(matched, poi)
		}
	}
	return matched, nil
}

// Nearby computes the distance to every candidate and keeps those
// within radiusKm, boundary inclusive. The computed distance is
// attached to the returned copies as a view attribute.
func (r *FacilityRepository) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]models.PointOfInterest, error) {
	pois, err := r.loadWards(ctx, models.WardAll)
	if err != nil {
		return nil, err
	}

	within := make([]models.PointOfInterest, 0)
	for _, poi := range pois {
		d := utils.DistanceKm(lat, lon, poi.Coordinates.Latitude, poi.Coordinates.Longitude)
		if d <= radiusKm {
			dist := d
			poi.DistanceKm = &dist
			within = append(within, poi)
		}
	}
	return within, nil
}

func (r *FacilityRepository) loadWards(ctx context.Context, ward string) ([]models.PointOfInterest, error) {
	wards := []string{ward}
	if ward == models.WardAll {
		wards = models.Wards
	}

	var all []models.PointOfInterest
	skipped := 0
	for _, w := range wards {
		raws, err := r.source.LoadWard(ctx, w)
		if err != nil {
			return nil, err
		}
		pois, n := models.NewPointsOfInterest(raws)
		skipped += n
		all = append(all, pois...)
	}
	if skipped > 0 {
		log.Printf("Facility load: skipped %d invalid records", skipped)
	}
	return all, nil
}

func matchesTerm(poi models.PointOfInterest, needle string) bool {
	for _, field := range []string{poi.Name, poi.Address, poi.Category, poi.Ward, poi.Description} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
