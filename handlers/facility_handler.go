package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"kawasaki_site/models"
	"kawasaki_site/service"
	"kawasaki_site/utils"
)

const defaultNearbyRadiusKm = 2.0

// FacilityHandler exposes the discovery engine over HTTP. All logic
// lives in the service; the handler only parses parameters and shapes
// responses.
type FacilityHandler struct {
	service *service.DiscoveryService
}

func NewFacilityHandler(s *service.DiscoveryService) *FacilityHandler {
	return &FacilityHandler{service: s}
}

// List handles GET /facilities with ward/category/open_only filters and
// an optional caller location.
func (h *FacilityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := models.FilterCriteria{
		Ward:     q.Get("ward"),
		Category: q.Get("category"),
		OpenOnly: q.Get("open_only") == "true",
	}

	loc, err := optionalLocation(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Discover(r.Context(), criteria, loc)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
	sendJSON(w, map[string]interface{}{
		"facilities": lightViews(result.Results),
		"count":      result.Total,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

// Detail handles GET /facilities/{id}.
func (h *FacilityHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	loc, err := optionalLocation(r)
	if err != nil {
		writeError(w, err)
		return
	}

	poi, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if loc != nil {
		d := utils.DistanceKm(loc.Latitude, loc.Longitude,
			poi.Coordinates.Latitude, poi.Coordinates.Longitude)
		poi.DistanceKm = &d
	}

	w.Header().Set("Cache-Control", "public, max-age=300") // Cache for 5 minutes
	sendJSON(w, map[string]interface{}{
		"facility":  poi.Detail(time.Now()),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Search handles GET /facilities/search?q=.
func (h *FacilityHandler) Search(w http.ResponseWriter, r *http.Request) {
	loc, err := optionalLocation(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), loc)
	if err != nil {
		writeError(w, err)
		return
	}

	sendJSON(w, map[string]interface{}{
		"facilities": lightViews(result.Results),
		"count":      result.Total,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

// Nearby handles GET /facilities/nearby?lat=&lon=&radius=.
func (h *FacilityHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	loc, err := optionalLocation(r)
	if err != nil {
		writeError(w, err)
		return
	}

	radius := defaultNearbyRadiusKm
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, &models.UsageError{Message: "radius must be a number"})
			return
		}
	}

	result, err := h.service.Nearby(r.Context(), loc, radius)
	if err != nil {
		writeError(w, err)
		return
	}

	sendJSON(w, map[string]interface{}{
		"facilities": lightViews(result.Results),
		"count":      result.Total,
		"radius_km":  radius,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

// CacheStats handles GET /facilities/cache/stats.
func (h *FacilityHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.service.CacheStats())
}

// InvalidateCache handles POST /facilities/cache/invalidate?ward=. The
// dataset is replaced periodically; this drops the affected lists
// without waiting out the TTL.
func (h *FacilityHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	ward := r.URL.Query().Get("ward")
	if ward == "" {
		ward = models.WardAll
	}
	if ward != models.WardAll && !models.IsValidWard(ward) {
		writeError(w, &models.UsageError{Message: "unknown ward " + strconv.Quote(ward)})
		return
	}

	removed := h.service.InvalidateWard(ward)
	sendJSON(w, map[string]interface{}{
		"ward":        ward,
		"invalidated": removed,
	})
}

// optionalLocation parses lat/lon query parameters. Both absent means
// no location; a half-specified or malformed pair is a usage error.
func optionalLocation(r *http.Request) (*service.UserLocation, error) {
	q := r.URL.Query()
	latRaw, lonRaw := q.Get("lat"), q.Get("lon")
	if latRaw == "" && lonRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lonRaw == "" {
		return nil, &models.UsageError{Message: "lat and lon must be supplied together"}
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, &models.UsageError{Message: "lat must be a number"}
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return nil, &models.UsageError{Message: "lon must be a number"}
	}
	if lat < -90 || lat > 90 {
		return nil, &models.UsageError{Message: "lat must be between -90 and 90"}
	}
	if lon < -180 || lon > 180 {
		return nil, &models.UsageError{Message: "lon must be between -180 and 180"}
	}
	return &service.UserLocation{Latitude: lat, Longitude: lon}, nil
}

func lightViews(pois []models.PointOfInterest) []models.FacilityLight {
	views := make([]models.FacilityLight, len(pois))
	for i, poi := range pois {
		views[i] = poi.Light()
	}
	return views
}
