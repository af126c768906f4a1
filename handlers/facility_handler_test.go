package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kawasaki_site/cache"
	"kawasaki_site/models"
	"kawasaki_site/repository"
	"kawasaki_site/service"
)

type fakeSource struct {
	records map[string][]models.RawRecord
}

func (f *fakeSource) LoadWard(_ context.Context, ward string) ([]models.RawRecord, error) {
	return f.records[ward], nil
}

func newTestRouter() *mux.Router {
	src := &fakeSource{records: map[string][]models.RawRecord{
		"川崎区": {
			{
				ID:       "lib-001",
				Name:     "川崎図書館",
				Category: "図書館",
				Ward:     "川崎区",
				Address:  "川崎市川崎区富士見1-1-1",
				Location: &models.Coordinates{Latitude: 35.5308, Longitude: 139.7029},
				Hours:    map[string]string{models.HoursWeekday: "09:30-19:00"},
			},
		},
	}}

	repo := repository.NewFacilityRepository(src)
	discovery := service.NewDiscoveryService(repo, cache.New(), time.Hour)
	h := NewFacilityHandler(discovery)

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/facilities", h.List).Methods("GET")
	r.HandleFunc("/api/v1/facilities/search", h.Search).Methods("GET")
	r.HandleFunc("/api/v1/facilities/nearby", h.Nearby).Methods("GET")
	r.HandleFunc("/api/v1/facilities/cache/stats", h.CacheStats).Methods("GET")
	r.HandleFunc("/api/v1/facilities/{id}", h.Detail).Methods("GET")
	return r
}

func doGet(t *testing.T, router *mux.Router, url string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestListReturnsLightProjection(t *testing.T) {
	router := newTestRouter()

	rec, body := doGet(t, router, "/api/v1/facilities?ward=川崎区")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	facilities := body["facilities"].([]interface{})
	first := facilities[0].(map[string]interface{})
	assert.Equal(t, "lib-001", first["id"])
	assert.Equal(t, "09:30-19:00", first["hours"])
	assert.NotContains(t, first, "open_status", "list view is the light projection")
}

func TestListRejectsUnknownWard(t *testing.T) {
	router := newTestRouter()

	rec, body := doGet(t, router, "/api/v1/facilities?ward=港北区")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "港北区")
}

func TestListRejectsHalfLocation(t *testing.T) {
	router := newTestRouter()

	rec, _ := doGet(t, router, "/api/v1/facilities?lat=35.53")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRejectsOutOfRangeLocation(t *testing.T) {
	router := newTestRouter()

	for _, query := range []string{
		"lat=999&lon=0",
		"lat=-90.1&lon=0",
		"lat=0&lon=180.1",
		"lat=0&lon=-999",
	} {
		rec, _ := doGet(t, router, "/api/v1/facilities?"+query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
	}
}

func TestDetailIncludesStatusAndDistance(t *testing.T) {
	router := newTestRouter()

	rec, body := doGet(t, router, "/api/v1/facilities/lib-001?lat=35.53&lon=139.70")

	assert.Equal(t, http.StatusOK, rec.Code)
	facility := body["facility"].(map[string]interface{})
	assert.Contains(t, facility, "open_status")
	assert.Contains(t, facility, "distance")
}

func TestDetailNotFound(t *testing.T) {
	router := newTestRouter()

	rec, _ := doGet(t, router, "/api/v1/facilities/ghost")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchTooShortIsBadRequest(t *testing.T) {
	router := newTestRouter()

	rec, _ := doGet(t, router, "/api/v1/facilities/search?q=a")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearbyRequiresCoordinates(t *testing.T) {
	router := newTestRouter()

	rec, _ := doGet(t, router, "/api/v1/facilities/nearby")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheStatsEndpoint(t *testing.T) {
	router := newTestRouter()

	// Warm the cache, then read the stats.
	doGet(t, router, "/api/v1/facilities?ward=川崎区")
	rec, body := doGet(t, router, "/api/v1/facilities/cache/stats")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["total_entries"])
	assert.Equal(t, float64(1), body["valid_entries"])
}
