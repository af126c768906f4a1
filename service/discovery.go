package service

import (
	"context"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"kawasaki_site/cache"
	"kawasaki_site/models"
	"kawasaki_site/repository"
	"kawasaki_site/utils"
)

// Cache key namespaces; list keys follow models.FilterCriteria.CacheKey.
const (
	listKeyPrefix   = "facilities:list:"
	detailKeyPrefix = "facilities:detail:"
)

// UserLocation is the caller's position for distance computation.
type UserLocation struct {
	Latitude  float64
	Longitude float64
}

// DiscoverResult is a filtered, sorted result set with its count.
type DiscoverResult struct {
	Results []models.PointOfInterest
	Total   int
}

// DiscoveryService orchestrates the facility queries: repository reads
// behind the TTL cache, transient distance computation, open-status
// filtering and consistent sorting. All collaborators are injected; the
// service keeps no state of its own beyond them.
type DiscoveryService struct {
	repo  *repository.FacilityRepository
	cache *cache.Cache
	ttl   time.Duration

	now func() time.Time // swapped in tests
}

// NewDiscoveryService wires the orchestrator. ttl is applied to every
// cached result set.
func NewDiscoveryService(repo *repository.FacilityRepository, c *cache.Cache, ttl time.Duration) *DiscoveryService {
	return &DiscoveryService{repo: repo, cache: c, ttl: ttl, now: time.Now}
}

// Discover answers a filtered list query. The cache key is a stable
// serialization of the normalized criteria; on a hit the repository is
// not touched at all. The per-request distance is attached after the
// cache round-trip and never stored.
func (s *DiscoveryService) Discover(ctx context.Context, criteria models.FilterCriteria, loc *UserLocation) (*DiscoverResult, error) {
	criteria = criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	pois, err := s.listFor(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if loc != nil {
		attachDistance(pois, *loc)
	}
	if criteria.OpenOnly {
		pois = filterOpen(pois, s.now())
	}
	sortResults(pois, loc != nil)

	return &DiscoverResult{Results: pois, Total: len(pois)}, nil
}

// GetByID resolves one facility, cached individually.
func (s *DiscoveryService) GetByID(ctx context.Context, id string) (*models.PointOfInterest, error) {
	if v, ok := s.cache.Get(detailKeyPrefix + id); ok {
		if poi, ok := v.(models.PointOfInterest); ok {
			return &poi, nil
		}
	}

	poi, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(detailKeyPrefix+id, *poi, s.ttl)
	return poi, nil
}

// Search runs a substring search and applies the same distance and
// sorting semantics as Discover. Search results are not cached; the
// term space is unbounded.
func (s *DiscoveryService) Search(ctx context.Context, term string, loc *UserLocation) (*DiscoverResult, error) {
	pois, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	if loc != nil {
		attachDistance(pois, *loc)
	}
	sortResults(pois, loc != nil)

	return &DiscoverResult{Results: pois, Total: len(pois)}, nil
}

// Nearby lists facilities within radiusKm of the caller, closest first.
// The radius boundary is inclusive. Candidates come from the same
// cached all-ward list Discover maintains, so repeated nearby calls do
// not reload the partitions.
func (s *DiscoveryService) Nearby(ctx context.Context, loc *UserLocation, radiusKm float64) (*DiscoverResult, error) {
	if loc == nil {
		return nil, &models.UsageError{Message: "nearby requires a user location"}
	}
	if radiusKm <= 0 {
		return nil, &models.UsageError{Message: "radius must be positive"}
	}

	pois, err := s.listFor(ctx, models.FilterCriteria{}.Normalize())
	if err != nil {
		return nil, err
	}

	within := make([]models.PointOfInterest, 0, len(pois))
	for _, poi := range pois {
		d := utils.DistanceKm(loc.Latitude, loc.Longitude,
			poi.Coordinates.Latitude, poi.Coordinates.Longitude)
		if d <= radiusKm {
			dist := d
			poi.DistanceKm = &dist
			within = append(within, poi)
		}
	}
	sortResults(within, true)

	return &DiscoverResult{Results: within, Total: len(within)}, nil
}

// InvalidateWard drops every cached list touching the ward, including
// the all-ward lists that contain its records. The wildcard ward drops
// the entire list namespace. Returns the number of entries removed.
func (s *DiscoveryService) InvalidateWard(ward string) int {
	var removed int
	if ward == models.WardAll {
		removed = s.cache.DeleteByPrefix(listKeyPrefix)
	} else {
		removed = s.cache.DeleteByPrefix(listKeyPrefix + "ward=" + ward)
		removed += s.cache.DeleteByPrefix(listKeyPrefix + "ward=" + models.WardAll)
	}
	removed += s.cache.DeleteByPrefix(detailKeyPrefix)
	return removed
}

// CacheStats exposes the cache snapshot for the operations endpoint.
func (s *DiscoveryService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// listFor returns the repository list for the criteria through the
// cache: reconstruct on a hit, fetch and store on a miss.
func (s *DiscoveryService) listFor(ctx context.Context, criteria models.FilterCriteria) ([]models.PointOfInterest, error) {
	key := criteria.CacheKey()
	if pois, found := s.cachedList(key); found {
		return pois, nil
	}

	fetched, err := s.repo.List(ctx, criteria)
	if err != nil {
		return nil, err
	}
	s.storeList(key, fetched)
	return fetched, nil
}

// cachedList reconstructs entities from the cached plain values. The
// cached slice is copied so per-request attributes never leak into the
// stored value. Anything unexpected in the cache degrades to a miss.
func (s *DiscoveryService) cachedList(key string) ([]models.PointOfInterest, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	stored, ok := v.([]models.PointOfInterest)
	if !ok {
		return nil, false
	}
	pois := make([]models.PointOfInterest, len(stored))
	copy(pois, stored)
	return pois, true
}

func (s *DiscoveryService) storeList(key string, pois []models.PointOfInterest) {
	stored := make([]models.PointOfInterest, len(pois))
	copy(stored, pois)
	s.cache.Set(key, stored, s.ttl)
}

func attachDistance(pois []models.PointOfInterest, loc UserLocation) {
	for i := range pois {
		d := utils.DistanceKm(loc.Latitude, loc.Longitude,
			pois[i].Coordinates.Latitude, pois[i].Coordinates.Longitude)
		pois[i].DistanceKm = &d
	}
}

// filterOpen keeps facilities whose status is open right now. Unknown
// status is excluded, never treated as open.
func filterOpen(pois []models.PointOfInterest, at time.Time) []models.PointOfInterest {
	open := make([]models.PointOfInterest, 0, len(pois))
	for _, poi := range pois {
		if poi.Hours.StatusAt(at) == models.StatusOpen {
			open = append(open, poi)
		}
	}
	return open
}

// sortResults orders by ascending distance when the caller supplied a
// location (entries without a distance last), otherwise by ward,
// category and name under Japanese collation.
func sortResults(pois []models.PointOfInterest, byDistance bool) {
	if byDistance {
		sort.SliceStable(pois, func(i, j int) bool {
			di, dj := pois[i].DistanceKm, pois[j].DistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
		return
	}

	// A collator is not safe for concurrent use, so build one per sort.
	col := collate.New(language.Japanese)
	sort.SliceStable(pois, func(i, j int) bool {
		if c := col.CompareString(pois[i].Ward, pois[j].Ward); c != 0 {
			return c < 0
		}
		if c := col.CompareString(pois[i].Category, pois[j].Category); c != 0 {
			return c < 0
		}
		return col.CompareString(pois[i].Name, pois[j].Name) < 0
	})
}
