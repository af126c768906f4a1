package service

import (
	"context"
	"log"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"kawasaki_site/models"
	"kawasaki_site/repository"
)

const (
	menuCacheDuration   = 12 * time.Hour
	menuCleanupInterval = 24 * time.Hour
)

// MenuService serves the monthly school-lunch menus. Plain validated
// records behind a month-keyed response cache; no ranking or geo logic.
type MenuService struct {
	source repository.MenuSource
	cache  *gocache.Cache
}

// NewMenuService wires the menu subsystem with its own cache instance.
func NewMenuService(source repository.MenuSource) *MenuService {
	return &MenuService{
		source: source,
		cache:  gocache.New(menuCacheDuration, menuCleanupInterval),
	}
}

// MonthlyMenu returns the validated menus for one YYYY-MM month,
// ordered by date.
func (s *MenuService) MonthlyMenu(ctx context.Context, month string) ([]models.LunchMenu, error) {
	if !models.IsValidMenuMonth(month) {
		return nil, &models.UsageError{Message: "month must be formatted as YYYY-MM"}
	}

	key := "menus:" + month
	if v, ok := s.cache.Get(key); ok {
		if menus, ok := v.([]models.LunchMenu); ok {
			return menus, nil
		}
	}

	raws, err := s.source.LoadMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	menus, skipped := models.NewLunchMenus(raws)
	if skipped > 0 {
		log.Printf("Menu load: skipped %d invalid records for %s", skipped, month)
	}
	sort.Slice(menus, func(i, j int) bool { return menus[i].Date < menus[j].Date })

	s.cache.Set(key, menus, gocache.DefaultExpiration)
	return menus, nil
}
