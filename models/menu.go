package models

import (
	"log"
	"regexp"
	"strings"
)

var menuMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValidMenuMonth reports whether month is formatted as YYYY-MM.
func IsValidMenuMonth(month string) bool {
	return menuMonthPattern.MatchString(month)
}

// RawMenu is a school-lunch menu record as delivered by a data source.
type RawMenu struct {
	ID           string   `json:"id" bson:"_id"`
	Month        string   `json:"month" bson:"month"`
	Date         string   `json:"date" bson:"date"`
	Items        []string `json:"items" bson:"items"`
	EnergyKcal   float64  `json:"energy_kcal,omitempty" bson:"energy_kcal,omitempty"`
	ProteinGrams float64  `json:"protein_grams,omitempty" bson:"protein_grams,omitempty"`
	Notes        string   `json:"notes,omitempty" bson:"notes,omitempty"`
}

// LunchMenu is a validated daily menu. Plain records, no ranking or geo
// attributes; validation follows the same construction rules as the
// facility entity.
type LunchMenu struct {
	ID           string   `json:"id"`
	Month        string   `json:"month"`
	Date         string   `json:"date"`
	Items        []string `json:"items"`
	EnergyKcal   float64  `json:"energy_kcal,omitempty"`
	ProteinGrams float64  `json:"protein_grams,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// NewLunchMenu validates a raw menu record.
func NewLunchMenu(raw RawMenu) (*LunchMenu, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return nil, &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !IsValidMenuMonth(raw.Month) {
		return nil, &ValidationError{Field: "month", Reason: "must be formatted as YYYY-MM"}
	}
	if strings.TrimSpace(raw.Date) == "" {
		return nil, &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	if len(raw.Items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	if raw.EnergyKcal < 0 {
		return nil, &ValidationError{Field: "energy_kcal", Reason: "must not be negative"}
	}

	return &LunchMenu{
		ID:           strings.TrimSpace(raw.ID),
		Month:        raw.Month,
		Date:         raw.Date,
		Items:        raw.Items,
		EnergyKcal:   raw.EnergyKcal,
		ProteinGrams: raw.ProteinGrams,
		Notes:        raw.Notes,
	}, nil
}

// NewLunchMenus constructs every valid menu in the batch, skipping and
// counting invalid records.
func NewLunchMenus(raws []RawMenu) ([]LunchMenu, int) {
	menus := make([]LunchMenu, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		menu, err := NewLunchMenu(raw)
		if err != nil {
			log.Printf("Skipping menu record %q: %v", raw.ID, err)
			skipped++
			continue
		}
		menus = append(menus, *menu)
	}
	return menus, skipped
}
