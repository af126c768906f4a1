package models

import "fmt"

// FilterCriteria is the closed filter accepted by list-style queries.
// Values are fixed at construction; unknown wards or categories are
// rejected by Validate rather than silently ignored.
type FilterCriteria struct {
	Ward     string
	Category string
	OpenOnly bool
}

// Normalize fills wildcard defaults for empty fields.
func (c FilterCriteria) Normalize() FilterCriteria {
	if c.Ward == "" {
		c.Ward = WardAll
	}
	if c.Category == "" {
		c.Category = CategoryAll
	}
	return c
}

// Validate rejects values outside the closed ward/category sets.
func (c FilterCriteria) Validate() error {
	if c.Ward != WardAll && !IsValidWard(c.Ward) {
		return &UsageError{Message: fmt.Sprintf("unknown ward %q", c.Ward)}
	}
	if c.Category != CategoryAll && !IsValidCategory(c.Category) {
		return &UsageError{Message: fmt.Sprintf("unknown category %q", c.Category)}
	}
	return nil
}

// CacheKey serializes the criteria into a stable cache key. Fields are
// emitted in a fixed order so logically identical criteria always map
// to the same key. Keys share the "facilities:list:" namespace so one
// ward can be invalidated by prefix.
func (c FilterCriteria) CacheKey() string {
	return fmt.Sprintf("facilities:list:ward=%s:category=%s:open=%t", c.Ward, c.Category, c.OpenOnly)
}
