package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day-group keys of an operating-hours specification. A facility record
// carries at most one value per group; Sunday and national holidays share
// the holiday group.
const (
	HoursWeekday  = "weekday"
	HoursSaturday = "saturday"
	HoursHoliday  = "holiday"
	HoursEveryday = "everyday"
)

// OperatingHours maps a day-group key to either a strict "HH:MM-HH:MM"
// range or free text ("要問合せ" and the like). A nil map means the
// facility publishes no hours at all.
type OperatingHours map[string]string

// OpenStatus is the tri-state result of evaluating operating hours.
type OpenStatus string

const (
	StatusOpen    OpenStatus = "open"
	StatusClosed  OpenStatus = "closed"
	StatusUnknown OpenStatus = "unknown"
)

var timeRangePattern = regexp.MustCompile(`^(\d{2}):(\d{2})-(\d{2}):(\d{2})$`)

// StatusAt evaluates open/closed status at the given instant.
//
// The day group is chosen by precedence: the Saturday key on Saturdays,
// the holiday key on Sundays, the weekday key Monday through Friday,
// with the everyday key as the fallback when the specific group is not
// present. Missing hours, a missing group, or a value that is not a
// strict HH:MM-HH:MM range all resolve to StatusUnknown. The range is
// inclusive on both ends.
//
// Known limitation: ranges crossing midnight ("22:00-02:00") are not
// wrapped; such a range never matches and evaluates to closed.
func (h OperatingHours) StatusAt(t time.Time) OpenStatus {
	if len(h) == 0 {
		return StatusUnknown
	}

	spec, ok := h.rangeFor(t.Weekday())
	if !ok {
		return StatusUnknown
	}

	opens, closes, ok := parseTimeRange(spec)
	if !ok {
		return StatusUnknown
	}

	now := t.Hour()*60 + t.Minute()
	if now >= opens && now <= closes {
		return StatusOpen
	}
	return StatusClosed
}

// Summary returns a single displayable hours line for list views.
func (h OperatingHours) Summary() string {
	for _, key := range []string{HoursEveryday, HoursWeekday, HoursSaturday, HoursHoliday} {
		if v, ok := h[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

func (h OperatingHours) rangeFor(day time.Weekday) (string, bool) {
	switch day {
	case time.Saturday:
		if v, ok := h[HoursSaturday]; ok {
			return v, true
		}
	case time.Sunday:
		if v, ok := h[HoursHoliday]; ok {
			return v, true
		}
	default:
		if v, ok := h[HoursWeekday]; ok {
			return v, true
		}
	}
	v, ok := h[HoursEveryday]
	return v, ok
}

// parseTimeRange parses a strict "HH:MM-HH:MM" 24-hour range into
// minutes since midnight.
func parseTimeRange(spec string) (opens, closes int, ok bool) {
	m := timeRangePattern.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return 0, 0, false
	}

	oh, _ := strconv.Atoi(m[1])
	om, _ := strconv.Atoi(m[2])
	ch, _ := strconv.Atoi(m[3])
	cm, _ := strconv.Atoi(m[4])
	if oh > 23 || ch > 23 || om > 59 || cm > 59 {
		return 0, 0, false
	}

	return oh*60 + om, ch*60 + cm, true
}
