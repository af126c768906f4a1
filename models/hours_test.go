package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2025-09-01 is a Monday.
var (
	monday   = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	saturday = time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	sunday   = time.Date(2025, 9, 7, 10, 0, 0, 0, time.UTC)
)

func at(base time.Time, hour, min int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, min, 0, 0, base.Location())
}

func TestStatusAtAbsentHoursIsUnknown(t *testing.T) {
	var h OperatingHours

	assert.Equal(t, StatusUnknown, h.StatusAt(monday))
	assert.Equal(t, StatusUnknown, OperatingHours{}.StatusAt(monday))
}

func TestStatusAtFreeTextIsUnknown(t *testing.T) {
	h := OperatingHours{HoursWeekday: "要問合せ"}

	assert.Equal(t, StatusUnknown, h.StatusAt(monday))
}

func TestStatusAtWeekdayRange(t *testing.T) {
	h := OperatingHours{HoursWeekday: "09:00-17:00"}

	assert.Equal(t, StatusClosed, h.StatusAt(at(monday, 8, 59)))
	assert.Equal(t, StatusOpen, h.StatusAt(at(monday, 9, 0)), "opening minute is inclusive")
	assert.Equal(t, StatusOpen, h.StatusAt(at(monday, 12, 30)))
	assert.Equal(t, StatusOpen, h.StatusAt(at(monday, 17, 0)), "closing minute is inclusive")
	assert.Equal(t, StatusClosed, h.StatusAt(at(monday, 17, 1)))
}

func TestStatusAtDayGroupPrecedence(t *testing.T) {
	h := OperatingHours{
		HoursWeekday:  "09:00-17:00",
		HoursSaturday: "10:00-15:00",
		HoursHoliday:  "11:00-14:00",
		HoursEveryday: "00:00-23:59",
	}

	// The specific group wins over the everyday fallback.
	assert.Equal(t, StatusClosed, h.StatusAt(at(saturday, 9, 30)))
	assert.Equal(t, StatusOpen, h.StatusAt(at(saturday, 10, 0)))
	assert.Equal(t, StatusClosed, h.StatusAt(at(sunday, 10, 30)))
	assert.Equal(t, StatusOpen, h.StatusAt(at(sunday, 11, 0)))
	assert.Equal(t, StatusClosed, h.StatusAt(at(monday, 8, 0)))
}

func TestStatusAtEverydayFallback(t *testing.T) {
	h := OperatingHours{HoursEveryday: "06:00-22:00"}

	assert.Equal(t, StatusOpen, h.StatusAt(at(monday, 7, 0)))
	assert.Equal(t, StatusOpen, h.StatusAt(at(saturday, 7, 0)))
	assert.Equal(t, StatusOpen, h.StatusAt(at(sunday, 7, 0)))
}

func TestStatusAtNoApplicableGroupIsUnknown(t *testing.T) {
	h := OperatingHours{HoursSaturday: "10:00-15:00"}

	assert.Equal(t, StatusUnknown, h.StatusAt(monday))
	assert.Equal(t, StatusUnknown, h.StatusAt(sunday))
}

func TestStatusAtMalformedRangeIsUnknown(t *testing.T) {
	for _, spec := range []string{"9:00-17:00", "09:00〜17:00", "09:00-25:00", "09:60-17:00", "0900-1700"} {
		h := OperatingHours{HoursWeekday: spec}
		assert.Equal(t, StatusUnknown, h.StatusAt(monday), "spec %q", spec)
	}
}

func TestStatusAtMidnightCrossingNeverMatches(t *testing.T) {
	// Ranges crossing midnight are a documented limitation: they are
	// parsed but never satisfied.
	h := OperatingHours{HoursEveryday: "22:00-02:00"}

	assert.Equal(t, StatusClosed, h.StatusAt(at(monday, 23, 0)))
	assert.Equal(t, StatusClosed, h.StatusAt(at(monday, 1, 0)))
}

func TestSummaryPrefersEverydayThenWeekday(t *testing.T) {
	assert.Equal(t, "06:00-22:00", OperatingHours{HoursEveryday: "06:00-22:00", HoursWeekday: "09:00-17:00"}.Summary())
	assert.Equal(t, "09:00-17:00", OperatingHours{HoursWeekday: "09:00-17:00"}.Summary())
	assert.Equal(t, "", OperatingHours(nil).Summary())
}
