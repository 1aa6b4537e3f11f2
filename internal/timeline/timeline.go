// Package timeline turns a weather record into an ordered, labeled window of
// hourly entries around a reference instant.
package timeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/weatherdash/weather-dashboard/internal/forecast"
)

const dateLayout = "2006-01-02"

// Entry is an hourly reading annotated with its calendar date, a display
// label and past/current flags. Entries are derived fresh on every build and
// never mutated afterwards.
type Entry struct {
	forecast.HourlyReading
	Date    string `json:"date"`
	Current bool   `json:"current"`
	Past    bool   `json:"past"`
	Label   string `json:"label"`
}

// Build flattens the record's day buckets into one hourly sequence and
// extracts a window of up to 49 entries: 24 before the hour matching now, the
// current hour, and 24 after. It is a pure function of its inputs; a record
// with no hours yields an empty timeline, and a record that does not cover
// the current hour yields a window with no entry marked current.
func Build(record forecast.WeatherRecord, now time.Time) []Entry {
	var all []Entry
	for _, day := range record.Days {
		for _, h := range day.Hours {
			all = append(all, Entry{HourlyReading: h, Date: day.Date})
		}
	}
	if len(all) == 0 {
		return []Entry{}
	}

	currentDate := now.Format(dateLayout)
	currentHour := now.Hour()

	anchor := -1
	for i, e := range all {
		if e.Date == currentDate && hourOfDay(e.TimeOfDay) == currentHour {
			anchor = i
			break
		}
	}
	matched := anchor >= 0
	if !matched {
		// Anchor at the position where the current hour would sort.
		anchor = len(all)
		for i, e := range all {
			if e.Date > currentDate || (e.Date == currentDate && hourOfDay(e.TimeOfDay) > currentHour) {
				anchor = i
				break
			}
		}
	}

	start := anchor - 24
	if start < 0 {
		start = 0
	}
	end := anchor + 25
	if end > len(all) {
		end = len(all)
	}

	entries := make([]Entry, 0, end-start)
	for _, e := range all[start:end] {
		hour := hourOfDay(e.TimeOfDay)
		e.Current = matched && e.Date == currentDate && hour == currentHour
		e.Past = !e.Current && isBefore(e.Date, e.TimeOfDay, now)
		e.Label = hourLabel(e.Date, hour, now)
		entries = append(entries, e)
	}
	return entries
}

// hourOfDay parses the hour component of an "HH:MM" string. Malformed values
// return -1 and simply never match the current hour.
func hourOfDay(timeOfDay string) int {
	idx := strings.IndexByte(timeOfDay, ':')
	if idx < 0 {
		return -1
	}
	hour, err := strconv.Atoi(timeOfDay[:idx])
	if err != nil || hour < 0 || hour > 23 {
		return -1
	}
	return hour
}

// isBefore reports whether the entry's full timestamp is strictly before now,
// interpreted in now's location.
func isBefore(date, timeOfDay string, now time.Time) bool {
	ts, err := time.ParseInLocation(dateLayout+" 15:04", date+" "+timeOfDay, now.Location())
	if err != nil {
		return false
	}
	return ts.Before(now)
}

// hourLabel renders a 12-hour clock label ("12 AM" .. "11 PM"), prefixed with
// a relative day word when the date is exactly one day before, equal to, or
// one day after now's date.
func hourLabel(date string, hour int, now time.Time) string {
	var prefix string
	switch date {
	case now.AddDate(0, 0, -1).Format(dateLayout):
		prefix = "Yesterday "
	case now.Format(dateLayout):
		prefix = "Today "
	case now.AddDate(0, 0, 1).Format(dateLayout):
		prefix = "Tomorrow "
	}

	switch {
	case hour < 0:
		return strings.TrimSpace(prefix)
	case hour == 0:
		return prefix + "12 AM"
	case hour == 12:
		return prefix + "12 PM"
	case hour < 12:
		return prefix + strconv.Itoa(hour) + " AM"
	default:
		return prefix + strconv.Itoa(hour-12) + " PM"
	}
}
