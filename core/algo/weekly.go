package algo

import (
	"time"

	"github.com/huangsam/orghealth/schema"
)

// TrendWeeks is the number of Monday buckets in a trend.
const TrendWeeks = 6

// WeekStart returns the ISO Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := schema.Day(t)
	return d.AddDate(0, 0, -(schema.ISOWeekday(d) - 1))
}

// MostRecentMonday returns the last Monday strictly before today.
// When today is itself a Monday, the previous Monday is used.
func MostRecentMonday(today time.Time) time.Time {
	d := schema.Day(today)
	monday := WeekStart(d)
	if monday.Equal(d) {
		monday = monday.AddDate(0, 0, -7)
	}
	return monday
}

// BucketMondays returns TrendWeeks Mondays ending at MostRecentMonday, ascending.
func BucketMondays(today time.Time) []time.Time {
	last := MostRecentMonday(today)
	mondays := make([]time.Time, TrendWeeks)
	for i := range mondays {
		mondays[i] = last.AddDate(0, 0, -7*(TrendWeeks-1-i))
	}
	return mondays
}

// WeeklyForOwner buckets one owner's updates into Monday points with carry-forward.
// Each bucket holds the latest update dated on or before its Monday. When updates
// exist after the last Monday, a final unsnapped point marked Current is appended.
func WeeklyForOwner(updates []schema.HealthUpdate, today time.Time) []schema.TrendPoint {
	sorted := make([]schema.HealthUpdate, len(updates))
	copy(sorted, updates)
	schema.SortUpdates(sorted)

	mondays := BucketMondays(today)
	points := make([]schema.TrendPoint, 0, TrendWeeks+1)

	next := 0
	var carried *schema.HealthUpdate
	for _, monday := range mondays {
		for next < len(sorted) && !sorted[next].Date.After(monday) {
			carried = &sorted[next]
			next++
		}
		points = append(points, pointFrom(monday, carried, false))
	}

	if len(sorted) > 0 && next < len(sorted) {
		latest := &sorted[len(sorted)-1]
		points = append(points, pointFrom(latest.Date, latest, true))
	}
	return points
}

func pointFrom(date time.Time, u *schema.HealthUpdate, current bool) schema.TrendPoint {
	if u == nil {
		return schema.TrendPoint{Date: date, Health: schema.NotAvailable, Current: current}
	}
	updateDate := u.Date
	return schema.TrendPoint{
		Date:        date,
		Health:      u.Health,
		UpdateDate:  &updateDate,
		Description: u.Description,
		Current:     current,
	}
}

// LastN returns the trailing n points.
func LastN[T any](points []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}

// LatestUpdate returns the update with the greatest date, or nil.
func LatestUpdate(updates []schema.HealthUpdate) *schema.HealthUpdate {
	var latest *schema.HealthUpdate
	for i := range updates {
		if latest == nil || updates[i].Date.After(latest.Date) {
			latest = &updates[i]
		}
	}
	return latest
}
