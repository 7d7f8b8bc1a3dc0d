package algo

import (
	"math"
	"sort"
	"time"

	"github.com/huangsam/orghealth/schema"
)

// Trend and confidence tuning.
const (
	directionThreshold = 0.1 // |delta| beyond this is a move
	freshWindowDays    = 14  // an update within this many days counts as fresh

	stalePenaltySevere   = 30 // newest update older than 14 days
	stalePenaltyModerate = 15 // newest update older than 7 days

	coveragePenaltySevere   = 25 // fewer than half of projects fresh
	coveragePenaltyModerate = 10 // fewer than three quarters fresh

	highConfidence   = 70
	mediumConfidence = 40
)

// ProjectHistory is a root project with its own update history.
type ProjectHistory struct {
	Project schema.Project
	Updates []schema.HealthUpdate
}

// TrendConfidence computes the system-wide weekly trend over the active root projects
// and scores how much that trend can be trusted as of today.
func TrendConfidence(histories []ProjectHistory, today time.Time) schema.TrendConfidenceResult {
	today = schema.Day(today)
	active := activeHistories(histories)

	result := schema.TrendConfidenceResult{
		Points:          []schema.WeeklyPoint{},
		Direction:       schema.DirectionStable,
		ConfidenceLevel: schema.ConfidenceLow,
		Factors: schema.ConfidenceFactors{
			BiggestDrag:    schema.DragInsufficientData,
			ActiveProjects: len(active),
		},
	}
	if len(active) == 0 {
		return result
	}

	points := weeklyPoints(active)
	result.Points = points
	result.WeeksOfData = len(points)

	fresh, newest := freshness(active, today)
	result.Factors.FreshProjects = fresh
	result.Factors.ProjectsNeedingUpdate = len(active) - fresh
	if newest != nil {
		days := schema.DaysBetween(*newest, today)
		result.Factors.DaysSinceUpdate = &days
	}

	if len(points) == 0 {
		return result
	}

	if len(points) >= 2 {
		delta := points[len(points)-1].Score - points[0].Score
		result.Delta = RoundTo(delta, 2)
		switch {
		case delta > directionThreshold:
			result.Direction = schema.DirectionUp
		case delta < -directionThreshold:
			result.Direction = schema.DirectionDown
		}
	}

	base := 100.0
	if len(points) >= 2 {
		scores := make([]float64, len(points))
		for i, p := range points {
			scores[i] = p.Score
		}
		base = math.Max(0, 100-100*PopStddev(scores))
	}

	staleness := stalenessPenalty(result.Factors.DaysSinceUpdate)
	coverage := coveragePenalty(float64(fresh) / float64(len(active)))
	variance := int(math.Round(100 - base))

	result.ConfidenceScore = int(math.Max(0, math.Round(base-float64(staleness)-float64(coverage))))
	result.ConfidenceLevel = LevelFor(result.ConfidenceScore)
	result.Factors.VariancePenalty = variance
	result.Factors.StalenessPenalty = staleness
	result.Factors.CoveragePenalty = coverage
	result.Factors.BiggestDrag = biggestDrag(variance, staleness, coverage)
	return result
}

// LevelFor maps a confidence score to its level.
func LevelFor(score int) schema.ConfidenceLevel {
	switch {
	case score >= highConfidence:
		return schema.ConfidenceHigh
	case score >= mediumConfidence:
		return schema.ConfidenceMedium
	default:
		return schema.ConfidenceLow
	}
}

func activeHistories(histories []ProjectHistory) []ProjectHistory {
	active := make([]ProjectHistory, 0, len(histories))
	for _, h := range histories {
		if h.Project.IsActive() {
			active = append(active, h)
		}
	}
	return active
}

// weeklyPoints groups scored updates by ISO week and keeps the trailing TrendWeeks weeks.
func weeklyPoints(active []ProjectHistory) []schema.WeeklyPoint {
	byWeek := make(map[time.Time][]float64)
	for _, h := range active {
		for _, u := range h.Updates {
			if s, ok := Score(u.Health); ok {
				week := WeekStart(u.Date)
				byWeek[week] = append(byWeek[week], s)
			}
		}
	}

	weeks := make([]time.Time, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	weeks = LastN(weeks, TrendWeeks)

	points := make([]schema.WeeklyPoint, 0, len(weeks))
	for _, w := range weeks {
		mean, _ := Mean(byWeek[w])
		points = append(points, schema.WeeklyPoint{
			WeekStart: w,
			Score:     mean,
			Health:    ClassifyTrend(mean),
		})
	}
	return points
}

// freshness counts projects whose latest update is recent and finds the newest latest update.
func freshness(active []ProjectHistory, today time.Time) (int, *time.Time) {
	fresh := 0
	var newest *time.Time
	for _, h := range active {
		latest := LatestUpdate(h.Updates)
		if latest == nil {
			continue
		}
		if schema.DaysBetween(latest.Date, today) <= freshWindowDays {
			fresh++
		}
		if newest == nil || latest.Date.After(*newest) {
			d := latest.Date
			newest = &d
		}
	}
	return fresh, newest
}

func stalenessPenalty(daysSince *int) int {
	switch {
	case daysSince == nil:
		return 0
	case *daysSince > 14:
		return stalePenaltySevere
	case *daysSince > 7:
		return stalePenaltyModerate
	default:
		return 0
	}
}

func coveragePenalty(ratio float64) int {
	switch {
	case ratio < 0.5:
		return coveragePenaltySevere
	case ratio < 0.75:
		return coveragePenaltyModerate
	default:
		return 0
	}
}

// biggestDrag picks the largest penalty. Ties resolve in variance, staleness, coverage order.
func biggestDrag(variance, staleness, coverage int) schema.DragFactor {
	drag, worst := schema.DragNone, 0
	for _, c := range []struct {
		factor  schema.DragFactor
		penalty int
	}{
		{schema.DragVariance, variance},
		{schema.DragStaleness, staleness},
		{schema.DragCoverage, coverage},
	} {
		if c.penalty > worst {
			drag, worst = c.factor, c.penalty
		}
	}
	return drag
}
