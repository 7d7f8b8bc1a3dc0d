package schema

import "time"

// TrendPoint is one bucket of a per-entity weekly trend.
type TrendPoint struct {
	Date        time.Time   `json:"date"`                  // Monday, or the update date for the current point
	Health      HealthValue `json:"health"`                // Carried-forward health for the bucket
	UpdateDate  *time.Time  `json:"update_date,omitempty"` // Date of the originating update
	Description string      `json:"description,omitempty"`
	Current     bool        `json:"current,omitempty"` // True for the unsnapped in-progress point
}

// WeeklyPoint is one week of the system-wide trend.
type WeeklyPoint struct {
	WeekStart time.Time   `json:"week_start"`
	Score     float64     `json:"score"`
	Health    HealthValue `json:"health"`
}

// ConfidenceFactors explains how the confidence score was reached.
type ConfidenceFactors struct {
	BiggestDrag           DragFactor `json:"biggest_drag"`
	VariancePenalty       int        `json:"variance_penalty"`
	StalenessPenalty      int        `json:"staleness_penalty"`
	CoveragePenalty       int        `json:"coverage_penalty"`
	DaysSinceUpdate       *int       `json:"days_since_update,omitempty"`
	ProjectsNeedingUpdate int        `json:"projects_needing_update"`
	ActiveProjects        int        `json:"active_projects"`
	FreshProjects         int        `json:"fresh_projects"`
}

// TrendConfidenceResult is the system-wide trend with its confidence signal.
type TrendConfidenceResult struct {
	Points          []WeeklyPoint     `json:"points"`
	Direction       Direction         `json:"direction"`
	Delta           float64           `json:"delta"`
	WeeksOfData     int               `json:"weeks_of_data"`
	ConfidenceScore int               `json:"confidence_score"`
	ConfidenceLevel ConfidenceLevel   `json:"confidence_level"`
	Factors         ConfidenceFactors `json:"confidence_factors"`
}
