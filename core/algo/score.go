// Package algo has the pure health scoring, weekly bucketing and trend algorithms.
package algo

import (
	"math"

	"github.com/huangsam/orghealth/schema"
)

// Classifier maps an average score in [-1, 1] to a health value.
type Classifier func(avg float64) schema.HealthValue

// Score maps a health value to its numeric score.
// not_available has no score and reports ok=false.
func Score(h schema.HealthValue) (float64, bool) {
	switch h {
	case schema.OnTrack:
		return 1, true
	case schema.AtRisk:
		return 0, true
	case schema.OffTrack:
		return -1, true
	default:
		return 0, false
	}
}

// Scores returns the scores of every health value that has one, in order.
func Scores(values []schema.HealthValue) []float64 {
	out := make([]float64, 0, len(values))
	for _, h := range values {
		if s, ok := Score(h); ok {
			out = append(out, s)
		}
	}
	return out
}

// Mean returns the arithmetic mean, or ok=false for empty input.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// PopStddev returns the population standard deviation, or 0 for empty input.
func PopStddev(values []float64) float64 {
	mean, ok := Mean(values)
	if !ok {
		return 0
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}

// ClassifyNode is the strict node policy: above 0.5 is on track,
// at or below -0.5 is off track.
func ClassifyNode(avg float64) schema.HealthValue {
	switch {
	case avg > 0.5:
		return schema.OnTrack
	case avg <= -0.5:
		return schema.OffTrack
	default:
		return schema.AtRisk
	}
}

// ClassifyTrend is the weekly trend policy with its asymmetric thresholds.
func ClassifyTrend(avg float64) schema.HealthValue {
	switch {
	case avg >= 0.51:
		return schema.OnTrack
	case avg <= -0.49:
		return schema.OffTrack
	default:
		return schema.AtRisk
	}
}

// ClassifyRounded rounds half away from zero and maps 1 and -1 to on and off track.
func ClassifyRounded(avg float64) schema.HealthValue {
	switch math.Round(avg) {
	case 1:
		return schema.OnTrack
	case -1:
		return schema.OffTrack
	default:
		return schema.AtRisk
	}
}

// ClassifierFor returns the node classifier for a policy. Unknown policies use strict.
func ClassifierFor(policy schema.NodePolicy) Classifier {
	if policy == schema.RoundedPolicy {
		return ClassifyRounded
	}
	return ClassifyNode
}

// Classify averages the values and classifies the mean.
// Empty input yields not_available and a nil raw score.
func Classify(values []float64, classify Classifier) (schema.HealthValue, *float64) {
	avg, ok := Mean(values)
	if !ok {
		return schema.NotAvailable, nil
	}
	return classify(avg), &avg
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
