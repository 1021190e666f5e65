package scoring

import (
	"math"

	"mindcheck/internal/model"
)

const (
	// PositiveThreshold is the lowest answer value counted as a positive symptom
	PositiveThreshold = 2
	MildThreshold     = 1.5
	ConcernThreshold  = 2.5
	SevereThreshold   = 3.5

	HealthGoodThreshold = 7.0
	HealthFairThreshold = 5.0
	HealthScoreMax      = 10.0
	GaugeMaxDegrees     = 180.0
)

const (
	ColorNormal  = "#48BB78"
	ColorMild    = "#F59E0B"
	ColorConcern = "#EF4444"
	ColorUnknown = "#6B7280"
)

// Classify bands an average: [0,1.5) normal, [1.5,2.5) mild, [2.5,∞) concern.
// Lower bounds are inclusive. NaN classifies as normal.
func Classify(avg float64) model.Band {
	switch {
	case avg >= ConcernThreshold:
		return model.BandConcern
	case avg >= MildThreshold:
		return model.BandMild
	default:
		return model.BandNormal
	}
}

// HealthScore inverts an average onto the 0-10 gauge scale
func HealthScore(avg float64) float64 {
	if math.IsNaN(avg) {
		avg = 0
	}
	return math.Max(0, HealthScoreMax-avg*2)
}

// ClassifyHealth bands a health score
func ClassifyHealth(score float64) model.HealthBand {
	switch {
	case score >= HealthGoodThreshold:
		return model.HealthGood
	case score >= HealthFairThreshold:
		return model.HealthFair
	default:
		return model.HealthNeedsAttention
	}
}

// GaugeAngle maps a health score onto a half-circle gauge
func GaugeAngle(score float64) float64 {
	return score * GaugeMaxDegrees / HealthScoreMax
}

// Risk maps the overall band to a risk level
func Risk(b model.Band) model.RiskLevel {
	switch b {
	case model.BandConcern:
		return model.RiskHigh
	case model.BandMild:
		return model.RiskModerate
	default:
		return model.RiskLow
	}
}

// BandColor is the legend color of a band
func BandColor(b model.Band) string {
	switch b {
	case model.BandNormal:
		return ColorNormal
	case model.BandMild:
		return ColorMild
	case model.BandConcern:
		return ColorConcern
	}
	return ColorUnknown
}

// RiskColor is the display color of a risk level
func RiskColor(r model.RiskLevel) string {
	switch r {
	case model.RiskLow:
		return ColorNormal
	case model.RiskModerate:
		return ColorMild
	case model.RiskHigh:
		return ColorConcern
	}
	return ColorUnknown
}

// Interpret is the four-step severity wording of an average
func Interpret(avg float64) string {
	switch {
	case avg < MildThreshold:
		return "正常范围"
	case avg < ConcernThreshold:
		return "轻度异常"
	case avg < SevereThreshold:
		return "中度异常"
	default:
		return "重度异常"
	}
}
